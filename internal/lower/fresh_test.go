package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreshVarDistinctAndPrefixed(t *testing.T) {
	ns := NewNameSupply(0)
	a := ns.FreshVar()
	b := ns.FreshVar()
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, freshPrefix)
	assert.Contains(t, b, freshPrefix)
}

func TestFreshTypeDistinct(t *testing.T) {
	ns := NewNameSupply(0)
	a := ns.FreshType()
	b := ns.FreshType()
	assert.NotEqual(t, a.Name, b.Name)
}

func TestNameSupplyHonorsStartCounter(t *testing.T) {
	a := NewNameSupply(100).FreshVar()
	b := NewNameSupply(0).FreshVar()
	assert.NotEqual(t, a, b)
}
