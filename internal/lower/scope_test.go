package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeDefineResolvesToItself(t *testing.T) {
	s := NewScope()
	s.Define("x")
	assert.True(t, s.IsDefined("x"))
	assert.Equal(t, "x", s.Resolve("x"))
}

func TestScopeBindRenames(t *testing.T) {
	s := NewScope()
	s.Bind("acc", "$v1")
	assert.True(t, s.IsDefined("acc"))
	assert.Equal(t, "$v1", s.Resolve("acc"))
}

func TestScopeResolveUnknownNameIsIdentity(t *testing.T) {
	s := NewScope()
	assert.Equal(t, "y", s.Resolve("y"))
	assert.False(t, s.IsDefined("y"))
}

func TestScopeWithScopeRollsBack(t *testing.T) {
	s := NewScope()
	s.Bind("acc", "$v1")

	err := s.WithScope(func() error {
		s.Bind("acc", "$v2")
		s.Define("tmp")
		assert.Equal(t, "$v2", s.Resolve("acc"))
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "$v1", s.Resolve("acc"))
	assert.False(t, s.IsDefined("tmp"))
}

func TestScopeWithScopeRollsBackEvenOnError(t *testing.T) {
	s := NewScope()
	s.Define("x")

	err := s.WithScope(func() error {
		s.Define("y")
		return assert.AnError
	})
	assert.Error(t, err)
	assert.False(t, s.IsDefined("y"))
	assert.True(t, s.IsDefined("x"))
}
