package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/corelower/internal/errors"
	"github.com/sunholo/corelower/internal/srcast"
)

func TestBinOpNameResolvesArithmetic(t *testing.T) {
	name, err := binOpName(srcast.Add, srcast.Span{})
	require.NoError(t, err)
	assert.Equal(t, "add", name)
}

func TestBinOpNameRejectsMatMult(t *testing.T) {
	_, err := binOpName(srcast.MatMult, srcast.Span{})
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.LOW003, rep.Code)
}

func TestBinOpNameRejectsTrueDiv(t *testing.T) {
	_, err := binOpName(srcast.TrueDiv, srcast.Span{})
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.LOW004, rep.Code)
}

func TestBinOpBuiltinTableCoversEveryMappedOp(t *testing.T) {
	for op, want := range binOpBuiltin {
		got, err := binOpName(op, srcast.Span{})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
