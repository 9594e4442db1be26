package coretypecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/corelower/internal/coreast"
)

func ifForceApp(cond, then, els coreast.Expr) *coreast.App {
	inner := &coreast.App{
		Func: &coreast.LitBuiltin{Name: "if"},
		Args: []coreast.Expr{cond, &coreast.Lambda{Body: then}, &coreast.Lambda{Body: els}},
	}
	return &coreast.App{Func: inner}
}

func TestVerifyANFAcceptsIfForceApp(t *testing.T) {
	prog := &coreast.Program{Result: ifForceApp(
		&coreast.LitBool{Value: true},
		&coreast.LitInt{Value: 1},
		&coreast.LitInt{Value: 2},
	)}
	assert.NoError(t, VerifyANF(prog))
}

func TestVerifyANFRejectsBareIf(t *testing.T) {
	prog := &coreast.Program{Result: &coreast.If{
		Cond: &coreast.LitBool{Value: true},
		Then: &coreast.LitInt{Value: 1},
		Else: &coreast.LitInt{Value: 2},
	}}
	assert.Error(t, VerifyANF(prog))
}

func TestVerifyANFRejectsNonThunkIfBranch(t *testing.T) {
	inner := &coreast.App{
		Func: &coreast.LitBuiltin{Name: "if"},
		Args: []coreast.Expr{
			&coreast.LitBool{Value: true},
			&coreast.LitInt{Value: 1}, // not a lambda thunk
			&coreast.Lambda{Body: &coreast.LitInt{Value: 2}},
		},
	}
	prog := &coreast.Program{Result: &coreast.App{Func: inner}}
	assert.Error(t, VerifyANF(prog))
}

func TestVerifyANFRejectsOrdinaryNestedApp(t *testing.T) {
	inner := &coreast.App{Func: &coreast.LitBuiltin{Name: "add"}, Args: []coreast.Expr{&coreast.LitInt{Value: 1}}}
	prog := &coreast.Program{Result: &coreast.App{Func: inner, Args: []coreast.Expr{&coreast.LitInt{Value: 2}}}}
	require.Error(t, VerifyANF(prog))
}

func TestVerifyANFRejectsRebinding(t *testing.T) {
	prog := &coreast.Program{Result: &coreast.Let{
		Name: "x", Value: &coreast.LitInt{Value: 1},
		Body: &coreast.Let{Name: "x", Value: &coreast.LitInt{Value: 2}, Body: &coreast.Var{Name: "x"}},
	}}
	assert.Error(t, VerifyANF(prog))
}
