package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/corelower/internal/coreast"
	"github.com/sunholo/corelower/internal/coretypecheck"
	"github.com/sunholo/corelower/internal/errors"
	"github.com/sunholo/corelower/internal/srcast"
)

func TestLowerExprVarResolvesThroughScope(t *testing.T) {
	l := NewLowerer(0)
	l.scope.Bind("acc", "$v7")
	got, err := l.lowerExpr(&srcast.Var{Name: "acc"})
	require.NoError(t, err)
	assert.Equal(t, "$v7", got.(*coreast.Var).Name)
}

func TestLowerExprIntLit(t *testing.T) {
	l := NewLowerer(0)
	got, err := l.lowerExpr(&srcast.IntLit{Value: 42})
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.(*coreast.LitInt).Value)
}

func TestLowerExprBinOpAppliesBuiltin(t *testing.T) {
	l := NewLowerer(0)
	got, err := l.lowerExpr(&srcast.BinOp{Op: srcast.Add, Left: &srcast.IntLit{Value: 1}, Right: &srcast.IntLit{Value: 2}})
	require.NoError(t, err)
	app, ok := got.(*coreast.App)
	require.True(t, ok)
	assert.Equal(t, "add", app.Func.(*coreast.LitBuiltin).Name)
	require.Len(t, app.Args, 2)
}

func TestLowerExprBinOpRejectsTrueDiv(t *testing.T) {
	l := NewLowerer(0)
	_, err := l.lowerExpr(&srcast.BinOp{Op: srcast.TrueDiv, Left: &srcast.IntLit{Value: 1}, Right: &srcast.IntLit{Value: 2}})
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.LOW004, rep.Code)
}

func TestLowerExprTupleLitAtomizesNonAtomicElements(t *testing.T) {
	l := NewLowerer(0)
	got, err := l.lowerExpr(&srcast.TupleLit{Elems: []srcast.Expr{
		&srcast.BinOp{Op: srcast.Add, Left: &srcast.IntLit{Value: 1}, Right: &srcast.IntLit{Value: 2}},
		&srcast.IntLit{Value: 3},
	}})
	require.NoError(t, err)
	// the non-atomic sum is let-bound before the tuple is constructed
	let, ok := got.(*coreast.Let)
	require.True(t, ok)
	tuple, ok := let.Body.(*coreast.TupleCtor)
	require.True(t, ok)
	require.Len(t, tuple.Elems, 2)
}

func TestLowerCallRejectsInput(t *testing.T) {
	l := NewLowerer(0)
	_, err := l.lowerExpr(&srcast.Call{Func: &srcast.BuiltinRef{Name: "input"}})
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.LOW006, rep.Code)
}

func TestLowerCallRejectsPrint(t *testing.T) {
	l := NewLowerer(0)
	_, err := l.lowerExpr(&srcast.Call{Func: &srcast.BuiltinRef{Name: "print"}, Args: []srcast.Expr{&srcast.IntLit{Value: 1}}})
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.LOW006, rep.Code)
}

func TestLowerCallMaxRequiresAtLeastOneArg(t *testing.T) {
	l := NewLowerer(0)
	_, err := l.lowerExpr(&srcast.Call{Func: &srcast.BuiltinRef{Name: "max"}})
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.LOW101, rep.Code)
}

// spec.md §4.E: max/min is 1-ary over a list as well as variadic; the
// 1-ary form calls maxList/minList directly rather than folding max2/min2.
func TestLowerCallMaxOverOneListArgCallsMaxList(t *testing.T) {
	l := NewLowerer(0)
	got, err := l.lowerExpr(&srcast.Call{Func: &srcast.BuiltinRef{Name: "max"}, Args: []srcast.Expr{&srcast.Var{Name: "xs"}}})
	require.NoError(t, err)
	app, ok := got.(*coreast.App)
	require.True(t, ok)
	assert.Equal(t, "maxList", app.Func.(*coreast.LitBuiltin).Name)
	require.Len(t, app.Args, 1)
}

func TestLowerCallMinOverOneListArgCallsMinList(t *testing.T) {
	l := NewLowerer(0)
	got, err := l.lowerExpr(&srcast.Call{Func: &srcast.BuiltinRef{Name: "min"}, Args: []srcast.Expr{&srcast.Var{Name: "xs"}}})
	require.NoError(t, err)
	app, ok := got.(*coreast.App)
	require.True(t, ok)
	assert.Equal(t, "minList", app.Func.(*coreast.LitBuiltin).Name)
	require.Len(t, app.Args, 1)
}

func TestLowerCallMaxFoldsTwoArgsIntoBareMax2(t *testing.T) {
	l := NewLowerer(0)
	got, err := l.lowerExpr(&srcast.Call{Func: &srcast.BuiltinRef{Name: "max"}, Args: []srcast.Expr{
		&srcast.IntLit{Value: 1}, &srcast.IntLit{Value: 2},
	}})
	require.NoError(t, err)
	app, ok := got.(*coreast.App)
	require.True(t, ok)
	assert.Equal(t, "max2", app.Func.(*coreast.LitBuiltin).Name)
	require.Len(t, app.Args, 2)
}

// With 3+ args the chain's intermediate max2 link is not itself the
// outer result (it feeds the outer max2 as an argument), so the fold
// atomizes it: the lowering is a Let binding the inner max2(2, 3) before
// applying the outer max2(1, ...) to it.
func TestLowerCallMaxFoldsVariadicIntoMax2ChainWithAtomizedLinks(t *testing.T) {
	l := NewLowerer(0)
	got, err := l.lowerExpr(&srcast.Call{Func: &srcast.BuiltinRef{Name: "max"}, Args: []srcast.Expr{
		&srcast.IntLit{Value: 1}, &srcast.IntLit{Value: 2}, &srcast.IntLit{Value: 3},
	}})
	require.NoError(t, err)
	let, ok := got.(*coreast.Let)
	require.True(t, ok)
	innerApp, ok := let.Value.(*coreast.App)
	require.True(t, ok)
	assert.Equal(t, "max2", innerApp.Func.(*coreast.LitBuiltin).Name)

	outerApp, ok := let.Body.(*coreast.App)
	require.True(t, ok)
	assert.Equal(t, "max2", outerApp.Func.(*coreast.LitBuiltin).Name)
	require.Len(t, outerApp.Args, 2)
	linkVar, ok := outerApp.Args[1].(*coreast.Var)
	require.True(t, ok)
	assert.Equal(t, let.Name, linkVar.Name)

	require.NoError(t, coretypecheck.VerifyANF(&coreast.Program{Result: got}))
}

// unwrapLets strips nested Let bindings to reach the final expression,
// mirroring how scenarios_test.go peels Eager-wrap's let chains.
func unwrapLets(e coreast.Expr) coreast.Expr {
	for {
		let, ok := e.(*coreast.Let)
		if !ok {
			return e
		}
		e = let.Body
	}
}

func TestLowerCallZipRequiresAtLeastOneList(t *testing.T) {
	l := NewLowerer(0)
	_, err := l.lowerExpr(&srcast.Call{Func: &srcast.BuiltinRef{Name: "zip"}})
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.LOW101, rep.Code)
}

// spec.md §4.E: zip over K input lists desugars to
// map (λi. (xs0[i], ..., xsK-1[i])) (range1 (min (len xs0) ... (len xsK-1))).
func TestLowerCallZipDesugarsToIndexedMap(t *testing.T) {
	l := NewLowerer(0)
	got, err := l.lowerExpr(&srcast.Call{Func: &srcast.BuiltinRef{Name: "zip"}, Args: []srcast.Expr{
		&srcast.Var{Name: "xs"}, &srcast.Var{Name: "ys"}, &srcast.Var{Name: "zs"},
	}})
	require.NoError(t, err)
	require.NoError(t, coretypecheck.VerifyANF(&coreast.Program{Result: got}))

	mapApp, ok := unwrapLets(got).(*coreast.App)
	require.True(t, ok)
	require.Len(t, mapApp.Args, 2)
	assert.Equal(t, "map", mapApp.Func.(*coreast.LitBuiltin).Name)
	rangeApp, ok := mapApp.Args[1].(*coreast.App)
	require.True(t, ok)
	assert.Equal(t, "range1", rangeApp.Func.(*coreast.LitBuiltin).Name)

	lam, ok := mapApp.Args[0].(*coreast.Lambda)
	require.True(t, ok)
	tuple, ok := unwrapLets(lam.Body).(*coreast.TupleCtor)
	require.True(t, ok)
	require.Len(t, tuple.Elems, 3)

	s := got.String()
	assert.Contains(t, s, "len")
	assert.Contains(t, s, "min2")
	assert.Contains(t, s, "at")
}

// spec.md §4.E: enumerate(xs) desugars to map (λi. (i, xs[i])) (range1 (len xs)).
func TestLowerCallEnumerateDesugarsToIndexedMap(t *testing.T) {
	l := NewLowerer(0)
	got, err := l.lowerExpr(&srcast.Call{Func: &srcast.BuiltinRef{Name: "enumerate"}, Args: []srcast.Expr{
		&srcast.Var{Name: "xs"},
	}})
	require.NoError(t, err)
	require.NoError(t, coretypecheck.VerifyANF(&coreast.Program{Result: got}))

	mapApp, ok := unwrapLets(got).(*coreast.App)
	require.True(t, ok)
	assert.Equal(t, "map", mapApp.Func.(*coreast.LitBuiltin).Name)
	rangeApp, ok := mapApp.Args[1].(*coreast.App)
	require.True(t, ok)
	assert.Equal(t, "range1", rangeApp.Func.(*coreast.LitBuiltin).Name)
	// a single list's length is already its own minimum: no min2 fold.
	assert.NotContains(t, got.String(), "min2")

	lam, ok := mapApp.Args[0].(*coreast.Lambda)
	require.True(t, ok)
	tuple, ok := unwrapLets(lam.Body).(*coreast.TupleCtor)
	require.True(t, ok)
	require.Len(t, tuple.Elems, 2)
	idx, ok := tuple.Elems[0].(*coreast.Var)
	require.True(t, ok)
	assert.Equal(t, lam.Params[0].Name, idx.Name)
}

func TestLowerCallMapRequiresFunctionAndList(t *testing.T) {
	l := NewLowerer(0)
	_, err := l.lowerExpr(&srcast.Call{Func: &srcast.BuiltinRef{Name: "map"}, Args: []srcast.Expr{&srcast.Var{Name: "f"}}})
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.LOW101, rep.Code)
}

// spec.md §4.E: map over K input lists applies f to the K indexed
// elements rather than treating f as unary, so this must work for K=1
// (the common case) and K>1 alike through the same desugaring.
func TestLowerCallMapOverTwoListsAppliesFToBothElements(t *testing.T) {
	l := NewLowerer(0)
	got, err := l.lowerExpr(&srcast.Call{Func: &srcast.BuiltinRef{Name: "map"}, Args: []srcast.Expr{
		&srcast.Var{Name: "f"}, &srcast.Var{Name: "xs"}, &srcast.Var{Name: "ys"},
	}})
	require.NoError(t, err)
	require.NoError(t, coretypecheck.VerifyANF(&coreast.Program{Result: got}))

	mapApp, ok := unwrapLets(got).(*coreast.App)
	require.True(t, ok)
	assert.Equal(t, "map", mapApp.Func.(*coreast.LitBuiltin).Name)

	lam, ok := mapApp.Args[0].(*coreast.Lambda)
	require.True(t, ok)
	fApp, ok := unwrapLets(lam.Body).(*coreast.App)
	require.True(t, ok)
	fRef, ok := fApp.Func.(*coreast.Var)
	require.True(t, ok)
	assert.Equal(t, "f", fRef.Name)
	require.Len(t, fApp.Args, 2)
}

func TestLowerExprStarredIsIllegal(t *testing.T) {
	l := NewLowerer(0)
	_, err := l.lowerExpr(&srcast.Starred{Inner: &srcast.IntLit{Value: 1}})
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.LOW005, rep.Code)
}
