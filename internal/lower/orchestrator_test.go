package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/corelower/internal/coreast"
	"github.com/sunholo/corelower/internal/errors"
	"github.com/sunholo/corelower/internal/srcast"
)

// identitySolve builds `func solve(n: int) -> int: return n`.
func identitySolve() *srcast.Program {
	return &srcast.Program{
		Funcs: []*srcast.FuncDef{
			{
				Name:       "solve",
				Params:     []srcast.Param{{Name: "n", Type: &srcast.IntType{}}},
				ReturnType: &srcast.IntType{},
				Body:       []srcast.Stmt{&srcast.ReturnStmt{Value: &srcast.Var{Name: "n"}}},
			},
		},
	}
}

func TestRunProducesLetRecTerminatingInSolve(t *testing.T) {
	out, asserts, err := Run(identitySolve(), Config{})
	require.NoError(t, err)
	assert.Empty(t, asserts)

	letrec, ok := out.Result.(*coreast.LetRec)
	require.True(t, ok)
	assert.Equal(t, "solve", letrec.Name)
	_, ok = letrec.Value.(*coreast.Lambda)
	assert.True(t, ok)
}

func TestRunWithIfBranchingGoesThroughEagerWrap(t *testing.T) {
	prog := &srcast.Program{
		Funcs: []*srcast.FuncDef{
			{
				Name:       "solve",
				Params:     []srcast.Param{{Name: "n", Type: &srcast.IntType{}}},
				ReturnType: &srcast.IntType{},
				Body: []srcast.Stmt{&srcast.IfStmt{
					Cond: &srcast.Compare{Left: &srcast.Var{Name: "n"}, Op: srcast.Gt, Right: &srcast.IntLit{Value: 0}},
					Then: []srcast.Stmt{&srcast.ReturnStmt{Value: &srcast.IntLit{Value: 1}}},
					Else: []srcast.Stmt{&srcast.ReturnStmt{Value: &srcast.IntLit{Value: 0}}},
				}},
			},
		},
	}
	out, _, err := Run(prog, Config{})
	require.NoError(t, err)
	// A bare lazy If renders as "(if c then a else b)"; the Eager-wrapped
	// form "((if c (\. a) (\. b)) )" has no "then", so it must not appear.
	assert.NotContains(t, out.String(), " then ")
}

func TestRunDisableEagerWrapKeepsBareIf(t *testing.T) {
	prog := &srcast.Program{
		Funcs: []*srcast.FuncDef{
			{
				Name:       "solve",
				Params:     []srcast.Param{{Name: "n", Type: &srcast.IntType{}}},
				ReturnType: &srcast.IntType{},
				Body: []srcast.Stmt{&srcast.IfStmt{
					Cond: &srcast.Compare{Left: &srcast.Var{Name: "n"}, Op: srcast.Gt, Right: &srcast.IntLit{Value: 0}},
					Then: []srcast.Stmt{&srcast.ReturnStmt{Value: &srcast.IntLit{Value: 1}}},
					Else: []srcast.Stmt{&srcast.ReturnStmt{Value: &srcast.IntLit{Value: 0}}},
				}},
			},
		},
	}
	out, _, err := Run(prog, Config{DisableEagerWrap: true, TrustTypeCheck: true})
	require.NoError(t, err)
	assert.Contains(t, out.String(), " then ")
}

func TestRunPropagatesPrecheckRejection(t *testing.T) {
	prog := &srcast.Program{
		Funcs: []*srcast.FuncDef{
			{
				Name: "solve",
				Body: []srcast.Stmt{
					&srcast.ForStmt{
						Var:  &srcast.NameTarget{Name: "i"},
						Iter: &srcast.Var{Name: "xs"},
						Body: []srcast.Stmt{&srcast.ReturnStmt{Value: &srcast.Var{Name: "i"}}},
					},
				},
			},
		},
	}
	_, _, err := Run(prog, Config{})
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.LOW011, rep.Code)
}

func TestRunStartCounterProducesDistinctFreshNames(t *testing.T) {
	// `x: int = n; return x` binds x to a fresh name, so the output
	// depends on the starting counter (identitySolve mints none).
	assignSolve := func() *srcast.Program {
		return &srcast.Program{Funcs: []*srcast.FuncDef{{
			Name:       "solve",
			Params:     []srcast.Param{{Name: "n", Type: &srcast.IntType{}}},
			ReturnType: &srcast.IntType{},
			Body: []srcast.Stmt{
				&srcast.AnnAssign{TargetV: &srcast.NameTarget{Name: "x"}, Type: &srcast.IntType{}, Value: &srcast.Var{Name: "n"}},
				&srcast.ReturnStmt{Value: &srcast.Var{Name: "x"}},
			},
		}}}
	}
	p1 := assignSolve()
	p2 := assignSolve()
	out1, _, err := Run(p1, Config{StartCounter: 0})
	require.NoError(t, err)
	out2, _, err := Run(p2, Config{StartCounter: 1000})
	require.NoError(t, err)
	assert.NotEqual(t, out1.String(), out2.String())
}

func TestRunSelfRecursiveFunction(t *testing.T) {
	// func solve(n: int) -> int:
	//   if n == 0: return 0
	//   return solve(n)
	prog := &srcast.Program{
		Funcs: []*srcast.FuncDef{
			{
				Name:       "solve",
				Params:     []srcast.Param{{Name: "n", Type: &srcast.IntType{}}},
				ReturnType: &srcast.IntType{},
				Body: []srcast.Stmt{
					&srcast.IfStmt{
						Cond: &srcast.Compare{Left: &srcast.Var{Name: "n"}, Op: srcast.Eq, Right: &srcast.IntLit{Value: 0}},
						Then: []srcast.Stmt{&srcast.ReturnStmt{Value: &srcast.IntLit{Value: 0}}},
					},
					&srcast.ReturnStmt{Value: &srcast.Call{Func: &srcast.Var{Name: "solve"}, Args: []srcast.Expr{&srcast.Var{Name: "n"}}}},
				},
			},
		},
	}
	_, _, err := Run(prog, Config{})
	require.NoError(t, err)
}
