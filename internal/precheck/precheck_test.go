package precheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/corelower/internal/errors"
	"github.com/sunholo/corelower/internal/srcast"
)

func prog(body []srcast.Stmt) *srcast.Program {
	return &srcast.Program{
		Funcs: []*srcast.FuncDef{
			{Name: "f", Body: body},
		},
	}
}

func assertRejected(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.LOW011, rep.Code)
}

func TestCheckAcceptsCleanLoop(t *testing.T) {
	p := prog([]srcast.Stmt{
		&srcast.ForStmt{
			Var:  &srcast.NameTarget{Name: "i"},
			Iter: &srcast.Var{Name: "xs"},
			Body: []srcast.Stmt{
				&srcast.AnnAssign{TargetV: &srcast.NameTarget{Name: "acc"}, Value: &srcast.Var{Name: "i"}},
			},
		},
		&srcast.ReturnStmt{Value: &srcast.Var{Name: "acc"}},
	})
	assert.NoError(t, Check(p))
}

func TestCheckRejectsSubscriptedCounter(t *testing.T) {
	p := prog([]srcast.Stmt{
		&srcast.ForStmt{
			Var:  &srcast.SubscriptTarget{Base: &srcast.NameTarget{Name: "xs"}, Index: &srcast.IntLit{Value: 0}},
			Iter: &srcast.Var{Name: "ys"},
			Body: nil,
		},
	})
	assertRejected(t, Check(p))
}

func TestCheckRejectsReturnInsideLoop(t *testing.T) {
	p := prog([]srcast.Stmt{
		&srcast.ForStmt{
			Var:  &srcast.NameTarget{Name: "i"},
			Iter: &srcast.Var{Name: "xs"},
			Body: []srcast.Stmt{
				&srcast.ReturnStmt{Value: &srcast.Var{Name: "i"}},
			},
		},
	})
	assertRejected(t, Check(p))
}

func TestCheckRejectsAssignToCounter(t *testing.T) {
	p := prog([]srcast.Stmt{
		&srcast.ForStmt{
			Var:  &srcast.NameTarget{Name: "i"},
			Iter: &srcast.Var{Name: "xs"},
			Body: []srcast.Stmt{
				&srcast.AnnAssign{TargetV: &srcast.NameTarget{Name: "i"}, Value: &srcast.IntLit{Value: 1}},
			},
		},
	})
	assertRejected(t, Check(p))
}

func TestCheckRejectsAssignToIterator(t *testing.T) {
	p := prog([]srcast.Stmt{
		&srcast.ForStmt{
			Var:  &srcast.NameTarget{Name: "i"},
			Iter: &srcast.Var{Name: "xs"},
			Body: []srcast.Stmt{
				&srcast.AnnAssign{TargetV: &srcast.NameTarget{Name: "xs"}, Value: &srcast.IntLit{Value: 1}},
			},
		},
	})
	assertRejected(t, Check(p))
}

func TestCheckRejectsNestedSubscriptAssignInLoop(t *testing.T) {
	p := prog([]srcast.Stmt{
		&srcast.ForStmt{
			Var:  &srcast.NameTarget{Name: "i"},
			Iter: &srcast.Var{Name: "xs"},
			Body: []srcast.Stmt{
				&srcast.AnnAssign{
					TargetV: &srcast.SubscriptTarget{
						Base:  &srcast.SubscriptTarget{Base: &srcast.NameTarget{Name: "grid"}, Index: &srcast.Var{Name: "i"}},
						Index: &srcast.IntLit{Value: 0},
					},
					Value: &srcast.IntLit{Value: 1},
				},
			},
		},
	})
	assertRejected(t, Check(p))
}

func TestCheckRejectsLeakedLoopCounter(t *testing.T) {
	p := prog([]srcast.Stmt{
		&srcast.ForStmt{
			Var:  &srcast.NameTarget{Name: "i"},
			Iter: &srcast.Var{Name: "xs"},
			Body: nil,
		},
		&srcast.ReturnStmt{Value: &srcast.Var{Name: "i"}},
	})
	assertRejected(t, Check(p))
}
