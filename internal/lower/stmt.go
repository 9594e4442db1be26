package lower

import (
	"github.com/sunholo/corelower/internal/coreast"
	"github.com/sunholo/corelower/internal/coretypes"
	"github.com/sunholo/corelower/internal/errors"
	"github.com/sunholo/corelower/internal/srcast"
	"github.com/sunholo/corelower/internal/varanalysis"
)

// LowerFunctionBody lowers a function's full statement list to one Core
// expression (spec.md §4.G), the entry point the orchestrator calls once
// per Source function.
func (l *Lowerer) LowerFunctionBody(stmts []srcast.Stmt) (coreast.Expr, error) {
	return l.lowerBlock(stmts, nil)
}

// lowerBlock lowers stmts in continuation-passing style: the head
// statement is lowered around a continuation that lowers the tail.
// conts holds the statement lists of every enclosing block still to
// run after this one, outermost last — consulted only by nested
// if-statements to compute their join set (spec.md §4.G "if-statement
// protocol" step 2).
func (l *Lowerer) lowerBlock(stmts []srcast.Stmt, conts [][]srcast.Stmt) (coreast.Expr, error) {
	if len(stmts) == 0 {
		return nil, semErr(errors.LOW008, srcast.Span{}, "function may not return")
	}
	head, tail := stmts[0], stmts[1:]

	switch st := head.(type) {
	case *srcast.ReturnStmt:
		return l.lowerExpr(st.Value)

	case *srcast.AnnAssign:
		valE, err := l.lowerExpr(st.Value)
		if err != nil {
			return nil, err
		}
		declaredT, err := coretypes.Translate(st.Type, st.Span)
		if err != nil {
			return nil, err
		}
		return l.assignTarget(st.TargetV, valE, declaredT, func() (coreast.Expr, error) {
			return l.lowerBlock(tail, conts)
		})

	case *srcast.AugAssign:
		readE, err := l.lowerExpr(st.TargetV.AsExpr())
		if err != nil {
			return nil, err
		}
		rhsE, err := l.lowerExpr(st.Value)
		if err != nil {
			return nil, err
		}
		name, err := binOpName(st.Op, st.Span)
		if err != nil {
			return nil, err
		}
		atoms, wrap := l.atomizeMany([]coreast.Expr{readE, rhsE}, st.Span)
		combined := wrap(apply(st.Span, builtin(st.Span, name), atoms...))
		return l.assignTarget(st.TargetV, combined, l.ns.FreshType(), func() (coreast.Expr, error) {
			return l.lowerBlock(tail, conts)
		})

	case *srcast.ForStmt:
		return l.lowerFor(st, tail, conts)

	case *srcast.IfStmt:
		return l.lowerIf(st, tail, conts)

	case *srcast.AppendStmt:
		target, ok := srcast.AsTarget(st.TargetExpr)
		if !ok {
			return nil, semErr(errors.LOW010, st.Span, "append() receiver is not a valid assignment target")
		}
		readE, err := l.lowerExpr(target.AsExpr())
		if err != nil {
			return nil, err
		}
		valE, err := l.lowerExpr(st.Value)
		if err != nil {
			return nil, err
		}
		atoms, wrap := l.atomizeMany([]coreast.Expr{readE, valE}, st.Span)
		snocCall := wrap(apply(st.Span, builtin(st.Span, "snoc"), atoms...))
		return l.assignTarget(target, snocCall, l.ns.FreshType(), func() (coreast.Expr, error) {
			return l.lowerBlock(tail, conts)
		})

	case *srcast.AssertStmt:
		l.Asserts = append(l.Asserts, AssertHint{Cond: st.Cond, Span: st.Span})
		return l.lowerBlock(tail, conts)

	case *srcast.ExprStmt:
		return nil, semErr(errors.LOW007, st.Span, "bare expression-statement is not legal")

	default:
		return nil, semErr(errors.LOW901, head.Position(), "unresolved Source statement %T", head)
	}
}

// enterBlock prepends tail to conts, producing the conts a nested block
// (a for-body or an if-branch) should see: "what's left of the current
// block, then everything already queued up after that".
func enterBlock(tail []srcast.Stmt, conts [][]srcast.Stmt) [][]srcast.Stmt {
	out := make([][]srcast.Stmt, 0, len(conts)+1)
	out = append(out, tail)
	out = append(out, conts...)
	return out
}

func unionReadsAcross(blocks [][]srcast.Stmt) *varanalysis.NameSet {
	out := varanalysis.NewNameSet()
	for _, b := range blocks {
		r, _ := varanalysis.AnalyzeMax(b)
		out = out.Union(r)
	}
	return out
}

// namesToTupleExpr builds the Source-level expression read by a
// synthetic return statement: None (the empty tuple) for no names, and
// otherwise a tuple literal of the names — a one-element tuple for a
// single name, so unpackNames can project it with proj_0.
func namesToTupleExpr(names []string, span srcast.Span) srcast.Expr {
	if len(names) == 0 {
		return &srcast.NoneLit{Span: span}
	}
	elems := make([]srcast.Expr, len(names))
	for i, n := range names {
		elems[i] = &srcast.Var{Name: n, Span: span}
	}
	return &srcast.TupleLit{Elems: elems, Span: span}
}

func appendSyntheticReturn(body []srcast.Stmt, names []string, span srcast.Span) []srcast.Stmt {
	out := make([]srcast.Stmt, len(body), len(body)+1)
	copy(out, body)
	return append(out, &srcast.ReturnStmt{Value: namesToTupleExpr(names, span), Span: span})
}

// unpackNames let-binds names[i] to proj_i(tupleVar) in order, binding
// each through l.scope so subsequent reads resolve correctly, then runs
// cont for the body nested inside all the unpacking lets.
func (l *Lowerer) unpackNames(names []string, tupleVar coreast.Expr, span srcast.Span, cont func() (coreast.Expr, error)) (coreast.Expr, error) {
	return l.unpackFrom(names, tupleVar, span, 0, cont)
}

func (l *Lowerer) unpackFrom(names []string, tupleVar coreast.Expr, span srcast.Span, idx int, cont func() (coreast.Expr, error)) (coreast.Expr, error) {
	if idx >= len(names) {
		return cont()
	}
	coreName := l.ns.FreshVar()
	t := l.ns.FreshType()
	l.scope.Bind(names[idx], coreName)
	body, err := l.unpackFrom(names, tupleVar, span, idx+1, cont)
	if err != nil {
		return nil, err
	}
	return &coreast.Let{CoreNode: node(span), Name: coreName, Type: t, Value: tupleProj(span, tupleVar, idx), Body: body}, nil
}

// lowerFor implements the for-loop protocol (spec.md §4.G): the body's
// write-set, restricted to names already live before the loop, becomes
// the loop-carried tuple threaded through a foldl over the lowered
// iterator.
func (l *Lowerer) lowerFor(st *srcast.ForStmt, tail []srcast.Stmt, conts [][]srcast.Stmt) (coreast.Expr, error) {
	iterE, err := l.lowerExpr(st.Iter)
	if err != nil {
		return nil, err
	}

	_, bodyWrites := varanalysis.AnalyzeMax(st.Body)
	ys := bodyWrites.Filter(l.scope.IsDefined).Names()

	yTypes := make([]coretypes.Type, len(ys))
	initElems := make([]coreast.Expr, len(ys))
	for i, y := range ys {
		yTypes[i] = l.ns.FreshType()
		initElems[i] = varRef(st.Span, l.scope.Resolve(y))
	}
	initTuple := coreast.Expr(&coreast.TupleCtor{CoreNode: node(st.Span), Elems: initElems})
	zType := &coretypes.TTuple{Elems: yTypes}

	zParam := l.ns.FreshVar()
	xParam := l.ns.FreshVar()
	xType := l.ns.FreshType()
	bodyWithReturn := appendSyntheticReturn(st.Body, ys, st.Span)
	innerConts := enterBlock(tail, conts)

	var stepBody coreast.Expr
	err = l.scope.WithScope(func() error {
		b, err := l.unpackNames(ys, varRef(st.Span, zParam), st.Span, func() (coreast.Expr, error) {
			return l.assignTarget(st.Var, varRef(st.Span, xParam), xType, func() (coreast.Expr, error) {
				return l.lowerBlock(bodyWithReturn, innerConts)
			})
		})
		stepBody = b
		return err
	})
	if err != nil {
		return nil, err
	}
	step := lambda(st.Span, []coreast.Param{{Name: zParam, Type: zType}, {Name: xParam, Type: xType}}, stepBody)

	return l.atomE(iterE, l.ns.FreshType(), st.Span, func(iterVar coreast.Expr) (coreast.Expr, error) {
		foldCall := apply(st.Span, builtin(st.Span, "foldl"), step, initTuple, iterVar)
		return l.atomE(foldCall, zType, st.Span, func(zVar coreast.Expr) (coreast.Expr, error) {
			return l.unpackNames(ys, zVar, st.Span, func() (coreast.Expr, error) {
				return l.lowerBlock(tail, conts)
			})
		})
	})
}

// lowerIf implements the if-statement protocol (spec.md §4.G).
func (l *Lowerer) lowerIf(st *srcast.IfStmt, tail []srcast.Stmt, conts [][]srcast.Stmt) (coreast.Expr, error) {
	condE, err := l.lowerExpr(st.Cond)
	if err != nil {
		return nil, err
	}
	return l.atomE(condE, l.ns.FreshType(), st.Span, func(condVar coreast.Expr) (coreast.Expr, error) {
		return l.lowerIfBranches(st, condVar, tail, conts)
	})
}

func (l *Lowerer) lowerIfBranches(st *srcast.IfStmt, condVar coreast.Expr, tail []srcast.Stmt, conts [][]srcast.Stmt) (coreast.Expr, error) {
	_, r1 := varanalysis.AnalyzeMin(st.Then)
	_, r2 := varanalysis.AnalyzeMin(st.Else)
	innerConts := enterBlock(tail, conts)
	readAfter := unionReadsAcross(innerConts)
	w := readAfter.Intersect(r1).Union(readAfter.Intersect(r2)).Names()

	thenAlways := varanalysis.DoesAlwaysReturn(st.Then)
	elseAlways := len(st.Else) > 0 && varanalysis.DoesAlwaysReturn(st.Else)

	lowerBranch := func(stmts []srcast.Stmt, branchConts [][]srcast.Stmt) (coreast.Expr, error) {
		var out coreast.Expr
		err := l.scope.WithScope(func() error {
			e, err := l.lowerBlock(stmts, branchConts)
			out = e
			return err
		})
		return out, err
	}

	switch {
	case !thenAlways && !elseAlways:
		then2 := appendSyntheticReturn(st.Then, w, st.Span)
		else2 := appendSyntheticReturn(st.Else, w, st.Span)
		thenE, err := lowerBranch(then2, innerConts)
		if err != nil {
			return nil, err
		}
		elseE, err := lowerBranch(else2, innerConts)
		if err != nil {
			return nil, err
		}
		resultT := l.ns.FreshType()
		zName := l.ns.FreshVar()
		ifNode := &coreast.If{CoreNode: node(st.Span), ResultType: resultT, Cond: condVar, Then: thenE, Else: elseE}
		unpacked, err := l.unpackNames(w, varRef(st.Span, zName), st.Span, func() (coreast.Expr, error) {
			return l.lowerBlock(tail, conts)
		})
		if err != nil {
			return nil, err
		}
		return &coreast.Let{CoreNode: node(st.Span), Name: zName, Type: resultT, Value: ifNode, Body: unpacked}, nil

	case elseAlways && !thenAlways:
		combinedThen := append(append([]srcast.Stmt{}, st.Then...), tail...)
		thenE, err := lowerBranch(combinedThen, conts)
		if err != nil {
			return nil, err
		}
		elseE, err := lowerBranch(st.Else, conts)
		if err != nil {
			return nil, err
		}
		return &coreast.If{CoreNode: node(st.Span), ResultType: l.ns.FreshType(), Cond: condVar, Then: thenE, Else: elseE}, nil

	case thenAlways && !elseAlways:
		combinedElse := append(append([]srcast.Stmt{}, st.Else...), tail...)
		thenE, err := lowerBranch(st.Then, conts)
		if err != nil {
			return nil, err
		}
		elseE, err := lowerBranch(combinedElse, conts)
		if err != nil {
			return nil, err
		}
		return &coreast.If{CoreNode: node(st.Span), ResultType: l.ns.FreshType(), Cond: condVar, Then: thenE, Else: elseE}, nil

	default: // both branches always return; tail is dead
		thenE, err := lowerBranch(st.Then, conts)
		if err != nil {
			return nil, err
		}
		elseE, err := lowerBranch(st.Else, conts)
		if err != nil {
			return nil, err
		}
		return &coreast.If{CoreNode: node(st.Span), ResultType: l.ns.FreshType(), Cond: condVar, Then: thenE, Else: elseE}, nil
	}
}
