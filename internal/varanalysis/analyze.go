package varanalysis

import "github.com/sunholo/corelower/internal/srcast"

// AnalyzeMax returns an over-approximation of the names a statement list
// might read or might write: both branches of every if are considered,
// and a for-loop's body is considered regardless of how many times (if
// any) it runs. The for-loop's own binder never appears in the result —
// it is local to one iteration and the accepted preconditions forbid it
// leaking (spec.md §4.I step 1).
func AnalyzeMax(stmts []srcast.Stmt) (reads, writes *NameSet) {
	reads, writes = NewNameSet(), NewNameSet()
	for _, s := range stmts {
		maxStmt(s, reads, writes)
	}
	return reads, writes
}

func maxStmt(s srcast.Stmt, reads, writes *NameSet) {
	switch st := s.(type) {
	case *srcast.ReturnStmt:
		collectExprReads(st.Value, reads)

	case *srcast.AnnAssign:
		collectExprReads(st.Value, reads)
		collectTargetReads(st.TargetV, reads)
		collectTargetWrites(st.TargetV, writes)

	case *srcast.AugAssign:
		collectExprReads(st.Value, reads)
		collectExprReads(st.TargetV.AsExpr(), reads)
		collectTargetWrites(st.TargetV, writes)

	case *srcast.ForStmt:
		collectExprReads(st.Iter, reads)
		bodyReads, bodyWrites := AnalyzeMax(st.Body)
		binder := NewNameSet()
		collectTargetWrites(st.Var, binder)
		for _, n := range bodyReads.Names() {
			if !binder.Contains(n) {
				reads.Add(n)
			}
		}
		for _, n := range bodyWrites.Names() {
			if !binder.Contains(n) {
				writes.Add(n)
			}
		}

	case *srcast.IfStmt:
		collectExprReads(st.Cond, reads)
		thenReads, thenWrites := AnalyzeMax(st.Then)
		elseReads, elseWrites := AnalyzeMax(st.Else)
		for _, n := range thenReads.Union(elseReads).Names() {
			reads.Add(n)
		}
		for _, n := range thenWrites.Union(elseWrites).Names() {
			writes.Add(n)
		}

	case *srcast.AssertStmt:
		collectExprReads(st.Cond, reads)

	case *srcast.AppendStmt:
		collectExprReads(st.TargetExpr, reads)
		collectExprReads(st.Value, reads)
		if tgt, ok := srcast.AsTarget(st.TargetExpr); ok {
			collectTargetWrites(tgt, writes)
		}

	case *srcast.ExprStmt:
		collectExprReads(st.Value, reads)
	}
}

// AnalyzeMin returns the names certainly written on every control-flow
// path through the statement list: a for-loop contributes nothing (it
// may run zero times), and an if without both branches present, or
// whose branches disagree, contributes only the intersection of what
// both branches certainly write.
func AnalyzeMin(stmts []srcast.Stmt) (reads, writes *NameSet) {
	reads, writes = NewNameSet(), NewNameSet()
	for _, s := range stmts {
		minStmt(s, reads, writes)
	}
	return reads, writes
}

func minStmt(s srcast.Stmt, reads, writes *NameSet) {
	switch st := s.(type) {
	case *srcast.ReturnStmt:
		collectExprReads(st.Value, reads)

	case *srcast.AnnAssign:
		collectExprReads(st.Value, reads)
		collectTargetWrites(st.TargetV, writes)

	case *srcast.AugAssign:
		collectExprReads(st.Value, reads)
		collectExprReads(st.TargetV.AsExpr(), reads)
		collectTargetWrites(st.TargetV, writes)

	case *srcast.ForStmt:
		collectExprReads(st.Iter, reads)
		// A for-loop body may run zero times: nothing inside it is a
		// certain write or read of the enclosing scope.

	case *srcast.IfStmt:
		collectExprReads(st.Cond, reads)
		_, thenWrites := AnalyzeMin(st.Then)
		if len(st.Else) > 0 {
			_, elseWrites := AnalyzeMin(st.Else)
			for _, n := range thenWrites.Intersect(elseWrites).Names() {
				writes.Add(n)
			}
		}

	case *srcast.AssertStmt:
		collectExprReads(st.Cond, reads)

	case *srcast.AppendStmt:
		collectExprReads(st.TargetExpr, reads)
		collectExprReads(st.Value, reads)
		if tgt, ok := srcast.AsTarget(st.TargetExpr); ok {
			collectTargetWrites(tgt, writes)
		}

	case *srcast.ExprStmt:
		collectExprReads(st.Value, reads)
	}
}

// DoesAlwaysReturn reports whether control falling into stmts is
// guaranteed to hit a Return before falling off the end, used by the
// if-statement protocol (spec.md §4.G) to pick among its four join
// cases. Only the tail of the list can make this guarantee: anything
// after a return is unreachable and is not inspected.
func DoesAlwaysReturn(stmts []srcast.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	switch last := stmts[len(stmts)-1].(type) {
	case *srcast.ReturnStmt:
		return true
	case *srcast.IfStmt:
		return len(last.Else) > 0 && DoesAlwaysReturn(last.Then) && DoesAlwaysReturn(last.Else)
	default:
		return false
	}
}

func collectTargetWrites(t srcast.Target, out *NameSet) {
	switch tt := t.(type) {
	case *srcast.NameTarget:
		out.Add(tt.Name)
	case *srcast.SubscriptTarget:
		collectTargetWrites(tt.Base, out)
	case *srcast.TupleTarget:
		for _, e := range tt.Elems {
			collectTargetWrites(e, out)
		}
	}
}

func collectTargetReads(t srcast.Target, out *NameSet) {
	switch tt := t.(type) {
	case *srcast.NameTarget:
		// A bare name target is a pure write; it reads nothing.
	case *srcast.SubscriptTarget:
		collectExprReads(tt.AsExpr(), out)
	case *srcast.TupleTarget:
		for _, e := range tt.Elems {
			collectTargetReads(e, out)
		}
	}
}

func collectExprReads(e srcast.Expr, out *NameSet) {
	if e == nil {
		return
	}
	switch ex := e.(type) {
	case *srcast.Var:
		out.Add(ex.Name)
	case *srcast.IntLit, *srcast.BoolLit, *srcast.NoneLit, *srcast.BuiltinRef:
		// no names
	case *srcast.BoolOp:
		collectExprReads(ex.Left, out)
		collectExprReads(ex.Right, out)
	case *srcast.BinOp:
		collectExprReads(ex.Left, out)
		collectExprReads(ex.Right, out)
	case *srcast.UnaryOp:
		collectExprReads(ex.Operand, out)
	case *srcast.Lambda:
		bound := NewNameSet()
		for _, p := range ex.Params {
			bound.Add(p)
		}
		inner := NewNameSet()
		collectExprReads(ex.Body, inner)
		for _, n := range inner.Names() {
			if !bound.Contains(n) {
				out.Add(n)
			}
		}
	case *srcast.IfExp:
		collectExprReads(ex.Cond, out)
		collectExprReads(ex.Then, out)
		collectExprReads(ex.Else, out)
	case *srcast.ListComp:
		collectExprReads(ex.Iter, out)
		bound := NewNameSet()
		collectTargetWrites(ex.Target, bound)
		inner := NewNameSet()
		collectExprReads(ex.Head, inner)
		if ex.Filter != nil {
			collectExprReads(ex.Filter, inner)
		}
		for _, n := range inner.Names() {
			if !bound.Contains(n) {
				out.Add(n)
			}
		}
	case *srcast.Compare:
		for c := ex; c != nil; c = c.Next {
			collectExprReads(c.Left, out)
			collectExprReads(c.Right, out)
		}
	case *srcast.Call:
		collectExprReads(ex.Func, out)
		for _, a := range ex.Args {
			collectExprReads(a, out)
		}
	case *srcast.Attribute:
		collectExprReads(ex.Recv, out)
		for _, a := range ex.Args {
			collectExprReads(a, out)
		}
	case *srcast.Subscript:
		collectExprReads(ex.Base, out)
		collectExprReads(ex.Index, out)
	case *srcast.SubscriptSlice:
		collectExprReads(ex.Base, out)
		collectExprReads(ex.Lo, out)
		collectExprReads(ex.Hi, out)
		collectExprReads(ex.Step, out)
	case *srcast.Starred:
		collectExprReads(ex.Inner, out)
	case *srcast.ListLit:
		for _, el := range ex.Elems {
			collectExprReads(el, out)
		}
	case *srcast.TupleLit:
		for _, el := range ex.Elems {
			collectExprReads(el, out)
		}
	}
}
