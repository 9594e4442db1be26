// Package precheck is the external preconditions/lint collaborator
// spec.md §4.I step 1 calls out: before lowering, every function body
// must satisfy five restrictions on how for-loops may use their loop
// counter. A violation is reported once, under the module tag
// "Source→Core", using the umbrella precondition error code; internal/lower
// never runs on a program that fails here.
package precheck

import (
	"fmt"

	"github.com/sunholo/corelower/internal/errors"
	"github.com/sunholo/corelower/internal/srcast"
	"github.com/sunholo/corelower/internal/varanalysis"
)

const moduleTag = "Source→Core"

// Check runs all five preconditions over every function in prog and
// returns the first violation found, or nil if the program is clean.
// Toplevel assignments carry no loop counters and are not checked.
func Check(prog *srcast.Program) error {
	for _, fn := range prog.Funcs {
		if err := checkStmts(fn.Body, nil); err != nil {
			return err
		}
	}
	return nil
}

// checkStmts walks a statement list, threading the set of names bound
// as loop counters by enclosing for-loops (counters []string) so nested
// checks can see outer loop variables too.
func checkStmts(stmts []srcast.Stmt, counters []string) error {
	for i, s := range stmts {
		switch st := s.(type) {
		case *srcast.ForStmt:
			if err := checkLoopCounterNotSubscripted(st); err != nil {
				return err
			}
			names := targetNames(st.Var)
			if err := checkNoReturnInside(st.Body); err != nil {
				return err
			}
			if err := checkNoAssignToCounterOrIterator(st, names); err != nil {
				return err
			}
			if err := checkNoNontrivialSubscriptAssign(st.Body); err != nil {
				return err
			}
			if err := checkNoLeak(stmts[i+1:], names); err != nil {
				return err
			}
			if err := checkStmts(st.Body, append(append([]string{}, counters...), names...)); err != nil {
				return err
			}

		case *srcast.IfStmt:
			if err := checkStmts(st.Then, counters); err != nil {
				return err
			}
			if err := checkStmts(st.Else, counters); err != nil {
				return err
			}
		}
	}
	return nil
}

func targetNames(t srcast.Target) []string {
	ns := varanalysis.NewNameSet()
	switch tt := t.(type) {
	case *srcast.NameTarget:
		ns.Add(tt.Name)
	case *srcast.TupleTarget:
		for _, e := range tt.Elems {
			for _, n := range targetNames(e) {
				ns.Add(n)
			}
		}
	}
	return ns.Names()
}

func checkLoopCounterNotSubscripted(st *srcast.ForStmt) error {
	if containsSubscript(st.Var) {
		return reportf(st.Span, "for-loop counter %q may not be a subscripted target", st.Var)
	}
	return nil
}

func containsSubscript(t srcast.Target) bool {
	switch tt := t.(type) {
	case *srcast.SubscriptTarget:
		return true
	case *srcast.TupleTarget:
		for _, e := range tt.Elems {
			if containsSubscript(e) {
				return true
			}
		}
	}
	return false
}

func checkNoReturnInside(stmts []srcast.Stmt) error {
	for _, s := range stmts {
		switch st := s.(type) {
		case *srcast.ReturnStmt:
			return reportf(st.Span, "return is not allowed inside a for-loop body")
		case *srcast.ForStmt:
			if err := checkNoReturnInside(st.Body); err != nil {
				return err
			}
		case *srcast.IfStmt:
			if err := checkNoReturnInside(st.Then); err != nil {
				return err
			}
			if err := checkNoReturnInside(st.Else); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkNoAssignToCounterOrIterator(st *srcast.ForStmt, counters []string) error {
	iterName, iterIsName := iterVarName(st.Iter)
	isForbidden := func(name string) bool {
		if iterIsName && name == iterName {
			return true
		}
		for _, c := range counters {
			if name == c {
				return true
			}
		}
		return false
	}
	var walk func(stmts []srcast.Stmt) error
	walk = func(stmts []srcast.Stmt) error {
		for _, s := range stmts {
			switch at := s.(type) {
			case *srcast.AnnAssign:
				for _, n := range targetNames(at.TargetV) {
					if isForbidden(n) {
						return reportf(at.Span, "loop counter or iterator %q may not be assigned inside its loop", n)
					}
				}
			case *srcast.AugAssign:
				for _, n := range targetNames(at.TargetV) {
					if isForbidden(n) {
						return reportf(at.Span, "loop counter or iterator %q may not be assigned inside its loop", n)
					}
				}
			case *srcast.ForStmt:
				if err := walk(at.Body); err != nil {
					return err
				}
			case *srcast.IfStmt:
				if err := walk(at.Then); err != nil {
					return err
				}
				if err := walk(at.Else); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return walk(st.Body)
}

func iterVarName(e srcast.Expr) (string, bool) {
	if v, ok := e.(*srcast.Var); ok {
		return v.Name, true
	}
	return "", false
}

// checkNoNontrivialSubscriptAssign forbids subscripted assignment whose
// target nests a subscript beneath another subscript (e.g. xs[i][j] = v)
// inside a for-loop body: the functional-update rewrite (spec.md §4.F)
// only handles one level of indirection per statement cleanly there.
func checkNoNontrivialSubscriptAssign(stmts []srcast.Stmt) error {
	for _, s := range stmts {
		switch st := s.(type) {
		case *srcast.AnnAssign:
			if sub, ok := st.TargetV.(*srcast.SubscriptTarget); ok {
				if containsSubscript(sub.Base) {
					return reportf(st.Span, "nontrivial (nested) subscripted assignment is not allowed inside a for-loop")
				}
			}
		case *srcast.ForStmt:
			if err := checkNoNontrivialSubscriptAssign(st.Body); err != nil {
				return err
			}
		case *srcast.IfStmt:
			if err := checkNoNontrivialSubscriptAssign(st.Then); err != nil {
				return err
			}
			if err := checkNoNontrivialSubscriptAssign(st.Else); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkNoLeak rejects any read or write of a loop counter name in the
// statements following its loop, within the same statement list.
func checkNoLeak(after []srcast.Stmt, names []string) error {
	reads, writes := varanalysis.AnalyzeMax(after)
	for _, n := range names {
		if reads.Contains(n) || writes.Contains(n) {
			return reportf(srcast.Span{}, "loop counter %q must not be used after its for-loop ends", n)
		}
	}
	return nil
}

func reportf(span srcast.Span, format string, args ...any) error {
	msg := fmt.Sprintf("[%s] %s", moduleTag, fmt.Sprintf(format, args...))
	return errors.WrapReport(errors.New(errors.LOW011, "precheck", msg, span))
}
