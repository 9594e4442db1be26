package coretypecheck

import (
	"fmt"

	"github.com/sunholo/corelower/internal/coreast"
)

// VerifyANF checks the two shape invariants the lowering pass promises
// once Eager-wrap has run (spec.md §3 invariants 5 and 6): no Let or
// LetRec rebinds a name already bound around it (single assignment),
// and no bare conditional survives — Eager-wrap must have rewritten
// every If into an application of the if-builtin over two
// nullary-lambda thunks. It also requires an atomic function position
// in every other application, atomic tuple-constructor elements and an
// atomic tuple-projection operand. Application arguments may be nested
// expressions (e.g. map f (range1 n)); they are checked recursively.
func VerifyANF(prog *coreast.Program) error {
	return verifyExpr(prog.Result, map[string]bool{})
}

func verifyExpr(e coreast.Expr, bound map[string]bool) error {
	switch ex := e.(type) {
	case *coreast.If:
		return fmt.Errorf("bare If survived Eager-wrap at %s", ex.Position())

	case *coreast.App:
		// The one legal nested App: Eager-wrap's zero-argument force of
		// app(if, cond, then-thunk, else-thunk) (spec.md invariant 6).
		// Its callee is itself an App, which every other application
		// forbids.
		if ifApp, ok := asIfForceApp(ex); ok {
			if !coreast.IsAtomic(ifApp.Args[0]) {
				return fmt.Errorf("non-atomic if condition %s at %s", ifApp.Args[0], ex.Position())
			}
			for _, thunk := range ifApp.Args[1:] {
				lam, ok := thunk.(*coreast.Lambda)
				if !ok || len(lam.Params) != 0 {
					return fmt.Errorf("if branch is not a nullary lambda thunk at %s", ex.Position())
				}
				if err := verifyExpr(lam.Body, bound); err != nil {
					return err
				}
			}
			return nil
		}
		if !coreast.IsAtomic(ex.Func) {
			return fmt.Errorf("non-atomic function position in application at %s", ex.Position())
		}
		for _, a := range ex.Args {
			if err := verifyExpr(a, bound); err != nil {
				return err
			}
		}
		return verifyExpr(ex.Func, bound)

	case *coreast.TupleCtor:
		for _, el := range ex.Elems {
			if !coreast.IsAtomic(el) {
				return fmt.Errorf("non-atomic tuple element %s at %s", el, ex.Position())
			}
		}
		return nil

	case *coreast.TupleProj:
		if !coreast.IsAtomic(ex.Tuple) {
			return fmt.Errorf("non-atomic tuple operand %s in proj_%d at %s", ex.Tuple, ex.Index, ex.Position())
		}
		return nil

	case *coreast.Lambda:
		inner := cloneBound(bound)
		for _, p := range ex.Params {
			inner[p.Name] = true
		}
		return verifyExpr(ex.Body, inner)

	case *coreast.Let:
		if bound[ex.Name] {
			return fmt.Errorf("name %q rebound, violating single-assignment at %s", ex.Name, ex.Position())
		}
		if err := verifyExpr(ex.Value, bound); err != nil {
			return err
		}
		inner := cloneBound(bound)
		inner[ex.Name] = true
		return verifyExpr(ex.Body, inner)

	case *coreast.LetRec:
		if bound[ex.Name] {
			return fmt.Errorf("name %q rebound, violating single-assignment at %s", ex.Name, ex.Position())
		}
		inner := cloneBound(bound)
		inner[ex.Name] = true
		if err := verifyExpr(ex.Value, inner); err != nil {
			return err
		}
		return verifyExpr(ex.Body, inner)

	default:
		return nil
	}
}

// asIfForceApp recognizes Eager-wrap's output shape: a zero-argument
// App whose callee is an App of the if-builtin over exactly 3 args.
func asIfForceApp(e *coreast.App) (*coreast.App, bool) {
	if len(e.Args) != 0 {
		return nil, false
	}
	inner, ok := e.Func.(*coreast.App)
	if !ok || len(inner.Args) != 3 {
		return nil, false
	}
	b, ok := inner.Func.(*coreast.LitBuiltin)
	if !ok || b.Name != "if" {
		return nil, false
	}
	return inner, true
}

func cloneBound(bound map[string]bool) map[string]bool {
	out := make(map[string]bool, len(bound)+1)
	for k, v := range bound {
		out[k] = v
	}
	return out
}
