package lower

import (
	"github.com/sunholo/corelower/internal/coreast"
	"github.com/sunholo/corelower/internal/coretypecheck"
	"github.com/sunholo/corelower/internal/errors"
	"github.com/sunholo/corelower/internal/srcast"
)

// eagerWrap implements component H (spec.md §4.H): a bottom-up rewrite
// that turns every lazy If into an application of the if-builtin over
// two nullary-lambda-wrapped branches, plus an appended zero-argument
// call that forces the chosen one. Everything else is traversed
// structurally and returned unchanged in shape.
func eagerWrap(e coreast.Expr) coreast.Expr {
	switch ex := e.(type) {
	case *coreast.If:
		cond := eagerWrap(ex.Cond)
		then := eagerWrap(ex.Then)
		els := eagerWrap(ex.Else)
		thenThunk := lambda(ex.Span, nil, then)
		elseThunk := lambda(ex.Span, nil, els)
		ifApp := apply(ex.Span, builtin(ex.Span, "if"), cond, thenThunk, elseThunk)
		return apply(ex.Span, ifApp)

	case *coreast.App:
		fn := eagerWrap(ex.Func)
		args := make([]coreast.Expr, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = eagerWrap(a)
		}
		return &coreast.App{CoreNode: ex.CoreNode, Func: fn, Args: args}

	case *coreast.Lambda:
		return &coreast.Lambda{CoreNode: ex.CoreNode, Params: ex.Params, Body: eagerWrap(ex.Body)}

	case *coreast.Let:
		return &coreast.Let{CoreNode: ex.CoreNode, Name: ex.Name, Type: ex.Type, Value: eagerWrap(ex.Value), Body: eagerWrap(ex.Body)}

	case *coreast.LetRec:
		return &coreast.LetRec{CoreNode: ex.CoreNode, Name: ex.Name, Type: ex.Type, Value: eagerWrap(ex.Value), Body: eagerWrap(ex.Body)}

	case *coreast.TupleCtor:
		elems := make([]coreast.Expr, len(ex.Elems))
		for i, el := range ex.Elems {
			elems[i] = eagerWrap(el)
		}
		return &coreast.TupleCtor{CoreNode: ex.CoreNode, Elems: elems}

	case *coreast.TupleProj:
		return &coreast.TupleProj{CoreNode: ex.CoreNode, Tuple: eagerWrap(ex.Tuple), Index: ex.Index}

	case *coreast.Var, *coreast.LitInt, *coreast.LitBool, *coreast.LitBuiltin, *coreast.NilOfType:
		return e

	default:
		return e
	}
}

// EagerWrap runs the Eager-wrap pass over a completed Core program and
// self-checks the result, per spec.md §4.H's "the rewriter itself calls
// the external type-checker on completion".
func EagerWrap(prog *coreast.Program) (*coreast.Program, error) {
	out := &coreast.Program{Result: eagerWrap(prog.Result)}
	if err := coretypecheck.Check(out); err != nil {
		return nil, semErr(errors.LOW103, srcast.Span{}, "Eager-wrap produced an ill-typed program: %v", err)
	}
	if err := coretypecheck.VerifyANF(out); err != nil {
		return nil, semErr(errors.LOW902, srcast.Span{}, "Eager-wrap violated the ANF invariant: %v", err)
	}
	return out, nil
}
