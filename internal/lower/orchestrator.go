package lower

import (
	"github.com/sunholo/corelower/internal/coreast"
	"github.com/sunholo/corelower/internal/coretypecheck"
	"github.com/sunholo/corelower/internal/coretypes"
	"github.com/sunholo/corelower/internal/errors"
	"github.com/sunholo/corelower/internal/precheck"
	"github.com/sunholo/corelower/internal/srcast"
)

// EntryFunctionName is the Source convention naming the program's entry
// point (spec.md §4.I step 3): the result of a lowering run is always
// this bound name, read back out as the final expression.
const EntryFunctionName = "solve"

// Config controls the optional deviations from the default pipeline, as
// loaded by internal/config.
type Config struct {
	// DisableEagerWrap skips component H, for inspecting the pre-wrap
	// lazy Core form (diagnostics only; an un-wrapped program is not
	// semantics-preserving under strict evaluation).
	DisableEagerWrap bool
	// StartCounter seeds the fresh-name supply; left at zero in normal
	// use, set nonzero only by tests that need deterministic names
	// distinct from another lowering run sharing output.
	StartCounter uint64
	// TrustTypeCheck skips the final external type-check call, for
	// callers that have already verified the input class produces
	// well-typed output and want to avoid paying for it twice.
	TrustTypeCheck bool
}

// Run implements the orchestrator (component I, spec.md §4.I): external
// preconditions, toplevel lowering into a chain of lets and recursive
// lets, Eager-wrap, and a final external type-check. The returned
// AssertHints are every assert statement the lowering pass discarded
// from the Core tree, in source order, for an optional downstream
// consumer (spec.md §9 Open Question (a)).
func Run(prog *srcast.Program, cfg Config) (*coreast.Program, []AssertHint, error) {
	if err := precheck.Check(prog); err != nil {
		return nil, nil, err
	}

	l := NewLowerer(cfg.StartCounter)
	result, err := l.lowerToplevel(prog.ToplevelAssigns, prog.Funcs)
	if err != nil {
		return nil, nil, err
	}

	out := &coreast.Program{Result: result}
	if !cfg.DisableEagerWrap {
		if out, err = EagerWrap(out); err != nil {
			return nil, l.Asserts, err
		}
	}

	if cfg.TrustTypeCheck {
		return out, l.Asserts, nil
	}
	if err := coretypecheck.Check(out); err != nil {
		return nil, l.Asserts, semErr(errors.LOW103, srcast.Span{}, "emitted Core program was rejected by the type checker: %v", err)
	}
	return out, l.Asserts, nil
}

// lowerToplevel walks the toplevel annotated assignments, then the
// toplevel function definitions, chaining each into a let or letrec
// around the rest; the terminal expression is a read of the entry
// function's bound name.
func (l *Lowerer) lowerToplevel(assigns []*srcast.AnnAssign, funcs []*srcast.FuncDef) (coreast.Expr, error) {
	if len(assigns) > 0 {
		a := assigns[0]
		valE, err := l.lowerExpr(a.Value)
		if err != nil {
			return nil, err
		}
		declaredT, err := coretypes.Translate(a.Type, a.Span)
		if err != nil {
			return nil, err
		}
		return l.assignTarget(a.TargetV, valE, declaredT, func() (coreast.Expr, error) {
			return l.lowerToplevel(assigns[1:], funcs)
		})
	}
	if len(funcs) > 0 {
		return l.lowerFuncDef(funcs[0], funcs[1:])
	}
	return varRef(srcast.Span{}, EntryFunctionName), nil
}

// lowerFuncDef turns one Source function definition into a LetRec whose
// Value is a Core lambda over the function's parameters; rest is
// lowered as the LetRec's Body, so later toplevel functions (and the
// final read of "solve") see this one in scope. fd.Name is bound
// inside its own Value before the body is lowered, so a self-call
// resolves to the same LetRec.
func (l *Lowerer) lowerFuncDef(fd *srcast.FuncDef, rest []*srcast.FuncDef) (coreast.Expr, error) {
	paramTypes := make([]coretypes.Type, len(fd.Params))
	coreParams := make([]coreast.Param, len(fd.Params))
	for i, p := range fd.Params {
		pt, err := coretypes.Translate(p.Type, p.Span)
		if err != nil {
			return nil, err
		}
		paramTypes[i] = pt
		coreParams[i] = coreast.Param{Name: p.Name, Type: pt}
	}
	retT, err := coretypes.Translate(fd.ReturnType, fd.Span)
	if err != nil {
		return nil, err
	}
	fnType := coretypes.NewCurriedFunc(paramTypes, retT)

	var body coreast.Expr
	err = l.scope.WithScope(func() error {
		l.scope.Define(fd.Name)
		for _, p := range fd.Params {
			l.scope.Define(p.Name)
		}
		b, err := l.LowerFunctionBody(fd.Body)
		body = b
		return err
	})
	if err != nil {
		return nil, err
	}
	value := lambda(fd.Span, coreParams, body)

	l.scope.Define(fd.Name)
	cont, err := l.lowerToplevel(nil, rest)
	if err != nil {
		return nil, err
	}

	return &coreast.LetRec{CoreNode: node(fd.Span), Name: fd.Name, Type: fnType, Value: value, Body: cont}, nil
}
