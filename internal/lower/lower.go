// Package lower implements the Source-to-Core lowering pass: the
// expression lowerer, target assigner, statement lowerer, and the
// Eager-wrap rewrite, orchestrated by Run. It consults the external
// varanalysis, precheck, and coretypecheck packages at the seams
// spec.md describes, and otherwise owns its own fresh-name counter and
// scope environment for the lifetime of a single Run (spec.md §5).
package lower

import (
	"fmt"

	"github.com/sunholo/corelower/internal/coreast"
	"github.com/sunholo/corelower/internal/coretypes"
	"github.com/sunholo/corelower/internal/errors"
	"github.com/sunholo/corelower/internal/srcast"
)

// AssertHint records a Source assert statement discarded from the Core
// tree (spec.md §9 Open Question (a)): the asserted condition survives
// only as a hint a downstream pass could later promote to a runtime or
// static check, never as emitted Core.
type AssertHint struct {
	Cond srcast.Expr
	Span srcast.Span
}

// Lowerer holds the state threaded across one Run: the fresh-name
// supply, the scope environment, and the asserts seen so far. None of
// it survives past Run.
type Lowerer struct {
	ns      *NameSupply
	scope   *Scope
	Asserts []AssertHint
}

// NewLowerer returns a Lowerer with its own fresh-name supply seeded at
// start and an empty scope.
func NewLowerer(start uint64) *Lowerer {
	return &Lowerer{ns: NewNameSupply(start), scope: NewScope()}
}

func node(span srcast.Span) coreast.CoreNode {
	return coreast.CoreNode{Span: span}
}

func semErr(code string, span srcast.Span, format string, args ...any) error {
	return errors.WrapReport(errors.New(code, "lower", fmt.Sprintf(format, args...), span))
}

// atom ensures e is atomic (spec.md §3 invariant 5 / ANF): if it
// already is, it's passed to cont unchanged; otherwise it is let-bound
// to a fresh name of type t, and the Let wraps cont applied to that
// name.
func (l *Lowerer) atom(e coreast.Expr, t coretypes.Type, span srcast.Span, cont func(coreast.Expr) coreast.Expr) coreast.Expr {
	if coreast.IsAtomic(e) {
		return cont(e)
	}
	name := l.ns.FreshVar()
	return &coreast.Let{
		CoreNode: node(span),
		Name:     name,
		Type:     t,
		Value:    e,
		Body:     cont(&coreast.Var{CoreNode: node(span), Name: name}),
	}
}

// atomE is atom's error-propagating counterpart, needed wherever cont
// itself performs further lowering that can fail.
func (l *Lowerer) atomE(e coreast.Expr, t coretypes.Type, span srcast.Span, cont func(coreast.Expr) (coreast.Expr, error)) (coreast.Expr, error) {
	if coreast.IsAtomic(e) {
		return cont(e)
	}
	name := l.ns.FreshVar()
	body, err := cont(&coreast.Var{CoreNode: node(span), Name: name})
	if err != nil {
		return nil, err
	}
	return &coreast.Let{CoreNode: node(span), Name: name, Type: t, Value: e, Body: body}, nil
}

func varRef(span srcast.Span, name string) *coreast.Var {
	return &coreast.Var{CoreNode: node(span), Name: name}
}

func litInt(span srcast.Span, v int64) *coreast.LitInt {
	return &coreast.LitInt{CoreNode: node(span), Value: v}
}

func litBool(span srcast.Span, v bool) *coreast.LitBool {
	return &coreast.LitBool{CoreNode: node(span), Value: v}
}

func builtin(span srcast.Span, name string) *coreast.LitBuiltin {
	return &coreast.LitBuiltin{CoreNode: node(span), Name: name}
}

func apply(span srcast.Span, fn coreast.Expr, args ...coreast.Expr) *coreast.App {
	return &coreast.App{CoreNode: node(span), Func: fn, Args: args}
}

func lambda(span srcast.Span, params []coreast.Param, body coreast.Expr) *coreast.Lambda {
	return &coreast.Lambda{CoreNode: node(span), Params: params, Body: body}
}

func tupleProj(span srcast.Span, tuple coreast.Expr, index int) *coreast.TupleProj {
	return &coreast.TupleProj{CoreNode: node(span), Tuple: tuple, Index: index}
}
