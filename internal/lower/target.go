package lower

import (
	"github.com/sunholo/corelower/internal/coreast"
	"github.com/sunholo/corelower/internal/coretypes"
	"github.com/sunholo/corelower/internal/errors"
	"github.com/sunholo/corelower/internal/srcast"
)

// assignTarget implements component F: bind value (of type valueType)
// to target, then run cont to produce the rest of the expression.
// value is evaluated exactly once; a tuple target gets one outer let
// before being projected apart (spec.md §4.F).
func (l *Lowerer) assignTarget(target srcast.Target, value coreast.Expr, valueType coretypes.Type, cont func() (coreast.Expr, error)) (coreast.Expr, error) {
	switch t := target.(type) {
	case *srcast.NameTarget:
		// Source permits reassigning t.Name many times; Core forbids
		// rebinding the same let-name in one chain (invariant 5), so
		// each assignment mints a fresh Core name and the scope's
		// rename table is what lets later reads of t.Name find it.
		coreName := l.ns.FreshVar()
		l.scope.Bind(t.Name, coreName)
		body, err := cont()
		if err != nil {
			return nil, err
		}
		return &coreast.Let{CoreNode: node(t.Span), Name: coreName, Type: valueType, Value: value, Body: body}, nil

	case *srcast.SubscriptTarget:
		return l.assignSubscriptTarget(t, value)(cont)

	case *srcast.TupleTarget:
		return l.atomE(value, valueType, t.Span, func(yVar coreast.Expr) (coreast.Expr, error) {
			return l.assignTupleElems(t.Elems, yVar, t.Span, 0, cont)
		})

	default:
		return nil, semErr(errors.LOW901, target.Position(), "unresolved assignment target %T", target)
	}
}

// assignSubscriptTarget rebinds the ultimate base name to the array
// produced by set_at(base, index, value), recursing through nested
// subscripts (xs[i][j] = v).
func (l *Lowerer) assignSubscriptTarget(t *srcast.SubscriptTarget, value coreast.Expr) func(cont func() (coreast.Expr, error)) (coreast.Expr, error) {
	return func(cont func() (coreast.Expr, error)) (coreast.Expr, error) {
		baseE, err := l.lowerExpr(t.Base.AsExpr())
		if err != nil {
			return nil, err
		}
		idxE, err := l.lowerExpr(t.Index)
		if err != nil {
			return nil, err
		}
		atoms, wrap := l.atomizeMany([]coreast.Expr{baseE, idxE, value}, t.Span)
		updated := wrap(apply(t.Span, builtin(t.Span, "set_at"), atoms...))
		return l.assignTarget(t.Base, updated, l.ns.FreshType(), cont)
	}
}

func (l *Lowerer) assignTupleElems(elems []srcast.Target, tupleVar coreast.Expr, span srcast.Span, idx int, cont func() (coreast.Expr, error)) (coreast.Expr, error) {
	if idx >= len(elems) {
		return cont()
	}
	elemT := l.ns.FreshType()
	projected := tupleProj(span, tupleVar, idx)
	return l.assignTarget(elems[idx], projected, elemT, func() (coreast.Expr, error) {
		return l.assignTupleElems(elems, tupleVar, span, idx+1, cont)
	})
}
