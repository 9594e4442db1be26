package coretypes

import (
	"fmt"

	"github.com/sunholo/corelower/internal/errors"
	"github.com/sunholo/corelower/internal/srcast"
)

// Translate maps a Source type annotation to its Core type, per
// spec.md §4.D. str and side-effect types are rejected with a semantic
// error; every other Source type has a structural Core counterpart.
func Translate(t srcast.Type, span srcast.Span) (Type, error) {
	switch tt := t.(type) {
	case *srcast.TypeVar:
		return &TVar{Name: tt.Name}, nil

	case *srcast.IntType:
		return &TInt{}, nil

	case *srcast.BoolType:
		return &TBool{}, nil

	case *srcast.StrType:
		return nil, errors.WrapReport(errors.New(
			errors.LOW001, "lower", "cannot use `str` type outside main", span))

	case *srcast.SideEffectType:
		return nil, errors.WrapReport(errors.New(
			errors.LOW002, "lower",
			fmt.Sprintf("side-effect type `%s` must only be used as expression-statement", tt.Name),
			span))

	case *srcast.ListType:
		elem, err := Translate(tt.Elem, span)
		if err != nil {
			return nil, err
		}
		return &TList{Elem: elem}, nil

	case *srcast.TupleType:
		elems := make([]Type, len(tt.Elems))
		for i, e := range tt.Elems {
			et, err := Translate(e, span)
			if err != nil {
				return nil, err
			}
			elems[i] = et
		}
		return &TTuple{Elems: elems}, nil

	case *srcast.CallableType:
		params := make([]Type, len(tt.Args))
		for i, a := range tt.Args {
			pt, err := Translate(a, span)
			if err != nil {
				return nil, err
			}
			params[i] = pt
		}
		ret, err := Translate(tt.Ret, span)
		if err != nil {
			return nil, err
		}
		return NewCurriedFunc(params, ret), nil

	default:
		return nil, errors.WrapReport(errors.New(
			errors.LOW901, "lower", fmt.Sprintf("unresolved Source type %T", t), span))
	}
}

// TranslateInMain is Translate, but permits str (the entry-function-only
// exception spec.md §4.D carves out for the `str` type).
func TranslateInMain(t srcast.Type, span srcast.Span) (Type, error) {
	if _, ok := t.(*srcast.StrType); ok {
		return &TVar{Name: "'str"}, nil
	}
	return Translate(t, span)
}
