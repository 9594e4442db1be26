package coretypecheck

import (
	"fmt"

	"github.com/sunholo/corelower/internal/coretypes"
)

// Substitution maps Core type-variable names to the type they stand for.
type Substitution map[string]coretypes.Type

// Apply resolves every bound type variable in t, recursively, following
// chains of substitution (a -> b, b -> int resolves a to int).
func Apply(sub Substitution, t coretypes.Type) coretypes.Type {
	switch tt := t.(type) {
	case *coretypes.TVar:
		if bound, ok := sub[tt.Name]; ok {
			return Apply(sub, bound)
		}
		return tt
	case *coretypes.TList:
		return &coretypes.TList{Elem: Apply(sub, tt.Elem)}
	case *coretypes.TTuple:
		elems := make([]coretypes.Type, len(tt.Elems))
		for i, e := range tt.Elems {
			elems[i] = Apply(sub, e)
		}
		return &coretypes.TTuple{Elems: elems}
	case *coretypes.TFunc:
		return &coretypes.TFunc{Param: Apply(sub, tt.Param), Ret: Apply(sub, tt.Ret)}
	default:
		return t
	}
}

// Unify extends sub so that Apply(sub, a) and Apply(sub, b) agree,
// failing on a structural mismatch or an occurs-check violation.
func Unify(a, b coretypes.Type, sub Substitution) (Substitution, error) {
	a = Apply(sub, a)
	b = Apply(sub, b)

	if coretypes.Equal(a, b) {
		return sub, nil
	}

	if av, ok := a.(*coretypes.TVar); ok {
		if occurs(av.Name, b) {
			return nil, fmt.Errorf("occurs check failed: %s occurs in %s", av.Name, b)
		}
		sub[av.Name] = b
		return sub, nil
	}
	if bv, ok := b.(*coretypes.TVar); ok {
		return Unify(bv, a, sub)
	}

	switch at := a.(type) {
	case *coretypes.TList:
		bt, ok := b.(*coretypes.TList)
		if !ok {
			return nil, mismatch(a, b)
		}
		return Unify(at.Elem, bt.Elem, sub)

	case *coretypes.TTuple:
		bt, ok := b.(*coretypes.TTuple)
		if !ok || len(at.Elems) != len(bt.Elems) {
			return nil, mismatch(a, b)
		}
		var err error
		for i := range at.Elems {
			sub, err = Unify(at.Elems[i], bt.Elems[i], sub)
			if err != nil {
				return nil, err
			}
		}
		return sub, nil

	case *coretypes.TFunc:
		bt, ok := b.(*coretypes.TFunc)
		if !ok {
			return nil, mismatch(a, b)
		}
		sub, err := Unify(at.Param, bt.Param, sub)
		if err != nil {
			return nil, err
		}
		return Unify(at.Ret, bt.Ret, sub)

	default:
		return nil, mismatch(a, b)
	}
}

func mismatch(a, b coretypes.Type) error {
	return fmt.Errorf("cannot unify %s with %s", a, b)
}

func occurs(name string, t coretypes.Type) bool {
	switch tt := t.(type) {
	case *coretypes.TVar:
		return tt.Name == name
	case *coretypes.TList:
		return occurs(name, tt.Elem)
	case *coretypes.TTuple:
		for _, e := range tt.Elems {
			if occurs(name, e) {
				return true
			}
		}
		return false
	case *coretypes.TFunc:
		return occurs(name, tt.Param) || occurs(name, tt.Ret)
	default:
		return false
	}
}
