// Package coretypes declares the Core type language: type variables,
// int, bool, list, tuple, and curried function types (spec.md §3).
package coretypes

import (
	"fmt"
	"strings"
)

// Type is any Core type.
type Type interface {
	String() string
	typeNode()
}

// TVar is a type variable, either surviving from a translated Source
// type variable or freshly minted by the lowerer as a type hole for the
// external Core type checker to solve.
type TVar struct {
	Name string
}

func (t *TVar) String() string { return t.Name }
func (t *TVar) typeNode()      {}

type TInt struct{}

func (t *TInt) String() string { return "int" }
func (t *TInt) typeNode()      {}

type TBool struct{}

func (t *TBool) String() string { return "bool" }
func (t *TBool) typeNode()      {}

type TList struct {
	Elem Type
}

func (t *TList) String() string { return fmt.Sprintf("[%s]", t.Elem) }
func (t *TList) typeNode()      {}

type TTuple struct {
	Elems []Type
}

func (t *TTuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}
func (t *TTuple) typeNode() {}

// TFunc is a single arrow: Param -> Ret. Curried multi-argument function
// types are built by nesting TFunc via NewCurriedFunc.
type TFunc struct {
	Param Type
	Ret   Type
}

func (t *TFunc) String() string { return fmt.Sprintf("(%s -> %s)", t.Param, t.Ret) }
func (t *TFunc) typeNode()      {}

// NewCurriedFunc builds the curried function type params[0] -> params[1]
// -> ... -> params[n-1] -> ret. With zero params it returns ret unchanged
// (a nullary thunk, as Eager-wrap needs for its lambda branches).
func NewCurriedFunc(params []Type, ret Type) Type {
	if len(params) == 0 {
		return ret
	}
	return &TFunc{Param: params[0], Ret: NewCurriedFunc(params[1:], ret)}
}

// Equal performs a structural equality check, used by the ANF verifier
// and by tests; it does not unify type variables.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case *TVar:
		y, ok := b.(*TVar)
		return ok && x.Name == y.Name
	case *TInt:
		_, ok := b.(*TInt)
		return ok
	case *TBool:
		_, ok := b.(*TBool)
		return ok
	case *TList:
		y, ok := b.(*TList)
		return ok && Equal(x.Elem, y.Elem)
	case *TTuple:
		y, ok := b.(*TTuple)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *TFunc:
		y, ok := b.(*TFunc)
		return ok && Equal(x.Param, y.Param) && Equal(x.Ret, y.Ret)
	default:
		return false
	}
}
