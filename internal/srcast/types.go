package srcast

import (
	"fmt"
	"strings"
)

// Type is a Source-level type annotation. Only a handful of types are
// legal in the restricted subset this pass accepts; str and side-effect
// types are accepted here (so the parser can still build a valid tree)
// but are rejected by the type translator (internal/coretypes) wherever
// they would flow into Core.
type Type interface {
	Position() Span
	String() string
	typeNode()
}

type TypeVar struct {
	Name string
	Span Span
}

func (t *TypeVar) Position() Span { return t.Span }
func (t *TypeVar) String() string { return t.Name }
func (t *TypeVar) typeNode()      {}

type IntType struct{ Span Span }

func (t *IntType) Position() Span { return t.Span }
func (t *IntType) String() string { return "int" }
func (t *IntType) typeNode()      {}

type BoolType struct{ Span Span }

func (t *BoolType) Position() Span { return t.Span }
func (t *BoolType) String() string { return "bool" }
func (t *BoolType) typeNode()      {}

// StrType is accepted syntactically but rejected by the translator
// everywhere except inside the entry function, per spec.
type StrType struct{ Span Span }

func (t *StrType) Position() Span { return t.Span }
func (t *StrType) String() string { return "str" }
func (t *StrType) typeNode()      {}

// SideEffectType marks types such as "IO" that may only label an
// expression-statement, never flow into a pure Core value.
type SideEffectType struct {
	Name string
	Span Span
}

func (t *SideEffectType) Position() Span { return t.Span }
func (t *SideEffectType) String() string { return t.Name }
func (t *SideEffectType) typeNode()      {}

type ListType struct {
	Elem Type
	Span Span
}

func (t *ListType) Position() Span { return t.Span }
func (t *ListType) String() string { return fmt.Sprintf("List[%s]", t.Elem) }
func (t *ListType) typeNode()      {}

type TupleType struct {
	Elems []Type
	Span  Span
}

func (t *TupleType) Position() Span { return t.Span }
func (t *TupleType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("Tuple[%s]", strings.Join(parts, ", "))
}
func (t *TupleType) typeNode() {}

type CallableType struct {
	Args []Type
	Ret  Type
	Span Span
}

func (t *CallableType) Position() Span { return t.Span }
func (t *CallableType) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("Callable[[%s], %s]", strings.Join(parts, ", "), t.Ret)
}
func (t *CallableType) typeNode() {}
