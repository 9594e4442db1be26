// Package coreast declares the Core abstract syntax tree: the pure,
// typed lambda-calculus intermediate representation this pass lowers
// Source programs into (spec.md §3). The shape is ANF-flavored — the
// lowerer let-binds if conditions, tuple elements and the operands of
// ordinary calls, while builtin desugarings such as map f (filter p xs)
// keep nested application arguments — mirroring how the teacher's own
// Core IR is normalized.
package coreast

import (
	"fmt"
	"strings"

	"github.com/sunholo/corelower/internal/coretypes"
	"github.com/sunholo/corelower/internal/srcast"
)

// CoreNode is embedded by every Expr implementation, carrying a stable
// identifier assigned by the lowerer and the originating Source span
// (for diagnostics that survive past the lowering pass, e.g. from the
// external Core type checker).
type CoreNode struct {
	NodeID uint64
	Span   srcast.Span
}

func (n CoreNode) ID() uint64        { return n.NodeID }
func (n CoreNode) Position() srcast.Span { return n.Span }

// Expr is the base interface for all Core expressions.
type Expr interface {
	ID() uint64
	Position() srcast.Span
	String() string
	coreExpr()
}

// Var is a variable reference, either Source-origin or a fresh name
// minted by component A.
type Var struct {
	CoreNode
	Name string
}

func (v *Var) coreExpr()      {}
func (v *Var) String() string { return v.Name }

// LitInt is an integer literal.
type LitInt struct {
	CoreNode
	Value int64
}

func (l *LitInt) coreExpr()      {}
func (l *LitInt) String() string { return fmt.Sprintf("%d", l.Value) }

// LitBool is a boolean literal.
type LitBool struct {
	CoreNode
	Value bool
}

func (l *LitBool) coreExpr()      {}
func (l *LitBool) String() string { return fmt.Sprintf("%t", l.Value) }

// LitBuiltin names a library primitive as a first-class value (e.g. the
// function passed to map/filter/zip).
type LitBuiltin struct {
	CoreNode
	Name string
}

func (l *LitBuiltin) coreExpr()      {}
func (l *LitBuiltin) String() string { return l.Name }

// NilOfType is the empty list of the given element type, the base case
// list literals fold onto (spec.md 4.E "List literal").
type NilOfType struct {
	CoreNode
	ElemType coretypes.Type
}

func (l *NilOfType) coreExpr()      {}
func (l *NilOfType) String() string { return fmt.Sprintf("nil[%s]", l.ElemType) }

// TupleCtor constructs a tuple value from its (already-lowered) elements.
type TupleCtor struct {
	CoreNode
	Elems []Expr
}

func (t *TupleCtor) coreExpr() {}
func (t *TupleCtor) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// TupleProj projects the Index'th element out of a tuple value (the
// proj_i family in spec.md's worked examples). Tuple arity and element
// types vary per use, so this is a dedicated node rather than an entry
// in the builtin scheme table.
type TupleProj struct {
	CoreNode
	Tuple Expr
	Index int
}

func (t *TupleProj) coreExpr() {}
func (t *TupleProj) String() string {
	return fmt.Sprintf("proj_%d(%s)", t.Index, t.Tuple)
}

// Param is one typed lambda parameter.
type Param struct {
	Name string
	Type coretypes.Type
}

// Lambda is a multi-parameter (curried-in-spirit, uncurried-in-syntax)
// function value.
type Lambda struct {
	CoreNode
	Params []Param
	Body   Expr
}

func (l *Lambda) coreExpr() {}
func (l *Lambda) String() string {
	names := make([]string, len(l.Params))
	for i, p := range l.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("(\\%s. %s)", strings.Join(names, " "), l.Body)
}

// App is function application, uncurried: all arguments are supplied in
// one App node even though the callee's type is curried.
type App struct {
	CoreNode
	Func Expr
	Args []Expr
}

func (a *App) coreExpr() {}
func (a *App) String() string {
	parts := make([]string, len(a.Args))
	for i, e := range a.Args {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s %s)", a.Func, strings.Join(parts, " "))
}

// Let is a monomorphic, type-annotated, non-recursive binding.
type Let struct {
	CoreNode
	Name  string
	Type  coretypes.Type
	Value Expr
	Body  Expr
}

func (l *Let) coreExpr() {}
func (l *Let) String() string {
	return fmt.Sprintf("(let %s : %s = %s in %s)", l.Name, l.Type, l.Value, l.Body)
}

// LetRec is a single recursive toplevel binding (one per Source
// function), chained into its Body to form the program (spec.md 4.I
// step 2). Name is in scope inside Value, enabling recursion.
type LetRec struct {
	CoreNode
	Name  string
	Type  coretypes.Type
	Value Expr
	Body  Expr
}

func (l *LetRec) coreExpr() {}
func (l *LetRec) String() string {
	return fmt.Sprintf("(letrec %s : %s = %s in %s)", l.Name, l.Type, l.Value, l.Body)
}

// If is a conditional. Before Eager-wrap, Then/Else are plain
// expressions; after Eager-wrap every surviving If's arguments are
// nullary-lambda-wrapped per spec.md invariant 6 — represented post-wrap
// as an App of the if-builtin (see internal/lower/eager.go), not as this
// struct, so this type always denotes the pre-wrap lazy form.
type If struct {
	CoreNode
	ResultType coretypes.Type
	Cond       Expr
	Then       Expr
	Else       Expr
}

func (i *If) coreExpr() {}
func (i *If) String() string {
	return fmt.Sprintf("(if %s then %s else %s)", i.Cond, i.Then, i.Else)
}

// IsAtomic reports whether expr needs no further let-binding to appear
// in an argument/operand position, matching the teacher's ANF
// IsAtomic helper.
func IsAtomic(expr Expr) bool {
	switch expr.(type) {
	case *Var, *LitInt, *LitBool, *LitBuiltin, *NilOfType, *Lambda:
		return true
	default:
		return false
	}
}

// Program is a complete lowered Source program: a chain of LetRec
// bindings (one per Source function) terminating in the Result
// expression, which is conventionally Var("solve") per spec.md 4.I
// step 3.
type Program struct {
	Result Expr
}

func (p *Program) String() string {
	if p.Result == nil {
		return "<empty program>"
	}
	return p.Result.String()
}
