package srcast

import (
	"fmt"
	"strings"
)

// Target is a restricted subset of Expr legal as an assignment l-value:
// a name, a subscript (possibly nested), or a tuple of targets.
type Target interface {
	Position() Span
	String() string
	// AsExpr reinterprets this target as a read-expression, needed
	// wherever the target assigner or augmented-assignment rule must
	// read the current value named by the target (spec.md 4.F, 4.G).
	AsExpr() Expr
	targetNode()
}

type NameTarget struct {
	Name string
	Span Span
}

func (t *NameTarget) Position() Span { return t.Span }
func (t *NameTarget) String() string { return t.Name }
func (t *NameTarget) AsExpr() Expr   { return &Var{Name: t.Name, Span: t.Span} }
func (t *NameTarget) targetNode()    {}

type SubscriptTarget struct {
	Base  Target
	Index Expr
	Span  Span
}

func (t *SubscriptTarget) Position() Span { return t.Span }
func (t *SubscriptTarget) String() string { return fmt.Sprintf("%s[%s]", t.Base, t.Index) }
func (t *SubscriptTarget) AsExpr() Expr {
	return &Subscript{Base: t.Base.AsExpr(), Index: t.Index, Span: t.Span}
}
func (t *SubscriptTarget) targetNode() {}

type TupleTarget struct {
	Elems []Target
	Span  Span
}

func (t *TupleTarget) Position() Span { return t.Span }
func (t *TupleTarget) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}
func (t *TupleTarget) AsExpr() Expr {
	elems := make([]Expr, len(t.Elems))
	for i, e := range t.Elems {
		elems[i] = e.AsExpr()
	}
	return &TupleLit{Elems: elems, Span: t.Span}
}
func (t *TupleTarget) targetNode() {}

// AsTarget attempts to reinterpret a read-expression as an assignment
// target, used by the Append statement ("xs.append(e)" requires its
// receiver expression to be convertible to a target) and wherever a
// surface form admits both readings. Returns false when expr contains
// anything other than names, subscripts, and tuples.
func AsTarget(e Expr) (Target, bool) {
	switch ex := e.(type) {
	case *Var:
		return &NameTarget{Name: ex.Name, Span: ex.Span}, true
	case *Subscript:
		base, ok := AsTarget(ex.Base)
		if !ok {
			return nil, false
		}
		return &SubscriptTarget{Base: base, Index: ex.Index, Span: ex.Span}, true
	case *TupleLit:
		elems := make([]Target, len(ex.Elems))
		for i, sub := range ex.Elems {
			t, ok := AsTarget(sub)
			if !ok {
				return nil, false
			}
			elems[i] = t
		}
		return &TupleTarget{Elems: elems, Span: ex.Span}, true
	default:
		return nil, false
	}
}
