// Package srcast declares the Source abstract syntax tree: the restricted
// imperative, indentation-based input language consumed by the
// Source-to-Core lowering pass (see internal/lower).
package srcast

import "fmt"

// Pos is a single point in a Source file.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a range in a Source file, attached to every expression, target,
// and statement so that diagnostics can point at the offending code.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string { return s.Start.String() }
