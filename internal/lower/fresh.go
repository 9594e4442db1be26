package lower

import (
	"fmt"

	"github.com/sunholo/corelower/internal/coretypes"
)

// NameSupply mints globally-unique variable and type-variable names
// during a single Run. Its counter is owned by the Lowerer for the
// duration of one run and discarded afterward (spec.md §5) — never a
// package-level singleton, so two Run calls in the same process never
// share state.
type NameSupply struct {
	counter uint64
}

// NewNameSupply returns a supply starting at start, letting the
// orchestrator's configuration pin the counter for deterministic output
// across runs of the same input (spec.md §3 invariant 4).
func NewNameSupply(start uint64) *NameSupply {
	return &NameSupply{counter: start}
}

// freshPrefix can never collide with a Source identifier: the surface
// grammar only accepts identifiers built from letters, digits, and
// underscore, never starting with '$'.
const freshPrefix = "$"

// FreshVar returns a new globally-unique variable name.
func (s *NameSupply) FreshVar() string {
	s.counter++
	return fmt.Sprintf("%sv%d", freshPrefix, s.counter)
}

// FreshType returns a new Core type variable, distinguishable from any
// type variable surviving translation from a Source annotation (those
// keep their Source-level spelling, never a '$' prefix).
func (s *NameSupply) FreshType() *coretypes.TVar {
	s.counter++
	return &coretypes.TVar{Name: fmt.Sprintf("%st%d", freshPrefix, s.counter)}
}
