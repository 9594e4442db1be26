package lower

// Scope tracks, per spec.md §4.C, which Source names are lexically
// defined at the current point in the statement lowerer's walk, and —
// since a Source name may be reassigned many times while the Core name
// it denotes must never be rebound in the same let-chain (invariant
// 5) — which fresh Core name it currently denotes. It is a flat map
// with explicit snapshot/restore rather than a push/pop stack of
// frames: WithScope takes its own snapshot, so nesting is free and a
// Define/Bind inside a branch never leaks to a sibling branch.
type Scope struct {
	defined map[string]bool
	rename  map[string]string
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{defined: map[string]bool{}, rename: map[string]string{}}
}

// Define marks name as lexically in scope, denoted by itself (used for
// names bound directly by a Core lambda parameter, which never need
// renaming since Source lambdas have no reassignment). It also resets
// any previous rename for name, so a lambda parameter properly shadows
// an outer binding of the same Source name.
func (s *Scope) Define(name string) {
	s.defined[name] = true
	s.rename[name] = name
}

// Bind marks name as lexically in scope, currently denoted by the Core
// name coreName. Used every time the statement lowerer assigns a
// Source name, so that a subsequent read of name resolves to whichever
// Core binding is most recent.
func (s *Scope) Bind(name, coreName string) {
	s.defined[name] = true
	s.rename[name] = coreName
}

// IsDefined reports whether name is currently in scope.
func (s *Scope) IsDefined(name string) bool {
	return s.defined[name]
}

// Resolve returns the Core name a Source name currently denotes, or
// name itself if it was never renamed (e.g. a function parameter).
func (s *Scope) Resolve(name string) string {
	if r, ok := s.rename[name]; ok {
		return r
	}
	return name
}

// WithScope runs action against s, then restores s to the state it had
// before action ran — any Define/Bind performed by action (or its
// callees) is rolled back, regardless of whether action returns an
// error.
func (s *Scope) WithScope(action func() error) error {
	definedSnap, renameSnap := s.snapshot()
	err := action()
	s.defined, s.rename = definedSnap, renameSnap
	return err
}

func (s *Scope) snapshot() (map[string]bool, map[string]string) {
	definedCp := make(map[string]bool, len(s.defined))
	for k, v := range s.defined {
		definedCp[k] = v
	}
	renameCp := make(map[string]string, len(s.rename))
	for k, v := range s.rename {
		renameCp[k] = v
	}
	return definedCp, renameCp
}
