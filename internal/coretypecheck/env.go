// Package coretypecheck is the external Core type checker spec.md
// §4.I step 5 calls out: a small Hindley-Milner-flavored unification
// checker over coreast/coretypes, plus the post-Eager-wrap ANF-shape
// verifier. internal/lower treats both as opaque collaborators it calls
// once lowering (and Eager-wrap) finish.
package coretypecheck

import (
	"fmt"

	"github.com/sunholo/corelower/internal/coretypes"
)

// Env is a chain of immutable binding frames, mirroring the teacher's
// parent-pointer TypeEnv: Extend never mutates the receiver, so a
// binding introduced in one branch of the checker cannot leak into a
// sibling branch that extended the same parent.
type Env struct {
	bindings map[string]coretypes.Type
	parent   *Env
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{bindings: map[string]coretypes.Type{}}
}

// Extend returns a new environment with name bound to t, parented on env.
func (env *Env) Extend(name string, t coretypes.Type) *Env {
	return &Env{bindings: map[string]coretypes.Type{name: t}, parent: env}
}

// Lookup finds name's type, searching outward through parent frames.
func (env *Env) Lookup(name string) (coretypes.Type, error) {
	for e := env; e != nil; e = e.parent {
		if t, ok := e.bindings[name]; ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unbound Core variable: %s", name)
}
