package coretypecheck

import (
	"fmt"

	"github.com/sunholo/corelower/internal/coreast"
	"github.com/sunholo/corelower/internal/coretypes"
	"github.com/sunholo/corelower/internal/errors"
)

// checker threads a substitution and a fresh-type-variable counter
// through a single Check call; every instantiated builtin call site
// gets its own type variables so two unrelated map() calls never
// unify to the same element type.
type checker struct {
	sub   Substitution
	fresh int
}

// Check type-checks prog, synthesizing a type for Result against env.
// It is the last step of spec.md §4.I: called once lowering and
// Eager-wrap finish, on input the lowerer otherwise trusts.
func Check(prog *coreast.Program) error {
	c := &checker{sub: Substitution{}}
	env := NewEnv()
	if _, err := c.infer(prog.Result, env); err != nil {
		return errors.WrapReport(errors.New(errors.LOW103, "typecheck", err.Error(), prog.Result.Position()))
	}
	return nil
}

func (c *checker) infer(e coreast.Expr, env *Env) (coretypes.Type, error) {
	switch ex := e.(type) {
	case *coreast.Var:
		t, err := env.Lookup(ex.Name)
		if err != nil {
			if s, ok := LookupBuiltin(ex.Name); ok {
				return instantiate(s, &c.fresh), nil
			}
			return nil, err
		}
		return t, nil

	case *coreast.LitInt:
		return &coretypes.TInt{}, nil

	case *coreast.LitBool:
		return &coretypes.TBool{}, nil

	case *coreast.LitBuiltin:
		s, ok := LookupBuiltin(ex.Name)
		if !ok {
			return nil, fmt.Errorf("unknown builtin %q", ex.Name)
		}
		return instantiate(s, &c.fresh), nil

	case *coreast.NilOfType:
		return &coretypes.TList{Elem: ex.ElemType}, nil

	case *coreast.TupleCtor:
		elems := make([]coretypes.Type, len(ex.Elems))
		for i, sub := range ex.Elems {
			t, err := c.infer(sub, env)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return &coretypes.TTuple{Elems: elems}, nil

	case *coreast.TupleProj:
		tupT, err := c.infer(ex.Tuple, env)
		if err != nil {
			return nil, err
		}
		tt, ok := Apply(c.sub, tupT).(*coretypes.TTuple)
		if !ok {
			return nil, fmt.Errorf("proj_%d applied to non-tuple type %s", ex.Index, tupT)
		}
		if ex.Index < 0 || ex.Index >= len(tt.Elems) {
			return nil, fmt.Errorf("proj_%d out of range for tuple of arity %d", ex.Index, len(tt.Elems))
		}
		return tt.Elems[ex.Index], nil

	case *coreast.Lambda:
		inner := env
		for _, p := range ex.Params {
			inner = inner.Extend(p.Name, p.Type)
		}
		bodyT, err := c.infer(ex.Body, inner)
		if err != nil {
			return nil, err
		}
		params := make([]coretypes.Type, len(ex.Params))
		for i, p := range ex.Params {
			params[i] = p.Type
		}
		return coretypes.NewCurriedFunc(params, bodyT), nil

	case *coreast.App:
		fnT, err := c.infer(ex.Func, env)
		if err != nil {
			return nil, err
		}
		for _, arg := range ex.Args {
			argT, err := c.infer(arg, env)
			if err != nil {
				return nil, err
			}
			fnT = Apply(c.sub, fnT)
			ft, ok := fnT.(*coretypes.TFunc)
			if !ok {
				return nil, fmt.Errorf("applying a non-function type %s", fnT)
			}
			if c.sub, err = Unify(ft.Param, argT, c.sub); err != nil {
				return nil, fmt.Errorf("argument type mismatch: %w", err)
			}
			fnT = ft.Ret
		}
		return Apply(c.sub, fnT), nil

	case *coreast.Let:
		valT, err := c.infer(ex.Value, env)
		if err != nil {
			return nil, err
		}
		if c.sub, err = Unify(ex.Type, valT, c.sub); err != nil {
			return nil, fmt.Errorf("let %s: declared type disagrees with value: %w", ex.Name, err)
		}
		return c.infer(ex.Body, env.Extend(ex.Name, Apply(c.sub, ex.Type)))

	case *coreast.LetRec:
		inner := env.Extend(ex.Name, ex.Type)
		valT, err := c.infer(ex.Value, inner)
		if err != nil {
			return nil, err
		}
		if c.sub, err = Unify(ex.Type, valT, c.sub); err != nil {
			return nil, fmt.Errorf("letrec %s: declared type disagrees with value: %w", ex.Name, err)
		}
		return c.infer(ex.Body, env.Extend(ex.Name, Apply(c.sub, ex.Type)))

	case *coreast.If:
		condT, err := c.infer(ex.Cond, env)
		if err != nil {
			return nil, err
		}
		if c.sub, err = Unify(condT, &coretypes.TBool{}, c.sub); err != nil {
			return nil, fmt.Errorf("if condition is not bool: %w", err)
		}
		thenT, err := c.infer(ex.Then, env)
		if err != nil {
			return nil, err
		}
		elseT, err := c.infer(ex.Else, env)
		if err != nil {
			return nil, err
		}
		if c.sub, err = Unify(thenT, elseT, c.sub); err != nil {
			return nil, fmt.Errorf("if branches disagree: %w", err)
		}
		if c.sub, err = Unify(ex.ResultType, thenT, c.sub); err != nil {
			return nil, fmt.Errorf("if result type disagrees with branches: %w", err)
		}
		return Apply(c.sub, thenT), nil

	default:
		return nil, fmt.Errorf("unchecked Core expression %T", e)
	}
}
