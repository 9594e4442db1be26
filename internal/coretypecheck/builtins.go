package coretypecheck

import (
	"fmt"

	"github.com/sunholo/corelower/internal/coretypes"
)

// Scheme is a builtin's generic type together with the names of its
// type variables, instantiated fresh at every call site so unrelated
// calls to, say, map don't force the same element type.
type Scheme struct {
	vars []string
	ty   coretypes.Type
}

func tv(n string) *coretypes.TVar { return &coretypes.TVar{Name: n} }

var i = &coretypes.TInt{}
var b = &coretypes.TBool{}

func fn(params []coretypes.Type, ret coretypes.Type) coretypes.Type {
	return coretypes.NewCurriedFunc(params, ret)
}

// builtinSchemes is the signature table for every primitive the
// lowerer's builtin-translation layer may emit as a LitBuiltin
// reference, covering spec.md §4's arithmetic, comparison, list, and
// aggregate primitives.
var builtinSchemes = map[string]Scheme{
	"add": {nil, fn([]coretypes.Type{i, i}, i)},
	"sub": {nil, fn([]coretypes.Type{i, i}, i)},
	"mul": {nil, fn([]coretypes.Type{i, i}, i)},
	"neg":  {nil, fn([]coretypes.Type{i}, i)},
	"bnot": {nil, fn([]coretypes.Type{i}, i)},

	"floordiv": {nil, fn([]coretypes.Type{i, i}, i)},
	"mod":      {nil, fn([]coretypes.Type{i, i}, i)},
	"ceildiv":  {nil, fn([]coretypes.Type{i, i}, i)},
	"divmod":   {nil, fn([]coretypes.Type{i, i}, &coretypes.TTuple{Elems: []coretypes.Type{i, i}})},
	"pow":      {nil, fn([]coretypes.Type{i, i}, i)},
	"modpow":   {nil, fn([]coretypes.Type{i, i, i}, i)},
	"gcd":      {nil, fn([]coretypes.Type{i, i}, i)},
	"lcm":      {nil, fn([]coretypes.Type{i, i}, i)},
	"modinv":   {nil, fn([]coretypes.Type{i, i}, i)},
	"abs":      {nil, fn([]coretypes.Type{i}, i)},
	"fact":     {nil, fn([]coretypes.Type{i}, i)},
	"choose":   {nil, fn([]coretypes.Type{i, i}, i)},
	"permute":  {nil, fn([]coretypes.Type{i, i}, i)},
	"multichoose": {nil, fn([]coretypes.Type{i, i}, i)},

	"band": {nil, fn([]coretypes.Type{i, i}, i)},
	"bor":  {nil, fn([]coretypes.Type{i, i}, i)},
	"bxor": {nil, fn([]coretypes.Type{i, i}, i)},
	"shl":  {nil, fn([]coretypes.Type{i, i}, i)},
	"shr":  {nil, fn([]coretypes.Type{i, i}, i)},

	"and":     {nil, fn([]coretypes.Type{b, b}, b)},
	"or":      {nil, fn([]coretypes.Type{b, b}, b)},
	"implies": {nil, fn([]coretypes.Type{b, b}, b)},
	"not":     {nil, fn([]coretypes.Type{b}, b)},

	"eq":    {[]string{"a"}, fn([]coretypes.Type{tv("a"), tv("a")}, b)},
	"ne":    {[]string{"a"}, fn([]coretypes.Type{tv("a"), tv("a")}, b)},
	"lt":    {[]string{"a"}, fn([]coretypes.Type{tv("a"), tv("a")}, b)},
	"le":    {[]string{"a"}, fn([]coretypes.Type{tv("a"), tv("a")}, b)},
	"gt":    {[]string{"a"}, fn([]coretypes.Type{tv("a"), tv("a")}, b)},
	"ge":    {[]string{"a"}, fn([]coretypes.Type{tv("a"), tv("a")}, b)},
	"max2":  {[]string{"a"}, fn([]coretypes.Type{tv("a"), tv("a")}, tv("a"))},
	"min2":  {[]string{"a"}, fn([]coretypes.Type{tv("a"), tv("a")}, tv("a"))},
	"in":    {[]string{"a"}, fn([]coretypes.Type{tv("a"), &coretypes.TList{Elem: tv("a")}}, b)},

	"len":      {[]string{"a"}, fn([]coretypes.Type{&coretypes.TList{Elem: tv("a")}}, i)},
	"at":       {[]string{"a"}, fn([]coretypes.Type{&coretypes.TList{Elem: tv("a")}, i}, tv("a"))},
	"set_at":   {[]string{"a"}, fn([]coretypes.Type{&coretypes.TList{Elem: tv("a")}, i, tv("a")}, &coretypes.TList{Elem: tv("a")})},
	"slice":    {[]string{"a"}, fn([]coretypes.Type{&coretypes.TList{Elem: tv("a")}, i, i, i}, &coretypes.TList{Elem: tv("a")})},
	"cons":     {[]string{"a"}, fn([]coretypes.Type{tv("a"), &coretypes.TList{Elem: tv("a")}}, &coretypes.TList{Elem: tv("a")})},
	"snoc":     {[]string{"a"}, fn([]coretypes.Type{&coretypes.TList{Elem: tv("a")}, tv("a")}, &coretypes.TList{Elem: tv("a")})},
	"concat":   {[]string{"a"}, fn([]coretypes.Type{&coretypes.TList{Elem: tv("a")}, &coretypes.TList{Elem: tv("a")}}, &coretypes.TList{Elem: tv("a")})},
	"sorted":   {[]string{"a"}, fn([]coretypes.Type{&coretypes.TList{Elem: tv("a")}}, &coretypes.TList{Elem: tv("a")})},
	"reversed": {[]string{"a"}, fn([]coretypes.Type{&coretypes.TList{Elem: tv("a")}}, &coretypes.TList{Elem: tv("a")})},
	"copyList": {[]string{"a"}, fn([]coretypes.Type{&coretypes.TList{Elem: tv("a")}}, &coretypes.TList{Elem: tv("a")})},
	"count":    {[]string{"a"}, fn([]coretypes.Type{&coretypes.TList{Elem: tv("a")}, tv("a")}, i)},
	"indexOf":  {[]string{"a"}, fn([]coretypes.Type{&coretypes.TList{Elem: tv("a")}, tv("a")}, i)},
	"argmax":   {[]string{"a"}, fn([]coretypes.Type{&coretypes.TList{Elem: tv("a")}}, i)},
	"argmin":   {[]string{"a"}, fn([]coretypes.Type{&coretypes.TList{Elem: tv("a")}}, i)},
	"minList":  {nil, fn([]coretypes.Type{&coretypes.TList{Elem: i}}, i)},
	"maxList":  {nil, fn([]coretypes.Type{&coretypes.TList{Elem: i}}, i)},

	// enumerate and zip are not Core primitives: spec.md §4.E desugars
	// both to map/range1/at/len (internal/lower/expr.go's lowerEnumerate
	// and lowerZip), so no LitBuiltin named "enumerate" or "zip" is ever
	// emitted and neither needs a scheme here.

	"map":    {[]string{"a", "c"}, fn([]coretypes.Type{fn([]coretypes.Type{tv("a")}, tv("c")), &coretypes.TList{Elem: tv("a")}}, &coretypes.TList{Elem: tv("c")})},
	"filter": {[]string{"a"}, fn([]coretypes.Type{fn([]coretypes.Type{tv("a")}, b), &coretypes.TList{Elem: tv("a")}}, &coretypes.TList{Elem: tv("a")})},
	"foldl": {[]string{"a", "c"}, fn([]coretypes.Type{
		fn([]coretypes.Type{tv("c"), tv("a")}, tv("c")), tv("c"), &coretypes.TList{Elem: tv("a")},
	}, tv("c"))},

	"all": {nil, fn([]coretypes.Type{&coretypes.TList{Elem: b}}, b)},
	"any": {nil, fn([]coretypes.Type{&coretypes.TList{Elem: b}}, b)},
	"sum": {nil, fn([]coretypes.Type{&coretypes.TList{Elem: i}}, i)},

	"product": {nil, fn([]coretypes.Type{&coretypes.TList{Elem: i}}, i)},

	"range1": {nil, fn([]coretypes.Type{i}, &coretypes.TList{Elem: i})},
	"range2": {nil, fn([]coretypes.Type{i, i}, &coretypes.TList{Elem: i})},
	"range3": {nil, fn([]coretypes.Type{i, i, i}, &coretypes.TList{Elem: i})},

	// if is only ever emitted by the Eager-wrap pass (internal/lower/eager.go);
	// its two branch arguments are already nullary-lambda thunks by the
	// time it's applied, and since a zero-parameter Lambda's inferred
	// type equals its body's type, the thunked branch still unifies
	// against "a" directly.
	"if": {[]string{"a"}, fn([]coretypes.Type{b, tv("a"), tv("a")}, tv("a"))},
}

// instantiate makes a fresh copy of scheme s, renaming every bound type
// variable using fresh, a monotonic counter threaded by the caller so
// distinct call sites never share a type variable.
func instantiate(s Scheme, fresh *int) coretypes.Type {
	if len(s.vars) == 0 {
		return s.ty
	}
	rename := map[string]coretypes.Type{}
	for _, v := range s.vars {
		rename[v] = tv(fmt.Sprintf("%s#%d", v, *fresh))
		*fresh++
	}
	return substituteVars(s.ty, rename)
}

func substituteVars(t coretypes.Type, rename map[string]coretypes.Type) coretypes.Type {
	switch tt := t.(type) {
	case *coretypes.TVar:
		if r, ok := rename[tt.Name]; ok {
			return r
		}
		return tt
	case *coretypes.TList:
		return &coretypes.TList{Elem: substituteVars(tt.Elem, rename)}
	case *coretypes.TTuple:
		elems := make([]coretypes.Type, len(tt.Elems))
		for i, e := range tt.Elems {
			elems[i] = substituteVars(e, rename)
		}
		return &coretypes.TTuple{Elems: elems}
	case *coretypes.TFunc:
		return &coretypes.TFunc{Param: substituteVars(tt.Param, rename), Ret: substituteVars(tt.Ret, rename)}
	default:
		return t
	}
}

// LookupBuiltin returns the (not yet instantiated) scheme for a builtin
// name, or false if name is not a known primitive.
func LookupBuiltin(name string) (Scheme, bool) {
	s, ok := builtinSchemes[name]
	return s, ok
}
