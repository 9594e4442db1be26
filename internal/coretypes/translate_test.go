package coretypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/corelower/internal/errors"
	"github.com/sunholo/corelower/internal/srcast"
)

func span() srcast.Span {
	p := srcast.Pos{File: "t.src", Line: 1, Column: 1}
	return srcast.Span{Start: p, End: p}
}

func TestTranslatePrimitives(t *testing.T) {
	it, err := Translate(&srcast.IntType{}, span())
	require.NoError(t, err)
	assert.Equal(t, "int", it.String())

	bt, err := Translate(&srcast.BoolType{}, span())
	require.NoError(t, err)
	assert.Equal(t, "bool", bt.String())
}

func TestTranslateListAndTuple(t *testing.T) {
	lt, err := Translate(&srcast.ListType{Elem: &srcast.IntType{}}, span())
	require.NoError(t, err)
	assert.Equal(t, "[int]", lt.String())

	tup, err := Translate(&srcast.TupleType{Elems: []srcast.Type{&srcast.IntType{}, &srcast.BoolType{}}}, span())
	require.NoError(t, err)
	assert.Equal(t, "(int, bool)", tup.String())
}

func TestTranslateCallable(t *testing.T) {
	ct := &srcast.CallableType{Args: []srcast.Type{&srcast.IntType{}, &srcast.IntType{}}, Ret: &srcast.BoolType{}}
	got, err := Translate(ct, span())
	require.NoError(t, err)
	assert.Equal(t, "(int -> (int -> bool))", got.String())
}

func TestTranslateRejectsStrOutsideMain(t *testing.T) {
	_, err := Translate(&srcast.StrType{}, span())
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.LOW001, rep.Code)
}

func TestTranslateRejectsSideEffectType(t *testing.T) {
	_, err := Translate(&srcast.SideEffectType{Name: "IO"}, span())
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.LOW002, rep.Code)
}
