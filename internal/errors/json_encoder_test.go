package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/corelower/internal/srcast"
)

func mockSpan() srcast.Span {
	p := srcast.Pos{File: "test.src", Line: 1, Column: 1}
	return srcast.Span{Start: p, End: p}
}

func TestReportToJSON(t *testing.T) {
	r := New(LOW001, "lower", "str type used outside main", mockSpan())
	r.Data["name"] = "s"

	out, err := r.ToJSON(false)
	require.NoError(t, err)
	assert.Contains(t, out, `"code": "LOW001"`)
	assert.Contains(t, out, `"phase": "lower"`)
	assert.True(t, strings.Contains(out, "\n"), "non-compact JSON should be indented")
}

func TestReportToJSONCompact(t *testing.T) {
	r := New(LOW005, "lower", "starred expression in illegal position", mockSpan())

	out, err := r.ToJSON(true)
	require.NoError(t, err)
	assert.False(t, strings.Contains(out, "\n"), "compact JSON should not be indented")
}

func TestEncodeReportsDeterministic(t *testing.T) {
	reports := []*Report{
		New(LOW001, "lower", "first", mockSpan()),
		New(LOW002, "lower", "second", mockSpan()),
	}

	a, err := EncodeReports(reports)
	require.NoError(t, err)
	b, err := EncodeReports(reports)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWrapReportRoundTrip(t *testing.T) {
	r := New(LOW007, "lower", "bare expression-statement", mockSpan())
	err := WrapReport(r)
	require.Error(t, err)

	got, ok := AsReport(err)
	require.True(t, ok)
	assert.Equal(t, LOW007, got.Code)
}
