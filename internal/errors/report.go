package errors

import (
	"encoding/json"
	"errors"

	"github.com/sunholo/corelower/internal/srcast"
)

// Report is the canonical structured error type for the lowering pass.
// All error builders return *Report, which can be wrapped as ReportError.
type Report struct {
	Schema  string         `json:"schema"`         // Always "corelower.error/v1"
	Code    string         `json:"code"`           // Error code (LOW001, LOW101, ...)
	Phase   string         `json:"phase"`          // Phase: "lower", "precheck", "typecheck"
	Message string         `json:"message"`        // Human-readable message
	Span    *srcast.Span   `json:"span,omitempty"` // Source location (optional)
	Data    map[string]any `json:"data,omitempty"` // Structured data (sorted keys)
	Fix     *Fix           `json:"fix,omitempty"`  // Suggested fix (optional)
}

// ReportError wraps a Report as an error
// This allows structured reports to survive errors.As() unwrapping
type ReportError struct {
	Rep *Report
}

// Error implements the error interface
func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport attempts to extract a Report from an error chain
// Returns the Report and true if found, nil and false otherwise
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as a ReportError
// Call sites should return errors.WrapReport(report) to preserve structure
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON converts a Report to JSON (deterministic, sorted keys)
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error

	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}

	if err != nil {
		return "", err
	}
	return string(data), nil
}

// New builds a Report for one of the LOWxxx codes declared in codes.go,
// attaching the nearest enclosing source span as spec.md §7 requires.
func New(code, phase, message string, span srcast.Span) *Report {
	return &Report{
		Schema:  "corelower.error/v1",
		Code:    code,
		Phase:   phase,
		Message: message,
		Span:    &span,
		Data:    map[string]any{},
	}
}

// NewGeneric creates a generic error report for failures without a
// dedicated code, e.g. failures surfaced by the external type checker.
func NewGeneric(phase string, err error) *Report {
	return &Report{
		Schema:  "corelower.error/v1",
		Code:    "GENERIC",
		Phase:   phase,
		Message: err.Error(),
		Data:    map[string]any{},
	}
}
