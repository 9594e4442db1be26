package errors

import "encoding/json"

// Fix represents a suggested fix attached to a Report, with a confidence
// score in [0, 1]. Every builder in this pass leaves Fix nil; a caller
// that knows an unambiguous remedy can attach one.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// EncodeReports renders a batch of Reports as a single deterministic
// JSON array (cmd/corelowerc prints single reports via Report.ToJSON
// and does not call it). Go's encoding/json already emits map keys in
// sorted order, so Report.Data
// needs no extra sorting pass here.
func EncodeReports(reports []*Report) (string, error) {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
