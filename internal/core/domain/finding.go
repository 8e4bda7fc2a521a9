package domain

import "encoding/json"

// AnalysisData is the per-paragraph payload returned by the analysis
// service. Only the suggestions are interpreted; the remainder of the
// payload is carried opaquely so views can surface fields this program
// does not understand.
type AnalysisData struct {
	// Suggestions holds the writing suggestions for the span.
	Suggestions []string

	// Raw is the unmodified JSON payload as received.
	Raw json.RawMessage
}

// UnmarshalJSON keeps the raw payload and lifts out the suggestions.
func (d *AnalysisData) UnmarshalJSON(b []byte) error {
	var probe struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}
	d.Suggestions = probe.Suggestions
	d.Raw = append(d.Raw[:0], b...)
	return nil
}

// MarshalJSON writes the original payload when one was captured,
// falling back to a minimal object holding the suggestions.
func (d AnalysisData) MarshalJSON() ([]byte, error) {
	if len(d.Raw) > 0 {
		return d.Raw, nil
	}
	return json.Marshal(struct {
		Suggestions []string `json:"suggestions"`
	}{Suggestions: d.Suggestions})
}

// Finding pairs an analysis payload with the request position it
// answers. Index is the zero-based position of the span within the
// request that produced this finding; the merge step resolves it back
// to a span.
type Finding struct {
	// Index is the zero-based request position this finding refers to.
	Index int

	// Data is the analysis payload for that span.
	Data AnalysisData

	// Metadata carries optional service metadata, if the service sent any.
	Metadata map[string]any
}
