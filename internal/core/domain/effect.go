package domain

// Effect is a state update command produced by a completed analysis
// cycle and applied by the document view. The two variants below are
// the only implementations.
type Effect interface {
	effect()
}

// AddFinding attaches an analysis payload to a span. Views use it to
// expose the full analysis data for a range, independent of rendering.
type AddFinding struct {
	// Span is the analysed range.
	Span Span

	// Data is the analysis payload for the span.
	Data AnalysisData
}

// AddMarker records a rendering marker for a span. Repeated AddMarker
// effects for the same range accumulate.
type AddMarker struct {
	// Span is the analysed range.
	Span Span

	// Marker is the annotation to record.
	Marker Marker
}

func (AddFinding) effect() {}
func (AddMarker) effect()  {}
