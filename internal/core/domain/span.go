package domain

import (
	"fmt"
	"strings"
)

// Span represents a contiguous run of analysable prose within one line.
// Spans are the unit of analysis: each span becomes one paragraph in an
// analysis request, and results refer back to spans by position.
type Span struct {
	// From is the byte offset of the span's first character in the document.
	From int

	// To is the byte offset just past the span's last character.
	To int

	// Text is the exact document text covered by [From, To).
	Text string

	// Line is the 1-based line number the span belongs to.
	Line int
}

// NewSpan constructs a validated Span.
// It returns an *ExtractionError when the range is inverted or negative,
// when the text length disagrees with the range, or when the line number
// is not positive. A failed construction invalidates only this span.
func NewSpan(from, to int, text string, line int) (Span, error) {
	switch {
	case from < 0:
		return Span{}, newExtractionError(line, from, to, "negative start offset")
	case to <= from:
		return Span{}, newExtractionError(line, from, to, "empty or inverted range")
	case len(text) != to-from:
		return Span{}, newExtractionError(line, from, to,
			fmt.Sprintf("text length %d does not match range length %d", len(text), to-from))
	case line < 1:
		return Span{}, newExtractionError(line, from, to, "line number must be positive")
	}
	return Span{From: from, To: to, Text: text, Line: line}, nil
}

// Len returns the span length in bytes.
func (s Span) Len() int {
	return s.To - s.From
}

// IsBlank reports whether the span holds only whitespace.
// Blank spans carry nothing worth analysing.
func (s Span) IsBlank() bool {
	return strings.TrimSpace(s.Text) == ""
}

// Key returns the span's identity for keyed collections.
// Two spans covering the same document range share a key regardless
// of how their values were produced.
func (s Span) Key() SpanKey {
	return SpanKey{From: s.From, To: s.To}
}

// SpanKey identifies a span by its document range.
// It is a comparable value type, so map lookups use the range itself
// rather than the identity of any particular Span value.
type SpanKey struct {
	// From is the span's start offset.
	From int

	// To is the span's end offset.
	To int
}
