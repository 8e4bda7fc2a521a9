package services

import (
	"github.com/margin-labs/margo/internal/core/domain"
	"github.com/margin-labs/margo/internal/logger"
)

// Attachment pairs a span with the finding that answers it.
type Attachment struct {
	// Span is the analysed range.
	Span domain.Span

	// Finding is the analysis result for the span.
	Finding domain.Finding
}

// Merger resolves findings back onto the spans of the request that
// produced them. The pairing is positional: finding index i belongs to
// the i-th span of the request. The zero value is ready to use.
type Merger struct{}

// Merge pairs findings with spans by request position, preserving
// finding order. Findings whose index falls outside the request are
// dropped; the service answered a question that was never asked, and
// there is no span to attach the result to.
func (Merger) Merge(spans []domain.Span, findings []domain.Finding) []Attachment {
	out := make([]Attachment, 0, len(findings))
	for _, f := range findings {
		if f.Index < 0 || f.Index >= len(spans) {
			logger.Debug("merge: dropping finding with index %d outside request of %d spans",
				f.Index, len(spans))
			continue
		}
		out = append(out, Attachment{Span: spans[f.Index], Finding: f})
	}
	return out
}
