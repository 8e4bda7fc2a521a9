package services

import (
	"sort"

	"github.com/margin-labs/margo/internal/core/domain"
	"github.com/margin-labs/margo/internal/logger"
)

// Extractor derives analysable prose spans from document lines.
// It is stateless and deterministic: the same line and exclusions
// always produce the same spans. The zero value is ready to use.
type Extractor struct{}

// Extract returns the prose runs of line in document order, with the
// excluded syntax ranges subtracted. Whitespace-only runs are skipped.
// A run that fails span validation is logged and dropped; it never
// affects the other runs of the line.
func (Extractor) Extract(line domain.Line, exclusions []domain.Exclusion) []domain.Span {
	if line.Text == "" {
		return nil
	}

	clipped := clipExclusions(line, exclusions)

	var spans []domain.Span
	cursor := line.From
	emit := func(from, to int) {
		if to <= from {
			return
		}
		text := line.Text[from-line.From : to-line.From]
		span, err := domain.NewSpan(from, to, text, line.Number)
		if err != nil {
			logger.Warn("extract: %v", err)
			return
		}
		if span.IsBlank() {
			return
		}
		spans = append(spans, span)
	}

	for _, excl := range clipped {
		emit(cursor, excl.From)
		if excl.To > cursor {
			cursor = excl.To
		}
	}
	emit(cursor, line.To())

	return spans
}

// clipExclusions keeps the exclusions overlapping the line, clamped to
// its bounds and sorted by start offset. Overlapping exclusions are
// tolerated; the caller's cursor walk absorbs them.
func clipExclusions(line domain.Line, exclusions []domain.Exclusion) []domain.Exclusion {
	from, to := line.From, line.To()

	clipped := make([]domain.Exclusion, 0, len(exclusions))
	for _, excl := range exclusions {
		if !excl.Overlaps(from, to) {
			continue
		}
		if excl.From < from {
			excl.From = from
		}
		if excl.To > to {
			excl.To = to
		}
		clipped = append(clipped, excl)
	}

	sort.Slice(clipped, func(i, j int) bool {
		if clipped[i].From != clipped[j].From {
			return clipped[i].From < clipped[j].From
		}
		return clipped[i].To < clipped[j].To
	})

	return clipped
}
