package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/margin-labs/margo/internal/core/domain"
)

// ==================== MarkerSet Tests ====================

func TestMarkerSet_ApplyAccumulatesMarkersPerRange(t *testing.T) {
	set := NewMarkerSet()
	span := domain.Span{From: 10, To: 24, Text: "some paragraph", Line: 2}

	set.Apply(domain.AddMarker{Span: span, Marker: domain.Marker{At: 24, Suggestions: []string{"first"}}})
	set.Apply(domain.AddMarker{Span: span, Marker: domain.Marker{At: 24, Suggestions: []string{"second"}}})

	decorations := set.Decorations()
	assert.Len(t, decorations, 1, "same range must stay one entry")
	assert.Equal(t, 10, decorations[0].From)
	assert.Equal(t, 24, decorations[0].To)
	assert.Len(t, decorations[0].Markers, 2)
	assert.Equal(t, []string{"first"}, decorations[0].Markers[0].Suggestions)
	assert.Equal(t, []string{"second"}, decorations[0].Markers[1].Suggestions)
}

func TestMarkerSet_RangeIdentityIgnoresSpanText(t *testing.T) {
	set := NewMarkerSet()

	// Two span values with the same range but different text and line.
	// Identity is the range alone, so they share one entry.
	set.Apply(domain.AddMarker{
		Span:   domain.Span{From: 5, To: 9, Text: "abcd", Line: 1},
		Marker: domain.Marker{At: 9},
	})
	set.Apply(domain.AddMarker{
		Span:   domain.Span{From: 5, To: 9, Text: "wxyz", Line: 7},
		Marker: domain.Marker{At: 9},
	})

	assert.Equal(t, 1, set.Len())
	assert.Len(t, set.Decorations()[0].Markers, 2)
}

func TestMarkerSet_DecorationsOrderedByRange(t *testing.T) {
	set := NewMarkerSet()

	for _, span := range []domain.Span{
		{From: 30, To: 40},
		{From: 0, To: 12},
		{From: 30, To: 35},
		{From: 14, To: 28},
	} {
		set.Apply(domain.AddMarker{Span: span, Marker: domain.Marker{At: span.To}})
	}

	decorations := set.Decorations()
	assert.Len(t, decorations, 4)
	assert.Equal(t, 0, decorations[0].From)
	assert.Equal(t, 14, decorations[1].From)
	assert.Equal(t, 35, decorations[2].To, "equal starts order by end offset")
	assert.Equal(t, 40, decorations[3].To)
}

func TestMarkerSet_DecorationsDerivationIsRepeatable(t *testing.T) {
	set := NewMarkerSet()
	span := domain.Span{From: 0, To: 6, Text: "prose.", Line: 1}
	set.Apply(domain.AddMarker{Span: span, Marker: domain.Marker{At: 6, Suggestions: []string{"s"}}})

	first := set.Decorations()
	second := set.Decorations()
	assert.Equal(t, first, second)

	// Reshaping a returned decoration must not leak into the set.
	first[0].Markers = nil
	assert.Len(t, set.Decorations()[0].Markers, 1)
}

func TestMarkerSet_AddFindingLatestWins(t *testing.T) {
	set := NewMarkerSet()
	span := domain.Span{From: 3, To: 9, Text: "prose.", Line: 1}

	set.Apply(domain.AddFinding{Span: span, Data: domain.AnalysisData{Suggestions: []string{"old"}}})
	set.Apply(domain.AddFinding{Span: span, Data: domain.AnalysisData{Suggestions: []string{"new"}}})

	data, ok := set.FindingFor(span.Key())
	assert.True(t, ok)
	assert.Equal(t, []string{"new"}, data.Suggestions)

	_, ok = set.FindingFor(domain.SpanKey{From: 0, To: 1})
	assert.False(t, ok)
}

func TestMarkerSet_ApplyMixedBatch(t *testing.T) {
	set := NewMarkerSet()
	span := domain.Span{From: 0, To: 14, Text: "One paragraph.", Line: 1}

	set.Apply(
		domain.AddFinding{Span: span, Data: domain.AnalysisData{Suggestions: []string{"tighten this"}}},
		domain.AddMarker{Span: span, Marker: domain.Marker{At: 14, Suggestions: []string{"tighten this"}}},
	)

	assert.Equal(t, 1, set.Len())
	data, ok := set.FindingFor(span.Key())
	assert.True(t, ok)
	assert.Equal(t, []string{"tighten this"}, data.Suggestions)
}

func TestMarkerSet_Reset(t *testing.T) {
	set := NewMarkerSet()
	span := domain.Span{From: 0, To: 5, Text: "prose", Line: 1}
	set.Apply(
		domain.AddMarker{Span: span, Marker: domain.Marker{At: 5}},
		domain.AddFinding{Span: span, Data: domain.AnalysisData{}},
	)

	set.Reset()

	assert.Equal(t, 0, set.Len())
	assert.Empty(t, set.Decorations())
	_, ok := set.FindingFor(span.Key())
	assert.False(t, ok)
}
