package services

import (
	"sort"
	"sync"

	"github.com/margin-labs/margo/internal/core/domain"
)

// MarkerSet is the marker state a document view renders from. Entries
// are keyed by span range, so re-analysing the same range accumulates
// markers under one key instead of creating parallel entries. Markers
// are append-only: applying the same effects twice yields the same
// decorations plus the duplicates, never a different shape.
//
// Safe for concurrent use.
type MarkerSet struct {
	mu      sync.RWMutex
	markers map[domain.SpanKey][]domain.Marker
	data    map[domain.SpanKey]domain.AnalysisData
}

// NewMarkerSet creates an empty marker set.
func NewMarkerSet() *MarkerSet {
	return &MarkerSet{
		markers: make(map[domain.SpanKey][]domain.Marker),
		data:    make(map[domain.SpanKey]domain.AnalysisData),
	}
}

// Apply folds a batch of effects into the set. AddMarker appends to
// the range's marker list; AddFinding replaces the range's analysis
// payload with the newest one.
func (m *MarkerSet) Apply(effects ...domain.Effect) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, effect := range effects {
		switch e := effect.(type) {
		case domain.AddMarker:
			key := e.Span.Key()
			m.markers[key] = append(m.markers[key], e.Marker)
		case domain.AddFinding:
			m.data[e.Span.Key()] = e.Data
		}
	}
}

// Decorations derives the renderable set from the current markers:
// one decoration per recorded range, ordered by start offset then end
// offset, each carrying its markers oldest first. The derivation is
// repeatable; calling it twice without intervening Apply returns equal
// results.
func (m *MarkerSet) Decorations() []domain.Decoration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Decoration, 0, len(m.markers))
	for key, markers := range m.markers {
		out = append(out, domain.Decoration{
			From:    key.From,
			To:      key.To,
			Markers: append([]domain.Marker(nil), markers...),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})

	return out
}

// FindingFor returns the latest analysis payload recorded for a range.
func (m *MarkerSet) FindingFor(key domain.SpanKey) (domain.AnalysisData, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[key]
	return data, ok
}

// Len returns the number of decorated ranges.
func (m *MarkerSet) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.markers)
}

// Reset drops all markers and findings. Views use it when the whole
// document is replaced and recorded positions no longer mean anything.
func (m *MarkerSet) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = make(map[domain.SpanKey][]domain.Marker)
	m.data = make(map[domain.SpanKey]domain.AnalysisData)
}
