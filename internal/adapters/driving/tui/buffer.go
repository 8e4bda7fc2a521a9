package tui

import (
	"context"
	"fmt"
	"sort"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/margin-labs/margo/internal/adapters/driving/tui/messages"
	"github.com/margin-labs/margo/internal/core/domain"
	"github.com/margin-labs/margo/internal/core/ports/driven"
	"github.com/margin-labs/margo/internal/core/services"
	"github.com/margin-labs/margo/internal/mdscan"
)

// DocBuffer is the document view the checker reads. It mirrors the
// textarea's content as a line buffer, owns the markdown scanner that
// answers exclusion queries, and collects dispatched effects into a
// marker set for the margin to render.
//
// The editor's event loop mutates the buffer; the checker reads it
// from its own goroutine. All access goes through the mutex, except
// the scanner and marker set, which synchronise themselves.
type DocBuffer struct {
	mu       sync.RWMutex
	text     string
	lines    []domain.Line
	viewFrom int
	viewTo   int
	notify   func(tea.Msg)

	scanner *mdscan.Scanner
	markers *services.MarkerSet
}

// Ensure DocBuffer implements the document view port.
var _ driven.DocumentView = (*DocBuffer)(nil)

// NewDocBuffer creates a buffer holding the given text, with the
// viewport covering the whole document.
func NewDocBuffer(text string) *DocBuffer {
	lines := domain.SplitLines(text)
	return &DocBuffer{
		text:     text,
		lines:    lines,
		viewFrom: 0,
		viewTo:   len(text),
		scanner:  mdscan.NewScanner(text),
		markers:  services.NewMarkerSet(),
	}
}

// SetNotify installs the callback used to wake the event loop when
// effects arrive. Wired to Program.Send once the program exists.
func (b *DocBuffer) SetNotify(notify func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notify = notify
}

// SetText replaces the buffer content after an edit. editedFrom is the
// earliest changed offset; the scanner keeps its progress above it.
func (b *DocBuffer) SetText(text string, editedFrom int) {
	b.mu.Lock()
	b.text = text
	b.lines = domain.SplitLines(text)
	if b.viewTo > len(text) {
		b.viewTo = len(text)
	}
	if b.viewFrom > b.viewTo {
		b.viewFrom = b.viewTo
	}
	b.mu.Unlock()

	b.scanner.Update(text, editedFrom)
}

// SetViewportLines sets the visible range to the byte span of the
// given 1-based line numbers, clamped to the document. Reports whether
// the range actually changed.
func (b *DocBuffer) SetViewportLines(first, last int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if first < 1 {
		first = 1
	}
	if first > len(b.lines) {
		first = len(b.lines)
	}
	if last > len(b.lines) {
		last = len(b.lines)
	}
	if last < first {
		last = first
	}

	from := b.lines[first-1].From
	to := b.lines[last-1].To()
	if from == b.viewFrom && to == b.viewTo {
		return false
	}
	b.viewFrom = from
	b.viewTo = to
	return true
}

// Text returns the current buffer content.
func (b *DocBuffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// Markers returns the marker set effects are folded into.
func (b *DocBuffer) Markers() *services.MarkerSet {
	return b.markers
}

// Viewport implements driven.DocumentView.
func (b *DocBuffer) Viewport() (int, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.viewFrom, b.viewTo
}

// Line implements driven.DocumentView.
func (b *DocBuffer) Line(number int) (domain.Line, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if number < 1 || number > len(b.lines) {
		return domain.Line{}, fmt.Errorf("line %d of %d: %w", number, len(b.lines), domain.ErrLineOutOfRange)
	}
	return b.lines[number-1], nil
}

// LineAt implements driven.DocumentView.
func (b *DocBuffer) LineAt(pos int) (domain.Line, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if pos < 0 || pos > len(b.text) {
		return domain.Line{}, fmt.Errorf("position %d: %w", pos, domain.ErrPositionOutOfRange)
	}
	i := sort.Search(len(b.lines), func(i int) bool {
		return b.lines[i].To() >= pos
	})
	return b.lines[i], nil
}

// LineCount implements driven.DocumentView.
func (b *DocBuffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// Exclusions implements driven.DocumentView.
func (b *DocBuffer) Exclusions(line domain.Line) []domain.Exclusion {
	return b.scanner.Exclusions(line)
}

// WaitUntilParsed implements driven.DocumentView.
func (b *DocBuffer) WaitUntilParsed(ctx context.Context, pos int) error {
	return b.scanner.WaitUntilParsed(ctx, pos)
}

// Dispatch implements driven.DocumentView. Effects are folded into
// the marker set, then the event loop is woken to re-render.
func (b *DocBuffer) Dispatch(effects ...domain.Effect) {
	b.markers.Apply(effects...)

	b.mu.RLock()
	notify := b.notify
	b.mu.RUnlock()
	if notify != nil {
		notify(messages.MarkersUpdated{})
	}
}
