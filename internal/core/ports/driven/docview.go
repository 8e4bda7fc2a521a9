package driven

import (
	"context"

	"github.com/margin-labs/margo/internal/core/domain"
)

// DocumentView is the live document the checker analyses. The checker
// never owns document state: it reads lines and viewport bounds from
// the view, and hands results back as effects.
//
// The checker calls these methods from its own goroutine, concurrently
// with the view's event loop. Implementations must synchronise access
// to their underlying buffer.
type DocumentView interface {
	// Viewport returns the byte range currently visible, inclusive of
	// partially visible lines.
	Viewport() (from, to int)

	// Line returns the line with the given 1-based number.
	// Returns domain.ErrLineOutOfRange when the document is shorter.
	Line(number int) (domain.Line, error)

	// LineAt returns the line containing the byte offset pos.
	// Returns domain.ErrPositionOutOfRange when pos is outside the document.
	LineAt(pos int) (domain.Line, error)

	// LineCount returns the number of lines in the document.
	LineCount() int

	// Exclusions returns the syntax ranges within line that must not be
	// analysed as prose, ordered by start offset.
	Exclusions(line domain.Line) []domain.Exclusion

	// WaitUntilParsed blocks until the view's parser has caught up to
	// pos, or the context is cancelled. Views with synchronous parsing
	// return immediately.
	WaitUntilParsed(ctx context.Context, pos int) error

	// Dispatch applies state update commands from a completed cycle.
	// Effects for one cycle arrive in a single call.
	Dispatch(effects ...domain.Effect)
}
