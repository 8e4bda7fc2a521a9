package driving

import "github.com/margin-labs/margo/internal/core/domain"

// LiveChecker coordinates incremental analysis of a document view.
// The view delivers one HandleUpdate per transaction; the checker
// debounces, extracts, analyses, and hands results back to the view
// as effects.
type LiveChecker interface {
	// HandleUpdate feeds one view transaction into the checker.
	// Irrelevant updates (no edit, no viewport move) are ignored.
	// Safe to call from the view's event loop; never blocks on I/O.
	HandleUpdate(update domain.ViewUpdate)

	// Status returns a snapshot of the checker's current state.
	Status() CheckerStatus

	// Destroy tears the checker down: the pending timer is stopped,
	// any in-flight request is cancelled, and later updates are
	// ignored. Destroy is idempotent.
	Destroy()
}

// CheckerStatus is a point-in-time snapshot of the checker.
type CheckerStatus struct {
	// State is the coordinator's lifecycle state.
	State domain.CheckerState

	// DirtyLines is the number of lines awaiting re-analysis.
	DirtyLines int

	// CyclesCompleted counts cycles whose results were applied.
	CyclesCompleted uint64

	// LastError describes the most recent cycle failure, if any.
	// Cleared by the next successful cycle.
	LastError string
}
