package domain

// CheckerState identifies where the analysis coordinator sits in its
// lifecycle. Exactly one state holds at any time.
type CheckerState string

// Checker lifecycle states.
const (
	// CheckerIdle means no cycle is pending and no request is running.
	CheckerIdle CheckerState = "idle"

	// CheckerDebouncing means edits arrived and the quiet-period timer
	// is counting down.
	CheckerDebouncing CheckerState = "debouncing"

	// CheckerAwaitingParser means the timer fired and the cycle is
	// waiting for the view's parser to catch up to the viewport.
	CheckerAwaitingParser CheckerState = "awaiting_parser"

	// CheckerInFlight means an analysis request is on the wire.
	CheckerInFlight CheckerState = "in_flight"

	// CheckerDestroyed means the checker was shut down; further
	// updates are ignored.
	CheckerDestroyed CheckerState = "destroyed"
)

// String returns the string representation.
func (s CheckerState) String() string {
	return string(s)
}

// Active reports whether the checker still reacts to updates.
func (s CheckerState) Active() bool {
	return s != CheckerDestroyed
}
