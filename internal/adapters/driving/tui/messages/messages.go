// Package messages defines Bubbletea message types for the TUI.
// Messages represent events that flow through the Elm architecture.
package messages

import "time"

// MarkersUpdated signals that an analysis cycle dispatched effects and
// the margin should re-render. Sent from the checker goroutine via
// Program.Send.
type MarkersUpdated struct{}

// FileSaved signals that a save command finished.
type FileSaved struct {
	Path string
	Err  error
}

// StatusTick drives the periodic status bar refresh, so checker state
// transitions show up without waiting for the next keystroke.
type StatusTick struct {
	At time.Time
}
