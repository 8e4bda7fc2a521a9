// Package status provides the status bar for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/margin-labs/margo/internal/adapters/driving/tui/keymap"
	"github.com/margin-labs/margo/internal/adapters/driving/tui/styles"
	"github.com/margin-labs/margo/internal/core/domain"
	"github.com/margin-labs/margo/internal/core/ports/driving"
)

// Bar displays the checker state, dirty-line count and keybinding
// hints. It is passive; the app pushes state into it before render.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	status  driving.CheckerStatus
	message string
	errMsg  string
	width   int
}

// NewBar creates a status bar.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		status: driving.CheckerStatus{State: domain.CheckerIdle},
		width:  80,
	}
}

// SetStatus updates the checker snapshot the bar renders.
func (b *Bar) SetStatus(status driving.CheckerStatus) {
	b.status = status
}

// Status returns the last snapshot pushed into the bar.
func (b *Bar) Status() driving.CheckerStatus {
	return b.status
}

// SetMessage sets a transient message shown instead of the checker
// state, cleared with Clear.
func (b *Bar) SetMessage(message string) {
	b.message = message
	b.errMsg = ""
}

// SetError sets a transient error message shown instead of the
// checker state, cleared with Clear.
func (b *Bar) SetError(message string) {
	b.errMsg = message
	b.message = ""
}

// Message returns the current transient message.
func (b *Bar) Message() string {
	return b.message
}

// Clear removes any transient message.
func (b *Bar) Clear() {
	b.message = ""
	b.errMsg = ""
}

// SetWidth sets the bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the current width.
func (b *Bar) Width() int {
	return b.width
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state summary.
func (b *Bar) renderLeft() string {
	if b.errMsg != "" {
		return b.styles.Error.Render(b.errMsg)
	}
	if b.message != "" {
		return b.styles.Success.Render(b.message)
	}
	if b.status.LastError != "" {
		return b.styles.Error.Render("analysis: " + b.status.LastError)
	}

	var state string
	switch b.status.State {
	case domain.CheckerDebouncing:
		state = b.styles.Muted.Render("editing")
	case domain.CheckerAwaitingParser:
		state = b.styles.Muted.Render("parsing")
	case domain.CheckerInFlight:
		state = b.styles.Warning.Render("analysing")
	case domain.CheckerDestroyed:
		state = b.styles.Muted.Render("stopped")
	case domain.CheckerIdle:
		if b.status.CyclesCompleted > 0 {
			state = b.styles.Success.Render("checked")
		} else {
			state = b.styles.Muted.Render("idle")
		}
	default:
		state = b.styles.Muted.Render(string(b.status.State))
	}

	parts := []string{state}
	if b.status.DirtyLines > 0 {
		parts = append(parts, b.styles.Muted.Render(fmt.Sprintf("%d dirty", b.status.DirtyLines)))
	}
	if b.status.CyclesCompleted > 0 {
		parts = append(parts, b.styles.Muted.Render(fmt.Sprintf("cycle %d", b.status.CyclesCompleted)))
	}
	return strings.Join(parts, "  ")
}

// renderRight renders keybinding hints.
func (b *Bar) renderRight() string {
	bindings := b.keymap.ShortHelp()

	hints := make([]string, 0, len(bindings))
	for _, bd := range bindings {
		h := bd.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}
