// Package tui provides the interactive editor with a live analysis
// margin. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/margin-labs/margo/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Checker coordinates incremental analysis of the edited document.
	Checker driving.LiveChecker
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(checker driving.LiveChecker) *Ports {
	return &Ports{
		Checker: checker,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Checker == nil {
		return ErrMissingChecker
	}
	return nil
}
