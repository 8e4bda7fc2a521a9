// Package margin provides the panel that lists analysis suggestions
// beside the editor.
package margin

import (
	"fmt"
	"strings"

	"github.com/margin-labs/margo/internal/adapters/driving/tui/styles"
)

// Entry is one annotated position: a line number and the suggestions
// attached to it.
type Entry struct {
	// Line is the 1-based line number the marker is anchored to.
	Line int

	// Suggestions holds the suggestion texts, oldest first.
	Suggestions []string
}

// Panel renders margin entries in a bordered column.
type Panel struct {
	styles  *styles.Styles
	entries []Entry
	width   int
	height  int
	visible bool
}

// NewPanel creates a margin panel.
func NewPanel(s *styles.Styles) *Panel {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Panel{
		styles:  s,
		width:   32,
		height:  24,
		visible: true,
	}
}

// SetEntries replaces the panel content.
func (p *Panel) SetEntries(entries []Entry) {
	p.entries = entries
}

// Entries returns the current panel content.
func (p *Panel) Entries() []Entry {
	return p.entries
}

// SetDimensions sets the panel's outer size.
func (p *Panel) SetDimensions(width, height int) {
	p.width = width
	p.height = height
}

// Width returns the panel's outer width, 0 when hidden.
func (p *Panel) Width() int {
	if !p.visible {
		return 0
	}
	return p.width
}

// Toggle flips the panel's visibility.
func (p *Panel) Toggle() {
	p.visible = !p.visible
}

// Visible reports whether the panel renders.
func (p *Panel) Visible() bool {
	return p.visible
}

// View renders the panel.
func (p *Panel) View() string {
	if !p.visible {
		return ""
	}

	// Border and padding take two columns each side.
	innerWidth := p.width - 4
	if innerWidth < 8 {
		innerWidth = 8
	}
	budget := p.height - 3
	if budget < 1 {
		budget = 1
	}

	lines := []string{p.styles.Title.Render("Margin")}
	if len(p.entries) == 0 {
		lines = append(lines, p.styles.Muted.Render("No suggestions."))
	}

	used := 0
	for i, e := range p.entries {
		entryLines := p.renderEntry(e, innerWidth)
		if used+len(entryLines) > budget {
			lines = append(lines, p.styles.Muted.Render(fmt.Sprintf("+%d more", len(p.entries)-i)))
			break
		}
		lines = append(lines, entryLines...)
		used += len(entryLines)
	}

	return p.styles.Border.
		Padding(0, 1).
		Width(innerWidth + 2).
		Render(strings.Join(lines, "\n"))
}

// renderEntry renders one entry as a header line plus one line per
// suggestion.
func (p *Panel) renderEntry(e Entry, width int) []string {
	out := []string{p.styles.MarkerLine.Render(fmt.Sprintf("L%d", e.Line))}
	for _, s := range e.Suggestions {
		out = append(out, p.styles.Suggestion.Render(truncate("- "+s, width)))
	}
	return out
}

// truncate shortens s to max runes, marking the cut.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
