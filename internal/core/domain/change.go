package domain

import (
	"fmt"
	"strings"
)

// Change represents one contiguous edit: the document range [From, To)
// was removed and Inserted took its place. All positions refer to the
// document as it was BEFORE the change was applied.
type Change struct {
	// From is the byte offset where the change begins.
	From int

	// To is the byte offset just past the removed range.
	// From == To describes a pure insertion.
	To int

	// Line is the 1-based line number containing From, pre-change.
	Line int

	// Deleted is the text that was removed; its length equals To - From.
	Deleted string

	// Inserted is the replacement text; empty for a pure deletion.
	Inserted string
}

// DeletedLines returns the number of line breaks the change removed.
func (c Change) DeletedLines() int {
	return strings.Count(c.Deleted, "\n")
}

// InsertedLines returns the number of line breaks the change added.
func (c Change) InsertedLines() int {
	return strings.Count(c.Inserted, "\n")
}

// LineDelta returns the net change in document line count.
func (c Change) LineDelta() int {
	return c.InsertedLines() - c.DeletedLines()
}

// LastLine returns the 1-based number of the last pre-change line
// the removed range touches.
func (c Change) LastLine() int {
	return c.Line + c.DeletedLines()
}

// ChangeSet is an ordered sequence of non-overlapping changes, all
// expressed in pre-change coordinates. A view produces one ChangeSet
// per edit notification.
type ChangeSet struct {
	// Changes holds the edits ordered by From.
	Changes []Change
}

// Empty reports whether the set carries no changes.
func (cs ChangeSet) Empty() bool {
	return len(cs.Changes) == 0
}

// LineDelta returns the net line count change of the whole set.
func (cs ChangeSet) LineDelta() int {
	total := 0
	for _, c := range cs.Changes {
		total += c.LineDelta()
	}
	return total
}

// Validate checks ordering and internal consistency.
// Changes must be sorted by From, must not overlap, and each change's
// Deleted text must match its removed range.
func (cs ChangeSet) Validate() error {
	prevEnd := 0
	for i, c := range cs.Changes {
		if c.From < 0 || c.To < c.From {
			return fmt.Errorf("change %d: %w: range [%d, %d)", i, ErrInvalidChangeSet, c.From, c.To)
		}
		if len(c.Deleted) != c.To-c.From {
			return fmt.Errorf("change %d: %w: deleted text length %d does not match range length %d",
				i, ErrInvalidChangeSet, len(c.Deleted), c.To-c.From)
		}
		if c.Line < 1 {
			return fmt.Errorf("change %d: %w: line %d", i, ErrInvalidChangeSet, c.Line)
		}
		if i > 0 && c.From < prevEnd {
			return fmt.Errorf("change %d: %w: overlaps previous change", i, ErrInvalidChangeSet)
		}
		prevEnd = c.To
	}
	return nil
}

// ViewUpdate is the notification a document view delivers on every
// transaction: which edits happened and whether the viewport moved.
type ViewUpdate struct {
	// DocChanged indicates the document text changed.
	DocChanged bool

	// ViewportChanged indicates the visible range changed, by scrolling
	// or by a resize.
	ViewportChanged bool

	// Changes describes the edits when DocChanged is true.
	Changes ChangeSet
}

// Relevant reports whether the update should wake the analysis cycle.
func (u ViewUpdate) Relevant() bool {
	return u.DocChanged || u.ViewportChanged
}
