package services

import (
	"sort"
	"sync"

	"github.com/margin-labs/margo/internal/core/domain"
)

// DirtyTracker records which lines have changed since they were last
// analysed. Marks survive structural edits: when lines are inserted or
// removed above a mark, the mark moves with its line rather than going
// stale or being lost.
//
// Safe for concurrent use.
type DirtyTracker struct {
	mu    sync.Mutex
	lines map[int]struct{}
}

// NewDirtyTracker creates an empty tracker.
func NewDirtyTracker() *DirtyTracker {
	return &DirtyTracker{lines: make(map[int]struct{})}
}

// ApplyUpdate folds one changeset into the dirty set. Existing marks
// are re-mapped into post-change line numbers, marks inside replaced
// regions are superseded by the region's own touch marks, and every
// line the edits touch is marked dirty.
func (t *DirtyTracker) ApplyUpdate(set domain.ChangeSet) {
	if set.Empty() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	remapped := make(map[int]struct{}, len(t.lines))
	for n := range t.lines {
		if mapped, ok := remapLine(n, set); ok {
			remapped[mapped] = struct{}{}
		}
	}
	t.lines = remapped

	// Mark the touched lines in post-change coordinates. The running
	// delta accounts for lines earlier changes added or removed.
	delta := 0
	for _, c := range set.Changes {
		first := c.Line + delta
		last := first + c.InsertedLines()
		for n := first; n <= last; n++ {
			t.lines[n] = struct{}{}
		}
		delta += c.LineDelta()
	}
}

// remapLine shifts a pre-change line number into post-change
// coordinates. The second return is false when the line fell inside a
// replaced region; ApplyUpdate's touch marks cover that region anyway.
func remapLine(n int, set domain.ChangeSet) (int, bool) {
	shift := 0
	for _, c := range set.Changes {
		if n < c.Line {
			// Changes are ordered, so no later change can affect n.
			break
		}
		if n <= c.LastLine() {
			return 0, false
		}
		shift += c.LineDelta()
	}
	return n + shift, true
}

// MarkLine marks a single line dirty.
func (t *DirtyTracker) MarkLine(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines[n] = struct{}{}
}

// LineHasChanged reports whether line n awaits re-analysis.
func (t *DirtyTracker) LineHasChanged(n int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.lines[n]
	return ok
}

// ClearLine removes the mark for line n, if present.
func (t *DirtyTracker) ClearLine(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.lines, n)
}

// DirtyLines returns the marked line numbers in ascending order.
func (t *DirtyTracker) DirtyLines() []int {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]int, 0, len(t.lines))
	for n := range t.lines {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Len returns the number of marked lines.
func (t *DirtyTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lines)
}

// Reset drops every mark.
func (t *DirtyTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = make(map[int]struct{})
}
