// Package textdiff computes document edits by diffing two versions of
// the text.
package textdiff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/margin-labs/margo/internal/core/domain"
)

// Changes computes the edits that turn before into after, expressed in
// before-text coordinates. The result is ordered and non-overlapping,
// and applying it to before reproduces after.
func Changes(before, after string) domain.ChangeSet {
	if before == after {
		return domain.ChangeSet{}
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))

	var changes []domain.Change
	var current *domain.Change
	pos := 0
	line := 1

	flush := func() {
		if current == nil {
			return
		}
		current.To = current.From + len(current.Deleted)
		changes = append(changes, *current)
		current = nil
	}
	open := func() {
		if current == nil {
			current = &domain.Change{From: pos, Line: line}
		}
	}

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			pos += len(d.Text)
			line += strings.Count(d.Text, "\n")
		case diffmatchpatch.DiffDelete:
			open()
			current.Deleted += d.Text
			pos += len(d.Text)
			line += strings.Count(d.Text, "\n")
		case diffmatchpatch.DiffInsert:
			open()
			current.Inserted += d.Text
		}
	}
	flush()

	return domain.ChangeSet{Changes: changes}
}
