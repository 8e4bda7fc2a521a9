// Package watch provides headless live analysis of a file being
// edited elsewhere: the file is watched for writes, reread and
// diffed, and markers are printed as analysis cycles complete.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/margin-labs/margo/internal/core/domain"
	"github.com/margin-labs/margo/internal/core/ports/driven"
	"github.com/margin-labs/margo/internal/core/services"
	"github.com/margin-labs/margo/internal/mdscan"
)

// maxViewportLines caps how much of a large file one analysis cycle
// covers. Everything above the cap stays unanalysed until edited into
// view, which watch mode never does.
const maxViewportLines = 400

// FileView is the document view the checker reads in watch mode. It
// holds the last content read from disk and prints a line for every
// marker the checker dispatches, like a compiler reporting findings.
//
// The watcher goroutine replaces the text; the checker reads it from
// its own goroutine. All access goes through the mutex, except the
// scanner and marker set, which synchronise themselves.
type FileView struct {
	mu    sync.RWMutex
	path  string
	text  string
	lines []domain.Line
	out   io.Writer

	scanner *mdscan.Scanner
	markers *services.MarkerSet
}

// Ensure FileView implements the document view port.
var _ driven.DocumentView = (*FileView)(nil)

// NewFileView creates a view over the file's current content. Markers
// are written to out, or stdout when out is nil. The path only labels
// the output.
func NewFileView(path, text string, out io.Writer) *FileView {
	if out == nil {
		out = os.Stdout
	}
	return &FileView{
		path:    path,
		text:    text,
		lines:   domain.SplitLines(text),
		out:     out,
		scanner: mdscan.NewScanner(text),
		markers: services.NewMarkerSet(),
	}
}

// SetText replaces the view content after a reread. editedFrom is the
// earliest changed offset; the scanner keeps its progress above it.
func (v *FileView) SetText(text string, editedFrom int) {
	v.mu.Lock()
	v.text = text
	v.lines = domain.SplitLines(text)
	v.mu.Unlock()

	v.scanner.Update(text, editedFrom)
}

// Text returns the content of the last successful read.
func (v *FileView) Text() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.text
}

// Markers returns the marker set effects are folded into.
func (v *FileView) Markers() *services.MarkerSet {
	return v.markers
}

// Viewport implements driven.DocumentView. Watch mode has no screen,
// so the whole file is visible, up to the line cap.
func (v *FileView) Viewport() (int, int) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	last := len(v.lines)
	if last > maxViewportLines {
		last = maxViewportLines
	}
	return 0, v.lines[last-1].To()
}

// Line implements driven.DocumentView.
func (v *FileView) Line(number int) (domain.Line, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if number < 1 || number > len(v.lines) {
		return domain.Line{}, fmt.Errorf("line %d of %d: %w", number, len(v.lines), domain.ErrLineOutOfRange)
	}
	return v.lines[number-1], nil
}

// LineAt implements driven.DocumentView.
func (v *FileView) LineAt(pos int) (domain.Line, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if pos < 0 || pos > len(v.text) {
		return domain.Line{}, fmt.Errorf("position %d: %w", pos, domain.ErrPositionOutOfRange)
	}
	i := sort.Search(len(v.lines), func(i int) bool {
		return v.lines[i].To() >= pos
	})
	return v.lines[i], nil
}

// LineCount implements driven.DocumentView.
func (v *FileView) LineCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.lines)
}

// Exclusions implements driven.DocumentView.
func (v *FileView) Exclusions(line domain.Line) []domain.Exclusion {
	return v.scanner.Exclusions(line)
}

// WaitUntilParsed implements driven.DocumentView.
func (v *FileView) WaitUntilParsed(ctx context.Context, pos int) error {
	return v.scanner.WaitUntilParsed(ctx, pos)
}

// Dispatch implements driven.DocumentView. Effects are folded into
// the marker set and each new marker is printed as one line.
func (v *FileView) Dispatch(effects ...domain.Effect) {
	v.markers.Apply(effects...)

	for _, effect := range effects {
		m, ok := effect.(domain.AddMarker)
		if !ok || len(m.Marker.Suggestions) == 0 {
			continue
		}
		fmt.Fprintf(v.out, "%s:%d: %s\n", v.path, m.Span.Line, strings.Join(m.Marker.Suggestions, "; "))
	}
}
