// Package mdscan provides an incremental markdown scanner that finds
// code regions in a document. Editor views feed it text updates, and
// the checker asks it, through the view, which ranges of a line must
// not be analysed as prose.
package mdscan

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/margin-labs/margo/internal/core/domain"
)

// checkCtxEvery is the number of lines scanned between context checks
// while a caller waits on the scanner.
const checkCtxEvery = 256

// fenceState carries the fenced-code-block state across lines.
type fenceState struct {
	open   bool
	marker byte
	length int
}

// checkpoint records the scanner state entering a line, so a scan can
// restart from an edited line without reparsing the text above it.
type checkpoint struct {
	pos   int
	fence fenceState
}

// Scanner scans markdown text line by line and records code regions:
// fenced code blocks (``` or ~~~) and inline code spans. Scanning is
// incremental and lazy; nothing is parsed until a caller waits or asks
// for exclusions, and an edit rewinds the scan to the start of the
// edited line.
//
// Offsets are absolute byte offsets into the scanned text. Regions
// never cross line boundaries: a fenced block contributes one region
// per line it covers, so an unterminated block excludes every line
// typed under it.
type Scanner struct {
	mu          sync.Mutex
	text        string
	pos         int          // start offset of the next unscanned line
	fence       fenceState   // state entering the next unscanned line
	checkpoints []checkpoint // one per scanned line
	regions     []domain.Exclusion
}

// NewScanner returns a scanner for the given text.
func NewScanner(text string) *Scanner {
	return &Scanner{text: text}
}

// Reset replaces the text and discards all scan progress.
func (s *Scanner) Reset(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = text
	s.pos = 0
	s.fence = fenceState{}
	s.checkpoints = s.checkpoints[:0]
	s.regions = s.regions[:0]
}

// Update replaces the text after an edit at the given offset. Scan
// progress above the edited line is kept; everything from that line
// on is rescanned on demand.
func (s *Scanner) Update(text string, from int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if from > len(text) {
		from = len(text)
	}
	if from < 0 {
		from = 0
	}
	s.text = text
	s.rewind(from)
}

// rewind restores the last checkpoint at or before pos and drops the
// regions recorded from that line on. Caller holds the lock.
func (s *Scanner) rewind(pos int) {
	n := sort.Search(len(s.checkpoints), func(i int) bool {
		return s.checkpoints[i].pos > pos
	})
	if n == 0 {
		s.pos = 0
		s.fence = fenceState{}
		s.checkpoints = s.checkpoints[:0]
		s.regions = s.regions[:0]
		return
	}

	// The last checkpoint at or before pos is the line containing the
	// edit; it must be rescanned too.
	cp := s.checkpoints[n-1]
	s.pos = cp.pos
	s.fence = cp.fence
	s.checkpoints = s.checkpoints[:n-1]

	k := sort.Search(len(s.regions), func(i int) bool {
		return s.regions[i].From >= cp.pos
	})
	s.regions = s.regions[:k]
}

// ParsedThrough returns the offset the scan has completed. Regions
// before it are final; text at or after it has not been looked at
// since the last update.
func (s *Scanner) ParsedThrough() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// WaitUntilParsed scans until the line containing pos has been
// processed, or the context is cancelled.
func (s *Scanner) WaitUntilParsed(ctx context.Context, pos int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if pos > len(s.text) {
		pos = len(s.text)
	}
	for scanned := 0; s.pos < len(s.text) && s.pos <= pos; {
		s.step()
		if scanned++; scanned%checkCtxEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Exclusions returns the code regions overlapping the line, ordered by
// start offset. The scan is advanced through the line if needed.
func (s *Scanner) Exclusions(line domain.Line) []domain.Exclusion {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.pos < len(s.text) && s.pos <= line.To() {
		s.step()
	}

	start := sort.Search(len(s.regions), func(i int) bool {
		return s.regions[i].To > line.From
	})
	var out []domain.Exclusion
	for _, r := range s.regions[start:] {
		if r.From >= line.To() {
			break
		}
		out = append(out, r)
	}
	return out
}

// step scans one line. Caller holds the lock and has checked that
// unscanned text remains.
func (s *Scanner) step() {
	s.checkpoints = append(s.checkpoints, checkpoint{pos: s.pos, fence: s.fence})

	lineFrom := s.pos
	lineText := s.text[lineFrom:]
	if i := strings.IndexByte(lineText, '\n'); i >= 0 {
		lineText = lineText[:i]
		s.pos = lineFrom + i + 1
	} else {
		s.pos = len(s.text)
	}
	lineTo := lineFrom + len(lineText)

	if s.fence.open {
		// Every line of an open block is code, the closing line included.
		s.addRegion(lineFrom, lineTo)
		if closesFence(lineText, s.fence) {
			s.fence = fenceState{}
		}
		return
	}

	if f, ok := opensFence(lineText); ok {
		s.addRegion(lineFrom, lineTo)
		s.fence = f
		return
	}

	for _, span := range inlineCode(lineText) {
		s.addRegion(lineFrom+span[0], lineFrom+span[1])
	}
}

func (s *Scanner) addRegion(from, to int) {
	if to <= from {
		return
	}
	s.regions = append(s.regions, domain.Exclusion{From: from, To: to})
}

// trimIndent removes the up to three leading spaces a fence line may
// carry. Four or more spaces make an indented block, not a fence.
func trimIndent(s string) string {
	for i := 0; i < 3 && s != "" && s[0] == ' '; i++ {
		s = s[1:]
	}
	return s
}

// markerRun returns the length of the run of marker bytes at the start
// of s.
func markerRun(s string, marker byte) int {
	n := 0
	for n < len(s) && s[n] == marker {
		n++
	}
	return n
}

// opensFence reports whether the line opens a fenced code block: at
// least three backticks or tildes after the optional indent. A
// backtick fence's info string may not contain further backticks.
func opensFence(line string) (fenceState, bool) {
	t := trimIndent(line)
	if t == "" || (t[0] != '`' && t[0] != '~') {
		return fenceState{}, false
	}
	marker := t[0]
	n := markerRun(t, marker)
	if n < 3 {
		return fenceState{}, false
	}
	if marker == '`' && strings.IndexByte(t[n:], '`') >= 0 {
		return fenceState{}, false
	}
	return fenceState{open: true, marker: marker, length: n}, true
}

// closesFence reports whether the line closes the open block: a run of
// the opening marker at least as long as the opening run, and nothing
// but blanks after it.
func closesFence(line string, f fenceState) bool {
	t := trimIndent(line)
	n := markerRun(t, f.marker)
	if n < f.length {
		return false
	}
	return strings.TrimRight(t[n:], " \t") == ""
}

// inlineCode returns the [start, end) ranges of inline code spans in a
// line, backticks included. A span closes on a backtick run of exactly
// the opening length; an unmatched run is literal text.
func inlineCode(line string) [][2]int {
	var spans [][2]int
	for i := 0; i < len(line); {
		if line[i] != '`' {
			i++
			continue
		}
		start := i
		i += markerRun(line[i:], '`')
		if end := closingRun(line, i, i-start); end >= 0 {
			spans = append(spans, [2]int{start, end})
			i = end
		}
	}
	return spans
}

// closingRun finds a backtick run of exactly length n at or after
// offset i and returns the offset just past it, or -1.
func closingRun(line string, i, n int) int {
	for i < len(line) {
		if line[i] != '`' {
			i++
			continue
		}
		run := markerRun(line[i:], '`')
		if run == n {
			return i + run
		}
		i += run
	}
	return -1
}
