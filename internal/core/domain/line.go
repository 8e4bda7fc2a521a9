package domain

import "strings"

// Line represents a single line of the viewed document.
// Positions are byte offsets into the full document text.
type Line struct {
	// Number is the 1-based line number.
	Number int

	// From is the byte offset of the line's first character.
	From int

	// Text is the line content without the trailing newline.
	Text string
}

// To returns the byte offset just past the line's last character.
func (l Line) To() int {
	return l.From + len(l.Text)
}

// Contains reports whether pos falls within the line's range.
// The end offset is included so a caret at end-of-line resolves
// to the line it terminates.
func (l Line) Contains(pos int) bool {
	return pos >= l.From && pos <= l.To()
}

// SplitLines builds the line index for a document text. An empty text
// still yields one empty line, so position zero always resolves.
func SplitLines(text string) []Line {
	var lines []Line
	from := 0
	for number := 1; ; number++ {
		i := strings.IndexByte(text[from:], '\n')
		if i < 0 {
			lines = append(lines, Line{Number: number, From: from, Text: text[from:]})
			return lines
		}
		lines = append(lines, Line{Number: number, From: from, Text: text[from : from+i]})
		from += i + 1
	}
}
