package domain

// Exclusion marks a document range the extractor must not treat as
// prose, such as a code fence or an inline code span. Positions are
// byte offsets into the full document.
type Exclusion struct {
	// From is the byte offset where the excluded range begins.
	From int

	// To is the byte offset just past the excluded range.
	To int
}

// Overlaps reports whether the exclusion intersects [from, to).
// An empty range intersects nothing.
func (e Exclusion) Overlaps(from, to int) bool {
	return from < to && e.From < to && from < e.To
}

// Covers reports whether the exclusion fully contains [from, to).
func (e Exclusion) Covers(from, to int) bool {
	return e.From <= from && to <= e.To
}
