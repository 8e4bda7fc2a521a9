package domain

// Marker is an annotation rendered against a span of the document.
// Markers accumulate: re-analysing a span appends a new marker rather
// than replacing earlier ones.
type Marker struct {
	// At is the byte offset the marker is anchored to, normally the
	// span's end position.
	At int

	// Suggestions holds the writing suggestions the marker displays.
	Suggestions []string
}

// Decoration is one renderable entry derived from the marker state:
// a span range together with every marker recorded for it, in the
// order they were added.
type Decoration struct {
	// From is the decorated range's start offset.
	From int

	// To is the decorated range's end offset.
	To int

	// Markers holds the accumulated markers for the range, oldest first.
	Markers []Marker
}
