// Package services implements the driving port interfaces.
// Services contain the incremental analysis logic and orchestrate
// calls to driven ports (adapters).
//
// The pipeline, end to end: a document view feeds edits into the
// Checker, which records them in a DirtyTracker and debounces. When
// the document goes quiet the Checker extracts spans from changed
// visible lines (Extractor), sends them to the analysis service,
// merges findings back onto spans (Merger), and dispatches effects
// the view applies to its MarkerSet.
//
// Services are pure Go with no external dependencies.
package services
