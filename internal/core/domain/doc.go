// Package domain defines the core entities for Margo.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Line: A single line of the viewed document
//   - Span: A contiguous run of analysable prose within a line
//   - ChangeSet: An ordered description of edits applied to the document
//   - Finding: An analysis result for a single span
//   - Marker: An annotation attached to a span's range
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
