package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent analysis pipeline failures.
// These are distinct from infrastructure errors.
var (
	// ErrSpanInvalid indicates a span failed construction-time validation.
	ErrSpanInvalid = errors.New("invalid span")

	// ErrInvalidChangeSet indicates a changeset is unordered or inconsistent.
	ErrInvalidChangeSet = errors.New("invalid changeset")

	// ErrAnalysisFailed indicates the analysis service rejected a request
	// or could not be reached. The cycle is abandoned; dirty state survives.
	ErrAnalysisFailed = errors.New("analysis request failed")

	// ErrLineOutOfRange indicates a line number beyond the document.
	ErrLineOutOfRange = errors.New("line out of range")

	// ErrPositionOutOfRange indicates a byte offset beyond the document.
	ErrPositionOutOfRange = errors.New("position out of range")

	// ErrViewClosed indicates the document view has been torn down.
	ErrViewClosed = errors.New("view closed")

	// ErrCheckerDestroyed indicates the checker was destroyed and no
	// longer accepts work.
	ErrCheckerDestroyed = errors.New("checker destroyed")
)

// ExtractionError reports that a span could not be constructed from a
// line. It is fatal to that span only: the cycle logs it, drops the
// span, and carries on with the rest of the line.
type ExtractionError struct {
	// Line is the 1-based line the span was extracted from.
	Line int

	// From is the attempted start offset.
	From int

	// To is the attempted end offset.
	To int

	// Reason describes the violated invariant.
	Reason string
}

func newExtractionError(line, from, to int, reason string) *ExtractionError {
	return &ExtractionError{Line: line, From: from, To: to, Reason: reason}
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract span [%d, %d) on line %d: %s", e.From, e.To, e.Line, e.Reason)
}

// Unwrap lets errors.Is match ErrSpanInvalid.
func (e *ExtractionError) Unwrap() error {
	return ErrSpanInvalid
}

// TransportError reports a failed exchange with the analysis service:
// a non-2xx status, an unreachable endpoint, or an undecodable body.
// It aborts the whole cycle; dirty-line state is preserved for retry.
type TransportError struct {
	// Status is the HTTP status code, or 0 when no response arrived.
	Status int

	// Body is a truncated copy of the response body, for logs.
	Body string

	// Err is the underlying transport error, if any.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("analysis service returned status %d", e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("analysis request failed: %v", e.Err)
	}
	return "analysis request failed"
}

// Unwrap lets errors.Is match ErrAnalysisFailed and the wrapped cause.
func (e *TransportError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrAnalysisFailed, e.Err}
	}
	return []error{ErrAnalysisFailed}
}
