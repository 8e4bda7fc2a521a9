package watch

import "errors"

var (
	// ErrMissingChecker indicates the checker service was not provided.
	ErrMissingChecker = errors.New("checker service is required")

	// ErrMissingView indicates the file view was not provided.
	ErrMissingView = errors.New("file view is required")
)
