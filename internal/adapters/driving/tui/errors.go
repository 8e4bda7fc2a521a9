package tui

import "errors"

// ErrMissingChecker indicates the checker port was not provided.
var ErrMissingChecker = errors.New("checker service is required")

// ErrMissingBuffer indicates the app was built without a document
// buffer.
var ErrMissingBuffer = errors.New("document buffer is required")
