package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrThreadNotFound indicates the referenced thread does not exist.
	ErrThreadNotFound = errors.New("thread not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPattern indicates a regular expression query failed to compile.
	// It is the only error the search engine produces and is never fatal:
	// an invalid pattern behaves like a query with no matches.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrUnsupportedFormat indicates a fixture file with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrReplyFailed indicates the responder could not produce an answer.
	ErrReplyFailed = errors.New("reply failed")
)
