package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotReady indicates no document has been processed yet.
	// This is a routine first-use condition, not a failure.
	ErrNotReady = errors.New("no document has been processed yet")

	// ErrDocumentLoad indicates text extraction from an uploaded file failed.
	// Fatal to that upload; the previously active index keeps serving.
	ErrDocumentLoad = errors.New("document load failed")

	// ErrProviderUnavailable indicates a model backend endpoint is unreachable.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrModelUnavailable indicates the configured model is missing from the
	// backend's catalog.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrProviderTimeout indicates a backend call exceeded its deadline.
	ErrProviderTimeout = errors.New("provider timed out")

	// ErrDimensionMismatch indicates inconsistent embedding vector lengths
	// during index construction. Always a configuration bug.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrUnexpectedResultShape indicates model output that could not be
	// normalized into an answer with sources.
	ErrUnexpectedResultShape = errors.New("unexpected result shape")
)
