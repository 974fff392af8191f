package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the service. Handlers branch on these with
// errors.Is to pick the wire-visible status code.
var (
	// ErrURLNotFound is returned when a code resolves to nothing. This is a
	// normal outcome, not a storage fault.
	ErrURLNotFound = errors.New("URL not found")

	// ErrInvalidURL is returned when the submitted URL fails validation.
	ErrInvalidURL = errors.New("invalid URL format")

	// ErrEncoding is returned by the base62 codec for a negative input to
	// encode or an undecodable string. Resolve swallows the decode side of
	// this into ErrURLNotFound; it never reaches the wire.
	ErrEncoding = errors.New("base62 encoding error")

	// ErrStorage is returned for backing-storage faults other than the
	// expected unique-constraint race during allocation.
	ErrStorage = errors.New("storage error")

	// ErrMalformedRequest is returned by the framer for a request line that
	// does not split into method, path and version. Terminal, never retried.
	ErrMalformedRequest = errors.New("malformed request line")

	// ErrRateLimitExceeded is returned when a client exceeds its budget.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrCacheUnavailable is returned when cache operations fail.
	ErrCacheUnavailable = errors.New("cache temporarily unavailable")
)

// AppError wraps errors with the context the handler layer needs to build a
// response without inspecting storage internals.
type AppError struct {
	Err        error  // Original error
	Message    string // User-facing message
	StatusCode int    // HTTP status code
	Internal   bool   // Whether to log as internal fault
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error for errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a 400 error that exposes the specific reason.
func NewValidationError(message string) *AppError {
	return &AppError{
		Err:        ErrInvalidURL,
		Message:    message,
		StatusCode: 400,
		Internal:   false,
	}
}

// NewNotFoundError creates a 404 error.
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Err:        ErrURLNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: 404,
		Internal:   false,
	}
}

// NewInternalError creates a 500 error. The wrapped cause is logged but the
// user-facing message stays generic.
func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        fmt.Errorf("%w: %v", ErrStorage, err),
		Message:    "Internal server error",
		StatusCode: 500,
		Internal:   true,
	}
}
