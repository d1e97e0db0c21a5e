// Package errors provides error classification for the client SDK.
// This enables different handling policies based on error recoverability.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory determines how errors should be handled by background jobs.
type ErrorCategory int

const (
	// Recoverable errors may succeed when the same call is issued again.
	// Examples: 500 Internal Server Error, network timeouts, connection failures.
	Recoverable ErrorCategory = iota

	// Irrecoverable errors will fail again unchanged.
	// Examples: 404 Not Found, 400 Bad Request, 422 Unprocessable Entity.
	Irrecoverable
)

// String returns a human-readable representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// APIError is returned for every non-2xx response of the packing API.
type APIError struct {
	Category   ErrorCategory
	Operation  string // SDK operation, e.g. "pack item"
	StatusCode int
	Text       string // response body, or the status text when the body is empty
}

// Error renders the message shown to users: "API error (<status>): <text>".
func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Text)
}

// NetworkError wraps a failure that happened before any response arrived.
type NetworkError struct {
	Operation  string
	Underlying error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s network error: %v", e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *NetworkError) Unwrap() error {
	return e.Underlying
}

// IsIrrecoverable returns true if the error should not be retried.
func IsIrrecoverable(err error) bool {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Category == Irrecoverable
	}
	return false
}

// StatusCode extracts the HTTP status of an *APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
