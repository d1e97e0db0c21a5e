package errors

import (
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of an error response is copied into APIError.Text.
const maxErrorBody = 8 << 10

// ClassifyHTTPError determines whether an HTTP failure is worth repeating.
// - 4xx client errors (except 408 and 429) are irrecoverable
// - 5xx server errors are recoverable
func ClassifyHTTPError(statusCode int, text, operation string) *APIError {
	return &APIError{
		Category:   getHTTPErrorCategory(statusCode),
		Operation:  operation,
		StatusCode: statusCode,
		Text:       text,
	}
}

// getHTTPErrorCategory maps HTTP status codes to error categories.
func getHTTPErrorCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case http.StatusRequestTimeout, http.StatusTooManyRequests:
			return Recoverable
		default:
			return Irrecoverable
		}
	case statusCode >= 500 && statusCode < 600:
		return Recoverable
	default:
		// Unexpected status codes - be conservative
		return Recoverable
	}
}

// FromResponse builds an APIError from a non-2xx response. The body text is
// preferred; the status text is used when the body is empty.
func FromResponse(resp *http.Response, operation string) *APIError {
	var text string
	if resp.Body != nil {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		text = strings.TrimSpace(string(b))
	}
	return FromStatus(resp.StatusCode, text, operation)
}

// FromStatus builds an APIError from an already-read status and body.
func FromStatus(statusCode int, body, operation string) *APIError {
	text := strings.TrimSpace(body)
	if text == "" {
		text = http.StatusText(statusCode)
	}
	return ClassifyHTTPError(statusCode, text, operation)
}

// NewNetworkError wraps a transport-level failure.
func NewNetworkError(operation string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Underlying: err}
}
