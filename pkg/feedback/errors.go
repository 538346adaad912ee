package feedback

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNoVideo is returned when an upload has no video body.
	ErrNoVideo = errors.New("feedback: video required")

	// ErrInvalidContext is returned for an unknown speaking context.
	ErrInvalidContext = errors.New("feedback: invalid speaking context")
)

// APIError represents an error response from the feedback service.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Body is the raw response body, truncated.
	Body string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("feedback: API error %d: %s", e.StatusCode, e.Body)
}

// IsServerError returns true if this is a server-side error (HTTP 5xx).
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsRetryable returns true if the request should be retried.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode == 429 || e.IsServerError()
}
