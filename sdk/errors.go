package sdk

import (
	"errors"
	"fmt"
	"net/http"
)

// Common SDK errors that clients can check for specific error handling.
var (
	// ErrInvalidConfig indicates the client configuration is invalid or incomplete.
	ErrInvalidConfig = errors.New("invalid client configuration")

	// ErrNotLoggedIn indicates a request was made before a successful Login.
	ErrNotLoggedIn = errors.New("not logged in to APIC")

	// ErrUnauthorized indicates the credentials or the session token were rejected.
	ErrUnauthorized = errors.New("unauthorized: invalid credentials or expired session")

	// ErrRequestFailed indicates the APIC answered with a non-success status.
	ErrRequestFailed = errors.New("APIC request failed")

	// ErrNotFound indicates the requested object does not exist.
	ErrNotFound = errors.New("object not found")
)

// APIError is an error object returned by the APIC in imdata.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Code is the APIC error code.
	Code string

	// Text is the APIC error text.
	Text string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("APIC error %s (status %d): %s", e.Code, e.StatusCode, e.Text)
}

// Is lets errors.Is(err, ErrRequestFailed) match any APIError.
func (e *APIError) Is(target error) bool {
	return target == ErrRequestFailed
}

// PushError is returned when the APIC rejects a configuration push. Body is
// the raw response, which the operator needs to see.
type PushError struct {
	StatusCode int
	Body       string
}

func (e *PushError) Error() string {
	return fmt.Sprintf("push rejected with status %d: %s", e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrRequestFailed) match any PushError, and
// errors.Is(err, ErrUnauthorized) match one rejected for its session.
func (e *PushError) Is(target error) bool {
	switch target {
	case ErrRequestFailed:
		return true
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return false
}
