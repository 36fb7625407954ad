package github

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed API call
type ErrorKind int

const (
	// KindUnknown covers failure paths nobody anticipated
	KindUnknown ErrorKind = iota
	// KindNetwork indicates a connectivity failure (DNS, timeout, reset)
	KindNetwork
	// KindServer indicates a response status outside 200-299
	KindServer
	// KindDecoding indicates the response body did not match the expected shape
	KindDecoding
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindDecoding:
		return "decoding"
	default:
		return "unknown"
	}
}

// Sentinel values for errors.Is checks against the taxonomy.
var (
	ErrNetwork  = &Error{Kind: KindNetwork}
	ErrServer   = &Error{Kind: KindServer}
	ErrDecoding = &Error{Kind: KindDecoding}
	ErrUnknown  = &Error{Kind: KindUnknown}
)

// Error is returned by every fallible call in this package
type Error struct {
	Kind       ErrorKind
	StatusCode int    // set for KindServer
	Message    string // provider message, if the error body carried one
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch {
	case e.Kind == KindServer && e.Message != "":
		return fmt.Sprintf("github: server error: status %d: %s", e.StatusCode, e.Message)
	case e.Kind == KindServer:
		return fmt.Sprintf("github: server error: status %d", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("github: %s error: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("github: %s error", e.Kind)
	}
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.StatusCode != 0 && t.StatusCode != e.StatusCode {
		return false
	}
	return t.Kind == e.Kind && t.Err == nil
}

// IsNotFound checks if the error indicates a not found response
func (e *Error) IsNotFound() bool {
	return e.Kind == KindServer && e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *Error) IsUnauthorized() bool {
	return e.Kind == KindServer && e.StatusCode == http.StatusUnauthorized
}

// IsRateLimited checks if the provider refused the call because of rate limiting.
// GitHub answers with 403 or 429 depending on which limit was hit.
func (e *Error) IsRateLimited() bool {
	return e.Kind == KindServer &&
		(e.StatusCode == http.StatusForbidden || e.StatusCode == http.StatusTooManyRequests)
}

// AsError maps any error into the taxonomy. Errors that did not come from
// this package become KindUnknown.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &Error{Kind: KindUnknown, Err: err}
}
