package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError wraps a failure to get any HTTP response at all
// (connection refused, DNS, reset, timeout inside the transport).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a TransportError for url
func NewTransportError(url string, err error) *TransportError {
	return &TransportError{URL: url, Err: err}
}

// IsTransportError checks if error is a TransportError
func IsTransportError(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// StatusError is a non-2xx answer that is neither a 404 nor a 429
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// NewStatusError creates a StatusError
func NewStatusError(url string, statusCode int) *StatusError {
	return &StatusError{URL: url, StatusCode: statusCode}
}

// DecodeError means the response body was not the JSON we expected
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a DecodeError
func NewDecodeError(url string, err error) *DecodeError {
	return &DecodeError{URL: url, Err: err}
}
