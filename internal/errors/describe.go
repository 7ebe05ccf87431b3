package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// GenericMessage is used for failures of a shape Describe does not know.
const GenericMessage = "catalog request failed"

// RequestError carries the normalized description of a failed catalog call
// while keeping the original error reachable through Unwrap.
type RequestError struct {
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Normalize wraps err in a RequestError whose message comes from Describe.
// A nil error stays nil and an existing RequestError is returned as is.
func Normalize(err error) error {
	if err == nil {
		return nil
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr
	}
	return &RequestError{Message: Describe(err), Err: err}
}

// Describe maps a failure from any source onto one descriptive string.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var (
		reqErr    *RequestError
		notFound  *NotFoundError
		rateLimit *RateLimitError
		status    *StatusError
		decode    *DecodeError
		transport *TransportError
		netErr    net.Error
	)

	switch {
	case errors.As(err, &reqErr):
		return reqErr.Message
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "request timed out"
	case errors.As(err, &rateLimit):
		return fmt.Sprintf("rate limited by catalog: %s", rateLimit.Error())
	case errors.As(err, &status):
		return fmt.Sprintf("catalog returned HTTP %d", status.StatusCode)
	case errors.As(err, &decode):
		return fmt.Sprintf("malformed catalog response: %v", decode.Err)
	case errors.As(err, &transport):
		return fmt.Sprintf("network error: %v", transport.Err)
	case errors.As(err, &netErr):
		return fmt.Sprintf("network error: %v", netErr)
	default:
		return GenericMessage
	}
}
