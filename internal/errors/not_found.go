package errors

import (
	"errors"
	"fmt"
)

// NotFoundError means the catalog answered, but with nothing for the key:
// an empty payload or a 404.
type NotFoundError struct {
	Field string // "ISBN", "author", ...
	Key   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no book found with %s %s", e.Field, e.Key)
}

// NewNotFoundError creates a NotFoundError for the given lookup field and key
func NewNotFoundError(field, key string) *NotFoundError {
	return &NotFoundError{Field: field, Key: key}
}

// IsNotFound reports whether err is a NotFoundError (even when wrapped).
func IsNotFound(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}
