package domain

import (
	"errors"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// pilgrimage does not exist in the store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when a record fails the
// model rules (missing required field, church or status outside its set).
// Handlers should map this to HTTP 400 Bad Request.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a new pilgrimage would occupy a date/time slot
// that is already taken. Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ValidationError carries the ordered rule violations produced by
// Pilgrimage.Validate. It matches ErrValidation under errors.Is, so callers
// that only care about the category can keep using the sentinel.
type ValidationError struct {
	Problems []string
}

// Error joins the problems with ", " in the order Validate reported them.
func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, ", ")
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
