package apperror

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when a request carries no usable credentials
var ErrUnauthorized = errors.New("authentication required")

// ErrForbidden is returned when a role or ownership check fails
var ErrForbidden = errors.New("access denied")

// ErrNotFound is returned when a user or report does not exist
var ErrNotFound = errors.New("resource not found")

// ErrConflict is returned on duplicate username/email at signup
var ErrConflict = errors.New("resource already exists")

// ErrValidation is returned for malformed or disallowed input
var ErrValidation = errors.New("validation failed")

// ErrInvariant is returned when an operation would break a system invariant,
// such as demoting the last remaining admin
var ErrInvariant = errors.New("invariant violation")

// Wrap attaches a caller-facing message to one of the sentinel errors above.
// The sentinel stays matchable with errors.Is.
func Wrap(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// Message returns the part of err after the sentinel prefix, or the full
// error text when err is not wrapped.
func Message(err error) string {
	for _, sentinel := range []error{ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict, ErrValidation, ErrInvariant} {
		if errors.Is(err, sentinel) {
			prefix := sentinel.Error() + ": "
			msg := err.Error()
			if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
				return msg[len(prefix):]
			}
			return msg
		}
	}
	return err.Error()
}
