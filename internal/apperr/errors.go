// Package apperr defines the error taxonomy shared by the lifecycle engine
// and the HTTP layer. Validation and authorization errors abort the
// triggering operation before any side effect runs; side-effect failures are
// logged and swallowed at the boundary instead of being surfaced.
package apperr

import "errors"

// ErrNotFound marks a referenced project, record, or user as absent.
var ErrNotFound = errors.New("resource not found")

// ValidationError rejects bad input (unknown status, missing required
// fields, malformed values). Mapped to 400 at the HTTP boundary.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func Validation(msg string) error {
	return &ValidationError{Msg: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AuthorizationError rejects an actor that is neither an admin nor the
// assigned writer. Mapped to 403 at the HTTP boundary.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string {
	return e.Msg
}

func Authorization(msg string) error {
	return &AuthorizationError{Msg: msg}
}

// IsAuthorization reports whether err is an AuthorizationError.
func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}
