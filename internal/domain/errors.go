package domain

import "errors"

var (
	// ErrValidation marks bad input shape: empty or oversized title, bad date, bad credentials form.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks a uniqueness violation enforced by the store.
	ErrConflict = errors.New("already exists")
	// ErrNotFound covers both a missing row and a row owned by someone else.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials is returned for an unknown username or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError describes which field failed and why.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
