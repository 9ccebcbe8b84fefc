// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity (or a parent it references) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the acting principal may not perform the requested action.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized indicates failed or missing authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrAlreadyExists indicates a unique constraint violation (duplicate title or email).
	ErrAlreadyExists = errors.New("already exists")

	// ErrHasDependents indicates a parent cannot be removed while children reference it.
	ErrHasDependents = errors.New("has dependent children")

	// ErrReferentialIntegrity indicates the store rejected a delete because of a foreign key.
	// Reaching it means the deletion guard was skipped.
	ErrReferentialIntegrity = errors.New("referential integrity violation")

	// ErrValidation marks input rejected before touching the store.
	ErrValidation = errors.New("validation")
)

// FieldError ties an error to the input field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

// OnField wraps err with the name of the offending field.
func OnField(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}
