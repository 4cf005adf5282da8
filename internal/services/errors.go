package services

import (
	"errors"

	"github.com/tourplatform/tour-booking-backend/internal/database"
)

// Error kinds. Every error a service returns either wraps one of these or
// is an internal failure that must not be shown to clients.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error carries a client-safe message for one of the error kinds
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

func validationError(message string) error { return newError(ErrValidation, message) }
func forbiddenError(message string) error  { return newError(ErrForbidden, message) }
func notFoundError(message string) error   { return newError(ErrNotFound, message) }
func conflictError(message string) error   { return newError(ErrConflict, message) }

// rejectedValue reports a value the schema refused as a validation error
func rejectedValue(err error, message string) error {
	if errors.Is(err, database.ErrInvalidValue) {
		return validationError(message)
	}
	return err
}
