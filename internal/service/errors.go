package service

import (
	"errors"

	"gorm.io/gorm"
)

// Error kinds. Callers match them with errors.Is; Error() carries only the
// user-facing message.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
)

type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func validationError(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }

func notFoundError(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

func forbiddenError(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }

// lookupError turns gorm's missing-row error into a not-found error and
// passes everything else through untouched.
func lookupError(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundError(msg)
	}
	return err
}

// IsUserError reports whether err is safe to show to the client as is.
func IsUserError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden)
}
