// Package service contains the domain logic for the time-tracker service.
package service

import "errors"

// Domain-rule errors. Each maps to a stable error code and a 4xx status
// in the handlers; they are raised before any mutation happens.
var (
	ErrAlreadyClockedIn      = errors.New("already clocked in")
	ErrNotClockedIn          = errors.New("not currently clocked in")
	ErrLocationNotAuthorized = errors.New("clock-in location not authorized")
	ErrUnauthorized          = errors.New("insufficient permissions")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountPending        = errors.New("account is pending approval")
	ErrNotFound              = errors.New("record not found")
	ErrOAuthExchangeFailed   = errors.New("oauth exchange failed")
)

// ValidationError describes malformed or missing input. The message is
// safe to return to the caller verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError from a plain message.
func Validationf(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
