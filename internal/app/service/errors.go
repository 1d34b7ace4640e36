package service

import (
	"errors"
)

// Sentinel errors translated by the controllers into HTTP outcomes. Conflict,
// forbidden and not-found are kept distinct so callers can react differently.
var (
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrSelfDeletion        = errors.New("admins cannot delete their own account")
	ErrNothingToUpdate     = errors.New("no fields to update")
	ErrLocationNotFound    = errors.New("location not found")
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("user already reviewed this location")
	ErrNotReviewOwner      = errors.New("review belongs to another user")
	ErrResetTokenInvalid   = errors.New("reset token is invalid or expired")
)

// ValidationError carries structured per-field violations.
type ValidationError struct {
	Details map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// AsValidationError unwraps a *ValidationError when err is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
