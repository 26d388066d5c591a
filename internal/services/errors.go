package services

import (
	"errors"
	"fmt"

	"github.com/bpariverside/skillswap-service/internal/validator"
)

// Sentinel errors the handlers translate into HTTP statuses.
var (
	// Not found (404)
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrMessageNotFound = errors.New("message not found")

	// Conflict (409)
	ErrDuplicateUser         = errors.New("email or handle already in use")
	ErrDuplicateRegistration = errors.New("already registered for this session")

	// Bad request (400)
	ErrSelfAction = errors.New("cannot perform this action on your own resource")

	// Auth failures (401)
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// Forbidden (403)
	ErrForbidden              = errors.New("forbidden")
	ErrRegistrationKeyInvalid = errors.New("registration key rejected")

	// Avatar uploads
	ErrAvatarTooLarge        = errors.New("avatar exceeds the size limit")     // 413
	ErrAvatarUnsupportedType = errors.New("avatar must be a PNG or JPEG image") // 415
	ErrAvatarOutsideStore    = errors.New("avatar url must point into the store")
)

// ValidationErrors re-exports the validator's error slice so handlers can
// match it with errors.As.
type ValidationErrors = validator.ValidationErrors

// NewValidationError builds a single-field validation failure.
func NewValidationError(field, message string, value interface{}) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message, Value: value}}
}

// PermissionError carries the ownership check that failed.
type PermissionError struct {
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s %s: %s", e.Action, e.Resource, e.Reason)
}

func (e *PermissionError) Unwrap() error { return ErrForbidden }

func NewPermissionError(resource, action, reason string) *PermissionError {
	return &PermissionError{Resource: resource, Action: action, Reason: reason}
}
