package Services

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input. Nothing was changed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AuthorizationError is returned when a row exists but belongs to another user.
type AuthorizationError struct {
	Resource string
	ID       uint
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s %d does not belong to the current user", e.Resource, e.ID)
}

type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ConflictError reports a uniqueness violation such as a taken email.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsAuthorization(err error) bool {
	var a *AuthorizationError
	return errors.As(err, &a)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
