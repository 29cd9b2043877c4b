package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidField is returned when a payload field has the wrong type.
	ErrInvalidField = fmt.Errorf("%w: invalid field", ErrValidation)

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// FieldError describes a payload field that could not be applied to a post.
type FieldError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Message)
}

// Unwrap makes FieldError match ErrInvalidField with errors.Is.
func (e *FieldError) Unwrap() error {
	return ErrInvalidField
}

// NewFieldError creates a FieldError for the given field.
func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}
