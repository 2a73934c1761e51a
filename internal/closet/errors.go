package closet

import (
	"errors"
	"fmt"
)

// Base error classes. Every error the service returns matches one of them
// with errors.Is.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
)

// Specific errors.
var (
	ErrPieceNotFound    = fmt.Errorf("piece %w", ErrNotFound)
	ErrInfoNotFound     = fmt.Errorf("clothing info %w", ErrNotFound)
	ErrListNotFound     = fmt.Errorf("packing list %w", ErrNotFound)
	ErrLocationNotFound = fmt.Errorf("location %w", ErrNotFound)
	ErrImageNotFound    = fmt.Errorf("image %w", ErrNotFound)

	ErrEmptyOperation  = fmt.Errorf("%w: no pieces given", ErrValidation)
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be at least 1", ErrValidation)

	ErrAlreadyLost      = fmt.Errorf("%w: piece is already lost", ErrConflict)
	ErrNotLost          = fmt.Errorf("%w: piece is not lost", ErrConflict)
	ErrListExpired      = fmt.Errorf("%w: packing list has expired", ErrConflict)
	ErrUploadConsumed   = fmt.Errorf("%w: upload already completed", ErrConflict)
	ErrUploadIncomplete = fmt.Errorf("%w: upload has no image yet", ErrConflict)

	// ErrMissingPrerequisite is recoverable by the caller: pick a packing
	// location and retry.
	ErrMissingPrerequisite = errors.New("please select a packing location first")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level validation failures.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}
