package domain

import (
	"fmt"
)

// Error codes for different failure scenarios
const (
	ErrValidation     = "VALIDATION_ERROR"
	ErrNotFound       = "NOT_FOUND"
	ErrStorage        = "STORAGE_ERROR"
	ErrInternalServer = "INTERNAL_SERVER_ERROR"
)

// ValidationError represents a fatal problem with uploaded criteria or an
// analysis request. It aborts the whole scoring run before any case is scored.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value any) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// NotFoundError reports that a requested file, analysis, sheet, or parameter
// does not exist. It never implies partial state mutation.
type NotFoundError struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.ID)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}
