package model

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrPersistence  = errors.New("persistence failed")
	ErrImportFormat = errors.New("invalid import document")
)

// ValidationError reports a missing or malformed field on create/update.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Is lets callers match any ValidationError with errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Required returns a ValidationError for a missing field.
func Required(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

// Invalid returns a ValidationError for a field holding an unknown value.
func Invalid(field string, value any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf("has invalid value %q", fmt.Sprint(value))}
}
