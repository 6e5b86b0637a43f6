package domain

import "fmt"

// ValidationError reports a malformed ProjectionInput. The simulator fails
// fast with one of these before any year is computed; callers typically map
// it to a 400-level response.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError builds a ValidationError for a named field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid projection input: %s: %s", e.Field, e.Reason)
}
