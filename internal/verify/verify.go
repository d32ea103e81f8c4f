// Package verify defines the error type returned by the allocators' Verify
// methods when an invariant does not hold.
package verify

import "fmt"

// ValidationError describes one broken invariant.
type ValidationError struct {
	Type    string         // Invariant category (e.g., "BoundaryTag", "SlabList")
	Message string         // Human-readable description
	Offset  int            // Byte offset or handle involved (-1 if N/A)
	Details map[string]any // Additional context
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Errorf builds a ValidationError with a formatted message.
func Errorf(typ string, offset int, format string, args ...any) *ValidationError {
	return &ValidationError{
		Type:    typ,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	}
}

// With attaches a detail key to e and returns it.
func (e *ValidationError) With(key string, value any) *ValidationError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}
