// Package domain defines the core types, errors, and ports for the listing matcher.
package domain

import "fmt"

// ValidationError indicates an input record could not be parsed or normalized.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// SkippedError indicates a record was intentionally dropped during ingestion
// (duplicate product, unknown currency, no manufacturer match). It is always
// logged and never aborts a run.
type SkippedError struct {
	Message string
}

func (e *SkippedError) Error() string { return e.Message }

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrSkipped creates a SkippedError with a formatted message.
func ErrSkipped(format string, args ...interface{}) *SkippedError {
	return &SkippedError{Message: fmt.Sprintf(format, args...)}
}
