package errors

import (
	"errors"
	"fmt"
)

// Form service specific errors
var (
	ErrFormNotFound        = errors.New("form not found")
	ErrAggregationNotFound = errors.New("aggregation not found")
	ErrInvalidFormData     = errors.New("invalid form data")
)

// Error codes
const (
	CodeFormNotFound        = "FORM_NOT_FOUND"
	CodeAggregationNotFound = "AGGREGATION_NOT_FOUND"
	CodeDatabaseError       = "DATABASE_ERROR"
)

// FormError represents a form service error with additional context
type FormError struct {
	Code    string
	Message string
	Cause   error
}

func (e *FormError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *FormError) Unwrap() error {
	return e.Cause
}

// WrapDatabaseError wraps database errors
func WrapDatabaseError(err error) *FormError {
	return &FormError{Code: CodeDatabaseError, Message: "Database operation failed", Cause: err}
}
