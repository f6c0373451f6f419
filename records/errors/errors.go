// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package errors

import (
	"errors"
	"fmt"
)

// Record service specific errors
var (
	ErrRecordNotFound = errors.New("record not found")
)

// Error codes
const (
	CodeRecordNotFound = "RECORD_NOT_FOUND"
	CodeDatabaseError  = "DATABASE_ERROR"
)

// RecordError represents a record operation error with additional context
type RecordError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RecordError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RecordError) Unwrap() error {
	return e.Cause
}

// WrapDatabaseError wraps a storage failure
func WrapDatabaseError(err error) *RecordError {
	return &RecordError{
		Code:    CodeDatabaseError,
		Message: "record storage operation failed",
		Cause:   err,
	}
}
