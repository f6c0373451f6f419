// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package errors

import (
	"errors"
	"fmt"
)

// Reference data specific errors
var (
	ErrUnknownSource = errors.New("unknown reference data source")
	ErrInvalidTable  = errors.New("invalid reference data table name")
)

// Error codes
const (
	CodeUnknownSource = "UNKNOWN_SOURCE"
	CodeInvalidTable  = "INVALID_TABLE"
	CodeFetchFailed   = "FETCH_FAILED"
)

// ReferenceDataError represents a reference data operation error
type ReferenceDataError struct {
	Code    string
	Message string
	Cause   error
}

func (e *ReferenceDataError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ReferenceDataError) Unwrap() error {
	return e.Cause
}

// WrapFetchError wraps a source fetch failure
func WrapFetchError(err error) *ReferenceDataError {
	return &ReferenceDataError{
		Code:    CodeFetchFailed,
		Message: "reference data fetch failed",
		Cause:   err,
	}
}
