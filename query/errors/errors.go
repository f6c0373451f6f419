package errors

import (
	"errors"
	"fmt"
)

// Query compilation specific errors
var (
	// ErrForbiddenOperator marks an aggregation whose stages contain a blocked
	// operator. This is a security boundary: the whole compilation fails and
	// no partial pipeline is ever returned.
	ErrForbiddenOperator = errors.New("forbidden aggregation operator")

	ErrInvalidStage       = errors.New("invalid pipeline stage")
	ErrInvalidAggregation = errors.New("invalid aggregation")
)

// Error codes
const (
	CodeForbiddenOperator  = "FORBIDDEN_OPERATOR"
	CodeInvalidStage       = "INVALID_STAGE"
	CodeInvalidAggregation = "INVALID_AGGREGATION"
)

// QueryError represents a query compilation error with additional context
type QueryError struct {
	Code     string
	Message  string
	Operator string
	Cause    error
}

func (e *QueryError) Error() string {
	if e.Operator != "" {
		return fmt.Sprintf("%s: %s (operator: %s)", e.Code, e.Message, e.Operator)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// NewForbiddenOperatorError builds the structured rejection surfaced to the
// caller when a pipeline stage carries a blocked operator.
func NewForbiddenOperatorError(operator string) *QueryError {
	return &QueryError{
		Code:     CodeForbiddenOperator,
		Message:  "aggregation pipeline contains a forbidden operator",
		Operator: operator,
		Cause:    ErrForbiddenOperator,
	}
}

// NewInvalidStageError wraps a malformed stage body.
func NewInvalidStageError(stageType string, cause error) *QueryError {
	return &QueryError{
		Code:    CodeInvalidStage,
		Message: fmt.Sprintf("malformed %q stage body", stageType),
		Cause:   cause,
	}
}
