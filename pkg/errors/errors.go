// Package errors provides structured error handling for strata
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeColumnNotFound represents a reference to a column absent from the dataset
	ErrorTypeColumnNotFound ErrorType = "column_not_found"
	// ErrorTypeEmptySelection represents an operation invoked with zero target columns
	ErrorTypeEmptySelection ErrorType = "empty_selection"
	// ErrorTypeTypeMismatch represents an operation applied to a column or literal of an incompatible type
	ErrorTypeTypeMismatch ErrorType = "type_mismatch"
	// ErrorTypeInvalidParameter represents a missing or out-of-domain operation parameter
	ErrorTypeInvalidParameter ErrorType = "invalid_parameter"
	// ErrorTypeValueConversion represents a strict-mode conversion that could not parse one or more values
	ErrorTypeValueConversion ErrorType = "value_conversion"
	// ErrorTypeUnknownIdentifier represents a filter expression referencing a name that is not a column
	ErrorTypeUnknownIdentifier ErrorType = "unknown_identifier"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeFile represents file operation errors
	ErrorTypeFile ErrorType = "file"
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithColumn records the column the error refers to
func (e *Error) WithColumn(name string) *Error {
	return e.WithDetail("column", name)
}

// WithRows records the row indices the error refers to
func (e *Error) WithRows(indices []int) *Error {
	return e.WithDetail("rows", indices)
}

// Column returns the column name attached to the error, if any
func (e *Error) Column() (string, bool) {
	name, ok := e.Details["column"].(string)
	return name, ok
}

// Rows returns the row indices attached to the error, if any
func (e *Error) Rows() ([]int, bool) {
	rows, ok := e.Details["rows"].([]int)
	return rows, ok
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
	}
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// TypeOf returns the error type, or ErrorTypeInternal for foreign errors
func TypeOf(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ErrorTypeInternal
	}
	return e.Type
}
