package model

import "fmt"

// ReaderError represents a source document that is malformed or lacks a
// required structural node
type ReaderError struct {
	Node    string
	Message string
	Cause   error
}

func (e *ReaderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("reader: %s: %s (%v)", e.Node, e.Message, e.Cause)
	}
	return fmt.Sprintf("reader: %s: %s", e.Node, e.Message)
}

func (e *ReaderError) Unwrap() error {
	return e.Cause
}

// NewReaderError creates a new reader error
func NewReaderError(node, message string, cause error) *ReaderError {
	return &ReaderError{
		Node:    node,
		Message: message,
		Cause:   cause,
	}
}

// NotFoundError reports a source location that does not exist
type NotFoundError struct {
	Path  string
	Cause error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("source not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

// NewNotFoundError creates a new not-found error
func NewNotFoundError(path string, cause error) *NotFoundError {
	return &NotFoundError{
		Path:  path,
		Cause: cause,
	}
}

// ValidationError represents an entity invariant violation
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}

// FormatError represents formatter input outside the documented precondition
type FormatError struct {
	Input    string
	Expected string
	Message  string
	Cause    error
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("format: %s, expected %s, got %q (%v)", e.Message, e.Expected, e.Input, e.Cause)
	}
	return fmt.Sprintf("format: %s, expected %s, got %q", e.Message, e.Expected, e.Input)
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

// NewFormatError creates a new format error
func NewFormatError(input, expected, message string, cause error) *FormatError {
	return &FormatError{
		Input:    input,
		Expected: expected,
		Message:  message,
		Cause:    cause,
	}
}
