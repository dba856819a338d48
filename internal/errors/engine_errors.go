package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the classes of failure the engine can surface.
type ErrorCategory string

const (
	// Fatal at construction time: a malformed tier catalogue or engine config.
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"

	// Local to the offending call: out-of-range capital, confidence or tier.
	ErrorCategoryInput ErrorCategory = "INPUT"

	// Fatal for the load call that hit it: unrecognized tier label,
	// negative counters, or an unparseable persisted document.
	ErrorCategoryState ErrorCategory = "STATE"
)

// EngineError is a categorized error with component and operation context.
// Trade refusal is never represented as an EngineError; the gate returns
// a structured decision instead.
type EngineError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s in %s: %v", e.Category, e.Component, e.Message, e.Operation, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s in %s", e.Category, e.Component, e.Message, e.Operation)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// IsFatal reports whether the error should abort the operation that
// produced it rather than be retried.
func (e *EngineError) IsFatal() bool {
	return e.Category == ErrorCategoryConfiguration || e.Category == ErrorCategoryState
}

// NewEngineError creates a new categorized engine error.
func NewEngineError(category ErrorCategory, component, operation, message string) *EngineError {
	return &EngineError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
	}
}

// WrapError wraps an existing error with engine error context.
func WrapError(err error, category ErrorCategory, component, operation string) *EngineError {
	if err == nil {
		return nil
	}
	return &EngineError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
	}
}

// NewConfigurationError reports a malformed catalogue or config at load time.
func NewConfigurationError(component, operation, message string) *EngineError {
	return NewEngineError(ErrorCategoryConfiguration, component, operation, message)
}

// NewInvalidInputError reports a caller-supplied value outside its valid range.
func NewInvalidInputError(component, operation, message string) *EngineError {
	return NewEngineError(ErrorCategoryInput, component, operation, message)
}

// NewCorruptStateError reports an unusable persisted state payload.
func NewCorruptStateError(component, operation, message string) *EngineError {
	return NewEngineError(ErrorCategoryState, component, operation, message)
}

// IsCategory reports whether err is an EngineError of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Category == category
	}
	return false
}

// IsInvalidInput reports whether err is a per-call input validation error.
func IsInvalidInput(err error) bool { return IsCategory(err, ErrorCategoryInput) }

// IsCorruptState reports whether err marks an unusable persisted payload.
func IsCorruptState(err error) bool { return IsCategory(err, ErrorCategoryState) }

// IsConfiguration reports whether err is fatal configuration failure.
func IsConfiguration(err error) bool { return IsCategory(err, ErrorCategoryConfiguration) }
