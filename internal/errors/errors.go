// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrShapeMismatch    = errors.New("shape mismatch")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrRenderFailed     = errors.New("render failed")
)

// ValidationError represents an invalid input parameter.
// It matches ErrInvalidParameter under errors.Is.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter: %s (%v): %s", e.Field, e.Value, e.Message)
}

// Is reports whether target is ErrInvalidParameter.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ShapeError represents inconsistent array dimensions handed to a presenter.
// It matches ErrShapeMismatch under errors.Is.
type ShapeError struct {
	Operation    string
	ExpectedRows int
	ExpectedCols int
	ActualRows   int
	ActualCols   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape mismatch [%s]: axes imply %dx%d, grid is %dx%d",
		e.Operation, e.ExpectedRows, e.ExpectedCols, e.ActualRows, e.ActualCols)
}

// Is reports whether target is ErrShapeMismatch.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// NewShapeError creates a new ShapeError.
func NewShapeError(operation string, expectedRows, expectedCols, actualRows, actualCols int) *ShapeError {
	return &ShapeError{
		Operation:    operation,
		ExpectedRows: expectedRows,
		ExpectedCols: expectedCols,
		ActualRows:   actualRows,
		ActualCols:   actualCols,
	}
}

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error [%s]: %s", e.Key, e.Message)
}

// Unwrap returns ErrConfigInvalid so callers can match on the sentinel.
func (e *ConfigError) Unwrap() error {
	return ErrConfigInvalid
}

// NewConfigError creates a new ConfigError.
func NewConfigError(key, message string) *ConfigError {
	return &ConfigError{
		Key:     key,
		Message: message,
	}
}

// RenderError represents a failure while producing an output artifact.
type RenderError struct {
	Format string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error [%s]: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() []error {
	return []error{ErrRenderFailed, e.Err}
}

// NewRenderError creates a new RenderError.
func NewRenderError(format string, err error) *RenderError {
	return &RenderError{
		Format: format,
		Err:    err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
