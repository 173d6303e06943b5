// Package errors provides structured error types for craftwise.
//
// Errors carry a machine-readable [Code] so the CLI and the HTTP API can
// react to a failure category without matching on message text.
//
// # Error Codes
//
// Codes follow a prefix convention:
//   - INVALID_*: input validation failures
//   - *_NOT_FOUND: unknown items or resources
//   - RECIPE_CYCLE: a recipe transitively requires itself
//   - INSUFFICIENT_STOCK: a craft was refused because the pool cannot cover it
//   - STORAGE_ERROR, SOURCE_UNAVAILABLE, NETWORK_ERROR: infrastructure failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidAmount, "amount must be positive, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidAmount) {
//	    // reject the request
//	}
//
//	err := errors.Wrap(errors.ErrCodeStorage, ioErr, "save pool to %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidItem   Code = "INVALID_ITEM"
	ErrCodeInvalidAmount Code = "INVALID_AMOUNT"
	ErrCodeInvalidRecipe Code = "INVALID_RECIPE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeItemNotFound Code = "ITEM_NOT_FOUND"

	// Crafting errors
	ErrCodeRecipeCycle       Code = "RECIPE_CYCLE"
	ErrCodeInsufficientStock Code = "INSUFFICIENT_STOCK"

	// Infrastructure errors
	ErrCodeStorage           Code = "STORAGE_ERROR"
	ErrCodeSourceUnavailable Code = "SOURCE_UNAVAILABLE"
	ErrCodeNetwork           Code = "NETWORK_ERROR"
	ErrCodeTimeout           Code = "TIMEOUT"
	ErrCodeRateLimited       Code = "RATE_LIMITED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Cycle creates a RECIPE_CYCLE error describing the items along the cycle,
// e.g. Cycle([]string{"A", "B", "A"}) reads "recipe cycle: A → B → A".
func Cycle(path []string) *Error {
	return New(ErrCodeRecipeCycle, "recipe cycle: %s", strings.Join(path, " → "))
}
