package errors

import (
	"errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime    Category = "runtime"
	CategoryHydration  Category = "hydration"
	CategoryController Category = "controller"
	CategoryScheduler  Category = "scheduler"
	CategoryRender     Category = "render"
	CategoryConfig     Category = "config"
	CategoryCLI        Category = "cli"
)

// HydraError is a structured error with a code, a category and an optional fix hint.
type HydraError struct {
	// Code is a unique error identifier (e.g., "E110").
	Code string

	// Category is the error type (runtime, controller, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *HydraError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *HydraError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a HydraError with the same code.
func (e *HydraError) Is(target error) bool {
	t, ok := target.(*HydraError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *HydraError) WithSuggestion(s string) *HydraError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *HydraError) WithDetail(d string) *HydraError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *HydraError) WithDetailf(format string, args ...any) *HydraError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *HydraError) Wrap(err error) *HydraError {
	e.Wrapped = err
	return e
}

// New creates a HydraError from a registered error code.
func New(code string) *HydraError {
	template, ok := registry[code]
	if !ok {
		return &HydraError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &HydraError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new HydraError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *HydraError {
	return &HydraError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a HydraError.
func FromError(err error, code string) *HydraError {
	if err == nil {
		return nil
	}
	var he *HydraError
	if errors.As(err, &he) {
		return he
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err (or anything it wraps) is a HydraError with code.
func HasCode(err error, code string) bool {
	var he *HydraError
	for err != nil {
		if errors.As(err, &he) {
			if he.Code == code {
				return true
			}
			err = he.Wrapped
			continue
		}
		return false
	}
	return false
}
