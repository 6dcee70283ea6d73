package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryInvariant Category = "invariant"
	CategoryReconcile Category = "reconcile"
	CategoryRender    Category = "render"
	CategoryStream    Category = "stream"
	CategoryProtocol  Category = "protocol"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
)

// Error is a structured error with a stable code, category, and fix hint.
type Error struct {
	// Code is a unique error identifier (e.g. "B101").
	Code string

	// Category is the error type (invariant, reconcile, etc.).
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
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates a structured error with the given code, category, and message.
func New(code string, category Category, format string, args ...any) *Error {
	return &Error{
		Code:     code,
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}
