package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryNavigation Category = "navigation"
	CategoryCLI        Category = "cli"
)

// Category sentinels. A RouteError matches the sentinel of its category
// through errors.Is.
var (
	ErrConfig     = stderrors.New("malformed route configuration")
	ErrNavigation = stderrors.New("navigation failed")
	ErrCLI        = stderrors.New("invalid command usage")
)

// sentinel returns the category sentinel for c.
func (c Category) sentinel() error {
	switch c {
	case CategoryConfig:
		return ErrConfig
	case CategoryNavigation:
		return ErrNavigation
	case CategoryCLI:
		return ErrCLI
	}
	return nil
}

// RouteError is a structured error with a route location and suggestions.
type RouteError struct {
	// Code is a unique error identifier (e.g., "E104").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the path prefix (or document pointer) where the error
	// was detected, e.g. "/utilisateurs/:utiId".
	Location string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Location != "" {
		msg += " at " + e.Location
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RouteError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is the sentinel of this error's category.
func (e *RouteError) Is(target error) bool {
	if s := e.Category.sentinel(); s != nil && target == s {
		return true
	}
	if t, ok := target.(*RouteError); ok {
		return t.Code != "" && t.Code == e.Code
	}
	return false
}

// At sets the route location of the error.
func (e *RouteError) At(location string) *RouteError {
	e.Location = location
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RouteError) WithSuggestion(s string) *RouteError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *RouteError) WithDetail(d string) *RouteError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detailed explanation to the error.
func (e *RouteError) WithDetailf(format string, args ...any) *RouteError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *RouteError) Wrap(err error) *RouteError {
	e.Wrapped = err
	return e
}

// New creates a RouteError from a registered error code.
func New(code string) *RouteError {
	template, ok := registry[code]
	if !ok {
		return &RouteError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RouteError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new RouteError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *RouteError {
	return &RouteError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a RouteError.
func FromError(err error, code string) *RouteError {
	if err == nil {
		return nil
	}
	var re *RouteError
	if stderrors.As(err, &re) {
		return re
	}
	return New(code).Wrap(err)
}

// CodeOf returns the code of the first RouteError in err's chain, or "".
func CodeOf(err error) string {
	var re *RouteError
	if stderrors.As(err, &re) {
		return re.Code
	}
	return ""
}
