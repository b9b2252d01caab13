// Package errors provides structured errors for the Kalx runtime. Each
// error carries a stable code and a category so callers and log pipelines
// can group failures without string matching.
package errors

import (
	"errors"
	"fmt"
)

// Category represents the subsystem an error belongs to.
type Category string

const (
	CategoryDiff    Category = "diff"
	CategoryPatch   Category = "patch"
	CategoryRender  Category = "render"
	CategorySession Category = "session"
)

// KalxError is a structured error with a stable code.
type KalxError struct {
	// Code is a unique error identifier (e.g., "K201").
	Code string

	// Category is the subsystem the error belongs to.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation, when one helps.
	Detail string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *KalxError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *KalxError) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a longer explanation to the error.
func (e *KalxError) WithDetail(format string, args ...any) *KalxError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap attaches an underlying error.
func (e *KalxError) Wrap(err error) *KalxError {
	e.Wrapped = err
	return e
}

// New creates a structured error from a registered code. Unregistered
// codes still produce a usable error with the message given.
func New(code string, message string) *KalxError {
	e := &KalxError{Code: code, Message: message}
	if def, ok := registry[code]; ok {
		e.Category = def.Category
		if message == "" {
			e.Message = def.Message
		}
	}
	return e
}

// Newf creates a structured error with a formatted message.
func Newf(code string, format string, args ...any) *KalxError {
	return New(code, fmt.Sprintf(format, args...))
}

// FromError wraps an arbitrary error under a registered code. A nil err
// returns nil; an err that already is a KalxError passes through.
func FromError(code string, err error) *KalxError {
	if err == nil {
		return nil
	}
	var ke *KalxError
	if errors.As(err, &ke) {
		return ke
	}
	return New(code, err.Error()).Wrap(err)
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	var ke *KalxError
	if errors.As(err, &ke) {
		return ke.Code == code
	}
	return false
}
