// Package queryerr defines stable error codes for all failure modes of a query run.
package queryerr

import (
	"errors"
	"fmt"
)

// Code represents a stable error code
type Code string

const (
	// ReadFailed indicates a source file could not be read
	ReadFailed Code = "READ_FAILED"
	// ParseFailed indicates a source file could not be parsed
	ParseFailed Code = "PARSE_FAILED"
	// SelectorInvalid indicates the selector string could not be compiled
	SelectorInvalid Code = "SELECTOR_INVALID"
	// GlobInvalid indicates the file pattern could not be compiled
	GlobInvalid Code = "GLOB_INVALID"
	// Internal indicates an unexpected error
	Internal Code = "INTERNAL_ERROR"
)

// ErrRunFailed reports that at least one file failed during the run.
// Per-file errors were already logged; this sentinel only carries the
// exit status to main.
var ErrRunFailed = errors.New("one or more files failed to read or parse")

// Error is a query error with a stable code and an optional offending path.
type Error struct {
	Code    Code
	Path    string
	Message string
	cause   error
}

// New creates a new Error
func New(code Code, path, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Path:    path,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf returns the code of err if it wraps an *Error, or Internal otherwise.
func CodeOf(err error) Code {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Code
	}
	return Internal
}
