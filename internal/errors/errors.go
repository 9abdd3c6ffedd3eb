// ABOUTME: Coded error type shared by all demoseed commands.
// ABOUTME: Gives every fatal failure a machine-readable code plus optional column and row context.

package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Error is the standardized failure returned by the transforms and the CLI.
// The Code lets callers branch on the kind of failure without parsing messages.
//
// Usage:
//
//	return errors.New(errors.ErrMissingColumn, "required column not found").WithField("Plan")
type Error struct {
	Code    string // Machine-readable error code (e.g., "missing_column")
	Message string // Human-readable error message
	Field   string // Optional: column or flag that caused the error
	Row     int    // Optional: 1-based data row number, 0 when not row-specific
	Err     error  // Optional: underlying cause
}

// Common error codes.
const (
	ErrInvalidArguments    = "invalid_arguments"
	ErrInvalidConfig       = "invalid_config"
	ErrIO                  = "io_error"
	ErrMissingColumn       = "missing_column"
	ErrInvalidValue        = "invalid_value"
	ErrUnresolvedWorkspace = "unresolved_workspace"
)

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error that records err as its cause.
func Wrap(err error, code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// WithField returns a copy of e that references the given column or flag.
func (e *Error) WithField(field string) *Error {
	c := *e
	c.Field = field
	return &c
}

// WithRow returns a copy of e that references the given data row.
func (e *Error) WithRow(row int) *Error {
	c := *e
	c.Row = row
	return &c
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %q)", e.Field)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " at row %d", e.Row)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the code of the first *Error in err's chain, or "" if there is none.
func Code(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && Code(err) == code
}
