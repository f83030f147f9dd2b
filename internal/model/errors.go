package model

import (
	"errors"
	"strings"
)

// ErrNotFound is wrapped by StoreError when a query matched no rows.
var ErrNotFound = errors.New("not found")

// Codes set on StoreError by the repository layer. PostgreSQL errors keep
// their SQLSTATE code instead.
const (
	CodeNoRows        = "no_rows"
	CodeInvalidColumn   = "invalid_column"
	CodeInvalidArgument = "invalid_argument"
	CodeUnavailable     = "unavailable"
	CodeCanceled        = "canceled"
	CodeTimeout         = "timeout"

	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
	CodeInvalidText         = "22P02"
)

// StoreError is the uniform error returned by every repository method.
type StoreError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`

	cause error
}

// NewStoreError creates a StoreError wrapping cause.
func NewStoreError(code, message string, cause error) *StoreError {
	return &StoreError{Code: code, Message: message, cause: cause}
}

func (e *StoreError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Code != "" {
		b.WriteString(" (code ")
		b.WriteString(e.Code)
		b.WriteString(")")
	}
	if e.Details != "" {
		b.WriteString(": ")
		b.WriteString(e.Details)
	}
	return b.String()
}

func (e *StoreError) Unwrap() error {
	return e.cause
}

// WithDetails sets details and hint and returns e.
func (e *StoreError) WithDetails(details, hint string) *StoreError {
	e.Details = details
	e.Hint = hint
	return e
}

// ErrorCode returns the StoreError code found in err's chain, or "".
func ErrorCode(err error) string {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsNotFound reports whether err means that no rows matched.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return ErrorCode(err) == CodeUniqueViolation
}
