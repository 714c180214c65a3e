// Package herr defines the typed error kinds shared by every hierodb
// component. It lives below the root package so that internal packages
// (pathcodec, valuecodec, sqlstore) can return typed errors without
// importing the root package and creating an import cycle; the root
// package re-exports these as hierodb.Error / hierodb.Kind* and
// hierodb.ErrorKind.
package herr

import (
	"errors"
	"fmt"
)

// Kind categorizes an Error per spec §7.
type Kind string

const (
	KindUnsupportedType    Kind = "UNSUPPORTED_TYPE"
	KindInvalidCodeUnit    Kind = "INVALID_CODE_UNIT"
	KindInvalidArrayLength Kind = "INVALID_ARRAY_LENGTH"
	KindInvalidDescriptor  Kind = "INVALID_DESCRIPTOR"
	KindCycle              Kind = "CYCLE"
	KindUnknownTag         Kind = "UNKNOWN_TAG"
	KindBackend            Kind = "BACKEND"
	KindClosed             Kind = "CLOSED"
	KindSchemaViolation    Kind = "SCHEMA_VIOLATION"
)

// Error is the concrete error type returned by every hierodb operation
// that can fail. Kind identifies the category; Err, if present, is the
// underlying cause (typically an error from database/sql or the SQLite
// driver).
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New builds an Error with no wrapped cause.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error around a backing-store or codec failure.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hierodb: %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("hierodb: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether err is an *Error of the given kind, unwrapping as
// needed (so callers can test errors returned through fmt.Errorf %w
// chains too).
func Is(err error, kind Kind) bool {
	var he *Error
	if errors.As(err, &he) {
		return he.Kind == kind
	}
	return false
}
