package hierodb

import (
	"github.com/pathkv/hierodb/internal/herr"
)

// Error is a typed hierodb error. Use errors.As to recover one from an
// error chain, or the Is* helpers below to test its Kind directly.
type Error = herr.Error

// ErrorKind classifies an Error (spec §7).
type ErrorKind = herr.Kind

const (
	KindUnsupportedType   = herr.KindUnsupportedType
	KindInvalidCodeUnit   = herr.KindInvalidCodeUnit
	KindInvalidArrayLen   = herr.KindInvalidArrayLength
	KindInvalidDescriptor = herr.KindInvalidDescriptor
	KindCycle             = herr.KindCycle
	KindUnknownTag        = herr.KindUnknownTag
	KindBackend           = herr.KindBackend
	KindClosed            = herr.KindClosed
	KindSchemaViolation   = herr.KindSchemaViolation
)

// IsUnsupportedType reports whether err is an Error of kind UnsupportedType.
func IsUnsupportedType(err error) bool { return herr.Is(err, herr.KindUnsupportedType) }

// IsInvalidCodeUnit reports whether err is an Error of kind InvalidCodeUnit.
func IsInvalidCodeUnit(err error) bool { return herr.Is(err, herr.KindInvalidCodeUnit) }

// IsInvalidArrayLength reports whether err is an Error of kind InvalidArrayLength.
func IsInvalidArrayLength(err error) bool { return herr.Is(err, herr.KindInvalidArrayLength) }

// IsInvalidDescriptor reports whether err is an Error of kind InvalidDescriptor.
func IsInvalidDescriptor(err error) bool { return herr.Is(err, herr.KindInvalidDescriptor) }

// IsCycle reports whether err is an Error of kind Cycle.
func IsCycle(err error) bool { return herr.Is(err, herr.KindCycle) }

// IsUnknownTag reports whether err is an Error of kind UnknownTag.
func IsUnknownTag(err error) bool { return herr.Is(err, herr.KindUnknownTag) }

// IsBackend reports whether err is an Error of kind Backend.
func IsBackend(err error) bool { return herr.Is(err, herr.KindBackend) }

// IsClosed reports whether err is an Error of kind Closed (DB.Table or
// DB.Tables called after DB.Close).
func IsClosed(err error) bool { return herr.Is(err, herr.KindClosed) }

// IsSchemaViolation reports whether err is an Error of kind SchemaViolation.
func IsSchemaViolation(err error) bool { return herr.Is(err, herr.KindSchemaViolation) }
