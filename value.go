package hierodb

import (
	"math/big"
	"time"

	"github.com/pathkv/hierodb/internal/valuecodec"
)

// Value is anything that can be stored in a hierodb cell: a scalar
// leaf (Null, Bool, Number, String, BigInt, Timestamp, Regexp) or a
// composite (*Array, *Record).
type Value = valuecodec.Value

type (
	// Null is the leaf value representing JSON-like null.
	Null = valuecodec.Null
	// Bool is a boolean leaf value.
	Bool = valuecodec.Bool
	// Number is an IEEE-754 double leaf value.
	Number = valuecodec.Number
	// String is a UTF-16-encodable text leaf value.
	String = valuecodec.String
	// BigInt is an arbitrary-precision integer leaf value.
	BigInt = valuecodec.BigInt
	// Timestamp is a leaf value in milliseconds since the Unix epoch.
	Timestamp = valuecodec.Timestamp
	// Regexp is a regular-expression leaf value, stored as source text
	// including flags (e.g. "/foo[0-9]+/i").
	Regexp = valuecodec.Regexp
	// Array is a dense, integer-indexed composite value.
	Array = valuecodec.Array
	// Record is a keyed composite value that preserves insertion order.
	Record = valuecodec.Record
)

// NewArray builds an *Array from items in index order.
func NewArray(items ...Value) *Array { return valuecodec.NewArray(items...) }

// NewRecord builds an empty *Record ready for Set calls.
func NewRecord() *Record { return valuecodec.NewRecord() }

// NewBigInt wraps an *big.Int as a BigInt leaf value.
func NewBigInt(n *big.Int) BigInt { return BigInt{Int: n} }

// NewTimestamp wraps a time.Time as a Timestamp leaf value.
func NewTimestamp(t time.Time) Timestamp { return Timestamp(t) }
