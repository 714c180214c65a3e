package hierodb

import (
	"strconv"

	"github.com/pathkv/hierodb/internal/herr"
	"github.com/pathkv/hierodb/internal/pathcodec"
	"github.com/pathkv/hierodb/internal/valuecodec"
)

// Kind distinguishes a record handle from an array handle (spec §4.D:
// "a flag distinguishing record-handles from array-handles").
type Kind int

const (
	// KindRecord is a handle whose children are keyed by string.
	KindRecord Kind = iota
	// KindArray is a handle whose children are dense integer indices.
	KindArray
)

func (k Kind) String() string {
	if k == KindArray {
		return "array"
	}
	return "record"
}

// numberSegmentLen is the fixed encoded byte length of any Number path
// segment: one tag byte plus a 4-byte big-endian value.
const numberSegmentLen = 5

// Handle is a lightweight, immutable binding of a table, a path
// prefix, and a kind (spec's GLOSSARY: "an opaque, lightweight value
// binding a backing database handle, a set of prepared statements, a
// prefix path, and a kind"). Handles are cheap to create; no backing
// row is touched until an operation runs.
type Handle struct {
	table  *Table
	prefix pathcodec.Path
	kind   Kind
}

// Kind reports whether h is a record or array handle.
func (h *Handle) Kind() Kind { return h.kind }

// GetResult is the outcome of a Get call: exactly one of Absent,
// Value, or Handle describes the row found at the requested key.
type GetResult struct {
	Absent bool
	Value  Value
	Handle *Handle
}

// normalizeKey converts an external key into a path segment (spec
// §4.E "Key normalization"): an integer key in [0, 2^32-1), or a string
// key that is the canonical decimal form of such an index, becomes a
// Number segment; any other string becomes a String segment. An integer
// key outside that range, or a key of any other type, is an error.
func normalizeKey(key any) (pathcodec.Segment, error) {
	switch k := key.(type) {
	case int:
		return normalizeIndex(k)
	case int32:
		return normalizeIndex(int(k))
	case int64:
		return normalizeIndex(int(k))
	case uint32:
		if k >= (1<<32)-1 {
			return pathcodec.Segment{}, herr.New(herr.KindInvalidArrayLength, "key %d is out of range [0, 2^32-1)", k)
		}
		return pathcodec.Number(k), nil
	case string:
		if n, ok := parseArrayIndex(k); ok {
			return pathcodec.Number(n), nil
		}
		return pathcodec.String(k), nil
	default:
		return pathcodec.Segment{}, herr.New(herr.KindUnsupportedType, "key of type %T is not a supported key", key)
	}
}

func normalizeIndex(n int) (pathcodec.Segment, error) {
	if n < 0 || n >= (1<<32)-1 {
		return pathcodec.Segment{}, herr.New(herr.KindInvalidArrayLength, "key %d is out of range [0, 2^32-1)", n)
	}
	return pathcodec.Number(uint32(n)), nil
}

// parseArrayIndex reports whether s is the canonical decimal rendering
// of a safe array index: no sign, no leading zeros other than "0"
// itself, and strictly less than 2^32-1.
func parseArrayIndex(s string) (uint32, bool) {
	if s == "" {
		return 0, false
	}
	if s == "0" {
		return 0, true
	}
	if s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	if n >= (1<<32)-1 {
		return 0, false
	}
	if strconv.FormatUint(n, 10) != s {
		return 0, false
	}
	return uint32(n), true
}

// arrayLengthValue reports whether v is a Value acceptable as a length
// assignment: a Number holding a safe integer in [0, 2^32-1).
func arrayLengthValue(v Value) (uint32, bool) {
	n, ok := v.(Number)
	if !ok {
		return 0, false
	}
	f := float64(n)
	if f != float64(int64(f)) || f < 0 || f >= (1<<32)-1 {
		return 0, false
	}
	return uint32(f), true
}

// decodeCell interprets a stored row's value bytes: a composite marker
// yields a child *Handle at path, anything else is a scalar Value.
func decodeCell(table *Table, path pathcodec.Path, raw []byte) (GetResult, error) {
	if len(raw) == 1 && raw[0] == valuecodec.TagArrayMarker {
		return GetResult{Handle: &Handle{table: table, prefix: path, kind: KindArray}}, nil
	}
	if len(raw) == 1 && raw[0] == valuecodec.TagRecordMarker {
		return GetResult{Handle: &Handle{table: table, prefix: path, kind: KindRecord}}, nil
	}
	v, err := valuecodec.DecodeScalar(raw)
	if err != nil {
		return GetResult{}, err
	}
	return GetResult{Value: v}, nil
}

// Get returns the value or child handle stored at key, or an absent
// result if no row exists there (spec §4.E "get").
func (h *Handle) Get(key any) (GetResult, error) {
	seg, err := normalizeKey(key)
	if err != nil {
		return GetResult{}, err
	}
	childPath := h.prefix.Append(seg)
	qBytes, err := pathcodec.Encode(childPath)
	if err != nil {
		return GetResult{}, err
	}

	raw, ok, err := h.table.backing.SelectOne(qBytes)
	if err != nil {
		return GetResult{}, err
	}
	if !ok {
		return GetResult{Absent: true}, nil
	}
	return decodeCell(h.table, childPath, raw)
}

// Has reports whether a row exists at key (spec §4.E "has").
func (h *Handle) Has(key any) (bool, error) {
	res, err := h.Get(key)
	if err != nil {
		return false, err
	}
	return !res.Absent, nil
}

// Length returns the current length of an array handle: one more than
// its greatest populated index, or 0 if it has no children (spec §4.E
// "length"). It is an error to call Length on a record handle.
func (h *Handle) Length() (uint32, error) {
	if h.kind != KindArray {
		return 0, herr.New(herr.KindInvalidDescriptor, "Length is only valid on an array handle")
	}
	prefixBytes, err := pathcodec.Encode(h.prefix)
	if err != nil {
		return 0, err
	}
	path, ok, err := h.table.backing.MaxNumericChild(prefixBytes, numberSegmentLen)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	decoded, err := pathcodec.Decode(path)
	if err != nil {
		return 0, err
	}
	last := decoded[len(decoded)-1]
	return last.Num() + 1, nil
}

// Set writes value at key, replacing whatever was previously stored
// there (spec §4.E "set"). This is always a top-level write: it opens
// its own transaction and cycle guard.
func (h *Handle) Set(key any, value Value) error {
	ws, err := beginWrite(h.table)
	if err != nil {
		return err
	}
	err = h.setLocked(ws, key, value, true)
	return endWrite(h.table, ws, err)
}

// setLocked implements one step of the recursive write algorithm
// (spec §4.E "set"). outermost is true only for the call that opened
// ws; recursive composite-child writes pass false so they never
// re-run deleteRange, since the outermost call's deleteRange already
// cleared the entire subtree.
func (h *Handle) setLocked(ws *writeState, key any, value Value, outermost bool) error {
	if h.kind == KindArray {
		if s, ok := key.(string); ok && s == "length" {
			return h.setLengthLocked(ws, value)
		}
	}

	seg, err := normalizeKey(key)
	if err != nil {
		return err
	}
	childPath := h.prefix.Append(seg)
	qBytes, err := pathcodec.Encode(childPath)
	if err != nil {
		return err
	}

	if outermost {
		if _, err := h.table.backing.DeleteRangeTx(ws.tx, qBytes); err != nil {
			return err
		}
	}

	return writeValue(h.table, ws, childPath, qBytes, value)
}

// setLengthLocked implements array-length assignment (spec §4.E
// "Array-length assignment"): a truncation-only operation that
// deletes children at indices [n, 2^32-1) without writing a row of its
// own, since length is derived from the stored children rather than
// stored directly.
func (h *Handle) setLengthLocked(ws *writeState, value Value) error {
	n, ok := arrayLengthValue(value)
	if !ok {
		return herr.New(herr.KindInvalidArrayLength, "length must be a safe integer in [0, 2^32-1)")
	}

	lowerBytes, err := pathcodec.Encode(h.prefix.Append(pathcodec.Number(n)))
	if err != nil {
		return err
	}
	upperBytes, err := pathcodec.Encode(h.prefix.Append(pathcodec.Number((1 << 32) - 1)))
	if err != nil {
		return err
	}
	_, err = h.table.backing.DeleteBetweenTx(ws.tx, lowerBytes, upperBytes)
	return err
}

// writeValue inserts value at path (a scalar row, or a composite
// marker followed by a recursive write of each child) and registers
// any composite in the write's cycle guard before recursing into it
// (spec §4.E "Composite", §4.F "Cycle guard").
func writeValue(table *Table, ws *writeState, path pathcodec.Path, pathBytes []byte, value Value) error {
	switch v := value.(type) {
	case nil:
		return herr.New(herr.KindUnsupportedType, "value must not be nil; use hierodb.Null{} for a null leaf")
	case *valuecodec.Array:
		if err := enterCycleGuard(ws, v); err != nil {
			return err
		}
		if err := table.backing.InsertTx(ws.tx, pathBytes, []byte{valuecodec.TagArrayMarker}); err != nil {
			return err
		}
		child := &Handle{table: table, prefix: path, kind: KindArray}
		for i, item := range v.Items {
			if err := child.setLocked(ws, i, item, false); err != nil {
				return err
			}
		}
		return nil
	case *valuecodec.Record:
		if err := enterCycleGuard(ws, v); err != nil {
			return err
		}
		if err := table.backing.InsertTx(ws.tx, pathBytes, []byte{valuecodec.TagRecordMarker}); err != nil {
			return err
		}
		child := &Handle{table: table, prefix: path, kind: KindRecord}
		for i := 0; i < v.Len(); i++ {
			k, val := v.At(i)
			if err := child.setLocked(ws, k, val, false); err != nil {
				return err
			}
		}
		return nil
	default:
		encoded, err := valuecodec.EncodeScalar(value)
		if err != nil {
			return err
		}
		return table.backing.InsertTx(ws.tx, pathBytes, encoded)
	}
}

// Delete removes the row (and, for a composite, its entire subtree)
// at key, reporting whether anything was removed (spec §4.E
// "delete"). It is an error to delete the synthetic "length" key on
// an array handle.
func (h *Handle) Delete(key any) (bool, error) {
	if h.kind == KindArray {
		if s, ok := key.(string); ok && s == "length" {
			return false, herr.New(herr.KindInvalidDescriptor, "length is not deletable")
		}
	}

	seg, err := normalizeKey(key)
	if err != nil {
		return false, err
	}
	childPath := h.prefix.Append(seg)
	qBytes, err := pathcodec.Encode(childPath)
	if err != nil {
		return false, err
	}

	ws, err := beginWrite(h.table)
	if err != nil {
		return false, err
	}
	n, err := h.table.backing.DeleteRangeTx(ws.tx, qBytes)
	if err := endWrite(h.table, ws, err); err != nil {
		return false, err
	}
	return n > 0, nil
}
