package hierodb

import (
	"database/sql"

	"github.com/pathkv/hierodb/internal/herr"
	"github.com/pathkv/hierodb/internal/pathcodec"
)

// Entry is one direct child yielded during enumeration: exactly one of
// Value or Handle is set, matching GetResult's decoding of a scalar
// versus a composite marker.
type Entry struct {
	Key    any // string for a record child, uint32 for an array index
	Value  Value
	Handle *Handle
}

// EntryIter is a lazy cursor over a handle's direct children (spec
// §4.E "enumerate"), backed directly by the underlying SQL range
// cursor so that a consumer which stops early performs only the work
// it consumed (spec §9, "Lazy enumeration").
type EntryIter struct {
	handle *Handle
	rows   *sql.Rows
	cur    Entry
	err    error
	done   bool
}

// Entries opens a lazy iterator over h's direct children. The caller
// must call Close (directly, or by draining Next to false) to release
// the underlying cursor.
func (h *Handle) Entries() (*EntryIter, error) {
	prefixBytes, err := pathcodec.Encode(h.prefix)
	if err != nil {
		return nil, err
	}
	rows, err := h.table.backing.SelectRangeCursor(prefixBytes)
	if err != nil {
		return nil, err
	}
	return &EntryIter{handle: h, rows: rows}, nil
}

// Next advances the iterator, skipping any row whose decoded path is
// not a direct child (spec §4.E: "Yield only rows whose decoded path
// has length exactly |P|+1"). It reports whether Entry now holds a
// valid value.
func (it *EntryIter) Next() bool {
	if it.done {
		return false
	}
	wantLen := len(it.handle.prefix) + 1

	for it.rows.Next() {
		var pathBytes, valueBytes []byte
		if err := it.rows.Scan(&pathBytes, &valueBytes); err != nil {
			it.err = herr.Wrap(herr.KindBackend, err, "scan entry")
			it.done = true
			return false
		}
		path, err := pathcodec.Decode(pathBytes)
		if err != nil {
			it.err = err
			it.done = true
			return false
		}
		if len(path) != wantLen {
			continue
		}
		result, err := decodeCell(it.handle.table, path, valueBytes)
		if err != nil {
			it.err = err
			it.done = true
			return false
		}
		it.cur = Entry{Key: segmentKey(path[len(path)-1]), Value: result.Value, Handle: result.Handle}
		return true
	}

	it.done = true
	if err := it.rows.Err(); err != nil {
		it.err = herr.Wrap(herr.KindBackend, err, "iterate entries")
	}
	return false
}

// Entry returns the entry Next most recently produced.
func (it *EntryIter) Entry() Entry { return it.cur }

// Err returns the first error encountered during iteration, if any.
func (it *EntryIter) Err() error { return it.err }

// Close releases the iterator's underlying cursor. Safe to call after
// Next has already returned false.
func (it *EntryIter) Close() error {
	if it.rows == nil {
		return nil
	}
	return it.rows.Close()
}

func segmentKey(seg pathcodec.Segment) any {
	if seg.IsString() {
		return seg.Str()
	}
	return seg.Num()
}

// Keys returns every direct child's key, in the same order Entries
// would visit them. On an array handle, the synthetic key "length"
// precedes the numeric keys (spec §4.E: "the synthetic key 'length'
// is also reported by the key-enumeration operation").
func (h *Handle) Keys() ([]any, error) {
	it, err := h.Entries()
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var keys []any
	if h.kind == KindArray {
		keys = append(keys, "length")
	}
	for it.Next() {
		keys = append(keys, it.Entry().Key)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Values drains Entries into a slice, for callers that don't need lazy
// iteration (the CLI's get/export/schema commands need the whole
// subtree in memory regardless).
func (h *Handle) Values() ([]Entry, error) {
	it, err := h.Entries()
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []Entry
	for it.Next() {
		out = append(out, it.Entry())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
