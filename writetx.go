package hierodb

import (
	"database/sql"

	"github.com/pathkv/hierodb/internal/herr"
)

// writeState is the transaction coordinator (spec.md §4.F): a single
// *sql.Tx shared by an outermost Set/Delete call and every recursive
// composite write it makes, plus the cycle guard keyed by the source
// value's pointer identity.
//
// It is threaded through setLocked/setLengthLocked/writeValue as an explicit
// parameter rather than stashed on the Table, matching spec.md §9's
// redesign note to model write context as "an explicit WriteContext
// ... threaded through, rather than as stateful re-entry".
type writeState struct {
	tx    *sql.Tx
	cycle map[any]struct{}
}

// beginWrite acquires t's write lock, opens the transaction for a
// top-level call, and seeds an empty cycle guard. The caller must
// always follow with a matching endWrite, even on error.
func beginWrite(t *Table) (*writeState, error) {
	t.mu.Lock()
	tx, err := t.backing.DB().BeginTx()
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	return &writeState{tx: tx, cycle: make(map[any]struct{})}, nil
}

// endWrite commits ws's transaction if writeErr is nil, otherwise
// rolls it back, then releases t's write lock. It always returns the
// error the caller should propagate.
func endWrite(t *Table, ws *writeState, writeErr error) error {
	defer t.mu.Unlock()
	if writeErr != nil {
		if rbErr := ws.tx.Rollback(); rbErr != nil {
			return herr.Wrap(herr.KindBackend, rbErr, "rollback after: %v", writeErr)
		}
		return writeErr
	}
	if err := ws.tx.Commit(); err != nil {
		return herr.Wrap(herr.KindBackend, err, "commit write")
	}
	return nil
}

// enterCycleGuard registers id (the pointer identity of a composite
// source value) as written by the current top-level write, failing if
// it was already registered earlier in that write (spec.md §4.F, §4.E
// "Cycle guard"). Entries are never removed during the write, so a
// composite reached twice through sibling positions also fails.
func enterCycleGuard(ws *writeState, id any) error {
	if _, seen := ws.cycle[id]; seen {
		return herr.New(herr.KindCycle, "source object graph contains a cycle")
	}
	ws.cycle[id] = struct{}{}
	return nil
}
