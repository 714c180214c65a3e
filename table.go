package hierodb

import (
	"sync"

	"github.com/pathkv/hierodb/internal/sqlstore"
)

// Table is a single hierodb table: the backing SQLite table plus the
// mutex that serializes top-level writes (spec.md §4.F: "exactly one
// transaction is opened by the outermost set or delete on a given
// table handle").
type Table struct {
	mu      sync.Mutex
	backing *sqlstore.Table
}

func newTable(backing *sqlstore.Table) *Table {
	return &Table{backing: backing}
}

// root returns a fresh handle bound to the table's empty prefix.
func (t *Table) root() *Handle {
	return &Handle{table: t, kind: KindRecord}
}

func (t *Table) close() error {
	return t.backing.Close()
}
