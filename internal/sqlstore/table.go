package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pathkv/hierodb/internal/herr"
	"github.com/pathkv/hierodb/internal/rangekey"
)

// Row is a single path/value pair as stored on disk.
type Row struct {
	Path  []byte
	Value []byte
}

// Table is a single hierodb table: one SQLite WITHOUT ROWID table
// keyed on the binary-encoded path, plus the five prepared statements
// every Handle operation compiles down to (spec §4.D).
type Table struct {
	db   *DB
	name string

	selectOne       *sql.Stmt
	selectRange     *sql.Stmt
	insert          *sql.Stmt
	deleteRange     *sql.Stmt
	maxNumericChild *sql.Stmt
}

// validateName rejects table names that could break out of the quoted
// identifier used to build DDL/DML below.
func validateName(name string) error {
	if name == "" {
		return herr.New(herr.KindBackend, "table name must not be empty")
	}
	if strings.Contains(name, `"`) {
		return herr.New(herr.KindBackend, "table name %q must not contain a double quote", name)
	}
	return nil
}

// OpenTable creates the backing table if it doesn't exist and prepares
// its statement set. The table is WITHOUT ROWID because the path
// column is already a unique, well-distributed binary key; SQLite
// would otherwise maintain a pointless separate rowid index (spec
// §4.D, "primary key IS the path").
func OpenTable(db *DB, name string) (*Table, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s" (
			path  BLOB NOT NULL,
			value BLOB NOT NULL,
			PRIMARY KEY (path)
		) WITHOUT ROWID
	`, name)
	if _, err := db.Raw().Exec(ddl); err != nil {
		return nil, herr.Wrap(herr.KindBackend, err, "create table %q", name)
	}

	t := &Table{db: db, name: name}

	var err error
	t.selectOne, err = db.Raw().Prepare(fmt.Sprintf(
		`SELECT value FROM "%s" WHERE path = ?`, name))
	if err != nil {
		return nil, herr.Wrap(herr.KindBackend, err, "prepare selectOne for %q", name)
	}

	t.selectRange, err = db.Raw().Prepare(fmt.Sprintf(
		`SELECT path, value FROM "%s" WHERE path >= ? AND path < ? ORDER BY path ASC`, name))
	if err != nil {
		return nil, herr.Wrap(herr.KindBackend, err, "prepare selectRange for %q", name)
	}

	t.insert, err = db.Raw().Prepare(fmt.Sprintf(
		`INSERT OR REPLACE INTO "%s" (path, value) VALUES (?, ?)`, name))
	if err != nil {
		return nil, herr.Wrap(herr.KindBackend, err, "prepare insert for %q", name)
	}

	t.deleteRange, err = db.Raw().Prepare(fmt.Sprintf(
		`DELETE FROM "%s" WHERE path >= ? AND path < ?`, name))
	if err != nil {
		return nil, herr.Wrap(herr.KindBackend, err, "prepare deleteRange for %q", name)
	}

	t.maxNumericChild, err = db.Raw().Prepare(fmt.Sprintf(
		`SELECT path FROM "%s" WHERE LENGTH(path) = LENGTH(?) AND path >= ? AND path < ? ORDER BY path DESC LIMIT 1`, name))
	if err != nil {
		return nil, herr.Wrap(herr.KindBackend, err, "prepare maxNumericChild for %q", name)
	}

	return t, nil
}

// Name returns the table's identifier.
func (t *Table) Name() string { return t.name }

// DB returns the database this table belongs to, so callers can open
// the transaction a top-level write runs inside.
func (t *Table) DB() *DB { return t.db }

// SelectOne returns the value stored at path, or (nil, false) if no
// row exists there.
func (t *Table) SelectOne(path []byte) ([]byte, bool, error) {
	var value []byte
	err := t.selectOne.QueryRow(path).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, herr.Wrap(herr.KindBackend, err, "select %q at path", t.name)
	}
	return value, true, nil
}

// scanBounds returns the [lower, upper) bounds holding every row whose
// path starts with prefix. The empty (root) prefix is special-cased:
// rangekey.Range gives it a nil lower bound, which the driver binds as
// NULL, and an upper bound of 0x01, which excludes every path whose
// first segment is a string. Every encoded path starts with tag byte
// 0x00 or 0x01, so [0x00, 0x02) covers the whole table.
func scanBounds(prefix []byte) (lower, upper []byte) {
	if len(prefix) == 0 {
		return []byte{0x00}, []byte{0x02}
	}
	return rangekey.Range(prefix)
}

// SelectRange returns every row whose path starts with prefix, in
// ascending path order (the iteration order spec §4.E relies on for
// direct-children enumeration).
func (t *Table) SelectRange(prefix []byte) ([]Row, error) {
	lower, upper := scanBounds(prefix)
	rows, err := t.selectRange.Query(lower, upper)
	if err != nil {
		return nil, herr.Wrap(herr.KindBackend, err, "select range %q", t.name)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Path, &r.Value); err != nil {
			return nil, herr.Wrap(herr.KindBackend, err, "scan row %q", t.name)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, herr.Wrap(herr.KindBackend, err, "iterate range %q", t.name)
	}
	return out, nil
}

// SelectRangeCursor opens a streaming cursor over every row whose path
// starts with prefix, in ascending path order. The caller owns the
// returned *sql.Rows and must Close it, including on early exit — this
// is the primitive a lazy Entries/Keys/Values sequence is built on.
func (t *Table) SelectRangeCursor(prefix []byte) (*sql.Rows, error) {
	lower, upper := scanBounds(prefix)
	rows, err := t.selectRange.Query(lower, upper)
	if err != nil {
		return nil, herr.Wrap(herr.KindBackend, err, "select range cursor %q", t.name)
	}
	return rows, nil
}

// InsertTx writes (path, value), replacing any existing row at path.
// It must run inside the caller's write transaction.
func (t *Table) InsertTx(tx *sql.Tx, path, value []byte) error {
	if _, err := tx.Stmt(t.insert).Exec(path, value); err != nil {
		return herr.Wrap(herr.KindBackend, err, "insert into %q", t.name)
	}
	return nil
}

// DeleteRangeTx removes every row whose path starts with prefix,
// reporting how many rows were removed. It must run inside the
// caller's write transaction.
func (t *Table) DeleteRangeTx(tx *sql.Tx, prefix []byte) (int64, error) {
	lower, upper := scanBounds(prefix)
	return t.deleteBetweenTx(tx, lower, upper)
}

// DeleteBetweenTx removes every row with path in the explicit
// half-open range [lower, upper), reporting how many rows were
// removed. Used for array length truncation, whose bounds are not a
// single prefix's implied range (spec §4.E, "array-length
// assignment"). It must run inside the caller's write transaction.
func (t *Table) DeleteBetweenTx(tx *sql.Tx, lower, upper []byte) (int64, error) {
	return t.deleteBetweenTx(tx, lower, upper)
}

func (t *Table) deleteBetweenTx(tx *sql.Tx, lower, upper []byte) (int64, error) {
	res, err := tx.Stmt(t.deleteRange).Exec(lower, upper)
	if err != nil {
		return 0, herr.Wrap(herr.KindBackend, err, "delete range %q", t.name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, herr.Wrap(herr.KindBackend, err, "rows affected %q", t.name)
	}
	return n, nil
}

// MaxNumericChild returns the path of the highest-ordered row directly
// under the composite whose encoded path is prefix, restricted to
// children whose encoded byte length equals childLen (every Number
// segment encodes to the same fixed width, so this selects numeric
// children without decoding each candidate row). Returns (nil, false)
// if there is none. Used to compute an array's current length from its
// stored children (spec §4.E, "array length invariant").
func (t *Table) MaxNumericChild(prefix []byte, childLen int) ([]byte, bool, error) {
	// Bound the scan to prefix followed by the number-segment tag 0x00,
	// so a string child whose encoding has the same width (a one code
	// unit key) is never selected.
	lower, upper := rangekey.Range(append(append([]byte{}, prefix...), 0x00))
	probe := make([]byte, len(prefix)+childLen)
	copy(probe, prefix)

	var path []byte
	err := t.maxNumericChild.QueryRow(probe, lower, upper).Scan(&path)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, herr.Wrap(herr.KindBackend, err, "max numeric child %q", t.name)
	}
	return path, true, nil
}

// Close releases the table's prepared statements.
func (t *Table) Close() error {
	stmts := []*sql.Stmt{t.selectOne, t.selectRange, t.insert, t.deleteRange, t.maxNumericChild}
	var firstErr error
	for _, s := range stmts {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
