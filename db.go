// Package hierodb implements persistent hierarchical objects over a
// single SQLite file: a caller opens a database, names a table, and
// gets back a *Handle behaving like a nested, durable dictionary or
// array. See doc.go for the package overview.
package hierodb

import (
	"sync"

	"github.com/pathkv/hierodb/internal/herr"
	"github.com/pathkv/hierodb/internal/sqlstore"
)

// Options configures Open. Path is the only required field; Logf is
// optional. The journaling, synchronous and busy_timeout settings are
// fixed by internal/sqlstore and are not configurable here.
type Options struct {
	// Path is the filesystem path to the database file. A relative
	// path is resolved against the process working directory.
	Path string

	// Logf, when non-nil, receives operator-diagnostic lines (one line
	// the first time each table is opened by this DB). It is never used
	// on the read/write hot path. Defaults to a no-op.
	Logf func(format string, args ...any)
}

// DB is an open hierodb database: a single SQLite file plus the set of
// tables opened against it so far.
type DB struct {
	mu     sync.Mutex
	store  *sqlstore.DB
	logf   func(format string, args ...any)
	tables map[string]*Table
	closed bool
}

// Open opens or creates the database file at opts.Path and applies the
// pragmas required by spec.md §6.2 (WAL journaling, normal
// synchronous mode).
func Open(opts Options) (*DB, error) {
	if opts.Path == "" {
		return nil, herr.New(herr.KindBackend, "Options.Path must not be empty")
	}
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	store, err := sqlstore.Open(opts.Path)
	if err != nil {
		return nil, err
	}

	return &DB{
		store:  store,
		logf:   logf,
		tables: make(map[string]*Table),
	}, nil
}

// Close releases the database's file handle. Every Table and Handle
// derived from db becomes unusable: DB.Table and DB.Tables then fail
// with a Closed error, and operations on handles obtained earlier fail
// with a Backend error from the closed connection.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil
	}
	db.closed = true
	for _, t := range db.tables {
		t.close()
	}
	return db.store.Close()
}

// Table returns the named table's root handle, creating the backing
// SQLite table on first request (spec.md §3 Lifecycle: "A table is
// created on first request and persists until the database file is
// removed").
func (db *DB) Table(name string) (*Handle, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil, herr.New(herr.KindClosed, "database is closed")
	}

	t, ok := db.tables[name]
	if !ok {
		backing, err := sqlstore.OpenTable(db.store, name)
		if err != nil {
			return nil, err
		}
		db.logf("hierodb: opened table %q", name)
		t = newTable(backing)
		db.tables[name] = t
	}
	return t.root(), nil
}

// Tables lists the names of every user table present in the database
// file, including ones not yet opened via Table in this process
// (spec_full.md §5.4, "table listing").
func (db *DB) Tables() ([]string, error) {
	db.mu.Lock()
	closed := db.closed
	raw := db.store
	db.mu.Unlock()
	if closed {
		return nil, herr.New(herr.KindClosed, "database is closed")
	}

	rows, err := raw.Raw().Query(`SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	if err != nil {
		return nil, herr.Wrap(herr.KindBackend, err, "list tables")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, herr.Wrap(herr.KindBackend, err, "scan table name")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, herr.Wrap(herr.KindBackend, err, "iterate tables")
	}
	return names, nil
}
