// Package sqlstore is the SQLite façade (spec §4.D, component D): it
// owns the *sql.DB, the WAL/synchronous/busy_timeout pragmas, and the
// per-table prepared statements that every Handle operation compiles
// down to.
package sqlstore

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pathkv/hierodb/internal/herr"
)

// DB wraps a *sql.DB opened against a single SQLite file with the
// pragmas hierodb requires already applied.
type DB struct {
	conn *sql.DB
}

// Open creates or opens a SQLite database at path and applies the
// pragmas a hierodb store needs: WAL journaling so readers never block
// behind the writer, NORMAL synchronous durability, and a busy_timeout
// so a contended writer retries instead of surfacing SQLITE_BUSY.
//
// SQLite allows exactly one writer; the connection pool is capped at
// one connection so database/sql never hands two goroutines separate
// connections that then fight over the same file lock.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, herr.Wrap(herr.KindBackend, err, "open database at %q", path)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, herr.Wrap(herr.KindBackend, err, "connect to database at %q", path)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := applyPragmas(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{conn: conn}, nil
}

func applyPragmas(conn *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			return herr.Wrap(herr.KindBackend, err, "execute %q", pragma)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}

// Raw returns the underlying *sql.DB for use by table setup and by
// callers that need a transaction spanning more than one table.
func (d *DB) Raw() *sql.DB {
	return d.conn
}

// BeginTx starts a new write transaction.
func (d *DB) BeginTx() (*sql.Tx, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return nil, herr.Wrap(herr.KindBackend, err, "begin transaction")
	}
	return tx, nil
}

// verifyPragma reports whether a pragma currently holds the expected
// value; used by tests to confirm Open configured the connection as
// documented.
func (d *DB) verifyPragma(name, expected string) error {
	var got string
	if err := d.conn.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&got); err != nil {
		return herr.Wrap(herr.KindBackend, err, "query pragma %s", name)
	}
	if got != expected {
		return herr.New(herr.KindBackend, "pragma %s = %q, want %q", name, got, expected)
	}
	return nil
}
