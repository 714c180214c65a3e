package sqlstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_OpensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	db1.Close()

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer db2.Close()
}

func TestOpen_AppliesPragmas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer db.Close()

	if err := db.verifyPragma("journal_mode", "wal"); err != nil {
		t.Errorf("journal_mode: %v", err)
	}
	if err := db.verifyPragma("synchronous", "1"); err != nil {
		t.Errorf("synchronous: %v", err)
	}
}

func TestOpen_SingleConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer db.Close()

	stats := db.Raw().Stats()
	if stats.MaxOpenConnections != 1 {
		t.Errorf("MaxOpenConnections = %d, want 1", stats.MaxOpenConnections)
	}
}

func TestBeginTx_CommitAndRollback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer db.Close()

	tx, err := db.BeginTx()
	if err != nil {
		t.Fatalf("BeginTx() failed: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Errorf("Rollback() failed: %v", err)
	}

	tx2, err := db.BeginTx()
	if err != nil {
		t.Fatalf("BeginTx() failed: %v", err)
	}
	if err := tx2.Commit(); err != nil {
		t.Errorf("Commit() failed: %v", err)
	}
}
