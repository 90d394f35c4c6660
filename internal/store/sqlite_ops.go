// sqlite_ops.go provides SQLite connection management and low-level operations.
//
// Separated to isolate SQLite-specific concerns (pragmas, driver
// registration, transactions) from the archive and index logic.
//
// Design: WAL mode with busy timeout. The MCP server reads while an import
// may be writing; WAL lets readers proceed during the write.

package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base32"
	"fmt"
	"strings"

	// Register sqlite driver
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on SQLite, using FTS5 as the full-text index.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// Open opens the SQLite database file at path and returns a configured
// SQLiteStore. The caller should call Close on the returned store.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	pragmas := []struct{ stmt, what string }{
		// Concurrent readers during writes.
		{`PRAGMA journal_mode=WAL`, "setting WAL mode"},
		// Wait on a held lock instead of failing with "database is locked".
		{`PRAGMA busy_timeout=5000`, "setting busy timeout"},
		// Safe with WAL; only the last transaction is at risk on OS crash.
		{`PRAGMA synchronous=NORMAL`, "setting synchronous mode"},
		// Pages, answers and comments cascade with their owners.
		{`PRAGMA foreign_keys=ON`, "enabling foreign keys"},
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p.stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p.what, err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Init creates tables, indexes and triggers if they don't exist. Safe to
// call multiple times.
func (s *SQLiteStore) Init() error {
	return execSchema(s.db)
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for extensions that need custom tables.
// Extensions should not modify core tables directly.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Tx executes fn within a database transaction, handling Begin/Commit/Rollback.
// If fn returns an error the transaction is rolled back; otherwise it is
// committed. Context cancellation aborts the transaction at the next call.
//
//	err := s.Tx(ctx, func(tx *sql.Tx) error {
//	    if _, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE document_id = ?`, id); err != nil {
//	        return err  // triggers rollback
//	    }
//	    return nil  // triggers commit
//	})
func (s *SQLiteStore) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// genID creates an 8-character identifier using crypto/rand. Used for reply
// long IDs the import file does not supply.
func genID() (string, error) {
	b := make([]byte, 5) // 5 bytes = 8 base32 chars
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return strings.ToLower(base32.StdEncoding.EncodeToString(b)), nil
}
