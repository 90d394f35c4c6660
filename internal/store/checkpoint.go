// checkpoint.go implements WAL checkpointing and index maintenance.
//
// Checkpoints run whenever the archive service is closed, which covers the
// end of every CLI command and MCP server shutdown. TRUNCATE mode fully
// flushes the WAL and removes the -wal/-shm files.

package store

import (
	"context"
	"fmt"
)

// ftsTables lists the full-text indexes, in schema order.
var ftsTables = []string{"documents_fts", "pages_fts", "answers_fts", "comments_fts"}

// Checkpoint writes all WAL data back to the main database file and truncates
// the WAL.
func (s *SQLiteStore) Checkpoint(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return fmt.Errorf("WAL checkpoint: %w", err)
	}
	return nil
}

// Optimize merges each FTS5 index into a single b-tree and then vacuums the
// database file. Large imports leave many small index segments behind;
// merging them speeds up MATCH queries.
func (s *SQLiteStore) Optimize(ctx context.Context) error {
	for _, t := range ftsTables {
		if _, err := s.db.ExecContext(ctx, `INSERT INTO `+t+`(`+t+`) VALUES ('optimize')`); err != nil {
			return fmt.Errorf("optimize %s: %w", t, err)
		}
	}
	if _, err := s.db.ExecContext(ctx, `VACUUM`); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return s.Checkpoint(ctx)
}
