// stats.go implements aggregate archive statistics.
//
// Only COUNT() and pragma queries; no entity text is loaded.

package store

import (
	"context"
	"fmt"
)

// Stats returns row counts for every archive table and the database size.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	var st Stats

	counts := []struct {
		table string
		dst   *int64
	}{
		{"categories", &st.Categories},
		{"users", &st.Users},
		{"payments", &st.Payments},
		{"documents", &st.Documents},
		{"pages", &st.Pages},
		{"answers", &st.Answers},
		{"comments", &st.Comments},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+c.table).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("count %s: %w", c.table, err)
		}
	}

	var pages, pageSize int64
	if err := s.db.QueryRowContext(ctx, `PRAGMA page_count`).Scan(&pages); err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `PRAGMA page_size`).Scan(&pageSize); err != nil {
		return nil, fmt.Errorf("page size: %w", err)
	}
	st.SizeBytes = pages * pageSize

	return &st, nil
}
