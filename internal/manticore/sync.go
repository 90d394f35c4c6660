package manticore

import (
	"context"
	"fmt"

	"github.com/jpl-au/examdex/internal/index"
)

// Source enumerates archive entities with the text each source indexes.
// *store.SQLiteStore implements it.
type Source interface {
	Entries(ctx context.Context, src index.Source, fn func(c index.Candidate, body string) error) error
}

const replaceSQL = ` (id, body, page, long_id, author_username, author_name, document_id, filename,
	displayname, category_id, category_slug, category_name, public, needs_payment)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Sync creates the tables if needed and upserts every archive entity into
// them. It returns the number of rows written per source. Rows for entities
// since removed from the archive are left in place.
func (x *Index) Sync(ctx context.Context, from Source) (map[index.Source]int, error) {
	if err := x.CreateTables(ctx); err != nil {
		return nil, err
	}
	counts := make(map[index.Source]int)
	for _, src := range index.Sources() {
		t := tables[src]
		err := from.Entries(ctx, src, func(c index.Candidate, body string) error {
			_, err := x.db.ExecContext(ctx, `REPLACE INTO `+t+replaceSQL,
				c.ID, body, c.Page, c.LongID, c.Author.Username, c.Author.DisplayName,
				c.Document.ID, c.Document.Filename, c.Document.DisplayName, c.Document.CategoryID,
				c.Document.CategorySlug, c.Document.CategoryName, c.Document.Public, c.Document.NeedsPayment)
			if err != nil {
				return fmt.Errorf("replace %s %d: %w", t, c.ID, err)
			}
			counts[src]++
			return nil
		})
		if err != nil {
			return counts, fmt.Errorf("sync %s: %w", src, err)
		}
	}
	return counts, nil
}
