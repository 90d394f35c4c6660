// Package manticore implements index.Index on Manticore Search, spoken to
// over its MySQL protocol (port 9306 by default).
//
// Each index.Source is one real-time table. Every row carries its owning
// document's attributes, so the visibility filter runs inside Manticore
// instead of after the fetch. The archive itself stays in SQLite; Sync
// copies it across.
package manticore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jpl-au/examdex/internal/index"
)

// ErrNoDSN is returned by Open when no DSN is configured.
var ErrNoDSN = errors.New("manticore DSN not configured")

// DefaultDSN reaches a local Manticore on its MySQL port.
const DefaultDSN = "tcp(127.0.0.1:9306)/"

// maxMatches bounds every query. Manticore returns 20 rows unless told
// otherwise.
const maxMatches = 1000

// tables maps each source to its real-time table.
var tables = map[index.Source]string{
	index.SourceDocument: "examdex_documents",
	index.SourcePage:     "examdex_pages",
	index.SourceAnswer:   "examdex_answers",
	index.SourceComment:  "examdex_comments",
}

func table(src index.Source) (string, error) {
	t, ok := tables[src]
	if !ok {
		return "", fmt.Errorf("%w: %s", index.ErrUnknownSource, src)
	}
	return t, nil
}

// Index is a Manticore-backed index.Index.
type Index struct {
	db *sql.DB
}

var _ index.Index = (*Index)(nil)

// Open connects to Manticore at dsn (go-sql-driver/mysql syntax) and checks
// the connection. Manticore has no server-side prepared statements, so
// parameters are always interpolated client side.
func Open(ctx context.Context, dsn string) (*Index, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse manticore dsn: %w", err)
	}
	cfg.InterpolateParams = true

	conn, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("manticore connector: %w", err)
	}
	db := sql.OpenDB(conn)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to manticore %s: %w", cfg.Addr, err)
	}
	return &Index{db: db}, nil
}

// Close releases the connection pool.
func (x *Index) Close() error {
	return x.db.Close()
}

// CreateTables creates the real-time tables if they don't exist. All four
// share one layout; fields a source doesn't use stay empty.
func (x *Index) CreateTables(ctx context.Context) error {
	for _, src := range index.Sources() {
		if _, err := x.db.ExecContext(ctx, createTableSQL(tables[src])); err != nil {
			return fmt.Errorf("create %s: %w", tables[src], err)
		}
	}
	return nil
}

func createTableSQL(name string) string {
	return `CREATE TABLE IF NOT EXISTS ` + name + ` (
		body text,
		page int,
		long_id string,
		author_username string,
		author_name string,
		document_id bigint,
		filename string,
		displayname string,
		category_id bigint,
		category_slug string,
		category_name string,
		public bool,
		needs_payment bool
	) morphology='stem_en'`
}
