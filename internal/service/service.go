// Package service defines the shared interface for archive operations.
// Commands, extensions and the MCP server depend on this interface rather
// than on internal/archive, so they can be tested against fakes.
package service

import (
	"context"
	"database/sql"
	"io"

	"github.com/jpl-au/examdex/internal/importer"
	"github.com/jpl-au/examdex/internal/index"
	"github.com/jpl-au/examdex/internal/search"
	"github.com/jpl-au/examdex/internal/store"
)

// Service defines all archive operations.
//
// Extensions should use archive.New() to obtain a Service implementation.
// Always call Close() when done (use defer).
//
// Example:
//
//	svc, err := archive.New(ctx, "")
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//	r, err := svc.Requester(ctx, "alice")
//	resp, err := svc.Search(ctx, search.Request{Term: "eigenvalue", Requester: r})
type Service interface {
	// Close checkpoints and releases the archive and any external index.
	Close() error

	// DB exposes the archive database for extensions needing custom tables.
	DB() *sql.DB

	// Dir returns the .examdex directory holding the archive.
	Dir() string

	// Backend names the full-text index searches run against.
	Backend() string

	// Search runs a federated search. Only an empty term or a context that
	// is already done fail the call; a failing kind contributes no results.
	Search(ctx context.Context, req search.Request) (*search.Response, error)

	// Requester resolves a username to the identity a search runs as.
	// Empty and unknown names resolve to the anonymous requester.
	Requester(ctx context.Context, username string) (search.Requester, error)

	// Import loads a YAML archive file. Progress lines go to w.
	Import(ctx context.Context, w io.Writer, path string, opts importer.Options) (importer.Result, error)

	// Stats returns archive row counts and file size.
	Stats(ctx context.Context) (*store.Stats, error)

	// Optimize merges the FTS5 segments and compacts the database file.
	Optimize(ctx context.Context) error

	// SyncIndex copies the archive into the external index. It fails with
	// archive.ErrNoExternalIndex on the sqlite backend.
	SyncIndex(ctx context.Context) (map[index.Source]int, error)
}
