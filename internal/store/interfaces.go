// interfaces.go defines the storage abstraction for the archive.
//
// The interfaces are granular so consumers depend only on what they use:
// the importer needs Writer, requester resolution needs Accounts, and the
// search engine needs nothing beyond index.Index.

package store

import (
	"context"
	"database/sql"

	"github.com/jpl-au/examdex/internal/index"
)

// Writer upserts archive entities by their natural keys and returns the
// stored ID.
type Writer interface {
	// PutCategory upserts by slug.
	PutCategory(ctx context.Context, c Category) (int64, error)

	// PutUser upserts by username.
	PutUser(ctx context.Context, u User) (int64, error)

	// PutPayment records a payment; re-recording the same user and time
	// updates the refund.
	PutPayment(ctx context.Context, p Payment) (int64, error)

	// PutCategoryAdmin grants a user administration of a category.
	PutCategoryAdmin(ctx context.Context, categoryID, userID int64) error

	// PutDocument upserts by filename and replaces the document's pages in
	// the same transaction.
	PutDocument(ctx context.Context, d Document, pages []Page) (int64, error)

	// PutAnswer upserts by long ID, generating one when empty.
	PutAnswer(ctx context.Context, a Answer) (int64, error)

	// PutComment upserts by long ID, generating one when empty.
	PutComment(ctx context.Context, c Comment) (int64, error)
}

// Reader resolves natural keys to stored entities.
type Reader interface {
	CategoryBySlug(ctx context.Context, slug string) (*Category, error)
	DocumentByFilename(ctx context.Context, filename string) (*Document, error)
	AnswerByLongID(ctx context.Context, longID string) (*Answer, error)
	Stats(ctx context.Context) (*Stats, error)
}

// Accounts answers the questions needed to build a search requester.
type Accounts interface {
	// UserByName returns ErrNotFound for an unknown username.
	UserByName(ctx context.Context, username string) (*User, error)

	// Payments returns the user's payments, oldest first.
	Payments(ctx context.Context, userID int64) ([]Payment, error)

	// AdminCategories returns the IDs of the categories the user administers.
	AdminCategories(ctx context.Context, userID int64) ([]int64, error)
}

// Maintainer defines lifecycle and maintenance operations.
type Maintainer interface {
	// Close releases the database connection.
	Close() error

	// DB exposes the underlying connection for extensions needing custom tables.
	DB() *sql.DB

	// Checkpoint flushes WAL to the main database file.
	Checkpoint(ctx context.Context) error

	// Optimize merges the full-text index segments and compacts the file.
	Optimize(ctx context.Context) error
}

// Store is the complete archive: persistence plus the full-text index.
type Store interface {
	Writer
	Reader
	Accounts
	Maintainer
	index.Index
}
