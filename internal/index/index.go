// Package index defines the contract between the search core and a
// full-text index. The index is a black box: it tokenises, ranks and marks
// matches. Implementations live in internal/store (SQLite FTS5) and
// internal/manticore (Manticore over the MySQL protocol).
//
// The contract has two calls, mirroring how a headline-capable engine is
// normally driven: Query returns ranked candidates for one source column,
// Excerpt returns the marked-up excerpt for one candidate.
package index

import (
	"context"
	"errors"
)

var (
	// ErrUnknownSource is returned when a driver does not index the requested source.
	ErrUnknownSource = errors.New("unknown index source")
	// ErrNotFound is returned by Excerpt when the entity is not in the index.
	ErrNotFound = errors.New("entity not indexed")
	// ErrMarkerCollision is returned by Excerpt when the source text already
	// contains one of the requested markers. The excerpt would be ambiguous.
	ErrMarkerCollision = errors.New("marker occurs in source text")
)

// Source identifies an indexed column.
type Source string

const (
	SourceDocument Source = "document" // document display name
	SourcePage     Source = "page"     // text of one document page
	SourceAnswer   Source = "answer"   // answer body
	SourceComment  Source = "comment"  // comment body
)

// Sources lists every source a complete driver must serve.
func Sources() []Source {
	return []Source{SourceDocument, SourcePage, SourceAnswer, SourceComment}
}

// Visibility is the access rule pushed down into the index so invisible
// entities are never fetched. For pages, answers and comments the rule
// applies to the owning document.
type Visibility struct {
	Unrestricted    bool    // global admin: no filter
	HasPayment      bool    // payment-gated documents are allowed
	AdminCategories []int64 // categories whose documents are always visible
}

// Query selects candidates from one source.
type Query struct {
	Source     Source
	Term       string
	Visibility Visibility

	// Within restricts results to entities owned by these documents.
	// Nil means no restriction; an empty non-nil slice matches nothing.
	Within []int64

	// GroupByDocument collapses results to one candidate per owning
	// document, keeping the best rank. Only meaningful for SourcePage.
	GroupByDocument bool

	// Limit caps the number of candidates; 0 means no cap.
	Limit int
}

// Document holds the owning document's attributes as stored in the index.
type Document struct {
	ID           int64
	Filename     string
	DisplayName  string
	CategoryID   int64
	CategorySlug string
	CategoryName string
	Public       bool
	NeedsPayment bool
}

// Author identifies who wrote a reply.
type Author struct {
	Username    string
	DisplayName string
}

// Candidate is one ranked match. Rank is index-defined: larger is more
// relevant, and ranks from different sources are not normalised.
type Candidate struct {
	ID       int64
	Rank     float64
	Document Document

	Page   int    // SourcePage only
	LongID string // SourceAnswer and SourceComment only
	Text   string // SourceAnswer and SourceComment only
	Author Author // SourceAnswer and SourceComment only
}

// ExcerptOptions configures headline generation.
type ExcerptOptions struct {
	Start             string // inserted before each match
	End               string // inserted after each match
	FragmentDelimiter string // inserted between fragments
	MinWords          int
	MaxWords          int
	MaxFragments      int
}

// Index is the full-text index consumed by the search core.
type Index interface {
	// Query returns candidates ordered by rank, best first.
	Query(ctx context.Context, q Query) ([]Candidate, error)

	// Excerpt returns the marked-up excerpt of the entity's indexed text.
	Excerpt(ctx context.Context, src Source, id int64, term string, opts ExcerptOptions) (string, error)
}
