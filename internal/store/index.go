// index.go implements index.Index on the FTS5 tables.
//
// FTS5 has different query semantics from the rest of the store: MATCH
// takes its own query language, so free text is reduced to quoted tokens
// before it gets there. Visibility, Within and Limit are pushed into SQL.
// GroupByDocument is applied after the query because bm25() cannot be used
// inside an aggregate.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/jpl-au/examdex/internal/index"
)

// docColumns are the owning-document columns every candidate query selects.
const docColumns = `d.id, d.filename, d.displayname, d.category_id, c.slug, c.displayname, d.public, d.needs_payment`

// ftsSource describes how one index.Source maps onto the schema.
type ftsSource struct {
	table   string // FTS5 table
	id      string // qualified entity id column
	query   string // SELECT ... FROM ... JOIN ... without WHERE
	source  string // SELECT returning the indexed text for an id
	entries string // every entity with its indexed text, for export
}

var sources = map[index.Source]ftsSource{
	index.SourceDocument: {
		table: "documents_fts",
		id:    "d.id",
		query: `SELECT d.id, -bm25(documents_fts) AS score, 0, '', '', '', '', '', ` + docColumns + `
			FROM documents_fts
			JOIN documents d ON d.id = documents_fts.rowid
			JOIN categories c ON c.id = d.category_id`,
		source: `SELECT displayname FROM documents WHERE id = ?`,
		entries: `SELECT d.id, 0, 0, '', '', '', '', '', ` + docColumns + `, d.displayname
			FROM documents d
			JOIN categories c ON c.id = d.category_id
			ORDER BY d.id`,
	},
	index.SourcePage: {
		table: "pages_fts",
		id:    "p.id",
		query: `SELECT p.id, -bm25(pages_fts) AS score, p.page_number, '', '', '', '', '', ` + docColumns + `
			FROM pages_fts
			JOIN pages p ON p.id = pages_fts.rowid
			JOIN documents d ON d.id = p.document_id
			JOIN categories c ON c.id = d.category_id`,
		source: `SELECT text FROM pages WHERE id = ?`,
		entries: `SELECT p.id, 0, p.page_number, '', '', '', '', '', ` + docColumns + `, p.text
			FROM pages p
			JOIN documents d ON d.id = p.document_id
			JOIN categories c ON c.id = d.category_id
			ORDER BY p.id`,
	},
	index.SourceAnswer: {
		table: "answers_fts",
		id:    "a.id",
		query: `SELECT a.id, -bm25(answers_fts) AS score, 0, a.long_id, a.text, u.username, u.first_name, u.last_name, ` + docColumns + `
			FROM answers_fts
			JOIN answers a ON a.id = answers_fts.rowid
			JOIN users u ON u.id = a.author_id
			JOIN documents d ON d.id = a.document_id
			JOIN categories c ON c.id = d.category_id`,
		source: `SELECT text FROM answers WHERE id = ?`,
		entries: `SELECT a.id, 0, 0, a.long_id, a.text, u.username, u.first_name, u.last_name, ` + docColumns + `, a.text
			FROM answers a
			JOIN users u ON u.id = a.author_id
			JOIN documents d ON d.id = a.document_id
			JOIN categories c ON c.id = d.category_id
			ORDER BY a.id`,
	},
	index.SourceComment: {
		table: "comments_fts",
		id:    "m.id",
		query: `SELECT m.id, -bm25(comments_fts) AS score, 0, m.long_id, m.text, u.username, u.first_name, u.last_name, ` + docColumns + `
			FROM comments_fts
			JOIN comments m ON m.id = comments_fts.rowid
			JOIN users u ON u.id = m.author_id
			JOIN answers a ON a.id = m.answer_id
			JOIN documents d ON d.id = a.document_id
			JOIN categories c ON c.id = d.category_id`,
		source: `SELECT text FROM comments WHERE id = ?`,
		entries: `SELECT m.id, 0, 0, m.long_id, m.text, u.username, u.first_name, u.last_name, ` + docColumns + `, m.text
			FROM comments m
			JOIN users u ON u.id = m.author_id
			JOIN answers a ON a.id = m.answer_id
			JOIN documents d ON d.id = a.document_id
			JOIN categories c ON c.id = d.category_id
			ORDER BY m.id`,
	},
}

// MatchQuery converts free text into an FTS5 query. Every run of letters
// and digits becomes a quoted token; tokens are implicitly ANDed. Returns ""
// when the text has no tokens.
func MatchQuery(term string) string {
	toks := strings.FieldsFunc(term, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for i, t := range toks {
		toks[i] = `"` + t + `"`
	}
	return strings.Join(toks, " ")
}

// visibilityClause translates v into a WHERE condition on the documents
// table aliased d. An unrestricted filter returns "".
func visibilityClause(v index.Visibility) (string, []any) {
	if v.Unrestricted {
		return "", nil
	}
	clause := `(d.public = 1 AND (d.needs_payment = 0 OR ?))`
	args := []any{v.HasPayment}
	if len(v.AdminCategories) > 0 {
		clause = `(` + clause + ` OR d.category_id IN (` + placeholders(len(v.AdminCategories)) + `))`
		for _, id := range v.AdminCategories {
			args = append(args, id)
		}
	}
	return clause, args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// Query returns candidates for q ordered by rank, best first. Rank is the
// negated bm25 score, so larger is more relevant.
func (s *SQLiteStore) Query(ctx context.Context, q index.Query) ([]index.Candidate, error) {
	src, ok := sources[q.Source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", index.ErrUnknownSource, q.Source)
	}
	match := MatchQuery(q.Term)
	if match == "" || (q.Within != nil && len(q.Within) == 0) {
		return nil, nil
	}

	var b strings.Builder
	b.WriteString(src.query)
	b.WriteString(` WHERE ` + src.table + ` MATCH ?`)
	args := []any{match}

	if clause, vargs := visibilityClause(q.Visibility); clause != "" {
		b.WriteString(` AND ` + clause)
		args = append(args, vargs...)
	}
	if q.Within != nil {
		b.WriteString(` AND d.id IN (` + placeholders(len(q.Within)) + `)`)
		for _, id := range q.Within {
			args = append(args, id)
		}
	}
	b.WriteString(` ORDER BY score DESC, ` + src.id)
	if q.Limit > 0 && !q.GroupByDocument {
		b.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Source, err)
	}
	defer rows.Close()

	var out []index.Candidate
	seen := make(map[int64]bool)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", q.Source, err)
		}
		if q.GroupByDocument {
			if seen[c.Document.ID] {
				continue
			}
			seen[c.Document.ID] = true
		}
		out = append(out, c)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, rows.Err()
}

// scanCandidate scans the common candidate columns followed by extra.
func scanCandidate(sc scanner, extra ...any) (index.Candidate, error) {
	var c index.Candidate
	var first, last string
	dest := []any{&c.ID, &c.Rank, &c.Page, &c.LongID, &c.Text, &c.Author.Username, &first, &last,
		&c.Document.ID, &c.Document.Filename, &c.Document.DisplayName, &c.Document.CategoryID,
		&c.Document.CategorySlug, &c.Document.CategoryName, &c.Document.Public, &c.Document.NeedsPayment}
	if err := sc.Scan(append(dest, extra...)...); err != nil {
		return c, err
	}
	if c.Author.Username != "" {
		c.Author.DisplayName = User{FirstName: first, LastName: last}.DisplayName()
	}
	return c, nil
}

// Excerpt returns the entity's text with matches of term wrapped in the
// requested markers, cut into headline fragments. A text the term does not
// match (a document found only through its pages) is windowed unmarked.
func (s *SQLiteStore) Excerpt(ctx context.Context, src index.Source, id int64, term string, opts index.ExcerptOptions) (string, error) {
	fs, ok := sources[src]
	if !ok {
		return "", fmt.Errorf("%w: %s", index.ErrUnknownSource, src)
	}

	var text string
	err := s.db.QueryRowContext(ctx, fs.source, id).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s %d: %w", src, id, index.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("load %s %d: %w", src, id, err)
	}
	for _, m := range []string{opts.Start, opts.End, opts.FragmentDelimiter} {
		if m != "" && strings.Contains(text, m) {
			return "", fmt.Errorf("%s %d: %w", src, id, index.ErrMarkerCollision)
		}
	}

	marked := text
	if match := MatchQuery(term); match != "" && opts.Start != "" && opts.End != "" {
		err := s.db.QueryRowContext(ctx,
			`SELECT highlight(`+fs.table+`, 0, ?, ?) FROM `+fs.table+` WHERE `+fs.table+` MATCH ? AND rowid = ?`,
			opts.Start, opts.End, match, id).Scan(&marked)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			marked = text
		case err != nil:
			return "", fmt.Errorf("highlight %s %d: %w", src, id, err)
		}
	}
	return index.Headline(marked, opts), nil
}

// Entries calls fn for every entity of src with the text the source
// indexes, in ID order. It feeds external index drivers.
func (s *SQLiteStore) Entries(ctx context.Context, src index.Source, fn func(c index.Candidate, body string) error) error {
	es, ok := sources[src]
	if !ok {
		return fmt.Errorf("%w: %s", index.ErrUnknownSource, src)
	}
	rows, err := s.db.QueryContext(ctx, es.entries)
	if err != nil {
		return fmt.Errorf("list %s: %w", src, err)
	}
	defer rows.Close()

	for rows.Next() {
		var body string
		c, err := scanCandidate(rows, &body)
		if err != nil {
			return fmt.Errorf("scan %s: %w", src, err)
		}
		if err := fn(c, body); err != nil {
			return err
		}
	}
	return rows.Err()
}
