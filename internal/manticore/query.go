package manticore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/jpl-au/examdex/internal/index"
)

const selectColumns = `id, WEIGHT() AS score, page, long_id, body, author_username, author_name,
	document_id, filename, displayname, category_id, category_slug, category_name, public, needs_payment`

// matchQuery reduces free text to lowercase word tokens. Manticore ANDs
// bare words; lowercasing keeps MAYBE, NEAR and friends from being read as
// operators.
func matchQuery(term string) string {
	toks := strings.FieldsFunc(strings.ToLower(term), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	return strings.Join(toks, " ")
}

// visibilityExpr renders v as a Manticore expression over the row's
// document attributes. Unrestricted returns "".
func visibilityExpr(v index.Visibility) string {
	if v.Unrestricted {
		return ""
	}
	expr := "public = 1"
	if !v.HasPayment {
		expr += " AND needs_payment = 0"
	}
	if len(v.AdminCategories) > 0 {
		expr = "(" + expr + ") OR IN(category_id, " + joinInts(v.AdminCategories) + ")"
	}
	return expr
}

func joinInts(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

// buildQuery renders q as SQL for table t. IDs and flags are integers and
// are inlined; the match text is the only parameter.
func buildQuery(t string, q index.Query, match string) (string, []any) {
	var b strings.Builder
	b.WriteString(`SELECT ` + selectColumns)
	vis := visibilityExpr(q.Visibility)
	if vis != "" {
		b.WriteString(`, IF(` + vis + `, 1, 0) AS visible`)
	} else {
		b.WriteString(`, 1 AS visible`)
	}
	b.WriteString(` FROM ` + t + ` WHERE MATCH(?)`)
	if vis != "" {
		b.WriteString(` AND visible = 1`)
	}
	if q.Within != nil {
		b.WriteString(` AND document_id IN (` + joinInts(q.Within) + `)`)
	}
	if q.GroupByDocument {
		b.WriteString(` GROUP BY document_id WITHIN GROUP ORDER BY score DESC`)
	}
	b.WriteString(` ORDER BY score DESC, id ASC`)

	limit := maxMatches
	if q.Limit > 0 && q.Limit < maxMatches {
		limit = q.Limit
	}
	b.WriteString(` LIMIT ` + strconv.Itoa(limit))
	b.WriteString(` OPTION max_matches=` + strconv.Itoa(maxMatches))
	return b.String(), []any{match}
}

// Query returns candidates ordered by Manticore's weight, best first.
func (x *Index) Query(ctx context.Context, q index.Query) ([]index.Candidate, error) {
	t, err := table(q.Source)
	if err != nil {
		return nil, err
	}
	match := matchQuery(q.Term)
	if match == "" || (q.Within != nil && len(q.Within) == 0) {
		return nil, nil
	}

	stmt, args := buildQuery(t, q, match)
	rows, err := x.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t, err)
	}
	defer rows.Close()

	reply := q.Source == index.SourceAnswer || q.Source == index.SourceComment
	var out []index.Candidate
	for rows.Next() {
		var c index.Candidate
		var body string
		var visible int
		err := rows.Scan(&c.ID, &c.Rank, &c.Page, &c.LongID, &body, &c.Author.Username, &c.Author.DisplayName,
			&c.Document.ID, &c.Document.Filename, &c.Document.DisplayName, &c.Document.CategoryID,
			&c.Document.CategorySlug, &c.Document.CategoryName, &c.Document.Public, &c.Document.NeedsPayment,
			&visible)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t, err)
		}
		if reply {
			c.Text = body
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// highlightOptions renders the HIGHLIGHT() option map. around centres each
// passage on its match the way MinWords does for SQLite.
func highlightOptions(opts index.ExcerptOptions) string {
	maxFragments := max(opts.MaxFragments, 1)
	maxWords := max(opts.MaxWords, opts.MinWords, 1)
	return fmt.Sprintf("{before_match=%s, after_match=%s, chunk_separator=%s, limit_passages=%d, limit_words=%d, around=%d}",
		quote(opts.Start), quote(opts.End), quote(opts.FragmentDelimiter),
		maxFragments, maxWords*maxFragments, max(opts.MinWords-1, 0)/2)
}

// quote renders s as a single-quoted Manticore string literal.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// Excerpt returns Manticore's highlighted snippet of the entity's body. A
// body the term does not match is windowed unmarked.
func (x *Index) Excerpt(ctx context.Context, src index.Source, id int64, term string, opts index.ExcerptOptions) (string, error) {
	t, err := table(src)
	if err != nil {
		return "", err
	}

	var body string
	err = x.db.QueryRowContext(ctx, `SELECT body FROM `+t+` WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s %d: %w", src, id, index.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("load %s %d: %w", src, id, err)
	}
	for _, m := range []string{opts.Start, opts.End, opts.FragmentDelimiter} {
		if m != "" && strings.Contains(body, m) {
			return "", fmt.Errorf("%s %d: %w", src, id, index.ErrMarkerCollision)
		}
	}

	match := matchQuery(term)
	if match == "" {
		return index.Headline(body, opts), nil
	}
	var snippet string
	err = x.db.QueryRowContext(ctx,
		`SELECT HIGHLIGHT(`+highlightOptions(opts)+`, 'body') FROM `+t+` WHERE MATCH(?) AND id = ?`,
		match, id).Scan(&snippet)
	if errors.Is(err, sql.ErrNoRows) {
		return index.Headline(body, opts), nil
	}
	if err != nil {
		return "", fmt.Errorf("highlight %s %d: %w", src, id, err)
	}
	return snippet, nil
}
