package manticore

import (
	"context"
	"os"
	"testing"

	"github.com/jpl-au/examdex/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchQuery(t *testing.T) {
	assert.Equal(t, "linear algebra", matchQuery("  Linear ALGEBRA! "))
	assert.Equal(t, "a maybe b", matchQuery("a MAYBE b"))
	assert.Equal(t, "", matchQuery(`"" () * -`))
}

func TestVisibilityExpr(t *testing.T) {
	tests := []struct {
		name string
		v    index.Visibility
		want string
	}{
		{"unrestricted", index.Visibility{Unrestricted: true, AdminCategories: []int64{1}}, ""},
		{"anonymous", index.Visibility{}, "public = 1 AND needs_payment = 0"},
		{"payer", index.Visibility{HasPayment: true}, "public = 1"},
		{"category admin", index.Visibility{AdminCategories: []int64{3, 9}}, "(public = 1 AND needs_payment = 0) OR IN(category_id, 3, 9)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, visibilityExpr(tt.v))
		})
	}
}

func TestBuildQuery(t *testing.T) {
	t.Run("filtered and limited", func(t *testing.T) {
		stmt, args := buildQuery("examdex_answers", index.Query{
			Source: index.SourceAnswer,
			Limit:  15,
		}, "eigenvalue")
		assert.Equal(t, []any{"eigenvalue"}, args)
		assert.Contains(t, stmt, "IF(public = 1 AND needs_payment = 0, 1, 0) AS visible")
		assert.Contains(t, stmt, "FROM examdex_answers WHERE MATCH(?) AND visible = 1")
		assert.Contains(t, stmt, "ORDER BY score DESC, id ASC LIMIT 15 OPTION max_matches=1000")
		assert.NotContains(t, stmt, "GROUP BY")
	})

	t.Run("unrestricted within grouped", func(t *testing.T) {
		stmt, _ := buildQuery("examdex_pages", index.Query{
			Source:          index.SourcePage,
			Visibility:      index.Visibility{Unrestricted: true},
			Within:          []int64{4, 2},
			GroupByDocument: true,
		}, "x")
		assert.Contains(t, stmt, "1 AS visible")
		assert.NotContains(t, stmt, "visible = 1")
		assert.Contains(t, stmt, "AND document_id IN (4, 2)")
		assert.Contains(t, stmt, "GROUP BY document_id WITHIN GROUP ORDER BY score DESC")
		assert.Contains(t, stmt, "LIMIT 1000")
	})
}

func TestHighlightOptions(t *testing.T) {
	got := highlightOptions(index.ExcerptOptions{Start: "aaaa", End: "bbbb", FragmentDelimiter: "cccc", MinWords: 15, MaxWords: 35, MaxFragments: 5})
	assert.Equal(t, "{before_match='aaaa', after_match='bbbb', chunk_separator='cccc', limit_passages=5, limit_words=175, around=7}", got)

	reply := highlightOptions(index.ExcerptOptions{Start: "a", End: "b", FragmentDelimiter: "c", MinWords: 1, MaxWords: 2, MaxFragments: 5})
	assert.Contains(t, reply, "limit_words=10, around=0")

	assert.Equal(t, `'it\'s \\ ok'`, quote(`it's \ ok`))
}

func TestTable(t *testing.T) {
	for _, src := range index.Sources() {
		name, err := table(src)
		require.NoError(t, err)
		assert.Contains(t, createTableSQL(name), "CREATE TABLE IF NOT EXISTS "+name)
	}
	_, err := table("bogus")
	assert.ErrorIs(t, err, index.ErrUnknownSource)
}

func TestOpenWithoutDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoDSN)
}

// memSource serves fixed entries.
type memSource map[index.Source][]index.Candidate

func (m memSource) Entries(_ context.Context, src index.Source, fn func(index.Candidate, string) error) error {
	for _, c := range m[src] {
		body := c.Text
		if body == "" {
			body = c.Document.DisplayName
		}
		if err := fn(c, body); err != nil {
			return err
		}
	}
	return nil
}

func TestIntegration(t *testing.T) {
	dsn := os.Getenv("EXAMDEX_MANTICORE_DSN")
	if dsn == "" {
		t.Skip("Skipping integration test. Set EXAMDEX_MANTICORE_DSN to run.")
	}
	ctx := context.Background()

	x, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer x.Close()

	doc := index.Document{ID: 1, Filename: "t.pdf", DisplayName: "Test exam", CategoryID: 1, CategorySlug: "default", CategoryName: "Default", Public: true}
	counts, err := x.Sync(ctx, memSource{
		index.SourceDocument: {{ID: 1, Document: doc}},
		index.SourcePage:     {{ID: 10, Page: 1, Document: doc, Text: "uniqueidthatwecansearch on page one"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, counts[index.SourcePage])

	cands, err := x.Query(ctx, index.Query{Source: index.SourcePage, Term: "uniqueidthatwecansearch"})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, 1, cands[0].Page)

	snippet, err := x.Excerpt(ctx, index.SourcePage, 10, "uniqueidthatwecansearch",
		index.ExcerptOptions{Start: "ssss", End: "eeee", FragmentDelimiter: "ffff", MinWords: 15, MaxWords: 35, MaxFragments: 5})
	require.NoError(t, err)
	assert.Contains(t, snippet, "ssssuniqueidthatwecansearcheeee")
}
