package store_test

import (
	"context"
	"testing"

	"github.com/jpl-au/examdex/internal/search"
	"github.com/jpl-au/examdex/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hasHighlight(frags []search.Fragment) bool {
	for _, f := range frags {
		for _, seg := range f {
			if seg.Highlighted {
				return true
			}
		}
	}
	return false
}

func TestSearchEndToEnd(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	cat, err := s.PutCategory(ctx, store.Category{Slug: "default", DisplayName: "default"})
	require.NoError(t, err)
	_, err = s.PutDocument(ctx,
		store.Document{Filename: "abc.pdf", DisplayName: "Test", CategoryID: cat, Public: true},
		[]store.Page{{Number: 1, Text: "This page carries uniqueidthatwecansearch somewhere in its text."}})
	require.NoError(t, err)

	resp, err := search.New(s, search.DefaultOptions()).Search(ctx, search.Request{Term: "uniqueidthatwecansearch"})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	r := resp.Results[0]
	assert.Equal(t, search.KindDocument, r.Kind)
	require.NotNil(t, r.Document)
	assert.Equal(t, "default", r.Document.CategorySlug)
	assert.Equal(t, "default", r.Document.CategoryName)
	assert.Len(t, r.Highlight, 1, "the unmatched title is one plain fragment")

	require.Len(t, r.Document.Pages, 1)
	page := r.Document.Pages[0]
	assert.Equal(t, 1, page.Number)
	assert.NotEmpty(t, page.Highlight)
	assert.True(t, hasHighlight(page.Highlight))
	assert.Equal(t, page.Rank, r.Rank)
}

func TestSearchEndToEndVisibilityAndReplies(t *testing.T) {
	s := setupStore(t)
	f := seed(t, s)
	ctx := context.Background()
	engine := search.New(s, search.DefaultOptions())

	resp, err := engine.Search(ctx, search.Request{Term: "eigenvalue"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count(search.KindDocument))
	assert.Equal(t, 1, resp.Count(search.KindAnswer))
	assert.Equal(t, 1, resp.Count(search.KindComment))
	for i := 1; i < len(resp.Results); i++ {
		assert.GreaterOrEqual(t, resp.Results[i-1].Rank, resp.Results[i].Rank)
	}

	for _, r := range resp.Results {
		if r.Reply == nil {
			continue
		}
		assert.Equal(t, "la-2020.pdf", r.Reply.Filename)
		assert.Equal(t, []string{"eigenvalue"}, r.Reply.Words)
		for _, frag := range r.Highlight {
			assert.LessOrEqual(t, len(frag), 3, "reply window stays short")
		}
	}

	admin, err := engine.Search(ctx, search.Request{Term: "eigenvalue", Requester: search.Requester{GlobalAdmin: true}})
	require.NoError(t, err)
	assert.Equal(t, 3, admin.Count(search.KindDocument))
	assert.Equal(t, 3, admin.Count(search.KindAnswer))
	assert.Equal(t, 3, admin.Count(search.KindComment))

	catAdmin, err := engine.Search(ctx, search.Request{
		Term:      "hamiltonian",
		Requester: search.Requester{AdminCategories: map[int64]struct{}{f.phys.ID: {}}},
	})
	require.NoError(t, err)
	require.Len(t, catAdmin.Results, 1)
	assert.Equal(t, f.hid.ID, catAdmin.Results[0].Document.ID)
}
