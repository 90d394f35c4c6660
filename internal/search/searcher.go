// searcher.go defines the per-kind searchers.
//
// Each searcher owns one failure domain: it queries the index for its kind,
// re-checks visibility before counting a candidate toward the cap, and
// parses every excerpt before returning. An index error fails only that
// searcher; the engine turns it into an empty list for the kind.

package search

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jpl-au/examdex/internal/index"
)

// Window bounds excerpt fragments.
type Window struct {
	MinWords     int
	MaxWords     int
	MaxFragments int
}

// Default excerpt windows. Replies are short, so their window is tightened
// to avoid excerpts longer than the source.
var (
	DocumentWindow = Window{MinWords: 15, MaxWords: 35, MaxFragments: 5}
	ReplyWindow    = Window{MinWords: 1, MaxWords: 2, MaxFragments: 5}
)

// Searcher searches one kind.
type Searcher interface {
	Kind() Kind
	Search(ctx context.Context, term string, s Sentinels, r Requester, amount int) ([]Result, error)
}

// DocumentSearcher searches document names and, folded into the same
// results, the text of their pages.
type DocumentSearcher struct {
	idx    index.Index
	window Window
}

// NewDocumentSearcher returns a searcher for documents and their pages.
func NewDocumentSearcher(idx index.Index, w Window) *DocumentSearcher {
	return &DocumentSearcher{idx: idx, window: w}
}

// Kind returns KindDocument.
func (d *DocumentSearcher) Kind() Kind { return KindDocument }

type docHit struct {
	doc  index.Document
	rank float64
}

// Search finds documents matching by name or through any page. A document's
// rank is the best of its own rank and its pages' ranks; pages are attached
// in page order.
func (d *DocumentSearcher) Search(ctx context.Context, term string, s Sentinels, r Requester, amount int) ([]Result, error) {
	vis := Visibility(r)

	named, err := d.idx.Query(ctx, index.Query{
		Source:     index.SourceDocument,
		Term:       term,
		Visibility: vis,
		Limit:      amount,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query documents: %w", ErrIndexUnavailable, err)
	}
	viaPages, err := d.idx.Query(ctx, index.Query{
		Source:          index.SourcePage,
		Term:            term,
		Visibility:      vis,
		GroupByDocument: true,
		Limit:           amount,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query pages: %w", ErrIndexUnavailable, err)
	}

	hits := make(map[int64]*docHit)
	var order []*docHit
	add := func(c index.Candidate) {
		if !CanView(r, EntityOf(c)) {
			return
		}
		if h, ok := hits[c.Document.ID]; ok {
			h.rank = max(h.rank, c.Rank)
			return
		}
		h := &docHit{doc: c.Document, rank: c.Rank}
		hits[c.Document.ID] = h
		order = append(order, h)
	}
	for _, c := range named {
		add(c)
	}
	for _, c := range viaPages {
		add(c)
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].rank > order[j].rank })
	if len(order) > amount {
		order = order[:amount]
	}
	if len(order) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(order))
	for i, h := range order {
		ids[i] = h.doc.ID
	}
	pages, err := d.idx.Query(ctx, index.Query{
		Source:     index.SourcePage,
		Term:       term,
		Visibility: vis,
		Within:     ids,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query document pages: %w", ErrIndexUnavailable, err)
	}

	pagesByDoc := make(map[int64][]PageMatch)
	for _, p := range pages {
		h, ok := hits[p.Document.ID]
		if !ok || !CanView(r, EntityOf(p)) {
			continue
		}
		hl, err := excerpt(ctx, d.idx, index.SourcePage, p.ID, term, s, d.window)
		if err != nil {
			return nil, err
		}
		pagesByDoc[h.doc.ID] = append(pagesByDoc[h.doc.ID], PageMatch{
			Number:    p.Page,
			Rank:      p.Rank,
			Highlight: hl,
		})
		h.rank = max(h.rank, p.Rank)
	}

	results := make([]Result, 0, len(order))
	for _, h := range order {
		hl, err := excerpt(ctx, d.idx, index.SourceDocument, h.doc.ID, term, s, d.window)
		if err != nil {
			return nil, err
		}
		pm := pagesByDoc[h.doc.ID]
		sort.SliceStable(pm, func(i, j int) bool { return pm[i].Number < pm[j].Number })
		if pm == nil {
			pm = []PageMatch{}
		}
		results = append(results, Result{
			Kind:      KindDocument,
			Rank:      h.rank,
			Highlight: hl,
			Document: &DocumentMatch{
				ID:           h.doc.ID,
				Filename:     h.doc.Filename,
				DisplayName:  h.doc.DisplayName,
				CategorySlug: h.doc.CategorySlug,
				CategoryName: h.doc.CategoryName,
				Pages:        pm,
			},
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Rank > results[j].Rank })
	return results, nil
}

// ReplySearcher searches one kind of threaded reply.
type ReplySearcher struct {
	kind   Kind
	source index.Source
	idx    index.Index
	window Window
}

// NewAnswerSearcher returns a searcher for answers.
func NewAnswerSearcher(idx index.Index, w Window) *ReplySearcher {
	return &ReplySearcher{kind: KindAnswer, source: index.SourceAnswer, idx: idx, window: w}
}

// NewCommentSearcher returns a searcher for comments.
func NewCommentSearcher(idx index.Index, w Window) *ReplySearcher {
	return &ReplySearcher{kind: KindComment, source: index.SourceComment, idx: idx, window: w}
}

// Kind returns KindAnswer or KindComment.
func (rs *ReplySearcher) Kind() Kind { return rs.kind }

// Search finds replies whose owning document the requester can view.
func (rs *ReplySearcher) Search(ctx context.Context, term string, s Sentinels, r Requester, amount int) ([]Result, error) {
	cands, err := rs.idx.Query(ctx, index.Query{
		Source:     rs.source,
		Term:       term,
		Visibility: Visibility(r),
		Limit:      amount,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query %ss: %w", ErrIndexUnavailable, rs.kind, err)
	}

	var results []Result
	for _, c := range cands {
		if len(results) == amount {
			break
		}
		if !CanView(r, EntityOf(c)) {
			continue
		}
		hl, err := excerpt(ctx, rs.idx, rs.source, c.ID, term, s, rs.window)
		if err != nil {
			return nil, err
		}
		words := HighlightedWords(hl)
		if words == nil {
			words = []string{}
		}
		results = append(results, Result{
			Kind:      rs.kind,
			Rank:      c.Rank,
			Highlight: hl,
			Reply: &ReplyMatch{
				ID:                c.ID,
				LongID:            c.LongID,
				Text:              c.Text,
				AuthorUsername:    c.Author.Username,
				AuthorDisplayName: c.Author.DisplayName,
				Filename:          c.Document.Filename,
				DocumentName:      c.Document.DisplayName,
				CategorySlug:      c.Document.CategorySlug,
				CategoryName:      c.Document.CategoryName,
				Words:             words,
			},
		})
	}
	return results, nil
}

// excerpt fetches and parses one excerpt. A candidate whose excerpt cannot
// be produced safely keeps an empty highlight.
func excerpt(ctx context.Context, idx index.Index, src index.Source, id int64, term string, s Sentinels, w Window) ([]Fragment, error) {
	text, err := idx.Excerpt(ctx, src, id, term, index.ExcerptOptions{
		Start:             s.Start,
		End:               s.End,
		FragmentDelimiter: s.Fragment,
		MinWords:          w.MinWords,
		MaxWords:          w.MaxWords,
		MaxFragments:      w.MaxFragments,
	})
	if errors.Is(err, index.ErrMarkerCollision) || errors.Is(err, index.ErrNotFound) {
		return []Fragment{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: excerpt %s %d: %w", ErrIndexUnavailable, src, id, err)
	}
	frags := ParseHeadline(text, s.Start, s.End, s.Fragment)
	if frags == nil {
		frags = []Fragment{}
	}
	return frags, nil
}
