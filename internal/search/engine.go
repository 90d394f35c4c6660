// engine.go implements the top-level search entry point.
//
// Design: the searchers share nothing mutable. Each writes its own slot of
// a pre-sized outcome slice, so the fan-out needs a WaitGroup and no locks.
// A kind that fails or times out is logged and contributes nothing; only an
// invalid request fails the call.

package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jpl-au/examdex/internal/index"
	"github.com/jpl-au/examdex/internal/log"
)

// Options configures an Engine.
type Options struct {
	DefaultAmount  int           // per-kind amount when the request has none
	MaxAmount      int           // per-kind cap, at most search.MaxAmount
	Timeout        time.Duration // per-kind deadline; 0 means none
	DocumentWindow Window
	ReplyWindow    Window
}

// DefaultOptions returns the stock engine options.
func DefaultOptions() Options {
	return Options{
		DefaultAmount:  DefaultAmount,
		MaxAmount:      MaxAmount,
		Timeout:        5 * time.Second,
		DocumentWindow: DocumentWindow,
		ReplyWindow:    ReplyWindow,
	}
}

// Engine runs federated searches.
type Engine struct {
	opts      Options
	searchers []Searcher
}

// New returns an Engine searching documents, answers and comments in idx.
func New(idx index.Index, opts Options) *Engine {
	return NewWithSearchers(opts,
		NewDocumentSearcher(idx, opts.DocumentWindow),
		NewAnswerSearcher(idx, opts.ReplyWindow),
		NewCommentSearcher(idx, opts.ReplyWindow),
	)
}

// NewWithSearchers returns an Engine over the given searchers, merged in
// the given order.
func NewWithSearchers(opts Options, searchers ...Searcher) *Engine {
	return &Engine{opts: opts, searchers: searchers}
}

// ClampAmount maps a requested per-kind amount into [1, max]. Zero selects
// the default.
func (e *Engine) ClampAmount(n int) int {
	upper := e.opts.MaxAmount
	if upper < 1 || upper > MaxAmount {
		upper = MaxAmount
	}
	if n == 0 {
		n = e.opts.DefaultAmount
		if n == 0 {
			n = DefaultAmount
		}
	}
	return max(1, min(n, upper))
}

type outcome struct {
	ran      bool
	results  []Result
	duration time.Duration
	err      error
}

// Search runs req against every requested kind and returns the merged,
// rank-ordered results. It fails only for an invalid request or a context
// that is already done.
func (e *Engine) Search(ctx context.Context, req Request) (*Response, error) {
	term := strings.TrimSpace(req.Term)
	if term == "" {
		return nil, fmt.Errorf("%w: empty term", ErrInvalidRequest)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	amount := e.ClampAmount(req.Amount)

	sentinels, err := NewSentinels()
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()

	outs := make([]outcome, len(e.searchers))
	var wg sync.WaitGroup
	for i, s := range e.searchers {
		if !req.wants(s.Kind()) {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			kctx := ctx
			if e.opts.Timeout > 0 {
				var cancel context.CancelFunc
				kctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
				defer cancel()
			}
			start := time.Now()
			res, err := s.Search(kctx, term, sentinels, req.Requester, amount)
			outs[i] = outcome{ran: true, results: res, duration: time.Since(start), err: err}
		}()
	}
	wg.Wait()

	resp := &Response{ID: id, Term: term}
	lists := make([][]Result, 0, len(outs))
	for i, o := range outs {
		if !o.ran {
			continue
		}
		kind := e.searchers[i].Kind()
		log.Event("search:"+string(kind), "search").
			Detail("request", id).
			Detail("count", len(o.results)).
			Detail("ms", o.duration.Milliseconds()).
			Write(o.err)
		if o.err != nil {
			continue
		}
		lists = append(lists, o.results)
		resp.Timings = append(resp.Timings, Timing{Kind: kind, Duration: o.duration, Count: len(o.results)})
	}
	resp.Results = Merge(lists...)
	return resp, nil
}
