// Package find runs a search on behalf of the CLI and the MCP server.
//
// It resolves who the search runs as, calls service.Search and renders the
// response, separating the search itself from presentation. Both front ends
// share it so they resolve requesters identically.
package find

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jpl-au/examdex/internal/format"
	"github.com/jpl-au/examdex/internal/search"
	"github.com/jpl-au/examdex/internal/service"
)

// ErrRequesterConflict is returned when a username and explicit requester
// attributes are both given.
var ErrRequesterConflict = errors.New("a username cannot be combined with explicit requester flags")

// Options configures a search operation.
type Options struct {
	Kinds   []search.Kind // empty means all kinds
	Amount  int           // per kind; 0 selects the configured default
	Timings bool          // print per-kind timings after the results

	// Username resolves the requester from the archive's accounts.
	Username string
	// Requester, when set, is used as given and Username must be empty.
	Requester *search.Requester
}

// Result contains the outcome of a search operation.
type Result struct {
	Requester search.Requester
	Response  *search.Response
}

// Requester returns the requester opts describe.
func Requester(ctx context.Context, svc service.Service, opts Options) (search.Requester, error) {
	if opts.Requester != nil {
		if opts.Username != "" {
			return search.Requester{}, ErrRequesterConflict
		}
		return *opts.Requester, nil
	}
	r, err := svc.Requester(ctx, opts.Username)
	if err != nil {
		return search.Requester{}, fmt.Errorf("resolve user %q: %w", opts.Username, err)
	}
	return r, nil
}

// Run searches the archive and writes the rendered results to w. Pass
// io.Discard when the caller prints the response itself.
func Run(ctx context.Context, w io.Writer, svc service.Service, term string, opts Options) (Result, error) {
	var result Result

	r, err := Requester(ctx, svc, opts)
	if err != nil {
		return result, err
	}
	result.Requester = r

	resp, err := svc.Search(ctx, search.Request{
		Term:      term,
		Kinds:     opts.Kinds,
		Amount:    opts.Amount,
		Requester: r,
	})
	if err != nil {
		return result, err
	}
	result.Response = resp

	if w == io.Discard {
		return result, nil
	}
	if err := format.Terminal(w, resp); err != nil {
		return result, err
	}
	if opts.Timings {
		format.Timings(w, resp)
	}
	return result, nil
}
