// tools_search.go implements the examdex_search tool.
//
// The tool returns the same JSON response as "examdex search -o json", so
// an LLM sees highlight segment trees rather than marked-up strings.

package mcp

import (
	"context"
	"fmt"
	"io"

	"github.com/jpl-au/examdex/internal/find"
	"github.com/jpl-au/examdex/internal/log"
	"github.com/jpl-au/examdex/internal/search"
	"github.com/mark3labs/mcp-go/mcp"
)

// parseKinds maps kind names onto search kinds. Empty means all kinds.
func parseKinds(names []string) ([]search.Kind, error) {
	var kinds []search.Kind
	for _, n := range names {
		k := search.Kind(n)
		switch k {
		case search.KindDocument, search.KindAnswer, search.KindComment:
			kinds = append(kinds, k)
		default:
			return nil, fmt.Errorf("unknown kind %q (valid: document, answer, comment)", n)
		}
	}
	return kinds, nil
}

// searchArchive handles examdex_search tool calls.
func (h *handlers) searchArchive(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	term, err := req.RequireString("term")
	if err != nil {
		return mcp.NewToolResultError("term is required"), nil //nolint:nilerr
	}
	kinds, err := parseKinds(getStrings(req, "kinds"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	user := getString(req, "user", h.user)

	var resp *search.Response
	defer func() {
		b := log.Event("mcp:search", "search").Actor(user).Term(term)
		if resp != nil {
			b = b.Detail("request", resp.ID).Detail("count", len(resp.Results))
		}
		b.Write(err)
	}()

	res, err := find.Run(ctx, io.Discard, h.svc, term, find.Options{
		Kinds:    kinds,
		Amount:   getInt(req, "amount", 0),
		Username: user,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp = res.Response
	return jsonResult(resp)
}
