// tools_archive.go implements the archive administration tools: stats and
// import.

package mcp

import (
	"context"
	"io"

	"github.com/jpl-au/examdex/internal/importer"
	"github.com/jpl-au/examdex/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

// stats handles examdex_stats tool calls.
func (h *handlers) stats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	st, err := h.svc.Stats(ctx)

	log.Event("mcp:stats", "read").Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(st)
}

// importArchive handles examdex_import tool calls. Per-document progress
// lines are dropped; the counts are returned instead.
func (h *handlers) importArchive(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}

	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil //nolint:nilerr
	}

	res, err := h.svc.Import(ctx, io.Discard, path, importer.Options{DryRun: getBool(req, "dry_run", false)})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}
