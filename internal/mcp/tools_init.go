// tools_init.go implements the MCP tool for initialising a new archive.
//
// This tool works without an existing archive. Other tools require
// initialisation first.

package mcp

import (
	"context"
	"log/slog"

	"github.com/jpl-au/examdex/internal/archive"
	"github.com/jpl-au/examdex/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

// initArchive handles examdex_init tool calls.
func (h *handlers) initArchive(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.svc != nil {
		return mcp.NewToolResultError("archive already initialised"), nil
	}

	local := getBool(req, "local", false)

	err := archive.Init(false, h.db, local, h.dir)

	log.Event("mcp:init", "init").Detail("local", local).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, err := h.open(ctx, h.db, h.dir)
	if err != nil {
		return mcp.NewToolResultError("init succeeded but failed to open archive: " + err.Error()), nil
	}
	h.svc = svc

	slog.Info("archive initialised", "local", local)

	if local {
		return mcp.NewToolResultText("archive initialised (local - gitignored)"), nil
	}
	return mcp.NewToolResultText("archive initialised"), nil
}
