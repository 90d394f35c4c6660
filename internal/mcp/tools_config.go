// tools_config.go implements MCP tools for configuration management.
//
// A successful set reopens the archive so the running server searches with
// the new limits and backend straight away.

package mcp

import (
	"context"
	"fmt"

	"github.com/jpl-au/examdex/internal/config"
	"github.com/jpl-au/examdex/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

// configGet handles examdex_config_get tool calls.
func (h *handlers) configGet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Event("mcp:config_get", "get").Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	key := getString(req, "key", "")
	if key == "" {
		log.Event("mcp:config_get", "list").Write(nil)
		return jsonResult(cfg.All())
	}

	v, err := cfg.Get(key)

	log.Event("mcp:config_get", "get").Detail("key", key).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{key: v})
}

// configSet handles examdex_config_set tool calls.
func (h *handlers) configSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil //nolint:nilerr
	}
	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError("value is required"), nil //nolint:nilerr
	}

	err = setConfig(key, value)

	log.Event("mcp:config_set", "set").Detail("key", key).Detail("value", value).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if h.svc != nil {
		h.svc.Close()
		svc, err := h.open(ctx, h.db, h.dir)
		if err != nil {
			h.svc = nil
			log.Event("mcp:config_set", "reload").Write(err)
			return mcp.NewToolResultText(fmt.Sprintf("%s = %s (warning: reopening the archive failed: %v)", key, value, err)), nil
		}
		h.svc = svc
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s = %s", key, value)), nil
}

func setConfig(key, value string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	return cfg.Save()
}
