// index.go implements "examdex index sync", which copies the archive into
// an external Manticore index.

package admin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jpl-au/examdex/cmd"
	"github.com/jpl-au/examdex/extension"
	"github.com/jpl-au/examdex/internal/format"
	"github.com/jpl-au/examdex/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
)

func (e *Extension) newIndexCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "index",
		Short: "Manage the external search index",
		Long: `Manage the Manticore search index used when index.backend is manticore.

  examdex index sync    # copy the archive into Manticore`,
		Args: cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			_ = c.Help()
		},
	}
	c.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Copy the archive into Manticore",
		Args:  cobra.NoArgs,
		RunE:  e.runIndexSync,
	})
	return c
}

func (e *Extension) runIndexSync(c *cobra.Command, _ []string) error {
	counts, err := e.svc.SyncIndex(c.Context())

	log.Event("admin:index", "sync").Actor(cmd.User()).Detail("backend", e.svc.Backend()).Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("index sync: %w", err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(counts)
	}
	format.SyncCounts(cmd.Out(), counts)
	return nil
}

func indexSyncTool() extension.MCPTool {
	return extension.MCPTool{
		Tool: mcp.NewTool("examdex_index_sync",
			mcp.WithDescription("Copy the archive into the Manticore index (index.backend must be manticore)"),
		),
		Handler: func(ctx context.Context, extCtx extension.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			counts, err := extCtx.Service().SyncIndex(ctx)

			log.Event("mcp:index_sync", "sync").Write(err)

			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			data, err := json.MarshalIndent(counts, "", "  ")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(string(data)), nil
		},
	}
}
