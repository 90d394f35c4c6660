// stats.go implements the "examdex stats" and "examdex optimize" commands.

package admin

import (
	"context"
	"fmt"

	"github.com/jpl-au/examdex/cmd"
	"github.com/jpl-au/examdex/extension"
	"github.com/jpl-au/examdex/internal/format"
	"github.com/jpl-au/examdex/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
)

func (e *Extension) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show archive row counts and size",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			st, err := e.svc.Stats(c.Context())

			log.Event("admin:stats", "read").Actor(cmd.User()).Write(err)

			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("stats: %w", err))
			}
			if cmd.JSON() {
				return cmd.PrintJSON(st)
			}
			format.Stats(cmd.Out(), st)
			fmt.Fprintf(cmd.Out(), "%-11s %s\n", "backend", e.svc.Backend())
			return nil
		},
	}
}

func (e *Extension) newOptimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Compact the full-text indexes",
		Long: `Merge the FTS5 index segments and vacuum the database file.

Run after a large import.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			err := e.svc.Optimize(c.Context())

			log.Event("admin:optimize", "optimize").Actor(cmd.User()).Write(err)

			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("optimize: %w", err))
			}
			if cmd.JSON() {
				return cmd.PrintJSON(map[string]bool{"optimized": true})
			}
			fmt.Fprintln(cmd.Out(), "Archive optimised")
			return nil
		},
	}
}

func optimizeTool() extension.MCPTool {
	return extension.MCPTool{
		Tool: mcp.NewTool("examdex_optimize",
			mcp.WithDescription("Compact the archive's full-text indexes after a large import"),
		),
		Handler: func(ctx context.Context, extCtx extension.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			err := extCtx.Service().Optimize(ctx)

			log.Event("mcp:optimize", "optimize").Write(err)

			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText("archive optimised"), nil
		},
	}
}
