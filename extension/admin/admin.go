// Package admin provides the archive administration extension for examdex.
// It registers commands: import, stats, optimize, index.
package admin

import (
	"github.com/jpl-au/examdex/extension"
	"github.com/jpl-au/examdex/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the admin extension.
type Extension struct {
	svc service.Service
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "admin".
func (e *Extension) Name() string { return "admin" }

// Init connects to the shared archive. Import validates references against
// the archive, so even --dry-run needs it open.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	return nil
}

// Commands returns the administration commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newImportCmd(),
		e.newStatsCmd(),
		e.newOptimizeCmd(),
		e.newIndexCmd(),
	}
}

// MCPTools exposes optimize and index sync to MCP clients.
func (e *Extension) MCPTools() []extension.MCPTool {
	return []extension.MCPTool{
		optimizeTool(),
		indexSyncTool(),
	}
}
