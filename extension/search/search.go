// Package search provides the "examdex search" command: federated search
// over documents, answers and comments as a given requester.
package search

import (
	"github.com/jpl-au/examdex/extension"
	"github.com/jpl-au/examdex/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the search extension.
type Extension struct {
	svc service.Service
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "search".
func (e *Extension) Name() string { return "search" }

// Init connects to the shared archive.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	return nil
}

// Commands returns the search command.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newSearchCmd(),
	}
}

// MCPTools returns nil; examdex_search is built into internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}
