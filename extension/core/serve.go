// serve.go implements the "examdex serve" command.
//
// Serve is storeless: unlike other commands it blocks handling MCP requests
// over stdio, and the server opens, reopens and closes the archive itself.

package core

import (
	"github.com/jpl-au/examdex/cmd"
	"github.com/jpl-au/examdex/internal/mcp"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start MCP server",
		Long: `Start an MCP (Model Context Protocol) server over stdio for LLM integration.

Searches that name no user run as --user (or user.name from config):
  examdex serve --user alice
  examdex serve --db physics`,
		RunE: runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	return mcp.Serve(cmd.DB(), cmd.Dir(), cmd.User())
}
