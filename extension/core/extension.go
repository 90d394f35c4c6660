// Package core provides the core extension for examdex.
// It registers commands: init, config, serve, guide, db, version.
package core

import (
	"github.com/jpl-au/examdex/extension"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the core extension.
type Extension struct{}

var (
	_ extension.Extension = (*Extension)(nil)
	_ extension.Storeless = (*Extension)(nil)
)

// Name returns "core".
func (e *Extension) Name() string { return "core" }

// Commands returns the archive management commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		newInitCmd(),
		newConfigCmd(),
		newServeCmd(),
		newGuideCmd(),
		newDBCmd(),
		newVersionCmd(),
	}
}

// MCPTools returns nil; the MCP server has built-in equivalents.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// NoStoreCommands returns commands that manage their own service lifecycle.
// serve: the MCP server opens (and reopens) the archive itself.
// db: manages gitignore entries without opening databases.
// version: displays build info.
func (e *Extension) NoStoreCommands() []string {
	return []string{"serve", "db", "version"}
}
