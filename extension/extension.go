// Package extension provides the plugin architecture for examdex. Extensions
// encapsulate related functionality (commands, MCP tools) and register at
// init time, so the CLI and the MCP server pick them up without touching
// core code.
package extension

import (
	"github.com/spf13/cobra"
)

// Extension defines the contract for examdex extensions.
type Extension interface {
	// Name returns a unique identifier for this extension.
	Name() string

	// Commands returns CLI commands to register with the root command.
	Commands() []*cobra.Command

	// MCPTools returns MCP tools to register with the server, in addition
	// to the server's built-in tools.
	MCPTools() []MCPTool
}

// Initializable extensions can perform setup (migrations, etc).
type Initializable interface {
	Extension
	Init(ctx Context) error
}

// Storeless is an optional interface for extensions with commands that
// don't require an archive. Commands returned by NoStoreCommands() will
// not trigger archive opening in PersistentPreRunE.
//
// Use cases:
// 1. Bootstrap commands (like init) that run before the archive exists
// 2. Commands that manage their own service lifecycle (serve)
// 3. Utility commands that don't read the archive (guide, version)
type Storeless interface {
	NoStoreCommands() []string
}
