// Package mcp implements the Model Context Protocol server, exposing examdex
// search to LLMs over stdio.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jpl-au/examdex/extension"
	"github.com/jpl-au/examdex/internal/archive"
	"github.com/jpl-au/examdex/internal/config"
	"github.com/jpl-au/examdex/internal/log"
	"github.com/jpl-au/examdex/internal/repo"
	"github.com/jpl-au/examdex/internal/service"
	"github.com/jpl-au/examdex/internal/version"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ErrNotInitialised is returned by tools when the archive has not been initialised.
const ErrNotInitialised = "archive not initialised - call examdex_init first"

// Serve starts the MCP server over stdio. The server starts even when no
// archive exists so a client can call examdex_init; other tools report
// ErrNotInitialised until then. user is the default requester for searches
// that name none. dir is an explicit project directory; empty discovers it.
func Serve(db, dir, user string) error {
	// Log to stderr; stdout is reserved for MCP JSON-RPC messages
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	ctx := context.Background()
	h := &handlers{db: db, dir: dir, user: user, open: openArchive}

	svc, err := h.open(ctx, db, dir)
	if err != nil && !errors.Is(err, repo.ErrNotInitialised) {
		slog.Error("failed to open archive", "error", err)
		return err
	}
	if err == nil {
		h.svc = svc
		log.SetProject(svc.Dir())
	} else {
		slog.Info("examdex not initialised, starting in uninitialised mode - call examdex_init to create an archive")
	}

	// The archive may be opened by examdex_init or reopened by
	// examdex_config_set while serving.
	defer func() {
		if h.svc != nil {
			h.svc.Close()
		}
	}()

	s := newServer(h)
	slog.Info("examdex MCP server ready", "version", version.Short(), "transport", "stdio")

	err = server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

func openArchive(ctx context.Context, db, dir string) (service.Service, error) {
	svc, err := archive.NewDir(ctx, db, dir)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// handlers provides MCP request handlers with access to the archive.
// The svc field may be nil if the archive has not been initialised.
type handlers struct {
	db   string // database name for init
	dir  string // project directory; empty discovers it
	user string // default requester
	svc  service.Service
	open func(ctx context.Context, db, dir string) (service.Service, error)
}

// requireInit returns an error result if the archive is not initialised.
func (h *handlers) requireInit() *mcp.CallToolResult {
	if h.svc == nil {
		return mcp.NewToolResultError(ErrNotInitialised)
	}
	return nil
}

func newServer(h *handlers) *server.MCPServer {
	s := server.NewMCPServer(
		"examdex",
		version.Short(),
		server.WithToolCapabilities(true),
	)
	registerTools(s, h)
	registerExtensionTools(s, h)
	return s
}

// configured is implemented by services that carry the configuration they
// were opened with.
type configured interface {
	Config() *config.Config
}

// extContext builds the extension Context for the open archive.
func (h *handlers) extContext() (extension.Context, error) {
	if c, ok := h.svc.(configured); ok {
		return extension.NewContext(h.svc, h.svc.DB(), c.Config()), nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return extension.NewContext(h.svc, h.svc.DB(), cfg), nil
}

// registerExtensionTools adds the tools contributed by registered
// extensions. Each runs only once an archive is open.
func registerExtensionTools(s *server.MCPServer, h *handlers) {
	for _, ext := range extension.All() {
		for _, t := range ext.MCPTools() {
			handler := t.Handler
			s.AddTool(t.Tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				if err := h.requireInit(); err != nil {
					return err, nil
				}
				extCtx, err := h.extContext()
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				return handler(ctx, extCtx, req)
			})
		}
	}
}

// registerTools exposes examdex operations as MCP tools.
func registerTools(s *server.MCPServer, h *handlers) {
	s.AddTool(
		mcp.NewTool("examdex_init",
			mcp.WithDescription("Initialise a new examdex archive. Call this first if other tools return 'archive not initialised'."),
			mcp.WithBoolean("local", mcp.Description("If true, the database is gitignored (not committed to version control)")),
		),
		h.initArchive,
	)

	s.AddTool(
		mcp.NewTool("examdex_search",
			mcp.WithDescription("Search exams (documents and their pages), answers and comments. Results are ranked and carry highlighted excerpts."),
			mcp.WithString("term", mcp.Required(), mcp.Description("Search term; words are matched independently")),
			mcp.WithNumber("amount", mcp.Description("Maximum results per kind (1-30, default 15)")),
			mcp.WithArray("kinds", mcp.Description("Result kinds to include: document, answer, comment (default all)"), mcp.WithStringItems()),
			mcp.WithString("user", mcp.Description("Username to search as; empty searches as the server's default user")),
		),
		h.searchArchive,
	)

	s.AddTool(
		mcp.NewTool("examdex_stats",
			mcp.WithDescription("Count categories, users, documents, pages, answers and comments in the archive"),
		),
		h.stats,
	)

	s.AddTool(
		mcp.NewTool("examdex_import",
			mcp.WithDescription("Import a YAML archive file (categories, users, documents with pages, answers, comments)"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Filesystem path of the YAML file")),
			mcp.WithBoolean("dry_run", mcp.Description("Validate without importing")),
		),
		h.importArchive,
	)

	s.AddTool(
		mcp.NewTool("examdex_config_get",
			mcp.WithDescription("Get a configuration value"),
			mcp.WithString("key", mcp.Description("Config key (e.g. search.max_amount) or empty for all")),
		),
		h.configGet,
	)

	s.AddTool(
		mcp.NewTool("examdex_config_set",
			mcp.WithDescription("Set a configuration value"),
			mcp.WithString("key", mcp.Required(), mcp.Description("Config key (e.g. search.max_amount, index.backend)")),
			mcp.WithString("value", mcp.Required(), mcp.Description("Value to set")),
		),
		h.configSet,
	)

	s.AddTool(
		mcp.NewTool("examdex_guide",
			mcp.WithDescription("Get help/guide content for examdex commands"),
			mcp.WithString("topic", mcp.Description("Guide topic (e.g. 'search', 'import') or empty for index")),
		),
		h.getGuide,
	)
}
