// context.go defines the Context interface for extension access to examdex
// internals.
//
// Extensions receive Context during Init() or with each MCP tool call, not
// at construction: they register in init() before any archive is open.

package extension

import (
	"database/sql"

	"github.com/jpl-au/examdex/internal/config"
	"github.com/jpl-au/examdex/internal/service"
)

// Context provides extensions controlled access to examdex internals.
type Context interface {
	// Service returns the archive service for search and administration.
	Service() service.Service

	// DB exposes the database for extensions needing custom tables.
	// Extensions should create their own tables, not modify core tables.
	DB() *sql.DB

	// Config returns the merged configuration the archive was opened with.
	Config() *config.Config
}

// extContext implements Context.
type extContext struct {
	svc service.Service
	db  *sql.DB
	cfg *config.Config
}

// NewContext creates a new extension context.
func NewContext(svc service.Service, db *sql.DB, cfg *config.Config) Context {
	return &extContext{
		svc: svc,
		db:  db,
		cfg: cfg,
	}
}

// Service returns the archive service.
func (c *extContext) Service() service.Service {
	return c.svc
}

// DB returns the raw database connection.
func (c *extContext) DB() *sql.DB {
	return c.db
}

// Config returns the loaded configuration.
func (c *extContext) Config() *config.Config {
	return c.cfg
}
