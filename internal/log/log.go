// Package log provides centralised audit logging for examdex operations.
// Logs are stored in ~/.examdex/log/examdex-log.db and record every search,
// per kind, together with CLI commands and MCP tool invocations.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("cli:search", "search").
//		Actor(user).
//		Term(term).
//		Detail("count", len(resp.Results)).
//		Write(err)
//
//	log.Event("search:document", "search").
//		Detail("request", id).
//		Detail("ms", elapsed.Milliseconds()).
//		Write(err)
//
// The source parameter follows the format "{area}:{name}": "cli:search",
// "mcp:search", "search:answer", "archive:import".
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source string // e.g., "cli:search", "search:comment"
	Actor  string // requester the operation ran as
	Action string // verb: search, import, init, ...
	Term   string // search term, if any

	// Timing, unix milliseconds
	Start int64 // when Event() was called
	End   int64 // when Write() was called

	Success bool           // whether operation succeeded
	Error   string         // error message if failed
	Detail  map[string]any // additional operation-specific data
}

// Builder constructs a log entry using a fluent API.
// Create with [Event], chain methods to set fields, then call [Builder.Write].
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().UnixMilli(),
		},
	}
}

// Actor sets who the operation ran as.
func (b *Builder) Actor(actor string) *Builder {
	b.entry.Actor = actor
	return b
}

// Term sets the search term.
func (b *Builder) Term(term string) *Builder {
	b.entry.Term = term
	return b
}

// Detail adds a key-value pair to the log entry's detail map.
// Can be called multiple times to add multiple details.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry, deriving success/failure from err.
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().UnixMilli()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them (best-effort logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetProject sets the project identifier for subsequent log entries.
// The dir should be the absolute path to the .examdex directory.
func SetProject(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hash(dir)
	}
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
