// Package archive provides the examdex Service: an archive in SQLite, a
// full-text index (the archive's own FTS5 tables or Manticore), and the
// federated search engine and requester resolution built on them.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/jpl-au/examdex/internal/account"
	"github.com/jpl-au/examdex/internal/config"
	"github.com/jpl-au/examdex/internal/importer"
	"github.com/jpl-au/examdex/internal/index"
	"github.com/jpl-au/examdex/internal/log"
	"github.com/jpl-au/examdex/internal/manticore"
	"github.com/jpl-au/examdex/internal/progress"
	"github.com/jpl-au/examdex/internal/repo"
	"github.com/jpl-au/examdex/internal/search"
	"github.com/jpl-au/examdex/internal/service"
	"github.com/jpl-au/examdex/internal/store"
)

// ErrNoExternalIndex is returned by SyncIndex on the sqlite backend, where
// the index is maintained by triggers and needs no sync.
var ErrNoExternalIndex = errors.New("index sync needs index.backend=manticore")

// Service provides archive operations backed by a SQLite store.
type Service struct {
	store     *store.SQLiteStore
	dbPath    string
	dir       string
	cfg       *config.Config
	manticore *manticore.Index // nil on the sqlite backend
	engine    *search.Engine
	resolver  *account.Resolver
}

var _ service.Service = (*Service)(nil)

// New discovers the archive by walking up the directory tree and opens it
// with the loaded configuration. The db parameter selects a named archive
// (empty for default). Returns repo.ErrNotInitialised if none is found.
func New(ctx context.Context, db string) (*Service, error) {
	return NewDir(ctx, db, "")
}

// NewDir is New with an explicit project directory. An empty dir falls back
// to discovery.
func NewDir(ctx context.Context, db, dir string) (*Service, error) {
	dbPath, err := repo.Locate(db, dir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return Open(ctx, dbPath, cfg)
}

// Init initialises a new archive. See repo.Init.
func Init(force bool, db string, local bool, dir string) error {
	return repo.Init(force, db, local, dir)
}

// Open opens the archive at dbPath, connecting to Manticore when cfg selects
// it.
func Open(ctx context.Context, dbPath string, cfg *config.Config) (*Service, error) {
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	// Pick up schema additions in archives created by older builds.
	if err := s.Init(); err != nil {
		s.Close()
		return nil, fmt.Errorf("init store: %w", err)
	}

	svc := &Service{
		store:  s,
		dbPath: dbPath,
		dir:    filepath.Dir(dbPath),
		cfg:    cfg,
	}

	var idx index.Index = s
	if cfg.Backend() == config.BackendManticore {
		dsn := cfg.Index.ManticoreDSN
		if dsn == "" {
			dsn = manticore.DefaultDSN
		}
		m, err := manticore.Open(ctx, dsn)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("open manticore: %w", err)
		}
		svc.manticore = m
		idx = m
	}

	svc.engine = search.New(idx, EngineOptions(cfg))
	svc.resolver = account.NewResolver(s, account.NewCache(account.DefaultCacheTTL))
	return svc, nil
}

// EngineOptions maps configuration onto search engine options.
func EngineOptions(cfg *config.Config) search.Options {
	return search.Options{
		DefaultAmount: cfg.DefaultAmount(),
		MaxAmount:     cfg.MaxAmount(),
		Timeout:       cfg.Timeout(),
		DocumentWindow: search.Window{
			MinWords:     cfg.MinWords(),
			MaxWords:     cfg.MaxWords(),
			MaxFragments: cfg.MaxFragments(),
		},
		ReplyWindow: search.Window{
			MinWords:     cfg.ReplyMinWords(),
			MaxWords:     cfg.ReplyMaxWords(),
			MaxFragments: cfg.MaxFragments(),
		},
	}
}

// Close checkpoints the WAL and closes the database and index connections.
func (s *Service) Close() error {
	if err := s.store.Checkpoint(context.Background()); err != nil {
		log.Event("archive:close", "checkpoint").Write(err)
	}
	var errs []error
	if s.manticore != nil {
		errs = append(errs, s.manticore.Close())
	}
	errs = append(errs, s.store.Close())
	return errors.Join(errs...)
}

// DB returns the archive database connection.
func (s *Service) DB() *sql.DB { return s.store.DB() }

// Dir returns the .examdex directory.
func (s *Service) Dir() string { return s.dir }

// Backend returns the active index backend.
func (s *Service) Backend() string {
	if s.manticore != nil {
		return config.BackendManticore
	}
	return config.BackendSQLite
}

// Config returns the configuration the service was opened with.
func (s *Service) Config() *config.Config { return s.cfg }

// Store returns the underlying store.
func (s *Service) Store() *store.SQLiteStore { return s.store }

// Search runs req through the engine.
func (s *Service) Search(ctx context.Context, req search.Request) (*search.Response, error) {
	return s.engine.Search(ctx, req)
}

// Requester resolves username against the archive's accounts.
func (s *Service) Requester(ctx context.Context, username string) (search.Requester, error) {
	return s.resolver.Resolve(ctx, username)
}

// Import loads the archive file at path.
func (s *Service) Import(ctx context.Context, w io.Writer, path string, opts importer.Options) (importer.Result, error) {
	res, err := importer.RunFile(ctx, w, s.store, path, opts)
	log.Event("archive:import", "import").
		Detail("file", path).
		Detail("dry_run", opts.DryRun).
		Detail("documents", res.Documents).
		Write(err)
	return res, err
}

// Stats returns archive counts.
func (s *Service) Stats(ctx context.Context) (*store.Stats, error) {
	return s.store.Stats(ctx)
}

// Optimize compacts the FTS5 indexes and the database file.
func (s *Service) Optimize(ctx context.Context) error {
	err := s.store.Optimize(ctx)
	log.Event("archive:optimize", "optimize").Write(err)
	return err
}

// countingSource reports each streamed entry to a progress counter.
type countingSource struct {
	src     manticore.Source
	counter *progress.Counter
}

func (c countingSource) Entries(ctx context.Context, src index.Source, fn func(index.Candidate, string) error) error {
	return c.src.Entries(ctx, src, func(cand index.Candidate, body string) error {
		c.counter.Add()
		return fn(cand, body)
	})
}

// SyncIndex copies every archive entity into Manticore.
func (s *Service) SyncIndex(ctx context.Context) (map[index.Source]int, error) {
	if s.manticore == nil {
		return nil, ErrNoExternalIndex
	}
	counter := progress.NewCounter("Syncing")
	counts, err := s.manticore.Sync(ctx, countingSource{src: s.store, counter: counter})
	counter.Done()
	log.Event("archive:sync", "sync").
		Detail("rows", counter.Count()).
		Write(err)
	return counts, err
}
