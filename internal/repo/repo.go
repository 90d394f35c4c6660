// Package repo provides archive initialisation and discovery for examdex.
//
// An examdex archive lives in a .examdex directory holding one or more
// SQLite databases (examdex.db, examdex-2025.db, ...). Discovery walks up
// from the working directory until a .examdex directory containing the
// target database is found, or the filesystem root is reached. Archives
// can be kept out of git via .examdex/.gitignore.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpl-au/examdex/internal/store"
)

const (
	// Dir is the directory name for the examdex archive.
	Dir = ".examdex"
	// DBFile is the default database filename.
	DBFile = "examdex.db"
)

// DBFileName returns the database filename for a given name.
// Empty name returns the default "examdex.db".
// A name like "2025" returns "examdex-2025.db".
// A name already ending in ".db" is returned as-is.
func DBFileName(name string) string {
	if name == "" {
		return DBFile
	}
	if strings.HasSuffix(name, ".db") {
		return name
	}
	return "examdex-" + name + ".db"
}

// ErrNotInitialised is returned when no examdex archive is found.
var ErrNotInitialised = errors.New("examdex not initialised (run 'examdex init')")

// Init creates a new archive database and its schema. Config is not
// written; that is "examdex config"'s job.
//
// Parameters:
//   - force: reinitialise an existing archive (its data is lost)
//   - db: database name (empty for default "examdex.db")
//   - local: add database to .gitignore (not committed)
//   - dir: target directory (empty for current directory)
func Init(force bool, db string, local bool, dir string) error {
	if dir == "" {
		dir = "."
	}
	archiveDir := filepath.Join(dir, Dir)
	dbPath := filepath.Join(archiveDir, DBFileName(db))

	// Check if already exists
	if _, err := os.Stat(dbPath); err == nil {
		if !force {
			return fmt.Errorf("database %s already exists (use --force to reinitialise)", DBFileName(db))
		}
		// Remove existing DB for reinit
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("remove database: %w", err)
		}
	}

	// Create directory
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	// Create and initialise DB
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	if err := s.Init(); err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	// Only written on first init so local database markers survive.
	gitignore := filepath.Join(archiveDir, ".gitignore")
	if _, err := os.Stat(gitignore); os.IsNotExist(err) {
		s := `# examdex - local config and SQLite sidecar files
config.yaml
*.db-wal
*.db-shm
`
		if err := os.WriteFile(gitignore, []byte(s), 0644); err != nil {
			return fmt.Errorf("write gitignore: %w", err)
		}
	}

	if local {
		if err := IgnoreDB(db, archiveDir); err != nil {
			return fmt.Errorf("ignore database: %w", err)
		}
	}

	return nil
}

// Discover walks up the directory tree looking for a .examdex database.
// The db parameter specifies which database to find (empty for default).
// Returns the full path to the database if found.
func Discover(db string) (string, error) {
	dbFile := DBFileName(db)
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		dbPath := filepath.Join(dir, Dir, dbFile)
		if _, err := os.Stat(dbPath); err == nil {
			return dbPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}

// Locate returns the database path for db under dir, or Discover(db) when
// dir is empty. Returns ErrNotInitialised if the database does not exist.
func Locate(db, dir string) (string, error) {
	if dir == "" {
		return Discover(db)
	}
	dbPath := filepath.Join(dir, Dir, DBFileName(db))
	if _, err := os.Stat(dbPath); err != nil {
		return "", ErrNotInitialised
	}
	return dbPath, nil
}

// DiscoverDir finds the .examdex directory, walking up the tree.
func DiscoverDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		archiveDir := filepath.Join(dir, Dir)
		if info, err := os.Stat(archiveDir); err == nil && info.IsDir() {
			return archiveDir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}

// DBInfo holds database metadata.
type DBInfo struct {
	Name  string `json:"name"`  // Short name (empty for default, "2025" for examdex-2025.db)
	File  string `json:"file"`  // Filename (examdex.db, examdex-2025.db)
	Path  string `json:"path"`  // Full path
	Local bool   `json:"local"` // True if gitignored
}

// ListDBs returns all archive databases in the .examdex directory.
// If dir is empty, discovers the .examdex directory from the working directory.
func ListDBs(dir string) ([]DBInfo, error) {
	dir, err := archiveDir(dir)
	if err != nil {
		return nil, fmt.Errorf("discover .examdex directory: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read .examdex directory: %w", err)
	}

	local := localDBs(dir)
	var dbs []DBInfo
	for _, e := range entries {
		file := e.Name()
		var name string
		switch {
		case file == DBFile:
		case strings.HasPrefix(file, "examdex-") && strings.HasSuffix(file, ".db"):
			name = strings.TrimSuffix(strings.TrimPrefix(file, "examdex-"), ".db")
		default:
			continue
		}
		dbs = append(dbs, DBInfo{
			Name:  name,
			File:  file,
			Path:  filepath.Join(dir, file),
			Local: local[file],
		})
	}

	return dbs, nil
}
