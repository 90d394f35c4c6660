// Package config provides reading and writing of examdex configuration.
// Supports both global (~/.examdex/config.yaml) and local (.examdex/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: defaults to global, use --local for local.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.examdex/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is archive-specific config in .examdex/config.yaml
	ScopeLocal
)

// Index backends.
const (
	BackendSQLite    = "sqlite"
	BackendManticore = "manticore"
)

// Search holds per-request search limits.
type Search struct {
	DefaultAmount *int   `yaml:"default_amount,omitempty"`
	MaxAmount     *int   `yaml:"max_amount,omitempty"`
	Timeout       string `yaml:"timeout,omitempty"`
}

// Excerpt holds highlight window sizes. Reply windows are separate because
// answers and comments are short.
type Excerpt struct {
	MinWords      *int `yaml:"min_words,omitempty"`
	MaxWords      *int `yaml:"max_words,omitempty"`
	MaxFragments  *int `yaml:"max_fragments,omitempty"`
	ReplyMinWords *int `yaml:"reply_min_words,omitempty"`
	ReplyMaxWords *int `yaml:"reply_max_words,omitempty"`
}

// Index selects the full-text backend.
type Index struct {
	Backend      string `yaml:"backend,omitempty"`
	ManticoreDSN string `yaml:"manticore_dsn,omitempty"`
}

// User holds the default requester.
type User struct {
	Name string `yaml:"name,omitempty"`
}

// Defaults applied when not configured.
const (
	DefaultAmount        = 15
	DefaultMaxAmount     = 30
	DefaultTimeout       = 5 * time.Second
	DefaultMinWords      = 15
	DefaultMaxWords      = 35
	DefaultMaxFragments  = 5
	DefaultReplyMinWords = 1
	DefaultReplyMaxWords = 2
)

// Validation bounds for configuration values.
const (
	MaxMaxAmount = 30
	MaxWords     = 1000
	MaxFragments = 100
	MaxTimeout   = 5 * time.Minute
)

// Config contains configuration for examdex.
type Config struct {
	Search  Search  `yaml:"search,omitempty"`
	Excerpt Excerpt `yaml:"excerpt,omitempty"`
	Index   Index   `yaml:"index,omitempty"`
	User    User    `yaml:"user,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

func checkInt(key string, p *int, lo, hi int) error {
	if p == nil {
		return nil
	}
	if *p < lo || *p > hi {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrInvalidValue, key, lo, hi, *p)
	}
	return nil
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	checks := []error{
		checkInt("search.default_amount", c.Search.DefaultAmount, 1, MaxMaxAmount),
		checkInt("search.max_amount", c.Search.MaxAmount, 1, MaxMaxAmount),
		checkInt("excerpt.min_words", c.Excerpt.MinWords, 1, MaxWords),
		checkInt("excerpt.max_words", c.Excerpt.MaxWords, 1, MaxWords),
		checkInt("excerpt.max_fragments", c.Excerpt.MaxFragments, 1, MaxFragments),
		checkInt("excerpt.reply_min_words", c.Excerpt.ReplyMinWords, 1, MaxWords),
		checkInt("excerpt.reply_max_words", c.Excerpt.ReplyMaxWords, 1, MaxWords),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if c.DefaultAmount() > c.MaxAmount() {
		return fmt.Errorf("%w: search.default_amount (%d) exceeds search.max_amount (%d)",
			ErrInvalidValue, c.DefaultAmount(), c.MaxAmount())
	}
	if c.MinWords() > c.MaxWords() {
		return fmt.Errorf("%w: excerpt.min_words exceeds excerpt.max_words", ErrInvalidValue)
	}
	if c.ReplyMinWords() > c.ReplyMaxWords() {
		return fmt.Errorf("%w: excerpt.reply_min_words exceeds excerpt.reply_max_words", ErrInvalidValue)
	}
	if c.Search.Timeout != "" {
		if _, err := parseTimeout(c.Search.Timeout); err != nil {
			return err
		}
	}
	switch c.Index.Backend {
	case "", BackendSQLite, BackendManticore:
	default:
		return fmt.Errorf("%w: index.backend must be %s or %s, got %q",
			ErrInvalidValue, BackendSQLite, BackendManticore, c.Index.Backend)
	}
	return nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 || d > MaxTimeout {
		return 0, fmt.Errorf("%w: search.timeout must be a duration between 0s and %s, got %q",
			ErrInvalidValue, MaxTimeout, s)
	}
	return d, nil
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// DefaultAmount returns the per-kind result count used when a request names none (defaults to 15).
func (c *Config) DefaultAmount() int { return intOr(c.Search.DefaultAmount, DefaultAmount) }

// MaxAmount returns the per-kind result cap (defaults to 30).
func (c *Config) MaxAmount() int { return intOr(c.Search.MaxAmount, DefaultMaxAmount) }

// Timeout returns the per-kind search deadline (defaults to 5s). Zero
// disables the deadline.
func (c *Config) Timeout() time.Duration {
	if c.Search.Timeout == "" {
		return DefaultTimeout
	}
	d, err := parseTimeout(c.Search.Timeout)
	if err != nil {
		return DefaultTimeout
	}
	return d
}

func (c *Config) MinWords() int      { return intOr(c.Excerpt.MinWords, DefaultMinWords) }
func (c *Config) MaxWords() int      { return intOr(c.Excerpt.MaxWords, DefaultMaxWords) }
func (c *Config) MaxFragments() int  { return intOr(c.Excerpt.MaxFragments, DefaultMaxFragments) }
func (c *Config) ReplyMinWords() int { return intOr(c.Excerpt.ReplyMinWords, DefaultReplyMinWords) }
func (c *Config) ReplyMaxWords() int { return intOr(c.Excerpt.ReplyMaxWords, DefaultReplyMaxWords) }

// Backend returns the configured index backend (defaults to sqlite).
func (c *Config) Backend() string {
	if c.Index.Backend == "" {
		return BackendSQLite
	}
	return c.Index.Backend
}

// LocalPath returns the path to the local (archive) config file.
func LocalPath() string {
	return filepath.Join(".examdex", "config.yaml")
}

// GlobalPath returns the path to the global (user) config file: ~/.examdex/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".examdex", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	return loadPath(pathForScope(scope), scope)
}

func loadPath(path string, scope Scope) (*Config, error) {
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the specified scope.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// pathForScope returns the filesystem path for a given scope.
func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
