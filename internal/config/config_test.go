package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	var c Config
	assert.Equal(t, 15, c.DefaultAmount())
	assert.Equal(t, 30, c.MaxAmount())
	assert.Equal(t, 5*time.Second, c.Timeout())
	assert.Equal(t, 15, c.MinWords())
	assert.Equal(t, 35, c.MaxWords())
	assert.Equal(t, 5, c.MaxFragments())
	assert.Equal(t, 1, c.ReplyMinWords())
	assert.Equal(t, 2, c.ReplyMaxWords())
	assert.Equal(t, BackendSQLite, c.Backend())
	assert.NoError(t, c.Validate())
}

func TestSetGet(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"search.default_amount", "10", "10"},
		{"search.max_amount", "20", "20"},
		{"search.timeout", "750ms", "750ms"},
		{"search.timeout", "0s", "0s"},
		{"excerpt.max_fragments", "3", "3"},
		{"excerpt.reply_max_words", "8", "8"},
		{"index.backend", "manticore", "manticore"},
		{"index.manticore_dsn", "tcp(db:9306)/", "tcp(db:9306)/"},
		{"user.name", "alice", "alice"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			var c Config
			require.NoError(t, c.Set(tt.key, tt.value))
			got, err := c.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, c.IsSet(tt.key))
		})
	}
}

func TestSetErrors(t *testing.T) {
	tests := []struct {
		name, key, value string
		want             error
	}{
		{"unknown key", "author.name", "x", ErrUnknownKey},
		{"not a number", "search.max_amount", "many", ErrInvalidValue},
		{"zero", "excerpt.min_words", "0", ErrInvalidValue},
		{"above cap", "search.max_amount", "31", ErrInvalidValue},
		{"default equal to max", "search.default_amount", "30", nil},
		{"bad timeout", "search.timeout", "soon", ErrInvalidValue},
		{"negative timeout", "search.timeout", "-1s", ErrInvalidValue},
		{"bad backend", "index.backend", "lucene", ErrInvalidValue},
		{"min above max", "excerpt.min_words", "40", ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			err := c.Set(tt.key, tt.value)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, c.IsSet(tt.key), "failed Set must leave config unchanged")
		})
	}

	t.Run("conflict with existing key", func(t *testing.T) {
		var c Config
		require.NoError(t, c.Set("search.max_amount", "10"))
		err := c.Set("search.default_amount", "12")
		assert.ErrorIs(t, err, ErrInvalidValue)
		assert.Equal(t, 10, c.DefaultAmount())
	})
}

func TestGetUnknown(t *testing.T) {
	var c Config
	_, err := c.Get("sync.files")
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.False(t, c.IsSet("sync.files"))
}

func TestAllCoversValidKeys(t *testing.T) {
	var c Config
	all := c.All()
	assert.Len(t, all, len(ValidKeys()))
	for _, k := range ValidKeys() {
		assert.Contains(t, all, k)
		assert.True(t, IsValidKey(k))
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	c, err := loadPath(path, ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, ScopeLocal, c.Scope())

	require.NoError(t, c.Set("search.max_amount", "25"))
	require.NoError(t, c.Set("user.name", "bob"))
	require.NoError(t, c.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_amount: 25")
	assert.NotContains(t, string(data), "excerpt", "unset sections are omitted")

	again, err := loadPath(path, ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, 25, again.MaxAmount())
	assert.Equal(t, "bob", again.User.Name)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()

	malformed := filepath.Join(dir, "malformed.yaml")
	require.NoError(t, os.WriteFile(malformed, []byte("search: [\n"), 0644))
	_, err := loadPath(malformed, ScopeLocal)
	assert.ErrorContains(t, err, "malformed config file")

	outOfRange := filepath.Join(dir, "range.yaml")
	require.NoError(t, os.WriteFile(outOfRange, []byte("search:\n  max_amount: 500\n"), 0644))
	_, err = loadPath(outOfRange, ScopeLocal)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestSaveWithoutPath(t *testing.T) {
	c := &Config{scope: Scope(99)}
	assert.ErrorIs(t, c.Save(), ErrNoConfigPath)
	assert.ErrorIs(t, c.SaveScope(Scope(99)), ErrNoConfigPath)
}
