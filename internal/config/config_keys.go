// config_keys.go provides key-value access to configuration settings.
//
// Keys are dotted YAML paths ("search.max_amount"). Optional numeric fields
// are pointers so an explicit value can be told apart from the default.

package config

import (
	"fmt"
	"slices"
	"strconv"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"search.default_amount", "search.max_amount", "search.timeout",
		"excerpt.min_words", "excerpt.max_words", "excerpt.max_fragments",
		"excerpt.reply_min_words", "excerpt.reply_max_words",
		"index.backend", "index.manticore_dsn",
		"user.name",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// intField returns the pointer slot backing an integer key.
func (c *Config) intField(key string) (**int, bool) {
	switch key {
	case "search.default_amount":
		return &c.Search.DefaultAmount, true
	case "search.max_amount":
		return &c.Search.MaxAmount, true
	case "excerpt.min_words":
		return &c.Excerpt.MinWords, true
	case "excerpt.max_words":
		return &c.Excerpt.MaxWords, true
	case "excerpt.max_fragments":
		return &c.Excerpt.MaxFragments, true
	case "excerpt.reply_min_words":
		return &c.Excerpt.ReplyMinWords, true
	case "excerpt.reply_max_words":
		return &c.Excerpt.ReplyMaxWords, true
	}
	return nil, false
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	if !IsValidKey(key) {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return c.All()[key], nil
}

// Set sets the value of a configuration key. The whole config is
// revalidated, so a value that conflicts with another key is rejected and
// leaves the config unchanged.
func (c *Config) Set(key, value string) error {
	next := *c
	if f, ok := next.intField(key); ok {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", ErrInvalidValue, key)
		}
		*f = &n
	} else {
		switch key {
		case "search.timeout":
			next.Search.Timeout = value
		case "index.backend":
			next.Index.Backend = value
		case "index.manticore_dsn":
			next.Index.ManticoreDSN = value
		case "user.name":
			next.User.Name = value
		default:
			return fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	return map[string]string{
		"search.default_amount":   strconv.Itoa(c.DefaultAmount()),
		"search.max_amount":       strconv.Itoa(c.MaxAmount()),
		"search.timeout":          c.Timeout().String(),
		"excerpt.min_words":       strconv.Itoa(c.MinWords()),
		"excerpt.max_words":       strconv.Itoa(c.MaxWords()),
		"excerpt.max_fragments":   strconv.Itoa(c.MaxFragments()),
		"excerpt.reply_min_words": strconv.Itoa(c.ReplyMinWords()),
		"excerpt.reply_max_words": strconv.Itoa(c.ReplyMaxWords()),
		"index.backend":           c.Backend(),
		"index.manticore_dsn":     c.Index.ManticoreDSN,
		"user.name":               c.User.Name,
	}
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	if f, ok := c.intField(key); ok {
		return *f != nil
	}
	switch key {
	case "search.timeout":
		return c.Search.Timeout != ""
	case "index.backend":
		return c.Index.Backend != ""
	case "index.manticore_dsn":
		return c.Index.ManticoreDSN != ""
	case "user.name":
		return c.User.Name != ""
	default:
		return false
	}
}
