// Package cache persists the install-time variables between the configure
// run and the later install run.
//
// The file holds one NAME = 'value' assignment per line, which is valid
// TOML; it is parsed with BurntSushi/toml and written as literal strings
// so a value survives a round trip unchanged.
package cache

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tsukumogami/buildvars/internal/errmsg"
	"github.com/tsukumogami/buildvars/internal/log"
)

// DefaultFileName is the cache file name in the working directory.
const DefaultFileName = "buildvars_variables_cache.conf"

// Key declares one cache entry.
type Key struct {
	Name string // Key in the file (e.g., "MYCACHEDDIR")
	Var  string // Internal variable it persists (e.g., "destdir")
	Help string // Human-readable description
}

// Record is the in-memory content of the cache file for a declared key set.
type Record struct {
	keys   []Key
	values map[string]string
}

// Get returns the value stored under key, or "".
func (r *Record) Get(key string) string {
	return r.values[key]
}

// Set stores value under key. Undeclared keys are not saved.
func (r *Record) Set(key, value string) {
	r.values[key] = value
}

// Keys returns the declared keys in declaration order.
func (r *Record) Keys() []Key {
	return append([]Key(nil), r.keys...)
}

// Complete reports whether every declared key has a non-empty value.
func (r *Record) Complete() bool {
	for _, k := range r.keys {
		if r.values[k.Name] == "" {
			return false
		}
	}
	return true
}

// Cache reads and writes one cache file.
type Cache struct {
	path   string
	keys   []Key
	logger log.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger for cache diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New returns a Cache for the file at path holding keys.
func New(path string, keys []Key, opts ...Option) *Cache {
	c := &Cache{path: path, keys: append([]Key(nil), keys...)}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// Path returns the cache file path.
func (c *Cache) Path() string {
	return c.path
}

// Load reads the cache file. A missing file yields a record with every key
// empty; keys in the file that were not declared are ignored.
func (c *Cache) Load() (*Record, error) {
	rec := &Record{keys: c.keys, values: make(map[string]string, len(c.keys))}
	for _, k := range c.keys {
		c.logger.Info("reading "+k.Var+" from cache as "+k.Name, "help", k.Help)
	}

	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		c.logger.Debug("no variables cache", "path", c.path)
		return rec, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read variables cache: %w", err)
	}

	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, errmsg.Wrap(errmsg.ErrTypeBadCacheFile, err, "parsing %s", c.path)
	}

	declared := make(map[string]bool, len(c.keys))
	for _, k := range c.keys {
		declared[k.Name] = true
	}
	for name, v := range raw {
		if !declared[name] {
			c.logger.Debug("ignoring undeclared cache key", "key", name)
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, errmsg.New(errmsg.ErrTypeBadCacheFile,
				"parsing %s: %s is not a string", c.path, name)
		}
		rec.values[name] = s
	}

	return rec, nil
}

// Save writes every declared key of rec to the cache file, replacing it.
func (c *Cache) Save(rec *Record) error {
	var buf bytes.Buffer
	for _, k := range c.keys {
		value := rec.Get(k.Name)
		c.logger.Info("saving "+k.Var+" to cache as "+k.Name, "value", value)
		line, err := assignment(k.Name, value)
		if err != nil {
			return err
		}
		buf.WriteString(line)
	}

	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write variables cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write variables cache: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set cache file mode: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("failed to replace variables cache: %w", err)
	}
	return nil
}

// assignment renders one NAME = 'value' line. Values a literal string
// cannot hold fall back to the encoder's escaped basic string.
func assignment(name, value string) (string, error) {
	if !strings.Contains(value, "'") && !hasControl(value) {
		return fmt.Sprintf("%s = '%s'\n", name, value), nil
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(map[string]string{name: value}); err != nil {
		return "", fmt.Errorf("failed to encode cache key %s: %w", name, err)
	}
	return buf.String(), nil
}

func hasControl(s string) bool {
	for _, r := range s {
		if (r < 0x20 && r != '\t') || r == 0x7f {
			return true
		}
	}
	return false
}
