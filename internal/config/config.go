// Package config resolves the file locations of a buildvars run from the
// working directory and BUILDVARS_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsukumogami/buildvars/internal/cache"
	"github.com/tsukumogami/buildvars/internal/executor"
)

const (
	// EnvFile overrides the build description path
	EnvFile = "BUILDVARS_FILE"

	// EnvCacheFile overrides the variables cache file name
	EnvCacheFile = "BUILDVARS_CACHE_FILE"

	// EnvDBFile overrides the build database file name
	EnvDBFile = "BUILDVARS_DB_FILE"

	// DefaultCacheFile is the variables cache file name
	DefaultCacheFile = cache.DefaultFileName

	// DefaultDBFile is the build database file name
	DefaultDBFile = executor.DefaultDBFile
)

// Config holds the file locations of one run.
type Config struct {
	WorkDir         string // Directory the build runs in
	DescriptionFile string // Build description, "" to look it up in WorkDir
	CacheFile       string // WorkDir/buildvars_variables_cache.conf
	DBFile          string // WorkDir/.buildvars.db
}

// DefaultConfig returns the configuration for a run in workDir. An empty
// workDir means the current directory.
func DefaultConfig(workDir string) (*Config, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		workDir = wd
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	cfg := &Config{
		WorkDir:   abs,
		CacheFile: filepath.Join(abs, GetCacheFileName()),
		DBFile:    filepath.Join(abs, GetDBFileName()),
	}
	if f := os.Getenv(EnvFile); f != "" {
		cfg.DescriptionFile = f
		if !filepath.IsAbs(f) {
			cfg.DescriptionFile = filepath.Join(abs, f)
		}
	}
	return cfg, nil
}

// GetCacheFileName returns the cache file name from BUILDVARS_CACHE_FILE.
// If not set or not a plain file name, returns DefaultCacheFile.
func GetCacheFileName() string {
	return fileNameFromEnv(EnvCacheFile, DefaultCacheFile)
}

// GetDBFileName returns the build database file name from BUILDVARS_DB_FILE.
// If not set or not a plain file name, returns DefaultDBFile.
func GetDBFileName() string {
	return fileNameFromEnv(EnvDBFile, DefaultDBFile)
}

// fileNameFromEnv reads a file name that must stay inside the working
// directory, since clean only deletes files there.
func fileNameFromEnv(env, def string) string {
	envValue := os.Getenv(env)
	if envValue == "" {
		return def
	}

	if envValue != filepath.Base(envValue) || strings.HasPrefix(envValue, "..") {
		fmt.Fprintf(os.Stderr, "Warning: %s must be a plain file name, got %q, using default %s\n",
			env, envValue, def)
		return def
	}
	return envValue
}
