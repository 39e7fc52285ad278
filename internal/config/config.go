// Package config holds runtime configuration for the stlref commands.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Export   ExportConfig   `toml:"export"`
	Observer ObserverConfig `toml:"observer"`
}

type DatabaseConfig struct {
	// Driver selects the store backend: "sqlite" or "postgres".
	Driver string `toml:"driver"`
	// Path is the SQLite database file.
	Path string `toml:"path"`
	// URL is the Postgres connection string when driver is "postgres".
	URL string `toml:"url"`
}

type ExportConfig struct {
	// Dir is where the HTML site is written.
	Dir string `toml:"dir"`
}

type ObserverConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Database: DatabaseConfig{Driver: "sqlite", Path: "stlref.db"},
		Export:   ExportConfig{Dir: "site"},
	}
}

// Load reads config: defaults -> TOML file -> env vars (env wins).
// A missing or unreadable file leaves the defaults in place.
func Load(path string) Config {
	cfg := Default()

	if path == "" {
		path = "stlref.toml"
	}

	if data, err := os.ReadFile(path); err == nil {
		_ = toml.Unmarshal(data, &cfg)
	}

	// Env overrides
	if v := os.Getenv("STLREF_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("STLREF_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("STLREF_DB_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("STLREF_EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
	if os.Getenv("STLREF_OBSERVER_ENABLED") == "true" || os.Getenv("STLREF_OBSERVER_ENABLED") == "1" {
		cfg.Observer.Enabled = true
	}

	// A Postgres URL implies the Postgres driver unless set explicitly.
	if cfg.Database.URL != "" && cfg.Database.Driver == "sqlite" && os.Getenv("STLREF_DB_DRIVER") == "" {
		cfg.Database.Driver = "postgres"
	}

	return cfg
}
