package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected sqlite, got %s", cfg.Database.Driver)
	}
	if cfg.Database.Path != "stlref.db" {
		t.Errorf("expected stlref.db, got %s", cfg.Database.Path)
	}
	if cfg.Export.Dir != "site" {
		t.Errorf("expected site, got %s", cfg.Export.Dir)
	}
}

func TestLoadFromTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.toml")
	os.WriteFile(path, []byte(`
[database]
path = "catalog.db"

[export]
dir = "public"
`), 0644)

	cfg := Load(path)
	if cfg.Database.Path != "catalog.db" {
		t.Errorf("expected catalog.db, got %s", cfg.Database.Path)
	}
	if cfg.Export.Dir != "public" {
		t.Errorf("expected public, got %s", cfg.Export.Dir)
	}
	// Defaults preserved
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("default should be preserved, got %s", cfg.Database.Driver)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("STLREF_DB_PATH", "env.db")
	t.Setenv("STLREF_OBSERVER_ENABLED", "1")

	cfg := Load("/nonexistent/path.toml")
	if cfg.Database.Path != "env.db" {
		t.Errorf("expected env.db, got %s", cfg.Database.Path)
	}
	if !cfg.Observer.Enabled {
		t.Error("expected observer enabled")
	}
}

func TestURLImpliesPostgres(t *testing.T) {
	t.Setenv("STLREF_DB_URL", "postgres://localhost/stlref")

	cfg := Load("/nonexistent/path.toml")
	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.Database.Driver)
	}
}
