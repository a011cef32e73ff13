package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schemaplan.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, `
[diff]
command = "schemadiff"
args = ["--env", "{env}", "--dry-run"]
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.MigrationsDir != "db/migrate" {
		t.Errorf("MigrationsDir = %q, want db/migrate", cfg.MigrationsDir)
	}
	if cfg.MigrationVersion != "7.0" {
		t.Errorf("MigrationVersion = %q, want 7.0", cfg.MigrationVersion)
	}
	if cfg.Diff.Marker != "Applying:" {
		t.Errorf("Diff.Marker = %q, want Applying:", cfg.Diff.Marker)
	}
}

func TestLoadConfigFull(t *testing.T) {
	path := writeConfigFile(t, `
environment = "staging"
migrations_dir = "migrations"
migration_version = "8.0"

[diff]
command = "schemadiff"
args = ["apply", "{env}", "--dry-run"]
marker = "-- run:"

[type_mapping]
overrides = { datetime = "timestamptz" }
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Environment != "staging" || cfg.MigrationVersion != "8.0" {
		t.Errorf("config not applied: %+v", cfg)
	}
	if cfg.Diff.Marker != "-- run:" {
		t.Errorf("Diff.Marker = %q", cfg.Diff.Marker)
	}
	if cfg.TypeMapping.Overrides["datetime"] != "timestamptz" {
		t.Errorf("overrides not decoded: %v", cfg.TypeMapping.Overrides)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfigFile(t, `
migration_dir = "typo"

[diff]
command = "schemadiff"
`)
	_, err := loadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "unknown config keys") {
		t.Fatalf("loadConfig() error = %v, want unknown key rejection", err)
	}
}

func TestLoadConfigRequiresDiffCommand(t *testing.T) {
	path := writeConfigFile(t, `environment = "development"`)
	_, err := loadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "diff.command is required") {
		t.Fatalf("loadConfig() error = %v, want diff.command requirement", err)
	}
}

func TestLoadConfigRejectsBadVersion(t *testing.T) {
	path := writeConfigFile(t, `
migration_version = "seven"

[diff]
command = "schemadiff"
`)
	if _, err := loadConfig(path); err == nil {
		t.Fatal("loadConfig() accepted a malformed migration_version")
	}
}

func TestResolvePath(t *testing.T) {
	path := writeConfigFile(t, `
[diff]
command = "schemadiff"
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	got := cfg.resolvePath("db/migrate")
	if got != filepath.Join(filepath.Dir(path), "db/migrate") {
		t.Errorf("resolvePath() = %q", got)
	}
	if abs := cfg.resolvePath("/tmp/migrations"); abs != "/tmp/migrations" {
		t.Errorf("absolute path rewritten: %q", abs)
	}
}
