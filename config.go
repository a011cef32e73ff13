package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the full TOML-driven translator configuration.
type Config struct {
	Environment      string            `toml:"environment"`
	MigrationsDir    string            `toml:"migrations_dir"`
	MigrationVersion string            `toml:"migration_version"`
	Diff             DiffConfig        `toml:"diff"`
	TypeMapping      TypeMappingConfig `toml:"type_mapping"`

	// configDir is the directory containing the TOML file, used to resolve relative paths.
	configDir string
}

// DiffConfig describes how to invoke the external schema-diffing tool and
// how to recognize the statements it proposes to apply.
type DiffConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`   // "{env}" is replaced with the environment name
	Marker  string   `toml:"marker"` // line prefix the tool prints before each statement
}

// TypeMappingConfig carries per-project overrides of the built-in
// source-type → migration-DSL type table.
type TypeMappingConfig struct {
	Overrides map[string]string `toml:"overrides"`
}

var migrationVersionRe = regexp.MustCompile(`^\d+\.\d+$`)

// loadConfig reads a TOML config file and returns a Config with defaults applied.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Config{
		Environment:      "development",
		MigrationsDir:    "db/migrate",
		MigrationVersion: "7.0",
		Diff: DiffConfig{
			Marker: "Applying:",
		},
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if unknown := md.Undecoded(); len(unknown) > 0 {
		keys := make([]string, len(unknown))
		for i, k := range unknown {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg.configDir = filepath.Dir(absPath)

	cfg.Diff.Command = strings.TrimSpace(cfg.Diff.Command)
	if cfg.Diff.Command == "" {
		return nil, fmt.Errorf("diff.command is required")
	}
	if cfg.Diff.Marker == "" {
		return nil, fmt.Errorf("diff.marker must not be empty")
	}

	cfg.Environment = strings.TrimSpace(cfg.Environment)
	if cfg.Environment == "" {
		return nil, fmt.Errorf("environment must not be empty")
	}

	cfg.MigrationsDir = strings.TrimSpace(cfg.MigrationsDir)
	if cfg.MigrationsDir == "" {
		return nil, fmt.Errorf("migrations_dir must not be empty")
	}

	if !migrationVersionRe.MatchString(cfg.MigrationVersion) {
		return nil, fmt.Errorf("migration_version must look like \"7.0\", got %q", cfg.MigrationVersion)
	}

	for src := range cfg.TypeMapping.Overrides {
		if strings.TrimSpace(src) == "" {
			return nil, fmt.Errorf("type_mapping.overrides contains an empty source type")
		}
	}

	return &cfg, nil
}

// resolvePath resolves a path relative to the config file directory.
func (c *Config) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.configDir, p)
}
