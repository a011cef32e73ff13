package main

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"add bio to users", "add_bio_to_users"},
		{"Add   Bio\tTo Users", "add_bio_to_users"},
		{"schema change", "schema_change"},
		{"single", "single"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassNameFor(t *testing.T) {
	tests := []struct{ in, want string }{
		{"add bio to users", "AddBioToUsers"},
		{"schema change", "SchemaChange"},
		{"single", "Single"},
	}
	for _, tt := range tests {
		if got := classNameFor(tt.in); got != tt.want {
			t.Errorf("classNameFor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAssembleMigration(t *testing.T) {
	rendered := []string{
		"create_table :teams do |t|\nend",
		"add_column :users, :bio, :string, limit: 500",
	}
	art, ok := assembleMigration("add bio", "7.0", rendered)
	if !ok {
		t.Fatal("assembleMigration() ok = false, want true")
	}

	if art.ClassName != "AddBio" || art.Slug != "add_bio" {
		t.Errorf("identity = %s/%s, want AddBio/add_bio", art.ClassName, art.Slug)
	}
	if !strings.HasPrefix(art.Body, "class AddBio < ActiveRecord::Migration[7.0]\n") {
		t.Errorf("missing class header:\n%s", art.Body)
	}
	if !strings.Contains(art.Body, "  def up\n") {
		t.Errorf("missing up section:\n%s", art.Body)
	}
	if !strings.Contains(art.Body, "    raise ActiveRecord::IrreversibleMigration\n") {
		t.Errorf("down section must raise:\n%s", art.Body)
	}

	// Operations keep their plan order.
	create := strings.Index(art.Body, "create_table :teams")
	add := strings.Index(art.Body, "add_column :users")
	if create < 0 || add < 0 || create > add {
		t.Errorf("operations out of order:\n%s", art.Body)
	}
}

func TestAssembleMigrationIdempotent(t *testing.T) {
	rendered := []string{"drop_table :teams", "execute <<-SQL\n  TRUNCATE TABLE logs\nSQL"}
	a, _ := assembleMigration("cleanup", "7.0", rendered)
	b, _ := assembleMigration("cleanup", "7.0", rendered)
	if a.Body != b.Body {
		t.Error("same inputs produced different bodies")
	}
}

func TestAssembleMigrationEmptyProducesNothing(t *testing.T) {
	if _, ok := assembleMigration("noop", "7.0", nil); ok {
		t.Error("assembleMigration() produced an artifact for an empty operation list")
	}
}

func TestWriteMigration(t *testing.T) {
	dir := t.TempDir()
	art, ok := assembleMigration("add bio to users", "7.0", []string{"drop_table :teams"})
	if !ok {
		t.Fatal("assembleMigration() ok = false")
	}

	now := time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC)
	path, err := writeMigration(filepath.Join(dir, "db", "migrate"), art, now)
	if err != nil {
		t.Fatalf("writeMigration() error: %v", err)
	}

	if filepath.Base(path) != "20260828150405_add_bio_to_users.rb" {
		t.Errorf("file name = %s", filepath.Base(path))
	}
	if !regexp.MustCompile(`\d{14}_[a-z0-9_]+\.rb$`).MatchString(path) {
		t.Errorf("path does not match <14-digit-ts>_<slug>.rb: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read written migration: %v", err)
	}
	if string(data) != art.Body {
		t.Error("written text differs from artifact body")
	}
}
