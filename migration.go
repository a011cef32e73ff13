package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// MigrationArtifact is the assembled migration: a class name, a
// filesystem-safe slug, and the full rendered source text. Its on-disk
// identity (timestamp + slug) is fixed at write time.
type MigrationArtifact struct {
	Name      string
	Slug      string
	ClassName string
	Body      string
}

// assembleMigration wraps the rendered operations, in their original plan
// order, into a migration class. The down action always raises: the
// translator never synthesizes an inverse plan — reverting means re-running
// the diff against a reverted schema description. Returns ok == false for an
// empty operation list; callers must then skip writing entirely.
func assembleMigration(name, version string, rendered []string) (MigrationArtifact, bool) {
	if len(rendered) == 0 {
		return MigrationArtifact{}, false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "class %s < ActiveRecord::Migration[%s]\n", classNameFor(name), version)
	b.WriteString("  def up\n")
	for _, block := range rendered {
		for _, line := range strings.Split(block, "\n") {
			b.WriteString("    ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	b.WriteString("  end\n")
	b.WriteString("\n")
	b.WriteString("  def down\n")
	b.WriteString("    raise ActiveRecord::IrreversibleMigration\n")
	b.WriteString("  end\n")
	b.WriteString("end\n")

	return MigrationArtifact{
		Name:      name,
		Slug:      slugify(name),
		ClassName: classNameFor(name),
		Body:      b.String(),
	}, true
}

// writeMigration persists the artifact under dir as
// <14-digit-UTC-timestamp>_<slug>.rb and returns the path. No overwrite
// check: same-second double writes are out of contract for this
// single-operator workflow.
func writeMigration(dir string, art MigrationArtifact, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create migrations dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.rb", now.UTC().Format("20060102150405"), art.Slug)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(art.Body), 0o644); err != nil {
		return "", fmt.Errorf("write migration: %w", err)
	}
	return path, nil
}

// slugify lower-cases the name and collapses whitespace runs to single
// underscores.
func slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// classNameFor capitalizes each whitespace-separated token and concatenates.
func classNameFor(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r, size := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(word[size:])
	}
	return b.String()
}
