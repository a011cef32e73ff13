package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrDiffUnavailable reports that the external diff tool failed, so there is
// no plan to translate. Callers abort without writing anything.
var ErrDiffUnavailable = errors.New("schema diff unavailable")

// diffSource produces the external diff tool's dry-run output for an
// environment. Injected so the pipeline can be tested with canned output.
type diffSource func(ctx context.Context, env string) (string, error)

// execDiffSource returns a diffSource that shells out to the configured
// command, substituting "{env}" in each argument.
func execDiffSource(diff DiffConfig) diffSource {
	return func(ctx context.Context, env string) (string, error) {
		args := make([]string, len(diff.Args))
		for i, a := range diff.Args {
			args[i] = strings.ReplaceAll(a, "{env}", env)
		}

		cmd := exec.CommandContext(ctx, diff.Command, args...)
		var out bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrDiffUnavailable, diff.Command, err)
		}
		return out.String(), nil
	}
}

// extractStatements scans the diff tool's output and returns the ordered DDL
// statements it proposes to apply. A line carries a statement only if, after
// trimming, it starts with the marker and the text after the marker contains
// a DDL verb. Statements are trimmed but otherwise untouched: no
// normalization, no joining of multi-line statements.
func extractStatements(output, marker string) []RawStatement {
	var stmts []RawStatement
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, marker) {
			continue
		}
		stmt := strings.TrimSpace(strings.TrimPrefix(line, marker))
		if !containsDDLVerb(stmt) {
			continue
		}
		stmts = append(stmts, RawStatement{Position: len(stmts) + 1, Text: stmt})
	}
	return stmts
}

func containsDDLVerb(stmt string) bool {
	u := strings.ToUpper(stmt)
	return strings.Contains(u, "CREATE") ||
		strings.Contains(u, "ALTER") ||
		strings.Contains(u, "DROP")
}
