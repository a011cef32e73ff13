package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RawStatement is a single DDL statement string as emitted by the diff tool,
// with its 1-based position in the plan.
type RawStatement struct {
	Position int
	Text     string
}

// OpKind discriminates the supported DDL statement shapes.
type OpKind int

const (
	OpCreateTable OpKind = iota
	OpDropTable
	OpAddColumn
	OpDropColumn
	OpCreateIndex
	OpDropIndex
	OpUnclassified
)

// ClassifiedOperation is the structured form of one raw statement. Which
// fields are set depends on Kind; Raw is always carried so the unclassified
// fallback can reproduce the statement byte-for-byte.
type ClassifiedOperation struct {
	Kind   OpKind
	Table  string
	Column string
	Index  string
	Type   TypeSpec
	Unique bool
	Raw    RawStatement
}

// ident matches an optionally backtick- or double-quote-wrapped identifier.
const ident = "[`\"]?([A-Za-z0-9_$.]+)[`\"]?"

// reservedColumnWords are keywords that can follow ALTER TABLE ... ADD/DROP
// where a column name would. A match on one of these is a constraint or
// index clause, not a column operation, and must take the verbatim fallback.
var reservedColumnWords = map[string]bool{
	"constraint": true,
	"index":      true,
	"key":        true,
	"primary":    true,
	"unique":     true,
	"foreign":    true,
	"fulltext":   true,
	"spatial":    true,
	"check":      true,
}

type ddlPattern struct {
	re    *regexp.Regexp
	build func(m []string, raw RawStatement) (ClassifiedOperation, error)
}

// ddlPatterns is tried in order and the first structural match wins. The
// order is load-bearing: CREATE UNIQUE INDEX must be attempted before plain
// CREATE INDEX so a unique index is never classified as a non-unique one.
var ddlPatterns = []ddlPattern{
	{
		re: regexp.MustCompile(`(?i)^CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?` + ident),
		build: func(m []string, raw RawStatement) (ClassifiedOperation, error) {
			return ClassifiedOperation{Kind: OpCreateTable, Table: normalizeIdent(m[1]), Raw: raw}, nil
		},
	},
	{
		re: regexp.MustCompile(`(?i)^DROP\s+TABLE\s+(?:IF\s+EXISTS\s+)?` + ident),
		build: func(m []string, raw RawStatement) (ClassifiedOperation, error) {
			return ClassifiedOperation{Kind: OpDropTable, Table: normalizeIdent(m[1]), Raw: raw}, nil
		},
	},
	{
		re: regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+` + ident + `\s+ADD\s+(?:COLUMN\s+)?` + ident +
			`\s+([A-Za-z][A-Za-z0-9_]*)(?:\s*\(\s*(\d+)(?:\s*,\s*(\d+))?\s*\))?`),
		build: func(m []string, raw RawStatement) (ClassifiedOperation, error) {
			column := normalizeIdent(m[2])
			if reservedColumnWords[column] {
				// ADD CONSTRAINT/INDEX/PRIMARY KEY etc., not a column.
				return ClassifiedOperation{}, fmt.Errorf("not a column definition: %s", column)
			}
			spec, err := parseTypeSpec(m[3], m[4], m[5])
			if err != nil {
				return ClassifiedOperation{}, err
			}
			return ClassifiedOperation{
				Kind:   OpAddColumn,
				Table:  normalizeIdent(m[1]),
				Column: column,
				Type:   spec,
				Raw:    raw,
			}, nil
		},
	},
	{
		re: regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+` + ident + `\s+DROP\s+(?:COLUMN\s+)?` + ident),
		build: func(m []string, raw RawStatement) (ClassifiedOperation, error) {
			column := normalizeIdent(m[2])
			if reservedColumnWords[column] {
				// DROP INDEX/FOREIGN KEY/PRIMARY KEY etc., not a column.
				return ClassifiedOperation{}, fmt.Errorf("not a column reference: %s", column)
			}
			return ClassifiedOperation{
				Kind:   OpDropColumn,
				Table:  normalizeIdent(m[1]),
				Column: column,
				Raw:    raw,
			}, nil
		},
	},
	{
		re: regexp.MustCompile(`(?i)^CREATE\s+UNIQUE\s+INDEX\s+` + ident + `\s+ON\s+` + ident + `\s*\(\s*` + ident + `\s*\)`),
		build: func(m []string, raw RawStatement) (ClassifiedOperation, error) {
			return ClassifiedOperation{
				Kind:   OpCreateIndex,
				Index:  normalizeIdent(m[1]),
				Table:  normalizeIdent(m[2]),
				Column: normalizeIdent(m[3]),
				Unique: true,
				Raw:    raw,
			}, nil
		},
	},
	{
		re: regexp.MustCompile(`(?i)^CREATE\s+INDEX\s+` + ident + `\s+ON\s+` + ident + `\s*\(\s*` + ident + `\s*\)`),
		build: func(m []string, raw RawStatement) (ClassifiedOperation, error) {
			return ClassifiedOperation{
				Kind:   OpCreateIndex,
				Index:  normalizeIdent(m[1]),
				Table:  normalizeIdent(m[2]),
				Column: normalizeIdent(m[3]),
				Raw:    raw,
			}, nil
		},
	},
	{
		re: regexp.MustCompile(`(?i)^DROP\s+INDEX\s+(?:IF\s+EXISTS\s+)?` + ident),
		build: func(m []string, raw RawStatement) (ClassifiedOperation, error) {
			return ClassifiedOperation{Kind: OpDropIndex, Index: normalizeIdent(m[1]), Raw: raw}, nil
		},
	},
}

// classify maps one raw statement to exactly one operation. A statement that
// matches no pattern, or whose numeric type parameters fail to parse, becomes
// OpUnclassified — never an error, so one odd statement cannot block the
// rest of the plan.
func classify(raw RawStatement) ClassifiedOperation {
	text := strings.TrimSpace(raw.Text)
	for _, p := range ddlPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		op, err := p.build(m, raw)
		if err != nil {
			break
		}
		return op
	}
	return ClassifiedOperation{Kind: OpUnclassified, Raw: raw}
}

// normalizeIdent strips quoting characters and lower-cases an identifier for
// the target representation.
func normalizeIdent(s string) string {
	s = strings.Trim(s, "`\"")
	return strings.ToLower(s)
}

func parseTypeSpec(base, first, second string) (TypeSpec, error) {
	spec := TypeSpec{Base: strings.ToLower(base)}
	for _, p := range []string{first, second} {
		if p == "" {
			continue
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return TypeSpec{}, fmt.Errorf("type parameter %q: %w", p, err)
		}
		spec.Params = append(spec.Params, n)
	}
	return spec, nil
}

// summarizeOperation is the one-line, human-readable form printed before the
// migration is written.
func summarizeOperation(op ClassifiedOperation) string {
	switch op.Kind {
	case OpCreateTable:
		return fmt.Sprintf("create table %s", op.Table)
	case OpDropTable:
		return fmt.Sprintf("drop table %s", op.Table)
	case OpAddColumn:
		return fmt.Sprintf("add column %s.%s %s", op.Table, op.Column, op.Type)
	case OpDropColumn:
		return fmt.Sprintf("drop column %s.%s", op.Table, op.Column)
	case OpCreateIndex:
		if op.Unique {
			return fmt.Sprintf("create unique index %s on %s(%s)", op.Index, op.Table, op.Column)
		}
		return fmt.Sprintf("create index %s on %s(%s)", op.Index, op.Table, op.Column)
	case OpDropIndex:
		return fmt.Sprintf("drop index %s", op.Index)
	default:
		return fmt.Sprintf("verbatim: %s", op.Raw.Text)
	}
}
