package main

import (
	"fmt"
	"strings"
)

// TypeSpec is a source-dialect type token plus its optional numeric
// parameters: one param for a length, two for precision and scale.
type TypeSpec struct {
	Base   string
	Params []int64
}

func (s TypeSpec) String() string {
	if len(s.Params) == 0 {
		return s.Base
	}
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return fmt.Sprintf("%s(%s)", s.Base, strings.Join(parts, ","))
}

// slotKind says which parameter keywords a target type accepts.
type slotKind int

const (
	slotNone slotKind = iota
	slotLimit
	slotPrecisionScale
)

// targetType is a migration-DSL type token plus its parameter slot.
type targetType struct {
	token string
	slot  slotKind
}

// TypeMap maps lowercase source type spellings to target tokens. It is an
// explicit value handed to the renderer, not package state, so alternate
// dialect mappings can be tested and configured.
type TypeMap map[string]targetType

func defaultTypeMap() TypeMap {
	return TypeMap{
		"varchar":    {token: "string", slot: slotLimit},
		"char":       {token: "string", slot: slotLimit},
		"tinytext":   {token: "text"},
		"text":       {token: "text"},
		"mediumtext": {token: "text"},
		"longtext":   {token: "text"},

		"tinyint":   {token: "integer"},
		"smallint":  {token: "integer"},
		"mediumint": {token: "integer"},
		"int":       {token: "integer"},
		"integer":   {token: "integer"},
		"bigint":    {token: "bigint"},

		"decimal": {token: "decimal", slot: slotPrecisionScale},
		"numeric": {token: "decimal", slot: slotPrecisionScale},
		"float":   {token: "float"},
		"double":  {token: "float"},
		"real":    {token: "float"},

		"date":      {token: "date"},
		"time":      {token: "time"},
		"datetime":  {token: "datetime"},
		"timestamp": {token: "datetime"},

		"binary":     {token: "binary", slot: slotLimit},
		"varbinary":  {token: "binary", slot: slotLimit},
		"tinyblob":   {token: "binary"},
		"blob":       {token: "binary"},
		"mediumblob": {token: "binary"},
		"longblob":   {token: "binary"},

		"bool":    {token: "boolean"},
		"boolean": {token: "boolean"},
		"json":    {token: "json"},
	}
}

// withOverrides returns a copy of the map with per-project token overrides
// applied. An override keeps the default entry's parameter slot when the
// source type is known, so lengths still carry through.
func (tm TypeMap) withOverrides(overrides map[string]string) TypeMap {
	out := make(TypeMap, len(tm)+len(overrides))
	for k, v := range tm {
		out[k] = v
	}
	for src, token := range overrides {
		src = strings.ToLower(strings.TrimSpace(src))
		entry := targetType{token: strings.TrimSpace(token)}
		if existing, ok := out[src]; ok {
			entry.slot = existing.slot
		}
		out[src] = entry
	}
	return out
}

// resolve looks up a source type. An unknown type is passed through with its
// original spelling as the token (best-effort) rather than failing.
func (tm TypeMap) resolve(spec TypeSpec) (targetType, bool) {
	if entry, ok := tm[spec.Base]; ok {
		return entry, true
	}
	return targetType{token: spec.Base}, false
}
