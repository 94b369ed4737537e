// Package catalog is the catalog-aware schema model: immutable entity
// records for every object PostgreSQL exposes through pg_catalog, a
// stable content hash per entity, and the idempotent CREATE/DROP DDL
// each entity knows how to emit for itself.
//
// The package never talks to a database and never mutates the records it
// is given; it is a pure transform from data to text, consumed by
// package diff for the ALTER-synthesis side of schema comparison.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lowerCaser = cases.Lower(language.Und)

// QuoteIdent wraps s in double quotes, doubling any embedded double quote,
// per the normative identifier quoting rule in the migration spec (schemas,
// tables, columns, constraints, indexes, triggers, policies and roles are
// always quoted on emission; PostgreSQL folds unquoted identifiers to
// lowercase, so an identifier that is not already all-lowercase would
// change meaning if left unquoted).
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// QuoteQualifiedIdent quotes schema and name independently and joins them
// with a dot, e.g. "public"."users".
func QuoteQualifiedIdent(schema, name string) string {
	return QuoteIdent(schema) + "." + QuoteIdent(name)
}

// EscapeLiteral doubles any embedded single quote. Callers are responsible
// for wrapping the result in the surrounding single quotes; splitting the
// two concerns keeps callers that need to build `'...'::type` casts or
// concatenations from double-wrapping.
func EscapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// QuoteLiteral wraps s in single quotes after escaping it.
func QuoteLiteral(s string) string {
	return "'" + EscapeLiteral(s) + "'"
}

// needsQuoting reports whether s would change meaning if emitted
// unquoted: PostgreSQL's unquoted-identifier folding is ASCII lowercase,
// so any identifier that isn't already its own lowercase form, or that
// contains a character outside [a-z0-9_], must be quoted to preserve
// identity. The core always quotes regardless (spec normative rule); this
// helper exists for diagnostics and tests that check the quoting
// invariant from spec.md §8.
func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	if lowerCaser.String(s) != s {
		return true
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		case r == '_':
		default:
			return true
		}
	}
	return false
}
