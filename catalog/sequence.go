package catalog

import "fmt"

// Sequence models a PostgreSQL sequence, including the ownership link
// used by SERIAL/IDENTITY columns.
type Sequence struct {
	Schema string
	Name   string
	Owner  string

	DataType  string
	Start     int64
	Min       int64
	Max       int64
	Increment int64
	Cycle     bool
	CacheSize int64
	LastValue int64

	OwnedBySchema *string
	OwnedByTable  *string
	OwnedByColumn *string

	IsIdentity bool
	Comment    *string
}

func (s Sequence) qualifiedName() string { return QuoteQualifiedIdent(s.Schema, s.Name) }

// Hash digests the sequence's defining fields. LastValue is excluded
// deliberately: it is runtime state (how far the sequence has advanced),
// not a schema-defining property, and re-running a diff must not flag a
// sequence as changed purely because rows were inserted. Owner and
// Comment are not digested either.
func (s Sequence) Hash() string {
	return newHash128().
		str(s.Schema).str(s.Name).
		str(s.DataType).
		i64(s.Start).i64(s.Min).i64(s.Max).i64(s.Increment).
		boolean(s.Cycle).i64(s.CacheSize).
		optStr(s.OwnedBySchema).optStr(s.OwnedByTable).optStr(s.OwnedByColumn).
		boolean(s.IsIdentity).
		sum()
}

// Script emits CREATE SEQUENCE followed by an OWNED BY clause when the
// sequence is linked to a column (spec.md §7 supplemented feature: the
// original Rust dumper emits sequence ownership, the distilled spec
// modeled the fields but never wired an operation to them).
func (s Sequence) Script() string {
	out := fmt.Sprintf(
		"create sequence if not exists %s as %s start with %d increment by %d minvalue %d maxvalue %d cache %d",
		s.qualifiedName(), s.DataType, s.Start, s.Increment, s.Min, s.Max, max64(s.CacheSize, 1),
	)
	if s.Cycle {
		out += " cycle"
	} else {
		out += " no cycle"
	}
	out += ";\n"
	if s.OwnedByTable != nil && s.OwnedByColumn != nil {
		schema := s.Schema
		if s.OwnedBySchema != nil {
			schema = *s.OwnedBySchema
		}
		out += "alter sequence " + s.qualifiedName() + " owned by " +
			QuoteQualifiedIdent(schema, *s.OwnedByTable) + "." + QuoteIdent(*s.OwnedByColumn) + ";\n"
	}
	if s.Comment != nil {
		out += "comment on sequence " + s.qualifiedName() + " is " + QuoteLiteral(*s.Comment) + ";\n"
	}
	return out
}

// DropScript emits an idempotent DROP SEQUENCE statement.
func (s Sequence) DropScript() string {
	return "drop sequence if exists " + s.qualifiedName() + ";\n"
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
