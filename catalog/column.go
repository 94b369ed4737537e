package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// IdentityGeneration distinguishes GENERATED ALWAYS from GENERATED BY
// DEFAULT for identity columns.
type IdentityGeneration string

const (
	IdentityNone      IdentityGeneration = ""
	IdentityByDefault IdentityGeneration = "BY DEFAULT"
	IdentityAlways    IdentityGeneration = "ALWAYS"
)

// IdentityParams is the optional parenthesised parameter list following
// `generated ... as identity`.
type IdentityParams struct {
	Start     *int64
	Increment *int64
	MinValue  *int64
	MaxValue  *int64
	Cycle     bool
}

// GenerationKind distinguishes a stored generated column from an
// ordinary one.
type GenerationKind string

const (
	GenerationNone   GenerationKind = ""
	GenerationAlways GenerationKind = "ALWAYS"
)

// Column models one table column. DataType is the already-formatted base
// type name (e.g. "character varying", "numeric", "interval"); Length,
// Precision and Scale are the catalog's raw length/precision/scale
// triple, applied per the rules in spec.md §4.5.
type Column struct {
	Schema string
	Table  string
	Name   string
	Ordinal int

	DataType     string
	Length       *int
	Precision    *int
	Scale        *int
	IntervalType *string // e.g. "year to month", only meaningful when DataType contains "interval"

	Collation *string

	Default  *string
	Nullable bool

	Identity       IdentityGeneration
	IdentityParams IdentityParams

	GeneratedKind GenerationKind
	GeneratedExpr *string

	Updatable bool
	Comment   *string

	// DependentViews names views whose definition references this
	// column; informational only (spec.md §3), not part of Hash.
	DependentViews []string
}

// Hash digests every field that affects the column's generated DDL.
func (c Column) Hash() string {
	h := newHash256().
		str(c.Schema).str(c.Table).str(c.Name).
		u32(uint32(c.Ordinal)).
		str(c.DataType).
		optI32(intPtrToInt32(c.Length)).
		optI32(intPtrToInt32(c.Precision)).
		optI32(intPtrToInt32(c.Scale)).
		optStr(c.IntervalType).
		optStr(c.Collation).
		optStr(c.Default).
		boolean(c.Nullable).
		str(string(c.Identity)).
		optI64(c.IdentityParams.Start).
		optI64(c.IdentityParams.Increment).
		optI64(c.IdentityParams.MinValue).
		optI64(c.IdentityParams.MaxValue).
		boolean(c.IdentityParams.Cycle).
		str(string(c.GeneratedKind)).
		optStr(c.GeneratedExpr)
	return h.sum()
}

func intPtrToInt32(v *int) *int32 {
	if v == nil {
		return nil
	}
	v32 := int32(*v)
	return &v32
}

// TypeClause renders the base type plus length/precision/scale/interval
// qualifier, per spec.md §4.5's rules. Exported so package diff's column
// sub-differ can detect type changes without duplicating the formatting
// rules.
func (c Column) TypeClause() string { return c.typeClause() }

// typeClause renders the base type plus length/precision/scale/interval
// qualifier, per spec.md §4.5's rules.
func (c Column) typeClause() string {
	t := c.DataType
	lower := strings.ToLower(t)

	switch {
	case c.Length != nil && strings.Contains(lower, "char"):
		t += "(" + strconv.Itoa(*c.Length) + ")"
	case c.Precision != nil && (strings.Contains(lower, "numeric") || strings.Contains(lower, "decimal")):
		if c.Scale != nil {
			t += fmt.Sprintf("(%d,%d)", *c.Precision, *c.Scale)
		} else {
			t += fmt.Sprintf("(%d)", *c.Precision)
		}
	}
	if strings.Contains(lower, "interval") && c.IntervalType != nil && *c.IntervalType != "" {
		t += " " + *c.IntervalType
	}
	return t
}

func (c Column) identityClause() string {
	if c.Identity == IdentityNone {
		return ""
	}
	out := " generated " + strings.ToLower(string(c.Identity)) + " as identity"
	var params []string
	if c.IdentityParams.Start != nil {
		params = append(params, fmt.Sprintf("start with %d", *c.IdentityParams.Start))
	}
	if c.IdentityParams.Increment != nil {
		params = append(params, fmt.Sprintf("increment by %d", *c.IdentityParams.Increment))
	}
	if c.IdentityParams.MinValue != nil {
		params = append(params, fmt.Sprintf("minvalue %d", *c.IdentityParams.MinValue))
	}
	if c.IdentityParams.MaxValue != nil {
		params = append(params, fmt.Sprintf("maxvalue %d", *c.IdentityParams.MaxValue))
	}
	if c.IdentityParams.Cycle {
		params = append(params, "cycle")
	}
	if len(params) > 0 {
		out += " (" + strings.Join(params, " ") + ")"
	}
	return out
}

// definition renders the full column definition used both standalone
// (ADD COLUMN) and as part of a CREATE TABLE column list.
func (c Column) definition() string {
	out := QuoteIdent(c.Name) + " " + c.typeClause()

	if c.Collation != nil {
		out += " collate " + QuoteIdent(*c.Collation)
	}
	out += c.identityClause()

	if c.GeneratedKind == GenerationAlways && c.GeneratedExpr != nil {
		out += " generated always as (" + *c.GeneratedExpr + ") stored"
	}
	if c.Default != nil && c.Identity == IdentityNone {
		out += " default " + *c.Default
	}
	if !c.Nullable {
		out += " not null"
	}
	return out
}

// Script renders the column definition alone (used by the table CREATE
// emitter to build its column list).
func (c Column) Script() string { return c.definition() }

// GetAddScript emits `alter table ... add column <definition>;`.
func (c Column) GetAddScript() string {
	return "alter table " + QuoteQualifiedIdent(c.Schema, c.Table) + " add column " + c.definition() + ";\n"
}

// GetDropScript emits `alter table ... drop column "name";`.
func (c Column) GetDropScript() string {
	return "alter table " + QuoteQualifiedIdent(c.Schema, c.Table) + " drop column " + QuoteIdent(c.Name) + ";\n"
}
