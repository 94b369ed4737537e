package catalog

import "strings"

// View models a PostgreSQL view (or, per spec.md §9.4, could be extended
// to materialized views without changing observable correctness; only
// plain views are modeled here).
type View struct {
	Schema     string
	Name       string
	Definition string

	// Relations names the underlying tables this view's definition
	// references; informational only (spec.md §9.4 notes a downstream
	// extension could use this for topological ordering). Not part of
	// Hash — two views with the same definition are the same view
	// regardless of how the dependency list happened to be extracted.
	Relations []string

	Comment *string
}

func (v View) qualifiedName() string { return QuoteQualifiedIdent(v.Schema, v.Name) }

// Hash digests the view's trimmed definition text.
func (v View) Hash() string {
	return newHash128().str(v.Schema).str(v.Name).str(strings.TrimSpace(v.Definition)).sum()
}

// Script emits `create view schema.name as <definition>;`.
func (v View) Script() string {
	out := "create view " + v.qualifiedName() + " as " + strings.TrimSpace(v.Definition) + ";\n"
	if v.Comment != nil {
		out += "comment on view " + v.qualifiedName() + " is " + QuoteLiteral(*v.Comment) + ";\n"
	}
	return out
}

// ReplaceScript emits `create or replace view ...`, used by the view
// sub-differ when the definition changes (spec.md §4.8).
func (v View) ReplaceScript() string {
	return "create or replace view " + v.qualifiedName() + " as " + strings.TrimSpace(v.Definition) + ";\n"
}

// DropScript emits an idempotent DROP VIEW statement.
func (v View) DropScript() string {
	return "drop view if exists " + v.qualifiedName() + ";\n"
}
