package catalog

import "sort"

// TableFlags mirrors the boolean summary flags pg_class exposes for a
// relation; they are informational summaries carried because spec.md §3
// names them, and Table.Hash digests them.
type TableFlags struct {
	HasIndexes     bool
	HasTriggers    bool
	HasRules       bool
	HasRowSecurity bool
}

// PartitionBound is the bound clause of a partition child, e.g.
// "FOR VALUES FROM (100) TO (200)" or "DEFAULT".
type PartitionBound struct {
	Expression string
}

// Table models a PostgreSQL table, including its columns, constraints,
// non-PK/unique indexes, triggers, RLS policies, and partitioning state.
type Table struct {
	Schema string
	Name   string
	Owner  string

	Tablespace *string
	Flags      TableFlags

	Columns     []Column
	Constraints []Constraint
	Indexes     []Index
	Triggers    []Trigger
	Policies    []Policy

	// Definition is set for unusual tables whose full CREATE TABLE text
	// is carried verbatim (e.g. `LIKE` clauses) rather than reconstructed
	// from Columns; when set it takes priority in Script().
	Definition *string

	// PartitionKey is non-nil when this table is itself partitioned,
	// e.g. "LIST (id)".
	PartitionKey *string

	// PartitionOf/PartitionBound are both set when this table is a
	// partition child bound to a parent.
	PartitionOf    *string
	PartitionBound *PartitionBound

	Comment          *string
	RLSEnabled       bool
}

func (t Table) qualifiedName() string { return QuoteQualifiedIdent(t.Schema, t.Name) }

// sortedColumns returns columns ordered by ordinal, the deterministic
// order spec.md §3 requires for anything that contributes to a hash.
func (t Table) sortedColumns() []Column {
	out := append([]Column(nil), t.Columns...)
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out
}

func sortedByName[T any](items []T, name func(T) string) []T {
	out := append([]T(nil), items...)
	sort.Slice(out, func(i, j int) bool { return name(out[i]) < name(out[j]) })
	return out
}

// Hash digests the table's own name plus every child entity's Hash, each
// child collection sorted into the deterministic order spec.md §3
// requires (ordinal for columns; name ascending for constraints, indexes
// and policies; trigger name for triggers).
func (t Table) Hash() string {
	h := newHash256().str(t.Schema).str(t.Name).
		boolean(t.Flags.HasIndexes).boolean(t.Flags.HasTriggers).
		boolean(t.Flags.HasRules).boolean(t.Flags.HasRowSecurity).
		optStr(t.PartitionKey).optStr(t.PartitionOf)
	if t.PartitionBound != nil {
		h.boolean(true).str(t.PartitionBound.Expression)
	} else {
		h.boolean(false)
	}
	h.boolean(t.RLSEnabled)

	cols := t.sortedColumns()
	h.u32(uint32(len(cols)))
	for _, c := range cols {
		h.str(c.Hash())
	}

	constraints := sortedByName(t.Constraints, func(c Constraint) string { return c.Name })
	h.u32(uint32(len(constraints)))
	for _, c := range constraints {
		h.str(c.Hash())
	}

	indexes := sortedByName(t.Indexes, func(i Index) string { return i.Name })
	h.u32(uint32(len(indexes)))
	for _, i := range indexes {
		h.str(i.Hash())
	}

	triggers := sortedByName(t.Triggers, func(tr Trigger) string { return tr.Name })
	h.u32(uint32(len(triggers)))
	for _, tr := range triggers {
		h.str(tr.Hash())
	}

	policies := sortedByName(t.Policies, func(p Policy) string { return p.Name })
	h.u32(uint32(len(policies)))
	for _, p := range policies {
		h.str(p.Hash())
	}

	return h.sum()
}

// createBodyConstraints returns every constraint except FOREIGN KEY, in
// name order: the CREATE TABLE script emits these (PRIMARY KEY included)
// as `alter table ... add constraint` statements after the column list;
// FK additions are deferred to the schema-level phase B (spec.md §4.4).
func (t Table) createBodyConstraints() []Constraint {
	var out []Constraint
	for _, c := range t.Constraints {
		if c.Kind == ConstraintForeignKey {
			continue
		}
		out = append(out, c)
	}
	return sortedByName(out, func(c Constraint) string { return c.Name })
}

// Script emits the table's full CREATE script: either a partition-child
// header or a column-listed CREATE TABLE, followed by non-FK
// constraints, non-PK indexes, triggers, policies, comments (spec.md
// §4.3).
func (t Table) Script() string {
	var out string

	switch {
	case t.PartitionOf != nil:
		out += "create table " + t.qualifiedName() + " partition of " + QuoteQualifiedIdent(t.Schema, *t.PartitionOf)
		if t.PartitionBound != nil {
			out += " " + t.PartitionBound.Expression
		}
		if t.PartitionKey != nil {
			out += " partition by " + *t.PartitionKey
		}
		out += ";\n"
	case t.Definition != nil:
		out += *t.Definition
		if len(out) == 0 || out[len(out)-1] != '\n' {
			out += "\n"
		}
	default:
		cols := t.sortedColumns()
		out += "create table " + t.qualifiedName() + " (\n"
		lines := make([]string, 0, len(cols))
		for _, c := range cols {
			lines = append(lines, "  "+c.Script())
		}
		out += joinLines(lines) + "\n)"
		if t.PartitionKey != nil {
			out += " partition by " + *t.PartitionKey
		}
		out += ";\n"
	}

	for _, c := range t.createBodyConstraints() {
		out += c.AddScript()
	}
	for _, i := range t.Indexes {
		out += i.Script()
	}
	for _, tr := range t.Triggers {
		out += tr.Script()
	}
	for _, p := range t.Policies {
		out += p.Script()
	}
	if t.RLSEnabled {
		out += "alter table " + t.qualifiedName() + " enable row level security;\n"
	}
	if t.Comment != nil {
		out += "comment on table " + t.qualifiedName() + " is " + QuoteLiteral(*t.Comment) + ";\n"
	}
	for _, c := range t.sortedColumns() {
		if c.Comment != nil {
			out += "comment on column " + t.qualifiedName() + "." + QuoteIdent(c.Name) + " is " + QuoteLiteral(*c.Comment) + ";\n"
		}
	}
	return out
}

// DropScript emits an idempotent DROP TABLE statement.
func (t Table) DropScript() string {
	return "drop table if exists " + t.qualifiedName() + " cascade;\n"
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += ",\n"
		}
		out += l
	}
	return out
}
