package catalog

// Snapshot is the immutable in-memory representation of one database
// schema's objects: the aggregate the differ consumes on both sides of a
// comparison. A Snapshot never mutates after construction — it is
// produced wholesale by a collaborator (catalog extraction or dump
// deserialization) and only ever read by package diff.
//
// Within each list, identity (schema, name) [or (schema, name, arguments)
// for Routines] is unique; this is the structural invariant that
// diff.Comparer checks before it will run a comparison (see
// StructuralError).
type Snapshot struct {
	Schemas    []Schema
	Extensions []Extension
	Types      []Type
	Sequences  []Sequence
	Routines   []Routine
	Tables     []Table
	Views      []View
}

// Validate checks the structural invariants spec.md §7 requires every
// snapshot to satisfy before a diff may run: unique identity within each
// list, valid constraint kinds, and partition children whose parent
// exists in the same snapshot. It never inspects DDL content — only
// shape.
func (s Snapshot) Validate() error {
	if err := uniqueIdentity("schema", mapSlice(s.Schemas, func(v Schema) string { return v.Name })); err != nil {
		return err
	}
	if err := uniqueIdentity("extension", mapSlice(s.Extensions, func(v Extension) string { return v.Name })); err != nil {
		return err
	}
	if err := uniqueIdentity("type", mapSlice(s.Types, func(v Type) string { return v.Schema + "." + v.Name })); err != nil {
		return err
	}
	if err := uniqueIdentity("sequence", mapSlice(s.Sequences, func(v Sequence) string { return v.Schema + "." + v.Name })); err != nil {
		return err
	}
	if err := uniqueIdentity("routine", mapSlice(s.Routines, func(v Routine) string { return v.Identity() })); err != nil {
		return err
	}
	if err := uniqueIdentity("table", mapSlice(s.Tables, func(v Table) string { return v.Schema + "." + v.Name })); err != nil {
		return err
	}
	if err := uniqueIdentity("view", mapSlice(s.Views, func(v View) string { return v.Schema + "." + v.Name })); err != nil {
		return err
	}

	tableNames := make(map[string]struct{}, len(s.Tables))
	for _, t := range s.Tables {
		tableNames[t.Schema+"."+t.Name] = struct{}{}
	}
	for _, t := range s.Tables {
		if t.PartitionOf != nil {
			if _, ok := tableNames[t.Schema+"."+*t.PartitionOf]; !ok {
				return &StructuralError{
					Kind:   ErrMissingParentPartition,
					Entity: t.Schema + "." + t.Name,
					Detail: "partition parent " + t.Schema + "." + *t.PartitionOf + " not present in snapshot",
				}
			}
		}
		for _, c := range t.Constraints {
			switch c.Kind {
			case ConstraintPrimaryKey, ConstraintForeignKey, ConstraintUnique, ConstraintCheck:
			default:
				return &StructuralError{
					Kind:   ErrUnknownConstraintKind,
					Entity: t.Schema + "." + t.Name + "." + c.Name,
					Detail: "unknown constraint kind " + string(c.Kind),
				}
			}
		}
	}
	return nil
}

func mapSlice[T any](items []T, key func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = key(it)
	}
	return out
}

func uniqueIdentity(kind string, identities []string) error {
	seen := make(map[string]struct{}, len(identities))
	for _, id := range identities {
		if _, ok := seen[id]; ok {
			return &StructuralError{Kind: ErrDuplicateIdentity, Entity: id, Detail: "duplicate " + kind + " identity within snapshot"}
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Schema models a PostgreSQL namespace.
type Schema struct {
	Name    string
	Comment *string
}

// Identity returns the entity's (schema, name) key; for Schema this is
// just the name.
func (s Schema) Identity() string { return s.Name }

// Hash digests the schema's name only. A schema's presence or absence is
// the only thing the differ needs to detect; its comment is emitted but
// does not gate re-creation.
func (s Schema) Hash() string {
	return newHash128().str(s.Name).sum()
}

// Script emits an idempotent CREATE SCHEMA statement, followed by a
// COMMENT ON SCHEMA statement when Comment is set.
func (s Schema) Script() string {
	out := "create schema if not exists " + QuoteIdent(s.Name) + ";\n"
	if s.Comment != nil {
		out += "comment on schema " + QuoteIdent(s.Name) + " is " + QuoteLiteral(*s.Comment) + ";\n"
	}
	return out
}

// DropScript emits an idempotent DROP SCHEMA statement.
func (s Schema) DropScript() string {
	return "drop schema if exists " + QuoteIdent(s.Name) + " cascade;\n"
}

// Extension models a PostgreSQL extension installed into a schema.
type Extension struct {
	Name    string
	Version string
	Schema  string
}

// Identity returns the extension name (extensions are database-global,
// not schema-scoped, in PostgreSQL's own catalog).
func (e Extension) Identity() string { return e.Name }

// Hash digests the schema the extension lives in, but deliberately
// excludes Version: an upgrade does not change the extension's identity
// for diff purposes (spec.md §3). Callers that want version-sensitive
// comparison use Go struct equality directly, which still sees Version.
func (e Extension) Hash() string {
	return newHash128().str(e.Schema).sum()
}

// Script emits an idempotent CREATE EXTENSION statement.
func (e Extension) Script() string {
	out := "create extension if not exists " + QuoteIdent(e.Name)
	if e.Schema != "" {
		out += " with schema " + QuoteIdent(e.Schema)
	}
	if e.Version != "" {
		out += " version " + QuoteLiteral(e.Version)
	}
	return out + ";\n"
}

// DropScript emits an idempotent DROP EXTENSION statement.
func (e Extension) DropScript() string {
	return "drop extension if exists " + QuoteIdent(e.Name) + ";\n"
}
