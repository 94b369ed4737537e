package catalog

// ConstraintKind enumerates the table constraint kinds the model
// supports; unique and primary-key indexes are represented here rather
// than as Index entries (spec.md §3: "Only non-primary, non-unique
// indexes are modeled" for Index).
type ConstraintKind string

const (
	ConstraintPrimaryKey ConstraintKind = "PRIMARY KEY"
	ConstraintForeignKey ConstraintKind = "FOREIGN KEY"
	ConstraintUnique     ConstraintKind = "UNIQUE"
	ConstraintCheck      ConstraintKind = "CHECK"
)

// Constraint models a table-level constraint. Definition is the full
// constraint body PostgreSQL would print back via pg_get_constraintdef,
// e.g. "FOREIGN KEY (account_id) REFERENCES accounts(id)".
type Constraint struct {
	Schema string
	Name   string
	Table  string
	Kind   ConstraintKind

	Deferrable        bool
	InitiallyDeferred bool

	Definition *string
}

func (c Constraint) qualifiedTable() string { return QuoteQualifiedIdent(c.Schema, c.Table) }

// Hash digests every field except Schema: constraint identity inside a
// table diff is scoped by (table, name), and the catalog the constraint
// happens to live in is deliberately excluded from the content hash per
// spec.md §4.2 ("for constraints the catalog is intentionally excluded
// and equality agrees").
func (c Constraint) Hash() string {
	return newHash128().
		str(c.Name).str(c.Table).str(string(c.Kind)).
		boolean(c.Deferrable).boolean(c.InitiallyDeferred).
		optStr(c.Definition).
		sum()
}

func (c Constraint) def() string {
	if c.Definition != nil {
		return *c.Definition
	}
	return string(c.Kind)
}

func (c Constraint) deferClause() string {
	if !c.Deferrable {
		return ""
	}
	if c.InitiallyDeferred {
		return " deferrable initially deferred"
	}
	return " deferrable initially immediate"
}

// AddScript emits `alter table ... add constraint "name" <def> [deferrable ...];`.
func (c Constraint) AddScript() string {
	return "alter table " + c.qualifiedTable() + " add constraint " + QuoteIdent(c.Name) + " " + c.def() + c.deferClause() + ";\n"
}

// DropScript emits an idempotent-by-convention constraint drop. There is
// no `IF EXISTS` form for ALTER TABLE ... DROP CONSTRAINT prior to
// PostgreSQL 9.6-era syntax differences, but all supported targets accept
// `IF EXISTS`, so it is always used for consistency with the rest of the
// emitter.
func (c Constraint) DropScript() string {
	return "alter table " + c.qualifiedTable() + " drop constraint if exists " + QuoteIdent(c.Name) + ";\n"
}

// Index models a non-unique, non-primary-key index.
type Index struct {
	Schema     string
	Table      string
	Name       string
	Tablespace *string
	IndexDef   string // full CREATE INDEX text as PostgreSQL would canonicalize it
}

// Hash digests the canonical index definition text; any textual change
// is treated as a full drop+recreate by the table sub-differ (spec.md
// §4.7), so the definition string itself is the only content that
// matters here.
func (i Index) Hash() string {
	return newHash128().str(i.Name).str(i.Table).str(i.IndexDef).sum()
}

// Script emits the index's definition verbatim (already a complete
// `create index ...` statement as read from the catalog) followed by a
// newline.
func (i Index) Script() string {
	def := i.IndexDef
	if len(def) == 0 || def[len(def)-1] != ';' {
		def += ";"
	}
	return def + "\n"
}

// DropScript emits an idempotent DROP INDEX statement.
func (i Index) DropScript() string {
	return "drop index if exists " + QuoteQualifiedIdent(i.Schema, i.Name) + ";\n"
}

// Trigger models a table trigger, compared by its full textual
// definition (spec.md §4.7).
type Trigger struct {
	Schema     string
	Table      string
	OID        uint32
	Name       string
	Definition string

	// FunctionOID is supplemental (original_source/app/src/dump/table_trigger.rs)
	// informational-only provenance; it never participates in Hash.
	FunctionOID *uint32
}

// Hash digests the trigger's name, table and full-text definition, per
// spec.md §4.7 ("Triggers are treated the same [as indexes]: compared by
// definition"); OID and FunctionOID are not digested.
func (t Trigger) Hash() string {
	return newHash128().str(t.Name).str(t.Table).str(t.Definition).sum()
}

// Script emits the trigger's definition verbatim.
func (t Trigger) Script() string {
	def := t.Definition
	if len(def) == 0 || def[len(def)-1] != ';' {
		def += ";"
	}
	return def + "\n"
}

// DropScript emits an idempotent DROP TRIGGER statement.
func (t Trigger) DropScript() string {
	return "drop trigger if exists " + QuoteIdent(t.Name) + " on " + QuoteQualifiedIdent(t.Schema, t.Table) + ";\n"
}

// PolicyCommand enumerates the RLS policy command scopes.
type PolicyCommand string

const (
	PolicyAll    PolicyCommand = "all"
	PolicySelect PolicyCommand = "select"
	PolicyInsert PolicyCommand = "insert"
	PolicyUpdate PolicyCommand = "update"
	PolicyDelete PolicyCommand = "delete"
)

// Policy models a row-level security policy (supplemented feature:
// spec.md §3 names the type, original_source/app/src/dump/table_policy.rs
// is the grounding for how it's emitted).
type Policy struct {
	Schema     string
	Table      string
	Name       string
	Command    PolicyCommand
	Permissive bool
	Roles      []string // empty = public

	Using *string
	Check *string
}

func (p Policy) qualifiedTable() string { return QuoteQualifiedIdent(p.Schema, p.Table) }

// Hash digests every field that affects CREATE POLICY's output.
func (p Policy) Hash() string {
	h := newHash128().str(p.Name).str(p.Table).str(string(p.Command)).boolean(p.Permissive)
	h.u32(uint32(len(p.Roles)))
	for _, r := range p.Roles {
		h.str(r)
	}
	h.optStr(p.Using).optStr(p.Check)
	return h.sum()
}

// Script emits `create policy "name" on schema.table as permissive|restrictive for <cmd> to roles [using (...)] [with check (...)];`.
func (p Policy) Script() string {
	out := "create policy " + QuoteIdent(p.Name) + " on " + p.qualifiedTable() + " as "
	if p.Permissive {
		out += "permissive"
	} else {
		out += "restrictive"
	}
	out += " for " + string(p.Command)
	if len(p.Roles) == 0 {
		out += " to public"
	} else {
		quoted := make([]string, len(p.Roles))
		for i, r := range p.Roles {
			quoted[i] = QuoteIdent(r)
		}
		out += " to " + joinComma(quoted)
	}
	if p.Using != nil {
		out += " using (" + *p.Using + ")"
	}
	if p.Check != nil {
		out += " with check (" + *p.Check + ")"
	}
	return out + ";\n"
}

// DropScript emits an idempotent DROP POLICY statement.
func (p Policy) DropScript() string {
	return "drop policy if exists " + QuoteIdent(p.Name) + " on " + p.qualifiedTable() + ";\n"
}
