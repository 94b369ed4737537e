package catalog

// RoutineKind distinguishes a function from a procedure; PostgreSQL
// catalogs both under pg_proc but their CREATE syntax differs.
type RoutineKind string

const (
	RoutineKindFunction  RoutineKind = "function"
	RoutineKindProcedure RoutineKind = "procedure"
)

// Routine models a PostgreSQL function or procedure. Identity is
// (schema, name, arguments) because PostgreSQL allows overloading on
// argument list (spec.md §3, §9.3).
type Routine struct {
	Schema string
	OID    uint32
	Name   string
	Lang   string
	Kind   RoutineKind

	ReturnType string
	Arguments  string // formatted argument-type list, e.g. "integer, text"

	ArgumentDefaults *string // formatted default-value clause, if any

	SourceCode string
	Comment    *string

	// Volatility and SecurityDefiner are supplemental fields grounded on
	// original_source/app/src/dump/routine.rs; they are content-relevant
	// (spec.md §4.2 sensitivity contract applies to every field that
	// affects the generated DDL) and so participate in Hash.
	Volatility      string // VOLATILE, STABLE, IMMUTABLE, or "" if unknown
	SecurityDefiner bool
}

// Identity returns the routine's overload-qualified identity string.
func (r Routine) Identity() string { return r.Schema + "." + r.Name + "(" + r.Arguments + ")" }

func (r Routine) qualifiedName() string { return QuoteQualifiedIdent(r.Schema, r.Name) }

// Hash digests schema.name.lang.kind.return_type.arguments.defaults.source
// plus the two supplemental fields, each length-prefixed per spec.md
// §4.2/§9.2 (trivial dot-joins are explicitly disallowed as a hashing
// strategy because string concatenation can alias).
func (r Routine) Hash() string {
	h := newHash128().
		str(r.Schema).str(r.Name).str(r.Lang).str(string(r.Kind)).
		str(r.ReturnType).str(r.Arguments).
		optStr(r.ArgumentDefaults).
		str(r.SourceCode).
		str(r.Volatility).
		boolean(r.SecurityDefiner)
	return h.sum()
}

func (r Routine) header() string {
	kw := "function"
	if r.Kind == RoutineKindProcedure {
		kw = "procedure"
	}
	out := "create or replace " + kw + " " + r.qualifiedName() + "(" + r.Arguments + ")"
	if r.Kind == RoutineKindFunction {
		out += " returns " + r.ReturnType
	}
	out += " as $$" + r.SourceCode + "$$ language " + QuoteIdent(r.Lang)
	if r.Volatility != "" {
		out += " " + r.Volatility
	}
	if r.SecurityDefiner {
		out += " security definer"
	}
	out += ";\n"
	return out
}

// Script emits `create or replace function|procedure ...` followed by a
// comment line listing argument defaults when present (spec.md §4.3).
func (r Routine) Script() string {
	out := r.header()
	if r.ArgumentDefaults != nil && *r.ArgumentDefaults != "" {
		out += "-- defaults: " + *r.ArgumentDefaults + "\n"
	}
	if r.Comment != nil {
		out += "comment on " + string(r.Kind) + " " + r.qualifiedName() + "(" + r.Arguments + ") is " + QuoteLiteral(*r.Comment) + ";\n"
	}
	return out
}

// DropScript emits an idempotent DROP statement for the routine.
func (r Routine) DropScript() string {
	kw := "function"
	if r.Kind == RoutineKindProcedure {
		kw = "procedure"
	}
	return "drop " + kw + " if exists " + r.qualifiedName() + "(" + r.Arguments + ");\n"
}
