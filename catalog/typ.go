package catalog

import (
	"sort"
)

// TypeKind distinguishes the four catalog type kinds the model carries.
// Range and multirange are modeled but unsupported (spec.md §9.2):
// Script/DropScript emit a placeholder comment for them.
type TypeKind string

const (
	TypeKindDomain     TypeKind = "d"
	TypeKindEnum       TypeKind = "e"
	TypeKindRange      TypeKind = "r"
	TypeKindMultirange TypeKind = "m"
)

// DomainConstraint is a named CHECK/NOT NULL-style constraint attached to
// a domain, e.g. {"pos_int_check", "CHECK (VALUE > 0)"}.
type DomainConstraint struct {
	Name       string
	Definition string
}

// Type models a user-defined type: a domain, enum, range or multirange.
// Fields carry the raw pg_catalog byte-codes (Category, Storage,
// Alignment) as opaque payload (spec.md §9.1): the differ never
// interprets them but they participate in Hash so a re-introduced type
// matches its origin byte-for-byte.
type Type struct {
	Schema string
	Name   string

	OID      uint32
	Category byte
	Storage  byte
	Align    byte
	Flags    uint32 // catalog flag bits (typnotnull, typbyval, ...), opaque payload

	Kind TypeKind

	// BaseType is set for domains: the underlying type this domain is
	// built on (e.g. "integer").
	BaseType *string
	// Default is the domain's default expression, if any.
	Default *string
	// NotNull is the domain's NOT NULL flag.
	NotNull bool

	// EnumLabels holds the enum's labels in sort-order. Construction must
	// order by the catalog's sort-order key and de-duplicate before this
	// field is populated (spec.md §3 invariant); Hash and Script assume
	// that has already happened.
	EnumLabels []string

	// Constraints holds a domain's named CHECK constraints. Hashing and
	// emission sort these by name ascending.
	Constraints []DomainConstraint
}

func (t Type) qualifiedName() string { return QuoteQualifiedIdent(t.Schema, t.Name) }

// Hash digests every catalog field plus the length-prefixed enum labels
// (in order) and length-prefixed (name, definition) constraint pairs
// sorted by name, per spec.md §4.2.
func (t Type) Hash() string {
	sortedConstraints := append([]DomainConstraint(nil), t.Constraints...)
	sort.Slice(sortedConstraints, func(i, j int) bool { return sortedConstraints[i].Name < sortedConstraints[j].Name })

	h := newHash256().
		str(t.Schema).
		str(t.Name).
		u32(t.OID).
		u32(uint32(t.Category)).
		u32(uint32(t.Storage)).
		u32(uint32(t.Align)).
		u32(t.Flags).
		str(string(t.Kind)).
		optStr(t.BaseType).
		optStr(t.Default).
		boolean(t.NotNull).
		u32(uint32(len(t.EnumLabels)))

	for _, label := range t.EnumLabels {
		h.str(label)
	}

	h.u32(uint32(len(sortedConstraints)))
	for _, c := range sortedConstraints {
		h.str(c.Name).str(c.Definition)
	}

	return h.sum()
}

// Script emits the CREATE statement(s) for this type.
func (t Type) Script() string {
	switch t.Kind {
	case TypeKindEnum:
		return t.enumScript()
	case TypeKindDomain:
		return t.domainScript()
	default:
		return "-- unsupported type kind " + string(t.Kind) + " for " + t.qualifiedName() + "; range/multirange types are not emitted\n"
	}
}

func (t Type) enumScript() string {
	labels := sortedUniqueLabels(t.EnumLabels)
	if len(labels) == 0 {
		return "-- enum " + t.qualifiedName() + " has no labels; skipping create type\n"
	}
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = QuoteLiteral(l)
	}
	return "create type " + t.qualifiedName() + " as enum (" + joinComma(quoted) + ");\n"
}

func (t Type) domainScript() string {
	base := "text"
	if t.BaseType != nil {
		base = *t.BaseType
	}
	out := "create domain " + t.qualifiedName() + " as " + base
	if t.Default != nil {
		out += " default " + *t.Default
	}
	if t.NotNull {
		out += " not null"
	}
	out += ";\n"

	sortedConstraints := append([]DomainConstraint(nil), t.Constraints...)
	sort.Slice(sortedConstraints, func(i, j int) bool { return sortedConstraints[i].Name < sortedConstraints[j].Name })
	for _, c := range sortedConstraints {
		out += "alter domain " + t.qualifiedName() + " add constraint " + QuoteIdent(c.Name) + " " + c.Definition + ";\n"
	}
	return out
}

// DropScript emits an idempotent DROP TYPE statement. Range/multirange
// types have no create script but may still have been catalogued, so the
// drop is still safe/idempotent to emit.
func (t Type) DropScript() string {
	return "drop type if exists " + t.qualifiedName() + " cascade;\n"
}

// sortedUniqueLabels returns labels in their given order with duplicates
// removed. go-extras/go-kit has no slice-dedup helper, so this stays a
// small local loop rather than reaching for a dependency that doesn't
// cover it.
func sortedUniqueLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func joinComma(items []string) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += ", "
		}
		out += it
	}
	return out
}
