package diff

import (
	"sort"

	"github.com/nettrash/pgcatdiff/catalog"
)

// typeAlterScript implements get_alter_script for a type present in both
// snapshots (spec.md §4.6). Schema/name mismatches and kind mismatches
// never occur here in practice (the caller matches by identity) but are
// guarded defensively with a placeholder comment, matching the spec's
// "never cross-type conversion" rule.
func typeAlterScript(buf *buffer, from, to catalog.Type) {
	if from.Schema != to.Schema || from.Name != to.Name {
		buf.comment("type identity changed; cross-type conversion is not supported")
		return
	}
	if from.Kind != to.Kind {
		buf.comment("type " + qualifiedType(to) + " changed kind from " + string(from.Kind) + " to " + string(to.Kind) + "; not supported")
		return
	}

	switch to.Kind {
	case catalog.TypeKindEnum:
		enumAlterScript(buf, from, to)
	case catalog.TypeKindDomain:
		domainAlterScript(buf, from, to)
	default:
		buf.comment("type " + qualifiedType(to) + " is a " + string(to.Kind) + "; range/multirange alteration is not supported")
	}
}

func qualifiedType(t catalog.Type) string { return catalog.QuoteQualifiedIdent(t.Schema, t.Name) }

// enumAlterScript adds labels present in `to` but missing from `from`, in
// `to`'s order, choosing `before` the next existing label when one
// follows it in `from`, else `after` the closest preceding existing
// label. Labels removed from `from` cannot be dropped by PostgreSQL and
// are only ever surfaced as a comment (spec.md §4.6, demonstrated by
// scenario S2).
func enumAlterScript(buf *buffer, from, to catalog.Type) {
	existing := make(map[string]bool, len(from.EnumLabels))
	for _, l := range from.EnumLabels {
		existing[l] = true
	}

	for i, label := range to.EnumLabels {
		if existing[label] {
			continue
		}
		stmt := "alter type " + qualifiedType(to) + " add value if not exists " + catalog.QuoteLiteral(label)
		if before, ok := followingExistingLabel(to.EnumLabels, existing, i); ok {
			stmt += " before " + catalog.QuoteLiteral(before)
		} else if after, ok := precedingExistingLabel(to.EnumLabels, existing, i); ok {
			stmt += " after " + catalog.QuoteLiteral(after)
		}
		buf.live(stmt + ";\n")
	}

	toSet := make(map[string]bool, len(to.EnumLabels))
	for _, l := range to.EnumLabels {
		toSet[l] = true
	}
	removed := make([]string, 0)
	for _, l := range from.EnumLabels {
		if !toSet[l] {
			removed = append(removed, l)
		}
	}
	sort.Strings(removed)
	for _, l := range removed {
		buf.comment("enum value " + l + " removed from " + qualifiedType(to) + "; PostgreSQL cannot drop enum values automatically")
	}
}

// precedingExistingLabel looks backward from index i-1 for the closest
// label that already exists in `from`.
func precedingExistingLabel(labels []string, existing map[string]bool, i int) (string, bool) {
	for j := i - 1; j >= 0; j-- {
		if existing[labels[j]] {
			return labels[j], true
		}
	}
	return "", false
}

// followingExistingLabel looks forward from index i+1 for the closest
// label that already exists in `from`; it is tried first, so a new label
// is placed `before` it whenever one follows, and the preceding label is
// only the `after` fallback.
func followingExistingLabel(labels []string, existing map[string]bool, i int) (string, bool) {
	for j := i + 1; j < len(labels); j++ {
		if existing[labels[j]] {
			return labels[j], true
		}
	}
	return "", false
}

// domainAlterScript compares a domain's base type (warn-only), default,
// nullability and named constraints, emitting drops (name order) before
// adds (name order) per spec.md §4.6 and scenario S3/the boundary case
// in §8.
func domainAlterScript(buf *buffer, from, to catalog.Type) {
	if strPtrVal(from.BaseType) != strPtrVal(to.BaseType) {
		buf.comment("domain " + qualifiedType(to) + " base type changed from " +
			strPtrVal(from.BaseType) + " to " + strPtrVal(to.BaseType) + "; not applied automatically")
	}

	if strPtrVal(from.Default) != strPtrVal(to.Default) {
		if to.Default != nil {
			buf.live("alter domain " + qualifiedType(to) + " set default " + *to.Default + ";\n")
		} else {
			buf.live("alter domain " + qualifiedType(to) + " drop default;\n")
		}
	}

	if from.NotNull != to.NotNull {
		if to.NotNull {
			buf.live("alter domain " + qualifiedType(to) + " set not null;\n")
		} else {
			buf.live("alter domain " + qualifiedType(to) + " drop not null;\n")
		}
	}

	fromC := domainConstraintsByName(from.Constraints)
	toC := domainConstraintsByName(to.Constraints)

	dropNames := make([]string, 0)
	for name := range fromC {
		tc, ok := toC[name]
		if !ok || tc.Definition != fromC[name].Definition {
			dropNames = append(dropNames, name)
		}
	}
	sort.Strings(dropNames)
	for _, name := range dropNames {
		buf.destructive("alter domain " + qualifiedType(to) + " drop constraint if exists " + catalog.QuoteIdent(name) + ";\n")
	}

	addNames := make([]string, 0)
	for name, tc := range toC {
		fc, ok := fromC[name]
		if !ok || fc.Definition != tc.Definition {
			addNames = append(addNames, name)
		}
	}
	sort.Strings(addNames)
	for _, name := range addNames {
		buf.live("alter domain " + qualifiedType(to) + " add constraint " + catalog.QuoteIdent(name) + " " + toC[name].Definition + ";\n")
	}
}

func domainConstraintsByName(cs []catalog.DomainConstraint) map[string]catalog.DomainConstraint {
	out := make(map[string]catalog.DomainConstraint, len(cs))
	for _, c := range cs {
		out[c.Name] = c
	}
	return out
}
