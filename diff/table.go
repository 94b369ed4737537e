package diff

import (
	"sort"

	"github.com/nettrash/pgcatdiff/catalog"
)

// tableAlter appends the full per-table alter body to buf, per spec.md
// §4.7. It returns the set of foreign-key additions this table still
// owes to the schema-level phase B (new FKs and FKs whose non-deferrable
// properties changed): those are intentionally not written here.
func tableAlter(buf *buffer, from, to catalog.Table) []catalog.Constraint {
	if strPtrVal(from.PartitionKey) != strPtrVal(to.PartitionKey) {
		buf.comment("Partition key changed on " + qualifiedTable(to) + "; data loss — dropping and recreating the table")
		buf.destructive(from.DropScript())
		buf.live(to.Script())
		return nil
	}

	if strPtrVal(from.PartitionOf) != strPtrVal(to.PartitionOf) || partitionBoundText(from) != partitionBoundText(to) {
		if from.PartitionOf != nil {
			buf.destructive("alter table " + catalog.QuoteQualifiedIdent(from.Schema, *from.PartitionOf) +
				" detach partition " + qualifiedTable(to) + ";\n")
		}
		if to.PartitionOf != nil {
			attach := "alter table " + catalog.QuoteQualifiedIdent(to.Schema, *to.PartitionOf) +
				" attach partition " + qualifiedTable(to)
			if to.PartitionBound != nil {
				attach += " " + to.PartitionBound.Expression
			}
			buf.live(attach + ";\n")
		}
	}

	fromConstraints := indexConstraintsByName(from.Constraints)
	toConstraints := indexConstraintsByName(to.Constraints)

	// (a) constraint_pre_script: drop removed constraints and
	// constraints being replaced — except FKs whose only change is
	// deferrability, which the foreign-key rule (4) handles in place.
	for _, name := range sortedKeys(fromConstraints) {
		fc := fromConstraints[name]
		tc, stillExists := toConstraints[name]
		if !stillExists {
			buf.destructive(fc.DropScript())
			continue
		}
		if fc.Hash() == tc.Hash() {
			continue
		}
		if fc.Kind == catalog.ConstraintForeignKey && tc.Kind == catalog.ConstraintForeignKey && onlyDeferrabilityDiffers(fc, tc) {
			continue
		}
		buf.destructive(fc.DropScript())
	}

	// (b) column_alter_script: adds and column-level alters.
	fromCols := columnsByName(from.Columns)
	toCols := columnsByName(to.Columns)
	for _, name := range sortedKeys(toCols) {
		tc := toCols[name]
		if fc, existed := fromCols[name]; existed {
			if fc.Hash() != tc.Hash() {
				if columnIdentityDropped(fc, tc) {
					buf.destructive(columnAlterScript(fc, tc))
				} else {
					buf.live(columnAlterScript(fc, tc))
				}
			}
			continue
		}
		buf.live(tc.GetAddScript())
	}

	// (c) index_drop_script
	fromIdx := indexesByName(from.Indexes)
	toIdx := indexesByName(to.Indexes)
	for _, name := range sortedKeys(fromIdx) {
		fi := fromIdx[name]
		if ti, ok := toIdx[name]; ok && fi.Hash() == ti.Hash() {
			continue
		}
		buf.destructive(fi.DropScript())
	}

	// (d) trigger_drop_script
	fromTrig := triggersByName(from.Triggers)
	toTrig := triggersByName(to.Triggers)
	for _, name := range sortedKeys(fromTrig) {
		ft := fromTrig[name]
		if tt, ok := toTrig[name]; ok && ft.Hash() == tt.Hash() {
			continue
		}
		buf.destructive(ft.DropScript())
	}

	// (e) column_drop_script
	for _, name := range sortedKeys(fromCols) {
		if _, ok := toCols[name]; ok {
			continue
		}
		buf.destructive(fromCols[name].GetDropScript())
	}

	// (f) constraint_post_script: non-FK additions/replacements.
	for _, name := range sortedKeys(toConstraints) {
		tc := toConstraints[name]
		if tc.Kind == catalog.ConstraintForeignKey {
			continue
		}
		fc, existed := fromConstraints[name]
		if existed && fc.Hash() == tc.Hash() {
			continue
		}
		buf.live(tc.AddScript())
	}

	// (g) index_script: new or replaced indexes.
	for _, name := range sortedKeys(toIdx) {
		ti := toIdx[name]
		if fi, ok := fromIdx[name]; ok && fi.Hash() == ti.Hash() {
			continue
		}
		buf.live(ti.Script())
	}

	// (h) trigger_script: new or replaced triggers.
	for _, name := range sortedKeys(toTrig) {
		tt := toTrig[name]
		if ft, ok := fromTrig[name]; ok && ft.Hash() == tt.Hash() {
			continue
		}
		buf.live(tt.Script())
	}

	// Row-level security and policies.
	tablePolicyAlter(buf, from, to)
	if from.RLSEnabled != to.RLSEnabled {
		if to.RLSEnabled {
			buf.live("alter table " + qualifiedTable(to) + " enable row level security;\n")
		} else {
			buf.destructive("alter table " + qualifiedTable(to) + " disable row level security;\n")
		}
	}

	// Comment changes.
	if strPtrVal(from.Comment) != strPtrVal(to.Comment) {
		if to.Comment != nil {
			buf.live("comment on table " + qualifiedTable(to) + " is " + catalog.QuoteLiteral(*to.Comment) + ";\n")
		} else {
			buf.live("comment on table " + qualifiedTable(to) + " is null;\n")
		}
	}

	return foreignKeyAdditions(fromConstraints, toConstraints)
}

// tablePolicyAlter diffs RLS policies the same way indexes/triggers are
// diffed: any textual change is a drop+recreate.
func tablePolicyAlter(buf *buffer, from, to catalog.Table) {
	fromPol := policiesByName(from.Policies)
	toPol := policiesByName(to.Policies)
	for _, name := range sortedKeys(fromPol) {
		fp := fromPol[name]
		if tp, ok := toPol[name]; ok && fp.Hash() == tp.Hash() {
			continue
		}
		buf.destructive(fp.DropScript())
	}
	for _, name := range sortedKeys(toPol) {
		tp := toPol[name]
		if fp, ok := fromPol[name]; ok && fp.Hash() == tp.Hash() {
			continue
		}
		buf.live(tp.Script())
	}
}

// foreignKeyAlterScript implements get_foreign_key_alter_script: FKs
// whose only change is deferrability are altered in place; all other FK
// changes are additions the caller must apply after the table exists
// (spec.md §4.7 rule 4, demonstrated by scenario S4).
func foreignKeyAlterScript(buf *buffer, from, to catalog.Table) {
	fromConstraints := indexConstraintsByName(from.Constraints)
	toConstraints := indexConstraintsByName(to.Constraints)

	for _, name := range sortedKeys(toConstraints) {
		tc := toConstraints[name]
		if tc.Kind != catalog.ConstraintForeignKey {
			continue
		}
		fc, existed := fromConstraints[name]
		switch {
		case !existed:
			buf.live(tc.AddScript())
		case fc.Hash() == tc.Hash():
			// unchanged
		case onlyDeferrabilityDiffers(fc, tc):
			buf.live(deferrabilityAlterScript(tc))
		default:
			buf.live(tc.AddScript())
		}
	}
}

func deferrabilityAlterScript(c catalog.Constraint) string {
	clause := "not deferrable"
	if c.Deferrable {
		if c.InitiallyDeferred {
			clause = "deferrable initially deferred"
		} else {
			clause = "deferrable initially immediate"
		}
	}
	return "alter table " + catalog.QuoteQualifiedIdent(c.Schema, c.Table) +
		" alter constraint " + catalog.QuoteIdent(c.Name) + " " + clause + ";\n"
}

func onlyDeferrabilityDiffers(a, b catalog.Constraint) bool {
	aCopy, bCopy := a, b
	aCopy.Deferrable, bCopy.Deferrable = false, false
	aCopy.InitiallyDeferred, bCopy.InitiallyDeferred = false, false
	return aCopy.Hash() == bCopy.Hash()
}

func foreignKeyAdditions(from, to map[string]catalog.Constraint) []catalog.Constraint {
	var out []catalog.Constraint
	for _, name := range sortedKeys(to) {
		tc := to[name]
		if tc.Kind != catalog.ConstraintForeignKey {
			continue
		}
		fc, existed := from[name]
		if !existed || (fc.Hash() != tc.Hash() && !onlyDeferrabilityDiffers(fc, tc)) {
			out = append(out, tc)
		}
	}
	return out
}

func qualifiedTable(t catalog.Table) string { return catalog.QuoteQualifiedIdent(t.Schema, t.Name) }

func partitionBoundText(t catalog.Table) string {
	if t.PartitionBound == nil {
		return ""
	}
	return t.PartitionBound.Expression
}

func strPtrVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func indexConstraintsByName(cs []catalog.Constraint) map[string]catalog.Constraint {
	out := make(map[string]catalog.Constraint, len(cs))
	for _, c := range cs {
		out[c.Name] = c
	}
	return out
}

func columnsByName(cs []catalog.Column) map[string]catalog.Column {
	out := make(map[string]catalog.Column, len(cs))
	for _, c := range cs {
		out[c.Name] = c
	}
	return out
}

func indexesByName(is []catalog.Index) map[string]catalog.Index {
	out := make(map[string]catalog.Index, len(is))
	for _, i := range is {
		out[i.Name] = i
	}
	return out
}

func triggersByName(ts []catalog.Trigger) map[string]catalog.Trigger {
	out := make(map[string]catalog.Trigger, len(ts))
	for _, t := range ts {
		out[t.Name] = t
	}
	return out
}

func policiesByName(ps []catalog.Policy) map[string]catalog.Policy {
	out := make(map[string]catalog.Policy, len(ps))
	for _, p := range ps {
		out[p.Name] = p
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
