package diff

import "github.com/nettrash/pgcatdiff/catalog"

// columnAlterScript compares a column present in both tables and emits
// the minimal set of `alter table ... alter column ...` clauses, per
// spec.md §4.5's get_alter_script contract. It never emits a drop/add
// pair itself for generation-expression changes — those require an
// operator decision, so a commented warning is emitted instead.
func columnAlterScript(from, to catalog.Column) string {
	var out string
	qualifiedTable := catalog.QuoteQualifiedIdent(to.Schema, to.Table)
	col := catalog.QuoteIdent(to.Name)
	alterColumn := "alter table " + qualifiedTable + " alter column " + col

	if !strPtrEqual(from.Default, to.Default) {
		if to.Default != nil {
			out += alterColumn + " set default " + *to.Default + ";\n"
		} else {
			out += alterColumn + " drop default;\n"
		}
	}

	if from.Nullable != to.Nullable {
		if to.Nullable {
			out += alterColumn + " drop not null;\n"
		} else {
			out += alterColumn + " set not null;\n"
		}
	}

	if from.TypeClause() != to.TypeClause() {
		out += alterColumn + " type " + to.TypeClause() + " using " + col + "::" + to.TypeClause() + ";\n"
	}

	if !strPtrEqual(from.Collation, to.Collation) {
		if to.Collation != nil {
			out += alterColumn + " set data type " + to.TypeClause() + " collate " + catalog.QuoteIdent(*to.Collation) + ";\n"
		} else {
			out += "-- column " + qualifiedTable + "." + col + " dropped its collation; requires a type rewrite, not emitted automatically\n"
		}
	}

	if from.Identity != to.Identity {
		switch {
		case from.Identity == catalog.IdentityNone && to.Identity != catalog.IdentityNone:
			out += alterColumn + " add generated " + string(to.Identity) + " as identity;\n"
		case from.Identity != catalog.IdentityNone && to.Identity == catalog.IdentityNone:
			out += alterColumn + " drop identity if exists;\n"
		default:
			out += alterColumn + " set generated " + string(to.Identity) + ";\n"
		}
	}

	if !strPtrEqual(from.GeneratedExpr, to.GeneratedExpr) || from.GeneratedKind != to.GeneratedKind {
		out += "-- generated column expression changed on " + qualifiedTable + "." + col + "; requires drop and re-add, not applied automatically\n"
	}

	return out
}

// columnIdentityDropped reports whether the column loses identity
// generation. tableAlter uses it to route such a column's alter script
// through the buffer's destructive path, since losing identity generation
// is the one column-alter clause that matches the "alter ... drop ..."
// gating pattern in spec.md §8.
func columnIdentityDropped(from, to catalog.Column) bool {
	return from.Identity != catalog.IdentityNone && to.Identity == catalog.IdentityNone
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
