package diff

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/nettrash/pgcatdiff/catalog"
)

func baseColumn() catalog.Column {
	return catalog.Column{Schema: "public", Table: "users", Name: "age", Ordinal: 1, DataType: "integer", Nullable: true}
}

func TestColumnAlterScript_DefaultAdded(t *testing.T) {
	c := qt.New(t)

	from := baseColumn()
	zero := "0"
	to := from
	to.Default = &zero

	out := columnAlterScript(from, to)
	c.Assert(out, qt.Contains, `alter table "public"."users" alter column "age" set default 0;`)
}

func TestColumnAlterScript_DefaultRemoved(t *testing.T) {
	c := qt.New(t)

	zero := "0"
	from := baseColumn()
	from.Default = &zero
	to := baseColumn()

	out := columnAlterScript(from, to)
	c.Assert(out, qt.Contains, `alter table "public"."users" alter column "age" drop default;`)
}

func TestColumnAlterScript_NotNullToggle(t *testing.T) {
	c := qt.New(t)

	from := baseColumn()
	to := from
	to.Nullable = false

	out := columnAlterScript(from, to)
	c.Assert(out, qt.Contains, `alter table "public"."users" alter column "age" set not null;`)
}

func TestColumnAlterScript_TypeChange(t *testing.T) {
	c := qt.New(t)

	from := baseColumn()
	to := from
	to.DataType = "bigint"

	out := columnAlterScript(from, to)
	c.Assert(out, qt.Contains, `alter table "public"."users" alter column "age" type bigint using "age"::bigint;`)
}

func TestColumnAlterScript_IdentityAdded(t *testing.T) {
	c := qt.New(t)

	from := baseColumn()
	to := from
	to.Identity = catalog.IdentityAlways

	out := columnAlterScript(from, to)
	c.Assert(out, qt.Contains, `alter table "public"."users" alter column "age" add generated ALWAYS as identity;`)
}

func TestColumnAlterScript_IdentityDropped(t *testing.T) {
	c := qt.New(t)

	from := baseColumn()
	from.Identity = catalog.IdentityAlways
	to := baseColumn()

	out := columnAlterScript(from, to)
	c.Assert(out, qt.Contains, `alter table "public"."users" alter column "age" drop identity if exists;`)
	c.Assert(columnIdentityDropped(from, to), qt.IsTrue)
}

func TestColumnAlterScript_GeneratedExpressionChangeIsCommentOnly(t *testing.T) {
	c := qt.New(t)

	exprA := "a + b"
	exprB := "a - b"
	from := baseColumn()
	from.GeneratedKind = catalog.GenerationAlways
	from.GeneratedExpr = &exprA
	to := baseColumn()
	to.GeneratedKind = catalog.GenerationAlways
	to.GeneratedExpr = &exprB

	out := columnAlterScript(from, to)
	c.Assert(out, qt.Contains, "-- generated column expression changed")
	c.Assert(out, qt.Not(qt.Contains), "alter column")
}

func TestColumnIdentityDropped_FalseWhenUnchanged(t *testing.T) {
	c := qt.New(t)

	col := baseColumn()
	c.Assert(columnIdentityDropped(col, col), qt.IsFalse)
}
