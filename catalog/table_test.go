package catalog_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/nettrash/pgcatdiff/catalog"
)

func usersTable() catalog.Table {
	return catalog.Table{
		Schema: "public", Name: "users",
		Columns: []catalog.Column{
			{Schema: "public", Table: "users", Name: "id", Ordinal: 1, DataType: "integer", Nullable: false},
			{Schema: "public", Table: "users", Name: "email", Ordinal: 2, DataType: "text", Nullable: false},
		},
	}
}

func TestTable_Hash_InsensitiveToChildOrder(t *testing.T) {
	c := qt.New(t)

	def1 := "CHECK (a)"
	def2 := "CHECK (b)"
	a := usersTable()
	a.Constraints = []catalog.Constraint{
		{Schema: "public", Table: "users", Name: "c1", Kind: catalog.ConstraintCheck, Definition: &def1},
		{Schema: "public", Table: "users", Name: "c2", Kind: catalog.ConstraintCheck, Definition: &def2},
	}
	b := usersTable()
	b.Constraints = []catalog.Constraint{
		{Schema: "public", Table: "users", Name: "c2", Kind: catalog.ConstraintCheck, Definition: &def2},
		{Schema: "public", Table: "users", Name: "c1", Kind: catalog.ConstraintCheck, Definition: &def1},
	}

	c.Assert(a.Hash(), qt.Equals, b.Hash())
}

func TestTable_Hash_SensitiveToColumnOrdinal(t *testing.T) {
	c := qt.New(t)

	a := usersTable()
	b := usersTable()
	b.Columns[0].Ordinal, b.Columns[1].Ordinal = b.Columns[1].Ordinal, b.Columns[0].Ordinal

	c.Assert(a.Hash(), qt.Not(qt.Equals), b.Hash())
}

func TestTable_Script_PlainCreateTableWithColumns(t *testing.T) {
	c := qt.New(t)

	script := usersTable().Script()
	c.Assert(script, qt.Contains, `create table "public"."users" (`)
	c.Assert(script, qt.Contains, `"id"`)
	c.Assert(script, qt.Contains, `"email"`)
}

func TestTable_Script_PartitionChild(t *testing.T) {
	c := qt.New(t)

	parent := "events"
	bound := catalog.PartitionBound{Expression: "FOR VALUES FROM ('2026-01-01') TO ('2026-02-01')"}
	tbl := catalog.Table{Schema: "public", Name: "events_2026_01", PartitionOf: &parent, PartitionBound: &bound}

	script := tbl.Script()
	c.Assert(script, qt.Equals,
		`create table "public"."events_2026_01" partition of "public"."events" FOR VALUES FROM ('2026-01-01') TO ('2026-02-01');`+"\n")
}

func TestTable_Script_IncludesRLSAndComment(t *testing.T) {
	c := qt.New(t)

	comment := "primary user table"
	tbl := usersTable()
	tbl.RLSEnabled = true
	tbl.Comment = &comment

	script := tbl.Script()
	c.Assert(script, qt.Contains, `alter table "public"."users" enable row level security;`)
	c.Assert(script, qt.Contains, `comment on table "public"."users" is 'primary user table';`)
}

func TestTable_DropScript(t *testing.T) {
	c := qt.New(t)

	c.Assert(usersTable().DropScript(), qt.Equals, `drop table if exists "public"."users" cascade;`+"\n")
}
