package diff_test

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/nettrash/pgcatdiff/catalog"
	"github.com/nettrash/pgcatdiff/diff"
)

func TestComparer_S4_ForeignKeyDeferrabilityOnly(t *testing.T) {
	c := qt.New(t)

	fkDef := "FOREIGN KEY (account_id) REFERENCES accounts(id)"
	fk := func(deferrable, initiallyDeferred bool) catalog.Constraint {
		return catalog.Constraint{
			Schema: "public", Table: "users", Name: "users_account_fk", Kind: catalog.ConstraintForeignKey,
			Deferrable: deferrable, InitiallyDeferred: initiallyDeferred, Definition: &fkDef,
		}
	}

	usersTable := func(c catalog.Constraint) catalog.Table {
		return catalog.Table{Schema: "public", Name: "users", Constraints: []catalog.Constraint{c}}
	}

	from := &catalog.Snapshot{Schemas: []catalog.Schema{{Name: "public"}}, Tables: []catalog.Table{usersTable(fk(false, false))}}
	to := &catalog.Snapshot{Schemas: []catalog.Schema{{Name: "public"}}, Tables: []catalog.Table{usersTable(fk(true, true))}}

	cmp := diff.NewComparer(from, to, false)
	c.Assert(cmp.Compare(), qt.IsNil)
	script := cmp.Script()

	c.Assert(script, qt.Contains,
		`alter table "public"."users" alter constraint "users_account_fk" deferrable initially deferred;`)
	c.Assert(script, qt.Not(qt.Contains), "drop constraint")
	c.Assert(script, qt.Not(qt.Contains), "add constraint")
}

func TestComparer_S5_ColumnRemovalWithDependentConstraint(t *testing.T) {
	c := qt.New(t)

	checkDef := "CHECK (legacy IS NULL)"
	withLegacy := catalog.Table{
		Schema: "public", Name: "users",
		Columns: []catalog.Column{
			{Schema: "public", Table: "users", Name: "id", Ordinal: 1, DataType: "integer", Nullable: false},
			{Schema: "public", Table: "users", Name: "legacy", Ordinal: 2, DataType: "text", Nullable: true},
		},
		Constraints: []catalog.Constraint{
			{Schema: "public", Table: "users", Name: "users_legacy_check", Kind: catalog.ConstraintCheck, Definition: &checkDef},
		},
	}
	withoutLegacy := catalog.Table{
		Schema: "public", Name: "users",
		Columns: []catalog.Column{
			{Schema: "public", Table: "users", Name: "id", Ordinal: 1, DataType: "integer", Nullable: false},
		},
	}

	from := &catalog.Snapshot{Schemas: []catalog.Schema{{Name: "public"}}, Tables: []catalog.Table{withLegacy}}
	to := &catalog.Snapshot{Schemas: []catalog.Schema{{Name: "public"}}, Tables: []catalog.Table{withoutLegacy}}

	cmp := diff.NewComparer(from, to, true)
	c.Assert(cmp.Compare(), qt.IsNil)
	script := cmp.Script()

	constraintIdx := strings.Index(script, `drop constraint if exists "users_legacy_check"`)
	columnIdx := strings.Index(script, `drop column "legacy"`)
	c.Assert(constraintIdx, qt.Not(qt.Equals), -1)
	c.Assert(columnIdx, qt.Not(qt.Equals), -1)
	c.Assert(constraintIdx < columnIdx, qt.IsTrue)
}

func TestComparer_S6_PartitionKeyChange(t *testing.T) {
	c := qt.New(t)

	listID := "LIST (id)"
	listFlowID := "LIST (flow_id)"

	from := &catalog.Snapshot{
		Schemas: []catalog.Schema{{Name: "data"}},
		Tables:  []catalog.Table{{Schema: "data", Name: "test", PartitionKey: &listID}},
	}
	to := &catalog.Snapshot{
		Schemas: []catalog.Schema{{Name: "data"}},
		Tables:  []catalog.Table{{Schema: "data", Name: "test", PartitionKey: &listFlowID}},
	}

	cmp := diff.NewComparer(from, to, true)
	c.Assert(cmp.Compare(), qt.IsNil)
	script := cmp.Script()

	c.Assert(script, qt.Contains, "Partition key changed")
	dropIdx := strings.Index(script, `drop table if exists "data"."test" cascade;`)
	createIdx := strings.Index(script, `create table "data"."test"`)
	c.Assert(dropIdx, qt.Not(qt.Equals), -1)
	c.Assert(createIdx, qt.Not(qt.Equals), -1)
	c.Assert(dropIdx < createIdx, qt.IsTrue)
	c.Assert(script, qt.Contains, "partition by LIST (flow_id)")
}
