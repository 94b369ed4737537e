package catalog_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/nettrash/pgcatdiff/catalog"
)

func TestSequence_Hash_IgnoresLastValue(t *testing.T) {
	c := qt.New(t)

	base := catalog.Sequence{Schema: "public", Name: "users_id_seq", DataType: "bigint", Increment: 1, LastValue: 1}
	advanced := base
	advanced.LastValue = 9001

	c.Assert(base.Hash(), qt.Equals, advanced.Hash())
}

func TestSequence_Hash_SensitiveToOwnership(t *testing.T) {
	c := qt.New(t)

	table := "users"
	column := "id"
	unowned := catalog.Sequence{Schema: "public", Name: "users_id_seq", DataType: "bigint", Increment: 1}
	owned := unowned
	owned.OwnedByTable = &table
	owned.OwnedByColumn = &column

	c.Assert(unowned.Hash(), qt.Not(qt.Equals), owned.Hash())
}

func TestSequence_Script_IncludesOwnedByClause(t *testing.T) {
	c := qt.New(t)

	table := "users"
	column := "id"
	seq := catalog.Sequence{
		Schema: "public", Name: "users_id_seq", DataType: "bigint",
		Start: 1, Min: 1, Max: 9223372036854775807, Increment: 1, CacheSize: 1,
		OwnedByTable: &table, OwnedByColumn: &column,
	}
	script := seq.Script()
	c.Assert(script, qt.Contains, `create sequence if not exists "public"."users_id_seq"`)
	c.Assert(script, qt.Contains, `alter sequence "public"."users_id_seq" owned by "public"."users"."id";`)
}

func TestSequence_DropScript(t *testing.T) {
	c := qt.New(t)

	seq := catalog.Sequence{Schema: "public", Name: "users_id_seq"}
	c.Assert(seq.DropScript(), qt.Equals, `drop sequence if exists "public"."users_id_seq";`+"\n")
}
