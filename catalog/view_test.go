package catalog_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/nettrash/pgcatdiff/catalog"
)

func TestView_Hash_IgnoresWhitespaceAndRelations(t *testing.T) {
	c := qt.New(t)

	a := catalog.View{Schema: "public", Name: "active_users", Definition: "select * from users", Relations: []string{"users"}}
	b := catalog.View{Schema: "public", Name: "active_users", Definition: "  select * from users  ", Relations: nil}

	c.Assert(a.Hash(), qt.Equals, b.Hash())
}

func TestView_Hash_SensitiveToDefinition(t *testing.T) {
	c := qt.New(t)

	a := catalog.View{Schema: "public", Name: "active_users", Definition: "select * from users"}
	b := catalog.View{Schema: "public", Name: "active_users", Definition: "select * from users where active"}

	c.Assert(a.Hash(), qt.Not(qt.Equals), b.Hash())
}

func TestView_Script(t *testing.T) {
	c := qt.New(t)

	v := catalog.View{Schema: "public", Name: "active_users", Definition: " select * from users "}
	c.Assert(v.Script(), qt.Equals, `create view "public"."active_users" as select * from users;`+"\n")
}

func TestView_ReplaceScript(t *testing.T) {
	c := qt.New(t)

	v := catalog.View{Schema: "public", Name: "active_users", Definition: "select * from users"}
	c.Assert(v.ReplaceScript(), qt.Equals, `create or replace view "public"."active_users" as select * from users;`+"\n")
}

func TestView_DropScript(t *testing.T) {
	c := qt.New(t)

	v := catalog.View{Schema: "public", Name: "active_users"}
	c.Assert(v.DropScript(), qt.Equals, `drop view if exists "public"."active_users";`+"\n")
}
