package catalog_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/nettrash/pgcatdiff/catalog"
)

func TestConstraint_Hash_IgnoresSchema(t *testing.T) {
	c := qt.New(t)

	def := "CHECK (amount > 0)"
	inPublic := catalog.Constraint{Schema: "public", Table: "orders", Name: "amount_check", Kind: catalog.ConstraintCheck, Definition: &def}
	inOther := inPublic
	inOther.Schema = "billing"

	c.Assert(inPublic.Hash(), qt.Equals, inOther.Hash())
}

func TestConstraint_AddScript_DeferrableClause(t *testing.T) {
	c := qt.New(t)

	def := "FOREIGN KEY (account_id) REFERENCES accounts(id)"
	fk := catalog.Constraint{
		Schema: "public", Table: "users", Name: "users_account_fk", Kind: catalog.ConstraintForeignKey,
		Deferrable: true, InitiallyDeferred: true, Definition: &def,
	}
	c.Assert(fk.AddScript(), qt.Equals,
		`alter table "public"."users" add constraint "users_account_fk" FOREIGN KEY (account_id) REFERENCES accounts(id) deferrable initially deferred;`+"\n")
}

func TestConstraint_DropScript(t *testing.T) {
	c := qt.New(t)

	con := catalog.Constraint{Schema: "public", Table: "users", Name: "users_pkey", Kind: catalog.ConstraintPrimaryKey}
	c.Assert(con.DropScript(), qt.Equals, `alter table "public"."users" drop constraint if exists "users_pkey";`+"\n")
}

func TestIndex_Hash_SensitiveToDefinitionText(t *testing.T) {
	c := qt.New(t)

	a := catalog.Index{Schema: "public", Table: "users", Name: "users_email_idx", IndexDef: "CREATE INDEX users_email_idx ON users (email)"}
	b := a
	b.IndexDef = "CREATE INDEX users_email_idx ON users (lower(email))"

	c.Assert(a.Hash(), qt.Not(qt.Equals), b.Hash())
}

func TestIndex_Script_AppendsSemicolonWhenMissing(t *testing.T) {
	c := qt.New(t)

	idx := catalog.Index{IndexDef: "CREATE INDEX users_email_idx ON users (email)"}
	c.Assert(idx.Script(), qt.Equals, "CREATE INDEX users_email_idx ON users (email);\n")
}

func TestIndex_DropScript(t *testing.T) {
	c := qt.New(t)

	idx := catalog.Index{Schema: "public", Name: "users_email_idx"}
	c.Assert(idx.DropScript(), qt.Equals, `drop index if exists "public"."users_email_idx";`+"\n")
}

func TestTrigger_Hash_IgnoresFunctionOID(t *testing.T) {
	c := qt.New(t)

	oidA := uint32(100)
	oidB := uint32(200)
	a := catalog.Trigger{Schema: "public", Table: "users", Name: "set_updated_at", Definition: "CREATE TRIGGER set_updated_at ...", FunctionOID: &oidA}
	b := a
	b.FunctionOID = &oidB

	c.Assert(a.Hash(), qt.Equals, b.Hash())
}

func TestTrigger_DropScript(t *testing.T) {
	c := qt.New(t)

	trg := catalog.Trigger{Schema: "public", Table: "users", Name: "set_updated_at"}
	c.Assert(trg.DropScript(), qt.Equals, `drop trigger if exists "set_updated_at" on "public"."users";`+"\n")
}

func TestPolicy_Script_DefaultsToPublicRole(t *testing.T) {
	c := qt.New(t)

	using := "user_id = current_user_id()"
	p := catalog.Policy{Schema: "public", Table: "documents", Name: "owner_only", Command: catalog.PolicySelect, Permissive: true, Using: &using}
	script := p.Script()
	c.Assert(script, qt.Contains, "to public")
	c.Assert(script, qt.Contains, "using (user_id = current_user_id())")
}

func TestPolicy_Script_ExplicitRolesAndRestrictive(t *testing.T) {
	c := qt.New(t)

	p := catalog.Policy{Schema: "public", Table: "documents", Name: "admins_only", Command: catalog.PolicyAll, Permissive: false, Roles: []string{"admin", "auditor"}}
	script := p.Script()
	c.Assert(script, qt.Contains, "as restrictive")
	c.Assert(script, qt.Contains, `to "admin", "auditor"`)
}

func TestPolicy_Hash_SensitiveToRoleOrder(t *testing.T) {
	c := qt.New(t)

	a := catalog.Policy{Schema: "public", Table: "documents", Name: "p", Command: catalog.PolicyAll, Roles: []string{"admin", "auditor"}}
	b := a
	b.Roles = []string{"auditor", "admin"}

	c.Assert(a.Hash(), qt.Not(qt.Equals), b.Hash())
}

func TestPolicy_DropScript(t *testing.T) {
	c := qt.New(t)

	p := catalog.Policy{Schema: "public", Table: "documents", Name: "owner_only"}
	c.Assert(p.DropScript(), qt.Equals, `drop policy if exists "owner_only" on "public"."documents";`+"\n")
}
