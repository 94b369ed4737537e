// Package testfixtures builds small, deterministic catalog.Snapshot
// values for the diff package tests, the way the
// teacher's integration/fixtures builds reusable schema fixtures for its
// own test suite.
package testfixtures

import (
	"github.com/nettrash/pgcatdiff/catalog"
)

// StringPtr returns a pointer to s; a tiny helper repeated across every
// test file that builds optional-field fixtures.
func StringPtr(s string) *string { return &s }

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 { return &v }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// SimpleUsersTable returns a two-column table (id integer generated
// always as identity, email text not null, primary key users_pkey on id)
// with no indexes, triggers or policies — the
// baseline fixture most table-differ tests start from.
func SimpleUsersTable() catalog.Table {
	return catalog.Table{
		Schema: "public",
		Name:   "users",
		Owner:  "postgres",
		Columns: []catalog.Column{
			{Schema: "public", Table: "users", Name: "id", Ordinal: 1, DataType: "integer", Nullable: false,
				Identity: catalog.IdentityAlways},
			{Schema: "public", Table: "users", Name: "email", Ordinal: 2, DataType: "text", Nullable: false},
		},
		Constraints: []catalog.Constraint{
			{Schema: "public", Table: "users", Name: "users_pkey", Kind: catalog.ConstraintPrimaryKey,
				Definition: StringPtr("PRIMARY KEY (id)")},
		},
	}
}

// EmptySnapshot returns a Snapshot with a single "public" schema and
// nothing else, the minimal valid snapshot diff.NewComparer accepts.
func EmptySnapshot() *catalog.Snapshot {
	return &catalog.Snapshot{
		Schemas: []catalog.Schema{{Name: "public"}},
	}
}

// SnapshotWithTables returns a Snapshot containing the "public" schema
// and the given tables.
func SnapshotWithTables(tables ...catalog.Table) *catalog.Snapshot {
	return &catalog.Snapshot{
		Schemas: []catalog.Schema{{Name: "public"}},
		Tables:  tables,
	}
}
