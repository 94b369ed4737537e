package diff_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/nettrash/pgcatdiff/catalog"
	"github.com/nettrash/pgcatdiff/diff"
)

func TestComparer_S1_NewExtension(t *testing.T) {
	c := qt.New(t)

	from := &catalog.Snapshot{Schemas: []catalog.Schema{{Name: "public"}}}
	to := &catalog.Snapshot{
		Schemas:    []catalog.Schema{{Name: "public"}},
		Extensions: []catalog.Extension{{Name: "uuid-ossp", Version: "1.1", Schema: "public"}},
	}

	cmp := diff.NewComparer(from, to, false)
	c.Assert(cmp.Compare(), qt.IsNil)
	script := cmp.Script()
	c.Assert(script, qt.Contains, `create extension if not exists "uuid-ossp" with schema "public" version '1.1';`)
}

func TestComparer_NoopDiffEmitsNoLiveStatements(t *testing.T) {
	c := qt.New(t)

	snap := &catalog.Snapshot{
		Schemas: []catalog.Schema{{Name: "public"}},
		Tables: []catalog.Table{{
			Schema: "public", Name: "users",
			Columns: []catalog.Column{{Schema: "public", Table: "users", Name: "id", Ordinal: 1, DataType: "integer", Nullable: false}},
		}},
	}

	cmp := diff.NewComparer(snap, snap, false)
	c.Assert(cmp.Compare(), qt.IsNil)
	c.Assert(cmp.Script(), qt.Equals, "")
}

func TestComparer_UseDropGatesDestructiveStatements(t *testing.T) {
	c := qt.New(t)

	from := &catalog.Snapshot{
		Schemas: []catalog.Schema{{Name: "public"}},
		Tables:  []catalog.Table{{Schema: "public", Name: "legacy"}},
	}
	to := &catalog.Snapshot{Schemas: []catalog.Schema{{Name: "public"}}}

	gated := diff.NewComparer(from, to, false)
	c.Assert(gated.Compare(), qt.IsNil)
	c.Assert(gated.Script(), qt.Contains, `-- drop table if exists "public"."legacy" cascade;`)

	live := diff.NewComparer(from, to, true)
	c.Assert(live.Compare(), qt.IsNil)
	c.Assert(live.Script(), qt.Contains, "drop table if exists \"public\".\"legacy\" cascade;")
	c.Assert(live.Script(), qt.Not(qt.Contains), "-- drop table")
}

func TestComparer_ValidatesBeforeRunning(t *testing.T) {
	c := qt.New(t)

	bad := &catalog.Snapshot{Schemas: []catalog.Schema{{Name: "public"}, {Name: "public"}}}
	good := &catalog.Snapshot{Schemas: []catalog.Schema{{Name: "public"}}}

	cmp := diff.NewComparer(bad, good, false)
	err := cmp.Compare()
	c.Assert(err, qt.IsNotNil)
	c.Assert(cmp.Script(), qt.Equals, "")
}
