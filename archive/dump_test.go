package archive_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/spf13/afero"

	"github.com/nettrash/pgcatdiff/archive"
	"github.com/nettrash/pgcatdiff/catalog"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	c := qt.New(t)

	fs := afero.NewMemMapFs()
	snap := &catalog.Snapshot{
		Schemas: []catalog.Schema{{Name: "public"}},
		Tables: []catalog.Table{{
			Schema: "public", Name: "users",
			Columns: []catalog.Column{{Schema: "public", Table: "users", Name: "id", Ordinal: 1, DataType: "integer"}},
		}},
	}
	generatedAt := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	manifest := archive.NewManifest(snap, "postgres://user@host/db", generatedAt)

	c.Assert(archive.Write(fs, "dump.pgcatdiff", manifest), qt.IsNil)

	loaded, err := archive.Read(fs, "dump.pgcatdiff")
	c.Assert(err, qt.IsNil)
	c.Assert(loaded.ID, qt.Equals, manifest.ID)
	c.Assert(loaded.Source, qt.Equals, "postgres://user@host/db")
	c.Assert(loaded.GeneratedAt.Equal(generatedAt), qt.IsTrue)
	c.Assert(loaded.Snapshot.Tables, qt.HasLen, 1)
	c.Assert(loaded.Snapshot.Tables[0].Name, qt.Equals, "users")
}

func TestRead_MissingFile(t *testing.T) {
	c := qt.New(t)

	fs := afero.NewMemMapFs()
	_, err := archive.Read(fs, "does-not-exist.pgcatdiff")
	c.Assert(err, qt.IsNotNil)
}

func TestNewManifest_StampsUniqueIDs(t *testing.T) {
	c := qt.New(t)

	snap := &catalog.Snapshot{Schemas: []catalog.Schema{{Name: "public"}}}
	now := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)

	a := archive.NewManifest(snap, "a", now)
	b := archive.NewManifest(snap, "b", now)
	c.Assert(a.ID, qt.Not(qt.Equals), b.ID)
}
