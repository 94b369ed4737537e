package catalog_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/nettrash/pgcatdiff/catalog"
)

func TestSnapshot_Validate_DuplicateSchema(t *testing.T) {
	c := qt.New(t)

	snap := catalog.Snapshot{
		Schemas: []catalog.Schema{{Name: "public"}, {Name: "public"}},
	}
	err := snap.Validate()
	c.Assert(err, qt.IsNotNil)

	var structErr *catalog.StructuralError
	c.Assert(err, qt.ErrorAs, &structErr)
	c.Assert(structErr.Kind, qt.Equals, catalog.ErrDuplicateIdentity)
}

func TestSnapshot_Validate_MissingPartitionParent(t *testing.T) {
	c := qt.New(t)

	parent := "orders"
	snap := catalog.Snapshot{
		Schemas: []catalog.Schema{{Name: "public"}},
		Tables: []catalog.Table{
			{Schema: "public", Name: "orders_2024", PartitionOf: &parent},
		},
	}
	err := snap.Validate()
	c.Assert(err, qt.IsNotNil)

	var structErr *catalog.StructuralError
	c.Assert(err, qt.ErrorAs, &structErr)
	c.Assert(structErr.Kind, qt.Equals, catalog.ErrMissingParentPartition)
}

func TestSnapshot_Validate_UnknownConstraintKind(t *testing.T) {
	c := qt.New(t)

	snap := catalog.Snapshot{
		Schemas: []catalog.Schema{{Name: "public"}},
		Tables: []catalog.Table{
			{Schema: "public", Name: "orders", Constraints: []catalog.Constraint{
				{Schema: "public", Table: "orders", Name: "weird", Kind: catalog.ConstraintKind("EXCLUDE")},
			}},
		},
	}
	err := snap.Validate()
	c.Assert(err, qt.IsNotNil)

	var structErr *catalog.StructuralError
	c.Assert(err, qt.ErrorAs, &structErr)
	c.Assert(structErr.Kind, qt.Equals, catalog.ErrUnknownConstraintKind)
}

func TestSnapshot_Validate_OK(t *testing.T) {
	c := qt.New(t)

	parent := "orders"
	snap := catalog.Snapshot{
		Schemas: []catalog.Schema{{Name: "public"}},
		Tables: []catalog.Table{
			{Schema: "public", Name: "orders"},
			{Schema: "public", Name: "orders_2024", PartitionOf: &parent},
		},
	}
	c.Assert(snap.Validate(), qt.IsNil)
}
