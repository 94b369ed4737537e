package catalog_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/nettrash/pgcatdiff/catalog"
)

func TestQuoteIdent(t *testing.T) {
	c := qt.New(t)

	c.Assert(catalog.QuoteIdent("users"), qt.Equals, `"users"`)
	c.Assert(catalog.QuoteIdent(`weird"name`), qt.Equals, `"weird""name"`)
}

func TestQuoteQualifiedIdent(t *testing.T) {
	c := qt.New(t)

	c.Assert(catalog.QuoteQualifiedIdent("public", "users"), qt.Equals, `"public"."users"`)
}

func TestQuoteLiteral(t *testing.T) {
	c := qt.New(t)

	c.Assert(catalog.QuoteLiteral("it's fine"), qt.Equals, `'it''s fine'`)
}

func TestEscapeLiteral(t *testing.T) {
	c := qt.New(t)

	c.Assert(catalog.EscapeLiteral("a'b'c"), qt.Equals, "a''b''c")
}
