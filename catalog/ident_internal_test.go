package catalog

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

// TestQuotingInvariant exercises spec.md §8's quoting invariant: every
// identifier QuoteIdent touches comes back wrapped in double quotes,
// regardless of whether it would have required quoting to preserve its
// casing (needsQuoting only distinguishes "would silently fold if left
// bare" from "safe either way" — it never gates whether QuoteIdent acts).
func TestQuotingInvariant(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name         string
		needsQuoting bool
	}{
		{"users", false},
		{"Users", true},
		{"uuid-ossp", true},
		{"user_accounts", false},
		{"", true},
	}

	for _, tc := range cases {
		c.Assert(needsQuoting(tc.name), qt.Equals, tc.needsQuoting, qt.Commentf("name=%q", tc.name))
		quoted := QuoteIdent(tc.name)
		c.Assert(quoted[0], qt.Equals, byte('"'))
		c.Assert(quoted[len(quoted)-1], qt.Equals, byte('"'))
	}
}
