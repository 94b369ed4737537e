package diff

import (
	"strings"

	"github.com/nettrash/pgcatdiff/catalog"
)

// viewAlterScript implements spec.md §4.8: equal trimmed definitions emit
// a comment-only note; any textual difference emits `create or replace
// view`.
func viewAlterScript(buf *buffer, from, to catalog.View) {
	if strings.TrimSpace(from.Definition) == strings.TrimSpace(to.Definition) {
		buf.comment("view " + catalog.QuoteQualifiedIdent(to.Schema, to.Name) + " is unchanged")
		return
	}
	buf.live(to.ReplaceScript())
	if strPtrVal(from.Comment) != strPtrVal(to.Comment) {
		if to.Comment != nil {
			buf.live("comment on view " + catalog.QuoteQualifiedIdent(to.Schema, to.Name) + " is " + catalog.QuoteLiteral(*to.Comment) + ";\n")
		} else {
			buf.live("comment on view " + catalog.QuoteQualifiedIdent(to.Schema, to.Name) + " is null;\n")
		}
	}
}
