package diff

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/nettrash/pgcatdiff/catalog"
)

func TestViewAlterScript_UnchangedDefinitionIsCommentOnly(t *testing.T) {
	c := qt.New(t)

	buf := newBuffer(true)
	from := catalog.View{Schema: "public", Name: "active_users", Definition: "select * from users where active"}
	to := from

	viewAlterScript(buf, from, to)
	c.Assert(buf.String(), qt.Contains, `view "public"."active_users" is unchanged`)
	c.Assert(buf.String(), qt.Not(qt.Contains), "create or replace")
}

func TestViewAlterScript_DefinitionChangeEmitsReplace(t *testing.T) {
	c := qt.New(t)

	buf := newBuffer(true)
	from := catalog.View{Schema: "public", Name: "active_users", Definition: "select * from users where active"}
	to := catalog.View{Schema: "public", Name: "active_users", Definition: "select * from users where active and not banned"}

	viewAlterScript(buf, from, to)
	c.Assert(buf.String(), qt.Contains, "create or replace")
}

func TestViewAlterScript_CommentAddedWhenDefinitionUnchangedIsSkipped(t *testing.T) {
	c := qt.New(t)

	buf := newBuffer(true)
	comment := "user-facing view"
	from := catalog.View{Schema: "public", Name: "active_users", Definition: "select * from users"}
	to := from
	to.Comment = &comment

	viewAlterScript(buf, from, to)
	// definition unchanged, so only the comment-only branch runs and no comment-on-view is emitted
	c.Assert(buf.String(), qt.Contains, "is unchanged")
	c.Assert(buf.String(), qt.Not(qt.Contains), "comment on view")
}
