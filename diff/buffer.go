// Package diff implements the ALTER-synthesis side of schema comparison:
// given two catalog.Snapshot values of the same conceptual schema, it
// emits an ordered, deterministic SQL script that converges the "from"
// snapshot into the "to" snapshot.
//
// The package never mutates its inputs. Every exported entry point is a
// pure function of its arguments plus the running script buffer; there is
// no package-level state.
package diff

import "strings"

// buffer accumulates the output script. It is append-only: once a
// statement has been written it is never reordered or removed, only
// (optionally) rewritten line-by-line into a comment when use_drop is
// false.
type buffer struct {
	useDrop bool
	sb      strings.Builder
}

func newBuffer(useDrop bool) *buffer {
	return &buffer{useDrop: useDrop}
}

// live appends a statement that is never gated by use_drop (creates,
// additive alters, comment statements).
func (b *buffer) live(s string) {
	if s == "" {
		return
	}
	b.sb.WriteString(s)
}

// destructive appends a statement that represents data loss or removal
// of a schema object (spec.md §4.4, §8 "Drop gating"). When use_drop is
// false every line of s is rewritten with a `-- ` prefix so the script
// remains a no-op for that statement while still surfacing it for human
// review; ordering and the trailing newline are preserved.
func (b *buffer) destructive(s string) {
	if s == "" {
		return
	}
	if b.useDrop {
		b.sb.WriteString(s)
		return
	}
	b.sb.WriteString(commentLines(s))
}

func (b *buffer) comment(s string) {
	if s == "" {
		return
	}
	b.sb.WriteString("-- " + s + "\n")
}

func (b *buffer) String() string { return b.sb.String() }

// commentLines prefixes every line of s (empty ones included) with "-- ", preserving
// the trailing newline structure of the input.
func commentLines(s string) string {
	trimmed := strings.TrimSuffix(s, "\n")
	if trimmed == "" {
		return ""
	}
	lines := strings.Split(trimmed, "\n")
	var out strings.Builder
	for _, l := range lines {
		out.WriteString("-- ")
		out.WriteString(l)
		out.WriteString("\n")
	}
	return out.String()
}
