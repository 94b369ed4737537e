package catalog

import "fmt"

// StructuralErrorKind enumerates the structural violations the core
// refuses to diff through (spec.md §7): these are not advisory — the
// top-level driver aborts and no partial script is written.
type StructuralErrorKind string

const (
	// ErrDuplicateIdentity: a snapshot has two entities sharing the same
	// (schema, name) identity within one kind.
	ErrDuplicateIdentity StructuralErrorKind = "duplicate_identity"
	// ErrMissingParentPartition: a table's PartitionOf names a parent
	// that does not exist in the same snapshot.
	ErrMissingParentPartition StructuralErrorKind = "missing_parent_partition"
	// ErrUnknownConstraintKind: a constraint's Kind is none of the four
	// recognized values.
	ErrUnknownConstraintKind StructuralErrorKind = "unknown_constraint_kind"
)

// StructuralError identifies the offending entity and the nature of the
// violation. It satisfies the standard error interface and is safe to
// inspect with errors.As.
type StructuralError struct {
	Kind   StructuralErrorKind
	Entity string // "schema.name" or similar identity string
	Detail string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error (%s) on %s: %s", e.Kind, e.Entity, e.Detail)
}
