package postgres

import (
	"database/sql"
	"fmt"

	"github.com/nettrash/pgcatdiff/catalog"
)

func (r *Reader) readTypes() ([]catalog.Type, error) {
	const q = `
		select n.nspname, t.typname, t.oid,
		       t.typcategory::int, t.typstorage::int, t.typalign::int,
		       (t.typnotnull::int | (t.typbyval::int << 1)) as flags,
		       t.typtype,
		       case when t.typtype = 'd' then bt.typname else null end,
		       pg_get_expr(t.typdefaultbin, 0),
		       t.typnotnull
		from pg_type t
		join pg_namespace n on n.oid = t.typnamespace
		left join pg_type bt on bt.oid = t.typbasetype
		where n.nspname = any($1) and t.typtype in ('d', 'e', 'r', 'm')
		  and not exists (select 1 from pg_class c where c.oid = t.typrelid)
		order by n.nspname, t.typname`

	rows, err := r.db.Query(q, pgArray(r.schemas))
	if err != nil {
		return nil, fmt.Errorf("failed to query types: %w", err)
	}
	defer rows.Close()

	var out []catalog.Type
	for rows.Next() {
		var t catalog.Type
		var kind string
		var baseType sql.NullString
		var def sql.NullString
		if err := rows.Scan(
			&t.Schema, &t.Name, &t.OID,
			&t.Category, &t.Storage, &t.Align, &t.Flags,
			&kind, &baseType, &def, &t.NotNull,
		); err != nil {
			return nil, fmt.Errorf("failed to scan type: %w", err)
		}
		t.Kind = catalog.TypeKind(kind)
		t.BaseType = nullStringPtr(baseType)
		t.Default = nullStringPtr(def)

		switch t.Kind {
		case catalog.TypeKindEnum:
			labels, err := r.readEnumLabels(t.OID)
			if err != nil {
				return nil, fmt.Errorf("failed to read enum labels for %s.%s: %w", t.Schema, t.Name, err)
			}
			t.EnumLabels = labels
		case catalog.TypeKindDomain:
			constraints, err := r.readDomainConstraints(t.OID)
			if err != nil {
				return nil, fmt.Errorf("failed to read domain constraints for %s.%s: %w", t.Schema, t.Name, err)
			}
			t.Constraints = constraints
		}

		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Reader) readEnumLabels(typeOID uint32) ([]string, error) {
	const q = `
		select enumlabel from pg_enum where enumtypid = $1 order by enumsortorder`

	rows, err := r.db.Query(q, typeOID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		out = append(out, label)
	}
	return out, rows.Err()
}

func (r *Reader) readDomainConstraints(typeOID uint32) ([]catalog.DomainConstraint, error) {
	const q = `
		select conname, pg_get_constraintdef(oid)
		from pg_constraint
		where contypid = $1
		order by conname`

	rows, err := r.db.Query(q, typeOID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.DomainConstraint
	for rows.Next() {
		var c catalog.DomainConstraint
		if err := rows.Scan(&c.Name, &c.Definition); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
