// Package postgres extracts a catalog.Snapshot from a live PostgreSQL
// database by querying pg_catalog directly, the way dbschema/postgres
// reads information_schema for the Go-struct-vs-database compare this
// package replaces. It connects through jackc/pgx/v5/stdlib rather than
// lib/pq: the rest of this module standardizes on pgx for its richer
// type support (arrays, composite defaults) and active maintenance.
package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nettrash/pgcatdiff/catalog"
)

// Reader extracts a catalog.Snapshot from one or more PostgreSQL
// namespaces (schemas). Unlike dbschema/postgres.Reader, which reads a
// single schema against information_schema, Reader reads pg_catalog
// directly so it can capture entities information_schema omits (enum
// labels, domain constraints, RLS policies, trigger/function OIDs).
type Reader struct {
	db      *sql.DB
	schemas []string
}

// Open connects to dsn via pgx's database/sql driver and returns a
// Reader scoped to the given schemas. An empty schemas list defaults to
// []string{"public"}.
func Open(dsn string, schemas ...string) (*Reader, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return NewReader(db, schemas...), nil
}

// NewReader builds a Reader around an already-open *sql.DB, for callers
// that manage their own connection pool.
func NewReader(db *sql.DB, schemas ...string) *Reader {
	if len(schemas) == 0 {
		schemas = []string{"public"}
	}
	return &Reader{db: db, schemas: schemas}
}

// Close closes the underlying connection pool.
func (r *Reader) Close() error {
	return r.db.Close()
}

// ReadSnapshot reads every entity kind spec.md §3 names, scoped to the
// reader's configured schemas, and assembles them into a
// catalog.Snapshot ready for diff.NewComparer.
func (r *Reader) ReadSnapshot() (*catalog.Snapshot, error) {
	snap := &catalog.Snapshot{}

	schemas, err := r.readSchemas()
	if err != nil {
		return nil, fmt.Errorf("failed to read schemas: %w", err)
	}
	snap.Schemas = schemas

	extensions, err := r.readExtensions()
	if err != nil {
		return nil, fmt.Errorf("failed to read extensions: %w", err)
	}
	snap.Extensions = extensions

	types, err := r.readTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read types: %w", err)
	}
	snap.Types = types

	sequences, err := r.readSequences()
	if err != nil {
		return nil, fmt.Errorf("failed to read sequences: %w", err)
	}
	snap.Sequences = sequences

	routines, err := r.readRoutines()
	if err != nil {
		return nil, fmt.Errorf("failed to read routines: %w", err)
	}
	snap.Routines = routines

	tables, err := r.readTables()
	if err != nil {
		return nil, fmt.Errorf("failed to read tables: %w", err)
	}
	snap.Tables = tables

	views, err := r.readViews()
	if err != nil {
		return nil, fmt.Errorf("failed to read views: %w", err)
	}
	snap.Views = views

	return snap, nil
}

func (r *Reader) readSchemas() ([]catalog.Schema, error) {
	const q = `
		select n.nspname, obj_description(n.oid, 'pg_namespace')
		from pg_namespace n
		where n.nspname = any($1)
		order by n.nspname`

	rows, err := r.db.Query(q, pgArray(r.schemas))
	if err != nil {
		return nil, fmt.Errorf("failed to query schemas: %w", err)
	}
	defer rows.Close()

	var out []catalog.Schema
	for rows.Next() {
		var s catalog.Schema
		var comment sql.NullString
		if err := rows.Scan(&s.Name, &comment); err != nil {
			return nil, fmt.Errorf("failed to scan schema: %w", err)
		}
		s.Comment = nullStringPtr(comment)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Reader) readExtensions() ([]catalog.Extension, error) {
	const q = `
		select e.extname, e.extversion, n.nspname
		from pg_extension e
		join pg_namespace n on n.oid = e.extnamespace
		order by e.extname`

	rows, err := r.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("failed to query extensions: %w", err)
	}
	defer rows.Close()

	var out []catalog.Extension
	for rows.Next() {
		var e catalog.Extension
		if err := rows.Scan(&e.Name, &e.Version, &e.Schema); err != nil {
			return nil, fmt.Errorf("failed to scan extension: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Reader) readSequences() ([]catalog.Sequence, error) {
	const q = `
		select n.nspname, c.relname, pg_get_userbyid(c.relowner),
		       s.seqtypid::regtype::text, s.seqstart, s.seqmin, s.seqmax,
		       s.seqincrement, s.seqcycle, s.seqcache,
		       coalesce(d.refobjid::regclass::text, ''), coalesce(a.attname, ''),
		       on_schema.nspname, exists(
		           select 1 from pg_depend dep
		           where dep.objid = c.oid and dep.deptype = 'i'
		       ),
		       obj_description(c.oid, 'pg_class')
		from pg_sequence s
		join pg_class c on c.oid = s.seqrelid
		join pg_namespace n on n.oid = c.relnamespace
		left join pg_depend d on d.objid = c.oid and d.deptype in ('a', 'i')
		left join pg_attribute a on a.attrelid = d.refobjid and a.attnum = d.refobjsubid
		left join pg_class owned_rel on owned_rel.oid = d.refobjid
		left join pg_namespace on_schema on on_schema.oid = owned_rel.relnamespace
		where n.nspname = any($1)
		order by n.nspname, c.relname`

	rows, err := r.db.Query(q, pgArray(r.schemas))
	if err != nil {
		return nil, fmt.Errorf("failed to query sequences: %w", err)
	}
	defer rows.Close()

	var out []catalog.Sequence
	for rows.Next() {
		var s catalog.Sequence
		var ownedTable, ownedColumn, ownedSchema string
		var isIdentity bool
		var comment sql.NullString
		if err := rows.Scan(
			&s.Schema, &s.Name, &s.Owner,
			&s.DataType, &s.Start, &s.Min, &s.Max,
			&s.Increment, &s.Cycle, &s.CacheSize,
			&ownedTable, &ownedColumn, &ownedSchema, &isIdentity,
			&comment,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sequence: %w", err)
		}
		s.IsIdentity = isIdentity
		s.Comment = nullStringPtr(comment)
		if ownedTable != "" {
			s.OwnedByTable = &ownedTable
			s.OwnedByColumn = &ownedColumn
			s.OwnedBySchema = &ownedSchema
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Reader) readRoutines() ([]catalog.Routine, error) {
	const q = `
		select n.nspname, p.oid, p.proname, l.lanname,
		       case p.prokind when 'p' then 'procedure' else 'function' end,
		       pg_get_function_result(p.oid),
		       pg_get_function_identity_arguments(p.oid),
		       nullif(pg_get_function_arguments(p.oid), pg_get_function_identity_arguments(p.oid)),
		       p.prosrc,
		       case p.provolatile when 'i' then 'immutable' when 's' then 'stable' else 'volatile' end,
		       p.prosecdef,
		       obj_description(p.oid, 'pg_proc')
		from pg_proc p
		join pg_namespace n on n.oid = p.pronamespace
		join pg_language l on l.oid = p.prolang
		where n.nspname = any($1)
		order by n.nspname, p.proname, pg_get_function_identity_arguments(p.oid)`

	rows, err := r.db.Query(q, pgArray(r.schemas))
	if err != nil {
		return nil, fmt.Errorf("failed to query routines: %w", err)
	}
	defer rows.Close()

	var out []catalog.Routine
	for rows.Next() {
		var rt catalog.Routine
		var kind string
		var defaults sql.NullString
		var comment sql.NullString
		if err := rows.Scan(
			&rt.Schema, &rt.OID, &rt.Name, &rt.Lang,
			&kind, &rt.ReturnType, &rt.Arguments, &defaults,
			&rt.SourceCode, &rt.Volatility, &rt.SecurityDefiner,
			&comment,
		); err != nil {
			return nil, fmt.Errorf("failed to scan routine: %w", err)
		}
		rt.Kind = catalog.RoutineKind(kind)
		rt.ArgumentDefaults = nullStringPtr(defaults)
		rt.Comment = nullStringPtr(comment)
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *Reader) readViews() ([]catalog.View, error) {
	const q = `
		select n.nspname, c.relname, pg_get_viewdef(c.oid, true),
		       obj_description(c.oid, 'pg_class')
		from pg_class c
		join pg_namespace n on n.oid = c.relnamespace
		where c.relkind = 'v' and n.nspname = any($1)
		order by n.nspname, c.relname`

	rows, err := r.db.Query(q, pgArray(r.schemas))
	if err != nil {
		return nil, fmt.Errorf("failed to query views: %w", err)
	}
	defer rows.Close()

	var out []catalog.View
	for rows.Next() {
		var v catalog.View
		var comment sql.NullString
		if err := rows.Scan(&v.Schema, &v.Name, &v.Definition, &comment); err != nil {
			return nil, fmt.Errorf("failed to scan view: %w", err)
		}
		v.Comment = nullStringPtr(comment)

		deps, err := r.readViewRelations(v.Schema, v.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to read relations for view %s.%s: %w", v.Schema, v.Name, err)
		}
		v.Relations = deps

		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Reader) readViewRelations(schema, name string) ([]string, error) {
	const q = `
		select distinct rn.nspname || '.' || rc.relname
		from pg_depend d
		join pg_rewrite rw on rw.oid = d.objid
		join pg_class vc on vc.oid = rw.ev_class
		join pg_namespace vn on vn.oid = vc.relnamespace
		join pg_class rc on rc.oid = d.refobjid
		join pg_namespace rn on rn.oid = rc.relnamespace
		where vn.nspname = $1 and vc.relname = $2
		  and rc.oid != vc.oid and rc.relkind in ('r', 'v', 'p')
		order by 1`

	rows, err := r.db.Query(q, schema, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var rel string
		if err := rows.Scan(&rel); err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

func nullStringPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}

// pgArray renders a Go string slice as the literal PostgreSQL array text
// format accepted by `= any($1)`; avoids an extra dependency on
// pgtype for this one conversion.
func pgArray(items []string) string {
	out := "{"
	for i, it := range items {
		if i > 0 {
			out += ","
		}
		out += `"` + strings.ReplaceAll(it, `"`, `\"`) + `"`
	}
	return out + "}"
}
