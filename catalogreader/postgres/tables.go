package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/nettrash/pgcatdiff/catalog"
)

func (r *Reader) readTables() ([]catalog.Table, error) {
	const q = `
		select n.nspname, c.relname, pg_get_userbyid(c.relowner),
		       nullif(ts.spcname, ''),
		       c.relhasindex, c.relhastriggers, c.relhasrules, c.relrowsecurity,
		       pg_get_partkeydef(c.oid),
		       parent_n.nspname, parent_c.relname,
		       pg_get_expr(c.relpartbound, c.oid),
		       obj_description(c.oid, 'pg_class')
		from pg_class c
		join pg_namespace n on n.oid = c.relnamespace
		left join pg_tablespace ts on ts.oid = c.reltablespace
		left join pg_inherits inh on inh.inhrelid = c.oid and c.relispartition
		left join pg_class parent_c on parent_c.oid = inh.inhparent
		left join pg_namespace parent_n on parent_n.oid = parent_c.relnamespace
		where c.relkind in ('r', 'p') and n.nspname = any($1)
		order by n.nspname, c.relname`

	rows, err := r.db.Query(q, pgArray(r.schemas))
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []catalog.Table
	for rows.Next() {
		var t catalog.Table
		var partitionKey, parentSchema, parentTable, partitionBound, comment sql.NullString
		if err := rows.Scan(
			&t.Schema, &t.Name, &t.Owner,
			&t.Tablespace,
			&t.Flags.HasIndexes, &t.Flags.HasTriggers, &t.Flags.HasRules, &t.Flags.HasRowSecurity,
			&partitionKey, &parentSchema, &parentTable, &partitionBound,
			&comment,
		); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		t.PartitionKey = nullStringPtr(partitionKey)
		t.Comment = nullStringPtr(comment)
		t.RLSEnabled = t.Flags.HasRowSecurity
		if parentTable.Valid {
			t.PartitionOf = nullStringPtr(parentTable)
			if partitionBound.Valid {
				t.PartitionBound = &catalog.PartitionBound{Expression: partitionBound.String}
			}
		}

		cols, err := r.readColumns(t.Schema, t.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to read columns for %s.%s: %w", t.Schema, t.Name, err)
		}
		t.Columns = cols

		constraints, err := r.readConstraints(t.Schema, t.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to read constraints for %s.%s: %w", t.Schema, t.Name, err)
		}
		t.Constraints = constraints

		indexes, err := r.readIndexes(t.Schema, t.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to read indexes for %s.%s: %w", t.Schema, t.Name, err)
		}
		t.Indexes = indexes

		triggers, err := r.readTriggers(t.Schema, t.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to read triggers for %s.%s: %w", t.Schema, t.Name, err)
		}
		t.Triggers = triggers

		policies, err := r.readPolicies(t.Schema, t.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to read policies for %s.%s: %w", t.Schema, t.Name, err)
		}
		t.Policies = policies

		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (r *Reader) readColumns(schema, table string) ([]catalog.Column, error) {
	const q = `
		select a.attname, a.attnum,
		       format_type(a.atttypid, null),
		       case when a.atttypmod > 0 and format_type(a.atttypid, null) ~ 'char' then a.atttypmod - 4 else null end,
		       case when t.typname in ('numeric') and a.atttypmod >= 4 then ((a.atttypmod - 4) >> 16) & 65535 else null end,
		       case when t.typname in ('numeric') and a.atttypmod >= 4 then (a.atttypmod - 4) & 65535 else null end,
		       nullif(col.collname, ''),
		       pg_get_expr(ad.adbin, ad.adrelid),
		       not a.attnotnull,
		       case a.attidentity when 'a' then 'ALWAYS' when 'd' then 'BY DEFAULT' else '' end,
		       case a.attgenerated when 's' then 'ALWAYS' else '' end,
		       case when a.attgenerated = 's' then pg_get_expr(ad.adbin, ad.adrelid) else null end,
		       obj_description(('"' || n.nspname || '"."' || c.relname || '"')::regclass::oid || 0, 'pg_class'),
		       col_description(c.oid, a.attnum)
		from pg_attribute a
		join pg_class c on c.oid = a.attrelid
		join pg_namespace n on n.oid = c.relnamespace
		join pg_type t on t.oid = a.atttypid
		left join pg_collation col on col.oid = a.attcollation
		left join pg_attrdef ad on ad.adrelid = a.attrelid and ad.adnum = a.attnum
		where n.nspname = $1 and c.relname = $2 and a.attnum > 0 and not a.attisdropped
		order by a.attnum`

	rows, err := r.db.Query(q, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Column
	for rows.Next() {
		var c catalog.Column
		var length, precision, scale sql.NullInt64
		var collation sql.NullString
		var def sql.NullString
		var identity string
		var generatedKind string
		var generatedExpr sql.NullString
		var tableComment, colComment sql.NullString
		if err := rows.Scan(
			&c.Name, &c.Ordinal, &c.DataType,
			&length, &precision, &scale,
			&collation, &def, &c.Nullable,
			&identity, &generatedKind, &generatedExpr,
			&tableComment, &colComment,
		); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		c.Schema, c.Table = schema, table
		c.Length = nullIntPtr(length)
		c.Precision = nullIntPtr(precision)
		c.Scale = nullIntPtr(scale)
		c.Collation = nullStringPtr(collation)
		c.Default = nullStringPtr(def)
		c.Identity = catalog.IdentityGeneration(identity)
		c.GeneratedKind = catalog.GenerationKind(generatedKind)
		c.GeneratedExpr = nullStringPtr(generatedExpr)
		c.Comment = nullStringPtr(colComment)
		c.Updatable = true

		if c.Identity != catalog.IdentityNone {
			params, err := r.readIdentityParams(schema, table, c.Name)
			if err != nil {
				return nil, fmt.Errorf("failed to read identity params for %s.%s.%s: %w", schema, table, c.Name, err)
			}
			c.IdentityParams = params
		}

		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Reader) readIdentityParams(schema, table, column string) (catalog.IdentityParams, error) {
	const q = `
		select s.seqstart, s.seqincrement, s.seqmin, s.seqmax, s.seqcycle
		from pg_sequence s
		join pg_depend d on d.objid = s.seqrelid
		join pg_attribute a on a.attrelid = d.refobjid and a.attnum = d.refobjsubid
		join pg_class c on c.oid = d.refobjid
		join pg_namespace n on n.oid = c.relnamespace
		where n.nspname = $1 and c.relname = $2 and a.attname = $3 and d.deptype = 'i'`

	var p catalog.IdentityParams
	var start, increment, min, max int64
	err := r.db.QueryRow(q, schema, table, column).Scan(&start, &increment, &min, &max, &p.Cycle)
	if err == sql.ErrNoRows {
		return p, nil
	}
	if err != nil {
		return p, err
	}
	p.Start, p.Increment, p.MinValue, p.MaxValue = &start, &increment, &min, &max
	return p, nil
}

func (r *Reader) readConstraints(schema, table string) ([]catalog.Constraint, error) {
	const q = `
		select con.conname,
		       case con.contype when 'p' then 'PRIMARY KEY' when 'f' then 'FOREIGN KEY'
		            when 'u' then 'UNIQUE' when 'c' then 'CHECK' else 'CHECK' end,
		       con.condeferrable, con.condeferred,
		       pg_get_constraintdef(con.oid)
		from pg_constraint con
		join pg_class c on c.oid = con.conrelid
		join pg_namespace n on n.oid = c.relnamespace
		where n.nspname = $1 and c.relname = $2
		order by con.conname`

	rows, err := r.db.Query(q, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Constraint
	for rows.Next() {
		var c catalog.Constraint
		var kind string
		var def sql.NullString
		if err := rows.Scan(&c.Name, &kind, &c.Deferrable, &c.InitiallyDeferred, &def); err != nil {
			return nil, fmt.Errorf("failed to scan constraint: %w", err)
		}
		c.Schema, c.Table = schema, table
		c.Kind = catalog.ConstraintKind(kind)
		c.Definition = nullStringPtr(def)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Reader) readIndexes(schema, table string) ([]catalog.Index, error) {
	const q = `
		select i.relname, nullif(ts.spcname, ''), pg_get_indexdef(i.oid)
		from pg_index ix
		join pg_class i on i.oid = ix.indexrelid
		join pg_class t on t.oid = ix.indrelid
		join pg_namespace n on n.oid = t.relnamespace
		left join pg_tablespace ts on ts.oid = i.reltablespace
		where n.nspname = $1 and t.relname = $2
		  and not ix.indisprimary and not ix.indisunique
		order by i.relname`

	rows, err := r.db.Query(q, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Index
	for rows.Next() {
		var idx catalog.Index
		var tablespace sql.NullString
		if err := rows.Scan(&idx.Name, &tablespace, &idx.IndexDef); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		idx.Schema, idx.Table = schema, table
		idx.Tablespace = nullStringPtr(tablespace)
		out = append(out, idx)
	}
	return out, rows.Err()
}

func (r *Reader) readTriggers(schema, table string) ([]catalog.Trigger, error) {
	const q = `
		select t.oid, t.tgname, pg_get_triggerdef(t.oid), t.tgfoid
		from pg_trigger t
		join pg_class c on c.oid = t.tgrelid
		join pg_namespace n on n.oid = c.relnamespace
		where n.nspname = $1 and c.relname = $2 and not t.tgisinternal
		order by t.tgname`

	rows, err := r.db.Query(q, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Trigger
	for rows.Next() {
		var tr catalog.Trigger
		var funcOID uint32
		if err := rows.Scan(&tr.OID, &tr.Name, &tr.Definition, &funcOID); err != nil {
			return nil, fmt.Errorf("failed to scan trigger: %w", err)
		}
		tr.Schema, tr.Table = schema, table
		tr.FunctionOID = &funcOID
		out = append(out, tr)
	}
	return out, rows.Err()
}

func (r *Reader) readPolicies(schema, table string) ([]catalog.Policy, error) {
	const q = `
		select pol.polname,
		       case pol.polcmd when 'r' then 'select' when 'a' then 'insert'
		            when 'w' then 'update' when 'd' then 'delete' else 'all' end,
		       pol.polpermissive,
		       coalesce(array_to_string(array(select rolname from pg_roles where oid = any(pol.polroles)), ','), ''),
		       pg_get_expr(pol.polqual, pol.polrelid),
		       pg_get_expr(pol.polwithcheck, pol.polrelid)
		from pg_policy pol
		join pg_class c on c.oid = pol.polrelid
		join pg_namespace n on n.oid = c.relnamespace
		where n.nspname = $1 and c.relname = $2
		order by pol.polname`

	rows, err := r.db.Query(q, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Policy
	for rows.Next() {
		var p catalog.Policy
		var cmd string
		var roles string
		var using, check sql.NullString
		if err := rows.Scan(&p.Name, &cmd, &p.Permissive, &roles, &using, &check); err != nil {
			return nil, fmt.Errorf("failed to scan policy: %w", err)
		}
		p.Schema, p.Table = schema, table
		p.Command = catalog.PolicyCommand(cmd)
		if roles != "" {
			p.Roles = strings.Split(roles, ",")
		}
		p.Using = nullStringPtr(using)
		p.Check = nullStringPtr(check)
		out = append(out, p)
	}
	return out, rows.Err()
}

func nullIntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
