package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"relmap/internal/models"
)

// SchemaRepository reads a company schema through information_schema.
type SchemaRepository struct {
	pool *pgxpool.Pool
}

func NewSchemaRepository(pool *pgxpool.Pool) *SchemaRepository {
	return &SchemaRepository{pool: pool}
}

const keyUsageJoin = "information_schema.key_column_usage kcu ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema"

// collect runs a built query and scans every row with scan.
func collect[T any](ctx context.Context, pool *pgxpool.Pool, b sq.Sqlizer, scan func(pgx.Rows) (T, error)) ([]T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanString(rows pgx.Rows) (string, error) {
	var s string
	err := rows.Scan(&s)
	return s, err
}

// GetTables returns the base table names of schema, sorted.
func (r *SchemaRepository) GetTables(ctx context.Context, schema string) ([]string, error) {
	b := psql.Select("table_name").
		From("information_schema.tables").
		Where(sq.Eq{"table_schema": schema, "table_type": "BASE TABLE"}).
		OrderBy("table_name")
	return collect(ctx, r.pool, b, scanString)
}

// TableExists reports whether schema has a base table with that name.
func (r *SchemaRepository) TableExists(ctx context.Context, schema, table string) (bool, error) {
	query, args, err := psql.Select("1").
		From("information_schema.tables").
		Where(sq.Eq{"table_schema": schema, "table_name": table, "table_type": "BASE TABLE"}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// GetColumns returns the columns of table in ordinal order. An unknown
// table yields an empty slice, not an error.
func (r *SchemaRepository) GetColumns(ctx context.Context, schema, table string) ([]models.Column, error) {
	b := psql.Select("column_name", "data_type", "is_nullable").
		From("information_schema.columns").
		Where(sq.Eq{"table_schema": schema, "table_name": table}).
		OrderBy("ordinal_position")
	return collect(ctx, r.pool, b, func(rows pgx.Rows) (models.Column, error) {
		var col models.Column
		var nullable string
		err := rows.Scan(&col.Name, &col.DataType, &nullable)
		col.Nullable = nullable == "YES"
		return col, err
	})
}

func (r *SchemaRepository) GetPrimaryKeys(ctx context.Context, schema, table string) ([]string, error) {
	b := psql.Select("kcu.column_name").
		From("information_schema.table_constraints tc").
		Join(keyUsageJoin).
		Where(sq.Eq{"tc.constraint_type": "PRIMARY KEY", "tc.table_schema": schema, "tc.table_name": table}).
		OrderBy("kcu.ordinal_position")
	return collect(ctx, r.pool, b, scanString)
}

// GetForeignKeys returns the foreign keys declared on table, one entry per
// referencing column.
func (r *SchemaRepository) GetForeignKeys(ctx context.Context, schema, table string) ([]models.ForeignKey, error) {
	b := psql.Select("tc.constraint_name", "kcu.column_name", "ccu.table_name", "ccu.column_name").
		From("information_schema.table_constraints tc").
		Join(keyUsageJoin).
		Join("information_schema.constraint_column_usage ccu ON ccu.constraint_name = tc.constraint_name AND ccu.table_schema = tc.table_schema").
		Where(sq.Eq{"tc.constraint_type": "FOREIGN KEY", "tc.table_schema": schema, "tc.table_name": table}).
		OrderBy("tc.constraint_name", "kcu.ordinal_position")
	return collect(ctx, r.pool, b, func(rows pgx.Rows) (models.ForeignKey, error) {
		var fk models.ForeignKey
		err := rows.Scan(&fk.ConstraintName, &fk.FromColumn, &fk.ToTable, &fk.ToColumn)
		return fk, err
	})
}

// GetUniqueColumns returns the subset of tableColumns that carry a UNIQUE
// constraint, keyed by TableColumn.Key.
func (r *SchemaRepository) GetUniqueColumns(ctx context.Context, schema string, tableColumns []models.TableColumn) (map[string]bool, error) {
	unique := make(map[string]bool)
	if len(tableColumns) == 0 {
		return unique, nil
	}

	pairs := make(sq.Or, 0, len(tableColumns))
	for _, tc := range tableColumns {
		pairs = append(pairs, sq.Eq{"tc.table_name": tc.Table, "kcu.column_name": tc.Column})
	}

	b := psql.Select("DISTINCT tc.table_name", "kcu.column_name").
		From("information_schema.table_constraints tc").
		Join(keyUsageJoin).
		Where(sq.Eq{"tc.constraint_type": "UNIQUE", "tc.table_schema": schema}).
		Where(pairs)
	found, err := collect(ctx, r.pool, b, func(rows pgx.Rows) (models.TableColumn, error) {
		var tc models.TableColumn
		err := rows.Scan(&tc.Table, &tc.Column)
		return tc, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query unique constraints: %w", err)
	}
	for _, tc := range found {
		unique[tc.Key()] = true
	}
	return unique, nil
}
