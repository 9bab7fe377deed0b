package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"relmap/internal/models"
)

var relationshipColumns = []string{
	"id", "company_id", "source_table", "source_column",
	"target_table", "target_column", "kind", "created_at",
}

type RelationshipRepository struct {
	pool *pgxpool.Pool
}

func NewRelationshipRepository(pool *pgxpool.Pool) *RelationshipRepository {
	return &RelationshipRepository{pool: pool}
}

func scanRelationship(row pgx.Row) (models.Relationship, error) {
	var rel models.Relationship
	var kind string
	err := row.Scan(
		&rel.ID,
		&rel.CompanyID,
		&rel.SourceTable,
		&rel.SourceColumn,
		&rel.TargetTable,
		&rel.TargetColumn,
		&kind,
		&rel.CreatedAt,
	)
	rel.Kind = models.RelationshipKind(kind)
	return rel, err
}

// Create inserts rel and fills in its ID and CreatedAt.
func (r *RelationshipRepository) Create(ctx context.Context, rel *models.Relationship) error {
	query, args, err := psql.Insert("relationships").
		Columns("company_id", "source_table", "source_column", "target_table", "target_column", "kind").
		Values(rel.CompanyID, rel.SourceTable, rel.SourceColumn, rel.TargetTable, rel.TargetColumn, string(rel.Kind)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&rel.ID, &rel.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ListByCompany returns the company's relationships ordered by id.
func (r *RelationshipRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Relationship, error) {
	query, args, err := psql.Select(relationshipColumns...).
		From("relationships").
		Where(sq.Eq{"company_id": companyID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rels := []models.Relationship{}
	for rows.Next() {
		rel, err := scanRelationship(rows)
		if err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rels, nil
}

// GetByID returns nil when the relationship does not exist for the company.
func (r *RelationshipRepository) GetByID(ctx context.Context, companyID uuid.UUID, id int64) (*models.Relationship, error) {
	query, args, err := psql.Select(relationshipColumns...).
		From("relationships").
		Where(sq.Eq{"company_id": companyID, "id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rel, err := scanRelationship(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rel, nil
}

// Delete reports whether a row was removed.
func (r *RelationshipRepository) Delete(ctx context.Context, companyID uuid.UUID, id int64) (bool, error) {
	query, args, err := psql.Delete("relationships").
		Where(sq.Eq{"company_id": companyID, "id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build delete: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
