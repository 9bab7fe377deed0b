package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"relmap/internal/logger"
	"relmap/internal/models"
	"relmap/internal/repositories"
)

type RelationshipService struct {
	rels   RelationshipStore
	schema SchemaStore
	log    logger.LoggerI
}

func NewRelationshipService(rels RelationshipStore, schema SchemaStore, log logger.LoggerI) *RelationshipService {
	return &RelationshipService{rels: rels, schema: schema, log: log}
}

func (s *RelationshipService) List(ctx context.Context, company *models.Company) ([]models.Relationship, error) {
	rels, err := s.rels.ListByCompany(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}
	return rels, nil
}

// Create validates that both ends exist in the company schema before storing
// the relationship. Any column may be a source or a target.
func (s *RelationshipService) Create(ctx context.Context, company *models.Company, in models.RelationshipInput) (*models.Relationship, error) {
	in.Prepare()
	rel := &models.Relationship{
		CompanyID:    company.ID,
		SourceTable:  strings.TrimSpace(in.SourceTable),
		SourceColumn: strings.TrimSpace(in.SourceColumn),
		TargetTable:  strings.TrimSpace(in.TargetTable),
		TargetColumn: strings.TrimSpace(in.TargetColumn),
		Kind:         in.Kind,
	}

	if err := s.validate(ctx, company, rel); err != nil {
		return nil, err
	}

	if err := s.rels.Create(ctx, rel); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: relationship %s", ErrConflict, rel)
		}
		return nil, fmt.Errorf("failed to create relationship: %w", err)
	}

	s.log.Info("relationship created",
		logger.String("company_id", company.ID.String()),
		logger.Int64("relationship_id", rel.ID),
		logger.String("relationship", rel.String()),
	)
	return rel, nil
}

func (s *RelationshipService) validate(ctx context.Context, company *models.Company, rel *models.Relationship) error {
	if !rel.Kind.Valid() {
		return fmt.Errorf("%w: invalid relationship kind %q", ErrValidation, rel.Kind)
	}
	for _, v := range []string{rel.SourceTable, rel.SourceColumn, rel.TargetTable, rel.TargetColumn} {
		if v == "" {
			return fmt.Errorf("%w: source and target table and column are required", ErrValidation)
		}
	}
	if rel.SourceTable == rel.TargetTable && rel.SourceColumn == rel.TargetColumn {
		return fmt.Errorf("%w: a column cannot relate to itself", ErrValidation)
	}

	ends := []models.TableColumn{
		{Table: rel.SourceTable, Column: rel.SourceColumn},
		{Table: rel.TargetTable, Column: rel.TargetColumn},
	}
	columns := make(map[string][]string, 2)
	for _, end := range ends {
		names, ok := columns[end.Table]
		if !ok {
			cols, err := s.schema.GetColumns(ctx, company.SchemaName, end.Table)
			if err != nil {
				return fmt.Errorf("failed to read columns of %s: %w", end.Table, err)
			}
			names = (models.Table{Columns: cols}).ColumnNames()
			columns[end.Table] = names
		}
		if len(names) == 0 {
			return fmt.Errorf("%w: unknown table %q", ErrValidation, end.Table)
		}
		if !slices.Contains(names, end.Column) {
			return fmt.Errorf("%w: unknown column %q in table %q", ErrValidation, end.Column, end.Table)
		}
	}
	return nil
}

func (s *RelationshipService) Delete(ctx context.Context, company *models.Company, id int64) error {
	deleted, err := s.rels.Delete(ctx, company.ID, id)
	if err != nil {
		return fmt.Errorf("failed to delete relationship: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: relationship %d", ErrNotFound, id)
	}
	s.log.Info("relationship deleted",
		logger.String("company_id", company.ID.String()),
		logger.Int64("relationship_id", id),
	)
	return nil
}

func (s *RelationshipService) Get(ctx context.Context, company *models.Company, id int64) (*models.Relationship, error) {
	rel, err := s.rels.GetByID(ctx, company.ID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get relationship: %w", err)
	}
	if rel == nil {
		return nil, fmt.Errorf("%w: relationship %d", ErrNotFound, id)
	}
	return rel, nil
}
