package services

import (
	"context"

	"github.com/google/uuid"

	"relmap/internal/models"
)

// The stores are implemented by the repositories package; handlers and
// tests can swap in other implementations.

type CompanyStore interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

type RelationshipStore interface {
	Create(ctx context.Context, rel *models.Relationship) error
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Relationship, error)
	GetByID(ctx context.Context, companyID uuid.UUID, id int64) (*models.Relationship, error)
	Delete(ctx context.Context, companyID uuid.UUID, id int64) (bool, error)
}

type SchemaStore interface {
	GetTables(ctx context.Context, schema string) ([]string, error)
	TableExists(ctx context.Context, schema, table string) (bool, error)
	GetColumns(ctx context.Context, schema, table string) ([]models.Column, error)
	GetPrimaryKeys(ctx context.Context, schema, table string) ([]string, error)
	GetForeignKeys(ctx context.Context, schema, table string) ([]models.ForeignKey, error)
	GetUniqueColumns(ctx context.Context, schema string, tableColumns []models.TableColumn) (map[string]bool, error)
}
