package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"relmap/internal/logger"
	"relmap/internal/models"
	"relmap/internal/repositories/memory"
)

type fixture struct {
	companies *memory.Companies
	rels      *memory.Relationships
	schema    *memory.Schema
	company   *models.Company

	companySvc *CompanyService
	relSvc     *RelationshipService
	schemaSvc  *SchemaService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.NewNop()
	f := &fixture{
		companies: memory.NewCompanies(),
		rels:      memory.NewRelationships(),
		schema:    memory.NewSchema(),
	}
	f.companySvc = NewCompanyService(f.companies, log)
	f.relSvc = NewRelationshipService(f.rels, f.schema, log)
	f.schemaSvc = NewSchemaService(f.schema, f.rels, log)

	company, err := f.companySvc.Register(context.Background(), models.CompanyInput{Name: "Acme"})
	require.NoError(t, err)
	f.company = company

	f.schema.AddColumns(company.SchemaName, "Pedidos", "ID", "ClienteID")
	f.schema.AddColumns(company.SchemaName, "Clientes", "ID", "Nome")
	return f
}
