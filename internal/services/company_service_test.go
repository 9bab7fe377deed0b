package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relmap/internal/models"
)

func TestCompanyService_Register(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Acme", f.company.Name)
	assert.NotEqual(t, uuid.Nil, f.company.ID)
	assert.Contains(t, f.company.SchemaName, "company_")

	got, err := f.companySvc.Get(context.Background(), f.company.ID)
	require.NoError(t, err)
	assert.Equal(t, f.company.SchemaName, got.SchemaName)
}

func TestCompanyService_RegisterRequiresName(t *testing.T) {
	f := newFixture(t)

	_, err := f.companySvc.Register(context.Background(), models.CompanyInput{Name: "   "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompanyService_GetUnknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.companySvc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
