package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"relmap/internal/logger"
	"relmap/internal/models"
	"relmap/internal/repositories"
)

type CompanyService struct {
	store CompanyStore
	log   logger.LoggerI
}

func NewCompanyService(store CompanyStore, log logger.LoggerI) *CompanyService {
	return &CompanyService{store: store, log: log}
}

// Register creates a company together with its schema.
func (s *CompanyService) Register(ctx context.Context, in models.CompanyInput) (*models.Company, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: company name is required", ErrValidation)
	}

	company := &models.Company{Name: name}
	if err := s.store.Create(ctx, company); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: company schema %s", ErrConflict, company.SchemaName)
		}
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.log.Info("company registered",
		logger.String("company_id", company.ID.String()),
		logger.String("schema", company.SchemaName),
	)
	return company, nil
}

func (s *CompanyService) Get(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if company == nil {
		return nil, fmt.Errorf("%w: company %s", ErrNotFound, id)
	}
	return company, nil
}
