package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"relmap/internal/logger"
)

// RunMigrations applies every statement in order. Each one is idempotent,
// so the full list runs on every start.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, log logger.LoggerI) error {
	migrations := []string{
		createCompaniesTable,
		createRelationshipsTable,
		addRelationshipKindCheck,
	}

	for i, migration := range migrations {
		log.Debug("running migration", logger.Int("step", i+1), logger.Int("total", len(migrations)))
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Info("all migrations completed")
	return nil
}

const createCompaniesTable = `
CREATE TABLE IF NOT EXISTS companies (
  id UUID PRIMARY KEY,
  name TEXT NOT NULL,
  schema_name TEXT NOT NULL UNIQUE,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

const createRelationshipsTable = `
CREATE TABLE IF NOT EXISTS relationships (
  id BIGSERIAL PRIMARY KEY,
  company_id UUID NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
  source_table TEXT NOT NULL,
  source_column TEXT NOT NULL,
  target_table TEXT NOT NULL,
  target_column TEXT NOT NULL,
  kind TEXT NOT NULL DEFAULT '1-N',
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  UNIQUE (company_id, source_table, source_column, target_table, target_column)
);

CREATE INDEX IF NOT EXISTS idx_relationships_company_id ON relationships(company_id);
`

const addRelationshipKindCheck = `
DO $$
BEGIN
  IF NOT EXISTS (
    SELECT 1 FROM information_schema.table_constraints
    WHERE constraint_name = 'relationships_kind_check'
    AND table_name = 'relationships'
  ) THEN
    ALTER TABLE relationships
    ADD CONSTRAINT relationships_kind_check
    CHECK (kind IN ('1-1', '1-N', 'N-N'));
  END IF;
END$$;
`
