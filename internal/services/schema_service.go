package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"relmap/internal/logger"
	"relmap/internal/models"
)

const (
	maxJunctionTableColumns = 6
	minJunctionTableFKs     = 2
	schemaFetchConcurrency  = 8
)

// SchemaService exposes the tables of a company schema and derives
// relationships from the foreign keys declared there.
type SchemaService struct {
	schema SchemaStore
	rels   RelationshipStore
	log    logger.LoggerI
}

func NewSchemaService(schema SchemaStore, rels RelationshipStore, log logger.LoggerI) *SchemaService {
	return &SchemaService{schema: schema, rels: rels, log: log}
}

func (s *SchemaService) ListTables(ctx context.Context, company *models.Company) ([]string, error) {
	tables, err := s.schema.GetTables(ctx, company.SchemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

// ListColumns returns column names in ordinal order.
func (s *SchemaService) ListColumns(ctx context.Context, company *models.Company, table string) ([]string, error) {
	exists, err := s.schema.TableExists(ctx, company.SchemaName, table)
	if err != nil {
		return nil, fmt.Errorf("failed to look up table %s: %w", table, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: table %q", ErrNotFound, table)
	}

	cols, err := s.schema.GetColumns(ctx, company.SchemaName, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns of %s: %w", table, err)
	}
	return (models.Table{Columns: cols}).ColumnNames(), nil
}

// LoadTables reads every table with its columns and keys, several tables at a time.
func (s *SchemaService) LoadTables(ctx context.Context, company *models.Company) ([]models.Table, error) {
	names, err := s.schema.GetTables(ctx, company.SchemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tables := make([]models.Table, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(schemaFetchConcurrency)
	for i, name := range names {
		g.Go(func() error {
			t, err := s.loadTable(ctx, company.SchemaName, name)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

func (s *SchemaService) loadTable(ctx context.Context, schema, name string) (models.Table, error) {
	table := models.Table{Name: name}

	cols, err := s.schema.GetColumns(ctx, schema, name)
	if err != nil {
		return table, fmt.Errorf("failed to get columns for %s: %w", name, err)
	}
	table.Columns = cols

	pks, err := s.schema.GetPrimaryKeys(ctx, schema, name)
	if err != nil {
		return table, fmt.Errorf("failed to get primary keys for %s: %w", name, err)
	}
	table.PrimaryKeys = pks

	fks, err := s.schema.GetForeignKeys(ctx, schema, name)
	if err != nil {
		return table, fmt.Errorf("failed to get foreign keys for %s: %w", name, err)
	}
	table.ForeignKeys = fks

	return table, nil
}

// SuggestRelationships proposes relationships for the declared foreign keys
// that are not stored yet. Suggestions have no ID.
func (s *SchemaService) SuggestRelationships(ctx context.Context, company *models.Company) ([]models.Relationship, error) {
	tables, err := s.LoadTables(ctx, company)
	if err != nil {
		return nil, err
	}

	junctions := detectJunctionTables(tables)
	var candidates []models.TableColumn
	for _, t := range tables {
		if junctions[t.Name] {
			continue
		}
		for _, fk := range t.ForeignKeys {
			candidates = append(candidates, models.TableColumn{Table: t.Name, Column: fk.FromColumn})
		}
	}
	unique, err := s.schema.GetUniqueColumns(ctx, company.SchemaName, candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to get unique constraints: %w", err)
	}

	existing, err := s.rels.ListByCompany(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}
	stored := make(map[string]bool, len(existing))
	for _, r := range existing {
		stored[endsKey(r)] = true
	}

	suggestions := []models.Relationship{}
	for _, r := range inferRelationships(tables, junctions, unique) {
		if stored[endsKey(r)] {
			continue
		}
		r.CompanyID = company.ID
		suggestions = append(suggestions, r)
	}
	s.log.Debug("relationship suggestions",
		logger.String("company_id", company.ID.String()),
		logger.Int("count", len(suggestions)),
	)
	return suggestions, nil
}

func endsKey(r models.Relationship) string {
	return strings.Join([]string{r.SourceTable, r.SourceColumn, r.TargetTable, r.TargetColumn}, "\x00")
}

// inferRelationships maps foreign keys to relationship kinds: a unique FK
// column is 1-1, any other FK is 1-N from the referencing column to the
// referenced one, and each pair of tables joined by a junction table is N-N.
func inferRelationships(tables []models.Table, junctions, unique map[string]bool) []models.Relationship {
	var out []models.Relationship
	seen := make(map[string]bool)
	add := func(r models.Relationship) {
		if k := endsKey(r); !seen[k] {
			seen[k] = true
			out = append(out, r)
		}
	}

	for _, t := range tables {
		if junctions[t.Name] {
			for i := 0; i < len(t.ForeignKeys); i++ {
				for j := i + 1; j < len(t.ForeignKeys); j++ {
					a, b := t.ForeignKeys[i], t.ForeignKeys[j]
					add(models.Relationship{
						SourceTable:  a.ToTable,
						SourceColumn: a.ToColumn,
						TargetTable:  b.ToTable,
						TargetColumn: b.ToColumn,
						Kind:         models.ManyToMany,
					})
				}
			}
			continue
		}

		for _, fk := range t.ForeignKeys {
			kind := models.OneToMany
			if unique[(models.TableColumn{Table: t.Name, Column: fk.FromColumn}).Key()] {
				kind = models.OneToOne
			}
			add(models.Relationship{
				SourceTable:  t.Name,
				SourceColumn: fk.FromColumn,
				TargetTable:  fk.ToTable,
				TargetColumn: fk.ToColumn,
				Kind:         kind,
			})
		}
	}
	return out
}

// detectJunctionTables finds small tables whose primary key is made of at
// least two foreign keys.
func detectJunctionTables(tables []models.Table) map[string]bool {
	junctions := make(map[string]bool)
	for _, t := range tables {
		if len(t.ForeignKeys) < minJunctionTableFKs ||
			len(t.PrimaryKeys) < minJunctionTableFKs ||
			len(t.Columns) > maxJunctionTableColumns {
			continue
		}

		fkColumns := make(map[string]bool, len(t.ForeignKeys))
		allInPK := true
		for _, fk := range t.ForeignKeys {
			fkColumns[fk.FromColumn] = true
			if !slices.Contains(t.PrimaryKeys, fk.FromColumn) {
				allInPK = false
			}
		}
		inPK := 0
		for _, pk := range t.PrimaryKeys {
			if fkColumns[pk] {
				inPK++
			}
		}
		if allInPK && inPK >= minJunctionTableFKs {
			junctions[t.Name] = true
		}
	}
	return junctions
}
