// Package memory holds in-process implementations of the service stores.
// They back the handler and end-to-end tests and behave like the Postgres
// repositories, including ErrDuplicate on unique violations.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"relmap/internal/models"
	"relmap/internal/repositories"
)

type Companies struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]models.Company
}

func NewCompanies() *Companies {
	return &Companies{byID: make(map[uuid.UUID]models.Company)}
}

func (s *Companies) Create(_ context.Context, company *models.Company) error {
	company.Prepare()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.byID {
		if c.SchemaName == company.SchemaName {
			return repositories.ErrDuplicate
		}
	}
	if _, ok := s.byID[company.ID]; ok {
		return repositories.ErrDuplicate
	}
	company.CreatedAt = time.Now().UTC()
	s.byID[company.ID] = *company
	return nil
}

func (s *Companies) GetByID(_ context.Context, id uuid.UUID) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

type Relationships struct {
	mu     sync.RWMutex
	nextID int64
	rows   []models.Relationship
}

func NewRelationships() *Relationships {
	return &Relationships{nextID: 1}
}

func sameEnds(a, b models.Relationship) bool {
	return a.CompanyID == b.CompanyID &&
		a.SourceTable == b.SourceTable && a.SourceColumn == b.SourceColumn &&
		a.TargetTable == b.TargetTable && a.TargetColumn == b.TargetColumn
}

func (s *Relationships) Create(_ context.Context, rel *models.Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if sameEnds(r, *rel) {
			return repositories.ErrDuplicate
		}
	}
	rel.ID = s.nextID
	rel.CreatedAt = time.Now().UTC()
	s.nextID++
	s.rows = append(s.rows, *rel)
	return nil
}

// SetNextID makes the next Create use id.
func (s *Relationships) SetNextID(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = id
}

func (s *Relationships) ListByCompany(_ context.Context, companyID uuid.UUID) ([]models.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Relationship{}
	for _, r := range s.rows {
		if r.CompanyID == companyID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Relationships) GetByID(_ context.Context, companyID uuid.UUID, id int64) (*models.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rows {
		if r.CompanyID == companyID && r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (s *Relationships) Delete(_ context.Context, companyID uuid.UUID, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rows {
		if r.CompanyID == companyID && r.ID == id {
			s.rows = slices.Delete(s.rows, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

// Schema is a set of named schemas holding table definitions.
type Schema struct {
	mu      sync.RWMutex
	schemas map[string]map[string]models.Table
	unique  map[string]map[string]bool
}

func NewSchema() *Schema {
	return &Schema{
		schemas: make(map[string]map[string]models.Table),
		unique:  make(map[string]map[string]bool),
	}
}

func (s *Schema) AddTable(schema string, table models.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schemas[schema] == nil {
		s.schemas[schema] = make(map[string]models.Table)
	}
	s.schemas[schema][table.Name] = table
}

// AddColumns is AddTable for a table with text columns and no keys.
func (s *Schema) AddColumns(schema, table string, columns ...string) {
	t := models.Table{Name: table}
	for _, c := range columns {
		t.Columns = append(t.Columns, models.Column{Name: c, DataType: "text", Nullable: true})
	}
	s.AddTable(schema, t)
}

func (s *Schema) MarkUnique(schema, table, column string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unique[schema] == nil {
		s.unique[schema] = make(map[string]bool)
	}
	s.unique[schema][(models.TableColumn{Table: table, Column: column}).Key()] = true
}

func (s *Schema) table(schema, name string) (models.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.schemas[schema][name]
	return t, ok
}

func (s *Schema) GetTables(_ context.Context, schema string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := []string{}
	for name := range s.schemas[schema] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Schema) TableExists(_ context.Context, schema, table string) (bool, error) {
	_, ok := s.table(schema, table)
	return ok, nil
}

func (s *Schema) GetColumns(_ context.Context, schema, table string) ([]models.Column, error) {
	t, _ := s.table(schema, table)
	return append([]models.Column{}, t.Columns...), nil
}

func (s *Schema) GetPrimaryKeys(_ context.Context, schema, table string) ([]string, error) {
	t, _ := s.table(schema, table)
	return append([]string{}, t.PrimaryKeys...), nil
}

func (s *Schema) GetForeignKeys(_ context.Context, schema, table string) ([]models.ForeignKey, error) {
	t, _ := s.table(schema, table)
	return append([]models.ForeignKey{}, t.ForeignKeys...), nil
}

func (s *Schema) GetUniqueColumns(_ context.Context, schema string, tableColumns []models.TableColumn) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool)
	for _, tc := range tableColumns {
		if s.unique[schema][tc.Key()] {
			out[tc.Key()] = true
		}
	}
	return out, nil
}
