package diagram

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"relmap/internal/models"
)

var errBackend = errors.New("backend unavailable")

// fakeGateway is an in-memory backend. Per-method errors and hooks let tests
// inject failures and hold calls in flight.
type fakeGateway struct {
	mu      sync.Mutex
	tables  map[string][]string
	order   []string
	rels    []models.Relationship
	nextID  int64
	calls   map[string]int
	failing map[string]error
	failCol map[string]error

	// beforeCreate runs inside CreateRelationship before the write.
	beforeCreate func()
	// beforeList runs inside ListRelationships before the read.
	beforeList func()
	// afterList runs inside ListRelationships after the read.
	afterList func()
	// beforeTables runs inside ListTables before the read.
	beforeTables func()
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		tables:  make(map[string][]string),
		nextID:  1,
		calls:   make(map[string]int),
		failing: make(map[string]error),
		failCol: make(map[string]error),
	}
}

func (f *fakeGateway) addTable(name string, columns ...string) *fakeGateway {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tables[name]; !ok {
		f.order = append(f.order, name)
	}
	f.tables[name] = columns
	return f
}

func (f *fakeGateway) addRelationship(src, srcCol, dst, dstCol string) models.Relationship {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := models.Relationship{
		ID:           f.nextID,
		SourceTable:  src,
		SourceColumn: srcCol,
		TargetTable:  dst,
		TargetColumn: dstCol,
		Kind:         models.OneToMany,
		CreatedAt:    time.Unix(0, 0),
	}
	f.nextID++
	f.rels = append(f.rels, r)
	return r
}

func (f *fakeGateway) fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failing, method)
		return
	}
	f.failing[method] = err
}

func (f *fakeGateway) failColumns(table string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failCol[table] = err
}

func (f *fakeGateway) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeGateway) enter(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.failing[method]
}

func (f *fakeGateway) ListTables(ctx context.Context, _ models.Session) ([]string, error) {
	if err := f.enter("ListTables"); err != nil {
		return nil, err
	}
	if f.beforeTables != nil {
		f.beforeTables()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out, nil
}

func (f *fakeGateway) ListColumns(_ context.Context, _ models.Session, table string) ([]string, error) {
	if err := f.enter("ListColumns"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failCol[table]; err != nil {
		return nil, err
	}
	cols, ok := f.tables[table]
	if !ok {
		return nil, errors.New("table not found")
	}
	out := make([]string, len(cols))
	copy(out, cols)
	return out, nil
}

func (f *fakeGateway) ListRelationships(_ context.Context, _ models.Session) ([]models.Relationship, error) {
	if err := f.enter("ListRelationships"); err != nil {
		return nil, err
	}
	if f.beforeList != nil {
		f.beforeList()
	}
	f.mu.Lock()
	out := make([]models.Relationship, len(f.rels))
	copy(out, f.rels)
	f.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if f.afterList != nil {
		f.afterList()
	}
	return out, nil
}

func (f *fakeGateway) CreateRelationship(_ context.Context, s models.Session, in models.RelationshipInput) (models.Relationship, error) {
	if err := f.enter("CreateRelationship"); err != nil {
		return models.Relationship{}, err
	}
	if f.beforeCreate != nil {
		f.beforeCreate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r := models.Relationship{
		ID:           f.nextID,
		CompanyID:    s.CompanyID,
		SourceTable:  in.SourceTable,
		SourceColumn: in.SourceColumn,
		TargetTable:  in.TargetTable,
		TargetColumn: in.TargetColumn,
		Kind:         in.Kind,
	}
	f.nextID++
	f.rels = append(f.rels, r)
	return r, nil
}

func (f *fakeGateway) DeleteRelationship(_ context.Context, _ models.Session, id int64) error {
	if err := f.enter("DeleteRelationship"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rels {
		if r.ID == id {
			f.rels = append(f.rels[:i], f.rels[i+1:]...)
			return nil
		}
	}
	return errors.New("relationship not found")
}

func testSession() models.Session {
	return models.Session{CompanyID: uuid.MustParse("7f1c2b8e-3d4a-4c55-9a10-2b6f0e9d1c01"), Token: "test-token"}
}

// newTestController returns a controller over gw with small, predictable geometry.
func newTestController(gw Gateway) *Controller {
	cfg := DefaultConfig()
	cfg.WindowWidth = 1000
	cfg.WindowHeight = 800
	cfg.ViewportWidth = 1000
	cfg.ViewportHeight = 800
	cfg.Padding = 50
	c := New(gw, testSession(), cfg, nil)
	c.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return c
}
