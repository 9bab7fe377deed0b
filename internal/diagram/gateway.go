package diagram

import (
	"context"

	"relmap/internal/models"
)

// Gateway is the backend the editor synchronizes with. Every method is a
// suspension point; implementations must honor ctx cancellation.
type Gateway interface {
	ListTables(ctx context.Context, s models.Session) ([]string, error)
	ListColumns(ctx context.Context, s models.Session, table string) ([]string, error)
	ListRelationships(ctx context.Context, s models.Session) ([]models.Relationship, error)
	CreateRelationship(ctx context.Context, s models.Session, in models.RelationshipInput) (models.Relationship, error)
	DeleteRelationship(ctx context.Context, s models.Session, id int64) error
}

// Confirmer answers the blocking yes/no question asked before a deletion.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// AlwaysConfirm accepts every prompt.
var AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })
