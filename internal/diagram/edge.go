package diagram

import (
	"fmt"
	"strings"

	"relmap/internal/models"
)

// AnchorRole tells which side of a column row a gesture started from.
type AnchorRole int

const (
	RoleSource AnchorRole = iota
	RoleTarget
)

func (r AnchorRole) String() string {
	if r == RoleTarget {
		return "target"
	}
	return "source"
}

// Anchor addresses a column row. Any column can be either end of an edge.
type Anchor struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

func (a Anchor) String() string { return a.Table + "." + a.Column }

// ParseAnchor parses "table.column". The column may itself contain dots.
func ParseAnchor(s string) (Anchor, error) {
	table, column, ok := strings.Cut(s, ".")
	if !ok || table == "" || column == "" {
		return Anchor{}, fmt.Errorf("invalid anchor %q: expected table.column", s)
	}
	return Anchor{Table: table, Column: column}, nil
}

// Edge is a relationship drawn between two anchors. A provisional edge has
// no ID and Pending set until the backend confirms it.
type Edge struct {
	ID      int64                   `json:"id"`
	Source  Anchor                  `json:"source"`
	Target  Anchor                  `json:"target"`
	Kind    models.RelationshipKind `json:"kind"`
	Pending bool                    `json:"pending"`

	seq uint64
}

func edgeFromRelationship(r models.Relationship) Edge {
	return Edge{
		ID:     r.ID,
		Source: Anchor{Table: r.SourceTable, Column: r.SourceColumn},
		Target: Anchor{Table: r.TargetTable, Column: r.TargetColumn},
		Kind:   r.Kind,
	}
}

func (e Edge) input() models.RelationshipInput {
	return models.RelationshipInput{
		SourceTable:  e.Source.Table,
		SourceColumn: e.Source.Column,
		TargetTable:  e.Target.Table,
		TargetColumn: e.Target.Column,
		Kind:         e.Kind,
	}
}

func (e Edge) String() string {
	id := "pending"
	if !e.Pending {
		id = fmt.Sprintf("#%d", e.ID)
	}
	return fmt.Sprintf("%s %s -> %s (%s)", id, e.Source, e.Target, e.Kind)
}
