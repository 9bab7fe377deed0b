package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RelationshipKind string

const (
	OneToOne   RelationshipKind = "1-1"
	OneToMany  RelationshipKind = "1-N"
	ManyToMany RelationshipKind = "N-N"
)

// DefaultRelationshipKind is used when a connection is drawn without choosing a kind.
const DefaultRelationshipKind = OneToMany

func (k RelationshipKind) Valid() bool {
	switch k {
	case OneToOne, OneToMany, ManyToMany:
		return true
	}
	return false
}

func ParseRelationshipKind(s string) (RelationshipKind, error) {
	k := RelationshipKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("invalid relationship kind %q: must be one of 1-1, 1-N, N-N", s)
	}
	return k, nil
}

// Relationship is a persisted link between two (table, column) pairs of a company.
type Relationship struct {
	ID           int64            `json:"id"`
	CompanyID    uuid.UUID        `json:"company_id"`
	SourceTable  string           `json:"source_table"`
	SourceColumn string           `json:"source_column"`
	TargetTable  string           `json:"target_table"`
	TargetColumn string           `json:"target_column"`
	Kind         RelationshipKind `json:"kind"`
	CreatedAt    time.Time        `json:"created_at"`
}

// RelationshipInput is the payload of a create call; the backend assigns ID and CreatedAt.
type RelationshipInput struct {
	SourceTable  string           `json:"source_table" binding:"required"`
	SourceColumn string           `json:"source_column" binding:"required"`
	TargetTable  string           `json:"target_table" binding:"required"`
	TargetColumn string           `json:"target_column" binding:"required"`
	Kind         RelationshipKind `json:"kind"`
}

func (in *RelationshipInput) Prepare() {
	if in.Kind == "" {
		in.Kind = DefaultRelationshipKind
	}
}

func (r Relationship) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s (%s)", r.SourceTable, r.SourceColumn, r.TargetTable, r.TargetColumn, r.Kind)
}
