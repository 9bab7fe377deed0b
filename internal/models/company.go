package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Company owns a set of synced tables, which live in their own Postgres schema.
type Company struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	SchemaName string    `json:"schema_name"`
	CreatedAt  time.Time `json:"created_at"`
}

func (c *Company) Prepare() {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.SchemaName == "" {
		c.SchemaName = "company_" + strings.ReplaceAll(c.ID.String(), "-", "")
	}
}


type CompanyInput struct {
	Name string `json:"name" binding:"required"`
}
