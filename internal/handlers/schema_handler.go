package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"relmap/internal/logger"
	"relmap/internal/responses"
	"relmap/internal/services"
)

type SchemaHandler struct {
	schemaService *services.SchemaService
	log           logger.LoggerI
}

func NewSchemaHandler(schemaService *services.SchemaService, log logger.LoggerI) *SchemaHandler {
	return &SchemaHandler{schemaService: schemaService, log: log}
}

// ListTables handles GET /api/v1/companies/:company_id/tables
func (h *SchemaHandler) ListTables(c *gin.Context) {
	comp, ok := company(c)
	if !ok {
		return
	}

	tables, err := h.schemaService.ListTables(c.Request.Context(), comp)
	if err != nil {
		fail(c, h.log, err, "Failed to list tables")
		return
	}
	responses.Success(c, http.StatusOK, tables, "Tables retrieved successfully")
}

// ListColumns handles GET /api/v1/companies/:company_id/tables/:table/columns
func (h *SchemaHandler) ListColumns(c *gin.Context) {
	comp, ok := company(c)
	if !ok {
		return
	}

	columns, err := h.schemaService.ListColumns(c.Request.Context(), comp, c.Param("table"))
	if err != nil {
		fail(c, h.log, err, "Failed to list columns")
		return
	}
	responses.Success(c, http.StatusOK, columns, "Columns retrieved successfully")
}

// SuggestRelationships handles GET /api/v1/companies/:company_id/relationships/suggestions
func (h *SchemaHandler) SuggestRelationships(c *gin.Context) {
	comp, ok := company(c)
	if !ok {
		return
	}

	suggestions, err := h.schemaService.SuggestRelationships(c.Request.Context(), comp)
	if err != nil {
		fail(c, h.log, err, "Failed to suggest relationships")
		return
	}
	responses.Success(c, http.StatusOK, suggestions, "Suggestions generated successfully")
}

// Mermaid handles GET /api/v1/companies/:company_id/diagram/mermaid
func (h *SchemaHandler) Mermaid(c *gin.Context) {
	comp, ok := company(c)
	if !ok {
		return
	}

	diagram, err := h.schemaService.Mermaid(c.Request.Context(), comp)
	if err != nil {
		fail(c, h.log, err, "Failed to render diagram")
		return
	}
	responses.Success(c, http.StatusOK, gin.H{
		"mermaid": diagram,
		"schema":  comp.SchemaName,
	}, "Diagram generated successfully")
}
