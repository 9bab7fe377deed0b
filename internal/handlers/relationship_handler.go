package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"relmap/internal/logger"
	"relmap/internal/models"
	"relmap/internal/responses"
	"relmap/internal/services"
)

type RelationshipHandler struct {
	relationshipService *services.RelationshipService
	log                 logger.LoggerI
}

func NewRelationshipHandler(relationshipService *services.RelationshipService, log logger.LoggerI) *RelationshipHandler {
	return &RelationshipHandler{relationshipService: relationshipService, log: log}
}

func relationshipID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid relationship ID")
		return 0, false
	}
	return id, true
}

// ListRelationships handles GET /api/v1/companies/:company_id/relationships
func (h *RelationshipHandler) ListRelationships(c *gin.Context) {
	comp, ok := company(c)
	if !ok {
		return
	}

	rels, err := h.relationshipService.List(c.Request.Context(), comp)
	if err != nil {
		fail(c, h.log, err, "Failed to list relationships")
		return
	}
	responses.Success(c, http.StatusOK, rels, "Relationships retrieved successfully")
}

// CreateRelationship handles POST /api/v1/companies/:company_id/relationships
func (h *RelationshipHandler) CreateRelationship(c *gin.Context) {
	comp, ok := company(c)
	if !ok {
		return
	}

	var req models.RelationshipInput
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	rel, err := h.relationshipService.Create(c.Request.Context(), comp, req)
	if err != nil {
		fail(c, h.log, err, "Failed to create relationship")
		return
	}
	responses.Success(c, http.StatusCreated, rel, "Relationship created successfully")
}

// GetRelationship handles GET /api/v1/companies/:company_id/relationships/:id
func (h *RelationshipHandler) GetRelationship(c *gin.Context) {
	comp, ok := company(c)
	if !ok {
		return
	}
	id, ok := relationshipID(c)
	if !ok {
		return
	}

	rel, err := h.relationshipService.Get(c.Request.Context(), comp, id)
	if err != nil {
		fail(c, h.log, err, "Relationship not found")
		return
	}
	responses.Success(c, http.StatusOK, rel, "Relationship retrieved successfully")
}

// DeleteRelationship handles DELETE /api/v1/companies/:company_id/relationships/:id
func (h *RelationshipHandler) DeleteRelationship(c *gin.Context) {
	comp, ok := company(c)
	if !ok {
		return
	}
	id, ok := relationshipID(c)
	if !ok {
		return
	}

	if err := h.relationshipService.Delete(c.Request.Context(), comp, id); err != nil {
		fail(c, h.log, err, "Failed to delete relationship")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Relationship deleted successfully")
}
