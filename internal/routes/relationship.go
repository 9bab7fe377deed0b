package routes

import (
	"github.com/gin-gonic/gin"

	"relmap/internal/handlers"
)

type RelationshipRoutes struct {
	handler *handlers.RelationshipHandler
}

func NewRelationshipRoutes(handler *handlers.RelationshipHandler) *RelationshipRoutes {
	return &RelationshipRoutes{handler: handler}
}

func (r *RelationshipRoutes) RegisterRoutes(router *gin.RouterGroup) {
	rels := router.Group("/relationships")
	{
		rels.GET("", r.handler.ListRelationships)
		rels.POST("", r.handler.CreateRelationship)
		rels.GET("/:id", r.handler.GetRelationship)
		rels.DELETE("/:id", r.handler.DeleteRelationship)
	}
}
