package routes

import (
	"github.com/gin-gonic/gin"

	"relmap/internal/handlers"
)

type SchemaRoutes struct {
	handler *handlers.SchemaHandler
}

func NewSchemaRoutes(handler *handlers.SchemaHandler) *SchemaRoutes {
	return &SchemaRoutes{handler: handler}
}

// RegisterRoutes expects a group already scoped to one company.
func (r *SchemaRoutes) RegisterRoutes(router *gin.RouterGroup) {
	tables := router.Group("/tables")
	{
		tables.GET("", r.handler.ListTables)
		tables.GET("/:table/columns", r.handler.ListColumns)
	}
	router.GET("/relationships/suggestions", r.handler.SuggestRelationships)
	router.GET("/diagram/mermaid", r.handler.Mermaid)
}
