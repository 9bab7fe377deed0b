package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"relmap/internal/handlers"
	"relmap/internal/middlewares"
	"relmap/internal/services"
)

func RegisterRoutes(
	router *gin.Engine,
	companyService *services.CompanyService,
	companyHandler *handlers.CompanyHandler,
	schemaHandler *handlers.SchemaHandler,
	relationshipHandler *handlers.RelationshipHandler,
) {
	api := router.Group("/api/v1")

	NewCompanyRoutes(companyHandler).RegisterRoutes(api)

	scoped := api.Group("/companies/:company_id")
	scoped.Use(middlewares.CompanyScope(companyService))
	scoped.GET("", companyHandler.GetCompany)

	NewSchemaRoutes(schemaHandler).RegisterRoutes(scoped)
	NewRelationshipRoutes(relationshipHandler).RegisterRoutes(scoped)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
