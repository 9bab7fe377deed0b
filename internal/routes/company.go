package routes

import (
	"github.com/gin-gonic/gin"

	"relmap/internal/handlers"
)

type CompanyRoutes struct {
	handler *handlers.CompanyHandler
}

func NewCompanyRoutes(handler *handlers.CompanyHandler) *CompanyRoutes {
	return &CompanyRoutes{handler: handler}
}

func (r *CompanyRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/companies", r.handler.CreateCompany)
}
