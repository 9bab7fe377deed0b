package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"relmap/internal/logger"
	"relmap/internal/models"
	"relmap/internal/responses"
	"relmap/internal/services"
)

type CompanyHandler struct {
	companyService *services.CompanyService
	log            logger.LoggerI
}

func NewCompanyHandler(companyService *services.CompanyService, log logger.LoggerI) *CompanyHandler {
	return &CompanyHandler{companyService: companyService, log: log}
}

// CreateCompany handles POST /api/v1/companies
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req models.CompanyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	comp, err := h.companyService.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, h.log, err, "Failed to create company")
		return
	}

	responses.Success(c, http.StatusCreated, comp, "Company created successfully")
}

// GetCompany handles GET /api/v1/companies/:company_id
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	comp, ok := company(c)
	if !ok {
		return
	}
	responses.Success(c, http.StatusOK, comp, "Company retrieved successfully")
}
