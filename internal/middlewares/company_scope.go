package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"relmap/internal/responses"
	"relmap/internal/services"
)

// CompanyKey holds the *models.Company resolved from :company_id.
const CompanyKey = "company"

// CompanyScope resolves the :company_id path parameter and aborts with 400
// for a malformed id or 404 for an unknown company.
func CompanyScope(companyService *services.CompanyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("company_id"))
		if err != nil {
			responses.Fail(c, http.StatusBadRequest, err, "Invalid company ID format")
			c.Abort()
			return
		}

		company, err := companyService.Get(c.Request.Context(), id)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, services.ErrNotFound) {
				status = http.StatusNotFound
			}
			responses.Fail(c, status, err, "Company not found")
			c.Abort()
			return
		}

		c.Set(CompanyKey, company)
		c.Next()
	}
}
