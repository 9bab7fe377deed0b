package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"relmap/internal/logger"
	"relmap/internal/middlewares"
	"relmap/internal/models"
	"relmap/internal/responses"
	"relmap/internal/services"
)

// company returns the company resolved by middlewares.CompanyScope.
func company(c *gin.Context) (*models.Company, bool) {
	v, ok := c.Get(middlewares.CompanyKey)
	if !ok {
		responses.Fail(c, http.StatusInternalServerError, nil, "Company scope missing")
		return nil, false
	}
	comp, ok := v.(*models.Company)
	if !ok {
		responses.Fail(c, http.StatusInternalServerError, nil, "Company scope missing")
		return nil, false
	}
	return comp, true
}

// fail maps service errors to HTTP statuses. Unexpected errors are logged.
func fail(c *gin.Context, log logger.LoggerI, err error, message string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		responses.Fail(c, http.StatusUnprocessableEntity, err, message)
	case errors.Is(err, services.ErrNotFound):
		responses.Fail(c, http.StatusNotFound, err, message)
	case errors.Is(err, services.ErrConflict):
		responses.Fail(c, http.StatusConflict, err, message)
	default:
		log.Error(message,
			logger.String("path", c.FullPath()),
			logger.String("request_id", c.GetString(middlewares.RequestIDKey)),
			logger.Error(err),
		)
		responses.Fail(c, http.StatusInternalServerError, err, message)
	}
}
