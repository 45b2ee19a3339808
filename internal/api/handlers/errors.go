package handlers

import (
	"errors"
	"net/http"
	"strings"

	"taxmeter/internal/api/models"
	"taxmeter/internal/data"
	"taxmeter/internal/model"

	"github.com/gin-gonic/gin"
)

// respondError maps core errors onto the API error contract.
func respondError(c *gin.Context, err error) {
	var (
		cfgErr    *model.ConfigError
		inErr     *model.InputError
		schemaErr *model.SchemaError
		ingErr    *data.IngestionError
	)
	switch {
	case errors.As(err, &cfgErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "CONFIG_ERROR",
				Message: err.Error(),
				Details: map[string]interface{}{
					"field": cfgErr.Field,
					"value": cfgErr.Value,
				},
			},
		})
	case errors.As(err, &inErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_" + strings.ToUpper(inErr.Param),
				Message: err.Error(),
			},
		})
	case errors.As(err, &ingErr):
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INGESTION_FAILED",
				Message: err.Error(),
				Details: map[string]interface{}{
					"source":      ingErr.Source,
					"reason":      ingErr.Code,
					"status_code": ingErr.StatusCode,
				},
			},
		})
	case errors.As(err, &schemaErr):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SCHEMA_ERROR",
				Message: err.Error(),
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: err.Error(),
			},
		})
	}
}
