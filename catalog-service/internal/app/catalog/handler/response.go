package handler

import (
	"errors"
	"net/http"

	"storecase/catalog-service/internal/app/catalog/entity"
	"storecase/catalog-service/internal/app/catalog/infrastructure"
	"storecase/catalog-service/internal/app/catalog/service"
	"storecase/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	msgCreated = "created successfully"
	msgRead    = "retrieved successfully"
	msgUpdated = "updated successfully"
	msgDeleted = "deleted successfully"

	msgInvalidInput = "invalid input value"
)

func respondSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, entity.Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

func respondValidation(c *gin.Context, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, entity.Response{
		Status:  http.StatusBadRequest,
		Message: msgInvalidInput,
		Data:    fields,
	})
}

// respondError is the single place where domain errors become HTTP statuses.
func respondError(c *gin.Context, err error) {
	status, message := classifyError(err)
	if status >= http.StatusInternalServerError {
		logger.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.FullPath()).
			Msg("request failed")
	}

	c.AbortWithStatusJSON(status, entity.Response{
		Status:  status,
		Message: message,
		Data:    nil,
	})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		return http.StatusBadRequest, "entity not found: Category"
	case errors.Is(err, infrastructure.ErrStoreNotFound):
		return http.StatusBadRequest, "entity not found: Seller's StoreId"
	case errors.Is(err, service.ErrCategoryAlreadyExists):
		return http.StatusBadRequest, "entity already exists: Category"
	case errors.Is(err, service.ErrCategoryInUse):
		return http.StatusBadRequest, "category is referenced by products"
	case errors.Is(err, service.ErrUploadFailed):
		return http.StatusInternalServerError, "file upload failed"
	case errors.Is(err, infrastructure.ErrIdentityServiceUnavailable):
		return http.StatusBadGateway, "external service unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
