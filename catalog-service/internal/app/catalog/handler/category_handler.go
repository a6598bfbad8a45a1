package handler

import (
	"net/http"

	"storecase/catalog-service/internal/app/catalog/entity"
	"storecase/catalog-service/internal/app/catalog/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CategoryHandler serves /category.
type CategoryHandler struct {
	categoryService service.CategoryServiceInterface
	validator       *validator.Validate
}

func NewCategoryHandler(categoryService service.CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		validator:       validator.New(),
	}
}

// CreateCategory handles POST /category
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	req, ok := h.bindCategoryRequest(c)
	if !ok {
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, msgCreated, entity.NewCategoryResponse(category))
}

// GetAllCategories handles GET /category
func (h *CategoryHandler) GetAllCategories(c *gin.Context) {
	categories, err := h.categoryService.GetAllCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]entity.CategoryResponse, 0, len(categories))
	for i := range categories {
		response = append(response, entity.NewCategoryResponse(&categories[i]))
	}

	respondSuccess(c, http.StatusOK, msgRead, response)
}

// GetCategory handles GET /category/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, msgRead, entity.NewCategoryResponse(category))
}

// UpdateCategory handles PUT /category/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	req, ok := h.bindCategoryRequest(c)
	if !ok {
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, msgUpdated, entity.NewCategoryResponse(category))
}

// DeleteCategory handles DELETE /category/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, msgDeleted, nil)
}

func (h *CategoryHandler) bindCategoryRequest(c *gin.Context) (*entity.CategoryRequest, bool) {
	var req entity.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, map[string]string{"body": "malformed JSON"})
		return nil, false
	}

	if fields := validateCategoryRequest(h.validator, &req); fields != nil {
		respondValidation(c, fields)
		return nil, false
	}

	return &req, true
}
