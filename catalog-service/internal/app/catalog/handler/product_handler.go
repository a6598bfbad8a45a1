package handler

import (
	"net/http"

	"storecase/catalog-service/internal/app/catalog/entity"
	"storecase/catalog-service/internal/app/catalog/service"
	"storecase/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const uploadFormField = "file"

// ProductHandler serves /catalog/product.
type ProductHandler struct {
	productService service.ProductServiceInterface
	imageService   service.ImageServiceInterface
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductServiceInterface, imageService service.ImageServiceInterface) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		imageService:   imageService,
		validator:      validator.New(),
	}
}

// CreateProduct handles POST /catalog/product
// The seller comes from X-User-Id; the store is resolved through the identity service.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	sellerID, ok := userIDFromContext(c)
	if !ok {
		respondValidation(c, map[string]string{UserIDHeader: "header is required"})
		return
	}

	var req entity.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, map[string]string{"body": "malformed JSON"})
		return
	}

	if fields := validateCreateProductRequest(h.validator, &req); fields != nil {
		respondValidation(c, fields)
		return
	}

	ctx := c.Request.Context()

	storeID, err := h.productService.ResolveStoreID(ctx, sellerID)
	if err != nil {
		respondError(c, err)
		return
	}

	product, err := h.productService.CreateProduct(ctx, storeID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info().
		Int64("product_id", product.ID).
		Int64("store_id", storeID).
		Int64("seller_id", sellerID).
		Msg("product created")

	respondSuccess(c, http.StatusCreated, msgCreated, nil)
}

// UploadImage handles POST /catalog/product/image/upload
func (h *ProductHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile(uploadFormField)
	if err != nil || header.Size == 0 {
		respondValidation(c, map[string]string{uploadFormField: "must not be empty"})
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	resp, err := h.imageService.UploadImage(c.Request.Context(), service.UploadedFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, msgCreated, resp)
}
