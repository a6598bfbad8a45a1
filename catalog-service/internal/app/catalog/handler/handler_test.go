package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storecase/catalog-service/internal/app/catalog/entity"
	"storecase/catalog-service/internal/app/catalog/infrastructure"
	"storecase/catalog-service/internal/app/catalog/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) CreateCategory(ctx context.Context, req *entity.CategoryRequest) (*entity.Category, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryService) GetCategory(ctx context.Context, id int64) (*entity.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryService) GetAllCategories(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockCategoryService) UpdateCategory(ctx context.Context, id int64, req *entity.CategoryRequest) (*entity.Category, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryService) DeleteCategory(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ResolveStoreID(ctx context.Context, sellerID int64) (int64, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductService) CreateProduct(ctx context.Context, storeID int64, req *entity.CreateProductRequest) (*entity.Product, error) {
	args := m.Called(ctx, storeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) UploadImage(ctx context.Context, file service.UploadedFile) (*entity.ImageUploadResponse, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ImageUploadResponse), args.Error(1)
}

type testEnvelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	router     *gin.Engine
	categories *MockCategoryService
	products   *MockProductService
	images     *MockImageService
}

func setupTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	ts := &testServer{
		categories: new(MockCategoryService),
		products:   new(MockProductService),
		images:     new(MockImageService),
	}
	ts.router = SetupRoutes(NewCategoryHandler(ts.categories), NewProductHandler(ts.products, ts.images))
	return ts
}

func (ts *testServer) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func dataMap(t *testing.T, env testEnvelope) map[string]string {
	t.Helper()
	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	return fields
}

// ==================== Category ====================

func TestCreateCategory_Success(t *testing.T) {
	ts := setupTestServer()
	ts.categories.On("CreateCategory", mock.Anything, &entity.CategoryRequest{Name: "Cases"}).
		Return(&entity.Category{ID: 1, Name: "Cases"}, nil)

	w, env := ts.do(t, jsonRequest(http.MethodPost, "/category", entity.CategoryRequest{Name: "Cases"}))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, http.StatusCreated, env.Status)
	assert.Equal(t, msgCreated, env.Message)
	assert.JSONEq(t, `{"id":1,"name":"Cases"}`, string(env.Data))
}

func TestCreateCategory_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		body  interface{}
		field string
	}{
		{name: "blank name", body: entity.CategoryRequest{Name: "   "}, field: "name"},
		{name: "too long", body: entity.CategoryRequest{Name: string(bytes.Repeat([]byte("a"), 101))}, field: "name"},
		{name: "malformed body", body: `{"name":`, field: "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServer()

			w, env := ts.do(t, jsonRequest(http.MethodPost, "/category", tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, msgInvalidInput, env.Message)
			assert.Contains(t, dataMap(t, env), tt.field)
			ts.categories.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateCategory_NameAtColumnLimit(t *testing.T) {
	ts := setupTestServer()
	name := strings.Repeat("ч", 100)
	ts.categories.On("CreateCategory", mock.Anything, &entity.CategoryRequest{Name: name}).
		Return(&entity.Category{ID: 1, Name: name}, nil)

	w, _ := ts.do(t, jsonRequest(http.MethodPost, "/category", entity.CategoryRequest{Name: name}))

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateCategory_Duplicate(t *testing.T) {
	ts := setupTestServer()
	ts.categories.On("CreateCategory", mock.Anything, mock.Anything).Return(nil, service.ErrCategoryAlreadyExists)

	w, env := ts.do(t, jsonRequest(http.MethodPost, "/category", entity.CategoryRequest{Name: "Cases"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "entity already exists: Category", env.Message)
	assert.Equal(t, "null", string(env.Data))
}

func TestGetAllCategories(t *testing.T) {
	ts := setupTestServer()
	ts.categories.On("GetAllCategories", mock.Anything).
		Return([]entity.Category{{ID: 1, Name: "Cases"}, {ID: 2, Name: "Straps"}}, nil)

	w, env := ts.do(t, jsonRequest(http.MethodGet, "/category", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, msgRead, env.Message)
	assert.JSONEq(t, `[{"id":1,"name":"Cases"},{"id":2,"name":"Straps"}]`, string(env.Data))
}

func TestGetAllCategories_Empty(t *testing.T) {
	ts := setupTestServer()
	ts.categories.On("GetAllCategories", mock.Anything).Return([]entity.Category{}, nil)

	_, env := ts.do(t, jsonRequest(http.MethodGet, "/category", nil))

	assert.Equal(t, "[]", string(env.Data))
}

func TestGetCategory(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		ts := setupTestServer()
		ts.categories.On("GetCategory", mock.Anything, int64(3)).Return(&entity.Category{ID: 3, Name: "Cases"}, nil)

		w, env := ts.do(t, jsonRequest(http.MethodGet, "/category/3", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":3,"name":"Cases"}`, string(env.Data))
	})

	t.Run("not found", func(t *testing.T) {
		ts := setupTestServer()
		ts.categories.On("GetCategory", mock.Anything, int64(3)).Return(nil, service.ErrCategoryNotFound)

		w, env := ts.do(t, jsonRequest(http.MethodGet, "/category/3", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "entity not found: Category", env.Message)
	})

	t.Run("bad id", func(t *testing.T) {
		ts := setupTestServer()

		w, env := ts.do(t, jsonRequest(http.MethodGet, "/category/abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, dataMap(t, env), "id")
	})
}

func TestUpdateCategory(t *testing.T) {
	ts := setupTestServer()
	ts.categories.On("UpdateCategory", mock.Anything, int64(3), &entity.CategoryRequest{Name: "Phone cases"}).
		Return(&entity.Category{ID: 3, Name: "Phone cases"}, nil)

	w, env := ts.do(t, jsonRequest(http.MethodPut, "/category/3", entity.CategoryRequest{Name: "Phone cases"}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, msgUpdated, env.Message)
	assert.JSONEq(t, `{"id":3,"name":"Phone cases"}`, string(env.Data))
}

func TestDeleteCategory(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "deleted", wantStatus: http.StatusOK, wantMsg: msgDeleted},
		{name: "not found", err: service.ErrCategoryNotFound, wantStatus: http.StatusBadRequest, wantMsg: "entity not found: Category"},
		{name: "in use", err: service.ErrCategoryInUse, wantStatus: http.StatusBadRequest, wantMsg: "category is referenced by products"},
		{name: "unexpected", err: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantMsg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServer()
			ts.categories.On("DeleteCategory", mock.Anything, int64(5)).Return(tt.err)

			w, env := ts.do(t, jsonRequest(http.MethodDelete, "/category/5", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus, env.Status)
			assert.Equal(t, tt.wantMsg, env.Message)
			assert.Equal(t, "null", string(env.Data))
		})
	}
}

// ==================== Product ====================

func validProductBody() map[string]interface{} {
	return map[string]interface{}{
		"productName": "Clear case",
		"description": "Slim transparent case",
		"price":       15000,
		"stock":       20,
		"optionName":  "Color",
		"categoryId":  3,
		"imageIds":    []int64{10, 11},
		"options": []map[string]interface{}{
			{"optionDetail": "Black", "price": 0, "stock": 5},
		},
	}
}

func productRequest(body interface{}, userID string) *http.Request {
	req := jsonRequest(http.MethodPost, "/catalog/product", body)
	if userID != "" {
		req.Header.Set(UserIDHeader, userID)
	}
	return req
}

func TestCreateProduct_Success(t *testing.T) {
	ts := setupTestServer()
	ts.products.On("ResolveStoreID", mock.Anything, int64(7)).Return(int64(42), nil)
	ts.products.On("CreateProduct", mock.Anything, int64(42), mock.MatchedBy(func(req *entity.CreateProductRequest) bool {
		return req.ProductName == "Clear case" && *req.CategoryID == 3 && len(req.Options) == 1
	})).Return(&entity.Product{ID: 100}, nil)

	w, env := ts.do(t, productRequest(validProductBody(), "7"))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, msgCreated, env.Message)
	assert.Equal(t, "null", string(env.Data))
	ts.products.AssertExpectations(t)
}

func TestCreateProduct_UserHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing", header: ""},
		{name: "not numeric", header: "seller"},
		{name: "negative", header: "-4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServer()

			w, env := ts.do(t, productRequest(validProductBody(), tt.header))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, dataMap(t, env), UserIDHeader)
			ts.products.AssertNotCalled(t, "ResolveStoreID", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateProduct_ValidationMap(t *testing.T) {
	ts := setupTestServer()
	body := validProductBody()
	body["productName"] = ""
	body["price"] = -1
	delete(body, "categoryId")
	body["options"] = []map[string]interface{}{
		{"optionDetail": "", "price": 0, "stock": -2},
	}

	w, env := ts.do(t, productRequest(body, "7"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgInvalidInput, env.Message)
	fields := dataMap(t, env)
	assert.Equal(t, "must not be blank", fields["productName"])
	assert.Equal(t, "must be greater than or equal to 0", fields["price"])
	assert.Contains(t, fields, "categoryId")
	assert.Contains(t, fields, "options[0].optionDetail")
	assert.Contains(t, fields, "options[0].stock")
	assert.NotContains(t, fields, "description")
	ts.products.AssertNotCalled(t, "ResolveStoreID", mock.Anything, mock.Anything)
}

func TestCreateProduct_NullableStockAndPrice(t *testing.T) {
	ts := setupTestServer()
	body := validProductBody()
	delete(body, "price")
	delete(body, "stock")
	ts.products.On("ResolveStoreID", mock.Anything, int64(7)).Return(int64(42), nil)
	ts.products.On("CreateProduct", mock.Anything, int64(42), mock.MatchedBy(func(req *entity.CreateProductRequest) bool {
		return req.Price == nil && req.Stock == nil
	})).Return(&entity.Product{ID: 100}, nil)

	w, _ := ts.do(t, productRequest(body, "7"))

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateProduct_ErrorTranslation(t *testing.T) {
	tests := []struct {
		name       string
		resolveErr error
		createErr  error
		wantStatus int
		wantMsg    string
	}{
		{name: "store not found", resolveErr: infrastructure.ErrStoreNotFound, wantStatus: http.StatusBadRequest, wantMsg: "entity not found: Seller's StoreId"},
		{name: "identity unavailable", resolveErr: infrastructure.ErrIdentityServiceUnavailable, wantStatus: http.StatusBadGateway, wantMsg: "external service unavailable"},
		{name: "category not found", createErr: service.ErrCategoryNotFound, wantStatus: http.StatusBadRequest, wantMsg: "entity not found: Category"},
		{name: "rolled back", createErr: errors.New("deadlock"), wantStatus: http.StatusInternalServerError, wantMsg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServer()
			ts.products.On("ResolveStoreID", mock.Anything, int64(7)).Return(int64(42), tt.resolveErr)
			ts.products.On("CreateProduct", mock.Anything, int64(42), mock.Anything).Return(nil, tt.createErr)

			w, env := ts.do(t, productRequest(validProductBody(), "7"))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMsg, env.Message)
			if tt.resolveErr != nil {
				ts.products.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

// ==================== Image upload ====================

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := writer.CreateFormFile(uploadFormField, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/catalog/product/image/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadImage_Success(t *testing.T) {
	ts := setupTestServer()
	ts.images.On("UploadImage", mock.Anything, mock.MatchedBy(func(f service.UploadedFile) bool {
		return f.Name == "case.png" && f.Size == 5
	})).Return(&entity.ImageUploadResponse{ImageID: 11, ImageURL: "http://minio/product-images/x_case.png"}, nil)

	w, env := ts.do(t, uploadRequest(t, "case.png", []byte("bytes")))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"imageId":11,"imageUrl":"http://minio/product-images/x_case.png"}`, string(env.Data))
}

func TestUploadImage_MissingFile(t *testing.T) {
	ts := setupTestServer()

	w, env := ts.do(t, uploadRequest(t, "", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, dataMap(t, env), uploadFormField)
	ts.images.AssertNotCalled(t, "UploadImage", mock.Anything, mock.Anything)
}

func TestUploadImage_StorageFailure(t *testing.T) {
	ts := setupTestServer()
	ts.images.On("UploadImage", mock.Anything, mock.Anything).Return(nil, service.ErrUploadFailed)

	w, env := ts.do(t, uploadRequest(t, "case.png", []byte("bytes")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "file upload failed", env.Message)
}

func TestHealth(t *testing.T) {
	ts := setupTestServer()
	w := httptest.NewRecorder()

	ts.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), serviceName)
}
