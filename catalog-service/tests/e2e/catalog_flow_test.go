//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"testing"
	"time"

	"storecase/catalog-service/internal/app/catalog/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The stack (catalog-service, postgres, redis, kafka, minio, identity service)
// must be running, e.g. through docker-compose.
func baseURL() string {
	if v := os.Getenv("CATALOG_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8082"
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, client *http.Client, method, path string, body interface{}, headers map[string]string) envelope {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, baseURL()+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, resp.StatusCode, env.Status)
	return env
}

// TestFullCatalogFlow: category -> image upload -> product -> category cleanup refused.
func TestFullCatalogFlow(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}
	sellerID := os.Getenv("E2E_SELLER_ID")
	if sellerID == "" {
		t.Skip("E2E_SELLER_ID is not set")
	}

	t.Log("Step 1: creating category")
	name := fmt.Sprintf("E2E Category %d", time.Now().UnixNano())
	env := doJSON(t, client, http.MethodPost, "/category", entity.CategoryRequest{Name: name}, nil)
	require.Equal(t, http.StatusCreated, env.Status)
	var category entity.CategoryResponse
	require.NoError(t, json.Unmarshal(env.Data, &category))

	t.Log("Step 2: uploading image")
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "e2e.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG e2e"))
	require.NoError(t, writer.Close())

	resp, err := client.Post(baseURL()+"/catalog/product/image/upload", writer.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var uploadEnv envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&uploadEnv))
	var image entity.ImageUploadResponse
	require.NoError(t, json.Unmarshal(uploadEnv.Data, &image))
	assert.Contains(t, image.ImageURL, "_e2e.png")

	t.Log("Step 3: creating product")
	product := map[string]interface{}{
		"productName": "E2E case",
		"description": "created by e2e flow",
		"optionName":  "Color",
		"categoryId":  category.ID,
		"imageIds":    []int64{image.ImageID},
		"options":     []map[string]interface{}{{"optionDetail": "Black", "price": 0, "stock": 1}},
	}
	env = doJSON(t, client, http.MethodPost, "/catalog/product", product, map[string]string{"X-User-Id": sellerID})
	require.Equal(t, http.StatusCreated, env.Status)

	t.Log("Step 4: category with products cannot be deleted")
	env = doJSON(t, client, http.MethodDelete, fmt.Sprintf("/category/%d", category.ID), nil, nil)
	assert.Equal(t, http.StatusBadRequest, env.Status)
}
