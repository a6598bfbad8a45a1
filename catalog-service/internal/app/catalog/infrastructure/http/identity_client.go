package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"storecase/catalog-service/internal/app/catalog/infrastructure"
	"storecase/pkg/metrics"
)

// identityEnvelope mirrors the {status, message, data} wrapper of the identity service.
type identityEnvelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// IdentityClient resolves a seller id to the id of the store the seller owns.
// One attempt per call, no retries.
type IdentityClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewIdentityClient bounds dialing by connectTimeout and waiting for the response by readTimeout.
func NewIdentityClient(baseURL string, connectTimeout, readTimeout time.Duration) *IdentityClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ResponseHeaderTimeout: readTimeout,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
	}

	return &IdentityClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   connectTimeout + readTimeout,
		},
	}
}

// GetStoreID calls GET {baseURL}/internal/identity/users/{sellerID}.
// Client errors and an empty data field yield ErrStoreNotFound; everything that
// prevents a usable answer yields ErrIdentityServiceUnavailable.
func (c *IdentityClient) GetStoreID(ctx context.Context, sellerID int64) (int64, error) {
	storeID, err := c.getStoreID(ctx, sellerID)
	switch {
	case err == nil:
		metrics.IdentityLookups.WithLabelValues("found").Inc()
	case errors.Is(err, infrastructure.ErrStoreNotFound):
		metrics.IdentityLookups.WithLabelValues("not_found").Inc()
	default:
		metrics.IdentityLookups.WithLabelValues("unavailable").Inc()
	}
	return storeID, err
}

func (c *IdentityClient) getStoreID(ctx context.Context, sellerID int64) (int64, error) {
	url := fmt.Sprintf("%s/internal/identity/users/%d", c.baseURL, sellerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create request: %v", infrastructure.ErrIdentityServiceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", infrastructure.ErrIdentityServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return 0, fmt.Errorf("%w: identity service returned status %d", infrastructure.ErrStoreNotFound, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: unexpected status code: %d", infrastructure.ErrIdentityServiceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read response: %v", infrastructure.ErrIdentityServiceUnavailable, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return 0, infrastructure.ErrStoreNotFound
	}

	var envelope identityEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return 0, fmt.Errorf("%w: failed to decode response: %v", infrastructure.ErrIdentityServiceUnavailable, err)
	}

	return parseStoreID(envelope.Data)
}

// parseStoreID accepts a JSON number or a numeric string.
func parseStoreID(data json.RawMessage) (int64, error) {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte(`""`)) {
		return 0, infrastructure.ErrStoreNotFound
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		raw = []byte(text)
	}

	storeID, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: store id is not numeric: %s", infrastructure.ErrIdentityServiceUnavailable, string(data))
	}
	return storeID, nil
}
