package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tair/hardware-inventory/pkg/logger"
)

// Config holds settings for creating a catalog Client
type Config struct {
	// BaseURL is the root of the backing service API, e.g.
	// "http://localhost:5000/api".
	BaseURL string

	// Timeout bounds each individual request. Defaults to 30 seconds.
	Timeout time.Duration

	// HTTPClient overrides the transport. Defaults to a fresh http.Client.
	HTTPClient *http.Client
}

// Client is the typed request/response boundary to the backing catalog
// service. It neither retries nor caches; every call maps 1:1 onto an HTTP
// request and every failure is terminal for that call.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
	}
}

// envelope is the response wrapper used by every endpoint
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// do issues one request and decodes the enveloped response. The endpoint
// argument is the route template used for metrics and logs; path is the
// concrete request path.
func (c *Client) do(ctx context.Context, method, endpoint, path string, query url.Values, body any, out any) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: "encode request", Err: err}
		}
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return &TransportError{Op: "create request", Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start).Seconds()
	requestLatency.WithLabelValues(method, endpoint).Observe(duration)

	if err != nil {
		requestCounter.WithLabelValues(method, endpoint, "error").Inc()
		logger.Logger.Error().
			Err(err).
			Str("method", method).
			Str("endpoint", endpoint).
			Str("request_id", requestID).
			Msg("Catalog request failed")
		return &TransportError{Op: method + " " + endpoint, Err: err}
	}
	defer resp.Body.Close()

	requestCounter.WithLabelValues(method, endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// A rejection stays a rejection even when the body is not the JSON
		// envelope; the status code must survive, the message is best effort
		var env envelope
		message := ""
		if err := json.NewDecoder(resp.Body).Decode(&env); err == nil {
			message = env.Error
			if message == "" {
				message = env.Message
			}
		}
		logger.Logger.Warn().
			Int("status", resp.StatusCode).
			Str("method", method).
			Str("endpoint", endpoint).
			Str("request_id", requestID).
			Str("error", message).
			Msg("Catalog request rejected")
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		// Empty bodies are fine for delete-style responses
		if out == nil {
			return nil
		}
		return &TransportError{Op: "decode response", Err: err}
	}

	logger.Logger.Debug().
		Int("status", resp.StatusCode).
		Str("method", method).
		Str("endpoint", endpoint).
		Str("request_id", requestID).
		Msg("Catalog request completed")

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &TransportError{Op: "decode payload", Err: err}
		}
	}
	return nil
}

// ListProducts fetches products matching the filter; a nil or empty filter
// fetches the full set.
func (c *Client) ListProducts(ctx context.Context, filter *Filter) ([]Product, error) {
	query := url.Values{}
	if filter != nil {
		query = filter.Query()
	}
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/products", "/products", query, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches a single product by id
func (c *Client) GetProduct(ctx context.Context, id int) (*Product, error) {
	var product Product
	path := fmt.Sprintf("/products/%d", id)
	if err := c.do(ctx, http.MethodGet, "/products/{id}", path, nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct submits a new product and returns the stored record
func (c *Client) CreateProduct(ctx context.Context, draft ProductDraft) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPost, "/products", "/products", nil, draft, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct applies a partial update and returns the stored record
func (c *Client) UpdateProduct(ctx context.Context, id int, patch ProductPatch) (*Product, error) {
	var product Product
	path := fmt.Sprintf("/products/%d", id)
	if err := c.do(ctx, http.MethodPut, "/products/{id}", path, nil, patch, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product remotely
func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	path := fmt.Sprintf("/products/%d", id)
	return c.do(ctx, http.MethodDelete, "/products/{id}", path, nil, nil, nil)
}

// ExpiringProducts fetches products whose expiry date falls within
// [today, today+days], sorted ascending by expiry date. Products without an
// expiry date are excluded by the service.
func (c *Client) ExpiringProducts(ctx context.Context, days int) ([]Product, error) {
	query := url.Values{}
	query.Set("days", strconv.Itoa(days))
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/products/expiry/closest", "/products/expiry/closest", query, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListSales fetches all sales
func (c *Client) ListSales(ctx context.Context) ([]Sale, error) {
	var sales []Sale
	if err := c.do(ctx, http.MethodGet, "/sales", "/sales", nil, nil, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// GetSale fetches a single sale by id
func (c *Client) GetSale(ctx context.Context, id int) (*Sale, error) {
	var sale Sale
	path := fmt.Sprintf("/sales/%d", id)
	if err := c.do(ctx, http.MethodGet, "/sales/{id}", path, nil, nil, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

// CreateSale submits a new sale and returns the stored record. Stock
// consistency is enforced by the service; an insufficient-stock rejection
// comes back as an APIError carrying the server message.
func (c *Client) CreateSale(ctx context.Context, draft SaleDraft) (*Sale, error) {
	var sale Sale
	if err := c.do(ctx, http.MethodPost, "/sales", "/sales", nil, draft, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

// UpdateSale applies a partial update and returns the stored record
func (c *Client) UpdateSale(ctx context.Context, id int, patch SalePatch) (*Sale, error) {
	var sale Sale
	path := fmt.Sprintf("/sales/%d", id)
	if err := c.do(ctx, http.MethodPut, "/sales/{id}", path, nil, patch, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

// DeleteSale removes a sale remotely; the service restores the product stock
func (c *Client) DeleteSale(ctx context.Context, id int) error {
	path := fmt.Sprintf("/sales/%d", id)
	return c.do(ctx, http.MethodDelete, "/sales/{id}", path, nil, nil, nil)
}

// ListCategories fetches the distinct categories currently in use
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, http.MethodGet, "/categories", "/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// DashboardStats fetches the precomputed summary statistics
func (c *Client) DashboardStats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", "/dashboard/stats", nil, nil, &stats); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// Health checks service liveness
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", "/health", nil, nil, nil)
}
