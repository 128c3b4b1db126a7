// Package backend is the HTTP client for the store's product and order
// service: the catalog and order collaborator of the register.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmynk/cashier/internal/models"
)

const (
	DefaultTimeout = 10 * time.Second

	idempotencyHeader = "Idempotency-Key"
	operatorHeader    = "X-Operator-Id"
	maxErrorBody      = 64 << 10
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// OperatorMessage returns the service's own message, suitable for display.
func (e *APIError) OperatorMessage() string { return e.Message }

// Client talks JSON to the service rooted at BaseURL.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the service token sent as the bearer token on every call.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a Client for baseURL, e.g. "http://localhost:8080/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q: scheme and host are required", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListProducts returns the full product list.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, nil, &products); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ListCategories returns every category.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &categories); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetProductByBarcode looks a product up by barcode. An unknown barcode
// returns models.ErrProductNotFound.
func (c *Client) GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	var p models.Product
	err := c.do(ctx, http.MethodGet, "/products/barcode/"+url.PathEscape(barcode), nil, nil, &p)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to look up barcode %q: %w", barcode, err)
	}
	return &p, nil
}

// CreateOrder posts an order on behalf of sess. The call authenticates with
// the service token; the operator is identified by the X-Operator-Id header.
func (c *Client) CreateOrder(ctx context.Context, sess models.Session, idempotencyKey string, req models.OrderRequest) (*models.OrderConfirmation, error) {
	headers := http.Header{}
	if idempotencyKey != "" {
		headers.Set(idempotencyHeader, idempotencyKey)
	}
	if sess.UserID != "" {
		headers.Set(operatorHeader, sess.UserID)
	}
	var conf models.OrderConfirmation
	if err := c.do(ctx, http.MethodPost, "/orders", headers, req, &conf); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return &conf, nil
}

func (c *Client) do(ctx context.Context, method, path string, headers http.Header, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	slog.Debug("Backend call", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}
