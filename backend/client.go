package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"heritage/models"
)

// APIError is a non-2xx answer from the backend. Message carries the
// backend's own explanation when it sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return models.ErrNotFound
	}
	return nil
}

// UserMessage returns the backend's message for err when there is one,
// otherwise fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Client talks to the HeritageByNN REST backend. A zero token means the
// call is anonymous; admin calls go through Authed.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Authed returns a copy of c that sends token as a bearer credential.
func (c *Client) Authed(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, "", &out); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if out == nil {
		out = []models.Product{}
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var out models.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, "", &out); err != nil {
		return models.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, form ProductForm) (models.Product, error) {
	body, contentType, err := form.encode()
	if err != nil {
		return models.Product{}, err
	}
	var out models.Product
	if err := c.do(ctx, http.MethodPost, "/products", body, contentType, &out); err != nil {
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, form ProductForm) (models.Product, error) {
	body, contentType, err := form.encode()
	if err != nil {
		return models.Product{}, err
	}
	var out models.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), body, contentType, &out); err != nil {
		return models.Product{}, fmt.Errorf("update product %s: %w", id, err)
	}
	return out, nil
}

func (c *Client) UpdateStock(ctx context.Context, id string, stock int) error {
	body, err := jsonBody(map[string]int{"stock": stock})
	if err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), body, "application/json", nil); err != nil {
		return fmt.Errorf("update stock %s: %w", id, err)
	}
	return nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, "", nil); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}

func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, "", &out); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if out == nil {
		out = []models.Order{}
	}
	return out, nil
}

// CreateOrder posts req as multipart when proof is attached, otherwise as
// plain JSON.
func (c *Client) CreateOrder(ctx context.Context, req models.OrderRequest, proof *models.Attachment) (models.Order, error) {
	var (
		body        io.Reader
		contentType string
		err         error
	)
	if proof != nil {
		body, contentType, err = orderMultipart(req, *proof)
	} else {
		body, err = jsonBody(req)
		contentType = "application/json"
	}
	if err != nil {
		return models.Order{}, err
	}

	var out models.Order
	if err := c.do(ctx, http.MethodPost, "/orders", body, contentType, &out); err != nil {
		return models.Order{}, fmt.Errorf("create order: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	body, err := jsonBody(map[string]models.OrderStatus{"status": status})
	if err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(id), body, "application/json", nil); err != nil {
		return fmt.Errorf("update order %s: %w", id, err)
	}
	return nil
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/orders/"+url.PathEscape(id), nil, "", nil); err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}
	return nil
}

// Login exchanges admin credentials for the backend's bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, "application/json", &out); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if out.Token == "" {
		return "", &APIError{Status: http.StatusBadGateway, Message: "login response carried no token"}
	}
	return out.Token, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
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

func jsonBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return bytes.NewReader(data), nil
}
