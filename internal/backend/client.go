// README: HTTP client for the commerce backend (orders, auth, cart).
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnauthorized is returned for any 401 from the backend. It is never
// handled inside the checkout core; callers map it to the ambient
// redirect-to-login behaviour.
var ErrUnauthorized = errors.New("backend: unauthorized")

// ValidationError carries the backend's rejection detail for a 4xx payload
// error (e.g. a malformed shipping address). It is user-facing.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a backend client. The timeout guards against stalled
// connections; context cancellation is still honoured per request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// CreateOrder submits the order-creation request. The backend is required to
// be idempotent on req.IdempotencyKey: retrying with the same key must return
// the already-created order, not create a second one. The client sends the
// key unchanged on every retry of the same attempt and performs no automatic
// retries of its own.
func (c *Client) CreateOrder(ctx context.Context, accessToken string, req OrderCreate) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/orders", accessToken, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Me answers "is the caller authenticated" by fetching the current user.
func (c *Client) Me(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", accessToken, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchCart reads the caller's cart. The checkout core only reads and
// refreshes cart state; it never mutates cart contents.
func (c *Client) FetchCart(ctx context.Context, accessToken string) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodGet, "/cart", accessToken, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("backend: marshal %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("backend: build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: read response %s %s: %w", method, path, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return &ValidationError{Detail: errorDetail(raw)}
	case resp.StatusCode >= 300:
		return fmt.Errorf("backend: %s %s: status %d: %s", method, path, resp.StatusCode, errorDetail(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("backend: unmarshal %s %s: %w", method, path, err)
		}
	}
	return nil
}

func errorDetail(raw []byte) string {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil && eb.Detail != "" {
		return eb.Detail
	}
	return string(raw)
}
