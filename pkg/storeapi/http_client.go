package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	console "github.com/goliatone/go-admin-console/components/console"
)

// TokenSource supplies the bearer token attached to authenticated requests.
// The console token store satisfies it through TokenSourceFunc.
type TokenSource interface {
	Load() (string, error)
}

// TokenSourceFunc adapts a plain func to the TokenSource interface.
type TokenSourceFunc func() (string, error)

// Load implements TokenSource.
func (f TokenSourceFunc) Load() (string, error) { return f() }

// SessionInvalidHook is notified whenever the backend answers 401/403 on an
// authenticated call, so the session can be torn down exactly once place.
type SessionInvalidHook func(ctx context.Context, cause error)

// HTTPConfig configures the HTTP store client.
type HTTPConfig struct {
	BaseURL          string
	Tokens           TokenSource
	HTTPClient       *http.Client
	OnSessionInvalid SessionInvalidHook
}

// HTTPClient talks to the remote store backend via its REST endpoints. It
// implements console.StoreClient.
type HTTPClient struct {
	baseURL          string
	tokens           TokenSource
	client           *http.Client
	onSessionInvalid SessionInvalidHook
}

var _ console.StoreClient = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the store backend.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("storeapi: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		tokens:           cfg.Tokens,
		client:           httpClient,
		onSessionInvalid: cfg.OnSessionInvalid,
	}, nil
}

type userEnvelope struct {
	Token string           `json:"token"`
	User  console.Identity `json:"user"`
}

// Login exchanges email/password for a session via POST /auth/login.
func (c *HTTPClient) Login(ctx context.Context, creds console.Credentials) (console.Session, error) {
	var resp userEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &resp, false); err != nil {
		return console.Session{}, asCredentialError(err)
	}
	if resp.Token == "" {
		return console.Session{}, &console.MalformedResponseError{Op: "login", Err: fmt.Errorf("missing token")}
	}
	return console.Session{Token: resp.Token, Identity: resp.User}, nil
}

// ExchangeAssertion trades an identity-provider assertion for a session via
// POST /auth/firebase-login.
func (c *HTTPClient) ExchangeAssertion(ctx context.Context, assertion console.ProviderAssertion) (console.Session, error) {
	var resp userEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/firebase-login", assertion, &resp, false); err != nil {
		return console.Session{}, asCredentialError(err)
	}
	if resp.Token == "" {
		return console.Session{}, &console.MalformedResponseError{Op: "firebase-login", Err: fmt.Errorf("missing token")}
	}
	return console.Session{Token: resp.Token, Identity: resp.User}, nil
}

// Verify asks the backend to vouch for a stored token via
// POST /auth/verify-token. A 401 here is an ordinary verification failure,
// not a session-invalidation event: there is no live session yet.
func (c *HTTPClient) Verify(ctx context.Context, token string) (console.Identity, error) {
	body := map[string]string{"token": token}
	var resp userEnvelope
	if err := c.doWithToken(ctx, http.MethodPost, "/auth/verify-token", body, &resp, token, false); err != nil {
		return console.Identity{}, err
	}
	if resp.User.ID == "" {
		return console.Identity{}, &console.MalformedResponseError{Op: "verify", Err: fmt.Errorf("missing user")}
	}
	return resp.User, nil
}

type productsEnvelope struct {
	Products []console.Product `json:"products"`
}

// Products lists the catalog via GET /products. The backend answers either
// a bare array or a {products} wrapper; both are accepted.
func (c *HTTPClient) Products(ctx context.Context) ([]console.Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/products", nil, &raw, true); err != nil {
		return nil, err
	}
	var items []console.Product
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var wrapped productsEnvelope
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, &console.MalformedResponseError{Op: "products", Err: err}
	}
	return wrapped.Products, nil
}

// CreateProduct creates a catalog entry via POST /products.
func (c *HTTPClient) CreateProduct(ctx context.Context, payload map[string]any) (console.Product, error) {
	var created console.Product
	if err := c.do(ctx, http.MethodPost, "/products", payload, &created, true); err != nil {
		return console.Product{}, err
	}
	return created, nil
}

// UpdateProduct updates a catalog entry via PUT /products/:id.
func (c *HTTPClient) UpdateProduct(ctx context.Context, id string, payload map[string]any) (console.Product, error) {
	var updated console.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+id, payload, &updated, true); err != nil {
		return console.Product{}, err
	}
	return updated, nil
}

// DeleteProduct removes a catalog entry via DELETE /products/:id.
func (c *HTTPClient) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+id, nil, nil, true)
}

type ordersEnvelope struct {
	Orders []console.Order `json:"orders"`
}

// Orders lists customer orders via GET /orders.
func (c *HTTPClient) Orders(ctx context.Context) ([]console.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &raw, true); err != nil {
		return nil, err
	}
	var items []console.Order
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var wrapped ordersEnvelope
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, &console.MalformedResponseError{Op: "orders", Err: err}
	}
	return wrapped.Orders, nil
}

// UpdateOrderStatus moves an order through fulfillment via
// PUT /orders/:id/status.
func (c *HTTPClient) UpdateOrderStatus(ctx context.Context, id, status string) error {
	return c.do(ctx, http.MethodPut, "/orders/"+id+"/status", map[string]string{"status": status}, nil, true)
}

// Users lists storefront accounts via GET /users/admin/all.
func (c *HTTPClient) Users(ctx context.Context) ([]console.User, error) {
	var items []console.User
	if err := c.do(ctx, http.MethodGet, "/users/admin/all", nil, &items, true); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateUserStatus toggles an account via PUT /users/admin/:id/status.
func (c *HTTPClient) UpdateUserStatus(ctx context.Context, id, status string) error {
	return c.do(ctx, http.MethodPut, "/users/admin/"+id+"/status", map[string]string{"status": status}, nil, true)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload, target any, authenticated bool) error {
	token := ""
	if authenticated && c.tokens != nil {
		loaded, err := c.tokens.Load()
		if err != nil {
			return fmt.Errorf("storeapi: load token: %w", err)
		}
		token = loaded
	}
	return c.doWithToken(ctx, method, path, payload, target, token, authenticated)
}

func (c *HTTPClient) doWithToken(ctx context.Context, method, path string, payload, target any, token string, authenticated bool) error {
	op := method + " " + path
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("storeapi: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("storeapi: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &console.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serverErr := &console.ServerError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: decodeErrorMessage(resp.Body),
		}
		if authenticated && serverErr.SessionInvalid() && c.onSessionInvalid != nil {
			c.onSessionInvalid(ctx, serverErr)
		}
		return serverErr
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &console.MalformedResponseError{Op: op, Err: err}
	}
	return nil
}

// decodeErrorMessage pulls the {message} field from an error body, falling
// back to the raw text when it is not JSON.
func decodeErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(data) == 0 {
		return "no response body"
	}
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return strings.TrimSpace(string(data))
}

// asCredentialError maps a 401/403 on a login exchange to the dedicated
// credential error so views can distinguish it from a dead session.
func asCredentialError(err error) error {
	var se *console.ServerError
	if errors.As(err, &se) && se.SessionInvalid() {
		return fmt.Errorf("%w: %s", console.ErrInvalidCredentials, se.Message)
	}
	return err
}
