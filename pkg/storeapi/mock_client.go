package storeapi

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	console "github.com/goliatone/go-admin-console/components/console"
)

// MockData seeds deterministic backend responses for tests or local demos.
type MockData struct {
	Admins   []console.Identity
	Products []console.Product
	Orders   []console.Order
	Users    []console.User
	// Password accepted for every seeded admin; defaults to "admin".
	Password string
}

// MockClient implements console.StoreClient with in-memory fixtures. All
// mutations behave like the real backend: they change the fixture set, so a
// follow-up fetch observes the new state.
type MockClient struct {
	mu       sync.RWMutex
	data     MockData
	sessions map[string]console.Identity
}

var _ console.StoreClient = (*MockClient)(nil)

// NewMockClient builds a mock backend from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	if data.Password == "" {
		data.Password = "admin"
	}
	return &MockClient{
		data:     data,
		sessions: map[string]console.Identity{},
	}
}

// Login matches the email against the seeded admins.
func (c *MockClient) Login(_ context.Context, creds console.Credentials) (console.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if creds.Password != c.data.Password {
		return console.Session{}, fmt.Errorf("%w: wrong password", console.ErrInvalidCredentials)
	}
	for _, identity := range c.data.Admins {
		if identity.Email == creds.Email {
			return c.issueLocked(identity), nil
		}
	}
	return console.Session{}, fmt.Errorf("%w: unknown account", console.ErrInvalidCredentials)
}

// ExchangeAssertion accepts any assertion whose email matches a seeded
// admin.
func (c *MockClient) ExchangeAssertion(ctx context.Context, assertion console.ProviderAssertion) (console.Session, error) {
	return c.Login(ctx, console.Credentials{Email: assertion.Email, Password: c.data.Password})
}

// Verify resolves a previously issued token.
func (c *MockClient) Verify(_ context.Context, token string) (console.Identity, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	identity, ok := c.sessions[token]
	if !ok {
		return console.Identity{}, &console.ServerError{Op: "verify", Status: 401, Message: "invalid token"}
	}
	return identity, nil
}

// Products returns a copy of the seeded catalog.
func (c *MockClient) Products(context.Context) ([]console.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]console.Product(nil), c.data.Products...), nil
}

// CreateProduct appends to the catalog, assigning an id.
func (c *MockClient) CreateProduct(_ context.Context, payload map[string]any) (console.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	product := productFromPayload(payload)
	product.ID = uuid.NewString()
	c.data.Products = append(c.data.Products, product)
	return product, nil
}

// UpdateProduct replaces the matching catalog entry.
func (c *MockClient) UpdateProduct(_ context.Context, id string, payload map[string]any) (console.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.data.Products {
		if existing.ID == id {
			product := productFromPayload(payload)
			product.ID = id
			c.data.Products[i] = product
			return product, nil
		}
	}
	return console.Product{}, &console.ServerError{Op: "update product", Status: 404, Message: "product not found"}
}

// DeleteProduct removes the matching catalog entry.
func (c *MockClient) DeleteProduct(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.data.Products {
		if existing.ID == id {
			c.data.Products = append(c.data.Products[:i], c.data.Products[i+1:]...)
			return nil
		}
	}
	return &console.ServerError{Op: "delete product", Status: 404, Message: "product not found"}
}

// Orders returns a copy of the seeded orders.
func (c *MockClient) Orders(context.Context) ([]console.Order, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]console.Order(nil), c.data.Orders...), nil
}

// UpdateOrderStatus mutates the matching order in place.
func (c *MockClient) UpdateOrderStatus(_ context.Context, id, status string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.data.Orders {
		if c.data.Orders[i].ID == id {
			c.data.Orders[i].Status = status
			return nil
		}
	}
	return &console.ServerError{Op: "update order", Status: 404, Message: "order not found"}
}

// Users returns a copy of the seeded accounts.
func (c *MockClient) Users(context.Context) ([]console.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]console.User(nil), c.data.Users...), nil
}

// UpdateUserStatus mutates the matching account in place.
func (c *MockClient) UpdateUserStatus(_ context.Context, id, status string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.data.Users {
		if c.data.Users[i].ID == id {
			c.data.Users[i].Status = status
			return nil
		}
	}
	return &console.ServerError{Op: "update user", Status: 404, Message: "user not found"}
}

func (c *MockClient) issueLocked(identity console.Identity) console.Session {
	token := uuid.NewString()
	c.sessions[token] = identity
	return console.Session{Token: token, Identity: identity}
}

func productFromPayload(payload map[string]any) console.Product {
	product := console.Product{}
	if v, ok := payload["name"].(string); ok {
		product.Name = v
	}
	if v, ok := payload["description"].(string); ok {
		product.Description = v
	}
	if v, ok := payload["category"].(string); ok {
		product.Category = v
	}
	if v, ok := payload["status"].(string); ok {
		product.Status = v
	}
	switch v := payload["price"].(type) {
	case float64:
		product.Price = v
	case int:
		product.Price = float64(v)
	}
	switch v := payload["stock"].(type) {
	case float64:
		product.Stock = int(v)
	case int:
		product.Stock = v
	}
	return product
}
