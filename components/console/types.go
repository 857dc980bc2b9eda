package console

import (
	"context"
	"time"
)

// Role is the backend-assigned role carried by an Identity.
type Role string

const (
	// RoleAdmin is the only role allowed to operate the console.
	RoleAdmin Role = "admin"
	// RoleUser is a regular storefront customer.
	RoleUser Role = "user"
)

// Identity is the decoded admin profile returned by the store backend.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session pairs the backend-issued bearer token with the identity it was
// issued for. Only the token is ever persisted; the identity is re-derived
// by verification on the next load.
type Session struct {
	Token    string
	Identity Identity
}

// Authorized reports whether the session may operate the console. Sessions
// failing this check are discarded immediately and never stored.
func (s Session) Authorized() bool {
	return s.Identity.Role == RoleAdmin
}

// Credentials is a direct email/password login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProviderAssertion is the opaque proof handed back by an external identity
// provider, exchanged with the backend for a Session.
type ProviderAssertion struct {
	IDToken     string `json:"idToken"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	UID         string `json:"uid,omitempty"`
}

// AuthClient performs credential and token exchanges against the store
// backend. pkg/storeapi ships the HTTP implementation.
type AuthClient interface {
	Login(ctx context.Context, creds Credentials) (Session, error)
	ExchangeAssertion(ctx context.Context, assertion ProviderAssertion) (Session, error)
	Verify(ctx context.Context, token string) (Identity, error)
}

// IdentityProvider is the external federated-login collaborator. SignOut is
// invoked best-effort during logout; its failure is ignored.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (ProviderAssertion, error)
	SignOut(ctx context.Context) error
}

// TokenStore persists the session token between application runs.
// Load returns an empty string when no token is stored; it never goes to
// the network.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Product is a catalog entry owned by the backend. The console never derives
// persistent state from it.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Status      string  `json:"status"`
}

// OrderItem is a line item within an Order.
type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Order is a customer order record.
type Order struct {
	ID            string      `json:"id"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	Total         float64     `json:"total"`
	Status        string      `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
	Items         []OrderItem `json:"items"`
}

// User is a storefront account as seen by the admin console.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
