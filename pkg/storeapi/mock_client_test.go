package storeapi

import (
	"context"
	"errors"
	"testing"

	console "github.com/goliatone/go-admin-console/components/console"
)

func newMock() *MockClient {
	return NewMockClient(MockData{
		Admins: []console.Identity{
			{ID: "adm-1", Name: "Admin", Email: "admin@store.test", Role: console.RoleAdmin},
		},
		Products: []console.Product{
			{ID: "p1", Name: "Windows 11 Pro", Category: "software", Price: 199.99, Stock: 10},
		},
		Orders: []console.Order{
			{ID: "o1", CustomerName: "John Doe", Status: "pending", Total: 199.99},
		},
		Users: []console.User{
			{ID: "u1", Name: "Jane Smith", Email: "jane@example.com", Status: "active"},
		},
	})
}

func TestMockLoginIssuesVerifiableToken(t *testing.T) {
	client := newMock()
	session, err := client.Login(context.Background(), console.Credentials{
		Email:    "admin@store.test",
		Password: "admin",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected issued token")
	}
	if !session.Authorized() {
		t.Fatalf("expected admin session")
	}

	identity, err := client.Verify(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if identity.Email != "admin@store.test" {
		t.Fatalf("verify returned %q", identity.Email)
	}
}

func TestMockLoginRejectsBadCredentials(t *testing.T) {
	client := newMock()
	ctx := context.Background()

	if _, err := client.Login(ctx, console.Credentials{Email: "admin@store.test", Password: "nope"}); !errors.Is(err, console.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for wrong password, got %v", err)
	}
	if _, err := client.Login(ctx, console.Credentials{Email: "ghost@store.test", Password: "admin"}); !errors.Is(err, console.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown account, got %v", err)
	}
}

func TestMockVerifyRejectsUnknownToken(t *testing.T) {
	client := newMock()
	_, err := client.Verify(context.Background(), "stale-token")
	if !console.IsSessionInvalid(err) {
		t.Fatalf("expected session-invalid error, got %v", err)
	}
}

func TestMockExchangeAssertionMatchesSeededAdmin(t *testing.T) {
	client := newMock()
	session, err := client.ExchangeAssertion(context.Background(), console.ProviderAssertion{
		Email: "admin@store.test",
	})
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if session.Identity.ID != "adm-1" {
		t.Fatalf("unexpected identity %+v", session.Identity)
	}
}

func TestMockProductLifecycle(t *testing.T) {
	client := newMock()
	ctx := context.Background()

	created, err := client.CreateProduct(ctx, map[string]any{
		"name":     "Antivirus Pro 2024",
		"category": "security",
		"price":    89.99,
		"stock":    5,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if created.Price != 89.99 || created.Stock != 5 {
		t.Fatalf("payload not applied: %+v", created)
	}

	updated, err := client.UpdateProduct(ctx, created.ID, map[string]any{
		"name":  "Antivirus Pro 2024",
		"price": 79.99,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Price != 79.99 {
		t.Fatalf("update not applied: %+v", updated)
	}

	products, err := client.Products(ctx)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected two products, got %d", len(products))
	}

	if err := client.DeleteProduct(ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	products, _ = client.Products(ctx)
	if len(products) != 1 || products[0].ID != "p1" {
		t.Fatalf("delete not visible: %+v", products)
	}
}

func TestMockMutationsReportMissingRecords(t *testing.T) {
	client := newMock()
	ctx := context.Background()

	var serverErr *console.ServerError
	if _, err := client.UpdateProduct(ctx, "missing", nil); !errors.As(err, &serverErr) || serverErr.Status != 404 {
		t.Fatalf("expected 404 server error, got %v", err)
	}
	if err := client.DeleteProduct(ctx, "missing"); !errors.As(err, &serverErr) || serverErr.Status != 404 {
		t.Fatalf("expected 404 server error, got %v", err)
	}
	if err := client.UpdateOrderStatus(ctx, "missing", "completed"); !errors.As(err, &serverErr) || serverErr.Status != 404 {
		t.Fatalf("expected 404 server error, got %v", err)
	}
	if err := client.UpdateUserStatus(ctx, "missing", "inactive"); !errors.As(err, &serverErr) || serverErr.Status != 404 {
		t.Fatalf("expected 404 server error, got %v", err)
	}
}

func TestMockStatusMutationsVisibleToFetch(t *testing.T) {
	client := newMock()
	ctx := context.Background()

	if err := client.UpdateOrderStatus(ctx, "o1", "completed"); err != nil {
		t.Fatalf("order status failed: %v", err)
	}
	orders, _ := client.Orders(ctx)
	if orders[0].Status != "completed" {
		t.Fatalf("order mutation not visible: %+v", orders[0])
	}

	if err := client.UpdateUserStatus(ctx, "u1", "inactive"); err != nil {
		t.Fatalf("user status failed: %v", err)
	}
	users, _ := client.Users(ctx)
	if users[0].Status != "inactive" {
		t.Fatalf("user mutation not visible: %+v", users[0])
	}
}

func TestMockFetchReturnsCopies(t *testing.T) {
	client := newMock()
	ctx := context.Background()

	products, _ := client.Products(ctx)
	products[0].Name = "mutated"

	fresh, _ := client.Products(ctx)
	if fresh[0].Name != "Windows 11 Pro" {
		t.Fatalf("caller mutation leaked into fixtures: %+v", fresh[0])
	}
}
