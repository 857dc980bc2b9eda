package console

import (
	"context"
	"errors"
	"testing"
)

type fakeStoreClient struct {
	fakeAuthClient
	products []Product
	orders   []Order
	users    []User

	productFetches int
	orderFetches   int
	userFetches    int

	productsErr error
	ordersErr   error

	created []map[string]any
	updated map[string]map[string]any
	deleted []string

	orderStatuses map[string]string
	userStatuses  map[string]string

	mutationErr error
}

func newFakeStoreClient() *fakeStoreClient {
	return &fakeStoreClient{
		products:      []Product{{ID: "p1", Name: "Antivirus Pro 2024", Category: "security", Price: 89.99}},
		orders:        SampleOrders(),
		users:         []User{{ID: "u1", Name: "John Doe", Status: "active"}},
		updated:       map[string]map[string]any{},
		orderStatuses: map[string]string{},
		userStatuses:  map[string]string{},
	}
}

func (c *fakeStoreClient) Products(context.Context) ([]Product, error) {
	c.productFetches++
	if c.productsErr != nil {
		return nil, c.productsErr
	}
	return c.products, nil
}

func (c *fakeStoreClient) CreateProduct(_ context.Context, payload map[string]any) (Product, error) {
	if c.mutationErr != nil {
		return Product{}, c.mutationErr
	}
	c.created = append(c.created, payload)
	return Product{ID: "new", Name: payload["name"].(string)}, nil
}

func (c *fakeStoreClient) UpdateProduct(_ context.Context, id string, payload map[string]any) (Product, error) {
	if c.mutationErr != nil {
		return Product{}, c.mutationErr
	}
	c.updated[id] = payload
	return Product{ID: id}, nil
}

func (c *fakeStoreClient) DeleteProduct(_ context.Context, id string) error {
	if c.mutationErr != nil {
		return c.mutationErr
	}
	c.deleted = append(c.deleted, id)
	return nil
}

func (c *fakeStoreClient) Orders(context.Context) ([]Order, error) {
	c.orderFetches++
	if c.ordersErr != nil {
		return nil, c.ordersErr
	}
	return c.orders, nil
}

func (c *fakeStoreClient) UpdateOrderStatus(_ context.Context, id, status string) error {
	if c.mutationErr != nil {
		return c.mutationErr
	}
	c.orderStatuses[id] = status
	return nil
}

func (c *fakeStoreClient) Users(context.Context) ([]User, error) {
	c.userFetches++
	return c.users, nil
}

func (c *fakeStoreClient) UpdateUserStatus(_ context.Context, id, status string) error {
	if c.mutationErr != nil {
		return c.mutationErr
	}
	c.userStatuses[id] = status
	return nil
}

func newTestService(t *testing.T, client StoreClient) *Service {
	t.Helper()
	svc, err := NewService(Options{Client: client})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestNewServiceRequiresClient(t *testing.T) {
	if _, err := NewService(Options{}); err == nil {
		t.Fatal("expected error for missing client")
	}
}

func TestServiceControllersUseRegistryPolicies(t *testing.T) {
	// The orders endpoint is configured with the sample fallback; killing
	// the fetch must swap in placeholder data instead of erroring.
	failing := newFakeStoreClient()
	failing.ordersErr = errors.New("backend down")
	svc := newTestService(t, failing)
	if err := svc.Orders().Refresh(context.Background()); err != nil {
		t.Fatalf("orders refresh should fall back to sample data, got %v", err)
	}
	if view := svc.Orders().Page(); !view.FromSample {
		t.Fatal("expected sample fallback for orders")
	}

	// Products surface fetch errors.
	failing.productsErr = errors.New("backend down")
	if err := svc.Products().Refresh(context.Background()); err == nil {
		t.Fatal("products refresh must surface the fetch error")
	}
}

func TestCreateProductValidatesPayload(t *testing.T) {
	client := newFakeStoreClient()
	svc := newTestService(t, client)

	err := svc.CreateProduct(context.Background(), map[string]any{"price": 10})
	if err == nil {
		t.Fatal("expected schema rejection for payload without name")
	}
	if len(client.created) != 0 {
		t.Fatal("invalid payload must never reach the backend")
	}
}

func TestCreateProductRefetchesCatalog(t *testing.T) {
	client := newFakeStoreClient()
	svc := newTestService(t, client)

	err := svc.CreateProduct(context.Background(), map[string]any{"name": "Backup Tool", "price": 49.0})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if len(client.created) != 1 {
		t.Fatalf("created %d products, want 1", len(client.created))
	}
	if client.productFetches != 1 {
		t.Fatalf("product fetches = %d, want 1 (post-mutation resync)", client.productFetches)
	}
}

func TestUpdateProductRequiresID(t *testing.T) {
	svc := newTestService(t, newFakeStoreClient())
	if err := svc.UpdateProduct(context.Background(), "", map[string]any{"name": "x", "price": 1}); err == nil {
		t.Fatal("expected error for empty product id")
	}
}

func TestMutationFailureDoesNotResync(t *testing.T) {
	client := newFakeStoreClient()
	client.mutationErr = errors.New("update rejected")
	svc := newTestService(t, client)

	err := svc.SetOrderStatus(context.Background(), "ord-1001", "completed")
	if !errors.Is(err, client.mutationErr) {
		t.Fatalf("expected mutation error, got %v", err)
	}
	if client.orderFetches != 0 {
		t.Fatal("failed mutation must not refetch")
	}
}

func TestSetUserStatusEnforcesEnum(t *testing.T) {
	client := newFakeStoreClient()
	svc := newTestService(t, client)

	if err := svc.SetUserStatus(context.Background(), "u1", "banned"); err == nil {
		t.Fatal("expected enum rejection")
	}
	if err := svc.SetUserStatus(context.Background(), "u1", "inactive"); err != nil {
		t.Fatalf("SetUserStatus: %v", err)
	}
	if client.userStatuses["u1"] != "inactive" {
		t.Fatalf("status = %q", client.userStatuses["u1"])
	}
}

func TestServiceStats(t *testing.T) {
	svc := newTestService(t, newFakeStoreClient())
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalProducts != 1 || stats.TotalOrders != 3 || stats.TotalUsers != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	wantRevenue := 299.99 + 149.00 + 89.99
	if stats.TotalRevenue != wantRevenue {
		t.Fatalf("revenue = %v, want %v", stats.TotalRevenue, wantRevenue)
	}
}

func TestServiceStatsSurfacesFetchError(t *testing.T) {
	client := newFakeStoreClient()
	client.ordersErr = errors.New("backend down")
	svc := newTestService(t, client)

	if _, err := svc.Stats(context.Background()); err == nil {
		t.Fatal("stats must surface fetch errors")
	}
}
