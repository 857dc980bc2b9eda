package console

import "time"

// Resource codes shared between the registry, manifest, and HTTP surface.
const (
	ResourceProducts = "products"
	ResourceOrders   = "orders"
	ResourceUsers    = "users"
)

// ProductSearch matches products on name or description.
func ProductSearch(p Product, term string) bool {
	return MatchAnyField(term, p.Name, p.Description)
}

// ProductFacet filters products by category.
func ProductFacet(p Product) string { return p.Category }

// OrderSearch matches orders on customer name, customer email, or order id.
func OrderSearch(o Order, term string) bool {
	return MatchAnyField(term, o.CustomerName, o.CustomerEmail, o.ID)
}

// OrderFacet filters orders by status.
func OrderFacet(o Order) string { return o.Status }

// UserSearch matches users on name or email.
func UserSearch(u User, term string) bool {
	return MatchAnyField(term, u.Name, u.Email)
}

// UserFacet filters users by account status.
func UserFacet(u User) string { return u.Status }

// SampleOrders is the placeholder dataset used when the orders endpoint is
// unavailable and the resource is configured with FallbackSample.
func SampleOrders() []Order {
	return []Order{
		{
			ID:            "ord-1001",
			CustomerName:  "John Doe",
			CustomerEmail: "john@example.com",
			Total:         299.99,
			Status:        "completed",
			CreatedAt:     time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			Items: []OrderItem{
				{ID: "p-1", Name: "Windows 11 Pro", Price: 199.99, Quantity: 1},
				{ID: "p-3", Name: "Antivirus Pro 2024", Price: 89.99, Quantity: 1},
			},
		},
		{
			ID:            "ord-1002",
			CustomerName:  "Jane Smith",
			CustomerEmail: "jane@example.com",
			Total:         149.00,
			Status:        "pending",
			CreatedAt:     time.Date(2024, 1, 14, 15, 45, 0, 0, time.UTC),
			Items: []OrderItem{
				{ID: "p-2", Name: "Microsoft Office 365", Price: 149.00, Quantity: 1},
			},
		},
		{
			ID:            "ord-1003",
			CustomerName:  "Bob Johnson",
			CustomerEmail: "bob@example.com",
			Total:         89.99,
			Status:        "processing",
			CreatedAt:     time.Date(2024, 1, 13, 9, 15, 0, 0, time.UTC),
			Items: []OrderItem{
				{ID: "p-3", Name: "Antivirus Pro 2024", Price: 89.99, Quantity: 1},
			},
		},
	}
}
