package console

// Stats is the dashboard tile projection. It is recomputed from the fetched
// datasets on every request and never cached across sessions; the backend
// remains the only authority on the underlying records.
type Stats struct {
	TotalProducts int     `json:"totalProducts"`
	TotalOrders   int     `json:"totalOrders"`
	TotalUsers    int     `json:"totalUsers"`
	TotalRevenue  float64 `json:"totalRevenue"`
	OrdersByDay   map[string]float64
	OrdersByState map[string]int
}

// ProjectStats aggregates the tile numbers from the fetched resources.
// Revenue is the sum over order totals.
func ProjectStats(products []Product, orders []Order, users []User) Stats {
	stats := Stats{
		TotalProducts: len(products),
		TotalOrders:   len(orders),
		TotalUsers:    len(users),
		OrdersByDay:   map[string]float64{},
		OrdersByState: map[string]int{},
	}
	for _, order := range orders {
		stats.TotalRevenue += order.Total
		stats.OrdersByState[order.Status]++
		if !order.CreatedAt.IsZero() {
			day := order.CreatedAt.UTC().Format("2006-01-02")
			stats.OrdersByDay[day] += order.Total
		}
	}
	return stats
}
