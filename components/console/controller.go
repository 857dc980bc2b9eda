package console

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ControllerOptions wires the service and renderer into a controller.
type ControllerOptions struct {
	Service  *Service
	Renderer Renderer
	Title    string
}

// Controller adapts the console service for HTTP transports: JSON payloads
// for the REST surface and a rendered HTML page for the dashboard view.
type Controller struct {
	service  *Service
	renderer Renderer
	title    string
}

// NewController builds a controller; the renderer is optional and only
// required for HTML rendering.
func NewController(opts ControllerOptions) *Controller {
	title := opts.Title
	if title == "" {
		title = "Admin Console"
	}
	return &Controller{service: opts.Service, renderer: opts.Renderer, title: title}
}

// StatePayload returns the auth state in wire shape.
func (c *Controller) StatePayload() map[string]any {
	state := c.service.Auth().State()
	payload := map[string]any{"status": string(state.Status)}
	if state.Identity != nil {
		payload["user"] = state.Identity
	}
	if state.Err != nil {
		payload["error"] = state.Err.Error()
	}
	return payload
}

// ListPayload refreshes a resource listing when asked and returns the
// current page view in wire shape.
func (c *Controller) ListPayload(ctx context.Context, resource string, query ListQuery, refresh bool) (map[string]any, error) {
	switch resource {
	case ResourceProducts:
		return listPayload(ctx, c.service.Products(), query, refresh)
	case ResourceOrders:
		return listPayload(ctx, c.service.Orders(), query, refresh)
	case ResourceUsers:
		return listPayload(ctx, c.service.Users(), query, refresh)
	default:
		return nil, fmt.Errorf("console: unknown resource %q", resource)
	}
}

func listPayload[T any](ctx context.Context, list *ListController[T], query ListQuery, refresh bool) (map[string]any, error) {
	if refresh {
		if err := list.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	// Each request's query is authoritative: a bare request clears any
	// search or facet left behind by an earlier one.
	list.SetSearch(query.Search)
	list.SetFacet(query.Facet)
	if query.Page > 0 {
		list.SetPage(query.Page)
	}
	view := list.Page()
	return map[string]any{
		"items":       view.Items,
		"page":        view.Page,
		"total_pages": view.TotalPages,
		"filtered":    view.FilteredCount,
		"total":       view.TotalCount,
		"sample":      view.FromSample,
	}, nil
}

// RenderTemplate renders the dashboard page with the stats projection and
// charts into out.
func (c *Controller) RenderTemplate(ctx context.Context, out io.Writer) error {
	if c.renderer == nil {
		return errors.New("console: renderer is required for HTML rendering")
	}
	stats, err := c.service.Stats(ctx)
	if err != nil {
		return err
	}
	revenueChart, statusChart, err := c.service.StatsCharts(stats)
	if err != nil {
		return err
	}
	email := ""
	if identity := c.service.Auth().State().Identity; identity != nil {
		email = identity.Email
	}
	_, err = c.renderer.Render("console", map[string]any{
		"title":         c.title,
		"viewer_email":  email,
		"stats":         stats,
		"revenue":       fmt.Sprintf("%.2f", stats.TotalRevenue),
		"revenue_chart": revenueChart,
		"status_chart":  statusChart,
	}, out)
	return err
}
