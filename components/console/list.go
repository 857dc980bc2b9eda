package console

import (
	"context"
	"errors"
	"sync"
)

// FallbackPolicy decides what a list controller does when its fetch fails.
type FallbackPolicy string

const (
	// FallbackError surfaces the fetch error and keeps the current items.
	// Required for any view that can mutate data.
	FallbackError FallbackPolicy = "error"
	// FallbackSample swaps in the configured sample dataset. Permitted only
	// for non-authoritative demo views.
	FallbackSample FallbackPolicy = "sample"
)

// ListConfig configures a ListController for one resource endpoint.
type ListConfig[T any] struct {
	// Resource is the code the controller reports in events and telemetry.
	Resource string
	// Fetch loads the full dataset from the bound endpoint.
	Fetch func(ctx context.Context) ([]T, error)
	// Search matches an item against a free-text term.
	Search SearchFunc[T]
	// Facet extracts the enumerated filter field.
	Facet FacetFunc[T]
	// PageSize is the fixed page size; defaults to 10.
	PageSize int
	// Fallback declares the fetch-failure policy; defaults to FallbackError.
	Fallback FallbackPolicy
	// Sample is the placeholder dataset used under FallbackSample.
	Sample    []T
	Broadcast *Broadcast
	Telemetry Telemetry
}

// PageView is the render-ready slice of the filtered dataset.
type PageView[T any] struct {
	Items         []T
	Page          int
	TotalPages    int
	FilteredCount int
	TotalCount    int
	FromSample    bool
}

// ListController is the generic fetch + client-side filter + client-side
// pagination engine shared by the Products, Orders, and Users screens.
type ListController[T any] struct {
	cfg ListConfig[T]

	mu         sync.Mutex
	items      []T
	query      ListQuery
	attempt    uint64
	fromSample bool
	lastErr    error
}

// NewListController validates the config and builds a controller.
func NewListController[T any](cfg ListConfig[T]) (*ListController[T], error) {
	if cfg.Fetch == nil {
		return nil, errMissingFetch
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.Fallback == "" {
		cfg.Fallback = FallbackError
	}
	if cfg.Fallback == FallbackSample && len(cfg.Sample) == 0 {
		return nil, errors.New("console: sample fallback requires a sample dataset")
	}
	cfg.Telemetry = normalizeTelemetry(cfg.Telemetry)
	return &ListController[T]{
		cfg:   cfg,
		query: ListQuery{Facet: FacetAll, Page: 1},
	}, nil
}

// Refresh fetches the dataset from the backend. A refresh that is overtaken
// by a newer one discards its response instead of clobbering fresher data,
// and a canceled context discards the response outright.
func (l *ListController[T]) Refresh(ctx context.Context) error {
	l.mu.Lock()
	l.attempt++
	attempt := l.attempt
	l.mu.Unlock()

	items, err := l.cfg.Fetch(ctx)

	l.mu.Lock()
	if attempt != l.attempt {
		l.mu.Unlock()
		l.cfg.Telemetry.Record(ctx, "console.list.stale_discarded", map[string]any{"resource": l.cfg.Resource})
		return nil
	}
	if ctx.Err() != nil {
		l.mu.Unlock()
		return ctx.Err()
	}
	if err != nil {
		if l.cfg.Fallback == FallbackSample {
			l.items = append([]T(nil), l.cfg.Sample...)
			l.fromSample = true
			l.lastErr = nil
			l.clampLocked()
			l.mu.Unlock()
			l.cfg.Telemetry.Record(ctx, "console.list.sample_fallback", map[string]any{
				"resource": l.cfg.Resource,
				"error":    err.Error(),
			})
			l.publishRefresh()
			return nil
		}
		l.lastErr = err
		l.mu.Unlock()
		l.cfg.Telemetry.Record(ctx, "console.list.fetch_failed", map[string]any{
			"resource": l.cfg.Resource,
			"error":    err.Error(),
		})
		return err
	}
	l.items = items
	l.fromSample = false
	l.lastErr = nil
	l.clampLocked()
	l.mu.Unlock()
	l.publishRefresh()
	return nil
}

// SetSearch replaces the free-text term and rewinds to the first page.
func (l *ListController[T]) SetSearch(term string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query.Search = term
	l.query.Page = 1
}

// SetFacet replaces the category/status filter and rewinds to the first
// page. FacetAll disables facet filtering.
func (l *ListController[T]) SetFacet(value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if value == "" {
		value = FacetAll
	}
	l.query.Facet = value
	l.query.Page = 1
}

// SetPage moves to the requested page, clamped to the filtered range.
func (l *ListController[T]) SetPage(page int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	filtered := ApplyFilter(l.items, l.query, l.cfg.Search, l.cfg.Facet)
	_, total := Paginate(filtered, 1, l.cfg.PageSize)
	l.query.Page = ClampPage(page, total)
}

// Query returns the current filter/pagination inputs.
func (l *ListController[T]) Query() ListQuery {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

// Err returns the most recent surfaced fetch error, nil after a successful
// refresh.
func (l *ListController[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// Page filters and paginates the current dataset into a render-ready view.
func (l *ListController[T]) Page() PageView[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	filtered := ApplyFilter(l.items, l.query, l.cfg.Search, l.cfg.Facet)
	pageItems, totalPages := Paginate(filtered, l.query.Page, l.cfg.PageSize)
	return PageView[T]{
		Items:         pageItems,
		Page:          ClampPage(l.query.Page, totalPages),
		TotalPages:    totalPages,
		FilteredCount: len(filtered),
		TotalCount:    len(l.items),
		FromSample:    l.fromSample,
	}
}

// Mutate runs a backend mutation and, on success, refetches the dataset so
// backend-computed fields stay authoritative instead of patching the list
// locally. On failure the current list is left untouched and the error is
// returned; it is never swallowed.
func (l *ListController[T]) Mutate(ctx context.Context, verb string, op func(ctx context.Context) error) error {
	if err := op(ctx); err != nil {
		l.cfg.Telemetry.Record(ctx, "console.list.mutation_failed", map[string]any{
			"resource": l.cfg.Resource,
			"verb":     verb,
			"error":    err.Error(),
		})
		return err
	}
	if l.cfg.Broadcast != nil {
		l.cfg.Broadcast.Publish(Event{
			Kind:     EventMutation,
			Resource: l.cfg.Resource,
			Payload:  map[string]any{"verb": verb},
		})
	}
	l.cfg.Telemetry.Record(ctx, "console.list.mutation", map[string]any{
		"resource": l.cfg.Resource,
		"verb":     verb,
	})
	return l.Refresh(ctx)
}

// clampLocked re-clamps the page after the dataset changed under the
// current filter; the caller holds l.mu.
func (l *ListController[T]) clampLocked() {
	filtered := ApplyFilter(l.items, l.query, l.cfg.Search, l.cfg.Facet)
	_, total := Paginate(filtered, 1, l.cfg.PageSize)
	l.query.Page = ClampPage(l.query.Page, total)
}

func (l *ListController[T]) publishRefresh() {
	if l.cfg.Broadcast == nil {
		return
	}
	l.mu.Lock()
	count := len(l.items)
	sample := l.fromSample
	l.mu.Unlock()
	l.cfg.Broadcast.Publish(Event{
		Kind:     EventListRefresh,
		Resource: l.cfg.Resource,
		Payload:  map[string]any{"count": count, "sample": sample},
	})
}
