package console

import "strings"

// FacetAll is the sentinel facet value meaning "no facet filtering".
const FacetAll = "All"

// ListQuery captures the view-controlled filter and pagination inputs for a
// resource listing.
type ListQuery struct {
	Search string
	Facet  string
	Page   int
}

// SearchFunc reports whether an item matches a free-text term. The term is
// pre-lowercased by the controller; implementations match case-insensitively
// through MatchAnyField.
type SearchFunc[T any] func(item T, term string) bool

// FacetFunc extracts the single enumerated field a resource filters on
// (category for products, status for orders and users).
type FacetFunc[T any] func(item T) string

// MatchAnyField reports whether term is a case-insensitive substring of any
// of the provided fields.
func MatchAnyField(term string, fields ...string) bool {
	term = strings.ToLower(term)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// ApplyFilter narrows items with the search predicate first and the facet
// predicate second. It preserves the original relative order, never sorts,
// and is idempotent: filtering a filtered set with the same query returns
// an equal set.
func ApplyFilter[T any](items []T, query ListQuery, search SearchFunc[T], facet FacetFunc[T]) []T {
	filtered := items
	if term := strings.TrimSpace(query.Search); term != "" && search != nil {
		next := make([]T, 0, len(filtered))
		for _, item := range filtered {
			if search(item, term) {
				next = append(next, item)
			}
		}
		filtered = next
	}
	if query.Facet != "" && query.Facet != FacetAll && facet != nil {
		next := make([]T, 0, len(filtered))
		for _, item := range filtered {
			if facet(item) == query.Facet {
				next = append(next, item)
			}
		}
		filtered = next
	}
	return filtered
}

// Paginate slices items into the 1-based page of the given size.
// totalPages is max(1, ceil(len(items)/pageSize)); an empty input yields an
// empty page and a single total page. The requested page is clamped into
// the valid range before slicing.
func Paginate[T any](items []T, page, pageSize int) (pageItems []T, totalPages int) {
	if pageSize <= 0 {
		pageSize = 1
	}
	totalPages = (len(items) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page = ClampPage(page, totalPages)
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}, totalPages
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], totalPages
}

// ClampPage forces a 1-based page number into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
