package console

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ResourceManifestDocument models a YAML/JSON manifest declaring the
// resources the console manages and the policy each one runs under.
type ResourceManifestDocument struct {
	Version   string               `json:"version" yaml:"version"`
	Name      string               `json:"name,omitempty" yaml:"name,omitempty"`
	Resources []ResourceDefinition `json:"resources" yaml:"resources"`
	Source    string               `json:"-" yaml:"-"`
}

// ResourceDefinition describes a single console resource: where it lives on
// the backend, how it is searched and faceted, and what happens when its
// fetch fails.
type ResourceDefinition struct {
	Code         string         `json:"code" yaml:"code"`
	Title        string         `json:"title" yaml:"title"`
	Endpoint     string         `json:"endpoint" yaml:"endpoint"`
	SearchFields []string       `json:"search_fields,omitempty" yaml:"search_fields,omitempty"`
	FacetField   string         `json:"facet_field,omitempty" yaml:"facet_field,omitempty"`
	FacetOptions []string       `json:"facet_options,omitempty" yaml:"facet_options,omitempty"`
	PageSize     int            `json:"page_size,omitempty" yaml:"page_size,omitempty"`
	Fallback     FallbackPolicy `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	Schema       map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*ResourceManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("console: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("console: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*ResourceManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ResourceManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("console: manifest is empty")
		}
		return nil, fmt.Errorf("console: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// WriteManifest encodes the document as YAML to the provided writer.
func WriteManifest(w io.Writer, doc *ResourceManifestDocument) error {
	out := *doc
	out.Source = ""
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("console: write manifest: %w", err)
	}
	return nil
}

// Validate ensures the manifest satisfies required fields and invariants.
func (doc *ResourceManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("console: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Resources))
	for idx, res := range doc.Resources {
		if res.Code == "" {
			return fmt.Errorf("console: manifest resource at index %d is missing code", idx)
		}
		if res.Endpoint == "" {
			return fmt.Errorf("console: manifest resource %s missing endpoint", res.Code)
		}
		if _, exists := seen[res.Code]; exists {
			return fmt.Errorf("console: manifest duplicates resource code %s", res.Code)
		}
		seen[res.Code] = struct{}{}
		switch res.Fallback {
		case FallbackError, FallbackSample:
		default:
			return fmt.Errorf("console: resource %s has unknown fallback policy %q", res.Code, res.Fallback)
		}
		if res.PageSize < 1 {
			return fmt.Errorf("console: resource %s has non-positive page size", res.Code)
		}
	}
	return nil
}

func (doc *ResourceManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	for i := range doc.Resources {
		if doc.Resources[i].Fallback == "" {
			doc.Resources[i].Fallback = FallbackError
		}
		if doc.Resources[i].PageSize == 0 {
			doc.Resources[i].PageSize = 10
		}
	}
}

// DefaultResourceDefinitions returns the shipped resource set mirroring the
// store backend contract. Orders tolerate a sample fallback because the
// listing is a read-only demo view; products and users mutate data and must
// surface fetch errors instead.
func DefaultResourceDefinitions() []ResourceDefinition {
	return []ResourceDefinition{
		{
			Code:         ResourceProducts,
			Title:        "Products",
			Endpoint:     "/products",
			SearchFields: []string{"name", "description"},
			FacetField:   "category",
			PageSize:     10,
			Fallback:     FallbackError,
			Schema: map[string]any{
				"type":     "object",
				"required": []any{"name", "price"},
				"properties": map[string]any{
					"name":        map[string]any{"type": "string", "minLength": 1},
					"description": map[string]any{"type": "string"},
					"category":    map[string]any{"type": "string"},
					"price":       map[string]any{"type": "number", "minimum": 0},
					"stock":       map[string]any{"type": "integer", "minimum": 0},
				},
			},
		},
		{
			Code:         ResourceOrders,
			Title:        "Orders",
			Endpoint:     "/orders",
			SearchFields: []string{"customerName", "customerEmail", "id"},
			FacetField:   "status",
			FacetOptions: []string{"pending", "processing", "completed", "cancelled"},
			PageSize:     10,
			Fallback:     FallbackSample,
		},
		{
			Code:         ResourceUsers,
			Title:        "Users",
			Endpoint:     "/users/admin/all",
			SearchFields: []string{"name", "email"},
			FacetField:   "status",
			FacetOptions: []string{"active", "inactive"},
			PageSize:     10,
			Fallback:     FallbackError,
			Schema: map[string]any{
				"type":     "object",
				"required": []any{"status"},
				"properties": map[string]any{
					"status": map[string]any{"type": "string", "enum": []any{"active", "inactive"}},
				},
			},
		},
	}
}
