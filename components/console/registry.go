package console

import (
	"fmt"
	"sync"
)

// ResourceHook lets packages register resources during init().
type ResourceHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []ResourceHook
)

// RegisterResourceHook registers a hook executed against new registries.
func RegisterResourceHook(h ResourceHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry stores the resource definitions the console exposes.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]ResourceDefinition
}

// NewRegistry builds a registry seeded with the shipped resource set and
// applies global hooks.
func NewRegistry() *Registry {
	reg := &Registry{definitions: map[string]ResourceDefinition{}}
	for _, def := range DefaultResourceDefinitions() {
		_ = reg.Register(def)
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered resource hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// Register stores a resource definition, replacing any previous entry with
// the same code.
func (r *Registry) Register(def ResourceDefinition) error {
	if def.Code == "" {
		return fmt.Errorf("resource definition code is required")
	}
	if def.Fallback == "" {
		def.Fallback = FallbackError
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Code] = def
	return nil
}

// LoadManifestFile reads a manifest from disk and registers its resources.
func (r *Registry) LoadManifestFile(path string) (*ResourceManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers definitions from a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *ResourceManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("console: manifest document is nil")
	}
	for _, res := range doc.Resources {
		if err := r.Register(res); err != nil {
			return fmt.Errorf("console: register resource %s from %s: %w", res.Code, doc.Source, err)
		}
	}
	return nil
}

// Definition fetches a resource definition by code.
func (r *Registry) Definition(code string) (ResourceDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[code]
	return def, ok
}

// Definitions returns all registered definitions.
func (r *Registry) Definitions() []ResourceDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]ResourceDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	return defs
}
