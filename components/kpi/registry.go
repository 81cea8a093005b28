package kpi

import (
	"fmt"
	"sort"
	"sync"
)

// CatalogHook lets packages register report catalogs during init().
type CatalogHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []CatalogHook
)

// RegisterCatalogHook registers a hook executed against new registries.
func RegisterCatalogHook(h CatalogHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// CatalogRegistry resolves report catalogs by report key.
type CatalogRegistry interface {
	Register(catalog Catalog) error
	Catalog(reportKey string) (Catalog, bool)
	Catalogs() []Catalog
}

// Registry implements CatalogRegistry with hook + manifest support.
type Registry struct {
	mu       sync.RWMutex
	catalogs map[string]Catalog
}

// NewRegistry is LoadRegistry for callers that cannot handle the error. It
// panics when a default catalog or a catalog hook fails to register.
func NewRegistry() *Registry {
	reg, err := LoadRegistry()
	if err != nil {
		panic(err)
	}
	return reg
}

// LoadRegistry builds a registry seeded with the default report catalogs and
// applies global hooks.
func LoadRegistry() (*Registry, error) {
	reg := NewEmptyRegistry()
	if err := reg.RegisterAll(DefaultCatalogs()); err != nil {
		return nil, err
	}
	if err := reg.ApplyHooks(); err != nil {
		return nil, fmt.Errorf("kpi: apply catalog hooks: %w", err)
	}
	return reg, nil
}

// NewEmptyRegistry builds a registry without defaults or hooks.
func NewEmptyRegistry() *Registry {
	return &Registry{catalogs: map[string]Catalog{}}
}

// ApplyHooks executes registered catalog hooks.
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

// Register stores a catalog, replacing any catalog with the same key.
func (r *Registry) Register(catalog Catalog) error {
	if catalog.ReportKey == "" {
		return fmt.Errorf("kpi: catalog report key is required")
	}
	if err := catalog.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalogs[catalog.ReportKey] = catalog
	return nil
}

// RegisterAll registers catalogs in order and stops at the first invalid one.
func (r *Registry) RegisterAll(catalogs []Catalog) error {
	for _, catalog := range catalogs {
		if err := r.Register(catalog); err != nil {
			return fmt.Errorf("kpi: register catalog %q: %w", catalog.ReportKey, err)
		}
	}
	return nil
}

// LoadManifestFile reads a manifest from disk and registers its reports.
func (r *Registry) LoadManifestFile(path string) (*CatalogManifest, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifest(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifest registers every report of a decoded manifest.
func (r *Registry) LoadManifest(doc *CatalogManifest) error {
	if doc == nil {
		return fmt.Errorf("kpi: manifest document is nil")
	}
	for _, report := range doc.Reports {
		if err := r.Register(report); err != nil {
			return fmt.Errorf("kpi: register report %s from %s: %w", report.ReportKey, doc.Source, err)
		}
	}
	return nil
}

// Catalog fetches a catalog by report key.
func (r *Registry) Catalog(reportKey string) (Catalog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	catalog, ok := r.catalogs[reportKey]
	return catalog, ok
}

// Catalogs returns every registered catalog sorted by report key.
func (r *Registry) Catalogs() []Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Catalog, 0, len(r.catalogs))
	for _, catalog := range r.catalogs {
		out = append(out, catalog)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReportKey < out[j].ReportKey })
	return out
}
