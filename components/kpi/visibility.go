package kpi

import (
	"sync"

	"go.uber.org/zap"
)

// VisibilityStore owns the selected tile ids of one report. The selected
// sequence doubles as display order among visible tiles.
type VisibilityStore struct {
	mu       sync.Mutex
	store    *SafeStore
	key      string
	catalog  []string
	selected []string
	logger   *zap.Logger
}

// NewVisibilityStore loads and reconciles the stored visible set for reportKey.
func NewVisibilityStore(store KeyValueStore, reportKey string, catalog []string, opts ...Option) *VisibilityStore {
	o := buildOptions(opts)
	v := &VisibilityStore{
		store:   NewSafeStore(store, o.logger),
		key:     o.namespaces.VisibilityKey(reportKey),
		catalog: uniqueIDs(catalog),
		logger:  o.logger,
	}
	stored, ok := v.store.LoadIDs(v.key)
	v.selected = ReconcileVisibility(v.catalog, stored, ok)
	return v
}

func newVisibilityStoreWith(store *SafeStore, key string, catalog, selected []string, logger *zap.Logger) *VisibilityStore {
	return &VisibilityStore{
		store:    store,
		key:      key,
		catalog:  uniqueIDs(catalog),
		selected: selected,
		logger:   logger,
	}
}

// Key returns the storage key backing this store.
func (v *VisibilityStore) Key() string {
	return v.key
}

// Selected returns a copy of the visible ids in display order.
func (v *VisibilityStore) Selected() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return cloneIDs(v.selected)
}

// IsSelected reports whether id is visible.
func (v *VisibilityStore) IsSelected(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return containsID(v.selected, id)
}

// Set replaces the visible sequence. Unknown and duplicate ids are dropped.
func (v *VisibilityStore) Set(ids []string) []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.replaceLocked(filterKnown(v.catalog, ids))
}

// Toggle hides a visible id or appends a hidden one at the end. It reports
// whether the id is visible afterwards; unknown ids are ignored.
func (v *VisibilityStore) Toggle(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !containsID(v.catalog, id) {
		return false
	}
	if containsID(v.selected, id) {
		v.replaceLocked(removeID(v.selected, id))
		return false
	}
	v.replaceLocked(append(cloneIDs(v.selected), id))
	return true
}

// SelectAll shows every catalog tile in catalog order.
func (v *VisibilityStore) SelectAll() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.replaceLocked(cloneIDs(v.catalog))
}

// SelectNone hides every tile.
func (v *VisibilityStore) SelectNone() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.replaceLocked([]string{})
}

// Reload replaces the in-memory copy with the reconciled stored value.
func (v *VisibilityStore) Reload() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	stored, ok := v.store.LoadIDs(v.key)
	v.selected = ReconcileVisibility(v.catalog, stored, ok)
	return cloneIDs(v.selected)
}

func (v *VisibilityStore) replaceLocked(ids []string) []string {
	v.selected = ids
	v.store.SaveIDs(v.key, v.selected)
	return cloneIDs(v.selected)
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

func indexOf(ids []string, id string) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return -1
}

func (v *VisibilityStore) assign(ids []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected = cloneIDs(ids)
}
