package kpi

import (
	"sync"

	"go.uber.org/zap"
)

// OrderStore owns the display order of a report's tiles, independent of
// visibility. The order is always a permutation of the catalog.
type OrderStore struct {
	mu      sync.Mutex
	store   *SafeStore
	key     string
	catalog []string
	order   []string
	logger  *zap.Logger
}

// NewOrderStore loads the stored order for reportKey, reconciles it against
// the catalog and writes it back when reconciliation changed it.
func NewOrderStore(store KeyValueStore, reportKey string, catalog []string, opts ...Option) *OrderStore {
	o := buildOptions(opts)
	s := &OrderStore{
		store:   NewSafeStore(store, o.logger),
		key:     o.namespaces.OrderKey(reportKey),
		catalog: uniqueIDs(catalog),
		logger:  o.logger,
	}
	stored, ok := s.store.LoadIDs(s.key)
	s.heal(stored, ok)
	return s
}

func newOrderStoreWith(store *SafeStore, key string, catalog []string, stored []string, ok bool, logger *zap.Logger) *OrderStore {
	s := &OrderStore{
		store:   store,
		key:     key,
		catalog: uniqueIDs(catalog),
		logger:  logger,
	}
	s.heal(stored, ok)
	return s
}

func (s *OrderStore) heal(stored []string, ok bool) {
	s.order = ReconcileOrder(s.catalog, stored, ok)
	if ok && equalIDs(stored, s.order) {
		return
	}
	if ok {
		s.logger.Debug("repairing stored tile order",
			zap.String("key", s.key),
			zap.Strings("stored", stored),
			zap.Strings("order", s.order),
		)
	}
	s.store.SaveIDs(s.key, s.order)
}

// Key returns the storage key backing this store.
func (s *OrderStore) Key() string {
	return s.key
}

// Order returns a copy of the current order.
func (s *OrderStore) Order() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneIDs(s.order)
}

// Apply replaces the order after reconciling it against the catalog.
func (s *OrderStore) Apply(order []string) {
	s.Set(order)
}

// Set replaces the order, reconciling it into a full permutation.
func (s *OrderStore) Set(order []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := ReconcileOrder(s.catalog, order, true)
	if equalIDs(next, s.order) {
		return cloneIDs(s.order)
	}
	s.order = next
	s.store.SaveIDs(s.key, s.order)
	return cloneIDs(s.order)
}

// Move places source in target's slot. It reports whether the order changed.
func (s *OrderStore) Move(source, target string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := Move(s.order, source, target)
	if !ok {
		return false
	}
	s.order = next
	s.store.SaveIDs(s.key, s.order)
	return true
}

// Reload replaces the in-memory order with the reconciled stored value.
func (s *OrderStore) Reload() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.store.LoadIDs(s.key)
	s.order = ReconcileOrder(s.catalog, stored, ok)
	return cloneIDs(s.order)
}
