package kpi

import (
	"sync"

	"go.uber.org/zap"
)

// Preferences is the report-facing view of tile preferences: which tiles to
// render and in what order, plus the mutators a report page wires into its
// tile loop and customize panel.
//
// The visible sequence is the display order. After every change the order key
// is rewritten as the visible ids followed by the hidden ones in catalog
// order, so it also records every id the user has already seen.
type Preferences struct {
	catalog   Catalog
	ids       []string
	store     *SafeStore
	visible   *VisibilityStore
	order     *OrderStore
	logger    *zap.Logger
	origin    string
	visKey    string
	orderKey  string
	listenMu  sync.RWMutex
	listeners []func(PreferenceEvent)
}

// NewPreferences mounts the preferences of catalog.ReportKey.
func NewPreferences(store KeyValueStore, catalog Catalog, opts ...Option) *Preferences {
	o := buildOptions(opts)
	p := &Preferences{
		catalog:  catalog,
		ids:      catalog.IDs(),
		store:    NewSafeStore(store, o.logger),
		logger:   o.logger,
		origin:   o.origin,
		visKey:   o.namespaces.VisibilityKey(catalog.ReportKey),
		orderKey: o.namespaces.OrderKey(catalog.ReportKey),
	}
	storedOrder, orderOK := p.store.LoadIDs(p.orderKey)
	storedVisible, visibleOK := p.store.LoadIDs(p.visKey)
	selected := ReconcileVisibilityKnown(p.ids, storedVisible, visibleOK, storedOrder, orderOK)

	p.visible = newVisibilityStoreWith(p.store, p.visKey, p.ids, selected, p.logger)
	if visibleOK && !equalIDs(storedVisible, selected) {
		p.store.SaveIDs(p.visKey, selected)
	}
	p.order = newOrderStoreWith(p.store, p.orderKey, p.ids, storedOrder, orderOK, p.logger)
	p.syncOrder()
	return p
}

// Catalog returns the catalog the preferences were mounted with.
func (p *Preferences) Catalog() Catalog {
	return p.catalog
}

// ReportKey returns the report the preferences belong to.
func (p *Preferences) ReportKey() string {
	return p.catalog.ReportKey
}

// Origin identifies this instance in change events.
func (p *Preferences) Origin() string {
	return p.origin
}

// Visible returns the ids to render, in display order.
func (p *Preferences) Visible() []string {
	return p.visible.Selected()
}

// Tiles returns the visible tiles in display order.
func (p *Preferences) Tiles() []Tile {
	return p.catalog.TilesFor(p.visible.Selected())
}

// Order returns the persisted full order, visible ids first.
func (p *Preferences) Order() []string {
	return p.order.Order()
}

// IsVisible reports whether id is currently shown.
func (p *Preferences) IsVisible(id string) bool {
	return p.visible.IsSelected(id)
}

// Hidden returns catalog ids that are not visible, in catalog order.
func (p *Preferences) Hidden() []string {
	selected := toSet(p.visible.Selected())
	hidden := make([]string, 0, len(p.ids))
	for _, id := range p.ids {
		if _, ok := selected[id]; !ok {
			hidden = append(hidden, id)
		}
	}
	return hidden
}

// Toggle flips the visibility of id. A tile shown again goes last.
func (p *Preferences) Toggle(id string) bool {
	if !containsID(p.ids, id) {
		return false
	}
	shown := p.visible.Toggle(id)
	p.syncOrder()
	p.emit(PreferenceEvent{Kind: ChangeToggle, TileID: id})
	return shown
}

// Reorder moves a visible tile into another visible tile's slot. Hidden or
// unknown ids are rejected.
func (p *Preferences) Reorder(source, target string) bool {
	current := p.visible.Selected()
	if !containsID(current, source) || !containsID(current, target) {
		return false
	}
	next, ok := Move(current, source, target)
	if !ok {
		return false
	}
	p.applyVisibleOrder(next)
	return true
}

// SelectAll shows every tile in catalog order.
func (p *Preferences) SelectAll() []string {
	out := p.visible.SelectAll()
	p.syncOrder()
	p.emit(PreferenceEvent{Kind: ChangeSelectAll})
	return out
}

// SelectNone hides every tile.
func (p *Preferences) SelectNone() []string {
	out := p.visible.SelectNone()
	p.syncOrder()
	p.emit(PreferenceEvent{Kind: ChangeSelectNone})
	return out
}

// AllVisible reports whether every catalog tile is shown.
func (p *Preferences) AllVisible() bool {
	return len(p.ids) > 0 && len(p.visible.Selected()) == len(p.ids)
}

// Reload re-reads both slices from storage and replaces the in-memory copy
// through the same reconciliation used on mount. Nothing is written.
func (p *Preferences) Reload() []string {
	storedOrder, orderOK := p.store.LoadIDs(p.orderKey)
	storedVisible, visibleOK := p.store.LoadIDs(p.visKey)
	selected := ReconcileVisibilityKnown(p.ids, storedVisible, visibleOK, storedOrder, orderOK)
	p.visible.assign(selected)
	p.order.Reload()
	return cloneIDs(selected)
}

// Subscribe registers fn for every change made through this instance.
func (p *Preferences) Subscribe(fn func(PreferenceEvent)) {
	if fn == nil {
		return
	}
	p.listenMu.Lock()
	defer p.listenMu.Unlock()
	p.listeners = append(p.listeners, fn)
}

func (p *Preferences) applyVisibleOrder(order []string) {
	p.visible.Set(order)
	p.syncOrder()
	p.emit(PreferenceEvent{Kind: ChangeReorder})
}

func (p *Preferences) syncOrder() {
	p.order.Set(ArrangeSelectedFirst(p.ids, p.visible.Selected()))
}

func (p *Preferences) emit(event PreferenceEvent) {
	event.ReportKey = p.catalog.ReportKey
	event.Origin = p.origin
	p.listenMu.RLock()
	listeners := append([]func(PreferenceEvent){}, p.listeners...)
	p.listenMu.RUnlock()
	for _, fn := range listeners {
		fn(event)
	}
}

// visibleSequence exposes the visible ids as a drag Sequence.
type visibleSequence struct {
	prefs *Preferences
}

func (s visibleSequence) Order() []string {
	return s.prefs.Visible()
}

func (s visibleSequence) Apply(order []string) {
	s.prefs.applyVisibleOrder(order)
}
