package kpi

// TileRow is a free-standing draggable row of tiles whose order is stored on
// its own, separate from visibility.
type TileRow struct {
	catalog Catalog
	order   *OrderStore
	drag    *DragEngine
}

// NewTileRow mounts the stored order of catalog. A nil eligibility lets every
// tile be dragged.
func NewTileRow(store KeyValueStore, catalog Catalog, eligible Eligibility, opts ...Option) *TileRow {
	order := NewOrderStore(store, catalog.ReportKey, catalog.IDs(), opts...)
	return &TileRow{
		catalog: catalog,
		order:   order,
		drag:    NewDragEngine(order, eligible),
	}
}

// Order returns the current tile order.
func (r *TileRow) Order() []string {
	return r.order.Order()
}

// Tiles returns the tiles in display order.
func (r *TileRow) Tiles() []Tile {
	return r.catalog.TilesFor(r.order.Order())
}

// Reorder moves source into target's slot outside of a drag gesture.
func (r *TileRow) Reorder(source, target string) bool {
	return r.order.Move(source, target)
}

// Reload re-reads the stored order.
func (r *TileRow) Reload() []string {
	return r.order.Reload()
}

// DragStart begins dragging id.
func (r *TileRow) DragStart(id string) bool {
	return r.drag.DragStart(id)
}

// DragOver moves the dragged tile into target's slot.
func (r *TileRow) DragOver(target string) bool {
	return r.drag.DragOver(target)
}

// Drop ends the gesture.
func (r *TileRow) Drop() {
	r.drag.Drop()
}

// DragEnd ends the gesture.
func (r *TileRow) DragEnd() {
	r.drag.DragEnd()
}

// Dragging returns the id being dragged, if any.
func (r *TileRow) Dragging() (string, bool) {
	return r.drag.Dragging()
}
