package kpi

import "sync"

// PanelItem is one row of the customize panel.
type PanelItem struct {
	Tile      Tile `json:"tile"`
	Selected  bool `json:"selected"`
	Draggable bool `json:"draggable"`
	Position  int  `json:"position"`
}

// Panel is the customize panel controller: it lists every tile with visible
// ones first, toggles visibility and lets visible tiles be dragged into a new
// order. Every action is persisted immediately; closing never reverts.
type Panel struct {
	mu    sync.Mutex
	prefs *Preferences
	drag  *DragEngine
	open  bool
}

// NewPanel builds a panel over prefs.
func NewPanel(prefs *Preferences) *Panel {
	return &Panel{
		prefs: prefs,
		drag:  NewDragEngine(visibleSequence{prefs: prefs}, prefs.IsVisible),
	}
}

// Preferences returns the underlying preferences.
func (p *Panel) Preferences() *Preferences {
	return p.prefs
}

// Open shows the panel.
func (p *Panel) Open() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = true
}

// Close hides the panel and ends any drag in progress.
func (p *Panel) Close() {
	p.mu.Lock()
	p.open = false
	p.mu.Unlock()
	p.drag.DragEnd()
}

// IsOpen reports whether the panel is shown.
func (p *Panel) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// Items lists visible tiles in display order, then hidden tiles in catalog order.
func (p *Panel) Items() []PanelItem {
	visible := p.prefs.Visible()
	hidden := p.prefs.Hidden()
	items := make([]PanelItem, 0, len(visible)+len(hidden))
	for _, tile := range p.prefs.catalog.TilesFor(visible) {
		items = append(items, PanelItem{Tile: tile, Selected: true, Draggable: true, Position: len(items)})
	}
	for _, tile := range p.prefs.catalog.TilesFor(hidden) {
		items = append(items, PanelItem{Tile: tile, Position: len(items)})
	}
	return items
}

// Toggle flips visibility of id. Dragging a tile that gets hidden ends the gesture.
func (p *Panel) Toggle(id string) bool {
	shown := p.prefs.Toggle(id)
	if dragging, ok := p.drag.Dragging(); ok && dragging == id && !shown {
		p.drag.DragEnd()
	}
	return shown
}

// SelectAll shows every tile.
func (p *Panel) SelectAll() []string {
	return p.prefs.SelectAll()
}

// SelectNone hides every tile and ends any drag in progress.
func (p *Panel) SelectNone() []string {
	p.drag.DragEnd()
	return p.prefs.SelectNone()
}

// ToggleAll selects everything unless everything is already selected.
func (p *Panel) ToggleAll() []string {
	if p.prefs.AllVisible() {
		return p.SelectNone()
	}
	return p.SelectAll()
}

// AllSelected reports whether every tile is visible.
func (p *Panel) AllSelected() bool {
	return p.prefs.AllVisible()
}

// Dragging returns the id being dragged, if any.
func (p *Panel) Dragging() (string, bool) {
	return p.drag.Dragging()
}

// DragStart begins dragging a visible tile.
func (p *Panel) DragStart(id string) bool {
	return p.drag.DragStart(id)
}

// DragOver moves the dragged tile into target's slot when target is visible.
func (p *Panel) DragOver(target string) bool {
	return p.drag.DragOver(target)
}

// Drop ends the drag gesture.
func (p *Panel) Drop() {
	p.drag.Drop()
}

// DragEnd ends the drag gesture.
func (p *Panel) DragEnd() {
	p.drag.DragEnd()
}
