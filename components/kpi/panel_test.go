package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func panelIDs(items []PanelItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Tile.ID)
	}
	return ids
}

func TestPanelItemsSelectedFirst(t *testing.T) {
	store := newMemStore()
	panel := NewPanel(NewPreferences(store, testCatalog("a", "b", "c", "d")))
	panel.Toggle("a")
	panel.Toggle("c")

	items := panel.Items()
	assert.Equal(t, []string{"b", "d", "a", "c"}, panelIDs(items))
	require.Len(t, items, 4)
	assert.True(t, items[0].Selected)
	assert.True(t, items[0].Draggable)
	assert.False(t, items[2].Selected)
	assert.False(t, items[2].Draggable)
	assert.Equal(t, 3, items[3].Position)
}

func TestPanelDragGatedToSelected(t *testing.T) {
	panel := NewPanel(NewPreferences(newMemStore(), testCatalog("a", "b", "c")))
	panel.Toggle("c")

	assert.False(t, panel.DragStart("c"))
	_, dragging := panel.Dragging()
	assert.False(t, dragging)
	assert.False(t, panel.DragOver("a"))

	assert.True(t, panel.DragStart("a"))
	assert.False(t, panel.DragOver("c"), "dropping onto an unselected tile is rejected")
	assert.True(t, panel.DragOver("b"))
	panel.Drop()
	assert.Equal(t, []string{"b", "a"}, panel.Preferences().Visible())
	assert.Equal(t, []string{"b", "a", "c"}, panel.Preferences().Order())
}

func TestPanelChangesPersistAndSurviveClose(t *testing.T) {
	store := newMemStore()
	catalog := testCatalog("a", "b", "c")
	panel := NewPanel(NewPreferences(store, catalog))
	panel.Open()
	assert.True(t, panel.IsOpen())

	panel.Toggle("b")
	panel.DragStart("c")
	panel.DragOver("a")
	panel.Close()
	assert.False(t, panel.IsOpen())
	_, dragging := panel.Dragging()
	assert.False(t, dragging)

	reopened := NewPanel(NewPreferences(store, catalog))
	assert.Equal(t, []string{"c", "a", "b"}, panelIDs(reopened.Items()))
	assert.Equal(t, []string{"c", "a"}, reopened.Preferences().Visible())
}

func TestPanelToggleHidingDraggedTileEndsGesture(t *testing.T) {
	panel := NewPanel(NewPreferences(newMemStore(), testCatalog("a", "b")))
	panel.DragStart("a")
	panel.Toggle("a")
	_, dragging := panel.Dragging()
	assert.False(t, dragging)
}

func TestPanelToggleAll(t *testing.T) {
	panel := NewPanel(NewPreferences(newMemStore(), testCatalog("a", "b")))
	assert.True(t, panel.AllSelected())
	assert.Empty(t, panel.ToggleAll())
	assert.False(t, panel.AllSelected())
	assert.Equal(t, []string{"a", "b"}, panel.ToggleAll())

	panel.Toggle("a")
	assert.Equal(t, []string{"a", "b"}, panel.ToggleAll(), "partial selection selects all")
	assert.Empty(t, panel.SelectNone())
	assert.Equal(t, []string{"a", "b"}, panel.SelectAll())
}
