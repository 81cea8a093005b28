package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sliceSequence struct {
	order   []string
	applied int
}

func (s *sliceSequence) Order() []string { return append([]string(nil), s.order...) }

func (s *sliceSequence) Apply(order []string) {
	s.applied++
	s.order = append([]string(nil), order...)
}

func TestDragOverLiveReorderIsIdempotent(t *testing.T) {
	seq := &sliceSequence{order: []string{"a", "b", "c", "d"}}
	engine := NewDragEngine(seq, nil)

	assert.True(t, engine.DragStart("a"))
	assert.True(t, engine.DragOver("c"))
	assert.Equal(t, []string{"b", "c", "a", "d"}, seq.order)

	assert.False(t, engine.DragOver("c"))
	assert.Equal(t, []string{"b", "c", "a", "d"}, seq.order)
	assert.Equal(t, 1, seq.applied)

	engine.Drop()
	assert.Equal(t, []string{"b", "c", "a", "d"}, seq.order, "drop must not reorder")
	_, dragging := engine.Dragging()
	assert.False(t, dragging)
}

func TestDragOverFollowsPointer(t *testing.T) {
	seq := &sliceSequence{order: []string{"a", "b", "c", "d"}}
	engine := NewDragEngine(seq, nil)
	engine.DragStart("a")
	engine.DragOver("b")
	assert.Equal(t, []string{"b", "a", "c", "d"}, seq.order)
	engine.DragOver("d")
	assert.Equal(t, []string{"b", "c", "d", "a"}, seq.order)
	engine.DragOver("b")
	assert.Equal(t, []string{"a", "b", "c", "d"}, seq.order)
}

func TestDragOverNoOps(t *testing.T) {
	seq := &sliceSequence{order: []string{"a", "b"}}
	engine := NewDragEngine(seq, nil)

	assert.False(t, engine.DragOver("b"), "no gesture in progress")
	engine.DragStart("a")
	assert.False(t, engine.DragOver("a"), "target equals dragged id")
	assert.False(t, engine.DragOver("zzz"), "unknown target")
	assert.Equal(t, 0, seq.applied)
	assert.False(t, engine.DragStart("zzz"))
}

func TestDragEligibilityGating(t *testing.T) {
	selected := map[string]bool{"a": true, "b": true}
	seq := &sliceSequence{order: []string{"a", "b", "c"}}
	engine := NewDragEngine(seq, func(id string) bool { return selected[id] })

	assert.False(t, engine.DragStart("c"))
	_, dragging := engine.Dragging()
	assert.False(t, dragging)
	assert.False(t, engine.DragOver("a"))

	engine.DragStart("a")
	assert.False(t, engine.DragOver("c"), "unselected ids are inert targets")
	assert.Equal(t, []string{"a", "b", "c"}, seq.order)
	id, dragging := engine.Dragging()
	assert.True(t, dragging)
	assert.Equal(t, "a", id)
}

func TestDragStartAbandonsPreviousGesture(t *testing.T) {
	seq := &sliceSequence{order: []string{"a", "b", "c"}}
	engine := NewDragEngine(seq, nil)
	engine.DragStart("a")
	engine.DragOver("b")
	engine.DragStart("c")
	id, _ := engine.Dragging()
	assert.Equal(t, "c", id)

	// lastOver is cleared, so hovering b again moves c.
	assert.True(t, engine.DragOver("b"))
	assert.Equal(t, []string{"c", "b", "a"}, seq.order)

	engine.DragEnd()
	_, dragging := engine.Dragging()
	assert.False(t, dragging)
}
