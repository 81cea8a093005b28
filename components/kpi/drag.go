package kpi

import "sync"

// Sequence is an ordered list of ids a DragEngine rearranges.
type Sequence interface {
	Order() []string
	Apply(order []string)
}

// Eligibility reports whether an id may be dragged or dropped onto.
type Eligibility func(id string) bool

// DragEngine turns drag gestures into live reorders of a Sequence. The
// sequence is rewritten on every effective DragOver; Drop and DragEnd only
// end the gesture.
type DragEngine struct {
	mu       sync.Mutex
	seq      Sequence
	eligible Eligibility
	dragging string
	active   bool
	lastOver string
}

// NewDragEngine builds an engine over seq. A nil eligibility allows every id.
func NewDragEngine(seq Sequence, eligible Eligibility) *DragEngine {
	return &DragEngine{seq: seq, eligible: eligible}
}

// Dragging returns the id being dragged, if any.
func (e *DragEngine) Dragging() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dragging, e.active
}

// DragStart begins dragging id. A start on another id abandons the previous
// gesture. Ineligible ids leave the engine untouched.
func (e *DragEngine) DragStart(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.allowed(id) || indexOf(e.seq.Order(), id) < 0 {
		return false
	}
	e.dragging = id
	e.active = true
	e.lastOver = ""
	return true
}

// DragOver moves the dragged id into target's current slot. Repeating the
// same target within one gesture is a no-op. It reports whether the
// sequence changed.
func (e *DragEngine) DragOver(target string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active || target == e.dragging || !e.allowed(target) {
		return false
	}
	if target == e.lastOver {
		return false
	}
	next, ok := Move(e.seq.Order(), e.dragging, target)
	if !ok {
		return false
	}
	e.lastOver = target
	e.seq.Apply(next)
	return true
}

// Drop ends the gesture. The order was already updated by DragOver.
func (e *DragEngine) Drop() {
	e.reset()
}

// DragEnd ends the gesture unconditionally.
func (e *DragEngine) DragEnd() {
	e.reset()
}

func (e *DragEngine) reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dragging = ""
	e.active = false
	e.lastOver = ""
}

func (e *DragEngine) allowed(id string) bool {
	if id == "" {
		return false
	}
	return e.eligible == nil || e.eligible(id)
}

// Move removes source from order and reinserts it at target's index. It
// returns false when either id is missing or they are equal.
func Move(order []string, source, target string) ([]string, bool) {
	if source == target {
		return cloneIDs(order), false
	}
	from := indexOf(order, source)
	to := indexOf(order, target)
	if from < 0 || to < 0 {
		return cloneIDs(order), false
	}
	rest := removeID(order, source)
	next := make([]string, 0, len(order))
	next = append(next, rest[:to]...)
	next = append(next, source)
	next = append(next, rest[to:]...)
	return next, true
}
