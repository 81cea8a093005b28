package kpi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// BroadcastHook fans out preference events to in-process subscribers so other
// open instances of a report can reload.
type BroadcastHook struct {
	mu   sync.RWMutex
	subs map[int]subscription
	next int
}

type subscription struct {
	ch     chan PreferenceEvent
	filter func(PreferenceEvent) bool
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{
		subs: make(map[int]subscription),
	}
}

// PreferencesChanged satisfies ChangeHook and broadcasts the event. Slow
// subscribers miss events rather than block the writer.
func (h *BroadcastHook) PreferencesChanged(_ context.Context, event PreferenceEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if sub.filter != nil && !sub.filter(event) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel of every preference event and a cancel func.
func (h *BroadcastHook) Subscribe() (<-chan PreferenceEvent, func()) {
	return h.SubscribeFiltered(nil)
}

// SubscribeFiltered only delivers events accepted by filter.
func (h *BroadcastHook) SubscribeFiltered(filter func(PreferenceEvent) bool) (<-chan PreferenceEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan PreferenceEvent, 8)
	h.subs[id] = subscription{ch: ch, filter: filter}
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub.ch)
		}
	}
	return ch, cancel
}

// ForUser returns a filter matching one user's events.
func ForUser(userID string) func(PreferenceEvent) bool {
	return func(event PreferenceEvent) bool {
		return event.UserID == userID
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams preference events as JSON.
// The optional user_id query parameter limits the stream to one user.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer conn.Close()

	events, cancel := h.SubscribeFiltered(requestFilter(r))
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// ServeSSE provides a Server-Sent Events endpoint for preference events.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := h.SubscribeFiltered(requestFilter(r))
	defer cancel()

	encoder := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			w.Write([]byte("data: "))
			if err := encoder.Encode(event); err != nil {
				return
			}
			w.Write([]byte("\n"))
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

func requestFilter(r *http.Request) func(PreferenceEvent) bool {
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		return ForUser(userID)
	}
	return nil
}
