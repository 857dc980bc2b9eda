package console

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Event describes a console state change view collaborators may react to:
// a session transition, a list refresh, or a mutation outcome.
type Event struct {
	Kind     string         `json:"kind"`
	Resource string         `json:"resource,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
}

const (
	// EventAuthState is published whenever the auth controller state moves.
	EventAuthState = "auth.state"
	// EventListRefresh is published after a list controller resynchronizes.
	EventListRefresh = "list.refresh"
	// EventMutation is published after a successful mutation.
	EventMutation = "list.mutation"
)

// Broadcast fans out console events to in-process subscribers.
type Broadcast struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// NewBroadcast creates an empty broadcast hub.
func NewBroadcast() *Broadcast {
	return &Broadcast{subs: make(map[int]chan Event)}
}

// Publish delivers the event to every subscriber without blocking; slow
// subscribers drop events rather than stalling the publisher.
func (b *Broadcast) Publish(event Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe returns a channel of console events and a cancel func.
func (b *Broadcast) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Event, 8)
	b.subs[id] = ch
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams console events as JSON.
func (b *Broadcast) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer conn.Close()

	events, cancel := b.Subscribe()
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

// ServeSSE provides a Server-Sent Events endpoint for console events.
func (b *Broadcast) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := b.Subscribe()
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

// publishAuthState is a Broadcast helper shared by the auth controller.
func publishAuthState(b *Broadcast, state AuthState) {
	payload := map[string]any{"status": string(state.Status)}
	if state.Identity != nil {
		payload["email"] = state.Identity.Email
	}
	if state.Err != nil {
		payload["error"] = state.Err.Error()
	}
	b.Publish(Event{Kind: EventAuthState, Payload: payload})
}
