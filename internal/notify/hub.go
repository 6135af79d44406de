package notify

import (
	"sync"

	"cardclash/internal/battle"
)

// Hub fans battle state changes out to observers. Both push subscribers
// (SSE streams) and polling clients consume the same underlying event
// stream; the engine neither knows nor cares which transport a client
// uses. Events carry the appended log entries plus a session snapshot,
// already in log order, so an observer never sees entry N+1 without having
// had the opportunity to see entry N.

// Event is one committed state change.
type Event struct {
	Entries  []battle.LogEntry `json:"entries"`
	Snapshot *battle.Session   `json:"snapshot"`
}

type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Event
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan Event)}
}

// Subscribe registers an observer for one battle. The returned cancel
// function must be called when the observer goes away.
func (h *Hub) Subscribe(battleID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[battleID] == nil {
		h.subs[battleID] = make(map[int]chan Event)
	}
	id := h.nextID
	h.nextID++
	ch := make(chan Event, 16)
	h.subs[battleID][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if m, ok := h.subs[battleID]; ok {
			delete(m, id)
			if len(m) == 0 {
				delete(h.subs, battleID)
			}
		}
	}
	return ch, cancel
}

// Publish delivers an event to all subscribers of a battle. Delivery is
// non-blocking: a subscriber that cannot keep up misses the push and
// recovers through the polling endpoint's sequence cursor.
func (h *Hub) Publish(battleID string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[battleID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
