package ws

import (
	"encoding/json"
	"sync"

	"tutorpay/internal/domain"
	"tutorpay/internal/logger"
)

// EventKind is a transaction lifecycle notification pushed to connected
// admin dashboards.
type EventKind string

const (
	EventCreated   EventKind = "transaction.created"
	EventVerified  EventKind = "transaction.verified"
	EventFulfilled EventKind = "transaction.fulfilled"
)

type Event struct {
	Kind        EventKind           `json:"kind"`
	Transaction *domain.Transaction `json:"transaction"`
}

// Hub fans transaction events out to admin feed connections. It is a
// best-effort channel: slow consumers drop messages, never block the
// publisher.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast pushes an event to every connected client, dropping it for
// clients whose buffers are full.
func (h *Hub) Broadcast(ev Event) {
	raw, err := json.Marshal(ev)
	if err != nil {
		logger.Error("failed to marshal feed event", "error", err, "kind", ev.Kind)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- raw:
		default:
			// slow consumer, drop
		}
	}
}

// ClientCount reports connected feed consumers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
