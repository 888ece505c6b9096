package wshub

import (
	"encoding/json"
	stdsync "sync"

	"list-app-go/pkg/logger"
)

// Message is the state-change notification pushed to connected UI clients.
// Entity is "list", "session", or an item type; Action names the container
// operation that was applied.
type Message struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	ListID string `json:"list_id,omitempty"`
	ItemID string `json:"item_id,omitempty"`
}

// Hub maintains the set of active WebSocket clients and fans messages out
// to all of them. It satisfies the engine's Broadcaster.
type Hub struct {
	mu      stdsync.RWMutex
	clients map[*Client]struct{}
	log     logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		log:     log,
	}
}

// Changed implements the engine's Broadcaster interface.
func (h *Hub) Changed(entity, action, listID, itemID string) {
	h.Broadcast(Message{Entity: entity, Action: action, ListID: listID, ItemID: itemID})
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends a message to every connected client. A client whose
// buffer is full misses the message rather than blocking the fan-out.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("wshub: marshal broadcast", "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
