package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Message is a real-time change event delivered to subscribers of one list.
type Message struct {
	Type   string `json:"type"`
	ListID int64  `json:"list_id"`
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     int64  `json:"id,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(listID int64, entity, action string, id int64) Message {
	return Message{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		ListID: listID,
		Entity: entity,
		Action: action,
		ID:     id,
	}
}

// Hub tracks active WebSocket clients grouped by the list they subscribed
// to. Events for a list only reach that list's subscribers; access is
// checked at upgrade time, before a client ever joins the hub.
type Hub struct {
	mu      sync.RWMutex
	byList  map[int64]map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		byList: make(map[int64]map[*Client]struct{}),
		logger: logger,
	}
}

// Register adds a client to its list's subscriber set.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	set, ok := h.byList[c.listID]
	if !ok {
		set = make(map[*Client]struct{})
		h.byList[c.listID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set, ok := h.byList[c.listID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			close(c.send)
		}
		if len(set) == 0 {
			delete(h.byList, c.listID)
		}
	}
	h.mu.Unlock()
}

// Broadcast sends a message to every subscriber of the message's list.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.byList[msg.ListID] {
		select {
		case c.send <- data:
		default:
			// Client buffer full, drop the message instead of blocking
		}
	}
}

// SubscriberCount returns the number of clients subscribed to a list.
func (h *Hub) SubscriberCount(listID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byList[listID])
}
