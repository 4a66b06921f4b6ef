package realtime

import (
	"encoding/json"
	"sync"
)

// Event types published when a session's collection changes
const (
	EventTaskAdded     = "task_added"
	EventTaskCompleted = "task_completed"
	EventTaskDeleted   = "task_deleted"
	EventSessionEnded  = "session_ended"
)

// Event is the payload sent to websocket clients
type Event struct {
	Type      string `json:"type"`
	TaskID    int    `json:"taskId,omitempty"`
	SessionID string `json:"sessionId"`
	Version   int    `json:"version"`
}

// Client receives a session's encoded events. Broadcast calls Send from
// whichever request published, so Send must be safe for concurrent use and
// must not block.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub maintains active session connections and broadcasts events to them.
type Hub struct {
	mu               sync.RWMutex
	sessionToClients map[string]map[Client]struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		sessionToClients: make(map[string]map[Client]struct{}),
	}
}

// Register adds a client under a session ID.
func (h *Hub) Register(sessionID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessionToClients[sessionID]; !ok {
		h.sessionToClients[sessionID] = make(map[Client]struct{})
	}
	h.sessionToClients[sessionID][client] = struct{}{}
}

// Unregister removes a client; if the session has no more clients, cleans up map.
func (h *Hub) Unregister(sessionID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.sessionToClients[sessionID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.sessionToClients, sessionID)
		}
	}
}

// Clients returns the number of clients registered for a session.
func (h *Hub) Clients(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessionToClients[sessionID])
}

// Broadcast sends a message to all clients of a session.
func (h *Hub) Broadcast(sessionID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.sessionToClients[sessionID] {
		// a failed write is cleaned up by the handler's reader loop
		_ = c.Send(message)
	}
}

// Publish encodes evt and broadcasts it to its session.
func (h *Hub) Publish(evt Event) {
	if evt.Version == 0 {
		evt.Version = 1
	}
	if bytes, err := json.Marshal(evt); err == nil {
		h.Broadcast(evt.SessionID, bytes)
	}
}

// CloseSession notifies and closes every client of a session.
func (h *Hub) CloseSession(sessionID string) {
	h.Publish(Event{Type: EventSessionEnded, SessionID: sessionID})

	h.mu.Lock()
	clients := h.sessionToClients[sessionID]
	delete(h.sessionToClients, sessionID)
	h.mu.Unlock()

	for c := range clients {
		c.Close()
	}
}
