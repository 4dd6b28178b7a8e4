package review

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	EventFeedReady      = "feed.ready"
	EventReviewCreated  = "review.created"
	EventReviewDeleted  = "review.deleted"
	EventReviewsCleared = "reviews.cleared"
)

type Event struct {
	Type       string `json:"type"`
	LocationID string `json:"location_id,omitempty"`
	ReviewID   string `json:"review_id,omitempty"`
	At         int64  `json:"at"`
}

// Hub fans review events out to connected feed subscribers.
type Hub struct {
	connections map[string]*websocket.Conn
	mutex       sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*websocket.Conn),
	}
}

// Register adds conn and returns its subscriber id.
func (h *Hub) Register(conn *websocket.Conn) string {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	id := uuid.NewString()
	h.connections[id] = conn
	return id
}

func (h *Hub) Unregister(id string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conn, exists := h.connections[id]; exists && conn != nil {
		_ = conn.Close()
		delete(h.connections, id)
	}
}

// Send writes an event to one subscriber.
func (h *Hub) Send(id string, event Event) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	conn, exists := h.connections[id]
	if !exists || conn == nil {
		return false
	}
	if err := conn.WriteJSON(stamp(event)); err != nil {
		_ = conn.Close()
		delete(h.connections, id)
		return false
	}
	return true
}

// Broadcast writes the event to every subscriber, dropping the ones that
// fail, and returns how many received it.
func (h *Hub) Broadcast(event Event) int {
	if h == nil {
		return 0
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	event = stamp(event)
	delivered := 0
	for id, conn := range h.connections {
		if err := conn.WriteJSON(event); err != nil {
			_ = conn.Close()
			delete(h.connections, id)
			continue
		}
		delivered++
	}
	return delivered
}

func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, conn := range h.connections {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.connections, id)
	}
}

func stamp(e Event) Event {
	if e.At == 0 {
		e.At = time.Now().UnixMilli()
	}
	return e
}
