// realtime/hub.go - WebSocket fan-out for committed progression events.
package realtime

import (
	"log"
	"sync"

	"github.com/HoneyBadgered/alchemy-sub004/services"

	"github.com/gofiber/websocket/v2"
)

// jsonWriter is the slice of *websocket.Conn the hub needs. The websocket
// library permits at most one concurrent writer per connection, so all
// WriteJSON calls go through the single dispatch goroutine.
type jsonWriter interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Hub tracks connected clients and pushes level-up and tier-up events to the
// player they belong to. It satisfies services.Notifier.
type Hub struct {
	mu      sync.RWMutex
	clients map[jsonWriter]uint
	events  chan services.ProgressionEvent
}

func NewHub() *Hub {
	h := &Hub{
		clients: make(map[jsonWriter]uint),
		events:  make(chan services.ProgressionEvent, 64),
	}
	go h.dispatch()
	return h
}

// Publish queues the event for delivery to every connection owned by the
// event's user. The write happens on the dispatch goroutine so a slow client
// never holds up a committed request; when the buffer is full the event is
// dropped rather than blocking the request path.
func (h *Hub) Publish(event services.ProgressionEvent) {
	select {
	case h.events <- event:
	default:
		log.Printf("realtime: event buffer full, dropping %s for user %d", event.Type, event.UserID)
	}
}

func (h *Hub) dispatch() {
	for event := range h.events {
		h.mu.RLock()
		conns := make([]jsonWriter, 0)
		for conn, userID := range h.clients {
			if userID == event.UserID {
				conns = append(conns, conn)
			}
		}
		h.mu.RUnlock()

		for _, conn := range conns {
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("realtime: dropping client: %v", err)
				h.remove(conn)
				conn.Close()
			}
		}
	}
}

func (h *Hub) add(conn jsonWriter, userID uint) {
	h.mu.Lock()
	h.clients[conn] = userID
	h.mu.Unlock()
}

func (h *Hub) remove(conn jsonWriter) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// Handler upgrades the connection and parks it until the client goes away.
// The identity comes from WebSocketAuthMiddleware; anonymous connections are
// registered under user 0 and receive nothing.
func (h *Hub) Handler() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		var userID uint
		if id, ok := conn.Locals("userId").(float64); ok {
			userID = uint(id)
		}

		h.add(conn, userID)
		defer func() {
			h.remove(conn)
			conn.Close()
		}()

		// Drain client frames; the hub is push-only.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
