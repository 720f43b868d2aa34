package ws

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Event is the push payload fanned out to connected clients.
type Event struct {
	Type      string    `json:"type"`
	Message   string    `json:"message,omitempty"`
	ProductID uint      `json:"product_id,omitempty"`
	OwnerName string    `json:"owner_name,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub maintains the registry of active connections and broadcasts events to
// all of them. Delivery is fire-and-forget: at most once per currently
// registered connection, no acknowledgement, no backlog for connections that
// register later.
type Hub struct {
	// Registered connections keyed by connection id.
	clients map[string]*Client

	// Register requests from connections.
	Register chan *Client

	// Unregister requests from connections.
	Unregister chan *Client

	// Outbound events to every registered connection.
	Broadcast chan []byte

	log *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan []byte),
		log:        log,
	}
}

// Run owns the registry; all mutation flows through this loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client.ID] = client
			h.log.Info("client connected",
				zap.String("conn_id", client.ID),
				zap.Uint("user_id", client.UserID),
				zap.Int("connections", len(h.clients)))
		case client := <-h.Unregister:
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
				h.log.Info("client disconnected",
					zap.String("conn_id", client.ID),
					zap.Uint("user_id", client.UserID),
					zap.Int("connections", len(h.clients)))
			}
		case message := <-h.Broadcast:
			for id, client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Slow consumer: drop the connection rather than block
					// the fan-out.
					close(client.Send)
					delete(h.clients, id)
				}
			}
		}
	}
}

// BroadcastEvent serializes event and queues it for fan-out to every
// currently registered connection. Errors are logged, never returned: pushes
// are a best-effort side effect and must not fail their caller.
func (h *Hub) BroadcastEvent(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to marshal push event", zap.Error(err))
		return
	}
	h.Broadcast <- payload
}
