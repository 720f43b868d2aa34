package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	// Connection id, the hub's registry key.
	ID string

	Hub *Hub

	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan []byte

	// User id derived from the authenticated upgrade.
	UserID uint

	// Room the client asked to join. The transport tracks it but delivery is
	// never scoped by it; every broadcast goes to every connection.
	room   string
	roomMu sync.Mutex

	log *zap.Logger
}

func NewClient(id string, hub *Hub, conn *websocket.Conn, userID uint, log *zap.Logger) *Client {
	return &Client{
		ID:     id,
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, 16),
		UserID: userID,
		log:    log,
	}
}

// inbound is the shape of messages clients may send. Only "join" is
// recognized; everything else is ignored.
type inbound struct {
	Type string `json:"type"`
	Room string `json:"room,omitempty"`
}

// ReadPump pumps messages from the websocket connection to the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket read error", zap.String("conn_id", c.ID), zap.Error(err))
			}
			break
		}
		c.handleMessage(message)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(message []byte) {
	var msg inbound
	if err := json.Unmarshal(message, &msg); err != nil {
		c.log.Warn("unparseable websocket message", zap.String("conn_id", c.ID), zap.Error(err))
		return
	}

	if msg.Type == "join" {
		c.roomMu.Lock()
		c.room = msg.Room
		c.roomMu.Unlock()
		c.log.Info("client joined room", zap.String("conn_id", c.ID), zap.String("room", msg.Room))
	}
}

// Room returns the room the client last joined, if any.
func (c *Client) Room() string {
	c.roomMu.Lock()
	defer c.roomMu.Unlock()
	return c.room
}
