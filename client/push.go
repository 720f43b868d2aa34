package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/fasthttp/websocket"
	"go.uber.org/zap"
)

// Listener consumes the server's push channel and folds events into a
// Client. Delivery is at-most-once: events broadcast while disconnected are
// never replayed, the next Refresh picks up the persisted records instead.
type Listener struct {
	client *Client
	wsURL  string
	log    *zap.Logger
}

// NewListener derives the websocket endpoint from the client's base URL and
// bearer token.
func (c *Client) NewListener(log *zap.Logger) (*Listener, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"

	c.mu.Lock()
	q := u.Query()
	q.Set("token", c.token)
	u.RawQuery = q.Encode()
	c.mu.Unlock()

	return &Listener{client: c, wsURL: u.String(), log: log}, nil
}

// Run dials the push channel and pumps events until the context is cancelled
// or the connection drops. No reconnect: callers decide whether and when to
// dial again, and should Refresh first to pick up anything missed.
func (l *Listener) Run(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, l.wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		var event PushEvent
		if err := json.Unmarshal(message, &event); err != nil {
			l.log.Warn("unparseable push event", zap.Error(err))
			continue
		}
		l.client.HandlePush(event)
	}
}
