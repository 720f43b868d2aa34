// Package client is the reconciliation layer consumed by VillageConnect
// frontends: a typed API client that keeps a local saved-product set and a
// bounded recent-notification list in sync with server state and push events,
// applying save/unsave actions optimistically with rollback on failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Notification caps for the two notification views.
const (
	PopoverCap   = 10
	DashboardCap = 20
)

// Notification mirrors the server's notification record.
type Notification struct {
	ID        uint      `json:"id"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind"`
	ProductID uint      `json:"product_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Product mirrors the server's product record.
type Product struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Category     string    `json:"category"`
	Contact      string    `json:"contact"`
	Images       []string  `json:"images"`
	OwnerID      uint      `json:"owner_id"`
	OwnerName    string    `json:"owner_name"`
	OwnerVillage string    `json:"owner_village"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// PushEvent is a real-time event received over the websocket channel.
type PushEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	ProductID uint      `json:"product_id"`
	OwnerName string    `json:"owner_name"`
	Timestamp time.Time `json:"timestamp"`
}

// APIError is a non-2xx response surfaced to the caller, carrying the
// server's free-text error verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client reconciles local caches against the VillageConnect API. All methods
// are safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu            sync.Mutex
	token         string
	saved         []uint // addition order preserved, no duplicates
	notifications []Notification
	cap           int
}

// New builds a client holding an issued bearer token. capacity bounds the
// local notification list (PopoverCap or DashboardCap); non-positive values
// fall back to PopoverCap.
func New(baseURL, token string, capacity int) *Client {
	if capacity <= 0 {
		capacity = PopoverCap
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		token:   token,
		cap:     capacity,
	}
}

// Authenticated reports whether the client still holds a credential. Any 401
// response clears it: the whole session is treated as invalid, not just the
// one call.
func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != ""
}

// SavedIDs returns the saved product ids in addition order.
func (c *Client) SavedIDs() []uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]uint, len(c.saved))
	copy(out, c.saved)
	return out
}

// HasSaved reports whether productID is in the local saved set.
func (c *Client) HasSaved(productID uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOfLocked(productID) >= 0
}

// Notifications returns the local notification list, newest first.
func (c *Client) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.notifications))
	copy(out, c.notifications)
	return out
}

// Unread counts local notifications with IsRead false. The server never flips
// IsRead, so in practice this equals the list length.
func (c *Client) Unread() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, notification := range c.notifications {
		if !notification.IsRead {
			n++
		}
	}
	return n
}

// Refresh repopulates both caches from the server. Used on page load and
// after any mutating action.
func (c *Client) Refresh(ctx context.Context) error {
	var products []Product
	if err := c.get(ctx, "/api/user/saved-products", &products); err != nil {
		return err
	}

	var notifications []Notification
	if err := c.get(ctx, "/api/notifications", &notifications); err != nil {
		return err
	}
	if len(notifications) > c.cap {
		notifications = notifications[:c.cap]
	}

	c.mu.Lock()
	c.saved = c.saved[:0]
	for _, p := range products {
		c.saved = append(c.saved, p.ID)
	}
	c.notifications = notifications
	c.mu.Unlock()
	return nil
}

// SaveProduct flips the local saved set optimistically, then confirms with
// the server. On failure the local flip is reverted before the error is
// returned, so local state never silently diverges from server truth.
func (c *Client) SaveProduct(ctx context.Context, productID uint) error {
	c.mu.Lock()
	changed := false
	if c.indexOfLocked(productID) < 0 {
		c.saved = append(c.saved, productID)
		changed = true
	}
	c.mu.Unlock()

	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/products/%d/save", productID), nil, nil)
	if err != nil && changed {
		c.mu.Lock()
		c.removeLocked(productID)
		c.mu.Unlock()
	}
	return err
}

// UnsaveProduct is the inverse of SaveProduct, with the same optimistic
// flip-then-reconcile contract.
func (c *Client) UnsaveProduct(ctx context.Context, productID uint) error {
	c.mu.Lock()
	idx := c.indexOfLocked(productID)
	if idx >= 0 {
		c.saved = append(c.saved[:idx], c.saved[idx+1:]...)
	}
	c.mu.Unlock()

	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/products/%d/save", productID), nil, nil)
	if err != nil && idx >= 0 {
		c.mu.Lock()
		// Restore at the original position so addition order survives the
		// rollback.
		c.saved = append(c.saved, 0)
		copy(c.saved[idx+1:], c.saved[idx:])
		c.saved[idx] = productID
		c.mu.Unlock()
	}
	return err
}

// HandlePush folds a real-time event into the local notification list:
// prepend, trim to cap. Events other than new_product are ignored.
func (c *Client) HandlePush(event PushEvent) {
	if event.Type != "new_product" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = append([]Notification{{
		Message:   event.Message,
		Kind:      event.Type,
		ProductID: event.ProductID,
		CreatedAt: event.Timestamp,
	}}, c.notifications...)
	if len(c.notifications) > c.cap {
		c.notifications = c.notifications[:c.cap]
	}
}

func (c *Client) indexOfLocked(productID uint) int {
	for i, id := range c.saved {
		if id == productID {
			return i
		}
	}
	return -1
}

func (c *Client) removeLocked(productID uint) {
	if i := c.indexOfLocked(productID); i >= 0 {
		c.saved = append(c.saved[:i], c.saved[i+1:]...)
	}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// The session is no longer valid; drop the credential so the caller
		// lands in a logged-out state.
		c.mu.Lock()
		c.token = ""
		c.mu.Unlock()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: decodeError(resp.Body)}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func decodeError(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil || payload.Error == "" {
		return "request failed"
	}
	return payload.Error
}
