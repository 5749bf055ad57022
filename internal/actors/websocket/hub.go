package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rbroggi/matchup/internal/actors/metrics"
	"github.com/rbroggi/matchup/internal/core/model"
	log "github.com/sirupsen/logrus"
)

// ChatUsecase is the chat functionality reachable from a connection.
type ChatUsecase interface {
	SendMessage(ctx context.Context, args model.SendMessageArgs) (*model.ChatMessage, error)
	MarkRead(ctx context.Context, args model.MarkReadArgs) (*model.ChatMessage, error)
}

// HubArgs are the arguments for building a Hub.
type HubArgs struct {
	// AllowedOrigins restricts the Origin header of upgrade requests. Empty or "*" allows any.
	AllowedOrigins []string
}

// Hub keeps the open connections grouped by user and delivers chat events to them.
type Hub struct {
	mu       sync.RWMutex
	groups   map[string]map[*Client]struct{}
	upgrader websocket.Upgrader
}

// NewHub creates a new websocket hub.
func NewHub(args HubArgs) *Hub {
	h := &Hub{groups: make(map[string]map[*Client]struct{})}
	allowed := make(map[string]struct{}, len(args.AllowedOrigins))
	anyOrigin := len(args.AllowedOrigins) == 0
	for _, o := range args.AllowedOrigins {
		o = strings.TrimSpace(o)
		if o == "*" {
			anyOrigin = true
		}
		allowed[strings.ToLower(o)] = struct{}{}
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if anyOrigin || origin == "" {
				return true
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false
			}
			_, ok := allowed[strings.ToLower(u.Scheme+"://"+u.Host)]
			return ok
		},
	}
	return h
}

// ServeWS upgrades the request and attaches the connection to the group of userID. Inbound
// frames are dispatched to chat.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string, chat ChatUsecase) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already replied with an HTTP error
		log.WithError(err).WithField("user", userID).Warn("websocket upgrade failed")
		return
	}

	client := newClient(h, conn, userID, chat)
	h.Attach(client)

	go client.writePump()
	go client.readPump()
}

// Attach adds the client to the group of its user.
func (h *Hub) Attach(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group, ok := h.groups[c.userID]
	if !ok {
		group = make(map[*Client]struct{})
		h.groups[c.userID] = group
	}
	group[c] = struct{}{}
	metrics.WebsocketConnections.Inc()
	log.WithField("user", c.userID).WithField("connection", c.id).Debug("chat connection attached")
}

// Detach removes the client from the group of its user. It is safe to call more than once.
func (h *Hub) Detach(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(c)
}

// remove must be called with the lock held.
func (h *Hub) remove(c *Client) {
	group, ok := h.groups[c.userID]
	if !ok {
		return
	}
	if _, ok := group[c]; !ok {
		return
	}
	delete(group, c)
	if len(group) == 0 {
		delete(h.groups, c.userID)
	}
	close(c.send)
	metrics.WebsocketConnections.Dec()
	log.WithField("user", c.userID).WithField("connection", c.id).Debug("chat connection detached")
}

// Online returns the number of open connections of userID on this instance.
func (h *Hub) Online(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[userID])
}

// Broadcast queues the message of the event to every connection of every recipient. Connections
// whose queue is full are dropped; their clients page the history on reconnect.
func (h *Hub) Broadcast(ctx context.Context, event model.ChatEvent) error {
	frame, err := NewFrame(EventMessageRes, event.Message)
	if err != nil {
		return fmt.Errorf("error building frame for message [%s]: %w", event.Message.ID, err)
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("error encoding frame for message [%s]: %w", event.Message.ID, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	seen := make(map[string]struct{}, len(event.Recipients))
	for _, userID := range event.Recipients {
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}
		for c := range h.groups[userID] {
			select {
			case c.send <- payload:
				metrics.ChatDeliveries.WithLabelValues(string(event.Message.MessageType)).Inc()
			default:
				metrics.ChatDrops.Inc()
				log.WithField("user", userID).WithField("connection", c.id).Warn("dropping slow chat connection")
				h.remove(c)
			}
		}
	}
	return nil
}

// Close detaches every connection. Their write pumps send a close frame and exit.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, group := range h.groups {
		for c := range group {
			h.remove(c)
		}
	}
}
