package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rbroggi/matchup/internal/core/model"
	log "github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 8192

	// Frames buffered per connection before it is considered slow.
	sendBuffer = 256
)

// Client is one chat connection of an authenticated user.
type Client struct {
	// id identifies the connection in logs.
	id string

	userID string

	conn *websocket.Conn

	// send is the buffered queue of outbound frames. Only the hub closes it.
	send chan []byte

	hub  *Hub
	chat ChatUsecase
}

func newClient(hub *Hub, conn *websocket.Conn, userID string, chat ChatUsecase) *Client {
	return &Client{
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		hub:    hub,
		chat:   chat,
	}
}

// readPump dispatches inbound frames until the connection fails.
func (c *Client) readPump() {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		c.hub.Detach(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).WithField("connection", c.id).Warn("chat connection closed unexpectedly")
			}
			return
		}
		c.dispatch(ctx, payload)
	}
}

// dispatch handles one inbound frame. There is no reply: failures are logged and dropped.
func (c *Client) dispatch(ctx context.Context, payload []byte) {
	logger := log.WithField("user", c.userID).WithField("connection", c.id)

	var frame Frame
	if err := json.Unmarshal(payload, &frame); err != nil {
		logger.WithError(err).Warn("malformed chat frame")
		return
	}
	logger = logger.WithField("event", frame.Event)

	switch frame.Event {
	case EventChat:
		var data ChatData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			logger.WithError(err).Warn("malformed chat payload")
			return
		}
		if _, err := c.chat.SendMessage(ctx, model.SendMessageArgs{SenderID: c.userID, ProjectID: data.Project, Message: data.Message}); err != nil {
			logger.WithError(err).WithField("project", data.Project).Error("error sending chat message")
		}
	case EventRead:
		var data ReadData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			logger.WithError(err).Warn("malformed read payload")
			return
		}
		if _, err := c.chat.MarkRead(ctx, model.MarkReadArgs{SenderID: c.userID, ProjectID: data.Project}); err != nil {
			logger.WithError(err).WithField("project", data.Project).Error("error marking chat as read")
		}
	default:
		logger.Warn("unknown chat event")
	}
}

// writePump writes queued frames and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
