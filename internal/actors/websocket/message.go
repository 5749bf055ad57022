package websocket

import (
	"encoding/json"
)

// Event names a frame exchanged over a chat connection.
type Event string

const (
	// EventChat is sent by clients to post a message to a project.
	EventChat Event = "chat"
	// EventRead is sent by clients when they view the chat of a project.
	EventRead Event = "read"
	// EventMessageRes carries a persisted message to clients.
	EventMessageRes Event = "message-res"
)

// Frame is the envelope of every websocket message.
type Frame struct {
	Event Event           `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ChatData is the payload of an EventChat frame.
type ChatData struct {
	Message string `json:"message"`
	Project string `json:"project"`
}

// ReadData is the payload of an EventRead frame.
type ReadData struct {
	Project string `json:"project"`
}

// NewFrame creates a new frame.
func NewFrame(event Event, data any) (*Frame, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Frame{Event: event, Data: dataBytes}, nil
}
