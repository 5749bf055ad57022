// Package pubsub holds the wire format of chat events relayed between instances.
package pubsub

import (
	"errors"
	"fmt"
	"time"

	"github.com/rbroggi/matchup/internal/core/model"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProjectAttribute is the message attribute carrying the project of the event.
const ProjectAttribute = "project"

// EncodeChatEvent serializes event as a protobuf Struct.
func EncodeChatEvent(event model.ChatEvent) ([]byte, error) {
	recipients := make([]any, 0, len(event.Recipients))
	for _, r := range event.Recipients {
		recipients = append(recipients, r)
	}
	msg := event.Message
	s, err := structpb.NewStruct(map[string]any{
		"id":         event.ID,
		"recipients": recipients,
		"message": map[string]any{
			"id":          msg.ID,
			"message":     msg.Message,
			"project":     msg.Project,
			"sender":      msg.Sender,
			"createdAt":   msg.CreatedAt.UTC().Format(time.RFC3339Nano),
			"messageType": string(msg.MessageType),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error building chat event struct: %w", err)
	}
	data, err := proto.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("error marshaling chat event proto message: %w", err)
	}
	return data, nil
}

// DecodeChatEvent is the inverse of EncodeChatEvent.
func DecodeChatEvent(data []byte) (*model.ChatEvent, error) {
	s := new(structpb.Struct)
	if err := proto.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("error unmarshaling chat event proto message: %w", err)
	}
	fields := s.GetFields()

	message := fields["message"].GetStructValue()
	if message == nil {
		return nil, errors.New("chat event has no message")
	}
	mf := message.GetFields()
	createdAt, err := time.Parse(time.RFC3339Nano, mf["createdAt"].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("invalid createdAt: %w", err)
	}

	recipients := []string{}
	for _, v := range fields["recipients"].GetListValue().GetValues() {
		recipients = append(recipients, v.GetStringValue())
	}

	return &model.ChatEvent{
		ID:         fields["id"].GetStringValue(),
		Recipients: recipients,
		Message: model.ChatMessage{
			ID:          mf["id"].GetStringValue(),
			Message:     mf["message"].GetStringValue(),
			Project:     mf["project"].GetStringValue(),
			Sender:      mf["sender"].GetStringValue(),
			CreatedAt:   createdAt,
			MessageType: model.MessageType(mf["messageType"].GetStringValue()),
		},
	}, nil
}
