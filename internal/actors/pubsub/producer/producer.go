package producer

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/rbroggi/matchup/internal/actors/metrics"
	wire "github.com/rbroggi/matchup/internal/actors/pubsub"
	"github.com/rbroggi/matchup/internal/core/model"
)

// NewProducer creates a new producer.
func NewProducer(topic *pubsub.Topic) (*Producer, error) {
	if topic == nil {
		return nil, errors.New("topic is nil")
	}
	return &Producer{topic: topic}, nil
}

// Producer publishes chat events to the topic every instance subscribes to. It implements
// ports.Broadcaster: the local delivery happens when this instance receives its own event back.
type Producer struct {
	topic *pubsub.Topic
}

// Broadcast publishes event and blocks until the server acknowledges it.
func (p *Producer) Broadcast(ctx context.Context, event model.ChatEvent) error {
	data, err := wire.EncodeChatEvent(event)
	if err != nil {
		metrics.RelayedEvents.WithLabelValues("out", "error").Inc()
		return err
	}
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{wire.ProjectAttribute: event.Message.Project},
	})
	// Block until the result is returned and a server-generated
	// ID is returned for the published message.
	if _, err := result.Get(ctx); err != nil {
		metrics.RelayedEvents.WithLabelValues("out", "error").Inc()
		return fmt.Errorf("pubsub: result.Get: %w", err)
	}
	metrics.RelayedEvents.WithLabelValues("out", "ok").Inc()
	return nil
}
