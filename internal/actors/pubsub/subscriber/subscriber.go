package subscriber

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/rbroggi/matchup/internal/actors/metrics"
	wire "github.com/rbroggi/matchup/internal/actors/pubsub"
	"github.com/rbroggi/matchup/internal/core/model"
	"github.com/rbroggi/matchup/internal/core/ports"

	log "github.com/sirupsen/logrus"
)

// SubscriberArgs contain the mandatory arguments to build a subscriber.
type SubscriberArgs struct {
	// Subscription is the pubsub subscription of this instance.
	Subscription *pubsub.Subscription

	// ChatEventHandler delivers the relayed events locally.
	ChatEventHandler ports.ChatEventHandler
}

// Subscriber is a pubsub async subscriber
type Subscriber struct {
	subscription     *pubsub.Subscription
	chatEventHandler ports.ChatEventHandler
}

// NewSubscriber creates a subscriber
func NewSubscriber(args SubscriberArgs) *Subscriber {
	return &Subscriber{
		subscription:     args.Subscription,
		chatEventHandler: args.ChatEventHandler,
	}
}

// Consume starts the subscriber. This is a blocking method and should be started in it's own go-routine.
// The way to terminate the method is to cancel the context in input.
func (s *Subscriber) Consume(ctx context.Context) error {
	if err := s.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if s.process(ctx, msg) {
			msg.Ack()
		} else {
			msg.Nack()
		}
	}); err != nil {
		return fmt.Errorf("error receiving messages from subscription: %w", err)
	}
	return nil
}

// process reports whether msg should be acknowledged. Undecodable messages are acknowledged:
// redelivery cannot fix them.
func (s *Subscriber) process(ctx context.Context, msg *pubsub.Message) bool {
	event, err := decodeMsgIntoChatEvent(msg)
	if err != nil {
		log.WithError(err).Error("error decoding message into chat-event")
		metrics.RelayedEvents.WithLabelValues("in", "malformed").Inc()
		return true
	}
	if err := s.chatEventHandler.Handle(ctx, *event); err != nil {
		log.WithError(err).WithField("event", event.ID).Error("error in chat event handler")
		metrics.RelayedEvents.WithLabelValues("in", "error").Inc()
		return false
	}
	metrics.RelayedEvents.WithLabelValues("in", "ok").Inc()
	return true
}

func decodeMsgIntoChatEvent(msg *pubsub.Message) (*model.ChatEvent, error) {
	if msg == nil {
		return nil, errors.New("cannot decode nil pubsub msg")
	}
	event, err := wire.DecodeChatEvent(msg.Data)
	if err != nil {
		return nil, err
	}
	if event.ID == "" {
		event.ID = msg.ID
	}
	return event, nil
}
