package usecase

import (
	"context"
	"fmt"

	"github.com/rbroggi/matchup/internal/core/model"
	"github.com/rbroggi/matchup/internal/core/ports"
)

// NewInformer builds a new informer.
func NewInformer(local ports.Broadcaster) *Informer {
	return &Informer{local: local}
}

// Informer relays chat events published by any instance to the connections held by this one.
type Informer struct {
	local ports.Broadcaster
}

// Handle delivers the event to the local connections of its recipients.
func (i *Informer) Handle(ctx context.Context, event model.ChatEvent) error {
	// nobody to inform
	if len(event.Recipients) == 0 {
		return nil
	}

	// a message without a project cannot be routed by clients
	if event.Message.Project == "" {
		return nil
	}

	if err := i.local.Broadcast(ctx, event); err != nil {
		return fmt.Errorf("error delivering chat event ID [%s]: %w", event.ID, err)
	}

	return nil
}
