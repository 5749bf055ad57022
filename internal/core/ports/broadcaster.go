package ports

import (
	"context"

	"github.com/rbroggi/matchup/internal/core/model"
)

// Broadcaster is the port for delivering chat events to the connections of their recipients.
type Broadcaster interface {
	// Broadcast delivers the event to every connection of every recipient. Delivery is best
	// effort: only connections open at emit time receive it.
	Broadcast(ctx context.Context, event model.ChatEvent) error
}
