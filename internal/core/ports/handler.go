package ports

import (
	"context"

	"github.com/rbroggi/matchup/internal/core/model"
)

// ChatEventHandler handles chat events relayed from other instances.
type ChatEventHandler interface {
	// Handle will receive an incoming chat event and handle it.
	Handle(ctx context.Context, event model.ChatEvent) error
}

// AttributeVocabulary is the static list of recognized attributes.
type AttributeVocabulary interface {
	// Recognizes reports whether attribute is valid.
	Recognizes(attribute string) bool
}
