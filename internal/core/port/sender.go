package port

import (
	"context"

	"github.com/GalacticGlum/glumbot/internal/core/domain"
)

type TextSender interface {
	// Send delivers a text line to the given channel.
	Send(ctx context.Context, channel, text string) error
}

type MessageHandler interface {
	// Handle processes one inbound message end to end.
	Handle(ctx context.Context, message *domain.Message)
}
