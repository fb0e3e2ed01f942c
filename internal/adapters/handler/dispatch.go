package handler

import (
	"context"
	"strings"

	"github.com/GalacticGlum/glumbot/internal/core/domain"
	"github.com/GalacticGlum/glumbot/internal/core/domain/command"
	"github.com/GalacticGlum/glumbot/internal/core/port"
	"github.com/GalacticGlum/glumbot/internal/core/service"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// Dispatcher routes inbound messages to registered commands: prefix match,
// permission check, argument parse, then response emission and script
// invocation. One message is fully handled before the next begins.
type Dispatcher struct {
	registry *command.Registry
	sender   port.TextSender
	cooldown *service.Cooldown
	prefix   string
}

func NewDispatcher(registry *command.Registry, sender port.TextSender, cooldown *service.Cooldown,
	prefix string) *Dispatcher {
	return &Dispatcher{registry: registry, sender: sender, cooldown: cooldown, prefix: prefix}
}

func (d *Dispatcher) Handle(ctx context.Context, message *domain.Message) {
	if message.Self || !strings.HasPrefix(message.Text, d.prefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(message.Text, d.prefix))
	if len(fields) == 0 {
		return
	}

	cmd, err := d.registry.Lookup(fields[0])
	if err != nil {
		log.Debug().Str("command", fields[0]).Msg("no handler for command")
		return
	}

	l := log.With().
		Str("command", cmd.Name).
		Str("channel", message.Channel).
		Str("author", message.Author.Name).
		Logger()

	if d.cooldown != nil && !d.cooldown.Ready(message.Channel, cmd.Name) {
		return
	}

	allowed, err := cmd.Check(ctx, message.Author, message.Channel)
	if err != nil {
		l.Error().Err(err).Stringer("permission", cmd.Permission).Msg("permission check failed")
		return
	}

	if !allowed {
		l.Debug().Stringer("permission", cmd.Permission).Msg("permission denied")
		return
	}

	args, err := cmd.Parser.Parse(fields[1:])
	if err != nil {
		// Parse failures go back to the channel, not to the logs.
		if sendErr := d.sender.Send(ctx, message.Channel, err.Error()); sendErr != nil {
			l.Error().Err(sendErr).Msg("failed to send parse error reply")
		}
		return
	}

	l.Info().Msg("handling command")

	if cmd.Response != "" {
		if err := d.sender.Send(ctx, message.Channel, cmd.Response); err != nil {
			l.Error().Err(err).Msg("failed to send response")
		}
	}

	if cmd.Script != nil {
		invocation := &domain.Invocation{
			ID:      newInvocationID(),
			Message: message,
			Params:  cmd.Params,
			Args:    args,
		}

		if err := cmd.Script.Execute(ctx, invocation, d.sender); err != nil {
			l.Error().Err(err).Str("invocation", invocation.ID).Msg("command handler failed")
		}
	}
}

func newInvocationID() string {
	id, err := uuid.NewV4()
	if err != nil {
		log.Warn().Err(err).Msg("could not generate invocation id")
		return ""
	}

	return id.String()
}
