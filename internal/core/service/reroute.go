package service

import (
	"context"
	"strings"

	"github.com/GalacticGlum/glumbot/internal/core/domain"
	"github.com/GalacticGlum/glumbot/internal/core/port"
	"github.com/rs/zerolog/log"
)

// Rerouter sits in front of the dispatcher. Messages starting with the query
// prefix are classified and re-injected with the predicted label as content;
// everything else passes through unchanged.
type Rerouter struct {
	classifier port.Classifier
	next       port.MessageHandler
	prefix     string
	enabled    bool
}

func NewRerouter(classifier port.Classifier, next port.MessageHandler, prefix string, enabled bool) *Rerouter {
	return &Rerouter{classifier: classifier, next: next, prefix: prefix, enabled: enabled}
}

func (r *Rerouter) Handle(ctx context.Context, message *domain.Message) {
	if !r.enabled || !strings.HasPrefix(message.Text, r.prefix) {
		r.next.Handle(ctx, message)
		return
	}

	clean := strings.TrimSpace(strings.TrimPrefix(message.Text, r.prefix))
	if clean == "" {
		log.Debug().Str("channel", message.Channel).Msg("empty query, suppressing message")
		return
	}

	label, confidence, err := r.classifier.Predict(ctx, clean)
	if err != nil {
		log.Error().Err(err).Str("query", clean).Msg("classifier prediction failed")
		return
	}

	log.Info().
		Str("query", clean).
		Str("prediction", label).
		Float64("confidence", confidence).
		Msg("matched query")

	synthetic := *message
	synthetic.Text = label
	r.next.Handle(ctx, &synthetic)
}
