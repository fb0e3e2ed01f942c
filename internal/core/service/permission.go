package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/GalacticGlum/glumbot/internal/core/domain"
	"github.com/GalacticGlum/glumbot/internal/core/port"
	"github.com/rs/zerolog/log"
)

// Evaluator maps permission levels to predicates over (author, channel).
type Evaluator struct {
	api     port.ChannelAPI
	mutex   sync.Mutex
	casters map[string]*domain.User
}

func NewEvaluator(api port.ChannelAPI) *Evaluator {
	return &Evaluator{
		api:     api,
		casters: make(map[string]*domain.User),
	}
}

// CasterFor resolves the channel-owning user. The result is memoized per
// channel for the lifetime of the process; entries never expire.
func (e *Evaluator) CasterFor(ctx context.Context, channel string) (*domain.User, error) {
	e.mutex.Lock()
	caster, ok := e.casters[channel]
	e.mutex.Unlock()

	if ok {
		return caster, nil
	}

	caster, err := e.api.UserByLogin(ctx, channel)
	if err != nil {
		return nil, fmt.Errorf("could not resolve caster for channel %q: %w", channel, err)
	}

	log.Debug().Str("channel", channel).Str("casterId", caster.ID).Msg("caching caster identity")

	e.mutex.Lock()
	e.casters[channel] = caster
	e.mutex.Unlock()

	return caster, nil
}

// CheckFor returns the predicate for a permission level. Evaluating the
// Editor level fails with a configuration-defect error rather than denying.
func (e *Evaluator) CheckFor(level domain.PermissionLevel) domain.PermissionCheck {
	switch level {
	case domain.Everyone:
		return func(context.Context, domain.User, string) (bool, error) {
			return true, nil
		}
	case domain.Follower:
		return func(ctx context.Context, author domain.User, channel string) (bool, error) {
			caster, err := e.CasterFor(ctx, channel)
			if err != nil {
				return false, err
			}

			return e.api.IsFollowing(ctx, author.ID, caster.ID)
		}
	case domain.Subscriber:
		return func(_ context.Context, author domain.User, _ string) (bool, error) {
			return author.IsSubscriber, nil
		}
	case domain.Moderator:
		return func(_ context.Context, author domain.User, _ string) (bool, error) {
			return author.IsMod, nil
		}
	case domain.Caster:
		return func(ctx context.Context, author domain.User, channel string) (bool, error) {
			caster, err := e.CasterFor(ctx, channel)
			if err != nil {
				return false, err
			}

			return caster.ID == author.ID, nil
		}
	default:
		return func(context.Context, domain.User, string) (bool, error) {
			return false, fmt.Errorf("%w: %s", domain.ErrPermissionNotSupported, level)
		}
	}
}
