package port

import (
	"context"

	"github.com/GalacticGlum/glumbot/internal/core/domain"
)

type ChannelAPI interface {
	// UserByLogin resolves a user by their login name.
	UserByLogin(ctx context.Context, login string) (*domain.User, error)
	// IsFollowing reports whether userID follows the broadcaster.
	IsFollowing(ctx context.Context, userID, broadcasterID string) (bool, error)
}
