package port

import (
	"context"

	"github.com/GalacticGlum/glumbot/internal/core/domain"
)

type ScriptHandler interface {
	// Execute runs the script's entry point for one invocation. The sender
	// is exposed to the script so it can reply to the originating channel.
	Execute(ctx context.Context, invocation *domain.Invocation, sender TextSender) error
}

type ScriptResolver interface {
	// Resolve loads the script at path and binds the named entry point.
	// Paths are resolved relative to the definition file's directory.
	Resolve(path, entryPoint string) (ScriptHandler, error)
}
