package domain

import (
	"context"
	"fmt"
	"strings"
)

// PermissionCheck decides whether an author may run a command in a channel.
// A non-nil error marks a configuration defect, not a denial.
type PermissionCheck func(ctx context.Context, author User, channel string) (bool, error)

// PermissionLevel gates who may run a command. Levels are totally ordered
// from least to most privileged.
type PermissionLevel int

const (
	Everyone PermissionLevel = iota
	Follower
	Subscriber
	Moderator
	Editor
	Caster
)

var permissionNames = map[PermissionLevel]string{
	Everyone:   "everyone",
	Follower:   "follower",
	Subscriber: "subscriber",
	Moderator:  "moderator",
	Editor:     "editor",
	Caster:     "caster",
}

// PermissionNames returns the serialized name of every level, in order.
// The vocabulary is part of the definition file format and must stay stable.
func PermissionNames() []string {
	names := make([]string, len(permissionNames))
	for level, name := range permissionNames {
		names[level] = name
	}

	return names
}

func (p PermissionLevel) String() string {
	name, ok := permissionNames[p]
	if !ok {
		return fmt.Sprintf("permission(%d)", int(p))
	}

	return name
}

// ParsePermissionLevel resolves a snake_case level name, case-insensitively.
// An empty name resolves to the lowest level.
func ParsePermissionLevel(name string) (PermissionLevel, error) {
	if name == "" {
		return Everyone, nil
	}

	lowered := strings.ToLower(name)
	for level, n := range permissionNames {
		if n == lowered {
			return level, nil
		}
	}

	return Everyone, fmt.Errorf("%w: %q", ErrUnknownPermission, name)
}
