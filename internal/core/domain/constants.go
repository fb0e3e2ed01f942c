package domain

import "errors"

var (
	ErrCommandNotFound        = errors.New("command not found")
	ErrScriptNotFound         = errors.New("script file not found")
	ErrBadEntryPoint          = errors.New("invalid script entry point")
	ErrUnknownPermission      = errors.New("unknown permission level")
	ErrPermissionNotSupported = errors.New("permission level not supported")
)
