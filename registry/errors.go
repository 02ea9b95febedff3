package registry

import "errors"

// Sentinel errors for consistent error handling.
var (
	ErrUnknownTool   = errors.New("registry: unknown tool")
	ErrDuplicateTool = errors.New("registry: duplicate tool")
	ErrInvalidState  = errors.New("registry: invalid state")
	ErrInvalidPath   = errors.New("registry: invalid path")
)
