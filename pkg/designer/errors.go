package designer

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("designer: aborted")
	// ErrNoRenderer is returned when a preview is requested but no renderer
	// with the given name is registered.
	ErrNoRenderer = errors.New("designer: no renderer configured")
)
