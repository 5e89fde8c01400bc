package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoObject is returned when Edit is called without an object.
	ErrNoObject = errors.New("tui: object is required")
)
