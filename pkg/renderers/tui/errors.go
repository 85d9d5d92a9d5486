package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C) or declined
	// the final submit confirmation.
	ErrAborted = errors.New("tui: aborted")
	// ErrNoDriver is returned when a session has no prompt driver.
	ErrNoDriver = errors.New("tui: prompt driver is nil")
)
