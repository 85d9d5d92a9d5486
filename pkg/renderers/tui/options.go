package tui

import (
	"io"
	"log/slog"
)

// Theme captures optional prefixes applied to printed messages. Keep minimal
// to avoid coupling session logic to ANSI specifics.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// DefaultTheme is applied when no theme is configured.
var DefaultTheme = Theme{
	ErrorPrefix: "✗ ",
	InfoPrefix:  "",
}

// Option configures the renderer and interactive sessions.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by sessions.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithWriter sets where the survey driver prints informational messages.
// Ignored when a custom driver is supplied.
func WithWriter(w io.Writer) Option {
	return func(r *Renderer) {
		r.out = w
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithConfirmSubmit toggles the final "submit?" confirmation (on by default).
func WithConfirmSubmit(enabled bool) Option {
	return func(r *Renderer) {
		r.confirmSubmit = enabled
	}
}

// WithLogger attaches a logger for session events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
