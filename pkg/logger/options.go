package logger

import (
	"io"
	"log/slog"
	"os"
)

// Format selects the slog handler built by New.
type Format int

const (
	// FormatText is slog's key=value text handler.
	FormatText Format = iota

	// FormatJSON is slog's JSON handler, one object per line.
	FormatJSON

	// FormatPretty is the charmbracelet/log handler for interactive use.
	FormatPretty
)

// FormatFor returns FormatPretty when w is a terminal and FormatJSON
// otherwise, so a proxy under a supervisor emits machine readable lines.
func FormatFor(w io.Writer) Format {
	if f, ok := w.(*os.File); ok && IsTerminal(f) {
		return FormatPretty
	}
	return FormatJSON
}

// Option configures a logger created with New.
type Option func(*config)

// WithDebug lowers the level to debug.
func WithDebug(debug bool) Option {
	return func(c *config) {
		c.level = slog.LevelInfo
		if debug {
			c.level = slog.LevelDebug
		}
	}
}

// WithFormat picks the handler.
func WithFormat(f Format) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithWriter sets the destinations. Several writers receive every record
// through io.MultiWriter.
func WithWriter(w ...io.Writer) Option {
	return func(c *config) {
		c.writers = w
	}
}

// WithSource adds the caller's file:line to every record.
func WithSource(source bool) Option {
	return func(c *config) {
		c.source = source
	}
}
