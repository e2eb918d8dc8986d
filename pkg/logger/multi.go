package logger

import (
	"context"
	"errors"
	"log/slog"
)

// fanout hands each record to every child handler that accepts its level.
type fanout []slog.Handler

// Multi returns a logger that writes every record to each of loggers, for
// example pretty terminal output plus a JSON log file. Nil loggers are
// skipped. A failing handler does not stop the others; their errors are
// joined.
func Multi(loggers ...*slog.Logger) *slog.Logger {
	handlers := make(fanout, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			handlers = append(handlers, l.Handler())
		}
	}
	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(handlers)
}

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		// Handlers may retain attrs, so each gets its own copy.
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f fanout) WithGroup(name string) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f fanout) each(derive func(slog.Handler) slog.Handler) fanout {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = derive(h)
	}
	return out
}
