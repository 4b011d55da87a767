package slogx

import (
	"context"
	"errors"
	"log/slog"
	"slices"
)

var _ slog.Handler = (*teeHandler)(nil)

type teeHandler struct {
	handlers []slog.Handler
}

// Tee returns a handler that forwards records to every given handler.
// Each handler keeps its own threshold: a record is delivered only to
// the handlers whose Enabled accepts it, and Handle errors are joined.
// Tee panics when called with no handlers.
func Tee(handlers ...slog.Handler) slog.Handler {
	if len(handlers) == 0 {
		panic("no handlers to tee")
	}
	if len(handlers) == 1 {
		return handlers[0]
	}
	return &teeHandler{handlers: slices.Clone(handlers)}
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range t.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return t
	}
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &teeHandler{handlers: next}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return t
	}
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithGroup(name)
	}
	return &teeHandler{handlers: next}
}
