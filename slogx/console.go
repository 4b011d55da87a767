// Package slogx provides slog handlers suited to interactive console
// sessions.
package slogx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/commandry/commandry/message"
)

// ConsoleOptions configures a [ConsoleHandler]. The zero value logs at
// [slog.LevelInfo] without color.
type ConsoleOptions struct {
	// Level is the minimum record level that will be logged.
	Level slog.Leveler
	// ANSI enables colored output. Leave it off when the writer is not a
	// terminal.
	ANSI bool
	// TimeFormat overrides the default "15:04:05" timestamp layout.
	TimeFormat string
}

var _ slog.Handler = (*ConsoleHandler)(nil)

// ConsoleHandler formats records as single human-readable lines: a
// timestamp, a colored level word, the message, then key=value
// attributes. Group names flatten into dotted key prefixes, and a
// repeated key keeps only its latest value, so long-lived loggers do not
// accumulate duplicate attributes.
type ConsoleHandler struct {
	opts  ConsoleOptions
	out   io.Writer
	mu    *sync.Mutex
	group string
	index map[string]int
	attrs []slog.Attr
}

// NewConsoleHandler writes formatted records to out. A nil opts uses the
// zero [ConsoleOptions].
func NewConsoleHandler(out io.Writer, opts *ConsoleOptions) *ConsoleHandler {
	if out == nil {
		panic("nil output writer")
	}
	h := &ConsoleHandler{
		out:   out,
		mu:    new(sync.Mutex),
		index: map[string]int{},
	}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.TimeFormat == "" {
		h.opts.TimeFormat = "15:04:05"
	}
	return h
}

func (h *ConsoleHandler) clone() *ConsoleHandler {
	cp := &ConsoleHandler{
		opts:  h.opts,
		out:   h.out,
		mu:    h.mu,
		group: h.group,
		index: make(map[string]int, len(h.index)),
		attrs: slices.Clone(h.attrs),
	}
	maps.Copy(cp.index, h.index)
	return cp
}

func (h *ConsoleHandler) prefix() string {
	if h.group == "" {
		return ""
	}
	return h.group + "."
}

// merge folds attrs into the handler state, prefixing keys with the
// current group and replacing the earlier value of any repeated key.
func (h *ConsoleHandler) merge(attrs []slog.Attr) {
	prefix := h.prefix()
	for _, attr := range attrs {
		if attr.Equal(slog.Attr{}) {
			continue
		}
		attr.Key = prefix + attr.Key
		if i, ok := h.index[attr.Key]; ok {
			h.attrs[i] = attr
			continue
		}
		h.index[attr.Key] = len(h.attrs)
		h.attrs = append(h.attrs, attr)
	}
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *ConsoleHandler) Handle(_ context.Context, record slog.Record) error {
	attrs := h.attrs
	if n := record.NumAttrs(); n > 0 {
		inline := make([]slog.Attr, 0, n)
		record.Attrs(func(attr slog.Attr) bool {
			inline = append(inline, attr)
			return true
		})
		cp := h.clone()
		cp.merge(inline)
		attrs = cp.attrs
	}
	var sb strings.Builder
	if !record.Time.IsZero() {
		h.style(&sb, record.Time.Format(h.opts.TimeFormat), message.DarkGray)
		sb.WriteByte(' ')
	}
	h.style(&sb, fmt.Sprintf("%-5s", record.Level.String()), levelColor(record.Level))
	sb.WriteByte(' ')
	sb.WriteString(record.Message)
	for _, attr := range attrs {
		sb.WriteByte(' ')
		h.style(&sb, attr.Key, message.DarkAqua)
		sb.WriteByte('=')
		sb.WriteString(quote(attr.Value.String()))
	}
	sb.WriteByte('\n')
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	cp := h.clone()
	cp.merge(attrs)
	return cp
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	cp := h.clone()
	cp.group = cp.prefix() + name
	return cp
}

func (h *ConsoleHandler) style(sb *strings.Builder, s string, c message.Color) {
	if !h.opts.ANSI {
		sb.WriteString(s)
		return
	}
	sb.WriteString(message.Styled(s, c).ANSI())
}

func levelColor(l slog.Level) message.Color {
	switch {
	case l >= slog.LevelError:
		return message.Red
	case l >= slog.LevelWarn:
		return message.Yellow
	case l >= slog.LevelInfo:
		return message.Green
	default:
		return message.DarkGray
	}
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"") {
		return strconv.Quote(s)
	}
	return s
}
