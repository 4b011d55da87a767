// Package watch routes observed output lines to registered watchers. A
// watcher is a callback with an optional filter, a dispatch priority, and an
// optional single-shot mode; registration returns a cancel closure. Dispatch
// is synchronous so a watcher sees lines in arrival order.
package watch

import (
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/commandry/commandry/syncx"
)

// DefaultPriority is the dispatch priority watchers get unless overridden.
// Lower values run earlier.
const DefaultPriority = 1000

// Info is one observed line. IsUser marks lines typed by a participant as
// opposed to lines produced by the serviced program.
type Info struct {
	Content string
	IsUser  bool
}

// Callback receives a matching line.
type Callback func(info Info)

// Option adjusts one watcher registration.
type Option func(*watcher)

// MatchPattern keeps lines whose whole content matches pat.
func MatchPattern(pat *regexp.Regexp) Option {
	return MatchFunc(func(info Info) bool {
		loc := pat.FindStringIndex(info.Content)
		return loc != nil && loc[0] == 0 && loc[1] == len(info.Content)
	})
}

// MatchContains keeps lines containing sub.
func MatchContains(sub string) Option {
	return MatchFunc(func(info Info) bool {
		return strings.Contains(info.Content, sub)
	})
}

// MatchFunc keeps lines for which fn returns true. Multiple match options
// on one watcher must all pass.
func MatchFunc(fn func(Info) bool) Option {
	if fn == nil {
		panic("a watch filter must not be nil")
	}
	return func(w *watcher) {
		w.filters = append(w.filters, fn)
	}
}

// Once unregisters the watcher after its first matching line.
func Once() Option {
	return func(w *watcher) {
		w.once = true
	}
}

// Priority sets the dispatch priority; lower runs earlier. Watchers with
// equal priority run in registration order.
func Priority(p int) Option {
	return func(w *watcher) {
		w.priority = p
	}
}

type watcher struct {
	cb       Callback
	filters  []func(Info) bool
	once     bool
	priority int
	active   atomic.Bool
}

func (w *watcher) matches(info Info) bool {
	for _, f := range w.filters {
		if !f(info) {
			return false
		}
	}
	return true
}

// Hub fans observed lines out to watchers. The zero value is not usable;
// build one with NewHub.
type Hub struct {
	watchers syncx.Locked[[]*watcher]
	log      *slog.Logger
}

// HubOption adjusts a Hub at construction.
type HubOption func(*Hub)

// WithLogger sets the logger used to report watcher panics.
func WithLogger(log *slog.Logger) HubOption {
	return func(h *Hub) {
		h.log = log
	}
}

// NewHub builds an empty hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{log: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Watch registers cb and returns a closure that unregisters it. Calling the
// closure more than once is harmless.
func (h *Hub) Watch(cb Callback, opts ...Option) func() {
	if cb == nil {
		panic("a watch callback must not be nil")
	}
	w := &watcher{cb: cb, priority: DefaultPriority}
	for _, opt := range opts {
		opt(w)
	}
	w.active.Store(true)
	h.watchers.Do(func(ws *[]*watcher) {
		*ws = append(*ws, w)
		slices.SortStableFunc(*ws, func(a, b *watcher) int {
			return a.priority - b.priority
		})
	})
	return func() {
		if !w.active.CompareAndSwap(true, false) {
			return
		}
		h.prune()
	}
}

// Dispatch runs every active matching watcher against info in priority
// order. A watcher panic is logged and does not stop the remaining
// watchers.
func (h *Hub) Dispatch(info Info) {
	var snapshot []*watcher
	h.watchers.RDo(func(ws []*watcher) {
		snapshot = slices.Clone(ws)
	})
	fired := false
	for _, w := range snapshot {
		if !w.active.Load() || !w.matches(info) {
			continue
		}
		if w.once {
			// Claim the single shot before running so a reentrant
			// dispatch cannot double-fire it.
			if !w.active.CompareAndSwap(true, false) {
				continue
			}
			fired = true
		}
		h.run(w, info)
	}
	if fired {
		h.prune()
	}
}

// Len returns the number of registered watchers.
func (h *Hub) Len() int {
	n := 0
	h.watchers.RDo(func(ws []*watcher) {
		n = len(ws)
	})
	return n
}

func (h *Hub) run(w *watcher, info Info) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("watcher panicked", "error", r, "content", info.Content)
		}
	}()
	w.cb(info)
}

func (h *Hub) prune() {
	h.watchers.Do(func(ws *[]*watcher) {
		*ws = slices.DeleteFunc(*ws, func(w *watcher) bool {
			return !w.active.Load()
		})
	})
}
