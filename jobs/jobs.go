// Package jobs serializes named long-running operations: at most one job
// runs at a time, later arrivals either wait, fail fast, or bounce off with
// a busy reply. Jobs may span goroutines through nested hold counting.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/commandry/commandry/cmdset"
	"github.com/commandry/commandry/command"
	"github.com/commandry/commandry/message"
	"golang.org/x/sync/semaphore"
)

// Manager owns the single job slot. Build one with NewManager; the zero
// value is not usable.
type Manager struct {
	sem *semaphore.Weighted
	log *slog.Logger

	mu    sync.Mutex
	name  string
	depth int
}

// ManagerOption adjusts a Manager at construction.
type ManagerOption func(*Manager)

// WithLogger sets the logger used for job lifecycle reporting.
func WithLogger(log *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager builds an idle manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		sem: semaphore.NewWeighted(1),
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns the running job's name, and whether one is running.
func (m *Manager) Current() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name, m.depth > 0
}

// Idle reports whether no job is running.
func (m *Manager) Idle() bool {
	_, busy := m.Current()
	return !busy
}

// Begin claims the job slot for name, waiting for a running job to finish.
// It returns the context's error when ctx ends first.
func (m *Manager) Begin(ctx context.Context, name string) error {
	if err := m.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	m.claim(name)
	return nil
}

// TryBegin claims the job slot for name without waiting, reporting whether
// the claim succeeded.
func (m *Manager) TryBegin(name string) bool {
	if !m.sem.TryAcquire(1) {
		return false
	}
	m.claim(name)
	return true
}

func (m *Manager) claim(name string) {
	m.mu.Lock()
	m.name, m.depth = name, 1
	m.mu.Unlock()
	m.log.Debug("job started", "job", name)
}

// Prepare adds a hold on the running job, for work handed to another
// goroutine. Each hold needs a matching [Manager.After]. Calling Prepare
// with no running job panics.
func (m *Manager) Prepare() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.depth == 0 {
		panic("prepare called with no running job")
	}
	m.depth++
}

// After drops one hold on the running job, releasing the slot when the last
// hold ends. After with no running job is a no-op.
func (m *Manager) After() {
	m.mu.Lock()
	if m.depth == 0 {
		m.mu.Unlock()
		return
	}
	m.depth--
	done := m.depth == 0
	name := m.name
	if done {
		m.name = ""
	}
	m.mu.Unlock()
	if done {
		m.log.Debug("job finished", "job", name)
		m.sem.Release(1)
	}
}

// JobOption adjusts one wrapped handler.
type JobOption func(*jobConfig)

type jobConfig struct {
	blocking bool
}

// Blocking makes the wrapped handler wait for the slot instead of bouncing
// off a running job.
func Blocking() JobOption {
	return func(cfg *jobConfig) {
		cfg.blocking = true
	}
}

// Func wraps h so it runs as the named job. When another job is running a
// non-blocking wrapper skips h: a source gets the red busy reply, a
// sourceless call is logged instead.
func (m *Manager) Func(name string, h cmdset.Handler, opts ...JobOption) cmdset.Handler {
	var cfg jobConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return func(owner *cmdset.Set, src command.Source, args cmdset.Args) error {
		if cfg.blocking {
			if err := m.Begin(context.Background(), name); err != nil {
				return err
			}
		} else if !m.acquireOrReport(name, src) {
			return nil
		}
		defer m.After()
		return h(owner, src, args)
	}
}

func (m *Manager) acquireOrReport(name string, src command.Source) bool {
	for {
		if m.TryBegin(name) {
			return true
		}
		running, busy := m.Current()
		if !busy {
			// The running job finished between the two checks.
			continue
		}
		if src != nil {
			src.Reply(message.Styled(fmt.Sprintf("In progress %s now", running), message.Red))
		} else {
			m.log.Warn("job in progress, cannot start another", "running", running, "job", name)
		}
		return false
	}
}
