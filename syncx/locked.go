// Package syncx provides small typed synchronization holders used across
// the module: [Locked] for mutex-guarded values and [Lazy] for set-once
// initialization.
package syncx

import "sync"

// Locked pairs a value with an RWMutex so every access point is forced
// through a lock. The zero value holds the zero value of T and is ready to
// use.
type Locked[T any] struct {
	mu  sync.RWMutex
	val T
}

// NewLocked returns a holder initialized to val.
func NewLocked[T any](val T) *Locked[T] {
	return &Locked[T]{val: val}
}

// Get returns a copy of the held value.
func (l *Locked[T]) Get() T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.val
}

// Set replaces the held value.
func (l *Locked[T]) Set(val T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.val = val
}

// Do runs fn with exclusive access to the held value.
func (l *Locked[T]) Do(fn func(*T)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(&l.val)
}

// RDo runs fn with shared read access to a copy-safe view of the value. fn
// must not mutate through captured references.
func (l *Locked[T]) RDo(fn func(T)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn(l.val)
}
