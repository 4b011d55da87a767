package syncx

import "sync"

// Lazy is a set-once holder for values that exist only after startup, like
// a handle on a live service. Reads before initialization are programmer
// errors and panic, as does a second Set.
type Lazy[T any] struct {
	mu   sync.RWMutex
	val  T
	done bool
}

// Set stores the value. Setting twice panics.
func (l *Lazy[T]) Set(val T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		panic("lazy value initialized twice")
	}
	l.val = val
	l.done = true
}

// Get returns the value and whether it has been set.
func (l *Lazy[T]) Get() (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.val, l.done
}

// MustGet returns the value, panicking when it has not been set yet.
func (l *Lazy[T]) MustGet() T {
	v, ok := l.Get()
	if !ok {
		panic("lazy value read before initialization")
	}
	return v
}

// Initialized reports whether Set has been called.
func (l *Lazy[T]) Initialized() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.done
}
