package syncx

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocked(t *testing.T) {
	l := NewLocked(10)
	assert.Equal(t, 10, l.Get())

	l.Set(11)
	assert.Equal(t, 11, l.Get())

	l.Do(func(v *int) { *v += 4 })
	assert.Equal(t, 15, l.Get())

	var seen int
	l.RDo(func(v int) { seen = v })
	assert.Equal(t, 15, seen)
}

func TestLockedConcurrent(t *testing.T) {
	l := NewLocked(0)
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Do(func(v *int) { *v++ })
		}()
	}
	wg.Wait()
	assert.Equal(t, 64, l.Get())
}

func TestLazy(t *testing.T) {
	var l Lazy[string]
	assert.False(t, l.Initialized())
	assert.Panics(t, func() { l.MustGet() })

	_, ok := l.Get()
	assert.False(t, ok)

	l.Set("ready")
	assert.True(t, l.Initialized())
	assert.Equal(t, "ready", l.MustGet())
	assert.Panics(t, func() { l.Set("again") })
}
