package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/commandry/commandry/cmdset"
	"github.com/commandry/commandry/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietManager() *Manager {
	return NewManager(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestLifecycle(t *testing.T) {
	m := quietManager()
	assert.True(t, m.Idle())

	require.True(t, m.TryBegin("backup"))
	name, busy := m.Current()
	assert.True(t, busy)
	assert.Equal(t, "backup", name)
	assert.False(t, m.TryBegin("restore"))

	m.After()
	assert.True(t, m.Idle())
	assert.True(t, m.TryBegin("restore"))
	m.After()

	assert.NotPanics(t, func() { m.After() }, "after with no job is a no-op")
}

func TestPrepareNesting(t *testing.T) {
	m := quietManager()
	require.True(t, m.TryBegin("backup"))
	m.Prepare()
	m.After()
	assert.False(t, m.Idle(), "one hold remains")
	m.After()
	assert.True(t, m.Idle())

	assert.Panics(t, func() { m.Prepare() }, "prepare needs a running job")
}

func TestBeginHonorsContext(t *testing.T) {
	m := quietManager()
	require.True(t, m.TryBegin("long"))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Begin(ctx, "waiting")
	}()
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	m.After()
	require.NoError(t, m.Begin(context.Background(), "next"))
	m.After()
}

func TestFuncBusyReply(t *testing.T) {
	m := quietManager()
	var calls int
	wrapped := m.Func("backup", func(owner *cmdset.Set, src command.Source, args cmdset.Args) error {
		calls++
		return nil
	})

	require.True(t, m.TryBegin("restore"))

	src := &command.SimpleSource{}
	require.NoError(t, wrapped(nil, src, nil))
	assert.Zero(t, calls)
	require.NotNil(t, src.LastReply())
	assert.Equal(t, "In progress restore now", src.LastReply().Plain())

	assert.NoError(t, wrapped(nil, nil, nil), "sourceless calls only log")
	assert.Zero(t, calls)

	m.After()
	require.NoError(t, wrapped(nil, src, nil))
	assert.Equal(t, 1, calls)
	assert.True(t, m.Idle(), "the wrapper releases the slot")
}

func TestFuncBlocking(t *testing.T) {
	m := quietManager()
	var calls int
	wrapped := m.Func("backup", func(owner *cmdset.Set, src command.Source, args cmdset.Args) error {
		calls++
		return nil
	}, Blocking())

	require.True(t, m.TryBegin("warmup"))
	done := make(chan error, 1)
	go func() {
		done <- wrapped(nil, nil, nil)
	}()
	m.After()

	require.NoError(t, <-done)
	assert.Equal(t, 1, calls)
	assert.True(t, m.Idle())
}
