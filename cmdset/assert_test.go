package cmdset

import (
	"testing"

	"github.com/commandry/commandry/command"
	"github.com/commandry/commandry/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandAssert(t *testing.T) {
	var calls int
	counted := func(owner *Set, src command.Source, args Args) error {
		calls++
		return nil
	}
	wrapped := CommandAssert(func(src command.Source, args Args) *message.Text {
		if args.Int(0) < 0 {
			return message.New("no negatives")
		}
		return nil
	}, counted)

	src := &command.SimpleSource{}
	require.NoError(t, wrapped(nil, src, Args{-1}))
	assert.Zero(t, calls)
	require.NotNil(t, src.LastReply())
	assert.Equal(t, "no negatives", src.LastReply().Plain())

	src = &command.SimpleSource{}
	require.NoError(t, wrapped(nil, src, Args{3}))
	assert.Equal(t, 1, calls)
	assert.Nil(t, src.LastReply())

	assert.Panics(t, func() { CommandAssert(nil, counted) })
}

func TestAssertPlayer(t *testing.T) {
	var calls int
	wrapped := AssertPlayer(func(owner *Set, src command.Source, args Args) error {
		calls++
		return nil
	})

	console := &command.SimpleSource{Console: true}
	require.NoError(t, wrapped(nil, console, nil))
	assert.Zero(t, calls)
	require.NotNil(t, console.LastReply())
	assert.Equal(t, playerOnlyMessage, console.LastReply().Plain())

	player := &command.SimpleSource{Player: true}
	require.NoError(t, wrapped(nil, player, nil))
	assert.Equal(t, 1, calls)
	assert.Nil(t, player.LastReply())
}

func TestAssertConsole(t *testing.T) {
	var calls int
	wrapped := AssertConsole(func(owner *Set, src command.Source, args Args) error {
		calls++
		return nil
	})

	player := &command.SimpleSource{Player: true}
	require.NoError(t, wrapped(nil, player, nil))
	assert.Zero(t, calls)
	assert.Equal(t, consoleOnlyMessage, player.LastReply().Plain())

	console := &command.SimpleSource{Console: true}
	require.NoError(t, wrapped(nil, console, nil))
	assert.Equal(t, 1, calls)
}
