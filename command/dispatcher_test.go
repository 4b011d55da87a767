package command

import (
	"errors"
	"testing"

	"github.com/commandry/commandry/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDispatcher(t *testing.T, roots ...Node) *Dispatcher {
	t.Helper()
	d := NewDispatcher()
	for _, root := range roots {
		require.NoError(t, d.Register(root))
	}
	return d
}

func TestRegister(t *testing.T) {
	t.Run("duplicate word", func(t *testing.T) {
		d := testDispatcher(t, Literal("save"))
		err := d.Register(Literal("save"))
		assert.ErrorIs(t, err, ErrDuplicateCommand)
	})
	t.Run("alias collision", func(t *testing.T) {
		d := testDispatcher(t, Literal("save", "s"))
		err := d.Register(Literal("status", "s"))
		assert.ErrorIs(t, err, ErrDuplicateCommand)
	})
	t.Run("non-literal root", func(t *testing.T) {
		d := NewDispatcher()
		assert.ErrorIs(t, d.Register(Integer("n")), ErrNotLiteral)
		assert.ErrorIs(t, d.Register(nil), ErrNotLiteral)
	})
}

func TestExecuteLiteral(t *testing.T) {
	var ran bool
	root := Literal("ping").Runs(func(src Source, ctx *Context) error {
		ran = true
		return nil
	})
	d := testDispatcher(t, root)
	src := &SimpleSource{}

	require.NoError(t, d.Execute(src, "ping"))
	assert.True(t, ran)

	ran = false
	require.NoError(t, d.Execute(src, "  ping  "))
	assert.True(t, ran)
}

func TestExecuteAlias(t *testing.T) {
	var count int
	root := Literal("save", "s").Runs(func(src Source, ctx *Context) error {
		count++
		return nil
	})
	d := testDispatcher(t, root)
	src := &SimpleSource{}
	require.NoError(t, d.Execute(src, "save"))
	require.NoError(t, d.Execute(src, "s"))
	assert.Equal(t, 2, count)
}

func TestExecuteArguments(t *testing.T) {
	var gotN int
	var gotWho string
	root := Literal("give").Then(
		Text("who").Then(
			Integer("n", 1, 64).Runs(func(src Source, ctx *Context) error {
				gotWho = ctx.Str("who")
				gotN = ctx.Int("n")
				return nil
			}),
		),
	)
	d := testDispatcher(t, root)
	src := &SimpleSource{}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, d.Execute(src, "give steve 32"))
		assert.Equal(t, "steve", gotWho)
		assert.Equal(t, 32, gotN)
	})
	t.Run("out of range", func(t *testing.T) {
		err := d.Execute(src, "give steve 65")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
	t.Run("not an integer", func(t *testing.T) {
		err := d.Execute(src, "give steve lots")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
	t.Run("incomplete", func(t *testing.T) {
		err := d.Execute(src, "give steve")
		assert.ErrorIs(t, err, ErrIncompleteCommand)
	})
	t.Run("trailing garbage", func(t *testing.T) {
		err := d.Execute(src, "give steve 32 extra")
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
	})
}

func TestExecuteBacktracking(t *testing.T) {
	// Two sibling branches: an integer path expecting a trailing literal,
	// and a text path expecting a different one. Input matching the second
	// branch must not be lost to the first branch's deeper failure.
	var picked string
	root := Literal("set").Then(
		Integer("v").Then(
			Literal("ticks").Runs(func(src Source, ctx *Context) error {
				picked = "int"
				return nil
			}),
		),
		Text("v").Then(
			Literal("name").Runs(func(src Source, ctx *Context) error {
				picked = "text:" + ctx.Str("v")
				return nil
			}),
		),
	)
	d := testDispatcher(t, root)
	src := &SimpleSource{}

	require.NoError(t, d.Execute(src, "set 20 ticks"))
	assert.Equal(t, "int", picked)

	require.NoError(t, d.Execute(src, "set 20 name"))
	assert.Equal(t, "text:20", picked)
}

func TestExecutePrefersLiterals(t *testing.T) {
	var picked string
	root := Literal("mode").Then(
		Text("value").Runs(func(src Source, ctx *Context) error {
			picked = "arg"
			return nil
		}),
		Literal("auto").Runs(func(src Source, ctx *Context) error {
			picked = "literal"
			return nil
		}),
	)
	d := testDispatcher(t, root)
	require.NoError(t, d.Execute(&SimpleSource{}, "mode auto"))
	assert.Equal(t, "literal", picked)
}

func TestExecuteGreedy(t *testing.T) {
	var got string
	root := Literal("say").Then(
		GreedyText("msg").Runs(func(src Source, ctx *Context) error {
			got = ctx.Str("msg")
			return nil
		}),
	)
	d := testDispatcher(t, root)
	require.NoError(t, d.Execute(&SimpleSource{}, "say hello  every one"))
	assert.Equal(t, "hello  every one", got)
}

func TestExecuteGuards(t *testing.T) {
	var ran bool
	denied := func() *message.Text {
		return message.Styled("no entry", message.Red)
	}
	root := Literal("admin").
		Requires(func(src Source) bool { return HasPermission(src, Admin) }, denied).
		Runs(func(src Source, ctx *Context) error {
			ran = true
			return nil
		})
	d := testDispatcher(t, root)

	t.Run("rejected", func(t *testing.T) {
		src := &SimpleSource{Level: User}
		require.NoError(t, d.Execute(src, "admin"))
		assert.False(t, ran)
		require.NotNil(t, src.LastReply())
		assert.Equal(t, "no entry", src.LastReply().Plain())
	})
	t.Run("allowed", func(t *testing.T) {
		src := &SimpleSource{Level: Admin}
		require.NoError(t, d.Execute(src, "admin"))
		assert.True(t, ran)
		assert.Nil(t, src.LastReply())
	})
}

func TestExecuteUnknown(t *testing.T) {
	d := testDispatcher(t, Literal("known").Runs(func(Source, *Context) error { return nil }))
	assert.ErrorIs(t, d.Execute(&SimpleSource{}, "nope"), ErrUnknownCommand)
	assert.ErrorIs(t, d.Execute(&SimpleSource{}, ""), ErrUnknownCommand)
	assert.ErrorIs(t, d.Execute(&SimpleSource{}, "   "), ErrUnknownCommand)
}

func TestExecuteHandlerError(t *testing.T) {
	boom := errors.New("boom")
	root := Literal("fail").Runs(func(Source, *Context) error { return boom })
	d := testDispatcher(t, root)
	assert.ErrorIs(t, d.Execute(&SimpleSource{}, "fail"), boom)
}

func TestHelpEntries(t *testing.T) {
	d := NewDispatcher()
	d.RegisterHelp("!!save", message.New("save the world"))
	d.RegisterHelp("!!backup", message.New("make a backup"))
	entries := d.HelpEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "!!backup", entries[0].Prefix)
	assert.Equal(t, "!!save", entries[1].Prefix)
}

func TestNodePanics(t *testing.T) {
	assert.Panics(t, func() { Literal("") })
	assert.Panics(t, func() { Literal("two words") })
	assert.Panics(t, func() { Integer("") })
	assert.Panics(t, func() { Integer("n", 5, 1) })
	assert.Panics(t, func() { Integer("n", 1, 2, 3) })
	assert.Panics(t, func() { Enumeration("mode") })
	assert.Panics(t, func() { Enumeration("mode", "a b") })
	assert.Panics(t, func() { GreedyText("rest").Then(Literal("x")) })
	assert.Panics(t, func() { Literal("a").Then(Literal("b"), Literal("b")) })
	assert.Panics(t, func() { Literal("a").Runs(nil) })
	assert.Panics(t, func() { Literal("a").Requires(nil, nil) })
}

func TestBooleanAndEnumeration(t *testing.T) {
	var gotMode string
	var gotFlag bool
	root := Literal("toggle").Then(
		Enumeration("mode", "day", "night").Then(
			Boolean("flag").Runs(func(src Source, ctx *Context) error {
				gotMode = ctx.Str("mode")
				gotFlag = ctx.Bool("flag")
				return nil
			}),
		),
	)
	d := testDispatcher(t, root)
	src := &SimpleSource{}

	require.NoError(t, d.Execute(src, "toggle night True"))
	assert.Equal(t, "night", gotMode)
	assert.True(t, gotFlag)

	assert.ErrorIs(t, d.Execute(src, "toggle dusk true"), ErrInvalidArgument)
	assert.ErrorIs(t, d.Execute(src, "toggle day yes"), ErrInvalidArgument)
}
