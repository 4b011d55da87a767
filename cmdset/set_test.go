package cmdset

import (
	"testing"

	"github.com/commandry/commandry/command"
	"github.com/commandry/commandry/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(owner *Set, src command.Source, args Args) error {
	return nil
}

func TestSingleton(t *testing.T) {
	decl := Declare(Spec{Name: "single", Prefix: "!!single"})

	s := decl.New()
	assert.Panics(t, func() { decl.New() }, "a second instance must be rejected")

	got, ok := decl.Instance()
	require.True(t, ok)
	assert.Same(t, s, got)

	s.Teardown()
	_, ok = decl.Instance()
	assert.False(t, ok)

	s2 := decl.New()
	defer s2.Teardown()
	assert.NotNil(t, s2)
}

func TestDeclareValidation(t *testing.T) {
	assert.Panics(t, func() { Declare(Spec{}) })
	assert.Panics(t, func() {
		Declare(Spec{Name: "bad", Members: []any{"not a member"}})
	})
	assert.Panics(t, func() {
		Declare(Spec{Name: "nodeless"}).New()
	})
}

func TestUnboundMember(t *testing.T) {
	decl := Declare(Spec{
		Name:    "unbound",
		Prefix:  "!!u",
		Members: []any{NewLiteral("dangling")},
	})
	assert.Panics(t, func() { decl.New() })
}

func TestMemberDispatch(t *testing.T) {
	var owner *Set
	ping := NewLiteral("ping")
	ping.Runs(func(o *Set, src command.Source, args Args) error {
		owner = o
		return nil
	})
	decl := Declare(Spec{
		Name:    "tools",
		Prefix:  "!!tools",
		Members: []any{ping},
	})
	s := decl.New()
	defer s.Teardown()

	assert.Same(t, s, ping.Owner())

	host := testHost(t, s.Node())
	require.NoError(t, host.Execute(&command.SimpleSource{}, "!!tools ping"))
	assert.Same(t, s, owner)
}

func TestHelpWiring(t *testing.T) {
	newDecl := func(name string, def Handler, helped *[]string) *Decl {
		return Declare(Spec{
			Name:   name,
			Prefix: "!!" + name,
			Help: func(owner *Set, src command.Source, args Args) error {
				*helped = append(*helped, "help")
				return nil
			},
			Default: def,
		})
	}

	t.Run("help literal and default help", func(t *testing.T) {
		var calls []string
		s := newDecl("ha", nil, &calls).New()
		defer s.Teardown()
		require.NotNil(t, s.HelpNode())

		host := testHost(t, s.Node())
		src := &command.SimpleSource{}
		require.NoError(t, host.Execute(src, "!!ha help"))
		require.NoError(t, host.Execute(src, "!!ha"))
		assert.Equal(t, []string{"help", "help"}, calls)
	})

	t.Run("default wins over help fallback", func(t *testing.T) {
		var calls []string
		def := func(owner *Set, src command.Source, args Args) error {
			calls = append(calls, "default")
			return nil
		}
		s := newDecl("hb", def, &calls).New()
		defer s.Teardown()

		host := testHost(t, s.Node())
		src := &command.SimpleSource{}
		require.NoError(t, host.Execute(src, "!!hb"))
		require.NoError(t, host.Execute(src, "!!hb help"))
		assert.Equal(t, []string{"default", "help"}, calls)
	})

	t.Run("default help disabled", func(t *testing.T) {
		var calls []string
		s := newDecl("hc", nil, &calls).New(WithoutDefaultHelp())
		defer s.Teardown()

		host := testHost(t, s.Node())
		src := &command.SimpleSource{}
		assert.ErrorIs(t, host.Execute(src, "!!hc"), command.ErrIncompleteCommand)
		require.NoError(t, host.Execute(src, "!!hc help"))
		assert.Equal(t, []string{"help"}, calls)
	})

	t.Run("no help no default", func(t *testing.T) {
		decl := Declare(Spec{Name: "hd", Prefix: "!!hd"})
		s := decl.New()
		defer s.Teardown()
		assert.Nil(t, s.HelpNode())

		host := testHost(t, s.Node())
		assert.ErrorIs(t, host.Execute(&command.SimpleSource{}, "!!hd"), command.ErrIncompleteCommand)
	})
}

func TestSetPermission(t *testing.T) {
	done := NewLiteral("done")
	done.Runs(noop)
	decl := Declare(Spec{Name: "gated", Prefix: "!!gated", Members: []any{done}})
	s := decl.New(WithPermission(command.Admin, "admins only"))
	defer s.Teardown()

	host := testHost(t, s.Node())

	low := &command.SimpleSource{Level: command.User}
	require.NoError(t, host.Execute(low, "!!gated done"))
	require.NotNil(t, low.LastReply())
	assert.Equal(t, "admins only", low.LastReply().Plain())

	high := &command.SimpleSource{Level: command.Owner}
	require.NoError(t, host.Execute(high, "!!gated done"))
	assert.Nil(t, high.LastReply())
}

func TestRegisterToAliases(t *testing.T) {
	decl := Declare(Spec{
		Name:     "save",
		HelpText: message.New("save the world"),
	})
	s := decl.New(UnderNode(command.Literal("save", "s").Runs(func(src command.Source, ctx *command.Context) error {
		return nil
	})))
	defer s.Teardown()

	host := command.NewDispatcher()
	require.NoError(t, s.RegisterTo(host))

	entries := host.HelpEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "s", entries[0].Prefix)
	assert.Equal(t, "save", entries[1].Prefix)
	assert.Equal(t, "save the world", entries[0].Text.Plain())

	require.NoError(t, host.Execute(&command.SimpleSource{}, "s"))
}

func TestNestedSets(t *testing.T) {
	var rootSeen, leafOwner *Set
	leaf := NewLiteral("leaf")
	leaf.Runs(CallWithRoot(func(owner *Set, src command.Source, args Args) error {
		rootSeen = owner
		return nil
	}))
	direct := NewLiteral("where")
	direct.Runs(func(owner *Set, src command.Source, args Args) error {
		leafOwner = owner
		return nil
	})
	innerDecl := Declare(Spec{Name: "inner", Prefix: "inner", Members: []any{leaf, direct}})
	outerDecl := Declare(Spec{Name: "outer", Prefix: "!!outer", Members: []any{innerDecl}})

	s := outerDecl.New()
	defer s.Teardown()

	inner, ok := innerDecl.Instance()
	require.True(t, ok)
	assert.Same(t, s, inner.Parent())
	assert.Same(t, s, inner.Root())

	host := testHost(t, s.Node())
	src := &command.SimpleSource{}
	require.NoError(t, host.Execute(src, "!!outer inner leaf"))
	assert.Same(t, s, rootSeen, "CallWithRoot must substitute the outermost set")
	require.NoError(t, host.Execute(src, "!!outer inner where"))
	assert.Same(t, inner, leafOwner)

	s.Teardown()
	_, ok = innerDecl.Instance()
	assert.False(t, ok, "tearing down the parent must release nested sets")
}

func TestNodeBoundSubset(t *testing.T) {
	var owner *Set
	stat := NewLiteral("stat")
	stat.Runs(func(o *Set, src command.Source, args Args) error {
		owner = o
		return nil
	})
	subDecl := Declare(Spec{Name: "sub", Members: []any{stat}})

	mount := NewLiteral("jobs")
	mount.Runs(subDecl)

	rootDecl := Declare(Spec{Name: "root", Prefix: "!!root", Members: []any{mount}})
	s := rootDecl.New()
	defer s.Teardown()

	sub, ok := subDecl.Instance()
	require.True(t, ok)
	assert.Same(t, s, sub.Parent())
	assert.Same(t, s, sub.Root())

	host := testHost(t, s.Node())
	require.NoError(t, host.Execute(&command.SimpleSource{}, "!!root jobs stat"))
	assert.Same(t, sub, owner)
}

func TestGuardedMember(t *testing.T) {
	reload := NewLiteral("reload")
	reload.Runs(noop)
	decl := Declare(Spec{
		Name:   "guarded",
		Prefix: "!!g",
		Members: []any{
			Wrap(func() any { return reload }, RequirePermission(command.Admin)),
		},
	})
	s := decl.New()
	defer s.Teardown()

	host := testHost(t, s.Node())
	low := &command.SimpleSource{Level: command.User}
	require.NoError(t, host.Execute(low, "!!g reload"))
	require.NotNil(t, low.LastReply(), "the member guard must gate the set base")
	assert.Equal(t, permissionDeniedMessage, low.LastReply().Plain())

	high := &command.SimpleSource{Level: command.Admin}
	require.NoError(t, host.Execute(high, "!!g reload"))
	assert.Nil(t, high.LastReply())
}

func TestWithLiteralGuard(t *testing.T) {
	free := NewLiteral("list")
	free.Runs(noop)
	locked := NewLiteral("wipe")
	locked.Runs(noop)
	decl := Declare(Spec{Name: "perms", Prefix: "!!p", Members: []any{free, locked}})
	s := decl.New(WithLiteralGuard(func(word string) *Requirement {
		if word == "wipe" {
			return RequirePermission(command.Owner)
		}
		return nil
	}))
	defer s.Teardown()

	host := testHost(t, s.Node())
	src := &command.SimpleSource{Level: command.Helper}
	require.NoError(t, host.Execute(src, "!!p list"))
	assert.Nil(t, src.LastReply())

	require.NoError(t, host.Execute(src, "!!p wipe"))
	require.NotNil(t, src.LastReply())
	assert.Equal(t, permissionDeniedMessage, src.LastReply().Plain())
}

func TestNormalizePermission(t *testing.T) {
	t.Run("level", func(t *testing.T) {
		pred, failure := NormalizePermission(command.Helper)
		assert.False(t, pred(&command.SimpleSource{Level: command.User}))
		assert.True(t, pred(&command.SimpleSource{Level: command.Helper}))
		assert.Equal(t, permissionDeniedMessage, failure().Plain())
	})
	t.Run("predicate", func(t *testing.T) {
		pred, _ := NormalizePermission(func(src command.Source) bool { return src.IsConsole() })
		assert.True(t, pred(&command.SimpleSource{Console: true}))
		assert.False(t, pred(&command.SimpleSource{Player: true}))
	})
	t.Run("string hint", func(t *testing.T) {
		_, failure := NormalizePermission(1, "stay out")
		assert.Equal(t, "stay out", failure().Plain())
	})
	t.Run("text hint", func(t *testing.T) {
		msg := message.Styled("no", message.Gray)
		_, failure := NormalizePermission(1, msg)
		assert.Same(t, msg, failure())
	})
	t.Run("factory hint", func(t *testing.T) {
		_, failure := NormalizePermission(1, func() *message.Text { return message.New("dyn") })
		assert.Equal(t, "dyn", failure().Plain())
	})
	t.Run("rejects bad types", func(t *testing.T) {
		assert.Panics(t, func() { NormalizePermission("three") })
		assert.Panics(t, func() { NormalizePermission(1, 2) })
		assert.Panics(t, func() { NormalizePermission(1, "a", "b") })
		assert.Panics(t, func() {
			var pred func(command.Source) bool
			NormalizePermission(pred)
		})
	})
}

func TestWrapValidation(t *testing.T) {
	assert.Panics(t, func() { Wrap(42, PlayerOnly()) })
	assert.Panics(t, func() { Wrap(noop, nil) })
	g := Wrap(Wrap(noop, PlayerOnly()), ConsoleOnly())
	assert.Len(t, g.reqs, 2)
}
