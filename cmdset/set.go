package cmdset

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/commandry/commandry/command"
	"github.com/commandry/commandry/message"
)

// Handler is the action bound at a runnable node. owner is the command set
// the node belongs to, nil for nodes attached outside any set, and args
// holds the resolved argument values in declaration order.
type Handler func(owner *Set, src command.Source, args Args) error

// Spec declares a command set: its identity, base prefix, members, and the
// optional help and default handlers. Members may be [*Node], [*Literal],
// [*Decl] for nested sets, or [*Guarded] wrapping a member factory.
type Spec struct {
	// Name identifies the set in panics and logs.
	Name string
	// Prefix is the word for the base literal when no explicit base node is
	// given at instantiation.
	Prefix string
	Members []any
	// Help, when set, gains an auto-created "help" literal child.
	Help Handler
	// Default is the action bound at the base. When unset and Help is set,
	// Help doubles as the base action unless [WithoutDefaultHelp] is given.
	Default Handler
	// HelpText is registered under every base alias by [Set.RegisterTo].
	HelpText *message.Text
}

// Decl is a validated, memoized command-set declaration. At most one live
// [Set] may exist per Decl at a time.
type Decl struct {
	name     string
	prefix   string
	members  []any
	help     Handler
	def      Handler
	helpText *message.Text
}

// Declare validates spec once and returns its declaration. Member
// validation happens here, not per instance.
func Declare(spec Spec) *Decl {
	if spec.Name == "" {
		panic("a command set declaration needs a name")
	}
	for i, m := range spec.Members {
		switch m.(type) {
		case *Node, *Literal, *Decl, *Guarded:
		default:
			panic(fmt.Sprintf("command set %q member %d: cannot declare a %T", spec.Name, i, m))
		}
	}
	return &Decl{
		name:     spec.Name,
		prefix:   spec.Prefix,
		members:  append([]any(nil), spec.Members...),
		help:     spec.Help,
		def:      spec.Default,
		helpText: spec.HelpText,
	}
}

func (d *Decl) Name() string {
	return d.name
}

// Instance returns the live instance of this declaration, if one exists.
func (d *Decl) Instance() (*Set, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	s, ok := registry[d]
	return s, ok
}

// registry holds the one live instance per declaration.
var (
	registryMu sync.Mutex
	registry   = make(map[*Decl]*Set)
)

// Set is a live command set: the assembled base node with every member
// attached under it.
type Set struct {
	decl     *Decl
	node     command.Node
	helpNode command.Node
	parent   *Set
	children []*Set
}

type assembly struct {
	node          command.Node
	perm          any
	hint          []any
	hasPerm       bool
	noDefaultHelp bool
	literalGuard  func(word string) *Requirement
}

type Option func(*assembly)

// UnderNode supplies an explicit base parser node instead of a literal
// derived from the declared prefix.
func UnderNode(n command.Node) Option {
	return func(a *assembly) {
		if n == nil {
			panic("cannot assemble a command set under a nil node")
		}
		a.node = n
	}
}

// WithPermission gates the whole set at its base; perm and hint take the
// forms accepted by [NormalizePermission].
func WithPermission(perm any, hint ...any) Option {
	return func(a *assembly) {
		a.perm = perm
		a.hint = hint
		a.hasPerm = true
	}
}

// WithoutDefaultHelp keeps the help handler from doubling as the base
// action when no default handler is declared.
func WithoutDefaultHelp() Option {
	return func(a *assembly) {
		a.noDefaultHelp = true
	}
}

// WithLiteralGuard derives one requirement per direct literal member from
// its canonical word, attaching it per the requirement's flag. A nil return
// leaves that literal unguarded.
func WithLiteralGuard(fn func(word string) *Requirement) Option {
	return func(a *assembly) {
		a.literalGuard = fn
	}
}

// New assembles the declaration's one live instance. A second New before
// [Set.Teardown] panics.
func (d *Decl) New(opts ...Option) *Set {
	var cfg assembly
	for _, opt := range opts {
		opt(&cfg)
	}
	return d.assemble(nil, &cfg)
}

func (d *Decl) assemble(parent *Set, cfg *assembly) *Set {
	base := cfg.node
	if base == nil {
		if d.prefix == "" {
			panic(fmt.Sprintf("command set %q needs a prefix or a base node", d.name))
		}
		base = command.Literal(d.prefix)
	}
	s := &Set{decl: d, node: base, parent: parent}

	registryMu.Lock()
	if _, live := registry[d]; live {
		registryMu.Unlock()
		panic(fmt.Sprintf("command set %q already has a live instance", d.name))
	}
	registry[d] = s
	registryMu.Unlock()

	if cfg.hasPerm {
		pred, failure := NormalizePermission(cfg.perm, cfg.hint...)
		base.Requires(pred, failure)
	}
	for _, member := range d.members {
		s.attachMember(member)
	}
	if cfg.literalGuard != nil {
		for _, member := range d.members {
			lit, ok := member.(*Literal)
			if !ok {
				continue
			}
			if r := cfg.literalGuard(lit.Word()); r != nil {
				lit.attach(r)
			}
		}
	}
	if d.help != nil {
		helpNode := command.Literal("help").Runs(func(src command.Source, ctx *command.Context) error {
			return d.help(s, src, nil)
		})
		base.Then(helpNode)
		s.helpNode = helpNode
	}
	if d.def != nil {
		base.Runs(func(src command.Source, ctx *command.Context) error {
			return d.def(s, src, nil)
		})
	} else if s.helpNode != nil && !cfg.noDefaultHelp {
		base.Runs(func(src command.Source, ctx *command.Context) error {
			return d.help(s, src, nil)
		})
	}
	return s
}

func (s *Set) attachMember(member any) {
	switch m := member.(type) {
	case *Literal:
		s.adopt(&m.Node)
	case *Node:
		s.adopt(m)
	case *Decl:
		child := m.assemble(s, &assembly{})
		s.children = append(s.children, child)
		s.node.Then(child.node)
	case *Guarded:
		for _, r := range m.reqs {
			s.node.Requires(r.pred, r.failure)
		}
		switch target := m.target.(type) {
		case *Decl:
			s.attachMember(target)
		case func() any:
			s.attachMember(target())
		default:
			panic(fmt.Sprintf("command set %q cannot attach a guarded %T member", s.decl.name, m.target))
		}
	default:
		panic(fmt.Sprintf("command set %q cannot attach a %T member", s.decl.name, member))
	}
}

func (s *Set) adopt(n *Node) {
	if !n.bound {
		panic(fmt.Sprintf("a member node of command set %q was never bound", s.decl.name))
	}
	n.owner = s
	if n.subset != nil {
		n.subset.parent = s
		s.children = append(s.children, n.subset)
	}
	s.node.Then(n.base)
}

func (s *Set) Decl() *Decl {
	return s.decl
}

// Node returns the assembled base parser node.
func (s *Set) Node() command.Node {
	return s.node
}

// HelpNode returns the auto-created help literal, nil when the declaration
// has no help handler.
func (s *Set) HelpNode() command.Node {
	return s.helpNode
}

// Parent returns the enclosing set, nil at the root.
func (s *Set) Parent() *Set {
	return s.parent
}

// Root walks parent pointers to the outermost set.
func (s *Set) Root() *Set {
	root := s
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Teardown releases this set's registry slot and its nested sets', allowing
// the declarations to be instantiated again.
func (s *Set) Teardown() {
	for _, c := range s.children {
		c.Teardown()
	}
	registryMu.Lock()
	if registry[s.decl] == s {
		delete(registry, s.decl)
	}
	registryMu.Unlock()
}

// Registrar is the host-side registration boundary; [command.Dispatcher]
// satisfies it.
type Registrar interface {
	Register(root command.Node) error
	RegisterHelp(prefix string, text *message.Text)
}

// RegisterTo attaches the assembled tree to the host and registers the
// declared help text under every base alias.
func (s *Set) RegisterTo(host Registrar) error {
	if err := host.Register(s.node); err != nil {
		return err
	}
	if s.decl.helpText == nil {
		return nil
	}
	words := command.LiteralWords(s.node)
	if len(words) == 0 && s.decl.prefix != "" {
		words = []string{s.decl.prefix}
	}
	if len(words) == 0 {
		slog.Debug("no words to register help text under", "set", s.decl.name)
		return nil
	}
	for _, w := range words {
		host.RegisterHelp(w, s.decl.helpText)
	}
	return nil
}

// CallWithRoot wraps a handler to be invoked with the root set substituted
// for the immediate owner.
func CallWithRoot(h Handler) Handler {
	return func(owner *Set, src command.Source, args Args) error {
		if owner != nil {
			owner = owner.Root()
		}
		return h(owner, src, args)
	}
}
