package cmdset

import (
	"fmt"
	"strings"

	"github.com/commandry/commandry/command"
	"github.com/commandry/commandry/message"
)

// ExtractorFunc turns the raw source and resolved context into the
// positional arguments a handler is called with, standing in for argument
// specs on nodes built over an explicit chain.
type ExtractorFunc func(src command.Source, ctx *command.Context) (Args, error)

// Node wraps one base parser node and grows an argument subtree under it
// when a handler is bound with [Node.Runs]. A Node starts unbound; binding
// is a one-shot operation, and every structural mistake made on the way
// panics, aborting the load.
type Node struct {
	base        command.Node
	tip         command.Node
	entries     []command.Node
	owner       *Set
	subset      *Set
	hasChain    bool
	extractor   ExtractorFunc
	reqs        []*Requirement
	playerOnly  bool
	consoleOnly bool
	bound       bool
	fn          Handler
}

type NodeOption func(*Node)

// Chain appends pre-built parser nodes under the base, each the child of
// the previous one. A chained node binds its handler at the chain tip and
// skips argument-spec synthesis entirely.
func Chain(nodes ...command.Node) NodeOption {
	return func(n *Node) {
		for _, c := range nodes {
			if c == nil {
				panic("cannot chain a nil parser node")
			}
			n.tip.Then(c)
			n.tip = c
		}
		n.hasChain = true
	}
}

// Extractor supplies a custom argument-extraction transform, used instead
// of the extraction the argument specs would synthesize.
func Extractor(fn ExtractorFunc) NodeOption {
	return func(n *Node) {
		n.extractor = fn
	}
}

// ForPlayers guards the node's base so only interactive participants pass.
func ForPlayers() NodeOption {
	return func(n *Node) {
		n.playerOnly = true
	}
}

// ForConsole guards the node's base so only the console passes. When both
// ForConsole and ForPlayers are given, ForConsole wins.
func ForConsole() NodeOption {
	return func(n *Node) {
		n.consoleOnly = true
	}
}

// WithRequirements records requirements applied when the handler is bound:
// entry-attached ones to every bound entry, base-attached ones to the base.
func WithRequirements(reqs ...*Requirement) NodeOption {
	return func(n *Node) {
		for _, r := range reqs {
			if r == nil {
				panic("cannot require a nil requirement")
			}
			n.reqs = append(n.reqs, r)
		}
	}
}

// NewNode wraps a parser node for handler binding.
func NewNode(base command.Node, opts ...NodeOption) *Node {
	if base == nil {
		panic("a node needs a base parser node")
	}
	n := &Node{base: base, tip: base}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Literal is a [Node] keyed by one or more literal keywords.
type Literal struct {
	Node
	words []string
}

// NewLiteral builds a Literal matching every given word. The first word is
// the canonical one reported by [Literal.Word].
func NewLiteral(word string, aliases ...string) *Literal {
	words := append([]string{word}, aliases...)
	base := command.Literal(word, aliases...)
	lit := &Literal{words: words}
	lit.base = base
	lit.tip = base
	return lit
}

// With applies node options to the Literal, returning it for chaining.
func (l *Literal) With(opts ...NodeOption) *Literal {
	if l.bound {
		panic(fmt.Sprintf("literal %q is already bound", l.Word()))
	}
	for _, opt := range opts {
		opt(&l.Node)
	}
	return l
}

// Word returns the canonical keyword.
func (l *Literal) Word() string {
	return l.words[0]
}

// Words returns every accepted keyword, the canonical one first.
func (l *Literal) Words() []string {
	return append([]string(nil), l.words...)
}

// Base returns the underlying base parser node.
func (n *Node) Base() command.Node {
	return n.base
}

// Entries returns every parser node at which the bound handler is a valid
// end of input. Empty until [Node.Runs] executes, and empty for nodes bound
// to a nested command set.
func (n *Node) Entries() []command.Node {
	return append([]command.Node(nil), n.entries...)
}

// Owner returns the command set this node was attached to, nil before the
// owning set is instantiated.
func (n *Node) Owner() *Set {
	return n.owner
}

// Handler returns the bound handler, nil before binding or when the node
// was bound to a nested command set.
func (n *Node) Handler() Handler {
	return n.fn
}

// Runs binds an action to the node, growing the argument subtree described
// by specs and recording every runnable entry.
//
// action may be a [Handler], a [*Decl] whose command set is instantiated
// under the node's tip, or either wrapped in a [*Guarded]. For a plain
// handler the subtree is synthesized from specs per the rules on [Arg]:
// union alternatives replicate the frontier into sibling branches, and
// trailing defaults make every boundary node runnable with padded values.
// Requirements attach once the tree is grown: the construction-time list
// first, then the Guarded list, each per its own attachment flag.
func (n *Node) Runs(action any, specs ...*Arg) *Node {
	if n.bound {
		panic("node is already bound")
	}
	n.bound = true
	if n.consoleOnly {
		n.base.Requires(
			func(src command.Source) bool { return src.IsConsole() },
			func() *message.Text { return message.Styled(consoleOnlyMessage, message.Red) },
		)
	} else if n.playerOnly {
		n.base.Requires(
			func(src command.Source) bool { return src.IsPlayer() },
			func() *message.Text { return message.Styled(playerOnlyMessage, message.Red) },
		)
	}

	var guardReqs []*Requirement
	target := action
	if g, ok := action.(*Guarded); ok {
		guardReqs = g.reqs
		target = g.target
	}

	if d, ok := target.(*Decl); ok {
		if len(specs) > 0 {
			panic(fmt.Sprintf("command set %q cannot be bound together with argument specs", d.name))
		}
		if n.extractor != nil {
			panic(fmt.Sprintf("command set %q cannot be bound together with an extractor", d.name))
		}
		n.subset = d.assemble(nil, &assembly{node: n.tip})
		for _, r := range n.reqs {
			n.base.Requires(r.pred, r.failure)
		}
		for _, r := range guardReqs {
			n.base.Requires(r.pred, r.failure)
		}
		return n
	}

	h, ok := asHandler(target)
	if !ok {
		panic(fmt.Sprintf("cannot bind %T as a command action", action))
	}
	n.fn = h

	if n.hasChain {
		if len(specs) > 0 {
			panic("an explicit chain and argument specs are mutually exclusive")
		}
		n.tip.Runs(n.invoke(nil, nil))
		n.entries = []command.Node{n.tip}
	} else {
		if n.extractor != nil && len(specs) > 0 {
			panic("an extractor and argument specs are mutually exclusive")
		}
		n.grow(specs)
	}

	for _, r := range n.reqs {
		n.attach(r)
	}
	for _, r := range guardReqs {
		n.attach(r)
	}
	return n
}

func (n *Node) attach(r *Requirement) {
	if r.atBase {
		n.base.Requires(r.pred, r.failure)
		return
	}
	for _, e := range n.entries {
		e.Requires(r.pred, r.failure)
	}
}

// grow synthesizes the argument subtree: one level per spec, fanning the
// frontier out across union alternatives and binding boundary entries where
// trailing defaults begin.
func (n *Node) grow(specs []*Arg) {
	names := make([]string, len(specs))
	seen := make(map[string]struct{}, len(specs))
	defaulted := false
	for i, spec := range specs {
		if spec == nil {
			panic(fmt.Sprintf("argument spec %d is nil", i))
		}
		if spec.name == "" {
			panic(fmt.Sprintf("argument spec %d has no name", i))
		}
		if strings.Contains(spec.name, " ") {
			panic(fmt.Sprintf("argument name %q must not contain spaces", spec.name))
		}
		if _, dup := seen[spec.name]; dup {
			panic(fmt.Sprintf("duplicate argument name %q", spec.name))
		}
		seen[spec.name] = struct{}{}
		for _, alt := range append([]*Arg{spec}, spec.alts...) {
			if alt.kind == kindGreedyText && i != len(specs)-1 {
				panic(fmt.Sprintf("%s must be the last argument", alt.describe()))
			}
		}
		if spec.hasDefault {
			defaulted = true
			if !spec.acceptsDefault(spec.defaultValue) {
				panic(fmt.Sprintf("default value %v (%T) does not fit %s", spec.defaultValue, spec.defaultValue, spec.describe()))
			}
		} else if defaulted {
			panic(fmt.Sprintf("%s without a default cannot follow defaulted arguments", spec.describe()))
		}
		names[i] = spec.name
	}

	frontier := []command.Node{n.tip}
	for i, spec := range specs {
		if spec.hasDefault {
			boundary := n.invoke(names[:i], defaultValues(specs[i:]))
			for _, f := range frontier {
				f.Runs(boundary)
				n.entries = append(n.entries, f)
			}
		}
		alternatives := append([]*Arg{spec}, spec.alts...)
		next := make([]command.Node, 0, len(frontier)*len(alternatives))
		for _, f := range frontier {
			for _, alt := range alternatives {
				child := alt.node()
				f.Then(child)
				next = append(next, child)
			}
		}
		frontier = next
	}
	full := n.invoke(names, nil)
	for _, f := range frontier {
		f.Runs(full)
		n.entries = append(n.entries, f)
	}
}

func defaultValues(specs []*Arg) []any {
	padded := make([]any, len(specs))
	for i, spec := range specs {
		padded[i] = spec.defaultValue
	}
	return padded
}

// invoke builds the terminal callback for one entry: named values are read
// from the context in declaration order and padded defaults appended. The
// owner is read at call time, after the owning set has been assembled.
func (n *Node) invoke(names []string, padded []any) command.Action {
	return func(src command.Source, ctx *command.Context) error {
		if n.extractor != nil {
			args, err := n.extractor(src, ctx)
			if err != nil {
				return err
			}
			return n.fn(n.owner, src, args)
		}
		args := make(Args, 0, len(names)+len(padded))
		for _, name := range names {
			v, _ := ctx.Get(name)
			args = append(args, v)
		}
		args = append(args, padded...)
		return n.fn(n.owner, src, args)
	}
}
