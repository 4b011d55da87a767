package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/commandry/commandry/message"
)

// Action is the terminal callback bound to a runnable node. The context
// holds every argument value resolved along the matched path.
type Action func(src Source, ctx *Context) error

// Node is one vertex of a command tree. Literal nodes match fixed keywords,
// argument nodes parse one value and bind it under their name. All three
// builder methods return the receiver for chaining.
type Node interface {
	// Then attaches children. Attaching a literal whose word collides with
	// an existing literal sibling panics.
	Then(children ...Node) Node
	// Requires attaches a guard evaluated when a matched path enters this
	// node. A false predicate replies the failure message to the source,
	// when one is given, and stops the dispatch.
	Requires(pred func(Source) bool, failure func() *message.Text) Node
	// Runs binds the terminal action, making this node a valid end of input.
	Runs(action Action) Node

	impl() *node
}

type guard struct {
	pred    func(Source) bool
	failure func() *message.Text
}

type node struct {
	name     string
	words    []string // literal nodes only
	parse    func(r *reader) (any, error)
	greedy   bool
	children []*node
	guards   []guard
	action   Action
}

func (n *node) impl() *node { return n }

func (n *node) Then(children ...Node) Node {
	if n.greedy {
		panic("cannot attach children to a greedy text node")
	}
	for _, child := range children {
		if child == nil {
			panic("cannot attach a nil child node")
		}
		c := child.impl()
		if c.isLiteral() {
			for _, word := range c.words {
				if n.findLiteral(word) != nil {
					panic(fmt.Sprintf("duplicate literal %q", word))
				}
			}
		}
		n.children = append(n.children, c)
	}
	return n
}

func (n *node) Requires(pred func(Source) bool, failure func() *message.Text) Node {
	if pred == nil {
		panic("a guard needs a predicate")
	}
	n.guards = append(n.guards, guard{pred: pred, failure: failure})
	return n
}

func (n *node) Runs(action Action) Node {
	if action == nil {
		panic("a runnable node needs a callback")
	}
	n.action = action
	return n
}

func (n *node) isLiteral() bool {
	return len(n.words) > 0
}

func (n *node) findLiteral(word string) *node {
	for _, c := range n.children {
		for _, w := range c.words {
			if w == word {
				return c
			}
		}
	}
	return nil
}

// Name returns an argument node's parameter name, or a literal node's
// canonical word.
func Name(n Node) string {
	c := n.impl()
	if c.isLiteral() {
		return c.words[0]
	}
	return c.name
}

// LiteralWords returns every keyword a literal node matches, nil for
// argument nodes. The first word is the canonical one.
func LiteralWords(n Node) []string {
	return n.impl().words
}

// Children returns the node's attached children in attachment order.
func Children(n Node) []Node {
	c := n.impl()
	out := make([]Node, len(c.children))
	for i, child := range c.children {
		out[i] = child
	}
	return out
}

// Literal returns a node matching any of the given keywords. Every keyword
// must be non-empty and contain no spaces; the first is the canonical word.
func Literal(word string, aliases ...string) Node {
	words := append([]string{word}, aliases...)
	for _, w := range words {
		if w == "" {
			panic("a literal word must not be empty")
		}
		if strings.Contains(w, " ") {
			panic(fmt.Sprintf("literal word %q must not contain spaces", w))
		}
	}
	return &node{words: words}
}

func argNode(name string, parse func(r *reader) (any, error)) *node {
	if name == "" {
		panic("an argument node must be named")
	}
	if strings.Contains(name, " ") {
		panic(fmt.Sprintf("argument name %q must not contain spaces", name))
	}
	return &node{name: name, parse: parse}
}

// Integer returns a node parsing one int token. Bounds are optional: one
// value sets the maximum, two set minimum and maximum.
func Integer(name string, bounds ...int) Node {
	min, max, hasMin, hasMax := splitBounds(name, bounds)
	return argNode(name, func(r *reader) (any, error) {
		start := r.pos
		tok := r.readToken()
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, &ParseError{
				Err:    ErrInvalidArgument,
				Pos:    start,
				Detail: fmt.Sprintf("expected an integer for %q, got %q", name, tok),
			}
		}
		if (hasMin && v < min) || (hasMax && v > max) {
			return nil, &ParseError{
				Err:    ErrInvalidArgument,
				Pos:    start,
				Detail: fmt.Sprintf("%d is out of range for %q", v, name),
			}
		}
		return v, nil
	})
}

// Float returns a node parsing one float64 token, with the same optional
// bounds as [Integer].
func Float(name string, bounds ...float64) Node {
	min, max, hasMin, hasMax := splitBounds(name, bounds)
	return argNode(name, func(r *reader) (any, error) {
		start := r.pos
		tok := r.readToken()
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, &ParseError{
				Err:    ErrInvalidArgument,
				Pos:    start,
				Detail: fmt.Sprintf("expected a number for %q, got %q", name, tok),
			}
		}
		if (hasMin && v < min) || (hasMax && v > max) {
			return nil, &ParseError{
				Err:    ErrInvalidArgument,
				Pos:    start,
				Detail: fmt.Sprintf("%v is out of range for %q", v, name),
			}
		}
		return v, nil
	})
}

func splitBounds[T int | float64](name string, bounds []T) (min, max T, hasMin, hasMax bool) {
	switch len(bounds) {
	case 0:
	case 1:
		max, hasMax = bounds[0], true
	case 2:
		min, max, hasMin, hasMax = bounds[0], bounds[1], true, true
		if min > max {
			panic(fmt.Sprintf("minimum bound %v for %q is greater than maximum bound %v", min, name, max))
		}
	default:
		panic(fmt.Sprintf("argument %q takes at most two bounds", name))
	}
	return
}

// Boolean returns a node matching "true" or "false", case-insensitively.
func Boolean(name string) Node {
	return argNode(name, func(r *reader) (any, error) {
		start := r.pos
		tok := r.readToken()
		switch strings.ToLower(tok) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, &ParseError{
			Err:    ErrInvalidArgument,
			Pos:    start,
			Detail: fmt.Sprintf("expected true or false for %q, got %q", name, tok),
		}
	})
}

// Enumeration returns a node matching exactly one of the given values.
func Enumeration(name string, values ...string) Node {
	if len(values) == 0 {
		panic(fmt.Sprintf("enumeration %q needs at least one value", name))
	}
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" || strings.Contains(v, " ") {
			panic(fmt.Sprintf("enumeration %q has an invalid value %q", name, v))
		}
		allowed[v] = struct{}{}
	}
	return argNode(name, func(r *reader) (any, error) {
		start := r.pos
		tok := r.readToken()
		if _, ok := allowed[tok]; !ok {
			return nil, &ParseError{
				Err:    ErrInvalidArgument,
				Pos:    start,
				Detail: fmt.Sprintf("expected one of [%s] for %q, got %q", strings.Join(values, ", "), name, tok),
			}
		}
		return tok, nil
	})
}

// Text returns a node parsing one space-delimited token.
func Text(name string) Node {
	return argNode(name, func(r *reader) (any, error) {
		return r.readToken(), nil
	})
}

// QuotableText returns a node parsing either one token or a double-quoted
// string with \" and \\ escapes.
func QuotableText(name string) Node {
	return argNode(name, func(r *reader) (any, error) {
		return r.readQuoted()
	})
}

// GreedyText returns a node consuming the whole remainder of the line. It
// cannot have children.
func GreedyText(name string) Node {
	n := argNode(name, func(r *reader) (any, error) {
		return r.readRemaining(), nil
	})
	n.greedy = true
	return n
}
