package command

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/commandry/commandry/message"
)

var (
	// ErrUnknownCommand is returned when no registered root matches the
	// first token of the input.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUnknownArgument is returned when input remains but no child of the
	// matched path accepts it.
	ErrUnknownArgument = errors.New("unknown argument")
	// ErrIncompleteCommand is returned when input runs out on a node with
	// no bound action.
	ErrIncompleteCommand = errors.New("incomplete command")
	// ErrInvalidArgument is returned when a token cannot be parsed by an
	// argument node, or violates its bounds.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDuplicateCommand is returned when a root word is registered twice.
	ErrDuplicateCommand = errors.New("command word already registered")
	// ErrNotLiteral is returned when a non-literal node is registered as a
	// command root.
	ErrNotLiteral = errors.New("command root must be a literal node")
)

// ParseError wraps one of the sentinel errors above with the input position
// where matching stopped.
type ParseError struct {
	Err    error
	Pos    int
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v at position %d", e.Err, e.Pos)
	}
	return fmt.Sprintf("%v at position %d: %s", e.Err, e.Pos, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// HelpEntry is one registered help line.
type HelpEntry struct {
	Prefix string
	Text   *message.Text
}

// Dispatcher holds registered command trees and executes lines against
// them. Registration normally happens once at startup; execution is safe
// from multiple goroutines afterwards.
type Dispatcher struct {
	mu    sync.RWMutex
	roots map[string]*node
	help  map[string]*message.Text
	log   *slog.Logger
}

type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger used for registration diagnostics. The default
// is [slog.Default].
func WithLogger(log *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		roots: make(map[string]*node),
		help:  make(map[string]*message.Text),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register attaches a command tree under every word of its root literal.
func (d *Dispatcher) Register(root Node) error {
	if root == nil {
		return ErrNotLiteral
	}
	n := root.impl()
	if !n.isLiteral() {
		return ErrNotLiteral
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, word := range n.words {
		if _, ok := d.roots[word]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateCommand, word)
		}
	}
	for _, word := range n.words {
		d.roots[word] = n
	}
	d.log.Debug("registered command", "command", n.words[0], "aliases", len(n.words)-1)
	return nil
}

// RegisterHelp records a help line for a command prefix, replacing any
// earlier line for the same prefix.
func (d *Dispatcher) RegisterHelp(prefix string, text *message.Text) {
	if prefix == "" || text == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.help[prefix] = text
	d.log.Debug("registered help", "prefix", prefix)
}

// HelpEntries returns every registered help line, sorted by prefix.
func (d *Dispatcher) HelpEntries() []HelpEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	entries := make([]HelpEntry, 0, len(d.help))
	for prefix, text := range d.help {
		entries = append(entries, HelpEntry{Prefix: prefix, Text: text})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Prefix < entries[j].Prefix
	})
	return entries
}

// Execute matches line against the registered trees and runs the bound
// action at the end of the matched path.
//
// A failed guard is not an error: the guard's failure message is sent to
// src and Execute returns nil. Syntax problems return a [ParseError]
// wrapping one of the sentinel errors. Errors from the bound action are
// returned as-is.
func (d *Dispatcher) Execute(src Source, line string) error {
	r := newReader(line)
	if !r.canRead() {
		return &ParseError{Err: ErrUnknownCommand, Pos: 0, Detail: "empty input"}
	}
	start := r.pos
	word := r.readToken()
	d.mu.RLock()
	root := d.roots[word]
	d.mu.RUnlock()
	if root == nil {
		return &ParseError{Err: ErrUnknownCommand, Pos: start, Detail: word}
	}
	return walk(root, src, r, newContext(line))
}

// walk runs the guards of an entered node, then either runs its action at
// end of input or descends into the first child that accepts the remaining
// input. Literal children are preferred over argument children; sibling
// argument nodes are tried in attachment order, backtracking when a whole
// subtree fails to match.
func walk(n *node, src Source, r *reader, ctx *Context) error {
	for _, g := range n.guards {
		if !g.pred(src) {
			if g.failure != nil {
				src.Reply(g.failure())
			}
			return nil
		}
	}
	if !r.canRead() {
		if n.action != nil {
			return n.action(src, ctx)
		}
		return &ParseError{Err: ErrIncompleteCommand, Pos: r.pos, Detail: "more arguments are required"}
	}
	var deepest *ParseError
	keep := func(err *ParseError) {
		if deepest == nil || err.Pos > deepest.Pos {
			deepest = err
		}
	}
	for _, child := range n.children {
		if !child.isLiteral() {
			continue
		}
		save := r.pos
		tok := r.readToken()
		if !matchWord(child, tok) {
			r.pos = save
			continue
		}
		err := walk(child, src, r, ctx)
		var perr *ParseError
		if errors.As(err, &perr) {
			keep(perr)
			r.pos = save
			continue
		}
		return err
	}
	for _, child := range n.children {
		if child.isLiteral() {
			continue
		}
		save := r.pos
		mark := ctx.mark()
		v, err := child.parse(r)
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				keep(perr)
			}
			r.pos = save
			continue
		}
		ctx.set(child.name, v)
		err = walk(child, src, r, ctx)
		var perr *ParseError
		if errors.As(err, &perr) {
			keep(perr)
			r.pos = save
			ctx.rewind(mark)
			continue
		}
		return err
	}
	if deepest != nil {
		return deepest
	}
	return &ParseError{
		Err:    ErrUnknownArgument,
		Pos:    r.pos,
		Detail: fmt.Sprintf("cannot resolve %q", r.s[r.pos:]),
	}
}

func matchWord(n *node, tok string) bool {
	for _, w := range n.words {
		if w == tok {
			return true
		}
	}
	return false
}
