package cmdset

import (
	"fmt"

	"github.com/commandry/commandry/command"
	"github.com/commandry/commandry/message"
)

const (
	playerOnlyMessage       = "Only player can execute this command"
	consoleOnlyMessage      = "Only console can execute this command"
	permissionDeniedMessage = "Permission denied"
)

// Requirement is the atomic guard unit: a predicate over the command source
// plus a factory for the message sent when the predicate fails. Where a
// Requirement attaches is controlled by [Requirement.AtBase] and
// [Requirement.PerEntry]; see [Wrap] and [NewNode] for how lists of them
// are applied.
type Requirement struct {
	pred    func(command.Source) bool
	failure func() *message.Text
	atBase  bool
}

// Requires builds an entry-attached Requirement. The failure factory may be
// nil, in which case a rejected source gets no reply.
func Requires(pred func(command.Source) bool, failure func() *message.Text) *Requirement {
	if pred == nil {
		panic("a requirement needs a predicate")
	}
	return &Requirement{pred: pred, failure: failure}
}

// AtBase returns a copy of the Requirement that attaches to a node's base,
// gating every argument branch under it uniformly.
func (r *Requirement) AtBase() *Requirement {
	cp := *r
	cp.atBase = true
	return &cp
}

// PerEntry returns a copy of the Requirement that attaches to each bound
// entry, leaving sibling branches unguarded.
func (r *Requirement) PerEntry() *Requirement {
	cp := *r
	cp.atBase = false
	return &cp
}

// PlayerOnly requires an interactive participant. It attaches at the base.
func PlayerOnly() *Requirement {
	return Requires(
		func(src command.Source) bool { return src.IsPlayer() },
		func() *message.Text { return message.Styled(playerOnlyMessage, message.Red) },
	).AtBase()
}

// ConsoleOnly requires the console. It attaches at the base.
func ConsoleOnly() *Requirement {
	return Requires(
		func(src command.Source) bool { return src.IsConsole() },
		func() *message.Text { return message.Styled(consoleOnlyMessage, message.Red) },
	).AtBase()
}

// RequirePermission requires a permission level or a custom predicate, with
// an optional denial hint; see [NormalizePermission] for the accepted
// types. It attaches at the base.
func RequirePermission(perm any, hint ...any) *Requirement {
	pred, failure := NormalizePermission(perm, hint...)
	return Requires(pred, failure).AtBase()
}

// NormalizePermission turns a permission argument and an optional denial
// hint into a predicate and failure-message factory pair.
//
// perm may be an int level, checked against the source's permission level,
// or a func(command.Source) bool used as-is. hint may be omitted for the
// default red underlined denial, or be a string styled the same way, a
// pre-built [*message.Text], or a func() *message.Text called per denial.
// Any other type panics.
func NormalizePermission(perm any, hint ...any) (func(command.Source) bool, func() *message.Text) {
	var pred func(command.Source) bool
	switch p := perm.(type) {
	case int:
		pred = func(src command.Source) bool { return command.HasPermission(src, p) }
	case func(command.Source) bool:
		if p == nil {
			panic("a permission predicate must not be nil")
		}
		pred = p
	default:
		panic(fmt.Sprintf("unexpected permission type %T, expect int or func(command.Source) bool", perm))
	}
	if len(hint) > 1 {
		panic("at most one permission hint may be given")
	}
	var h any
	if len(hint) == 1 {
		h = hint[0]
	}
	var failure func() *message.Text
	switch m := h.(type) {
	case nil:
		failure = func() *message.Text {
			return message.Styled(permissionDeniedMessage, message.Red).Underlined()
		}
	case string:
		failure = func() *message.Text {
			return message.Styled(m, message.Red).Underlined()
		}
	case *message.Text:
		failure = func() *message.Text { return m }
	case func() *message.Text:
		failure = m
	default:
		panic(fmt.Sprintf("unexpected permission hint type %T, expect string, *message.Text, or func() *message.Text", h))
	}
	return pred, failure
}

// Guarded wraps a bind target with an ordered requirement list. The list is
// applied front to back when the target is bound; wrapping an existing
// Guarded keeps the inner requirements ahead of the newly added ones, so
// stacking wraps attaches innermost decorations first.
type Guarded struct {
	target any
	reqs   []*Requirement
}

// Wrap layers requirements over target. target may be a [Handler], a [*Decl]
// for nested command sets, a zero-argument member factory (func() any) for
// use in [Spec.Members], or another [*Guarded].
func Wrap(target any, reqs ...*Requirement) *Guarded {
	for _, r := range reqs {
		if r == nil {
			panic("cannot wrap with a nil requirement")
		}
	}
	if g, ok := target.(*Guarded); ok {
		merged := make([]*Requirement, 0, len(g.reqs)+len(reqs))
		merged = append(merged, g.reqs...)
		merged = append(merged, reqs...)
		return &Guarded{target: g.target, reqs: merged}
	}
	if _, ok := asHandler(target); !ok {
		switch target.(type) {
		case *Decl, func() any:
		default:
			panic(fmt.Sprintf("cannot wrap %T with requirements", target))
		}
	}
	return &Guarded{target: target, reqs: reqs}
}

func asHandler(v any) (Handler, bool) {
	switch h := v.(type) {
	case Handler:
		return h, true
	case func(*Set, command.Source, Args) error:
		return h, true
	}
	return nil, false
}
