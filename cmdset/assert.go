package cmdset

import (
	"github.com/commandry/commandry/command"
	"github.com/commandry/commandry/message"
)

// CommandAssert wraps a handler with a runtime check evaluated inside the
// dispatch, after every node guard has passed. A non-nil message from check
// is replied to the source and the handler is skipped. Unlike a
// [Requirement], the check sees the resolved arguments.
func CommandAssert(check func(src command.Source, args Args) *message.Text, h Handler) Handler {
	if check == nil {
		panic("a command assertion needs a check")
	}
	return func(owner *Set, src command.Source, args Args) error {
		if msg := check(src, args); msg != nil {
			src.Reply(msg)
			return nil
		}
		return h(owner, src, args)
	}
}

// AssertPlayer skips the handler with a red reply unless the source is an
// interactive participant.
func AssertPlayer(h Handler) Handler {
	return CommandAssert(func(src command.Source, args Args) *message.Text {
		if src.IsPlayer() {
			return nil
		}
		return message.Styled(playerOnlyMessage, message.Red)
	}, h)
}

// AssertConsole skips the handler with a red reply unless the source is the
// console.
func AssertConsole(h Handler) Handler {
	return CommandAssert(func(src command.Source, args Args) *message.Text {
		if src.IsConsole() {
			return nil
		}
		return message.Styled(consoleOnlyMessage, message.Red)
	}, h)
}
