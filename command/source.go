package command

import "github.com/commandry/commandry/message"

// Permission levels, lowest to highest. A source at a given level passes
// checks for that level and every level below it.
const (
	Guest = iota
	User
	Helper
	Admin
	Owner
)

// Source identifies whoever issued a command and carries replies back to
// them. IsPlayer and IsConsole are not mutually exclusive in the negative:
// a remote or scripted source may be neither.
type Source interface {
	IsPlayer() bool
	IsConsole() bool
	// PermissionLevel reports the source's level, normally one of [Guest]
	// through [Owner].
	PermissionLevel() int
	Reply(msg *message.Text)
}

// HasPermission reports whether src meets the given level.
func HasPermission(src Source, level int) bool {
	return src.PermissionLevel() >= level
}

// SimpleSource is a canned [Source] for tests and embedders that only need
// fixed answers. Replies are recorded in order.
type SimpleSource struct {
	Player  bool
	Console bool
	Level   int
	Replies []*message.Text
}

func (s *SimpleSource) IsPlayer() bool {
	return s.Player
}

func (s *SimpleSource) IsConsole() bool {
	return s.Console
}

func (s *SimpleSource) PermissionLevel() int {
	return s.Level
}

func (s *SimpleSource) Reply(msg *message.Text) {
	s.Replies = append(s.Replies, msg)
}

// LastReply returns the most recent reply, or nil when none was sent.
func (s *SimpleSource) LastReply() *message.Text {
	if len(s.Replies) == 0 {
		return nil
	}
	return s.Replies[len(s.Replies)-1]
}
