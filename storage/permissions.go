package storage

import (
	"github.com/commandry/commandry/command"
	"github.com/commandry/commandry/message"
)

// Permissions is a per-command minimum permission table, meant to be
// embedded in a config struct and kept in a [File]. Names missing from the
// table get the Fallback level; a locked-down table sets Fallback to
// [command.Owner] so unlisted commands stay owner-only.
type Permissions struct {
	Levels   map[string]int `json:"minimum_permission_level" yaml:"minimum_permission_level" toml:"minimum_permission_level" mapstructure:"minimum_permission_level"`
	Fallback int            `json:"-" yaml:"-" toml:"-" mapstructure:"-"`
}

// Level returns the minimum permission level required for name.
func (p *Permissions) Level(name string) int {
	if lvl, ok := p.Levels[name]; ok {
		return lvl
	}
	return p.Fallback
}

// Check reports whether src meets the minimum level for name.
func (p *Permissions) Check(src command.Source, name string) bool {
	return command.HasPermission(src, p.Level(name))
}

// Requirement returns a predicate and denial-message pair for name, shaped
// for guard construction. The table is consulted at call time, so edits to
// Levels take effect without rebuilding the guard.
func (p *Permissions) Requirement(name string) (func(command.Source) bool, func() *message.Text) {
	pred := func(src command.Source) bool {
		return p.Check(src, name)
	}
	failure := func() *message.Text {
		return message.Styled("Permission denied", message.Red).Underlined()
	}
	return pred, failure
}
