package storage

import (
	"testing"

	"github.com/commandry/commandry/command"
	"github.com/stretchr/testify/assert"
)

func TestPermissionsLevel(t *testing.T) {
	p := &Permissions{
		Levels:   map[string]int{"backup": command.Helper, "wipe": command.Owner},
		Fallback: command.Admin,
	}
	assert.Equal(t, command.Helper, p.Level("backup"))
	assert.Equal(t, command.Owner, p.Level("wipe"))
	assert.Equal(t, command.Admin, p.Level("unlisted"))

	empty := &Permissions{Fallback: command.Owner}
	assert.Equal(t, command.Owner, empty.Level("anything"))
}

func TestPermissionsCheck(t *testing.T) {
	p := &Permissions{Levels: map[string]int{"backup": command.Helper}}
	assert.True(t, p.Check(&command.SimpleSource{Level: command.Helper}, "backup"))
	assert.True(t, p.Check(&command.SimpleSource{Level: command.Owner}, "backup"))
	assert.False(t, p.Check(&command.SimpleSource{Level: command.User}, "backup"))
}

func TestPermissionsRequirement(t *testing.T) {
	p := &Permissions{Levels: map[string]int{"backup": command.Admin}}
	pred, failure := p.Requirement("backup")

	assert.False(t, pred(&command.SimpleSource{Level: command.User}))
	assert.True(t, pred(&command.SimpleSource{Level: command.Admin}))
	assert.Equal(t, "Permission denied", failure().Plain())

	// Table edits apply without rebuilding the guard.
	p.Levels["backup"] = command.Guest
	assert.True(t, pred(&command.SimpleSource{Level: command.User}))
}
