package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBindingsNameOnlyKnownCommands(t *testing.T) {
	b := DefaultBindings()
	for k, cmd := range b.Global {
		assert.True(t, KnownCommand("global", cmd), "global %q -> %q", k, cmd)
	}
	for k, cmd := range b.Prompt {
		assert.True(t, KnownCommand("prompt", cmd), "prompt %q -> %q", k, cmd)
	}
	for k, cmd := range b.Table {
		assert.True(t, KnownCommand("table", cmd), "table %q -> %q", k, cmd)
	}
}

func TestMergeRebindsAndUnbinds(t *testing.T) {
	merged := DefaultBindings().Merge(Bindings{
		Global: map[string]string{
			"ctrl+q": CmdQuit, // new binding
			"esc":    "",      // unbind
		},
		Table: map[string]string{
			"enter": CmdEnterRow, // rebind
		},
	})

	assert.Equal(t, CmdQuit, merged.Global["ctrl+q"])
	_, bound := merged.Global["esc"]
	assert.False(t, bound, "esc should be unbound")
	assert.Equal(t, CmdEnterRow, merged.Table["enter"])
	// Untouched tables and keys survive the merge.
	assert.Equal(t, CmdUndo, merged.Global["ctrl+_"])
	assert.Equal(t, CmdKillLine, merged.Prompt["ctrl+k"])
}

func TestMergeDoesNotMutateBase(t *testing.T) {
	base := DefaultBindings()
	base.Merge(Bindings{Global: map[string]string{"esc": ""}})
	assert.Equal(t, CmdUndo, base.Global["esc"])
}

func TestKnownCommand(t *testing.T) {
	assert.True(t, KnownCommand("global", CmdQuit))
	assert.True(t, KnownCommand("prompt", CmdYankPop))
	assert.True(t, KnownCommand("table", CmdExpandCol))

	assert.False(t, KnownCommand("global", CmdYank), "panel commands are not global")
	assert.False(t, KnownCommand("prompt", "no_such_command"))
	assert.False(t, KnownCommand("bogus_panel", CmdQuit))
}

func TestKeysForGroupsAllKeysOfACommand(t *testing.T) {
	b := DefaultBindings()
	keys := keysFor(b.Prompt, CmdForwardWord)
	require.NotEmpty(t, keys)
	assert.Contains(t, keys, "alt+f")
	assert.Contains(t, keys, "alt+right")
}
