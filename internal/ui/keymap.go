package ui

import (
	"sort"
	"strings"

	"charm.land/bubbles/v2/key"
)

// Bindings maps physical key identifiers (bubbletea key strings such as
// "ctrl+a", "alt+w", "esc") to command names, one table per panel plus the
// global table consulted when the active panel does not handle a key.
type Bindings struct {
	Global map[string]string
	Prompt map[string]string
	Table  map[string]string
}

// DefaultBindings mirrors the original tool's key model: emacs-style
// editing in the prompt, arrows plus emacs motions in the table, ESC as
// undo (and therefore as "back up one level").
func DefaultBindings() Bindings {
	return Bindings{
		Global: map[string]string{
			"ctrl+g":    CmdQuit,
			"ctrl+d":    CmdQuit, // prompt shadows this with delete_next_char
			"alt+o":     CmdToggleActive,
			"ctrl+o":    CmdToggleActive,
			"esc":       CmdUndo,
			"ctrl+_":    CmdUndo,
			"alt+_":     CmdRedo,
			"enter":     CmdReload, // table shadows this with enter_cell
			"g":         CmdReload, // prompt inserts the literal instead
			"alt+enter": CmdAppendHistory,
			"f1":        CmdHelp,
		},
		Prompt: map[string]string{
			"right":         CmdForwardChar,
			"ctrl+f":        CmdForwardChar,
			"left":          CmdBackwardChar,
			"ctrl+b":        CmdBackwardChar,
			"alt+f":         CmdForwardWord,
			"alt+right":     CmdForwardWord,
			"ctrl+right":    CmdForwardWord,
			"alt+b":         CmdBackwardWord,
			"alt+left":      CmdBackwardWord,
			"ctrl+left":     CmdBackwardWord,
			"home":          CmdHome,
			"ctrl+a":        CmdHome,
			"end":           CmdEnd,
			"ctrl+e":        CmdEnd,
			"delete":        CmdDeleteNextChar,
			"ctrl+d":        CmdDeleteNextChar,
			"backspace":     CmdDeletePrevChar,
			"alt+d":         CmdDeleteNextWord,
			"alt+delete":    CmdDeleteNextWord,
			"ctrl+delete":   CmdDeleteNextWord,
			"alt+backspace": CmdDeletePrevWord,
			"ctrl+w":        CmdDeletePrevWord,
			"ctrl+k":        CmdKillLine,
			"ctrl+y":        CmdYank,
			"alt+y":         CmdYankPop,
			"alt+w":         CmdCopy,
		},
		Table: map[string]string{
			"up":        CmdUp,
			"ctrl+p":    CmdUp,
			"down":      CmdDown,
			"ctrl+n":    CmdDown,
			"left":      CmdLeft,
			"ctrl+b":    CmdLeft,
			"right":     CmdRight,
			"ctrl+f":    CmdRight,
			"alt+<":     CmdFirstRow,
			"alt+>":     CmdLastRow,
			"pgup":      CmdPrevPage,
			"pgdown":    CmdNextPage,
			"home":      CmdFirstCol,
			"ctrl+a":    CmdFirstCol,
			"end":       CmdLastCol,
			"ctrl+e":    CmdLastCol,
			"enter":     CmdEnterCell,
			"alt+enter": CmdEnterRow,
			"m":         CmdSelectCol,
			"e":         CmdExpandCol,
			"E":         CmdExpandRow,
			"k":         CmdDeleteCol,
			"K":         CmdDeleteRow,
			"s":         CmdSortByCol,
			"l":         CmdFullWidth,
			"+":         CmdIncWidth,
			"-":         CmdDecWidth,
			"w":         CmdCopyCell,
			"alt+w":     CmdCopy,
		},
	}
}

// Merge overlays user bindings on top of b. A user entry rebinds the key;
// binding a key to "" unbinds it.
func (b Bindings) Merge(over Bindings) Bindings {
	return Bindings{
		Global: mergeTable(b.Global, over.Global),
		Prompt: mergeTable(b.Prompt, over.Prompt),
		Table:  mergeTable(b.Table, over.Table),
	}
}

func mergeTable(base, over map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		if v == "" {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// helpKeyMap adapts the binding tables to the bubbles help component.
type helpKeyMap struct {
	bindings Bindings
}

// ShortHelp surfaces the commands a new user needs first.
func (h helpKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		bindingFor(h.bindings.Global, CmdToggleActive),
		bindingFor(h.bindings.Global, CmdUndo),
		bindingFor(h.bindings.Table, CmdEnterCell),
		bindingFor(h.bindings.Global, CmdHelp),
		bindingFor(h.bindings.Global, CmdQuit),
	}
}

// FullHelp lists every bound command, grouped by table.
func (h helpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		bindingsFor(h.bindings.Global),
		bindingsFor(h.bindings.Prompt),
		bindingsFor(h.bindings.Table),
	}
}

// bindingFor builds a help entry for one command out of every key bound to
// it in the table.
func bindingFor(table map[string]string, command string) key.Binding {
	keys := keysFor(table, command)
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), strings.ReplaceAll(command, "_", " ")),
	)
}

func keysFor(table map[string]string, command string) []string {
	var keys []string
	for k, cmd := range table {
		if cmd == command {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func bindingsFor(table map[string]string) []key.Binding {
	seen := make(map[string]bool)
	var commands []string
	for _, cmd := range table {
		if !seen[cmd] {
			seen[cmd] = true
			commands = append(commands, cmd)
		}
	}
	sort.Strings(commands)
	out := make([]key.Binding, 0, len(commands))
	for _, cmd := range commands {
		out = append(out, bindingFor(table, cmd))
	}
	return out
}
