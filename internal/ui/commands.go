package ui

// Panel identifies one of the two interactive surfaces. Each panel owns its
// own key-command table; the global table catches whatever the active
// panel leaves unhandled.
type Panel int

const (
	PanelPrompt Panel = iota
	PanelTable
)

func (p Panel) String() string {
	if p == PanelPrompt {
		return "prompt"
	}
	return "table"
}

// Command names are the stable contract between the core and the
// key-binding configuration: a binding maps a physical key to one of these
// names. Binding keys to names is entirely the config's concern.
const (
	// global
	CmdQuit          = "quit"
	CmdToggleActive  = "toggle_active"
	CmdUndo          = "undo"
	CmdRedo          = "redo"
	CmdReload        = "reload"
	CmdAppendHistory = "append_history"
	CmdHelp          = "help"

	// prompt
	CmdForwardChar    = "forward_char"
	CmdBackwardChar   = "backward_char"
	CmdForwardWord    = "forward_word"
	CmdBackwardWord   = "backward_word"
	CmdHome           = "home"
	CmdEnd            = "end"
	CmdDeleteNextChar = "delete_next_char"
	CmdDeletePrevChar = "delete_prev_char"
	CmdDeleteNextWord = "delete_next_word"
	CmdDeletePrevWord = "delete_prev_word"
	CmdKillLine       = "kill_line"
	CmdYank           = "yank"
	CmdYankPop        = "yank_pop"
	CmdCopy           = "copy"

	// table
	CmdUp        = "up"
	CmdDown      = "down"
	CmdLeft      = "left"
	CmdRight     = "right"
	CmdFirstRow  = "first_row"
	CmdLastRow   = "last_row"
	CmdFirstCol  = "first_col"
	CmdLastCol   = "last_col"
	CmdNextPage  = "next_page"
	CmdPrevPage  = "prev_page"
	CmdEnterCell = "enter_cell"
	CmdEnterRow  = "enter_row"
	CmdSelectCol = "select_col"
	CmdExpandCol = "expand_col"
	CmdExpandRow = "expand_row"
	CmdDeleteRow = "delete_row"
	CmdDeleteCol = "delete_col"
	CmdSortByCol = "sort_by_col"
	CmdFullWidth = "full_width"
	CmdIncWidth  = "inc_width"
	CmdDecWidth  = "dec_width"
	CmdCopyCell  = "copy_cell"
)

// GlobalCommands enumerates the command names the global table accepts.
var GlobalCommands = []string{
	CmdQuit, CmdToggleActive, CmdUndo, CmdRedo, CmdReload,
	CmdAppendHistory, CmdHelp,
}

// PromptCommands enumerates the prompt panel's command names.
var PromptCommands = []string{
	CmdForwardChar, CmdBackwardChar, CmdForwardWord, CmdBackwardWord,
	CmdHome, CmdEnd,
	CmdDeleteNextChar, CmdDeletePrevChar, CmdDeleteNextWord, CmdDeletePrevWord,
	CmdKillLine, CmdYank, CmdYankPop, CmdCopy,
}

// TableCommands enumerates the table panel's command names.
var TableCommands = []string{
	CmdUp, CmdDown, CmdLeft, CmdRight,
	CmdFirstRow, CmdLastRow, CmdFirstCol, CmdLastCol,
	CmdNextPage, CmdPrevPage,
	CmdEnterCell, CmdEnterRow, CmdSelectCol,
	CmdExpandCol, CmdExpandRow, CmdDeleteRow, CmdDeleteCol, CmdSortByCol,
	CmdFullWidth, CmdIncWidth, CmdDecWidth,
	CmdCopy, CmdCopyCell,
}

func commandSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

var (
	globalCommandSet = commandSet(GlobalCommands)
	promptCommandSet = commandSet(PromptCommands)
	tableCommandSet  = commandSet(TableCommands)
)

// KnownCommand reports whether name is a valid command for the given
// binding table ("global", "prompt" or "table").
func KnownCommand(panel, name string) bool {
	switch panel {
	case "global":
		return globalCommandSet[name]
	case "prompt":
		return promptCommandSet[name]
	case "table":
		return tableCommandSet[name]
	}
	return false
}
