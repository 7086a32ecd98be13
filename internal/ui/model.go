// Package ui implements the interactive session: a prompt panel holding an
// editable filter and a table panel rendering the filter's result. Every
// prompt edit re-evaluates the filter through an external evaluator; the
// results feed the table, and the edit history doubles as navigation.
package ui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/jex/internal/document"
	"github.com/oakwood-commons/jex/internal/editor"
	"github.com/oakwood-commons/jex/internal/history"
	"github.com/oakwood-commons/jex/internal/jq"
	"github.com/oakwood-commons/jex/internal/table"
)

// Options configures a session Model.
type Options struct {
	// Runner evaluates filters against the document.
	Runner jq.Runner

	// Document is the loaded root value the session explores.
	Document *document.Value

	// InitialFilter seeds the prompt (the -c/--command flag); empty means
	// the identity filter.
	InitialFilter string

	// Reload re-reads the document from its source. Nil when the source
	// cannot be re-read (stdin).
	Reload func() (*document.Value, error)

	// Watcher, when non-nil, delivers change events for the source file;
	// each event triggers a reload. The session does not close it.
	Watcher *fsnotify.Watcher

	MaxCellWidth   int
	FloatPrecision int
	StartAtPrompt  bool

	// CopyCommand overrides the platform clipboard helper; the text to copy
	// is piped to it on stdin.
	CopyCommand string

	// AppendHistoryCommand appends an invocation to the user's shell
	// history; "{}" is replaced by the quoted command line.
	AppendHistoryCommand string

	// HistoryArgv builds the argv recorded by append_history for the given
	// filter, e.g. ["jex", "-c", filter, "data.json"].
	HistoryArgv func(filter string) []string

	Bindings Bindings
	Styles   table.Styles

	Logger *logr.Logger
}

// promptEntry is one history snapshot: the prompt text plus where the
// cursor was. Equality (and so dedup of history pushes) is on text only, so
// pure cursor motion never creates an entry.
type promptEntry struct {
	text   string
	cursor int
}

func samePrompt(a, b promptEntry) bool { return a.text == b.text }

// evalResultMsg carries the outcome of one asynchronous evaluation. gen
// identifies the evaluation; stale results (superseded by a newer edit) are
// dropped on arrival.
type evalResultMsg struct {
	gen    int
	filter string
	value  *document.Value
	err    error
}

// fileChangedMsg reports a watcher event on the source file.
type fileChangedMsg struct{}

// watchErrMsg reports a watcher failure.
type watchErrMsg struct{ err error }

// Model is the bubbletea model for a whole session.
type Model struct {
	opts     Options
	bindings Bindings
	styles   table.Styles
	log      *logr.Logger

	active Panel
	buf    *editor.Buffer
	hist   *history.History[promptEntry]
	tbl    *table.Model

	doc *document.Value

	// results caches the value produced by each filter string so that
	// undo/redo re-display without spawning the evaluator again. A reload
	// drops the whole cache.
	results map[string]*document.Value

	// tableStates remembers cursor/scroll/expansion per filter so stepping
	// back through history lands where the user left off.
	tableStates map[string]table.State

	// shownFilter is the filter whose result the table currently displays.
	shownFilter string

	evaluating bool
	evalGen    int
	cancelEval context.CancelFunc

	spinner  spinner.Model
	help     help.Model
	showHelp bool

	status    string
	statusErr bool

	width  int
	height int
}

// New builds a session model. The document must already be loaded.
func New(opts Options) *Model {
	if opts.MaxCellWidth <= 0 {
		opts.MaxCellWidth = 50
	}
	if opts.FloatPrecision <= 0 {
		opts.FloatPrecision = 8
	}
	if opts.Logger == nil {
		l := logr.Discard()
		opts.Logger = &l
	}
	if opts.Bindings.Global == nil && opts.Bindings.Prompt == nil && opts.Bindings.Table == nil {
		opts.Bindings = DefaultBindings()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	active := PanelTable
	if opts.StartAtPrompt {
		active = PanelPrompt
	}

	m := &Model{
		opts:        opts,
		bindings:    opts.Bindings,
		styles:      opts.Styles,
		log:         opts.Logger,
		active:      active,
		buf:         editor.New(opts.InitialFilter),
		tbl:         table.NewModel(opts.MaxCellWidth, opts.FloatPrecision),
		doc:         opts.Document,
		results:     make(map[string]*document.Value),
		tableStates: make(map[string]table.State),
		spinner:     sp,
		help:        help.New(),
		width:       80,
		height:      24,
	}
	m.hist = history.New(promptEntry{text: opts.InitialFilter, cursor: m.buf.Cursor()}, samePrompt)
	return m
}

// Init kicks off the first evaluation and, when watching, the first wait on
// the watcher.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.evaluate(m.buf.Text(), true)}
	if m.opts.Watcher != nil {
		cmds = append(cmds, watchCmd(m.opts.Watcher))
	}
	return tea.Batch(cmds...)
}

// Update routes messages. Keys are dispatched to the active panel first,
// then (in the prompt) treated as literal input, then to the global table.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetWidth(msg.Width)
		m.tbl.SetSize(msg.Width, m.tableHeight())
		return m, nil

	case spinner.TickMsg:
		if !m.evaluating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case evalResultMsg:
		return m, m.onEvalResult(msg)

	case fileChangedMsg:
		cmd := m.reload()
		return m, tea.Batch(cmd, watchCmd(m.opts.Watcher))

	case watchErrMsg:
		m.setError(fmt.Sprintf("watch: %v", msg.err))
		return m, watchCmd(m.opts.Watcher)

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	keyStr := msg.String()
	if keyStr == "ctrl+c" || msg.Key().Code == 0x03 {
		return tea.Quit
	}

	if m.showHelp {
		// Any key leaves the help overlay; the help toggle itself is
		// handled below so f1 does not immediately re-open it.
		m.showHelp = false
		if m.bindings.Global[keyStr] == CmdHelp {
			return nil
		}
	}

	m.status = ""
	m.statusErr = false

	if m.active == PanelPrompt {
		if name, ok := m.bindings.Prompt[keyStr]; ok {
			return m.runPromptCommand(name)
		}
		if text := msg.Key().Text; text != "" {
			m.buf.InsertString(text)
			return m.afterEdit()
		}
	} else {
		if name, ok := m.bindings.Table[keyStr]; ok {
			return m.runTableCommand(name)
		}
	}

	if name, ok := m.bindings.Global[keyStr]; ok {
		return m.runGlobalCommand(name)
	}

	m.log.V(1).Info("unhandled key", "key", keyStr, "panel", m.active.String())
	return nil
}

func (m *Model) runGlobalCommand(name string) tea.Cmd {
	switch name {
	case CmdQuit:
		return tea.Quit
	case CmdToggleActive:
		if m.active == PanelPrompt {
			if m.tbl.Value() == nil || m.evaluating {
				return nil
			}
			m.active = PanelTable
		} else {
			m.active = PanelPrompt
		}
	case CmdUndo:
		if !m.hist.CanUndo() && samePrompt(m.hist.Current(), m.currentEntry()) {
			return nil
		}
		entry := m.hist.Undo(m.currentEntry())
		return m.showEntry(entry)
	case CmdRedo:
		if !m.hist.CanRedo() {
			return nil
		}
		return m.showEntry(m.hist.Redo())
	case CmdReload:
		return m.reload()
	case CmdAppendHistory:
		return m.appendHistory()
	case CmdHelp:
		m.showHelp = !m.showHelp
	}
	return nil
}

func (m *Model) runPromptCommand(name string) tea.Cmd {
	switch name {
	case CmdForwardChar:
		m.buf.ForwardChar()
	case CmdBackwardChar:
		m.buf.BackwardChar()
	case CmdForwardWord:
		m.buf.ForwardWord()
	case CmdBackwardWord:
		m.buf.BackwardWord()
	case CmdHome:
		m.buf.Home()
	case CmdEnd:
		m.buf.End()
	case CmdDeleteNextChar:
		m.buf.DeleteNextChar()
		return m.afterEdit()
	case CmdDeletePrevChar:
		m.buf.DeletePrevChar()
		return m.afterEdit()
	case CmdDeleteNextWord:
		m.buf.DeleteNextWord()
		return m.afterEdit()
	case CmdDeletePrevWord:
		m.buf.DeletePrevWord()
		return m.afterEdit()
	case CmdKillLine:
		m.buf.KillLine()
		return m.afterEdit()
	case CmdYank:
		m.buf.Yank()
		return m.afterEdit()
	case CmdYankPop:
		m.buf.YankPop()
		return m.afterEdit()
	case CmdCopy:
		m.copyText(m.buf.Text(), "filter")
	}
	return nil
}

func (m *Model) runTableCommand(name string) tea.Cmd {
	switch name {
	case CmdUp:
		m.tbl.MoveUp()
	case CmdDown:
		m.tbl.MoveDown()
	case CmdLeft:
		m.tbl.MoveLeft()
	case CmdRight:
		m.tbl.MoveRight()
	case CmdFirstRow:
		m.tbl.FirstRow()
	case CmdLastRow:
		m.tbl.LastRow()
	case CmdFirstCol:
		m.tbl.FirstCol()
	case CmdLastCol:
		m.tbl.LastCol()
	case CmdNextPage:
		m.tbl.NextPage()
	case CmdPrevPage:
		m.tbl.PrevPage()
	case CmdEnterCell:
		if sel, ok := m.tbl.CellSelector(); ok && sel != "" {
			return m.pushFilter(appendSelector(m.buf.Text(), sel))
		}
	case CmdEnterRow:
		if sel, ok := m.tbl.RowSelector(); ok && sel != "" {
			return m.pushFilter(appendSelector(m.buf.Text(), sel))
		}
	case CmdSelectCol:
		if key, ok := m.tbl.SelectedColKey(); ok {
			if sel := key.Selector(); sel != "" {
				return m.pushFilter(appendFilter(m.buf.Text(), "map_values("+sel+")"))
			}
		}
	case CmdExpandCol:
		m.tbl.ExpandSelectedCol()
	case CmdExpandRow:
		m.tbl.ExpandSelectedRow()
	case CmdDeleteRow:
		if key, ok := m.tbl.SelectedRowKey(); ok {
			if sel := key.Selector(); sel != "" {
				return m.pushFilter(appendFilter(m.buf.Text(), "del("+sel+")"))
			}
		}
	case CmdDeleteCol:
		if key, ok := m.tbl.SelectedColKey(); ok {
			if sel := key.Selector(); sel != "" {
				return m.pushFilter(appendFilter(m.buf.Text(), "map_values(del("+sel+"))"))
			}
		}
	case CmdSortByCol:
		return m.sortByCol()
	case CmdFullWidth:
		m.tbl.ToggleFullWidth()
	case CmdIncWidth:
		m.tbl.IncWidth()
	case CmdDecWidth:
		m.tbl.DecWidth()
	case CmdCopy:
		m.copyText(m.buf.Text(), "filter")
	case CmdCopyCell:
		if cell, ok := m.tbl.SelectedCell(); ok {
			m.copyText(cell.PlainText(), "cell")
		}
	}
	return nil
}

// sortByCol appends a sort stage. Sorting is a structural rewrite that only
// makes sense when the current value is an array (integer row keys).
func (m *Model) sortByCol() tea.Cmd {
	rowKey, ok := m.tbl.SelectedRowKey()
	if !ok || len(rowKey) == 0 || rowKey[0].Kind() != table.KeyInt {
		m.setError("sort needs an array")
		return nil
	}
	stage := "sort"
	if colKey, ok := m.tbl.SelectedColKey(); ok {
		if sel := colKey.Selector(); sel != "" {
			stage = "sort_by(" + sel + ")"
		}
	}
	return m.pushFilter(appendFilter(m.buf.Text(), stage))
}

func (m *Model) currentEntry() promptEntry {
	return promptEntry{text: m.buf.Text(), cursor: m.buf.Cursor()}
}

// afterEdit records the live buffer in history and re-evaluates.
func (m *Model) afterEdit() tea.Cmd {
	m.hist.Push(m.currentEntry())
	return m.evaluate(m.buf.Text(), false)
}

// pushFilter replaces the prompt with a structurally derived filter (cell
// entry, delete, sort, ...) and evaluates it.
func (m *Model) pushFilter(filter string) tea.Cmd {
	m.buf.SetText(filter)
	m.hist.Push(m.currentEntry())
	return m.evaluate(filter, false)
}

// showEntry restores a history snapshot, buffer and table alike.
func (m *Model) showEntry(e promptEntry) tea.Cmd {
	m.buf.Restore(e.text, e.cursor)
	return m.evaluate(e.text, false)
}

// evaluate displays the result for filter, from cache when possible,
// otherwise by starting an asynchronous evaluation that supersedes any one
// still in flight.
func (m *Model) evaluate(filter string, bypassCache bool) tea.Cmd {
	if !bypassCache {
		if v, ok := m.results[filter]; ok {
			m.applyResult(filter, v)
			return nil
		}
	}
	if m.cancelEval != nil {
		m.cancelEval()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelEval = cancel
	m.evalGen++
	gen := m.evalGen
	m.evaluating = true

	runner := m.opts.Runner
	doc := m.doc
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			v, err := runner.Evaluate(ctx, doc, filter)
			return evalResultMsg{gen: gen, filter: filter, value: v, err: err}
		},
	)
}

func (m *Model) onEvalResult(msg evalResultMsg) tea.Cmd {
	if msg.gen != m.evalGen {
		return nil
	}
	m.evaluating = false
	m.cancelEval = nil

	if msg.err != nil {
		// The previous table stays on screen; the filter stays in history
		// so the user can keep editing from it.
		m.setError(firstLine(msg.err.Error()))
		m.log.V(1).Info("evaluation failed", "filter", msg.filter, "error", msg.err.Error())
		return nil
	}
	m.results[msg.filter] = msg.value
	m.applyResult(msg.filter, msg.value)
	return nil
}

// applyResult swaps the table to the given filter's value, stashing the old
// filter's cursor/expansion state and restoring the new one's if we have
// been there before.
func (m *Model) applyResult(filter string, v *document.Value) {
	if m.shownFilter != filter && m.tbl.Value() != nil {
		m.tableStates[m.shownFilter] = m.tbl.SaveState()
	}
	m.tbl.SetValue(v)
	if st, ok := m.tableStates[filter]; ok {
		m.tbl.Restore(st)
	}
	m.shownFilter = filter
}

// reload re-reads the document (when the source supports it), drops every
// cached result, and re-evaluates the current filter. History is untouched.
func (m *Model) reload() tea.Cmd {
	if m.opts.Reload != nil {
		doc, err := m.opts.Reload()
		if err != nil {
			m.setError(fmt.Sprintf("reload: %v", err))
			return nil
		}
		m.doc = doc
	}
	m.results = make(map[string]*document.Value)
	return m.evaluate(m.buf.Text(), true)
}

func (m *Model) appendHistory() tea.Cmd {
	if m.opts.HistoryArgv == nil {
		m.setError("history recording not available")
		return nil
	}
	line := quoteInvocation(m.opts.HistoryArgv(m.buf.Text()))
	if err := appendShellHistory(m.opts.AppendHistoryCommand, line); err != nil {
		m.setError(fmt.Sprintf("append history: %v", err))
		return nil
	}
	m.setStatus("appended to shell history")
	return nil
}

func (m *Model) copyText(text, what string) {
	if err := copyToClipboard(m.opts.CopyCommand, text); err != nil {
		m.setError(fmt.Sprintf("copy: %v", err))
		return
	}
	m.setStatus("copied " + what)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

// tableHeight is the table panel's share of the screen: everything except
// the prompt line and the two status lines.
func (m *Model) tableHeight() int {
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

// watchCmd waits for the next watcher event.
func watchCmd(w *fsnotify.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
					return fileChangedMsg{}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err: err}
			}
		}
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
