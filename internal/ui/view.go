package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

var (
	promptMarkStyle   = lipgloss.NewStyle().Bold(true)
	promptCursorStyle = lipgloss.NewStyle().Reverse(true)
	statusErrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Red)
	statusInfoStyle   = lipgloss.NewStyle().Faint(true)
)

// View lays the screen out as table panel, prompt line, and a two-line
// status area. The help overlay replaces the table panel while open.
func (m *Model) View() tea.View {
	var b strings.Builder

	if m.showHelp {
		b.WriteString(m.renderHelp())
	} else {
		b.WriteString(m.renderTable())
	}
	b.WriteString("\n")
	b.WriteString(m.renderPrompt())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	v := tea.NewView(b.String())
	v.AltScreen = true
	v.KeyboardEnhancements.ReportEventTypes = true
	return v
}

// renderTable pads the table panel to exactly tableHeight lines so the
// prompt and status stay pinned to the bottom of the screen.
func (m *Model) renderTable() string {
	content := m.tbl.View(m.active == PanelTable, m.styles)
	lines := 0
	if content != "" {
		lines = strings.Count(content, "\n") + 1
	}
	for ; lines < m.tableHeight(); lines++ {
		content += "\n"
	}
	return content
}

func (m *Model) renderPrompt() string {
	mark := "> "
	if m.active == PanelPrompt {
		mark = promptMarkStyle.Render("> ")
	}

	runes := []rune(m.buf.Text())
	cur := m.buf.Cursor()
	if m.active != PanelPrompt {
		return mark + string(runes)
	}

	var b strings.Builder
	b.WriteString(mark)
	b.WriteString(string(runes[:cur]))
	if cur < len(runes) {
		b.WriteString(promptCursorStyle.Render(string(runes[cur])))
		b.WriteString(string(runes[cur+1:]))
	} else {
		b.WriteString(promptCursorStyle.Render(" "))
	}
	return b.String()
}

// renderStatus produces the two status lines: the message line (spinner
// while evaluating, the last error or notice otherwise, a shape summary as
// fallback) and the short key help.
func (m *Model) renderStatus() string {
	var line string
	switch {
	case m.evaluating:
		line = m.spinner.View() + " evaluating"
	case m.statusErr:
		line = statusErrStyle.Render(m.status)
	case m.status != "":
		line = statusInfoStyle.Render(m.status)
	default:
		line = statusInfoStyle.Render(m.shapeSummary())
	}
	return line + "\n" + m.help.View(helpKeyMap{bindings: m.bindings})
}

// shapeSummary describes the displayed table and selection, e.g.
// "12×4 · .users.[3].name".
func (m *Model) shapeSummary() string {
	if m.tbl.Value() == nil {
		return ""
	}
	s := fmt.Sprintf("%d×%d", m.tbl.RowCount(), m.tbl.ColCount())
	if m.active == PanelTable {
		if sel, ok := m.tbl.CellSelector(); ok && sel != "" {
			s += "  " + sel
		}
	}
	return s
}

func (m *Model) renderHelp() string {
	prev := m.help.ShowAll
	m.help.ShowAll = true
	out := m.help.View(helpKeyMap{bindings: m.bindings})
	m.help.ShowAll = prev

	lines := strings.Count(out, "\n") + 1
	for ; lines < m.tableHeight(); lines++ {
		out += "\n"
	}
	return out
}
