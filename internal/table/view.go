package table

import (
	"strings"

	"charm.land/lipgloss/v2"
	runewidth "github.com/mattn/go-runewidth"
)

// Styles holds the lipgloss styles used to draw the grid. The zero value
// renders unstyled text, which is what the tests use.
type Styles struct {
	Header         lipgloss.Style
	RowHeader      lipgloss.Style
	String         lipgloss.Style
	EmptyString    lipgloss.Style
	Number         lipgloss.Style
	True           lipgloss.Style
	False          lipgloss.Style
	Null           lipgloss.Style
	Container      lipgloss.Style
	EmptyContainer lipgloss.Style
	Selected       lipgloss.Style
	Missing        lipgloss.Style
}

// DefaultStyles mirrors the original tool's plain color scheme.
func DefaultStyles() Styles {
	return Styles{
		Header:         lipgloss.NewStyle().Bold(true),
		RowHeader:      lipgloss.NewStyle().Bold(true),
		String:         lipgloss.NewStyle(),
		EmptyString:    lipgloss.NewStyle().Faint(true),
		Number:         lipgloss.NewStyle().Foreground(lipgloss.Blue),
		True:           lipgloss.NewStyle().Foreground(lipgloss.Green),
		False:          lipgloss.NewStyle().Foreground(lipgloss.Red),
		Null:           lipgloss.NewStyle().Foreground(lipgloss.Yellow).Faint(true),
		Container:      lipgloss.NewStyle().Foreground(lipgloss.Magenta),
		EmptyContainer: lipgloss.NewStyle().Foreground(lipgloss.Magenta).Faint(true),
		Selected:       lipgloss.NewStyle().Reverse(true),
	}
}

func (s Styles) forClass(c CellClass) lipgloss.Style {
	switch c {
	case ClassString:
		return s.String
	case ClassEmptyString:
		return s.EmptyString
	case ClassNumber:
		return s.Number
	case ClassTrue:
		return s.True
	case ClassFalse:
		return s.False
	case ClassNull:
		return s.Null
	case ClassContainer:
		return s.Container
	case ClassEmptyContainer:
		return s.EmptyContainer
	}
	return s.Missing
}

// fit truncates (with an ellipsis) or pads text to exactly width cells.
func fit(text string, width int, right bool) string {
	if runewidth.StringWidth(text) > width {
		if width <= 1 {
			return runewidth.Truncate(text, width, "")
		}
		return runewidth.Truncate(text, width, "…")
	}
	if right {
		return strings.Repeat(" ", width-runewidth.StringWidth(text)) + text
	}
	return text + strings.Repeat(" ", width-runewidth.StringWidth(text))
}

// View renders the visible part of the grid. active controls whether the
// selected cell is highlighted. The output is at most m.height lines, each
// at most m.width cells wide.
func (m *Model) View(active bool, styles Styles) string {
	if m.value == nil || m.width <= 0 || m.height <= 0 {
		return ""
	}

	gutter := 0
	if m.rowHeaderWidth > 0 {
		gutter = m.rowHeaderWidth + 1
	}
	content := m.width - gutter
	if content < 1 {
		content = 1
	}

	// Visible column range, last one possibly clipped.
	type viscol struct {
		idx   int
		width int
	}
	var visible []viscol
	used := 0
	for i := m.offsetCol; i < len(m.cols); i++ {
		remaining := content - used
		if remaining <= 0 {
			break
		}
		w := m.colWidths[i]
		if w > remaining {
			w = remaining
		}
		visible = append(visible, viscol{idx: i, width: w})
		used += w + 1
	}

	var b strings.Builder

	// Column header line.
	if gutter > 0 {
		b.WriteString(strings.Repeat(" ", gutter))
	}
	for vi, vc := range visible {
		if vi > 0 {
			b.WriteString(" ")
		}
		b.WriteString(styles.Header.Render(fit(m.cols[vc.idx].Display(), vc.width, false)))
	}

	last := m.offsetRow + m.pageSize()
	if last > len(m.rows) {
		last = len(m.rows)
	}
	for ri := m.offsetRow; ri < last; ri++ {
		b.WriteString("\n")
		row := m.rows[ri]
		if gutter > 0 {
			b.WriteString(styles.RowHeader.Render(fit(row.Key.Display(), m.rowHeaderWidth, false)))
			b.WriteString(" ")
		}
		for vi, vc := range visible {
			if vi > 0 {
				b.WriteString(" ")
			}
			cell, ok := row.cells[m.cols[vc.idx].id()]
			text := ""
			style := styles.Missing
			right := false
			if ok {
				text = cell.Text
				style = styles.forClass(cell.Class)
				right = cell.alignRight()
			}
			rendered := fit(text, vc.width, right)
			if active && ri == m.cursorRow && vc.idx == m.cursorCol {
				rendered = styles.Selected.Render(rendered)
			} else {
				rendered = style.Render(rendered)
			}
			b.WriteString(rendered)
		}
	}

	return b.String()
}
