// Package table turns an arbitrary JSON value into a navigable 2-D grid
// and maps grid positions back to filter selector fragments. The
// projection is deterministic: the same value, expansion state and width
// settings always produce the same grid.
package table

import (
	"sort"

	runewidth "github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/jex/internal/document"
)

// entry is one keyed child of a container, or the value itself under the
// implicit none key for scalars.
type entry struct {
	key   Key
	value *document.Value
}

// children projects one level of a value: array elements under int keys,
// object members under string keys, a scalar under the none key.
func children(v *document.Value) []entry {
	switch v.Kind() {
	case document.KindArray:
		out := make([]entry, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			out = append(out, entry{key: IntKey(i), value: v.Index(i)})
		}
		return out
	case document.KindObject:
		keys := v.Keys()
		out := make([]entry, 0, len(keys))
		for _, k := range keys {
			f, _ := v.Field(k)
			out = append(out, entry{key: StringKey(k), value: f})
		}
		return out
	}
	return []entry{{key: NoneKey(), value: v}}
}

// Row is one projected table row: its key path, the source element it was
// derived from, and its cells keyed by column id.
type Row struct {
	Key    Path
	Source *document.Value
	cells  map[string]Cell
}

// State is the restorable part of a table: selection, scrolling and
// expansion. Saved per filter string so undoing back to a filter restores
// the cursor where it was.
type State struct {
	CursorRow    int
	CursorCol    int
	OffsetRow    int
	OffsetCol    int
	ExpandedRows map[string]bool
	ExpandedCols map[string]bool
	FullWidth    bool
}

// Model is the table over the most recent successful evaluation result.
type Model struct {
	value *document.Value

	rows   []Row
	cols   []Path
	colIDs map[string]int

	cursorRow, cursorCol int
	offsetRow, offsetCol int
	width, height        int

	maxCellWidth int
	fullWidth    bool
	floatPrec    int

	expandedRows map[string]bool
	expandedCols map[string]bool

	colWidths      []int
	rowHeaderWidth int
}

// NewModel returns an empty table with the given width policy.
func NewModel(maxCellWidth, floatPrec int) *Model {
	if maxCellWidth < 1 {
		maxCellWidth = 1
	}
	return &Model{
		maxCellWidth: maxCellWidth,
		floatPrec:    floatPrec,
		expandedRows: make(map[string]bool),
		expandedCols: make(map[string]bool),
	}
}

// SetValue replaces the displayed value, resetting expansion state and
// selection. Pass a saved State to Restore afterwards to keep the cursor.
func (m *Model) SetValue(v *document.Value) {
	m.value = v
	m.expandedRows = make(map[string]bool)
	m.expandedCols = make(map[string]bool)
	m.cursorRow, m.cursorCol = 0, 0
	m.offsetRow, m.offsetCol = 0, 0
	m.rebuild()
}

// Value returns the currently displayed value, nil before the first
// successful evaluation.
func (m *Model) Value() *document.Value { return m.value }

// SetSize sets the viewport dimensions in terminal cells.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.clamp()
}

// RowCount returns the number of projected rows.
func (m *Model) RowCount() int { return len(m.rows) }

// ColCount returns the number of projected columns.
func (m *Model) ColCount() int { return len(m.cols) }

// Empty reports whether there is nothing to select.
func (m *Model) Empty() bool { return len(m.rows) == 0 || len(m.cols) == 0 }

// rebuild recomputes rows, columns and widths from the value and the
// expansion sets. Selection is clamped, never reset.
func (m *Model) rebuild() {
	m.rows = nil
	m.cols = nil
	m.colIDs = make(map[string]int)
	if m.value == nil {
		m.colWidths = nil
		m.rowHeaderWidth = 0
		return
	}

	// Base rows, then row expansion to a fixpoint: expanding a row can
	// produce rows that are themselves marked expanded.
	rows := make([]Row, 0, 8)
	for _, e := range children(m.value) {
		rows = append(rows, Row{Key: Path{e.key}, Source: e.value})
	}
	for {
		expanded := false
		next := make([]Row, 0, len(rows))
		for _, r := range rows {
			if m.expandedRows[r.Key.id()] && r.Source.IsContainer() && r.Source.Len() > 0 {
				for _, c := range children(r.Source) {
					next = append(next, Row{Key: r.Key.child(c.key), Source: c.value})
				}
				expanded = true
			} else {
				next = append(next, r)
			}
		}
		rows = next
		if !expanded {
			break
		}
	}

	// Cells per row, flattening expanded columns; the column list is the
	// first-seen union across rows.
	for i := range rows {
		rows[i].cells = make(map[string]Cell)
		for _, e := range children(rows[i].Source) {
			m.emitCell(&rows[i], Path{e.key}, e.value)
		}
	}
	m.rows = rows

	// Stable class ordering: none < string < int, insertion order within
	// a class. Only the first path segment decides the class, so rows
	// produced by expansion keep their parent's slot regardless of the
	// child segments' kinds.
	sort.SliceStable(m.cols, func(a, b int) bool {
		return m.cols[a][0].classRank() < m.cols[b][0].classRank()
	})
	sort.SliceStable(m.rows, func(a, b int) bool {
		return m.rows[a].Key[0].classRank() < m.rows[b].Key[0].classRank()
	})
	for i, c := range m.cols {
		m.colIDs[c.id()] = i
	}

	m.computeWidths()
	m.clamp()
}

// emitCell places value v at column path p of row r, or recurses one level
// when the column is marked expanded and the value can be flattened.
func (m *Model) emitCell(r *Row, p Path, v *document.Value) {
	if m.expandedCols[p.id()] && v.IsContainer() && v.Len() > 0 {
		for _, c := range children(v) {
			m.emitCell(r, p.child(c.key), c.value)
		}
		return
	}
	id := p.id()
	if _, seen := m.colIDs[id]; !seen {
		m.colIDs[id] = len(m.cols)
		m.cols = append(m.cols, p)
	}
	r.cells[id] = renderCell(v, m.floatPrec)
}

func (m *Model) computeWidths() {
	m.colWidths = make([]int, len(m.cols))
	for i, col := range m.cols {
		w := runewidth.StringWidth(col.Display())
		for _, r := range m.rows {
			if c, ok := r.cells[col.id()]; ok {
				if cw := runewidth.StringWidth(c.Text); cw > w {
					w = cw
				}
			}
		}
		if !m.fullWidth && w > m.maxCellWidth {
			w = m.maxCellWidth
		}
		if w < 1 {
			w = 1
		}
		m.colWidths[i] = w
	}

	m.rowHeaderWidth = 0
	for _, r := range m.rows {
		if w := runewidth.StringWidth(r.Key.Display()); w > m.rowHeaderWidth {
			m.rowHeaderWidth = w
		}
	}
	if !m.fullWidth && m.rowHeaderWidth > m.maxCellWidth {
		m.rowHeaderWidth = m.maxCellWidth
	}
}

// pageSize is the number of visible body rows given the current height
// (one line is the column header).
func (m *Model) pageSize() int {
	if m.height <= 1 {
		return 1
	}
	return m.height - 1
}

// clamp forces the selection into bounds and scrolls the viewport so the
// selected cell is visible.
func (m *Model) clamp() {
	if m.Empty() {
		m.cursorRow, m.cursorCol = 0, 0
		m.offsetRow, m.offsetCol = 0, 0
		return
	}
	m.cursorRow = clampInt(m.cursorRow, 0, len(m.rows)-1)
	m.cursorCol = clampInt(m.cursorCol, 0, len(m.cols)-1)

	page := m.pageSize()
	if m.cursorRow < m.offsetRow {
		m.offsetRow = m.cursorRow
	}
	if m.cursorRow >= m.offsetRow+page {
		m.offsetRow = m.cursorRow - page + 1
	}
	m.offsetRow = clampInt(m.offsetRow, 0, maxInt(0, len(m.rows)-1))

	if m.cursorCol < m.offsetCol {
		m.offsetCol = m.cursorCol
	}
	// Scroll right until the selected column fits in the content area.
	for m.offsetCol < m.cursorCol && !m.colVisible(m.cursorCol) {
		m.offsetCol++
	}
	m.offsetCol = clampInt(m.offsetCol, 0, maxInt(0, len(m.cols)-1))
}

// colVisible reports whether column i fits fully inside the content area
// when drawing starts at offsetCol.
func (m *Model) colVisible(i int) bool {
	avail := m.contentWidth()
	used := 0
	for j := m.offsetCol; j <= i && j < len(m.colWidths); j++ {
		used += m.colWidths[j] + 1
	}
	return used <= avail+1 // trailing gap does not need to fit
}

func (m *Model) contentWidth() int {
	w := m.width
	if m.rowHeaderWidth > 0 {
		w -= m.rowHeaderWidth + 1
	}
	if w < 1 {
		w = 1
	}
	return w
}

// Navigation. All motions clamp; moving on an empty table is a no-op.

func (m *Model) MoveUp()    { m.cursorRow--; m.clamp() }
func (m *Model) MoveDown()  { m.cursorRow++; m.clamp() }
func (m *Model) MoveLeft()  { m.cursorCol--; m.clamp() }
func (m *Model) MoveRight() { m.cursorCol++; m.clamp() }

func (m *Model) FirstRow() { m.cursorRow = 0; m.clamp() }
func (m *Model) LastRow()  { m.cursorRow = len(m.rows) - 1; m.clamp() }
func (m *Model) FirstCol() { m.cursorCol = 0; m.clamp() }
func (m *Model) LastCol()  { m.cursorCol = len(m.cols) - 1; m.clamp() }

func (m *Model) NextPage() { m.cursorRow += m.pageSize(); m.clamp() }
func (m *Model) PrevPage() { m.cursorRow -= m.pageSize(); m.clamp() }

// Cursor returns the selected row and column indices.
func (m *Model) Cursor() (row, col int) { return m.cursorRow, m.cursorCol }

// SelectedRowKey returns the selected row's key path.
func (m *Model) SelectedRowKey() (Path, bool) {
	if m.Empty() {
		return nil, false
	}
	return m.rows[m.cursorRow].Key, true
}

// SelectedColKey returns the selected column's key path.
func (m *Model) SelectedColKey() (Path, bool) {
	if m.Empty() {
		return nil, false
	}
	return m.cols[m.cursorCol], true
}

// SelectedRowSource returns the source element of the selected row.
func (m *Model) SelectedRowSource() (*document.Value, bool) {
	if m.Empty() {
		return nil, false
	}
	return m.rows[m.cursorRow].Source, true
}

// SelectedCell returns the selected cell. ok is false on an empty table or
// when the row has no value under the selected column.
func (m *Model) SelectedCell() (Cell, bool) {
	if m.Empty() {
		return Cell{}, false
	}
	c, ok := m.rows[m.cursorRow].cells[m.cols[m.cursorCol].id()]
	return c, ok
}

// CellSelector returns the filter fragment addressing the selected cell
// within the displayed value: row selector followed by column selector.
func (m *Model) CellSelector() (string, bool) {
	row, okR := m.SelectedRowKey()
	col, okC := m.SelectedColKey()
	if !okR || !okC {
		return "", false
	}
	return row.Selector() + col.Selector(), true
}

// RowSelector returns the filter fragment addressing the selected row's
// source element.
func (m *Model) RowSelector() (string, bool) {
	row, ok := m.SelectedRowKey()
	if !ok {
		return "", false
	}
	return row.Selector(), true
}

// ExpandSelectedCol flattens the selected column one level. Reports false
// when nothing in the column can be flattened (already-flat columns are a
// no-op, making expansion idempotent).
func (m *Model) ExpandSelectedCol() bool {
	if m.Empty() {
		return false
	}
	col := m.cols[m.cursorCol]
	expandable := false
	for _, r := range m.rows {
		if c, ok := r.cells[col.id()]; ok && c.Value != nil && c.Value.IsContainer() && c.Value.Len() > 0 {
			expandable = true
			break
		}
	}
	if !expandable {
		return false
	}
	m.expandedCols[col.id()] = true
	m.rebuild()
	return true
}

// ExpandSelectedRow replaces the selected row with one row per child of
// its source element. Reports false when the row is not expandable.
func (m *Model) ExpandSelectedRow() bool {
	if m.Empty() {
		return false
	}
	row := m.rows[m.cursorRow]
	if !row.Source.IsContainer() || row.Source.Len() == 0 {
		return false
	}
	m.expandedRows[row.Key.id()] = true
	m.rebuild()
	return true
}

// ToggleFullWidth switches between clamped and content-sized columns.
func (m *Model) ToggleFullWidth() {
	m.fullWidth = !m.fullWidth
	m.computeWidths()
	m.clamp()
}

// IncWidth raises the maximum cell width by one.
func (m *Model) IncWidth() {
	m.maxCellWidth++
	m.computeWidths()
	m.clamp()
}

// DecWidth lowers the maximum cell width by one, floored at 1.
func (m *Model) DecWidth() {
	if m.maxCellWidth > 1 {
		m.maxCellWidth--
	}
	m.computeWidths()
	m.clamp()
}

// MaxCellWidth returns the current clamp width.
func (m *Model) MaxCellWidth() int { return m.maxCellWidth }

// SaveState captures selection, scrolling and expansion for later restore.
func (m *Model) SaveState() State {
	return State{
		CursorRow:    m.cursorRow,
		CursorCol:    m.cursorCol,
		OffsetRow:    m.offsetRow,
		OffsetCol:    m.offsetCol,
		ExpandedRows: copySet(m.expandedRows),
		ExpandedCols: copySet(m.expandedCols),
		FullWidth:    m.fullWidth,
	}
}

// Restore applies a saved state to the current value, clamping whatever no
// longer fits the new projection.
func (m *Model) Restore(s State) {
	m.expandedRows = copySet(s.ExpandedRows)
	m.expandedCols = copySet(s.ExpandedCols)
	m.fullWidth = s.FullWidth
	m.cursorRow, m.cursorCol = s.CursorRow, s.CursorCol
	m.offsetRow, m.offsetCol = s.OffsetRow, s.OffsetCol
	m.rebuild()
}

func copySet(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s))
	for k, v := range s {
		if v {
			out[k] = true
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
