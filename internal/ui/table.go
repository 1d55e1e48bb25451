package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/assetlist/internal/column"
	"github.com/five82/assetlist/internal/host"
	"github.com/five82/assetlist/internal/listconfig"
	"github.com/five82/assetlist/internal/sorting"
)

const (
	maxColumnWidth = 40
	detailMinWidth = 110
	detailMinCols  = 34
)

// tableState holds the open list and the cursor over it.
type tableState struct {
	list    *listconfig.Configuration
	session *column.Session
	// bindErr reports columns that failed to bind; the rest are shown.
	bindErr error
	history sorting.History
	// order is every object index in sort order; rows is order after the search filter.
	order     []int
	rows      []int
	selected  int
	offset    int
	focusCol  int
	colOffset int
}

// openList binds cfg against the current catalog and makes it the open list.
func (m *Model) openList(cfg *listconfig.Configuration) tea.Cmd {
	var keep string
	if obj, ok := m.selectedObject(); ok && m.table.list != nil && m.table.list.Name == cfg.Name {
		keep = obj.Location() + "\x00" + obj.Name()
	}
	focus := m.table.focusCol
	sameList := m.table.list != nil && m.table.list.Name == cfg.Name

	var objects []host.Object
	if m.snapshot.Catalog != nil {
		objects = m.snapshot.Catalog.OfType(cfg.TypeName, cfg.Sources())
	}
	session, err := column.NewSession(cfg, objects, m.logger)
	if err != nil {
		m.notify("list "+cfg.Name+": "+firstLine(err.Error()), true)
	}

	m.table = tableState{
		list:    cfg,
		session: session,
		bindErr: err,
		history: m.prefs.History(cfg.Name, session.Titles()),
	}
	if sameList && focus < len(session.Columns) {
		m.table.focusCol = focus
	}
	m.logs.session = session.ID
	m.resort()
	if keep != "" {
		m.selectWhere(func(obj host.Object) bool {
			return obj.Location()+"\x00"+obj.Name() == keep
		})
	}

	if sameList {
		return nil
	}
	m.logger.Info("list opened",
		"list", cfg.Name,
		"type", cfg.TypeName,
		"session", session.ID,
		"objects", len(objects),
		"columns", len(session.Columns),
	)
	m.prefs.LastList = cfg.Name
	return m.persistPrefs()
}

// resort recomputes the row order from the sort history, then refilters.
func (m *Model) resort() {
	if m.table.session == nil {
		m.table.order = nil
		m.applyFilter()
		return
	}
	m.table.order = sorting.SessionOrder(m.table.session, &m.table.history)
	m.applyFilter()
}

// applyFilter narrows the sorted rows to those matching the search.
func (m *Model) applyFilter() {
	var keep string
	if obj, ok := m.selectedObject(); ok {
		keep = obj.Location() + "\x00" + obj.Name()
	}
	rows := make([]int, 0, len(m.table.order))
	for _, i := range m.table.order {
		if m.search.matches(m.table.session.Objects[i].Name()) {
			rows = append(rows, i)
		}
	}
	m.table.rows = rows
	m.table.selected = 0
	if keep != "" {
		m.selectWhere(func(obj host.Object) bool {
			return obj.Location()+"\x00"+obj.Name() == keep
		})
	}
	m.ensureRowVisible()
}

func (m *Model) selectWhere(match func(host.Object) bool) {
	for i, row := range m.table.rows {
		if match(m.table.session.Objects[row]) {
			m.table.selected = i
			m.ensureRowVisible()
			return
		}
	}
}

// selectedObject returns the object under the cursor.
func (m Model) selectedObject() (host.Object, bool) {
	t := m.table
	if t.session == nil || t.selected < 0 || t.selected >= len(t.rows) {
		return nil, false
	}
	return t.session.Objects[t.rows[t.selected]], true
}

// focusedColumn returns the column under the cursor.
func (m Model) focusedColumn() (column.Column, bool) {
	t := m.table
	if t.session == nil || t.focusCol < 0 || t.focusCol >= len(t.session.Columns) {
		return nil, false
	}
	return t.session.Columns[t.focusCol], true
}

// toggleSort is the header click on the focused column.
func (m *Model) toggleSort() tea.Cmd {
	col, ok := m.focusedColumn()
	if !ok {
		return nil
	}
	dir := m.table.history.Toggle(m.table.focusCol)
	m.resort()
	m.logger.Debug("sort applied", "list", m.table.list.Name, "column", col.Title(), "direction", dir.String(), "keys", m.table.history.Len())
	return m.rememberSort()
}

func (m *Model) clearSort() tea.Cmd {
	if m.table.history.Len() == 0 {
		return nil
	}
	m.table.history.Clear()
	m.resort()
	m.notify("sort cleared", false)
	return m.rememberSort()
}

func (m *Model) rememberSort() tea.Cmd {
	if m.table.list == nil || m.table.session == nil {
		return nil
	}
	m.prefs.SetHistory(m.table.list.Name, &m.table.history, m.table.session.Titles())
	return m.persistPrefs()
}

// handleTableKey processes keys for the table view.
func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := m.visibleRows()
	switch {
	case key.Matches(msg, m.keys.Down):
		m.moveRow(1)
	case key.Matches(msg, m.keys.Up):
		m.moveRow(-1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.moveRow(max(page/2, 1))
	case key.Matches(msg, m.keys.HalfPageUp):
		m.moveRow(-max(page/2, 1))
	case key.Matches(msg, m.keys.PageDown):
		m.moveRow(max(page, 1))
	case key.Matches(msg, m.keys.PageUp):
		m.moveRow(-max(page, 1))
	case key.Matches(msg, m.keys.Top):
		m.table.selected = 0
		m.ensureRowVisible()
	case key.Matches(msg, m.keys.Bottom):
		m.table.selected = max(len(m.table.rows)-1, 0)
		m.ensureRowVisible()
	case key.Matches(msg, m.keys.Left):
		m.moveColumn(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveColumn(1)
	case key.Matches(msg, m.keys.Sort):
		return m, m.toggleSort()
	case key.Matches(msg, m.keys.ClearSort):
		return m, m.clearSort()
	case key.Matches(msg, m.keys.Search):
		return m, m.beginSearch()
	case key.Matches(msg, m.keys.Escape):
		if m.search.applied() {
			m.search.clear()
			m.applyFilter()
		}
	case key.Matches(msg, m.keys.Edit):
		return m, m.beginEdit()
	case key.Matches(msg, m.keys.Undo):
		return m, m.undoEdit()
	case key.Matches(msg, m.keys.Commit):
		return m, m.commitEdits()
	case key.Matches(msg, m.keys.Export):
		return m, m.exportFile()
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyTable()
	}
	return m, nil
}

func (m *Model) moveRow(delta int) {
	n := len(m.table.rows)
	if n == 0 {
		return
	}
	m.table.selected = min(max(m.table.selected+delta, 0), n-1)
	m.ensureRowVisible()
}

func (m *Model) moveColumn(delta int) {
	if m.table.session == nil {
		return
	}
	n := len(m.table.session.Columns)
	m.table.focusCol = min(max(m.table.focusCol+delta, 0), n-1)
	m.ensureColumnVisible()
}

// visibleRows is the number of object rows the table body can show.
func (m Model) visibleRows() int {
	// Box border (2) and header row (1).
	return max(m.contentHeight()-3, 1)
}

func (m *Model) ensureRowVisible() {
	visible := m.visibleRows()
	t := &m.table
	if t.selected < t.offset {
		t.offset = t.selected
	}
	if t.selected >= t.offset+visible {
		t.offset = t.selected - visible + 1
	}
	t.offset = max(min(t.offset, len(t.rows)-visible), 0)
}

// ensureColumnVisible scrolls the non-sticky columns so focusCol is on screen.
func (m *Model) ensureColumnVisible() {
	t := &m.table
	if t.session == nil || len(t.session.Columns) < 2 {
		t.colOffset = 0
		return
	}
	widths := m.columnWidths()
	avail := m.tableWidth() - 2 - widths[0] - 1
	t.colOffset = min(max(t.colOffset, 1), len(widths)-1)
	if t.focusCol == 0 {
		return
	}
	if t.focusCol < t.colOffset {
		t.colOffset = t.focusCol
	}
	for t.colOffset < t.focusCol {
		used := 0
		for i := t.colOffset; i <= t.focusCol; i++ {
			used += widths[i] + 1
		}
		if used <= avail {
			break
		}
		t.colOffset++
	}
}

// columnWidths sizes every column from its minimum and title.
func (m Model) columnWidths() []int {
	if m.table.session == nil {
		return nil
	}
	widths := make([]int, len(m.table.session.Columns))
	for i, c := range m.table.session.Columns {
		w := max(c.MinWidth(), textWidth(c.Title())+3)
		widths[i] = min(w, maxColumnWidth)
	}
	return widths
}

// showDetail reports whether the detail pane fits beside the table.
func (m Model) showDetail() bool {
	return m.width >= detailMinWidth
}

func (m Model) detailWidth() int {
	return max(m.width*3/10, detailMinCols)
}

func (m Model) tableWidth() int {
	if m.showDetail() {
		return m.width - m.detailWidth()
	}
	return m.width
}

// visibleColumns returns the column indexes drawn in a body of the given width:
// the sticky name column, then as many scrolled columns as fit.
func (m Model) visibleColumns(width int, widths []int) []int {
	if len(widths) == 0 {
		return nil
	}
	cols := []int{0}
	used := widths[0]
	start := max(m.table.colOffset, 1)
	for i := start; i < len(widths); i++ {
		if used+1+widths[i] > width {
			break
		}
		used += 1 + widths[i]
		cols = append(cols, i)
	}
	return cols
}

// renderTable renders the table and, on wide terminals, the detail pane.
func (m Model) renderTable() string {
	height := m.contentHeight()
	width := m.tableWidth()
	title := "Objects"
	if m.table.list != nil {
		title = m.table.list.Name
	}
	table := m.renderTitledBox(title, m.renderTableBody(width-2, height-2), width, height, true)
	if !m.showDetail() {
		return table
	}
	detail := m.renderTitledBox("Details", m.renderDetail(m.detailWidth()-2, height-2), m.detailWidth(), height, false)
	return lipgloss.JoinHorizontal(lipgloss.Top, table, detail)
}

func (m Model) renderTableBody(width, height int) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)
	text := styles.WithBackground(m.theme.FocusBg)

	if m.table.session == nil {
		msg := "No list configured. Add a .toml list to " + m.config.ListsDir
		if len(m.snapshot.Lists) > 0 {
			msg = "No list open. Press o to open one."
		}
		if m.snapshot.Catalog == nil {
			msg = "Loading catalog..."
		}
		return bg.FillLine(bg.Cell(msg, width, text.MutedText, lipgloss.Left), width)
	}

	widths := m.columnWidths()
	cols := m.visibleColumns(width, widths)
	lines := make([]string, 0, height)
	lines = append(lines, m.renderHeaderRow(cols, widths, width))

	if len(m.table.rows) == 0 {
		msg := "No objects of type " + m.table.list.TypeName
		if m.search.applied() {
			msg = "No objects match /" + m.search.pattern
		}
		lines = append(lines, bg.FillLine(bg.Cell(msg, width, text.MutedText, lipgloss.Left), width))
	}

	end := min(m.table.offset+height-1, len(m.table.rows))
	for i := m.table.offset; i < end; i++ {
		lines = append(lines, m.renderRow(i, cols, widths, width))
	}
	for len(lines) < height {
		lines = append(lines, bg.Spaces(width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHeaderRow(cols, widths []int, width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	parts := make([]string, 0, len(cols))
	for _, ci := range cols {
		c := m.table.session.Columns[ci]
		w := widths[ci]
		marker, primary := sortMarker(m.table.history.Rank(ci))
		markerStyle := styles.FaintText
		if primary {
			markerStyle = styles.AccentText
		}
		titleStyle := styles.Text.Bold(true)
		if ci == m.table.focusCol {
			titleStyle = styles.AccentText.Bold(true)
		}
		titleWidth := w
		if marker != "" {
			titleWidth = w - 2
		}
		cell := bg.Cell(c.Title(), titleWidth, titleStyle, lipgloss.Left)
		if marker != "" {
			cell += bg.Space() + bg.Render(marker, markerStyle)
		}
		parts = append(parts, cell)
	}
	return bg.FillLine(bg.Join(parts, " "), width)
}

func (m Model) renderRow(i int, cols, widths []int, width int) string {
	obj := m.table.session.Objects[m.table.rows[i]]
	rowBg := m.theme.FocusBg
	selected := i == m.table.selected
	if selected {
		rowBg = m.theme.SelectionBg
	}
	bg := NewBgStyle(rowBg)
	parts := make([]string, 0, len(cols))
	for _, ci := range cols {
		cellBg := rowBg
		if selected && ci == m.table.focusCol {
			cellBg = m.theme.CellFocusBg
		}
		parts = append(parts, m.renderCell(m.table.session.Columns[ci], obj, widths[ci], cellBg, selected))
	}
	return bg.FillLine(bg.Join(parts, " "), width)
}

// sortMarker returns the header arrow for a column's place in the sort
// history: filled for the primary key, hollow for older keys.
func sortMarker(rank int, dir sorting.Direction) (string, bool) {
	switch {
	case rank < 0:
		return "", false
	case rank == 0 && dir == sorting.Descending:
		return "▼", true
	case rank == 0:
		return "▲", true
	case dir == sorting.Descending:
		return "▽", false
	}
	return "△", false
}
