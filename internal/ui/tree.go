package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/assetlist/internal/host"
	"github.com/five82/assetlist/internal/projection"
	"github.com/five82/assetlist/internal/proptree"
)

// treeState is the property tree of the open list's object type.
type treeState struct {
	cache     *proptree.Cache
	typeName  string
	root      *proptree.Node
	rows      []proptree.Row
	collapsed map[string]bool
	cursor    int
	offset    int
}

// rebuildTree refreshes the tree from the current catalog, keeping the
// collapse state and cursor path where they still exist.
func (m *Model) rebuildTree() {
	t := &m.tree
	if m.table.list == nil || m.snapshot.Catalog == nil {
		t.root, t.rows = nil, nil
		return
	}
	cfg := m.table.list
	if t.typeName != cfg.TypeName {
		t.typeName = cfg.TypeName
		clear(t.collapsed)
		t.cursor, t.offset = 0, 0
	}
	var keep string
	if t.cursor < len(t.rows) {
		keep = t.rows[t.cursor].Node.Path
	}
	paths := t.cache.Paths(cfg.TypeName, m.snapshot.Catalog.OfType(cfg.TypeName, cfg.Sources()))
	t.root = proptree.BuildTree(paths, cfg.UsedPaths(), true)
	t.rows = proptree.Flatten(t.root, t.collapsed)
	t.cursor = min(t.cursor, max(len(t.rows)-1, 0))
	for i, r := range t.rows {
		if r.Node.Path == keep {
			t.cursor = i
			break
		}
	}
	m.updateTreeViewport()
}

func (m *Model) updateTreeViewport() {
	t := &m.tree
	visible := max(m.contentHeight()-2, 1)
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+visible {
		t.offset = t.cursor - visible + 1
	}
	t.offset = max(min(t.offset, len(t.rows)-visible), 0)
}

// setCollapsed folds or unfolds the node under the cursor.
func (m *Model) setCollapsed(collapsed bool) {
	t := &m.tree
	if t.cursor >= len(t.rows) {
		return
	}
	n := t.rows[t.cursor].Node
	if n.Leaf() {
		return
	}
	if collapsed {
		t.collapsed[n.Path] = true
	} else {
		delete(t.collapsed, n.Path)
	}
	t.rows = proptree.Flatten(t.root, t.collapsed)
	m.updateTreeViewport()
}

// collapseOrParent folds an open node, or moves to the parent of a closed one.
func (m *Model) collapseOrParent() {
	t := &m.tree
	if t.cursor >= len(t.rows) {
		return
	}
	row := t.rows[t.cursor]
	if !row.Node.Leaf() && !t.collapsed[row.Node.Path] {
		m.setCollapsed(true)
		return
	}
	for i := t.cursor - 1; i >= 0; i-- {
		if t.rows[i].Depth < row.Depth {
			t.cursor = i
			break
		}
	}
	m.updateTreeViewport()
}

// handleTreeKey processes keys for the property tree view.
func (m Model) handleTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := &m.tree
	page := max(m.contentHeight()-2, 1)
	last := max(len(t.rows)-1, 0)
	switch {
	case key.Matches(msg, m.keys.Down):
		t.cursor = min(t.cursor+1, last)
	case key.Matches(msg, m.keys.Up):
		t.cursor = max(t.cursor-1, 0)
	case key.Matches(msg, m.keys.HalfPageDown):
		t.cursor = min(t.cursor+page/2, last)
	case key.Matches(msg, m.keys.HalfPageUp):
		t.cursor = max(t.cursor-page/2, 0)
	case key.Matches(msg, m.keys.PageDown):
		t.cursor = min(t.cursor+page, last)
	case key.Matches(msg, m.keys.PageUp):
		t.cursor = max(t.cursor-page, 0)
	case key.Matches(msg, m.keys.Top):
		t.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		t.cursor = last
	case key.Matches(msg, m.keys.Toggle):
		if t.cursor < len(t.rows) {
			m.setCollapsed(!t.collapsed[t.rows[t.cursor].Node.Path])
		}
	case key.Matches(msg, m.keys.Left):
		m.collapseOrParent()
	case key.Matches(msg, m.keys.Right):
		m.setCollapsed(false)
	case key.Matches(msg, m.keys.Copy):
		if t.cursor < len(t.rows) {
			path := t.rows[t.cursor].Node.Path
			return m, m.copyCmd(path, path)
		}
	}
	m.updateTreeViewport()
	return m, nil
}

// renderTree renders the property tree of the open list's type.
func (m Model) renderTree() string {
	height := m.contentHeight()
	title := "Properties"
	if m.tree.typeName != "" {
		title = fmt.Sprintf("Properties of %s", m.tree.typeName)
	}
	return m.renderTitledBox(title, m.renderTreeBody(m.width-2, height-2), m.width, height, true)
}

func (m Model) renderTreeBody(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	t := m.tree
	if len(t.rows) == 0 {
		msg := "No properties found"
		if m.table.list == nil {
			msg = "Open a list to browse its properties"
		}
		return bg.Cell(" "+msg, width, styles.MutedText, lipgloss.Left)
	}

	lines := make([]string, 0, height)
	end := min(t.offset+height, len(t.rows))
	for i := t.offset; i < end; i++ {
		lines = append(lines, m.renderTreeRow(t.rows[i], i == t.cursor, width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTreeRow(row proptree.Row, selected bool, width int) string {
	rowBg := m.theme.FocusBg
	if selected {
		rowBg = m.theme.SelectionBg
	}
	styles := m.theme.Styles().WithBackground(rowBg)
	bg := NewBgStyle(rowBg)
	n := row.Node

	marker := "  "
	if !n.Leaf() {
		marker = "▾ "
		if m.tree.collapsed[n.Path] {
			marker = "▸ "
		}
	}
	nameStyle := styles.Text
	if n.Disabled {
		nameStyle = styles.FaintText
	}
	line := bg.Spaces(1+row.Depth*2) + bg.Render(marker, styles.MutedText) + bg.Render(n.Name, nameStyle)

	if n.Kind != host.KindInvalid {
		kindStyle := styles.KindStyle(projection.FamilyOf(n.Kind)).Background(lipgloss.Color(rowBg))
		line += bg.Space() + bg.Render(n.Kind.String(), kindStyle)
	}
	if !n.Leaf() && m.tree.collapsed[n.Path] {
		line += bg.Space() + bg.Render(fmt.Sprintf("(%d)", n.Count()), styles.FaintText)
	}
	if n.Disabled {
		line += bg.Space() + bg.Render("● in list", styles.MutedText)
	}
	return bg.FillLine(line, width)
}
