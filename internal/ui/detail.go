package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/assetlist/internal/column"
	"github.com/five82/assetlist/internal/projection"
)

// renderDetail lists every column of the selected object, one per line, with
// the full canonical value the table cell may have cut.
func (m Model) renderDetail(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	obj, ok := m.selectedObject()
	if !ok {
		return bg.Cell(" Nothing selected", width, styles.MutedText, lipgloss.Left)
	}

	source := "asset"
	if !obj.Persistent() {
		source = "scene"
	}
	labelWidth := 10
	for _, c := range m.table.session.Columns[1:] {
		labelWidth = max(labelWidth, min(textWidth(c.Title()), width/2))
	}
	valueWidth := max(width-labelWidth-3, 1)

	field := func(label, value string, valueStyle lipgloss.Style) string {
		return bg.Space() +
			bg.Cell(label, labelWidth, styles.MutedText, lipgloss.Left) +
			bg.Space() +
			bg.Cell(value, valueWidth, valueStyle, lipgloss.Left)
	}

	lines := []string{
		bg.Space() + bg.Cell(projection.Sanitize(obj.Name()), width-1, styles.AccentText.Bold(true), lipgloss.Left),
		field("Type", obj.TypeName(), styles.Text),
		field("Source", source, styles.Text),
		field("Location", truncateMiddle(obj.Location(), valueWidth), styles.Text),
		bg.Space() + bg.Render(strings.Repeat("─", max(width-2, 0)), styles.FaintText),
	}

	for _, c := range m.table.session.Columns[1:] {
		if len(lines) >= height {
			break
		}
		lines = append(lines, m.detailField(c, field, styles))
	}
	return strings.Join(lines, "\n")
}

func (m Model) detailField(c column.Column, field func(string, string, lipgloss.Style) string, styles Styles) string {
	obj, _ := m.selectedObject()
	pc, ok := c.(*column.PropertyColumn)
	if !ok {
		return field(c.Title(), projection.Sanitize(c.Canonical(obj)), styles.Text)
	}
	if _, found := pc.Get(obj); !found {
		return field(c.Title(), "missing "+pc.Path(), styles.DangerText)
	}
	style := styles.KindStyle(projection.FamilyOf(pc.Kind())).Background(lipgloss.Color(m.theme.SurfaceAlt))
	return field(c.Title(), projection.Sanitize(pc.Canonical(obj)), style)
}
