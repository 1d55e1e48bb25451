package ui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/assetlist/internal/column"
	"github.com/five82/assetlist/internal/host"
	"github.com/five82/assetlist/internal/projection"
)

const swatchBlock = "██"

// renderCell draws one cell of the table at exactly width columns.
func (m Model) renderCell(c column.Column, obj host.Object, width int, cellBg string, selected bool) string {
	bg := NewBgStyle(cellBg)
	styles := m.theme.Styles().WithBackground(cellBg)
	textStyle := styles.Text
	if selected {
		textStyle = textStyle.Foreground(lipgloss.Color(m.theme.SelectionText))
	}

	in := c.Render(obj, m.table.session.Missing())
	text := projection.Sanitize(in.Text)
	align := lipgloss.Left
	if in.Align == projection.AlignCenter {
		align = lipgloss.Center
	}

	switch in.Op {
	case projection.OpEditable:
		if isColorColumn(c) {
			return m.renderSwatch(in, width, bg)
		}
		return bg.Cell(text, width, textStyle, align)

	case projection.OpReadonly:
		if isColorColumn(c) {
			return m.renderSwatch(in, width, bg)
		}
		return bg.Cell(text, width, styles.MutedText, align)

	case projection.OpLabel:
		return bg.Cell(text, width, textStyle, align)

	case projection.OpPercent:
		return bg.Cell(text, width, styles.InfoText, lipgloss.Right)

	case projection.OpProgress:
		return m.renderProgress(in, width, bg, styles)

	case projection.OpSwatch:
		return m.renderSwatch(in, width, bg)

	case projection.OpObjectLabel:
		if in.Icon != "" {
			text = "[" + projection.Sanitize(in.Icon) + "] " + text
		}
		if in.Text == "" || in.Text == "Null" {
			return bg.Cell(text, width, styles.MutedText, align)
		}
		return bg.Cell(text, width, textStyle, align)

	case projection.OpMissing:
		return bg.Cell(text, width, styles.DangerText, lipgloss.Left)
	}
	return bg.Spaces(width)
}

// renderProgress draws a gradient bar followed by the percentage.
func (m Model) renderProgress(in projection.Instruction, width int, bg BgStyle, styles Styles) string {
	label := projection.Sanitize(in.Text)
	barWidth := width - textWidth(label) - 1
	if barWidth < 4 {
		return bg.Cell(label, width, styles.InfoText, lipgloss.Right)
	}
	bar := progress.New(
		progress.WithGradient(m.theme.ProgressFrom, m.theme.ProgressTo),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = m.theme.Border
	return bar.ViewAs(in.Fraction) + bg.Space() + bg.Render(label, styles.InfoText)
}

// renderSwatch draws a color block in the value's color, then its hex form.
func (m Model) renderSwatch(in projection.Instruction, width int, bg BgStyle) string {
	styles := m.theme.Styles()
	hex := host.HexColor(in.Color)
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(hex[:7])).Render(swatchBlock)
	label := hex
	if in.HDR {
		label += " HDR"
	}
	rest := width - textWidth(swatchBlock) - 1
	if rest < 1 {
		return bg.Cell(hex, width, styles.Text, lipgloss.Left)
	}
	return swatch + bg.Space() + bg.Cell(label, rest, styles.Text, lipgloss.Left)
}

// isColorColumn reports whether c shows color properties.
func isColorColumn(c column.Column) bool {
	pc, ok := c.(*column.PropertyColumn)
	return ok && projection.FamilyOf(pc.Kind()) == projection.FamilyColor
}
