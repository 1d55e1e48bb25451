package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderTitledBox draws content inside a single-line border with the title
// set into the top edge. Content lines are padded or cut to fit.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColor, bgColor := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColor, bgColor = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	rightPad := max(innerWidth-textWidth(title)-3, 0)

	top := bg.Render("┌─", borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad)+"┐", borderStyle)
	bottom := bg.Render("└"+strings.Repeat("─", innerWidth)+"┘", borderStyle)

	lines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)
	body := make([]string, 0, boxHeight)
	side := bg.Render("│", borderStyle)
	for i := range boxHeight {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		body = append(body, side+bg.FillLine(line, innerWidth)+side)
	}
	if len(body) == 0 {
		return top + "\n" + bottom
	}
	return top + "\n" + strings.Join(body, "\n") + "\n" + bottom
}
