package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/assetlist/internal/column"
)

// renderHeader renders the top bar: list, counts, sort and catalog health.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < 100

	parts := []string{bg.Render("assetlist", styles.Logo)}

	if m.snapshot.Catalog == nil {
		if m.snapshot.LastError != nil {
			parts = append(parts,
				bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
					bg.Render(truncate(m.snapshot.LastError.Error(), 80), styles.DangerText))
		} else {
			parts = append(parts, bg.Render("Loading catalog...", styles.WarningText.Bold(true)))
		}
		return styles.Header.Width(m.width).MaxWidth(m.width).Render(bg.Join(parts, "  "))
	}

	if t := m.table; t.list != nil {
		parts = append(parts,
			bg.Render(t.list.Name, styles.Text.Bold(true))+bg.Space()+
				bg.Render(t.list.TypeName, styles.MutedText))
		count := fmt.Sprintf("%d", len(t.rows))
		if len(t.rows) != len(t.session.Objects) {
			count = fmt.Sprintf("%d/%d", len(t.rows), len(t.session.Objects))
		}
		parts = append(parts, bg.Render("Objects:", styles.MutedText)+bg.Space()+bg.Render(count, styles.Text))
		if !compact {
			parts = append(parts, bg.Render("Sort:", styles.MutedText)+bg.Space()+bg.Render(m.sortSummary(), styles.AccentText))
		}
	} else {
		parts = append(parts, bg.Render(fmt.Sprintf("%d lists", len(m.snapshot.Lists)), styles.MutedText))
	}

	if m.edits != nil && m.edits.Dirty() {
		parts = append(parts, bg.Render("● modified", styles.WarningText.Bold(true)))
	}
	if m.heldBack() {
		parts = append(parts, bg.Render("changed on disk", styles.WarningText))
	}

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if m.snapshot.LastError != nil {
		label := "ERROR"
		if m.snapshot.IsStale() {
			label = "STALE"
		}
		maxErr := 60
		if compact {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render(label, styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(firstLine(m.snapshot.LastError.Error()), maxErr), styles.DangerText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		MaxWidth(m.width).
		Render(bg.Join(parts, "  "))
}

// sortSummary describes the sort keys, primary first.
func (m Model) sortSummary() string {
	entries := m.table.history.Entries()
	if len(entries) == 0 || m.table.session == nil {
		return "none"
	}
	parts := make([]string, 0, len(entries))
	for i, e := range entries {
		if e.Column < 0 || e.Column >= len(m.table.session.Columns) {
			continue
		}
		marker, _ := sortMarker(i, e.Direction)
		parts = append(parts, columnTitle(m.table.session.Columns[e.Column])+" "+marker)
	}
	return strings.Join(parts, ", ")
}

func columnTitle(c column.Column) string {
	return truncate(c.Title(), 16)
}

// formatTimestamp formats the catalog load time with a relative indicator.
func (m Model) formatTimestamp() string {
	if m.lastUpdated.IsZero() {
		return ""
	}
	since := time.Since(m.lastUpdated)
	ts := m.lastUpdated.Format("15:04:05")
	switch {
	case since < time.Minute:
		ts += " (now)"
	case since < time.Hour:
		ts += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		ts += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return ts
}

// renderCommandBar renders the key hints for the active view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var cmds []cmd
	switch m.currentView {
	case ViewTable:
		cmds = []cmd{{"o", "Lists"}, {"s", "Sort"}, {"/", "Search"}, {"enter", "Edit"}, {"ctrl+s", "Save"}, {"x", "Export"}, {"y", "Copy"}, {"p", "Tree"}, {"L", "Log"}}
	case ViewTree:
		cmds = []cmd{{"enter", "Fold"}, {"h/l", "Close/Open"}, {"y", "Copy path"}, {"t", "Table"}, {"L", "Log"}}
	case ViewLogs:
		cmds = []cmd{{"space", "Follow"}, {"f", "Session/All"}, {"/", "Search"}, {"n/N", "Match"}, {"t", "Table"}}
	}
	cmds = append(cmds, cmd{"?", "Help"}, cmd{"q", "Quit"})

	segments := make([]string, 0, len(cmds))
	for _, c := range cmds {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText.Bold(true))+bg.Render(":"+c.desc, styles.MutedText))
	}
	return bg.FillLine(bg.Space()+bg.Join(segments, "  "), m.width)
}

// renderStatusLine renders the input prompt, the latest notice, or view status.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	var line string
	switch {
	case m.edit.active:
		line = bg.Render(fmt.Sprintf("%s.%s ", m.edit.object, m.edit.column), styles.MutedText) + m.edit.input.View()
		if m.edit.err != nil {
			line += bg.Space() + bg.Render(firstLine(m.edit.err.Error()), styles.DangerText)
		}
	case m.search.active:
		line = m.search.input.View()
		if m.search.err != nil {
			line += bg.Space() + bg.Render("invalid pattern", styles.DangerText)
		}
	case m.currentView == ViewLogs && m.logs.searchActive:
		line = m.logs.searchInput.View()
	case m.notice.text != "":
		style := styles.SuccessText
		if m.notice.err {
			style = styles.DangerText
		}
		line = bg.Render(m.notice.text, style)
	case m.currentView == ViewLogs:
		line = m.logStatus(styles, bg)
	case m.search.applied():
		line = bg.Render("/"+m.search.pattern, styles.AccentText) + bg.Space() +
			bg.Render("esc clears", styles.FaintText)
	case m.table.bindErr != nil:
		line = bg.Render(firstLine(m.table.bindErr.Error()), styles.WarningText)
	}
	return bg.FillLine(bg.Space()+line, m.width)
}
