package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/assetlist/internal/logtail"
)

const logTailLines = 500

// logState holds the session log view.
type logState struct {
	vp     viewport.Model
	lines  []string
	err    error
	follow bool
	// session is the id of the open list's session; all shows every session.
	session string
	all     bool

	searchActive   bool
	searchQuery    string
	searchRegex    *regexp.Regexp
	searchInput    textinput.Model
	searchMatches  []int
	searchMatchIdx int
}

type logBatchMsg struct {
	lines []string
	err   error
}

func newLogState() logState {
	ti := textinput.New()
	ti.Placeholder = "Search log..."
	ti.CharLimit = 256
	ti.Prompt = "/"
	return logState{
		vp:          viewport.New(0, 0),
		follow:      true,
		searchInput: ti,
	}
}

// refreshLogs reads the tail of the log file, filtered to the open session
// unless every session is shown.
func (m Model) refreshLogs() tea.Cmd {
	path := m.config.LogPath()
	id := m.logs.session
	if m.logs.all {
		id = ""
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines, logtail.Session(id))
		return logBatchMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogBatch(msg logBatchMsg) {
	m.logs.err = msg.err
	if msg.err == nil {
		m.logs.lines = msg.lines
	}
	if m.logs.searchRegex != nil {
		m.findSearchMatches()
	}
	m.updateLogViewport()
}

// updateLogViewport sizes the viewport to the box and refreshes its content.
func (m *Model) updateLogViewport() {
	m.logs.vp.Width = max(m.width-2, 1)
	m.logs.vp.Height = max(m.contentHeight()-2, 1)
	m.logs.vp.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logs.vp.SetContent(m.renderLogContent())
	if m.logs.follow {
		m.logs.vp.GotoBottom()
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	title := "Session Log"
	if m.logs.all {
		title = "Log (all sessions)"
	} else if m.table.list != nil {
		title = "Session Log: " + m.table.list.Name
	}
	return m.renderTitledBox(title, m.logs.vp.View(), m.width, m.contentHeight(), true)
}

func (m Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.logs.vp.Width

	if m.logs.err != nil {
		return bg.FillLine(bg.Render("Cannot read log: "+m.logs.err.Error(), styles.DangerText), width)
	}
	if len(m.logs.lines) == 0 {
		return bg.FillLine(bg.Render("No log entries", styles.MutedText), width)
	}

	matchSet := make(map[int]bool, len(m.logs.searchMatches))
	for _, idx := range m.logs.searchMatches {
		matchSet[idx] = true
	}
	active := -1
	if m.logs.searchMatchIdx < len(m.logs.searchMatches) {
		active = m.logs.searchMatches[m.logs.searchMatchIdx]
	}

	var b strings.Builder
	for i, line := range m.logs.lines {
		num := fmt.Sprintf("%4d │ ", i+1)
		var content string
		switch {
		case i == active:
			hl := NewBgStyle(m.theme.Warning)
			content = hl.Render(num, styles.FaintText) +
				lipgloss.NewStyle().
					Background(lipgloss.Color(m.theme.Warning)).
					Foreground(lipgloss.Color(m.theme.Background)).
					Render(m.plainLogLine(line))
		case matchSet[i]:
			content = bg.Render(num, styles.AccentText) + bg.Render(m.plainLogLine(line), styles.AccentText)
		default:
			content = bg.Render(num, styles.FaintText) + m.colorizeLogLine(line, styles, bg)
		}
		b.WriteString(bg.FillLine(content, width))
		if i < len(m.logs.lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// displayAttrs drops the session attribute while the view is scoped to one session.
func (m Model) displayAttrs(attrs []logtail.Attr) []logtail.Attr {
	if m.logs.all {
		return attrs
	}
	out := attrs[:0:0]
	for _, a := range attrs {
		if a.Key != "session" {
			out = append(out, a)
		}
	}
	return out
}

// plainLogLine is the displayed text of a line without styling.
func (m Model) plainLogLine(line string) string {
	rec := logtail.Parse(line)
	if rec.Level == "" {
		return rec.Message
	}
	parts := []string{shortTime(rec.Time), rec.Level, rec.Message}
	for _, a := range m.displayAttrs(rec.Attrs) {
		parts = append(parts, a.Key+"="+a.Value)
	}
	return strings.Join(parts, " ")
}

// colorizeLogLine styles the time, level, message and attributes of one record.
func (m Model) colorizeLogLine(line string, styles Styles, bg BgStyle) string {
	rec := logtail.Parse(line)
	if rec.Level == "" {
		return bg.Render(rec.Message, styles.Text)
	}
	var b strings.Builder
	b.WriteString(bg.Render(shortTime(rec.Time), styles.FaintText))
	b.WriteString(bg.Space())
	b.WriteString(bg.Render(fmt.Sprintf("%-5s", rec.Level), levelStyle(rec.Level, styles).Bold(true)))
	b.WriteString(bg.Space())
	b.WriteString(bg.Render(rec.Message, styles.Text))
	for _, a := range m.displayAttrs(rec.Attrs) {
		b.WriteString(bg.Space())
		b.WriteString(bg.Render(a.Key+"=", styles.MutedText))
		b.WriteString(bg.Render(a.Value, styles.AccentText))
	}
	return b.String()
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR":
		return styles.DangerText
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.Text
	}
}

// shortTime trims an RFC 3339 timestamp to the clock time.
func shortTime(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.Format("15:04:05")
}

// handleLogsKey processes keyboard input for logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logs.follow = !m.logs.follow
		if m.logs.follow {
			m.logs.vp.GotoBottom()
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleSession):
		m.logs.all = !m.logs.all
		m.clearLogSearch()
		return m, m.refreshLogs()

	case key.Matches(msg, m.keys.Search):
		m.logs.searchActive = true
		m.logs.searchInput.SetValue("")
		return m, m.logs.searchInput.Focus()

	case key.Matches(msg, m.keys.NextMatch):
		m.stepSearchMatch(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevMatch):
		m.stepSearchMatch(-1)
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.logs.searchRegex != nil {
			m.clearLogSearch()
			m.updateLogViewport()
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.logs.vp.GotoTop()
		m.logs.follow = false

	case key.Matches(msg, m.keys.Bottom):
		m.logs.vp.GotoBottom()
		m.logs.follow = true

	case key.Matches(msg, m.keys.Down):
		m.logs.vp.ScrollDown(1)
		m.logs.follow = false

	case key.Matches(msg, m.keys.Up):
		m.logs.vp.ScrollUp(1)
		m.logs.follow = false

	case key.Matches(msg, m.keys.HalfPageDown):
		m.logs.vp.HalfPageDown()
		m.logs.follow = false

	case key.Matches(msg, m.keys.HalfPageUp):
		m.logs.vp.HalfPageUp()
		m.logs.follow = false

	case key.Matches(msg, m.keys.PageDown):
		m.logs.vp.PageDown()
		m.logs.follow = false

	case key.Matches(msg, m.keys.PageUp):
		m.logs.vp.PageUp()
		m.logs.follow = false
	}
	return m, nil
}

// handleLogSearchInput handles keyboard input during log search.
func (m Model) handleLogSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := m.logs.searchInput.Value()
		if query == "" {
			m.logs.searchActive = false
			m.logs.searchInput.Blur()
			return m, nil
		}
		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			return m, nil
		}
		m.logs.searchRegex = re
		m.logs.searchQuery = query
		m.logs.searchActive = false
		m.logs.searchInput.Blur()
		m.findSearchMatches()
		if len(m.logs.searchMatches) > 0 {
			m.logs.searchMatchIdx = 0
			m.logs.follow = false
		}
		m.updateLogViewport()
		m.scrollToSearchMatch()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.logs.searchActive = false
		m.logs.searchInput.Blur()
		m.logs.searchInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.logs.searchInput, cmd = m.logs.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) clearLogSearch() {
	m.logs.searchRegex = nil
	m.logs.searchQuery = ""
	m.logs.searchMatches = nil
	m.logs.searchMatchIdx = 0
}

// findSearchMatches records the lines whose displayed text matches the search.
func (m *Model) findSearchMatches() {
	m.logs.searchMatches = nil
	for i, line := range m.logs.lines {
		if m.logs.searchRegex.MatchString(m.plainLogLine(line)) {
			m.logs.searchMatches = append(m.logs.searchMatches, i)
		}
	}
	if m.logs.searchMatchIdx >= len(m.logs.searchMatches) {
		m.logs.searchMatchIdx = 0
	}
}

// stepSearchMatch moves to the next (1) or previous (-1) match, wrapping.
func (m *Model) stepSearchMatch(delta int) {
	n := len(m.logs.searchMatches)
	if n == 0 {
		return
	}
	m.logs.searchMatchIdx = (m.logs.searchMatchIdx + delta + n) % n
	m.logs.follow = false
	m.updateLogViewport()
	m.scrollToSearchMatch()
}

// scrollToSearchMatch centers the active match in the viewport.
func (m *Model) scrollToSearchMatch() {
	if m.logs.searchMatchIdx >= len(m.logs.searchMatches) {
		return
	}
	line := m.logs.searchMatches[m.logs.searchMatchIdx]
	m.logs.vp.SetYOffset(max(line-m.logs.vp.Height/2, 0))
}

// logStatus is the status line text of the log view.
func (m Model) logStatus(styles Styles, bg BgStyle) string {
	if m.logs.searchActive {
		return m.logs.searchInput.View()
	}
	if m.logs.searchRegex != nil {
		if len(m.logs.searchMatches) == 0 {
			return bg.Render("Pattern not found: "+m.logs.searchQuery, styles.DangerText)
		}
		return bg.Render("/"+m.logs.searchQuery, styles.AccentText) + bg.Space() +
			bg.Render(fmt.Sprintf("match %d/%d", m.logs.searchMatchIdx+1, len(m.logs.searchMatches)), styles.MutedText)
	}
	follow := "follow off"
	if m.logs.follow {
		follow = "following"
	}
	scope := "this list"
	if m.logs.all {
		scope = "all sessions"
	}
	return bg.Render(fmt.Sprintf("%d lines", len(m.logs.lines)), styles.MutedText) + bg.Space() +
		bg.Render("· "+scope+" · "+follow, styles.FaintText)
}
