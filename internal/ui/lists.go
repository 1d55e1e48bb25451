package ui

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/assetlist/internal/prefs"
)

// pickerState is the list chooser modal.
type pickerState struct {
	open   bool
	cursor int
}

func (m *Model) openPicker() {
	m.picker.open = true
	m.picker.cursor = 0
	if m.table.list == nil {
		return
	}
	for i, l := range m.snapshot.Lists {
		if l.Name == m.table.list.Name {
			m.picker.cursor = i
			return
		}
	}
}

// handlePickerKey processes keys while the list chooser is open.
func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.snapshot.Lists)
	switch {
	case key.Matches(msg, m.keys.Escape), msg.String() == "o", msg.String() == "q":
		m.picker.open = false
	case key.Matches(msg, m.keys.Down):
		m.picker.cursor = min(m.picker.cursor+1, max(n-1, 0))
	case key.Matches(msg, m.keys.Up):
		m.picker.cursor = max(m.picker.cursor-1, 0)
	case key.Matches(msg, m.keys.Top):
		m.picker.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.picker.cursor = max(n-1, 0)
	case key.Matches(msg, m.keys.Confirm):
		m.picker.open = false
		if m.picker.cursor >= n {
			return m, nil
		}
		cfg := m.snapshot.Lists[m.picker.cursor]
		if m.table.list != nil && m.table.list.Name == cfg.Name {
			return m, nil
		}
		m.search.clear()
		m.table = tableState{}
		cmd := m.openList(cfg)
		m.currentView = ViewTable
		return m, cmd
	}
	return m, nil
}

// renderPicker renders the list chooser modal.
func (m Model) renderPicker() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Open List"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 50)))
	b.WriteString("\n\n")

	if len(m.snapshot.Lists) == 0 {
		b.WriteString(styles.MutedText.Render("No lists in " + m.config.ListsDir))
	}
	for i, l := range m.snapshot.Lists {
		line := fmt.Sprintf("%-24s %-16s %2d columns",
			truncate(l.Name, 24), truncate(l.TypeName, 16), len(l.Columns))
		style := styles.Text
		prefix := "  "
		if i == m.picker.cursor {
			style = styles.Selected
			prefix = "› "
		}
		b.WriteString(styles.AccentText.Render(prefix))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	if m.snapshot.ListErr != nil {
		b.WriteString("\n")
		for _, line := range strings.Split(m.snapshot.ListErr.Error(), "\n") {
			b.WriteString(styles.DangerText.Render(truncate(line, 56)))
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(60)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(strings.TrimRight(b.String(), "\n")),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// prefsWriter orders preference saves issued from commands. Sequence numbers
// are taken on the update loop, so a save that runs after a newer one for the
// same file is dropped instead of overwriting it.
type prefsWriter struct {
	mu      sync.Mutex
	next    atomic.Uint64
	written map[string]uint64
}

var prefsSaves prefsWriter

func (w *prefsWriter) issue() uint64 {
	return w.next.Add(1)
}

func (w *prefsWriter) save(path string, seq uint64, p prefs.Prefs) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if seq <= w.written[path] {
		return nil
	}
	if w.written == nil {
		w.written = make(map[string]uint64)
	}
	w.written[path] = seq
	return prefs.Save(path, p)
}

// persistPrefs saves a copy of the current preferences in the background.
func (m Model) persistPrefs() tea.Cmd {
	if m.prefsPath == "" {
		return nil
	}
	path := m.prefsPath
	p := clonePrefs(m.prefs)
	seq := prefsSaves.issue()
	return func() tea.Msg {
		return prefsSavedMsg{err: prefsSaves.save(path, seq, p)}
	}
}

func clonePrefs(p prefs.Prefs) prefs.Prefs {
	out := p
	if p.Sort != nil {
		out.Sort = make(map[string][]prefs.SortKey, len(p.Sort))
		for k, v := range p.Sort {
			out.Sort[k] = append([]prefs.SortKey(nil), v...)
		}
	}
	return out
}
