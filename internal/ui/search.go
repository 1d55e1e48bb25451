package ui

import (
	"regexp"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// searchState filters table rows by object name.
type searchState struct {
	input   textinput.Model
	active  bool
	pattern string
	re      *regexp.Regexp
	err     error
}

func newSearchState() searchState {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "name regex"
	ti.CharLimit = 256
	return searchState{input: ti}
}

// applied reports whether a filter narrows the rows.
func (s searchState) applied() bool {
	return s.re != nil
}

func (s searchState) matches(name string) bool {
	return s.re == nil || s.re.MatchString(name)
}

func (s *searchState) clear() {
	s.pattern = ""
	s.re = nil
	s.err = nil
	s.input.SetValue("")
}

// set compiles pattern as a case-insensitive filter. An empty pattern clears it.
func (s *searchState) set(pattern string) error {
	if pattern == "" {
		s.clear()
		return nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		s.err = err
		return err
	}
	s.pattern = pattern
	s.re = re
	s.err = nil
	return nil
}

func (m *Model) beginSearch() tea.Cmd {
	if m.table.session == nil {
		return nil
	}
	m.search.active = true
	m.search.err = nil
	m.search.input.SetValue(m.search.pattern)
	m.search.input.CursorEnd()
	return m.search.input.Focus()
}

// handleSearchInput processes keys while the search prompt is open.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.search.active = false
		m.search.input.Blur()
		m.search.clear()
		m.applyFilter()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if err := m.search.set(m.search.input.Value()); err != nil {
			return m, nil
		}
		m.search.active = false
		m.search.input.Blur()
		m.applyFilter()
		m.table.selected = 0
		m.ensureRowVisible()
		return m, nil
	}

	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	m.search.err = nil
	return m, cmd
}
