package ui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/assetlist/internal/prefs"
)

func TestPrefsWriter_DropsStaleSave(t *testing.T) {
	var w prefsWriter
	path := filepath.Join(t.TempDir(), "prefs.toml")

	older := w.issue()
	newer := w.issue()
	if err := w.save(path, newer, prefs.Prefs{Theme: "Slate"}); err != nil {
		t.Fatalf("save newer: %v", err)
	}
	if err := w.save(path, older, prefs.Prefs{Theme: "Kanagawa"}); err != nil {
		t.Fatalf("save older: %v", err)
	}

	p, err := prefs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Slate")
	}
}

func TestModel_ThemeSavesLandInIssueOrder(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{
		Store:     f.store,
		Config:    &f.cfg,
		Prefs:     prefs.Prefs{Theme: "Nightfox"},
		PrefsPath: path,
		List:      "units",
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})

	var cmds []tea.Cmd
	for range 2 {
		next, cmd := m.Update(keyMsg("T"))
		m = next.(Model)
		if cmd == nil {
			t.Fatalf("theme change issued no save")
		}
		cmds = append(cmds, cmd)
	}

	// Run the saves out of order.
	for i := len(cmds) - 1; i >= 0; i-- {
		msg, ok := cmds[i]().(prefsSavedMsg)
		if !ok || msg.err != nil {
			t.Fatalf("save %d = %#v", i, msg)
		}
	}

	p, err := prefs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Theme != m.prefs.Theme {
		t.Fatalf("saved theme = %q, want latest %q", p.Theme, m.prefs.Theme)
	}
}
