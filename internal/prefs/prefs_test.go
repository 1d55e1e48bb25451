package prefs

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/five82/assetlist/internal/sorting"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if h := p.History("Enemies", []string{"Name"}); h.Len() != 0 {
		t.Fatalf("History(Enemies).Len() = %d, want 0", h.Len())
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "assetlist")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	prefsFile := filepath.Join(prefsDir, "prefs.toml")
	body := `theme = "Slate"
last_list = "Enemies"

[[sort.Enemies]]
column = "Health"
direction = "desc"

[[sort.Enemies]]
column = "Name"
direction = "asc"
`
	if err := os.WriteFile(prefsFile, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Slate")
	}
	if p.LastList != "Enemies" {
		t.Fatalf("LastList = %q, want %q", p.LastList, "Enemies")
	}
	h := p.History("Enemies", []string{"Name", "Speed", "Health"})
	want := []sorting.Entry{{Column: 2, Direction: sorting.Descending}, {Column: 0, Direction: sorting.Ascending}}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Fatalf("History(Enemies) = %v, want %v", got, want)
	}
}

func TestSave_RoundTripsSortHistory(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "subdir", "prefs.toml")

	var h sorting.History
	h.Apply(1, sorting.Ascending)
	h.Apply(3, sorting.Descending)

	titles := []string{"Name", "Damage", "Range", "Weight"}
	p := Prefs{Theme: "Slate"}
	p.SetHistory("Weapons", &h, titles)
	if err := Save(prefsFile, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", loaded.Theme, "Slate")
	}
	got := loaded.History("Weapons", titles)
	if !slices.Equal(got.Entries(), h.Entries()) {
		t.Fatalf("History(Weapons) = %v, want %v", got.Entries(), h.Entries())
	}

	h.Clear()
	loaded.SetHistory("Weapons", &h, titles)
	if _, ok := loaded.Sort["Weapons"]; ok {
		t.Fatalf("SetHistory with empty history kept entry %v", loaded.Sort["Weapons"])
	}
}

func TestLoad_EmptyThemeFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestLoad_BadDirectionFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	body := "theme = \"Slate\"\n[[sort.X]]\ncolumn = \"HP\"\ndirection = \"up\"\n"
	if err := os.WriteFile(prefsFile, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme || len(p.Sort) != 0 {
		t.Fatalf("Load = %+v, want defaults", p)
	}
}

func TestHistory_FollowsColumnsByTitle(t *testing.T) {
	var h sorting.History
	h.Apply(2, sorting.Ascending)
	h.Apply(1, sorting.Descending)

	p := Prefs{}
	p.SetHistory("Units", &h, []string{"Name", "HP", "Speed"})

	// A Path column now sits after Name and HP is gone.
	got := p.History("Units", []string{"Name", "Path", "Speed"})
	want := []sorting.Entry{{Column: 2, Direction: sorting.Ascending}}
	if !slices.Equal(got.Entries(), want) {
		t.Fatalf("History after layout change = %v, want %v", got.Entries(), want)
	}

	if got := p.History("Units", []string{"Name"}); got.Len() != 0 {
		t.Fatalf("History with no matching columns = %v, want empty", got.Entries())
	}
}

func TestSave_LeavesNoTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	prefsFile := filepath.Join(dir, "prefs.toml")
	for _, theme := range []string{"Slate", "Kanagawa"} {
		if err := Save(prefsFile, Prefs{Theme: theme}); err != nil {
			t.Fatalf("Save(%s) returned error: %v", theme, err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "prefs.toml" {
		t.Fatalf("dir entries = %v, want only prefs.toml", entries)
	}
	p, err := Load(prefsFile)
	if err != nil || p.Theme != "Kanagawa" {
		t.Fatalf("Load = %+v, %v; want Kanagawa", p, err)
	}
}
