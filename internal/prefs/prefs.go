// Package prefs handles assetlist user preferences persistence.
// Preferences are stored in ~/.config/assetlist/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/assetlist/internal/atomicfile"
	"github.com/five82/assetlist/internal/sorting"
)

// Prefs holds user preferences for assetlist.
type Prefs struct {
	Theme    string `toml:"theme"`
	LastList string `toml:"last_list,omitempty"`
	// Sort maps a list name to its sort history, newest key first.
	Sort map[string][]SortKey `toml:"sort,omitempty"`
}

// SortKey is one remembered sort key. The column is named by its title, so
// the key follows the column when others are added, removed or reordered.
type SortKey struct {
	Column    string            `toml:"column"`
	Direction sorting.Direction `toml:"direction"`
}

const (
	defaultPrefsPath = "~/.config/assetlist/prefs.toml"
	defaultTheme     = "Nightfox"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// History returns the remembered sort history of a list whose columns carry
// the given titles. Keys naming a column the list no longer has are dropped.
func (p Prefs) History(list string, titles []string) sorting.History {
	used := make([]bool, len(titles))
	var entries []sorting.Entry
	for _, k := range p.Sort[list] {
		for i, title := range titles {
			if title == k.Column && !used[i] {
				used[i] = true
				entries = append(entries, sorting.Entry{Column: i, Direction: k.Direction})
				break
			}
		}
	}
	return sorting.Restore(entries)
}

// SetHistory remembers the sort history of a list whose columns carry the
// given titles. An empty history is forgotten.
func (p *Prefs) SetHistory(list string, h *sorting.History, titles []string) {
	keys := make([]SortKey, 0, h.Len())
	for _, e := range h.Entries() {
		if e.Column < 0 || e.Column >= len(titles) {
			continue
		}
		keys = append(keys, SortKey{Column: titles[e.Column], Direction: e.Direction})
	}
	if len(keys) == 0 {
		delete(p.Sort, list)
		return
	}
	if p.Sort == nil {
		p.Sort = make(map[string][]SortKey)
	}
	p.Sort[list] = keys
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Prefs{Theme: defaultTheme}, nil
	}

	prefs := Prefs{Theme: defaultTheme}

	file, err := os.Open(resolved)
	if err != nil {
		return prefs, nil // missing or unreadable
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Prefs{Theme: defaultTheme}, nil
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	for list, entries := range prefs.Sort {
		if len(entries) == 0 {
			delete(prefs.Sort, list)
		}
	}

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := atomicfile.Write(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
