package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/five82/assetlist/internal/sorting"
)

// parseSort turns command line sort keys into a history. Each key is a column
// title or display position with an optional ":asc" or ":desc" suffix; the
// first key given is the primary one.
func parseSort(titles []string, keys []string) (sorting.History, error) {
	if len(keys) > sorting.Depth {
		return sorting.History{}, fmt.Errorf("at most %d sort keys are supported, got %d", sorting.Depth, len(keys))
	}
	entries := make([]sorting.Entry, 0, len(keys))
	for _, key := range keys {
		name, dirText, hasDir := strings.Cut(strings.TrimSpace(key), ":")
		dir := sorting.Ascending
		if hasDir {
			if err := dir.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(dirText)))); err != nil {
				return sorting.History{}, fmt.Errorf("sort key %q: %w", key, err)
			}
		}
		col, err := columnIndex(titles, name)
		if err != nil {
			return sorting.History{}, fmt.Errorf("sort key %q: %w", key, err)
		}
		entries = append(entries, sorting.Entry{Column: col, Direction: dir})
	}
	return sorting.Restore(entries), nil
}

func columnIndex(titles []string, name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("empty column")
	}
	for i, title := range titles {
		if strings.EqualFold(title, name) {
			return i, nil
		}
	}
	if n, err := strconv.Atoi(name); err == nil {
		if n < 0 || n >= len(titles) {
			return 0, fmt.Errorf("column %d out of range (0-%d)", n, len(titles)-1)
		}
		return n, nil
	}
	return 0, fmt.Errorf("no column titled %q (have %s)", name, strings.Join(titles, ", "))
}
