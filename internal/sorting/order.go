package sorting

import (
	"slices"

	"github.com/five82/assetlist/internal/column"
	"github.com/five82/assetlist/internal/projection"
)

// KeyFunc returns the sort key of row under the column at display position col.
type KeyFunc func(row, col int) projection.Key

// Order returns a permutation of rows 0..n-1. It always starts from insertion
// order and sorts stably by a composite comparator, newest key first, so ties
// fall back to older keys and finally to insertion order. Each key is computed
// once per row.
func Order(n int, entries []Entry, key KeyFunc) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	if len(entries) == 0 || n < 2 {
		return perm
	}

	keys := make([][]projection.Key, len(entries))
	for e, entry := range entries {
		keys[e] = make([]projection.Key, n)
		for row := 0; row < n; row++ {
			keys[e][row] = key(row, entry.Column)
		}
	}

	slices.SortStableFunc(perm, func(a, b int) int {
		for e, entry := range entries {
			c := keys[e][a].Compare(keys[e][b])
			if entry.Direction == Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return perm
}

// SessionOrder orders a session's objects by h. Entries pointing past the
// session's columns are ignored.
func SessionOrder(s *column.Session, h *History) []int {
	var entries []Entry
	for _, e := range h.Entries() {
		if e.Column >= 0 && e.Column < len(s.Columns) {
			entries = append(entries, e)
		}
	}
	return Order(len(s.Objects), entries, func(row, col int) projection.Key {
		return s.Columns[col].SortKey(s.Objects[row])
	})
}
