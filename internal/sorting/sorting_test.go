package sorting

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/assetlist/internal/column"
	"github.com/five82/assetlist/internal/host"
	"github.com/five82/assetlist/internal/listconfig"
	"github.com/five82/assetlist/internal/projection"
)

// table is rows of numeric keys; table[row][col].
type table [][]float64

func (t table) key(row, col int) projection.Key { return projection.NumberKey(t[row][col]) }

func TestHistoryApply(t *testing.T) {
	var h History
	assert.Equal(t, Unsorted, h.State())

	h.Apply(0, Ascending)
	assert.Equal(t, SingleKey, h.State())
	h.Apply(1, Descending)
	h.Apply(2, Ascending)
	assert.Equal(t, MultiKey, h.State())
	assert.Equal(t, []Entry{{2, Ascending}, {1, Descending}, {0, Ascending}}, h.Entries())

	h.Apply(2, Descending)
	assert.Equal(t, []Entry{{2, Descending}, {1, Descending}, {0, Ascending}}, h.Entries(), "primary flips in place")

	h.Apply(0, Descending)
	assert.Equal(t, []Entry{{0, Descending}, {2, Descending}, {1, Descending}}, h.Entries(), "deeper key moves to primary")

	h.Apply(3, Ascending)
	assert.Equal(t, []Entry{{3, Ascending}, {0, Descending}, {2, Descending}}, h.Entries(), "oldest key evicted")
	assert.Equal(t, Depth, h.Len())

	rank, dir := h.Rank(2)
	assert.Equal(t, 2, rank)
	assert.Equal(t, Descending, dir)
	rank, _ = h.Rank(1)
	assert.Equal(t, -1, rank)

	h.Clear()
	assert.Equal(t, Unsorted, h.State())
	_, ok := h.Primary()
	assert.False(t, ok)
}

func TestHistoryToggle(t *testing.T) {
	var h History
	assert.Equal(t, Ascending, h.Toggle(4))
	assert.Equal(t, Descending, h.Toggle(4))
	assert.Equal(t, Ascending, h.Toggle(4))
	assert.Equal(t, Ascending, h.Toggle(5))
	assert.Equal(t, []Entry{{5, Ascending}, {4, Ascending}}, h.Entries())
}

func TestRestoreTruncatesAndKeepsOrder(t *testing.T) {
	entries := []Entry{{1, Descending}, {2, Ascending}, {3, Ascending}, {4, Descending}}
	h := Restore(entries)
	assert.Equal(t, entries[:Depth], h.Entries())
}

func TestOrderIsStableAcrossKeys(t *testing.T) {
	// col 0 = A, col 1 = B
	rows := table{
		{3, 1},
		{1, 2},
		{2, 1},
		{1, 1},
		{2, 2},
	}
	var h History
	h.Apply(0, Ascending)
	byA := Order(len(rows), h.Entries(), rows.key)
	assert.Equal(t, []int{1, 3, 2, 4, 0}, byA)

	h.Apply(1, Ascending)
	byB := Order(len(rows), h.Entries(), rows.key)
	assert.Equal(t, []int{3, 2, 0, 1, 4}, byB)

	pos := func(perm []int, row int) int {
		for i, r := range perm {
			if r == row {
				return i
			}
		}
		return -1
	}
	for r1 := range rows {
		for r2 := range rows {
			if r1 == r2 || rows[r1][1] != rows[r2][1] {
				continue
			}
			if pos(byA, r1) < pos(byA, r2) {
				assert.Lessf(t, pos(byB, r1), pos(byB, r2), "rows %d and %d tie on B", r1, r2)
			}
		}
	}
}

func TestOrderDependsOnlyOnNewestThreeKeys(t *testing.T) {
	// Columns 1..3 tie everywhere except as noted; column 0 would reverse rows.
	rows := table{
		{2, 0, 0, 1},
		{1, 0, 0, 1},
		{0, 0, 0, 0},
	}
	var withFirst History
	withFirst.Apply(0, Ascending)
	withFirst.Apply(1, Ascending)
	withFirst.Apply(2, Ascending)
	withFirst.Apply(3, Ascending)

	var withoutFirst History
	withoutFirst.Apply(1, Ascending)
	withoutFirst.Apply(2, Ascending)
	withoutFirst.Apply(3, Ascending)

	got := Order(len(rows), withFirst.Entries(), rows.key)
	assert.Equal(t, Order(len(rows), withoutFirst.Entries(), rows.key), got)
	assert.Equal(t, []int{2, 0, 1}, got, "ties fall back to insertion order, not the evicted key")
}

func TestOrderDescendingAndAbsent(t *testing.T) {
	keys := []projection.Key{projection.NumberKey(2), projection.AbsentKey(), projection.StringKey("z"), projection.NumberKey(5)}
	key := func(row, _ int) projection.Key { return keys[row] }

	assert.Equal(t, []int{1, 0, 3, 2}, Order(len(keys), []Entry{{0, Ascending}}, key))
	assert.Equal(t, []int{2, 3, 0, 1}, Order(len(keys), []Entry{{0, Descending}}, key))
	assert.Equal(t, []int{0, 1, 2, 3}, Order(len(keys), nil, key))
}

func TestSessionOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("type: Unit\nname: Alpha\nfields: {hp: 5}\n")},
		"b.yaml": {Data: []byte("type: Unit\nname: Bravo\nfields: {hp: 9}\n")},
		"c.yaml": {Data: []byte("type: Unit\nname: Charlie\nfields: {}\n")},
	}
	c, err := host.LoadFS("mem", fsys, nil)
	require.NoError(t, err)
	cfg := &listconfig.Configuration{
		TypeName: "Unit",
		Columns:  []listconfig.ColumnConfiguration{{PropertyPath: "hp", ValueKind: host.KindInteger}},
	}
	s, err := column.NewSession(cfg, c.OfType("Unit", cfg.Sources()), nil)
	require.NoError(t, err)

	var h History
	h.Apply(1, Descending)
	h.Apply(42, Ascending)
	order := SessionOrder(s, &h)
	names := make([]string, len(order))
	for i, row := range order {
		names[i] = s.Objects[row].Name()
	}
	assert.Equal(t, []string{"Bravo", "Alpha", "Charlie"}, names)
}

func TestDirectionText(t *testing.T) {
	var d Direction
	require.NoError(t, d.UnmarshalText([]byte("Descending")))
	assert.Equal(t, Descending, d)
	text, err := Ascending.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "asc", string(text))
	assert.Error(t, d.UnmarshalText([]byte("sideways")))
}
