package proptree

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/assetlist/internal/host"
)

func names(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Node.Path
	}
	return out
}

func TestBuildTree(t *testing.T) {
	paths := []host.PathInfo{
		{Path: "stats", Kind: host.KindGeneric},
		{Path: "stats.speed", Kind: host.KindFloat},
		{Path: "stats.armor", Kind: host.KindInteger},
		{Path: "name", Kind: host.KindString},
		{Path: "loot.table.weight", Kind: host.KindFloat},
		{Path: "  ", Kind: host.KindString},
	}
	used := map[string]struct{}{"stats.speed": {}, "missing": {}}

	root := BuildTree(paths, used, false)
	require.Len(t, root.Children, 3)
	assert.Equal(t, 6, root.Count())

	rows := Flatten(root, nil)
	assert.Equal(t, []string{"stats", "stats.speed", "stats.armor", "name", "loot", "loot.table", "loot.table.weight"}, names(rows))
	assert.Equal(t, 2, rows[6].Depth)
	assert.True(t, rows[1].Node.Disabled)
	assert.False(t, rows[0].Node.Disabled)
	assert.Equal(t, host.KindInvalid, rows[4].Node.Kind, "implied parent")
	assert.True(t, rows[6].Node.Leaf())

	sorted := Flatten(BuildTree(paths, used, true), map[string]bool{"loot": true})
	assert.Equal(t, []string{"loot", "name", "stats", "stats.armor", "stats.speed"}, names(sorted))
}

func TestCacheWalksOnce(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("type: Unit\nname: A\nfields: {hp: 3, stats: {speed: 1.5}}\n")},
		"b.yaml": {Data: []byte("type: Unit\nname: B\nfields: {hp: 4, tags: [x]}\n")},
		"c.yaml": {Data: []byte("type: Prop\nname: C\nfields: {mass: 2}\n")},
	}
	c, err := host.LoadFS("mem", fsys, nil)
	require.NoError(t, err)

	cache := NewCache()
	units := c.OfType("Unit", host.SourceAll)
	got := cache.Paths("Unit", units)
	var paths []string
	for _, p := range got {
		paths = append(paths, p.Path)
	}
	assert.Equal(t, []string{"hp", "stats", "stats.speed", "tags"}, paths)

	assert.Equal(t, got, cache.Paths("Unit", nil), "second lookup is served from the cache")
	cache.Reset()
	assert.Empty(t, cache.Paths("Unit", nil))
}
