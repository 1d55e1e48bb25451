package proptree

import "github.com/five82/assetlist/internal/host"

// Cache remembers the known property paths per object type so the tree view
// never re-walks documents on redraw. It is not safe for concurrent use.
type Cache struct {
	byType map[string][]host.PathInfo
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{byType: make(map[string][]host.PathInfo)}
}

// Paths returns the union of the paths of every object of typeName, walking
// them on first use. The first kind seen for a path wins.
func (c *Cache) Paths(typeName string, objects []host.Object) []host.PathInfo {
	if paths, ok := c.byType[typeName]; ok {
		return paths
	}
	seen := make(map[string]bool)
	var paths []host.PathInfo
	for _, obj := range objects {
		if obj.TypeName() != typeName || obj.Root() == nil {
			continue
		}
		for _, info := range host.Walk(obj.Root()) {
			if seen[info.Path] {
				continue
			}
			seen[info.Path] = true
			paths = append(paths, info)
		}
	}
	c.byType[typeName] = paths
	return paths
}

// Reset drops every cached type, typically after the catalog reloads.
func (c *Cache) Reset() {
	clear(c.byType)
}
