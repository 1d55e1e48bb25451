// Package proptree builds the property picker tree for an object type.
package proptree

import (
	"sort"
	"strings"

	"github.com/five82/assetlist/internal/host"
)

// Node is one property in the tree. Intermediate nodes that were never
// reported as paths have KindInvalid.
type Node struct {
	Name     string
	Path     string
	Kind     host.Kind
	Disabled bool
	Children []*Node
}

// Leaf reports whether n has no children.
func (n *Node) Leaf() bool { return len(n.Children) == 0 }

// Count returns the number of nodes below n.
func (n *Node) Count() int {
	total := 0
	for _, c := range n.Children {
		total += 1 + c.Count()
	}
	return total
}

// BuildTree arranges dot-delimited paths into a tree under an unnamed root.
// Paths present in used are marked disabled. Children keep first-seen order
// unless sorted is set, in which case they are ordered by name.
func BuildTree(paths []host.PathInfo, used map[string]struct{}, sorted bool) *Node {
	root := &Node{}
	index := map[string]*Node{"": root}
	for _, info := range paths {
		path := strings.Trim(strings.TrimSpace(info.Path), ".")
		if path == "" {
			continue
		}
		n := ensure(index, path)
		n.Kind = info.Kind
		_, n.Disabled = used[path]
	}
	if sorted {
		sortChildren(root)
	}
	return root
}

func ensure(index map[string]*Node, path string) *Node {
	if n, ok := index[path]; ok {
		return n
	}
	parentPath, name := "", path
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		parentPath, name = path[:i], path[i+1:]
	}
	parent := ensure(index, parentPath)
	n := &Node{Name: name, Path: path}
	parent.Children = append(parent.Children, n)
	index[path] = n
	return n
}

func sortChildren(n *Node) {
	sort.SliceStable(n.Children, func(i, j int) bool { return n.Children[i].Name < n.Children[j].Name })
	for _, c := range n.Children {
		sortChildren(c)
	}
}

// Row is one visible line of a flattened tree.
type Row struct {
	Depth int
	Node  *Node
}

// Flatten lists the nodes below root in display order, skipping the children
// of any path in collapsed.
func Flatten(root *Node, collapsed map[string]bool) []Row {
	var rows []Row
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		for _, c := range n.Children {
			rows = append(rows, Row{Depth: depth, Node: c})
			if !collapsed[c.Path] {
				visit(c, depth+1)
			}
		}
	}
	visit(root, 0)
	return rows
}
