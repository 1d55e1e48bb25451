package host

import "strings"

// Object is one browsable catalog entry: an asset or a component on a scene entity.
type Object interface {
	Name() string
	TypeName() string
	// Location is the store-relative file for assets, or "scene/entity" for scene objects.
	Location() string
	// Persistent reports whether the object lives in the flat store rather than a scene.
	Persistent() bool
	Root() Property
}

// Property is a live reference to one field of an object.
type Property interface {
	Path() string
	Name() string
	Kind() Kind
	// Value returns the current typed value. See the Kind constants for the Go type
	// returned per kind; generic and array properties return nil.
	Value() any
	// Len returns the element count of an array property and -1 otherwise.
	Len() int
	Index(i int) (Property, bool)
	// Field resolves a dot-delimited path relative to this property.
	Field(path string) (Property, bool)
	Owner() Object
}

// FieldResolver looks up properties by path on an object.
type FieldResolver interface {
	TryGet(obj Object, path string) (Property, bool)
}

// PathResolver is the default FieldResolver: it walks the object's field tree.
type PathResolver struct{}

// TryGet implements FieldResolver.
func (PathResolver) TryGet(obj Object, path string) (Property, bool) {
	if obj == nil {
		return nil, false
	}
	root := obj.Root()
	if root == nil {
		return nil, false
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false
	}
	return root.Field(path)
}

// Sources selects which part of the catalog objects are drawn from.
type Sources uint8

const (
	SourceAssets Sources = 1 << iota
	SourceScenes

	SourceAll = SourceAssets | SourceScenes
)

// Includes reports whether the object belongs to the selected sources.
func (s Sources) Includes(obj Object) bool {
	if obj.Persistent() {
		return s&SourceAssets != 0
	}
	return s&SourceScenes != 0
}

// PathInfo describes one addressable property below an object root.
type PathInfo struct {
	Path string
	Kind Kind
}

// Walk reports every property below root in document order. Arrays are
// reported but not descended into.
func Walk(root Property) []PathInfo {
	var out []PathInfo
	walk(root, &out)
	return out
}

func walk(p Property, out *[]PathInfo) {
	dp, ok := p.(*docProperty)
	if !ok {
		return
	}
	node := deref(dp.node)
	if dp.kind != KindGeneric {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		child := dp.derive(node.Content[i].Value, node.Content[i+1])
		*out = append(*out, PathInfo{Path: child.path, Kind: child.kind})
		walk(child, out)
	}
}
