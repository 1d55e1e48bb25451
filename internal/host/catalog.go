package host

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// DefaultInclude matches every YAML document below the catalog root.
var DefaultInclude = []string{"**/*.yaml", "**/*.yml"}

// Catalog is the set of documents loaded from one catalog directory.
type Catalog struct {
	Root string
	Docs []*Document
	// Problems holds per-file load failures. A broken file never hides the others.
	Problems []error

	objects []Object
	byName  map[string]Object
}

// LoadCatalog parses every document under root matching one of the include globs.
func LoadCatalog(root string, include []string) (*Catalog, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open catalog: %s is not a directory", root)
	}
	return LoadFS(root, os.DirFS(root), include)
}

// LoadFS parses a catalog from fsys. Root is recorded for Commit and display only.
func LoadFS(root string, fsys fs.FS, include []string) (*Catalog, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	files, err := matchFiles(fsys, include)
	if err != nil {
		return nil, err
	}

	c := &Catalog{Root: root, byName: make(map[string]Object)}
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			c.Problems = append(c.Problems, fmt.Errorf("read %s: %w", name, err))
			continue
		}
		doc, objs, err := parseDocument(name, data)
		if err != nil {
			c.Problems = append(c.Problems, fmt.Errorf("parse %s: %w", name, err))
			continue
		}
		doc.lookup = c.Lookup
		c.Docs = append(c.Docs, doc)
		for _, obj := range objs {
			c.objects = append(c.objects, obj)
			if _, dup := c.byName[obj.Name()]; !dup {
				c.byName[obj.Name()] = obj
			}
		}
	}
	return c, nil
}

func matchFiles(fsys fs.FS, include []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range include {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Objects returns every object in load order.
func (c *Catalog) Objects() []Object {
	return c.objects
}

// OfType returns the objects of the given type drawn from the selected sources,
// in load order. An empty type name matches every object.
func (c *Catalog) OfType(typeName string, src Sources) []Object {
	var out []Object
	for _, obj := range c.objects {
		if typeName != "" && obj.TypeName() != typeName {
			continue
		}
		if !src.Includes(obj) {
			continue
		}
		out = append(out, obj)
	}
	return out
}

// Lookup finds an object by display name. The first loaded object wins on duplicates.
func (c *Catalog) Lookup(name string) Object {
	if c == nil {
		return nil
	}
	return c.byName[name]
}

// Types returns the distinct object type names, sorted.
func (c *Catalog) Types() []string {
	set := make(map[string]struct{})
	for _, obj := range c.objects {
		set[obj.TypeName()] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Dirty returns the documents with uncommitted edits.
func (c *Catalog) Dirty() []*Document {
	var out []*Document
	for _, d := range c.Docs {
		if d.dirty {
			out = append(out, d)
		}
	}
	return out
}

func parseDocument(name string, data []byte) (*Document, []Object, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, nil, err
	}
	doc := &Document{Path: name, Root: &root, Enums: map[string][]string{}}
	top := deref(&root)
	if top == nil || top.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("top level must be a mapping")
	}
	m := mapping(top)
	if enums := m["enums"].node(); enums != nil {
		if err := enums.Decode(&doc.Enums); err != nil {
			return nil, nil, fmt.Errorf("enums: %w", err)
		}
	}

	if scene := m["scene"].node(); scene != nil {
		objs, err := sceneObjects(doc, scene.Value, m["entities"].node())
		return doc, objs, err
	}

	typeName := strings.TrimSpace(m["type"].value())
	if typeName == "" {
		return nil, nil, fmt.Errorf("missing type")
	}
	objName := strings.TrimSpace(m["name"].value())
	if objName == "" {
		objName = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}
	obj := &docObject{
		doc:        doc,
		typeName:   typeName,
		name:       objName,
		location:   name,
		persistent: true,
		fields:     fieldsNode(m["fields"].node()),
	}
	return doc, []Object{obj}, nil
}

func sceneObjects(doc *Document, scene string, entities *yaml.Node) ([]Object, error) {
	entities = deref(entities)
	if entities == nil {
		return nil, nil
	}
	if entities.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("entities must be a list")
	}
	var objs []Object
	for i, ent := range entities.Content {
		em := mapping(deref(ent))
		entName := strings.TrimSpace(em["name"].value())
		if entName == "" {
			entName = fmt.Sprintf("entity %d", i)
		}
		comps := deref(em["components"].node())
		if comps == nil {
			continue
		}
		for _, comp := range comps.Content {
			cm := mapping(deref(comp))
			typeName := strings.TrimSpace(cm["type"].value())
			if typeName == "" {
				continue
			}
			objs = append(objs, &docObject{
				doc:      doc,
				typeName: typeName,
				name:     entName,
				location: scene + "/" + entName,
				fields:   fieldsNode(cm["fields"].node()),
			})
		}
	}
	return objs, nil
}

// fieldsNode returns the fields mapping, or an empty one when the document has none.
func fieldsNode(n *yaml.Node) *yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	return n
}
