// Package column binds column configurations to live object properties.
//
// Bind does every piece of static work once: it normalises the path,
// compiles the array strategy and picks the renderer. Get then performs only
// the per-object lookup. Nothing is cached across objects.
package column

import (
	"fmt"
	"strings"

	"github.com/five82/assetlist/internal/host"
	"github.com/five82/assetlist/internal/listconfig"
	"github.com/five82/assetlist/internal/projection"
)

// Column is one table column.
type Column interface {
	Title() string
	// Index is the position in the configuration, or -1 for built-in columns.
	Index() int
	MinWidth() int
	SortKey(obj host.Object) projection.Key
	Canonical(obj host.Object) string
	Render(obj host.Object, missing listconfig.MissingDisplay) projection.Instruction
	Export(obj host.Object) string
}

// accessor resolves a base path and an optional array strategy.
type accessor struct {
	resolver    host.FieldResolver
	path        string
	strategy    Strategy
	elementPath string
}

func newAccessor(resolver host.FieldResolver, path string, isArray bool, data *listconfig.ArrayData) (accessor, error) {
	a := accessor{resolver: resolver, path: normalisePath(path)}
	if a.path == "" {
		return a, listconfig.ErrPathMissing
	}
	if !isArray {
		return a, nil
	}
	strategy, err := NewStrategy(data)
	if err != nil {
		return a, err
	}
	a.strategy = strategy
	a.elementPath = normalisePath(data.ElementPropertyPath)
	return a, nil
}

func (a accessor) get(obj host.Object) (host.Property, bool) {
	base, ok := a.resolver.TryGet(obj, a.path)
	if !ok {
		return nil, false
	}
	if a.strategy == nil {
		return base, true
	}
	if base.Len() < 0 {
		return nil, false
	}
	el, ok := a.strategy.Resolve(base)
	if !ok {
		return nil, false
	}
	if a.elementPath == "" {
		return el, true
	}
	return el.Field(a.elementPath)
}

func normalisePath(path string) string {
	parts := strings.Split(strings.TrimSpace(path), ".")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ".")
}

// PropertyColumn shows one configured property.
type PropertyColumn struct {
	accessor
	config   listconfig.ColumnConfiguration
	index    int
	kind     host.Kind
	render   projection.Renderer
	minWidth int
}

// Bind compiles a column configuration using the default path resolver.
func Bind(cfg listconfig.ColumnConfiguration, index int) (*PropertyColumn, error) {
	return BindWith(host.PathResolver{}, cfg, index)
}

// BindWith compiles a column configuration against a specific resolver.
func BindWith(resolver host.FieldResolver, cfg listconfig.ColumnConfiguration, index int) (*PropertyColumn, error) {
	if err := cfg.Validate(); err != nil {
		return nil, listconfig.ColumnError(index, cfg, err)
	}
	render, err := projection.SelectRenderer(cfg)
	if err != nil {
		return nil, listconfig.ColumnError(index, cfg, err)
	}
	acc, err := newAccessor(resolver, cfg.PropertyPath, cfg.IsArray, cfg.ArrayData)
	if err != nil {
		return nil, listconfig.ColumnError(index, cfg, err)
	}
	return &PropertyColumn{
		accessor: acc,
		config:   cfg,
		index:    index,
		kind:     cfg.EffectiveKind(),
		render:   render,
		minWidth: projection.MinWidth(cfg),
	}, nil
}

func (c *PropertyColumn) Title() string { return c.config.Heading() }
func (c *PropertyColumn) Index() int    { return c.index }
func (c *PropertyColumn) MinWidth() int { return c.minWidth }

// Kind is the value kind the column was configured for.
func (c *PropertyColumn) Kind() host.Kind { return c.kind }

// Path is the normalised base path.
func (c *PropertyColumn) Path() string { return c.path }

// Config returns a copy of the bound configuration.
func (c *PropertyColumn) Config() listconfig.ColumnConfiguration { return c.config }

// Get returns the live property for obj. A property whose kind differs from
// the configured kind counts as absent; integers and floats are interchangeable
// and a null satisfies a string column as an unset string.
func (c *PropertyColumn) Get(obj host.Object) (host.Property, bool) {
	p, ok := c.get(obj)
	if !ok || p == nil {
		return nil, false
	}
	p = host.Retype(p, c.kind)
	if !compatible(c.kind, p.Kind()) {
		return nil, false
	}
	return p, true
}

func compatible(want, got host.Kind) bool {
	return want == got || (want.IsNumeric() && got.IsNumeric())
}

func (c *PropertyColumn) SortKey(obj host.Object) projection.Key {
	p, ok := c.Get(obj)
	if !ok {
		return projection.AbsentKey()
	}
	return projection.SortKey(p)
}

func (c *PropertyColumn) Canonical(obj host.Object) string {
	p, ok := c.Get(obj)
	if !ok {
		return ""
	}
	return projection.Canonical(p)
}

func (c *PropertyColumn) Render(obj host.Object, missing listconfig.MissingDisplay) projection.Instruction {
	p, ok := c.Get(obj)
	if !ok {
		return projection.Missing(missing)
	}
	return c.render(p)
}

func (c *PropertyColumn) Export(obj host.Object) string {
	p, ok := c.Get(obj)
	if !ok {
		return ""
	}
	return projection.Export(p)
}

func (c *PropertyColumn) String() string {
	return fmt.Sprintf("%s (%s)", c.Title(), c.path)
}
