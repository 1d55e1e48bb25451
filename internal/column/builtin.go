package column

import (
	"github.com/five82/assetlist/internal/host"
	"github.com/five82/assetlist/internal/listconfig"
	"github.com/five82/assetlist/internal/projection"
)

// Built-in column titles.
const (
	NameTitle = "Name"
	PathTitle = "Path"
)

// NameColumn is the identity column. It is always first.
type NameColumn struct {
	display listconfig.NameDisplay
	icon    *accessor
}

// NewNameColumn builds the identity column, including its optional icon lookup.
func NewNameColumn(cfg *listconfig.Configuration) (*NameColumn, error) {
	c := &NameColumn{display: cfg.NameDisplay}
	if normalisePath(cfg.IconPath) == "" {
		return c, nil
	}
	acc, err := newAccessor(host.PathResolver{}, cfg.IconPath, cfg.IconIsArray, cfg.IconArray)
	if err != nil {
		return c, err
	}
	c.icon = &acc
	return c, nil
}

func (c *NameColumn) Title() string { return NameTitle }
func (c *NameColumn) Index() int    { return -1 }
func (c *NameColumn) MinWidth() int { return 24 }

// Label returns the display form of the object's name.
func (c *NameColumn) Label(obj host.Object) string {
	if c.display.Nicified() {
		return projection.Nicify(obj.Name())
	}
	return obj.Name()
}

func (c *NameColumn) SortKey(obj host.Object) projection.Key {
	return projection.StringKey(obj.Name())
}

func (c *NameColumn) Canonical(obj host.Object) string { return obj.Name() }

func (c *NameColumn) Render(obj host.Object, _ listconfig.MissingDisplay) projection.Instruction {
	in := projection.Instruction{Op: projection.OpObjectLabel, Text: c.Label(obj)}
	if c.display.Centered() {
		in.Align = projection.AlignCenter
	}
	if c.icon != nil {
		if p, ok := c.icon.get(obj); ok {
			in.Icon = projection.Canonical(p)
		}
	}
	return in
}

func (c *NameColumn) Export(obj host.Object) string {
	return projection.Sanitize(c.Label(obj))
}

// PathColumn shows where an object lives: its file for assets, scene and
// entity for scene objects.
type PathColumn struct{}

func (PathColumn) Title() string { return PathTitle }
func (PathColumn) Index() int    { return -1 }
func (PathColumn) MinWidth() int { return 20 }

func (PathColumn) SortKey(obj host.Object) projection.Key {
	return projection.StringKey(obj.Location())
}

func (PathColumn) Canonical(obj host.Object) string { return obj.Location() }

func (PathColumn) Render(obj host.Object, _ listconfig.MissingDisplay) projection.Instruction {
	icon := "scene"
	if obj.Persistent() {
		icon = "asset"
	}
	return projection.Instruction{Op: projection.OpLabel, Text: obj.Location(), Icon: icon}
}

func (PathColumn) Export(obj host.Object) string {
	return projection.Sanitize(obj.Location())
}
