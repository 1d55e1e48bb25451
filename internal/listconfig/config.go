// Package listconfig defines the declarative description of one list: which
// objects it browses and which columns it shows. Configurations are read many
// times per redraw and never mutated by the column engine.
package listconfig

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/five82/assetlist/internal/host"
)

// Configuration describes the table for one object type.
type Configuration struct {
	Name                   string                `toml:"name"`
	TypeName               string                `toml:"type"`
	AssetContext           AssetContext          `toml:"context"`
	NameDisplay            NameDisplay           `toml:"name_display"`
	IconPath               string                `toml:"icon_path,omitempty"`
	IconIsArray            bool                  `toml:"icon_is_array,omitempty"`
	IconArray              *ArrayData            `toml:"icon_array,omitempty"`
	MissingPropertyDisplay MissingDisplay        `toml:"missing_property_display"`
	AdditionalColumns      AdditionalColumns     `toml:"additional_columns"`
	Columns                []ColumnConfiguration `toml:"columns"`
}

// ColumnConfiguration describes one user visible column.
type ColumnConfiguration struct {
	PropertyPath     string           `toml:"path"`
	Title            string           `toml:"title,omitempty"`
	ValueKind        host.Kind        `toml:"kind"`
	IsArray          bool             `toml:"is_array,omitempty"`
	ArrayData        *ArrayData       `toml:"array,omitempty"`
	NumericalDisplay NumericalDisplay `toml:"numerical_display,omitempty"`
	EnumDisplay      EnumDisplay      `toml:"enum_display,omitempty"`
	StringDisplay    StringDisplay    `toml:"string_display,omitempty"`
	ColorDisplay     ColorDisplay     `toml:"color_display,omitempty"`
	ObjectDisplay    ObjectDisplay    `toml:"object_display,omitempty"`
	DefaultDisplay   DefaultDisplay   `toml:"default_display,omitempty"`
}

// ArrayData describes how one element is picked out of an array property.
type ArrayData struct {
	Indexing            Indexing  `toml:"indexing"`
	KeyFieldName        string    `toml:"key_field,omitempty"`
	QueryPattern        string    `toml:"pattern,omitempty"`
	FixedIndex          int       `toml:"index,omitempty"`
	ElementPropertyPath string    `toml:"element_path,omitempty"`
	ResolvedValueKind   host.Kind `toml:"resolved_kind"`
	// KeyValueKind caches the kind of the key sibling so unsupported key kinds
	// are caught when the column is authored. Zero means unknown.
	KeyValueKind        host.Kind `toml:"key_kind,omitempty"`
}

// Sources maps the asset context onto catalog sources.
func (c *Configuration) Sources() host.Sources {
	switch c.AssetContext {
	case InScene:
		return host.SourceScenes
	case InSceneAndAssets:
		return host.SourceAll
	}
	return host.SourceAssets
}

// UsedPaths returns the property paths already shown by the list, including the icon.
func (c *Configuration) UsedPaths() map[string]struct{} {
	used := make(map[string]struct{}, len(c.Columns)+1)
	if p := strings.TrimSpace(c.IconPath); p != "" {
		used[p] = struct{}{}
	}
	for _, col := range c.Columns {
		used[strings.TrimSpace(col.PropertyPath)] = struct{}{}
	}
	return used
}

// Heading returns the column title, falling back to its path.
func (c ColumnConfiguration) Heading() string {
	if t := strings.TrimSpace(c.Title); t != "" {
		return t
	}
	return c.PropertyPath
}

// EffectiveKind returns the kind of the value a column displays: the element
// kind for array columns, the property kind otherwise.
func (c ColumnConfiguration) EffectiveKind() host.Kind {
	if c.IsArray && c.ArrayData != nil {
		return c.ArrayData.ResolvedValueKind
	}
	return c.ValueKind
}

// Configuration errors. Each is wrapped with the offending column.
var (
	ErrPathMissing         = errors.New("property path is empty")
	ErrArrayDataMissing    = errors.New("array column has no array data")
	ErrKeyFieldMissing     = errors.New("key indexing needs a key field")
	ErrBadPattern          = errors.New("query pattern does not compile")
	ErrNegativeIndex       = errors.New("fixed index is negative")
	ErrKeyKindNotSupported = errors.New("key field kind cannot be matched")
)

// keyKinds are the kinds with a canonical string suitable for pattern matching.
var keyKinds = map[host.Kind]bool{
	host.KindInteger:   true,
	host.KindBoolean:   true,
	host.KindFloat:     true,
	host.KindString:    true,
	host.KindFlags:     true,
	host.KindEnum:      true,
	host.KindCharacter: true,
}

// KeyKindSupported reports whether ByKey indexing can match on the kind.
func KeyKindSupported(k host.Kind) bool {
	return keyKinds[k]
}

// Validate checks the structural invariants of one column.
func (c ColumnConfiguration) Validate() error {
	if strings.TrimSpace(c.PropertyPath) == "" {
		return ErrPathMissing
	}
	if !c.IsArray {
		return nil
	}
	if c.ArrayData == nil {
		return ErrArrayDataMissing
	}
	return c.ArrayData.Validate()
}

// Validate checks the strategy-specific fields of the array data.
func (a *ArrayData) Validate() error {
	switch a.Indexing {
	case IndexByKey:
		if strings.TrimSpace(a.KeyFieldName) == "" {
			return ErrKeyFieldMissing
		}
		if _, err := regexp.Compile(a.QueryPattern); err != nil {
			return fmt.Errorf("%w: %v", ErrBadPattern, err)
		}
		if a.KeyValueKind != host.KindInvalid && !KeyKindSupported(a.KeyValueKind) {
			return fmt.Errorf("%w: %s", ErrKeyKindNotSupported, a.KeyValueKind)
		}
	case IndexByIndex:
		if a.FixedIndex < 0 {
			return ErrNegativeIndex
		}
	}
	return nil
}

// Validate checks every column and the icon settings, joining all failures.
func (c *Configuration) Validate() error {
	var errs []error
	if c.IconIsArray {
		if c.IconArray == nil {
			errs = append(errs, fmt.Errorf("icon: %w", ErrArrayDataMissing))
		} else if err := c.IconArray.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("icon: %w", err))
		}
	}
	for i, col := range c.Columns {
		if err := col.Validate(); err != nil {
			errs = append(errs, ColumnError(i, col, err))
		}
	}
	return errors.Join(errs...)
}

// ColumnError wraps err with the column's position and heading.
func ColumnError(index int, col ColumnConfiguration, err error) error {
	return fmt.Errorf("column %d (%s): %w", index, col.Heading(), err)
}
