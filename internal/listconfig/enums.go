package listconfig

import (
	"fmt"
	"strings"
)

// AssetContext selects where a list draws its objects from.
type AssetContext int

const (
	InAssets AssetContext = iota
	InScene
	InSceneAndAssets
)

// NameDisplay selects how the identity column shows object names.
type NameDisplay int

const (
	NameLabel NameDisplay = iota
	NameNicifiedLabel
	NameCenteredLabel
	NameNicifiedCenteredLabel
)

// MissingDisplay selects how an absent property is drawn.
type MissingDisplay int

const (
	MissingRedWithWarning MissingDisplay = iota
	MissingBlank
)

// Indexing selects how one element is picked from an array property.
type Indexing int

const (
	IndexFirst Indexing = iota
	IndexByKey
	IndexByIndex
)

// NumericalDisplay is the display mode for numeric columns.
type NumericalDisplay int

const (
	NumericalProperty NumericalDisplay = iota
	NumericalReadonlyProperty
	NumericalReadonlyLabel
	NumericalReadonlyPercentageLabel
	NumericalReadonlyPercentageLabelNormalised
	NumericalReadonlyProgressBar
	NumericalReadonlyProgressBarNormalised
)

// EnumDisplay is the display mode for enum and flags columns.
type EnumDisplay int

const (
	EnumProperty EnumDisplay = iota
	EnumReadonlyProperty
	EnumReadonlyLabel
)

// StringDisplay is the display mode for string columns.
type StringDisplay int

const (
	StringProperty StringDisplay = iota
	StringReadonlyProperty
	StringReadonlyLabel
	StringReadonlyNicifiedLabel
	StringReadonlyCenteredLabel
	StringReadonlyNicifiedCenteredLabel
)

// ColorDisplay is the display mode for color columns.
type ColorDisplay int

const (
	ColorProperty ColorDisplay = iota
	ColorReadonlyProperty
	ColorReadonlySimplified
	ColorReadonlySimplifiedHDR
)

// ObjectDisplay is the display mode for object reference columns.
type ObjectDisplay int

const (
	ObjectProperty ObjectDisplay = iota
	ObjectReadonlyProperty
	ObjectReadonlyLabelWithIcon
)

// DefaultDisplay is the display mode for every other kind.
type DefaultDisplay int

const (
	DefaultProperty DefaultDisplay = iota
	DefaultReadonlyProperty
)

var (
	assetContextNames   = []string{"InAssets", "InScene", "InSceneAndAssets"}
	nameDisplayNames    = []string{"Label", "NicifiedLabel", "CenteredLabel", "NicifiedCenteredLabel"}
	missingDisplayNames = []string{"RedWithWarning", "Blank"}
	indexingNames       = []string{"First", "ByKey", "ByIndex"}
	numericalNames      = []string{"Property", "ReadonlyProperty", "ReadonlyLabel", "ReadonlyPercentageLabel", "ReadonlyPercentageLabelNormalised", "ReadonlyProgressBar", "ReadonlyProgressBarNormalised"}
	enumDisplayNames    = []string{"Property", "ReadonlyProperty", "ReadonlyLabel"}
	stringDisplayNames  = []string{"Property", "ReadonlyProperty", "ReadonlyLabel", "ReadonlyNicifiedLabel", "ReadonlyCenteredLabel", "ReadonlyNicifiedCenteredLabel"}
	colorDisplayNames   = []string{"Property", "ReadonlyProperty", "ReadonlySimplified", "ReadonlySimplifiedHDR"}
	objectDisplayNames  = []string{"Property", "ReadonlyProperty", "ReadonlyLabelWithIcon"}
	defaultDisplayNames = []string{"Property", "ReadonlyProperty"}
)

func enumString(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("%d", v)
	}
	return names[v]
}

func marshalEnum(names []string, v int) ([]byte, error) {
	if v < 0 || v >= len(names) {
		return nil, fmt.Errorf("value %d out of range", v)
	}
	return []byte(names[v]), nil
}

func unmarshalEnum(names []string, text []byte) (int, error) {
	want := strings.TrimSpace(string(text))
	for i, n := range names {
		if strings.EqualFold(n, want) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown value %q (want one of %s)", want, strings.Join(names, ", "))
}

func (v AssetContext) String() string { return enumString(assetContextNames, int(v)) }
func (v AssetContext) MarshalText() ([]byte, error) {
	return marshalEnum(assetContextNames, int(v))
}
func (v *AssetContext) UnmarshalText(text []byte) error {
	i, err := unmarshalEnum(assetContextNames, text)
	*v = AssetContext(i)
	return err
}

func (v NameDisplay) String() string { return enumString(nameDisplayNames, int(v)) }
func (v NameDisplay) MarshalText() ([]byte, error) {
	return marshalEnum(nameDisplayNames, int(v))
}
func (v *NameDisplay) UnmarshalText(text []byte) error {
	i, err := unmarshalEnum(nameDisplayNames, text)
	*v = NameDisplay(i)
	return err
}

// Nicified reports whether names are case-normalised for display.
func (v NameDisplay) Nicified() bool {
	return v == NameNicifiedLabel || v == NameNicifiedCenteredLabel
}

// Centered reports whether names are centered in the identity column.
func (v NameDisplay) Centered() bool {
	return v == NameCenteredLabel || v == NameNicifiedCenteredLabel
}

func (v MissingDisplay) String() string { return enumString(missingDisplayNames, int(v)) }
func (v MissingDisplay) MarshalText() ([]byte, error) {
	return marshalEnum(missingDisplayNames, int(v))
}
func (v *MissingDisplay) UnmarshalText(text []byte) error {
	i, err := unmarshalEnum(missingDisplayNames, text)
	*v = MissingDisplay(i)
	return err
}

func (v Indexing) String() string { return enumString(indexingNames, int(v)) }
func (v Indexing) MarshalText() ([]byte, error) {
	return marshalEnum(indexingNames, int(v))
}
func (v *Indexing) UnmarshalText(text []byte) error {
	i, err := unmarshalEnum(indexingNames, text)
	*v = Indexing(i)
	return err
}

func (v NumericalDisplay) String() string { return enumString(numericalNames, int(v)) }
func (v NumericalDisplay) MarshalText() ([]byte, error) {
	return marshalEnum(numericalNames, int(v))
}
func (v *NumericalDisplay) UnmarshalText(text []byte) error {
	i, err := unmarshalEnum(numericalNames, text)
	*v = NumericalDisplay(i)
	return err
}

func (v EnumDisplay) String() string { return enumString(enumDisplayNames, int(v)) }
func (v EnumDisplay) MarshalText() ([]byte, error) {
	return marshalEnum(enumDisplayNames, int(v))
}
func (v *EnumDisplay) UnmarshalText(text []byte) error {
	i, err := unmarshalEnum(enumDisplayNames, text)
	*v = EnumDisplay(i)
	return err
}

func (v StringDisplay) String() string { return enumString(stringDisplayNames, int(v)) }
func (v StringDisplay) MarshalText() ([]byte, error) {
	return marshalEnum(stringDisplayNames, int(v))
}
func (v *StringDisplay) UnmarshalText(text []byte) error {
	i, err := unmarshalEnum(stringDisplayNames, text)
	*v = StringDisplay(i)
	return err
}

func (v ColorDisplay) String() string { return enumString(colorDisplayNames, int(v)) }
func (v ColorDisplay) MarshalText() ([]byte, error) {
	return marshalEnum(colorDisplayNames, int(v))
}
func (v *ColorDisplay) UnmarshalText(text []byte) error {
	i, err := unmarshalEnum(colorDisplayNames, text)
	*v = ColorDisplay(i)
	return err
}

func (v ObjectDisplay) String() string { return enumString(objectDisplayNames, int(v)) }
func (v ObjectDisplay) MarshalText() ([]byte, error) {
	return marshalEnum(objectDisplayNames, int(v))
}
func (v *ObjectDisplay) UnmarshalText(text []byte) error {
	i, err := unmarshalEnum(objectDisplayNames, text)
	*v = ObjectDisplay(i)
	return err
}

func (v DefaultDisplay) String() string { return enumString(defaultDisplayNames, int(v)) }
func (v DefaultDisplay) MarshalText() ([]byte, error) {
	return marshalEnum(defaultDisplayNames, int(v))
}
func (v *DefaultDisplay) UnmarshalText(text []byte) error {
	i, err := unmarshalEnum(defaultDisplayNames, text)
	*v = DefaultDisplay(i)
	return err
}

// AdditionalColumns is a bit set of built-in extra columns.
type AdditionalColumns uint8

const (
	ColumnPath AdditionalColumns = 1 << iota
)

var additionalNames = []string{"Path"}

// Has reports whether the flag is set.
func (a AdditionalColumns) Has(flag AdditionalColumns) bool {
	return a&flag != 0
}

func (a AdditionalColumns) String() string {
	var parts []string
	for i, n := range additionalNames {
		if a&(1<<uint(i)) != 0 {
			parts = append(parts, n)
		}
	}
	if len(parts) == 0 {
		return "Nothing"
	}
	return strings.Join(parts, "|")
}

func (a AdditionalColumns) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AdditionalColumns) UnmarshalText(text []byte) error {
	*a = 0
	for _, part := range strings.Split(string(text), "|") {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, "Nothing") {
			continue
		}
		i, err := unmarshalEnum(additionalNames, []byte(part))
		if err != nil {
			return err
		}
		*a |= 1 << uint(i)
	}
	return nil
}
