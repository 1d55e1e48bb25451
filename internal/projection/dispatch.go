package projection

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/five82/assetlist/internal/host"
	"github.com/lucasb-eyer/go-colorful"
)

// Family groups kinds that share a display mode enum.
type Family int

const (
	FamilyNone Family = iota
	FamilyNumeric
	FamilyEnum
	FamilyString
	FamilyColor
	FamilyObject
	FamilyCompound
	FamilyDefault
)

var familyNames = [...]string{"none", "numeric", "enum", "string", "color", "object", "compound", "default"}

func (f Family) String() string {
	if int(f) < len(familyNames) {
		return familyNames[f]
	}
	return strconv.Itoa(int(f))
}

// handler projects one kind. Every registered kind has both functions.
type handler struct {
	family    Family
	sortKey   func(host.Property) Key
	canonical func(host.Property) string
}

var handlers = map[host.Kind]handler{}

func register(k host.Kind, h handler) {
	if _, dup := handlers[k]; dup {
		panic(fmt.Sprintf("projection: kind %s registered twice", k))
	}
	handlers[k] = h
}

func init() {
	register(host.KindInteger, handler{FamilyNumeric, numberSortKey, intCanonical})
	register(host.KindArraySize, handler{FamilyNumeric, numberSortKey, intCanonical})
	register(host.KindFloat, handler{FamilyNumeric, numberSortKey, floatCanonical})
	register(host.KindBoolean, handler{FamilyDefault, boolSortKey, boolCanonical})
	register(host.KindString, handler{FamilyString, stringSortKey, stringCanonical})
	register(host.KindCharacter, handler{FamilyString, stringSortKey, charCanonical})
	register(host.KindEnum, handler{FamilyEnum, enumSortKey, enumCanonical})
	register(host.KindFlags, handler{FamilyEnum, flagsSortKey, flagsCanonical})
	register(host.KindColor, handler{FamilyColor, colorSortKey, colorCanonical})
	register(host.KindObjectRef, handler{FamilyObject, refSortKey, refCanonical})
	register(host.KindVector, handler{FamilyDefault, vectorSortKey, stringerCanonical})
	register(host.KindRect, handler{FamilyDefault, rectSortKey, stringerCanonical})
	register(host.KindBounds, handler{FamilyDefault, boundsSortKey, stringerCanonical})
	register(host.KindQuaternion, handler{FamilyDefault, quatSortKey, stringerCanonical})
	register(host.KindCurve, handler{FamilyDefault, curveSortKey, curveCanonical})
}

// FamilyOf returns the display family of a kind. Arrays and generic structures
// are compound; kinds with no projection are FamilyNone.
func FamilyOf(k host.Kind) Family {
	if h, ok := handlers[k]; ok {
		return h.family
	}
	if k == host.KindArray || k == host.KindGeneric {
		return FamilyCompound
	}
	return FamilyNone
}

// Supported reports whether values of the kind can be sorted, rendered and exported.
func Supported(k host.Kind) bool {
	_, ok := handlers[k]
	return ok
}

// SortKey projects p onto its sort key. A nil property yields AbsentKey.
func SortKey(p host.Property) Key {
	if p == nil {
		return AbsentKey()
	}
	h, ok := handlers[p.Kind()]
	if !ok {
		return AbsentKey()
	}
	return h.sortKey(p)
}

// Canonical returns the locale invariant string form of p, used for pattern
// matching and export. A nil property or unsupported kind yields "".
func Canonical(p host.Property) string {
	if p == nil {
		return ""
	}
	h, ok := handlers[p.Kind()]
	if !ok {
		return ""
	}
	return h.canonical(p)
}

// Export returns the canonical string with field and row separators removed.
func Export(p host.Property) string {
	return Sanitize(Canonical(p))
}

var sanitizer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

// Sanitize replaces tabs and line breaks with a single space so a value always
// occupies exactly one TSV field.
func Sanitize(s string) string {
	return sanitizer.Replace(s)
}

// Number returns the numeric value of an integer, float or array size property.
func Number(p host.Property) (float64, bool) {
	if p == nil {
		return 0, false
	}
	switch v := p.Value().(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func numberSortKey(p host.Property) Key {
	v, _ := Number(p)
	return NumberKey(v)
}

func intCanonical(p host.Property) string {
	v, _ := p.Value().(int64)
	return strconv.FormatInt(v, 10)
}

func floatCanonical(p host.Property) string {
	v, _ := p.Value().(float64)
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func boolSortKey(p host.Property) Key {
	if v, _ := p.Value().(bool); v {
		return NumberKey(1)
	}
	return NumberKey(0)
}

func boolCanonical(p host.Property) string {
	v, _ := p.Value().(bool)
	return strconv.FormatBool(v)
}

// text returns a string property's value, falling back to the owner's display
// name for an empty name field.
func text(p host.Property) string {
	v, _ := p.Value().(string)
	if v == "" && p.Path() == host.NameField && p.Owner() != nil {
		return p.Owner().Name()
	}
	return v
}

func stringSortKey(p host.Property) Key {
	if p.Kind() == host.KindCharacter {
		return StringKey(charCanonical(p))
	}
	return StringKey(text(p))
}

func stringCanonical(p host.Property) string { return text(p) }

func charCanonical(p host.Property) string {
	r, _ := p.Value().(rune)
	if r == 0 {
		return ""
	}
	return string(r)
}

func enumSortKey(p host.Property) Key {
	e, _ := p.Value().(host.Enum)
	return NumberKey(float64(e.Index))
}

func enumCanonical(p host.Property) string {
	e, _ := p.Value().(host.Enum)
	return e.Name()
}

func flagsSortKey(p host.Property) Key {
	f, _ := p.Value().(host.Flags)
	return NumberKey(float64(f.Bits))
}

func flagsCanonical(p host.Property) string {
	f, _ := p.Value().(host.Flags)
	switch {
	case f.All():
		return "Everything"
	case len(f.Set()) == 0:
		return "Nothing"
	}
	return strings.Join(f.Set(), "|")
}

// colorSortKey orders colors by CIE L*, the perceptual gray level.
func colorSortKey(p host.Property) Key {
	c, _ := p.Value().(host.Color)
	l, _, _ := colorful.Color{R: c.R, G: c.G, B: c.B}.Lab()
	return NumberKey(l)
}

func colorCanonical(p host.Property) string {
	c, _ := p.Value().(host.Color)
	return fmt.Sprintf("RGBA(%.3f, %.3f, %.3f, %.3f)", c.R, c.G, c.B, c.A)
}

func refName(p host.Property) string {
	r, _ := p.Value().(host.ObjectRef)
	if r.Target != nil {
		return r.Target.Name()
	}
	return r.Name
}

func refSortKey(p host.Property) Key { return StringKey(refName(p)) }
func refCanonical(p host.Property) string { return refName(p) }

func vectorSortKey(p host.Property) Key {
	v, _ := p.Value().(host.Vector)
	return NumberKey(v.SqrMagnitude())
}

func rectSortKey(p host.Property) Key {
	r, _ := p.Value().(host.Rect)
	return NumberKey(host.Vector{r.Width, r.Height}.SqrMagnitude())
}

func boundsSortKey(p host.Property) Key {
	b, _ := p.Value().(host.Bounds)
	return NumberKey(b.Size.SqrMagnitude())
}

func quatSortKey(p host.Property) Key {
	q, _ := p.Value().(host.Quaternion)
	return NumberKey(q.Yaw())
}

func curveSortKey(p host.Property) Key {
	c, _ := p.Value().(host.Curve)
	return NumberKey(float64(len(c)))
}

func curveCanonical(p host.Property) string {
	c, _ := p.Value().(host.Curve)
	keys := make([]string, len(c))
	for i, k := range c {
		keys[i] = host.Vector{k.Time, k.Value}.String()
	}
	return strings.Join(keys, " ")
}

func stringerCanonical(p host.Property) string {
	if s, ok := p.Value().(fmt.Stringer); ok {
		return s.String()
	}
	return ""
}
