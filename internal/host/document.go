package host

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// YAML tags understood by the document host.
const (
	tagEnum     = "!enum"
	tagFlags    = "!flags"
	tagColor    = "!color"
	tagRef      = "!ref"
	tagChar     = "!char"
	tagVector   = "!vec"
	tagRect     = "!rect"
	tagBounds   = "!bounds"
	tagQuat     = "!quat"
	tagCurve    = "!curve"
	tagGradient = "!gradient"
	tagBinary   = "!!binary"
)

// NameField is the conventional property holding an object's display name.
const NameField = "name"

// Document is one parsed catalog file.
type Document struct {
	Path  string
	Root  *yaml.Node
	Enums map[string][]string

	lookup func(name string) Object
	dirty  bool
}

// Dirty reports whether the document has uncommitted edits.
func (d *Document) Dirty() bool { return d.dirty }

type docObject struct {
	doc        *Document
	typeName   string
	name       string
	location   string
	persistent bool
	fields     *yaml.Node
}

func (o *docObject) Name() string     { return o.name }
func (o *docObject) TypeName() string { return o.typeName }
func (o *docObject) Location() string { return o.location }
func (o *docObject) Persistent() bool { return o.persistent }

func (o *docObject) Root() Property {
	if o.fields == nil {
		return nil
	}
	return &docProperty{owner: o, node: o.fields, kind: KindGeneric}
}

// docProperty is a Property backed by a node in a Document's YAML tree.
// Values are decoded from the node on every read so edits are visible at once.
type docProperty struct {
	owner *docObject
	node  *yaml.Node
	path  string
	name  string
	kind  Kind
}

func (p *docProperty) Path() string  { return p.path }
func (p *docProperty) Name() string  { return p.name }
func (p *docProperty) Kind() Kind    { return p.kind }
func (p *docProperty) Owner() Object { return p.owner }

func (p *docProperty) Len() int {
	if p.kind != KindArray {
		return -1
	}
	return len(deref(p.node).Content)
}

func (p *docProperty) Index(i int) (Property, bool) {
	if p.kind != KindArray {
		return nil, false
	}
	node := deref(p.node)
	if i < 0 || i >= len(node.Content) {
		return nil, false
	}
	return p.derive(strconv.Itoa(i), node.Content[i]), true
}

func (p *docProperty) Field(path string) (Property, bool) {
	if path == "" {
		return p, true
	}
	cur := p
	for _, seg := range strings.Split(path, ".") {
		next, ok := cur.child(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func (p *docProperty) child(seg string) (*docProperty, bool) {
	node := deref(p.node)
	switch node.Kind {
	case yaml.MappingNode:
		if p.kind != KindGeneric {
			return nil, false
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == seg {
				return p.derive(seg, node.Content[i+1]), true
			}
		}
	case yaml.SequenceNode:
		if p.kind != KindArray {
			return nil, false
		}
		if seg == "size" {
			return &docProperty{owner: p.owner, node: node, path: joinPath(p.path, seg), name: seg, kind: KindArraySize}, true
		}
		if i, err := strconv.Atoi(seg); err == nil && i >= 0 && i < len(node.Content) {
			return p.derive(seg, node.Content[i]), true
		}
	}
	return nil, false
}

func (p *docProperty) derive(name string, node *yaml.Node) *docProperty {
	return &docProperty{
		owner: p.owner,
		node:  node,
		path:  joinPath(p.path, name),
		name:  name,
		kind:  inferKind(node),
	}
}

func (p *docProperty) Value() any {
	node := deref(p.node)
	switch p.kind {
	case KindInteger:
		v, _ := strconv.ParseInt(node.Value, 0, 64)
		return v
	case KindFloat:
		return parseFloat(node.Value)
	case KindBoolean:
		v, _ := strconv.ParseBool(strings.ToLower(node.Value))
		return v
	case KindString, KindGradient, KindBinary:
		if isNull(node) {
			return ""
		}
		return node.Value
	case KindCharacter:
		for _, r := range node.Value {
			return r
		}
		return rune(0)
	case KindEnum:
		return p.enumValue(node.Value)
	case KindFlags:
		return p.flagsValue(node.Value)
	case KindColor:
		return colorValue(node)
	case KindObjectRef:
		ref := ObjectRef{Name: strings.TrimSpace(node.Value)}
		if node.ShortTag() == "!!null" {
			ref.Name = ""
		}
		if !ref.Null() && p.owner.doc.lookup != nil {
			ref.Target = p.owner.doc.lookup(ref.Name)
		}
		return ref
	case KindVector:
		return floats(node)
	case KindQuaternion:
		v := padded(floats(node), 4)
		return Quaternion{X: v[0], Y: v[1], Z: v[2], W: v[3]}
	case KindRect:
		m := mapping(node)
		return Rect{
			X:      parseFloat(m["x"].value()),
			Y:      parseFloat(m["y"].value()),
			Width:  parseFloat(m["width"].value()),
			Height: parseFloat(m["height"].value()),
		}
	case KindBounds:
		m := mapping(node)
		return Bounds{Center: floats(m["center"].node()), Size: floats(m["size"].node())}
	case KindCurve:
		var curve Curve
		for _, key := range node.Content {
			v := padded(floats(key), 2)
			curve = append(curve, CurveKey{Time: v[0], Value: v[1]})
		}
		return curve
	case KindArraySize:
		return int64(len(node.Content))
	}
	return nil
}

func (p *docProperty) enumValue(raw string) Enum {
	typ, name := splitQualified(raw)
	names := p.owner.doc.Enums[typ]
	e := Enum{Type: typ, Index: -1, Names: names}
	for i, n := range names {
		if n == name {
			e.Index = i
			break
		}
	}
	if e.Index < 0 {
		if i, err := strconv.Atoi(name); err == nil && i >= 0 && i < len(names) {
			e.Index = i
		}
	}
	return e
}

func (p *docProperty) flagsValue(raw string) Flags {
	typ, list := splitQualified(raw)
	names := p.owner.doc.Enums[typ]
	f := Flags{Type: typ, Names: names}
	for _, part := range strings.Split(list, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "Everything" {
			f.Bits = uint64(1)<<uint(len(names)) - 1
			continue
		}
		for i, n := range names {
			if n == part {
				f.Bits |= 1 << uint(i)
			}
		}
	}
	return f
}

func inferKind(node *yaml.Node) Kind {
	node = deref(node)
	if node == nil {
		return KindInvalid
	}
	switch node.ShortTag() {
	case tagEnum:
		return KindEnum
	case tagFlags:
		return KindFlags
	case tagColor:
		return KindColor
	case tagRef:
		return KindObjectRef
	case tagChar:
		return KindCharacter
	case tagVector:
		return KindVector
	case tagRect:
		return KindRect
	case tagBounds:
		return KindBounds
	case tagQuat:
		return KindQuaternion
	case tagCurve:
		return KindCurve
	case tagGradient:
		return KindGradient
	case tagBinary:
		return KindBinary
	case "!!int":
		return KindInteger
	case "!!float":
		return KindFloat
	case "!!bool":
		return KindBoolean
	case "!!str", "!!timestamp":
		return KindString
	case "!!null":
		return KindObjectRef
	case "!!seq":
		return KindArray
	case "!!map":
		return KindGeneric
	}
	return KindInvalid
}

// Retype returns p read as a string when p is an untagged YAML null, which
// has no kind of its own. Any other property is returned unchanged.
func Retype(p Property, k Kind) Property {
	dp, ok := p.(*docProperty)
	if !ok || k != KindString || dp.kind == k || !isNull(deref(dp.node)) {
		return p
	}
	out := *dp
	out.kind = k
	return &out
}

func isNull(node *yaml.Node) bool {
	return node != nil && node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

func deref(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node != nil && node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return deref(node.Content[0])
	}
	return node
}

func joinPath(base, seg string) string {
	if base == "" {
		return seg
	}
	return base + "." + seg
}

func splitQualified(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, "."); i >= 0 {
		return raw[:i], raw[i+1:]
	}
	return "", raw
}

func parseFloat(s string) float64 {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ".inf", "+.inf":
		return math.Inf(1)
	case "-.inf":
		return math.Inf(-1)
	case ".nan":
		return math.NaN()
	}
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func floats(node *yaml.Node) Vector {
	node = deref(node)
	if node == nil || node.Kind != yaml.SequenceNode {
		return nil
	}
	out := make(Vector, 0, len(node.Content))
	for _, c := range node.Content {
		out = append(out, parseFloat(deref(c).Value))
	}
	return out
}

func padded(v Vector, n int) Vector {
	for len(v) < n {
		v = append(v, 0)
	}
	return v
}

type entry struct{ n *yaml.Node }

func (e entry) node() *yaml.Node { return e.n }

func (e entry) value() string {
	if e.n == nil {
		return ""
	}
	return deref(e.n).Value
}

func mapping(node *yaml.Node) map[string]entry {
	out := make(map[string]entry)
	if node == nil || node.Kind != yaml.MappingNode {
		return out
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		out[node.Content[i].Value] = entry{n: node.Content[i+1]}
	}
	return out
}

func colorValue(node *yaml.Node) Color {
	if node.Kind == yaml.SequenceNode {
		v := padded(floats(node), 3)
		c := Color{R: v[0], G: v[1], B: v[2], A: 1}
		if len(v) > 3 {
			c.A = v[3]
		}
		return c
	}
	c, err := ParseHexColor(node.Value)
	if err != nil {
		return Color{}
	}
	return c
}

// ParseHexColor parses #rrggbb or #rrggbbaa.
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if len(s) != 7 && len(s) != 9 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	rgb, err := colorful.Hex(s[:7])
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	c := Color{R: rgb.R, G: rgb.G, B: rgb.B, A: 1}
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid alpha in %q: %w", s, err)
		}
		c.A = float64(a) / 255
	}
	return c, nil
}

// HexColor formats c as #rrggbbaa, clamping HDR channels.
func HexColor(c Color) string {
	hex := colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
	a := int(c.A*255 + 0.5)
	if a < 0 {
		a = 0
	}
	if a > 255 {
		a = 255
	}
	return fmt.Sprintf("%s%02x", hex, a)
}
