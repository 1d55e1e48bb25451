package projection

import (
	"errors"
	"math"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/assetlist/internal/host"
	"github.com/five82/assetlist/internal/listconfig"
)

const itemDoc = `type: Item
name: Lantern
enums:
  Rarity: [Common, Rare, Epic]
  Slot: [Head, Hand, Belt]
fields:
  name: ""
  weight: 2
  charge: 0.755
  glow: 0.5
  lit: true
  label: "line one\tline\ntwo"
  rarity: !enum Rarity.Rare
  slots: !flags Slot.Head|Hand|Belt
  noslots: !flags Slot.
  tint: !color "#80808080"
  bright: !color [2, 1, 0.5, 1]
  hotkey: !char L
  spare: !ref Lantern
  parent: ~
  offset: !vec [1, 2, 2]
  area: !rect {x: 5, y: 5, width: 3, height: 4}
  fade: !curve [[0, 1], [0.5, 0.5], [1, 0]]
  nested: {a: 1}
  blob: !!binary aGVsbG8=
`

func lantern(t *testing.T) host.Object {
	t.Helper()
	c, err := host.LoadFS("mem", fstest.MapFS{"lantern.yaml": {Data: []byte(itemDoc)}}, nil)
	require.NoError(t, err)
	require.Empty(t, c.Problems)
	obj := c.Lookup("Lantern")
	require.NotNil(t, obj)
	return obj
}

func prop(t *testing.T, obj host.Object, path string) host.Property {
	t.Helper()
	p, ok := host.PathResolver{}.TryGet(obj, path)
	require.Truef(t, ok, "missing %s", path)
	return p
}

func TestCanonical(t *testing.T) {
	obj := lantern(t)
	tests := []struct {
		path string
		want string
	}{
		{"name", "Lantern"},
		{"weight", "2"},
		{"charge", "0.755"},
		{"lit", "true"},
		{"rarity", "Rare"},
		{"slots", "Everything"},
		{"noslots", "Nothing"},
		{"tint", "RGBA(0.502, 0.502, 0.502, 0.502)"},
		{"hotkey", "L"},
		{"spare", "Lantern"},
		{"parent", ""},
		{"offset", "(1, 2, 2)"},
		{"area", "(x:5, y:5, width:3, height:4)"},
		{"fade", "(0, 1) (0.5, 0.5) (1, 0)"},
		{"blob", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(prop(t, obj, tt.path)))
		})
	}
	assert.Equal(t, "", Canonical(nil))
}

func TestExportStripsSeparators(t *testing.T) {
	obj := lantern(t)
	assert.Equal(t, "line one line two", Export(prop(t, obj, "label")))
	assert.Equal(t, "a b c d", Sanitize("a\tb\r\nc\rd"))
}

func TestSortKeyOrdering(t *testing.T) {
	obj := lantern(t)
	key := func(path string) Key { return SortKey(prop(t, obj, path)) }

	assert.Equal(t, 0, key("weight").Compare(NumberKey(2)))
	assert.Equal(t, 0, key("rarity").Compare(NumberKey(1)))
	assert.Equal(t, 0, key("slots").Compare(NumberKey(7)))
	assert.Equal(t, 0, key("lit").Compare(NumberKey(1)))
	assert.Equal(t, 0, key("offset").Compare(NumberKey(9)))
	assert.Equal(t, 0, key("area").Compare(NumberKey(25)))
	assert.Equal(t, 0, key("fade").Compare(NumberKey(3)))
	assert.Equal(t, 0, key("name").Compare(StringKey("Lantern")), "empty name falls back to the owner")
	assert.Equal(t, 0, key("parent").Compare(StringKey("")))
	assert.Equal(t, -1, key("tint").Compare(key("bright")), "darker colors sort first")

	assert.True(t, SortKey(nil).Absent())
	assert.True(t, key("blob").Absent())
}

func TestKeyCompareClasses(t *testing.T) {
	absent, low, high, str := AbsentKey(), NumberKey(-5), NumberKey(3), StringKey("a")
	assert.Equal(t, -1, absent.Compare(low))
	assert.Equal(t, -1, low.Compare(high))
	assert.Equal(t, -1, high.Compare(str))
	assert.Equal(t, 1, str.Compare(absent))
	assert.Equal(t, 0, absent.Compare(AbsentKey()))
	assert.Equal(t, -1, NumberKey(math.NaN()).Compare(low))
	assert.Equal(t, -1, StringKey("B").Compare(StringKey("a")))
}

func TestFamilyOf(t *testing.T) {
	assert.Equal(t, FamilyNumeric, FamilyOf(host.KindArraySize))
	assert.Equal(t, FamilyEnum, FamilyOf(host.KindFlags))
	assert.Equal(t, FamilyString, FamilyOf(host.KindCharacter))
	assert.Equal(t, FamilyDefault, FamilyOf(host.KindBoolean))
	assert.Equal(t, FamilyCompound, FamilyOf(host.KindGeneric))
	assert.Equal(t, FamilyNone, FamilyOf(host.KindGradient))
	assert.False(t, Supported(host.KindBinary))
}

func TestSelectRendererModes(t *testing.T) {
	obj := lantern(t)
	render := func(col listconfig.ColumnConfiguration) Instruction {
		t.Helper()
		r, err := SelectRenderer(col)
		require.NoError(t, err)
		return r(prop(t, obj, col.PropertyPath))
	}

	in := render(listconfig.ColumnConfiguration{PropertyPath: "charge", ValueKind: host.KindFloat, NumericalDisplay: listconfig.NumericalReadonlyPercentageLabelNormalised})
	assert.Equal(t, OpPercent, in.Op)
	assert.Equal(t, "75.5%", in.Text)

	in = render(listconfig.ColumnConfiguration{PropertyPath: "glow", ValueKind: host.KindFloat, NumericalDisplay: listconfig.NumericalReadonlyProgressBarNormalised})
	assert.Equal(t, OpProgress, in.Op)
	assert.InDelta(t, 0.5, in.Fraction, 1e-9)

	in = render(listconfig.ColumnConfiguration{PropertyPath: "weight", ValueKind: host.KindInteger, NumericalDisplay: listconfig.NumericalReadonlyProgressBar})
	assert.InDelta(t, 0.02, in.Fraction, 1e-9)
	assert.Equal(t, "2%", in.Text)

	in = render(listconfig.ColumnConfiguration{PropertyPath: "weight", ValueKind: host.KindInteger})
	assert.Equal(t, Instruction{Op: OpEditable, Text: "2"}, in)

	in = render(listconfig.ColumnConfiguration{PropertyPath: "rarity", ValueKind: host.KindEnum, EnumDisplay: listconfig.EnumReadonlyLabel})
	assert.Equal(t, Instruction{Op: OpLabel, Text: "Rare", Align: AlignCenter}, in)

	in = render(listconfig.ColumnConfiguration{PropertyPath: "bright", ValueKind: host.KindColor, ColorDisplay: listconfig.ColorReadonlySimplifiedHDR})
	assert.Equal(t, OpSwatch, in.Op)
	assert.True(t, in.HDR)

	in = render(listconfig.ColumnConfiguration{PropertyPath: "spare", ValueKind: host.KindObjectRef, ObjectDisplay: listconfig.ObjectReadonlyLabelWithIcon})
	assert.Equal(t, Instruction{Op: OpObjectLabel, Text: "Lantern", Icon: "Item"}, in)

	in = render(listconfig.ColumnConfiguration{PropertyPath: "parent", ValueKind: host.KindObjectRef, ObjectDisplay: listconfig.ObjectReadonlyLabelWithIcon})
	assert.Equal(t, "Null", in.Text)

	in = render(listconfig.ColumnConfiguration{PropertyPath: "offset", ValueKind: host.KindVector})
	assert.Equal(t, OpReadonly, in.Op, "vectors have no text edit form")
}

func TestSelectRendererRejectsUnsupportedKinds(t *testing.T) {
	for _, kind := range []host.Kind{host.KindGeneric, host.KindArray, host.KindGradient, host.KindBinary, host.KindInvalid} {
		_, err := SelectRenderer(listconfig.ColumnConfiguration{PropertyPath: "x", ValueKind: kind})
		assert.Truef(t, errors.Is(err, ErrKindNotSupported), "kind %s: err = %v", kind, err)
	}

	_, err := SelectRenderer(listconfig.ColumnConfiguration{
		PropertyPath: "drops", ValueKind: host.KindArray, IsArray: true,
		ArrayData: &listconfig.ArrayData{ResolvedValueKind: host.KindFloat},
	})
	assert.NoError(t, err, "arrays are supported through their element kind")
}

func TestMissing(t *testing.T) {
	assert.Equal(t, Instruction{Op: OpMissing, Text: MissingWarning}, Missing(listconfig.MissingRedWithWarning))
	assert.Equal(t, Instruction{Op: OpBlank}, Missing(listconfig.MissingBlank))
}

func TestNicify(t *testing.T) {
	tests := map[string]string{
		"m_maxHealth": "Max Health",
		"drop_rate":   "Drop Rate",
		"HTTPPort2":   "HTTP Port 2",
		"kSpeed":      "Speed",
		"already ok":  "Already Ok",
		"":            "",
	}
	for in, want := range tests {
		assert.Equalf(t, want, Nicify(in), "Nicify(%q)", in)
	}
}

func TestMinWidth(t *testing.T) {
	bar := listconfig.ColumnConfiguration{ValueKind: host.KindFloat, NumericalDisplay: listconfig.NumericalReadonlyProgressBar}
	assert.Greater(t, MinWidth(bar), MinWidth(listconfig.ColumnConfiguration{ValueKind: host.KindFloat}))
}
