package projection

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/five82/assetlist/internal/host"
	"github.com/five82/assetlist/internal/listconfig"
)

// ErrKindNotSupported is returned when a column's kind has no projection.
var ErrKindNotSupported = errors.New("value kind not supported")

// MissingWarning is the text of a warning cell for an absent property.
const MissingWarning = "Property was not found."

// Op is a display primitive.
type Op int

const (
	OpEditable Op = iota
	OpReadonly
	OpLabel
	OpPercent
	OpProgress
	OpSwatch
	OpObjectLabel
	OpMissing
	OpBlank
)

// Align is the horizontal placement of a label.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Instruction tells the view how to draw one cell.
type Instruction struct {
	Op    Op
	Text  string
	Align Align
	// Fraction is the filled portion of a progress bar, clamped to [0, 1].
	Fraction float64
	Color    host.Color
	HDR      bool
	// Icon names the referenced object's type for object labels.
	Icon string
}

// Renderer turns a resolved property into an instruction.
type Renderer func(p host.Property) Instruction

// Missing returns the instruction for an absent value.
func Missing(display listconfig.MissingDisplay) Instruction {
	if display == listconfig.MissingBlank {
		return Instruction{Op: OpBlank}
	}
	return Instruction{Op: OpMissing, Text: MissingWarning}
}

// SelectRenderer picks the renderer for a column from its kind family and
// display mode. Unsupported kinds fail here, never while drawing.
func SelectRenderer(col listconfig.ColumnConfiguration) (Renderer, error) {
	kind := col.EffectiveKind()
	switch FamilyOf(kind) {
	case FamilyNumeric:
		return numericRenderer(col.NumericalDisplay), nil
	case FamilyEnum:
		switch col.EnumDisplay {
		case listconfig.EnumProperty:
			return plain(OpEditable), nil
		case listconfig.EnumReadonlyProperty:
			return plain(OpReadonly), nil
		}
		return label(false, AlignCenter), nil
	case FamilyString:
		switch col.StringDisplay {
		case listconfig.StringProperty:
			return plain(OpEditable), nil
		case listconfig.StringReadonlyProperty:
			return plain(OpReadonly), nil
		case listconfig.StringReadonlyNicifiedLabel:
			return label(true, AlignLeft), nil
		case listconfig.StringReadonlyCenteredLabel:
			return label(false, AlignCenter), nil
		case listconfig.StringReadonlyNicifiedCenteredLabel:
			return label(true, AlignCenter), nil
		}
		return label(false, AlignLeft), nil
	case FamilyColor:
		return colorRenderer(col.ColorDisplay), nil
	case FamilyObject:
		return objectRenderer(col.ObjectDisplay), nil
	case FamilyDefault:
		if col.DefaultDisplay == listconfig.DefaultReadonlyProperty || !host.Editable(kind) {
			return plain(OpReadonly), nil
		}
		return plain(OpEditable), nil
	case FamilyCompound:
		return nil, fmt.Errorf("%w: %s is only supported through an array strategy", ErrKindNotSupported, kind)
	}
	return nil, fmt.Errorf("%w: %s", ErrKindNotSupported, kind)
}

func plain(op Op) Renderer {
	return func(p host.Property) Instruction {
		return Instruction{Op: op, Text: Canonical(p)}
	}
}

func label(nicify bool, align Align) Renderer {
	return func(p host.Property) Instruction {
		text := Canonical(p)
		if nicify {
			text = Nicify(text)
		}
		return Instruction{Op: OpLabel, Text: text, Align: align}
	}
}

func numericRenderer(mode listconfig.NumericalDisplay) Renderer {
	switch mode {
	case listconfig.NumericalProperty:
		return plain(OpEditable)
	case listconfig.NumericalReadonlyProperty:
		return plain(OpReadonly)
	case listconfig.NumericalReadonlyPercentageLabel, listconfig.NumericalReadonlyPercentageLabelNormalised:
		scale := percentScale(mode == listconfig.NumericalReadonlyPercentageLabelNormalised)
		return func(p host.Property) Instruction {
			v, _ := Number(p)
			return Instruction{Op: OpPercent, Text: Percent(v * scale), Fraction: clamp01(v * scale / 100)}
		}
	case listconfig.NumericalReadonlyProgressBar, listconfig.NumericalReadonlyProgressBarNormalised:
		scale := percentScale(mode == listconfig.NumericalReadonlyProgressBarNormalised)
		return func(p host.Property) Instruction {
			v, _ := Number(p)
			return Instruction{Op: OpProgress, Text: Percent(v * scale), Fraction: clamp01(v * scale / 100)}
		}
	}
	return label(false, AlignLeft)
}

func percentScale(normalised bool) float64 {
	if normalised {
		return 100
	}
	return 1
}

// Percent formats v with at most two decimals and a percent sign.
func Percent(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + "%"
}

func clamp01(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func colorRenderer(mode listconfig.ColorDisplay) Renderer {
	return func(p host.Property) Instruction {
		c, _ := p.Value().(host.Color)
		in := Instruction{Op: OpSwatch, Text: host.HexColor(c), Color: c}
		switch mode {
		case listconfig.ColorProperty:
			in.Op = OpEditable
		case listconfig.ColorReadonlyProperty:
			in.Op = OpReadonly
		case listconfig.ColorReadonlySimplifiedHDR:
			in.HDR = c.HDR()
		}
		return in
	}
}

func objectRenderer(mode listconfig.ObjectDisplay) Renderer {
	return func(p host.Property) Instruction {
		name := Canonical(p)
		switch mode {
		case listconfig.ObjectProperty:
			return Instruction{Op: OpEditable, Text: name}
		case listconfig.ObjectReadonlyProperty:
			return Instruction{Op: OpReadonly, Text: name}
		}
		ref, _ := p.Value().(host.ObjectRef)
		if ref.Null() {
			return Instruction{Op: OpObjectLabel, Text: "Null"}
		}
		in := Instruction{Op: OpObjectLabel, Text: name}
		if ref.Target != nil {
			in.Icon = ref.Target.TypeName()
		}
		return in
	}
}

// MinWidth returns the narrowest cell, in terminal columns, that shows the
// column's display mode legibly.
func MinWidth(col listconfig.ColumnConfiguration) int {
	switch FamilyOf(col.EffectiveKind()) {
	case FamilyNumeric:
		switch col.NumericalDisplay {
		case listconfig.NumericalReadonlyProgressBar, listconfig.NumericalReadonlyProgressBarNormalised:
			return 16
		}
		return 8
	case FamilyEnum:
		if col.EnumDisplay == listconfig.EnumReadonlyLabel {
			return 10
		}
		return 14
	case FamilyString, FamilyColor:
		return 14
	case FamilyObject:
		return 18
	}
	return 20
}
