package host

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Enum is the value of an enumeration property.
type Enum struct {
	Type  string
	Index int // -1 when the stored name is not declared
	Names []string
}

// Name returns the declared name of the value, or the empty string.
func (e Enum) Name() string {
	if e.Index < 0 || e.Index >= len(e.Names) {
		return ""
	}
	return e.Names[e.Index]
}

// Flags is the value of a bit-mask property. Bit i corresponds to Names[i].
type Flags struct {
	Type  string
	Bits  uint64
	Names []string
}

// Set returns the names of the set bits in declaration order.
func (f Flags) Set() []string {
	var out []string
	for i, name := range f.Names {
		if f.Bits&(1<<uint(i)) != 0 {
			out = append(out, name)
		}
	}
	return out
}

// All reports whether every declared bit is set.
func (f Flags) All() bool {
	if len(f.Names) == 0 {
		return false
	}
	mask := uint64(1)<<uint(len(f.Names)) - 1
	return f.Bits&mask == mask
}

// Color is a linear RGBA color. Components above 1 denote HDR intensities.
type Color struct {
	R, G, B, A float64
}

// HDR reports whether any color channel exceeds the displayable range.
func (c Color) HDR() bool {
	return c.R > 1 || c.G > 1 || c.B > 1
}

// ObjectRef references another catalog object by name.
type ObjectRef struct {
	Name   string
	Target Object // nil when the reference is null or dangling
}

// Null reports whether the reference points at nothing.
func (r ObjectRef) Null() bool {
	return r.Name == ""
}

// Vector is a 2, 3 or 4 component vector.
type Vector []float64

// SqrMagnitude returns the squared length of the vector.
func (v Vector) SqrMagnitude() float64 {
	var sum float64
	for _, c := range v {
		sum += c * c
	}
	return sum
}

func (v Vector) String() string {
	parts := make([]string, len(v))
	for i, c := range v {
		parts[i] = formatFloat(c)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Rect is an axis aligned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) String() string {
	return fmt.Sprintf("(x:%s, y:%s, width:%s, height:%s)",
		formatFloat(r.X), formatFloat(r.Y), formatFloat(r.Width), formatFloat(r.Height))
}

// Bounds is an axis aligned box described by center and size.
type Bounds struct {
	Center Vector
	Size   Vector
}

func (b Bounds) String() string {
	return fmt.Sprintf("Center: %s, Extents: %s", b.Center, b.extents())
}

func (b Bounds) extents() Vector {
	out := make(Vector, len(b.Size))
	for i, s := range b.Size {
		out[i] = s / 2
	}
	return out
}

// Quaternion is a rotation.
type Quaternion struct {
	X, Y, Z, W float64
}

// Yaw returns the rotation about the up axis in degrees, in [0, 360).
func (q Quaternion) Yaw() float64 {
	sinp := 2 * (q.W*q.Y - q.Z*q.X)
	var yaw float64
	if math.Abs(sinp) >= 1 {
		yaw = math.Copysign(math.Pi/2, sinp)
	} else {
		yaw = math.Asin(sinp)
	}
	deg := yaw * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

func (q Quaternion) String() string {
	return Vector{q.X, q.Y, q.Z, q.W}.String()
}

// CurveKey is one keyframe of a curve.
type CurveKey struct {
	Time, Value float64
}

// Curve is a keyframed animation curve.
type Curve []CurveKey

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
