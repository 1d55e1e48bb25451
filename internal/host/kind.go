package host

import (
	"fmt"
	"strings"
)

// Kind identifies the type of a property value as reported by the host.
type Kind int

const (
	KindInvalid Kind = iota
	KindGeneric
	KindInteger
	KindBoolean
	KindFloat
	KindString
	KindColor
	KindObjectRef
	KindFlags
	KindEnum
	KindVector
	KindRect
	KindArraySize
	KindCharacter
	KindCurve
	KindBounds
	KindGradient
	KindQuaternion
	KindBinary
	KindArray
)

var kindNames = map[Kind]string{
	KindInvalid:    "invalid",
	KindGeneric:    "generic",
	KindInteger:    "integer",
	KindBoolean:    "boolean",
	KindFloat:      "float",
	KindString:     "string",
	KindColor:      "color",
	KindObjectRef:  "object",
	KindFlags:      "flags",
	KindEnum:       "enum",
	KindVector:     "vector",
	KindRect:       "rect",
	KindArraySize:  "array_size",
	KindCharacter:  "character",
	KindCurve:      "curve",
	KindBounds:     "bounds",
	KindGradient:   "gradient",
	KindQuaternion: "quaternion",
	KindBinary:     "binary",
	KindArray:      "array",
}

// String returns the persisted name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	want := strings.ToLower(strings.TrimSpace(string(text)))
	for kind, name := range kindNames {
		if name == want {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", string(text))
}

// IsNumeric reports whether values of the kind are plain numbers.
func (k Kind) IsNumeric() bool {
	return k == KindInteger || k == KindFloat
}
