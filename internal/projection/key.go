package projection

import (
	"cmp"
	"strings"
)

type keyClass uint8

const (
	classAbsent keyClass = iota
	classNumber
	classString
)

// Key is a totally ordered sort key. Absent keys sort before numbers, and
// numbers sort before strings, so mixed columns still order deterministically.
type Key struct {
	class keyClass
	num   float64
	str   string
}

// AbsentKey is the key of a value that could not be resolved.
func AbsentKey() Key { return Key{} }

// NumberKey returns a numeric key.
func NumberKey(f float64) Key { return Key{class: classNumber, num: f} }

// StringKey returns a lexicographic key.
func StringKey(s string) Key { return Key{class: classString, str: s} }

// Absent reports whether the key stands for an absent value.
func (k Key) Absent() bool { return k.class == classAbsent }

// Compare returns -1, 0 or +1. NaN sorts before every other number.
func (k Key) Compare(o Key) int {
	if k.class != o.class {
		return cmp.Compare(k.class, o.class)
	}
	switch k.class {
	case classNumber:
		return cmp.Compare(k.num, o.num)
	case classString:
		return strings.Compare(k.str, o.str)
	}
	return 0
}
