package decode

import "fmt"

// ValueType tags how a slot's bytes are interpreted.
type ValueType uint8

const (
	TypeInvalid ValueType = iota
	F16                   // IEEE 754 half precision
	U16
	I16
	U8
	I8
	B8  // raw 8-bit pattern
	B16 // raw 16-bit pattern
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	F16:         "F16",
	U16:         "U16",
	I16:         "I16",
	U8:          "U8",
	I8:          "I8",
	B8:          "B8",
	B16:         "B16",
}

func (t ValueType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("ValueType(%d)", uint8(t))
}

// Width returns the slot width in bytes, or 0 for an unknown type.
func (t ValueType) Width() int {
	switch t {
	case F16, U16, I16, B16:
		return 2
	case U8, I8, B8:
		return 1
	default:
		return 0
	}
}

// Valid reports whether t is a known value type.
func (t ValueType) Valid() bool { return t.Width() > 0 }

// ParseValueType maps a configuration tag (F16, U16, ...) to a ValueType.
func ParseValueType(s string) (ValueType, error) {
	for i, name := range typeNames {
		if i == int(TypeInvalid) {
			continue
		}
		if name == s {
			return ValueType(i), nil
		}
	}
	return TypeInvalid, fmt.Errorf("unknown data type %q", s)
}
