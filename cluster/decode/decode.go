// Package decode extracts typed numeric values from fixed-width slots of a bus
// message payload.
//
// All multi-byte values are big-endian. Decoding is pure: the same payload,
// offset and type always yield the same value.
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"m8r/internal/mathx"

	"github.com/x448/float16"
)

// ErrSlotRange is returned when a slot does not fit inside the payload.
var ErrSlotRange = errors.New("slot out of range")

// ErrUnknownType is returned for a ValueType without a defined width.
var ErrUnknownType = errors.New("unknown value type")

// RangeError describes a slot that does not fit the payload it was read from.
type RangeError struct {
	Type  ValueType
	Start int
	Width int
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("decode %s: slot [%d,%d) exceeds payload length %d", e.Type, e.Start, e.Start+e.Width, e.Len)
}

func (e *RangeError) Is(target error) bool { return target == ErrSlotRange }

func slot(payload []byte, start int, t ValueType) ([]byte, error) {
	w := t.Width()
	if w == 0 {
		return nil, fmt.Errorf("decode %s: %w", t, ErrUnknownType)
	}
	if start < 0 || start+w > len(payload) {
		return nil, &RangeError{Type: t, Start: start, Width: w, Len: len(payload)}
	}
	return payload[start : start+w], nil
}

// Decode reads the slot starting at byte offset start and widens it to float32.
//
// B8 and B16 currently decode exactly like U8 and U16.
func Decode(payload []byte, start int, t ValueType) (float32, error) {
	b, err := slot(payload, start, t)
	if err != nil {
		return 0, err
	}

	switch t {
	case F16:
		return float16.Frombits(binary.BigEndian.Uint16(b)).Float32(), nil
	case U16, B16:
		return float32(binary.BigEndian.Uint16(b)), nil
	case I16:
		return float32(int16(binary.BigEndian.Uint16(b))), nil
	case U8, B8:
		return float32(b[0]), nil
	case I8:
		return float32(int8(b[0])), nil
	}
	return 0, fmt.Errorf("decode %s: %w", t, ErrUnknownType)
}

// Encode writes v into the slot starting at byte offset start.
//
// Integer types round to nearest and saturate at the type's range; NaN encodes
// as zero.
func Encode(payload []byte, start int, t ValueType, v float32) error {
	b, err := slot(payload, start, t)
	if err != nil {
		return err
	}

	switch t {
	case F16:
		binary.BigEndian.PutUint16(b, float16.Fromfloat32(v).Bits())
	case U16, B16:
		binary.BigEndian.PutUint16(b, uint16(saturate(v, 0, math.MaxUint16)))
	case I16:
		binary.BigEndian.PutUint16(b, uint16(int16(saturate(v, math.MinInt16, math.MaxInt16))))
	case U8, B8:
		b[0] = uint8(saturate(v, 0, math.MaxUint8))
	case I8:
		b[0] = uint8(int8(saturate(v, math.MinInt8, math.MaxInt8)))
	}
	return nil
}

func saturate(v float32, lo, hi float64) int64 {
	f := float64(v)
	if math.IsNaN(f) {
		return 0
	}
	return int64(mathx.Clamp(math.Round(f), lo, hi))
}
