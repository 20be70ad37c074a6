package flexit

import (
	"encoding/binary"
	"math"
)

// Decode converts register words, most significant word first, into a
// value of the given wire type: int16, uint16, bool or float32.
func Decode(words []uint16, t WireType) (any, error) {
	n := t.WordCount()
	if n == 0 || len(words) != n {
		return nil, &DecodeError{Type: t, Words: len(words)}
	}
	b := wordsToBytes(words)
	switch t {
	case Int16:
		return int16(binary.BigEndian.Uint16(b)), nil
	case Uint16:
		return binary.BigEndian.Uint16(b), nil
	case Bool16:
		// high byte is padding
		return b[1] != 0, nil
	case Float32:
		return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
	}
	return nil, &DecodeError{Type: t, Words: len(words)}
}

// Encode converts v into exactly t.WordCount() register words. Numeric
// values are not range checked; they wrap like a Go conversion.
func Encode(v any, t WireType) ([]uint16, error) {
	switch t {
	case Int16, Uint16:
		i, ok := toInt64(v)
		if !ok {
			return nil, &EncodeError{Type: t, Value: v}
		}
		return []uint16{uint16(i)}, nil
	case Bool16:
		if b, ok := v.(bool); ok {
			if b {
				return []uint16{1}, nil
			}
			return []uint16{0}, nil
		}
		f, ok := toFloat64(v)
		if !ok {
			return nil, &EncodeError{Type: t, Value: v}
		}
		if f != 0 {
			return []uint16{1}, nil
		}
		return []uint16{0}, nil
	case Float32:
		f, ok := toFloat64(v)
		if !ok {
			return nil, &EncodeError{Type: t, Value: v}
		}
		bits := math.Float32bits(float32(f))
		return []uint16{uint16(bits >> 16), uint16(bits)}, nil
	}
	return nil, &EncodeError{Type: t, Value: v}
}

func wordsToBytes(words []uint16) []byte {
	b := make([]byte, 2*len(words))
	for i, w := range words {
		binary.BigEndian.PutUint16(b[2*i:], w)
	}
	return b
}

func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	if i, ok := intValue(v); ok {
		return float64(i), true
	}
	if u, ok := v.(uint64); ok {
		return float64(u), true
	}
	return 0, false
}

// toInt64 truncates floats toward zero.
func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		return int64(x), true
	case float32:
		return int64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case uint64:
		return int64(x), true
	}
	return intValue(v)
}

func intValue(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	}
	return 0, false
}
