package codec

import (
	"encoding/binary"
	"math"

	"jonx/internal/domain"
)

// Integer and float blocks are little-endian packed arrays with no length
// prefix; the element count is the block length divided by the width.

func packInteger(values domain.Column, t domain.PhysicalType) ([]byte, error) {
	width := t.Width()
	out := make([]byte, 0, len(values)*width)
	for i, v := range values {
		if t.IsSignedInteger() {
			n, err := signedAt(v, t, i)
			if err != nil {
				return nil, err
			}
			out = appendLE(out, uint64(n), width)
		} else {
			n, err := unsignedAt(v, t, i)
			if err != nil {
				return nil, err
			}
			out = appendLE(out, n, width)
		}
	}
	return out, nil
}

func signedAt(v any, t domain.PhysicalType, row int) (int64, error) {
	var n int64
	switch x := v.(type) {
	case int64:
		n = x
	case uint64:
		if x > math.MaxInt64 {
			return 0, rangeError(v, t, row)
		}
		n = int64(x)
	default:
		return 0, domain.EncodeError("row %d: value of type %T is not an integer", row, v)
	}
	for _, r := range domain.SignedRanges {
		if r.Type == t {
			if n < r.Lo || n > r.Hi {
				return 0, rangeError(v, t, row)
			}
			return n, nil
		}
	}
	return 0, domain.EncodeError("unknown signed type %q", t)
}

func unsignedAt(v any, t domain.PhysicalType, row int) (uint64, error) {
	var n uint64
	switch x := v.(type) {
	case int64:
		if x < 0 {
			return 0, rangeError(v, t, row)
		}
		n = uint64(x)
	case uint64:
		n = x
	default:
		return 0, domain.EncodeError("row %d: value of type %T is not an integer", row, v)
	}
	for _, r := range domain.UnsignedRanges {
		if r.Type == t {
			if n > r.Hi {
				return 0, rangeError(v, t, row)
			}
			return n, nil
		}
	}
	return 0, domain.EncodeError("unknown unsigned type %q", t)
}

func rangeError(v any, t domain.PhysicalType, row int) *domain.Error {
	return domain.EncodeError("row %d: value %v does not fit %s", row, v, t)
}

func appendLE(out []byte, n uint64, width int) []byte {
	for i := 0; i < width; i++ {
		out = append(out, byte(n>>(8*i)))
	}
	return out
}

func unpackInteger(block []byte, t domain.PhysicalType) (domain.Column, error) {
	width := t.Width()
	if len(block)%width != 0 {
		return nil, domain.DecodeError("block size %d is not a multiple of element width %d", len(block), width)
	}
	n := len(block) / width
	col := make(domain.Column, n)
	for i := 0; i < n; i++ {
		raw := readLE(block[i*width:], width)
		if t.IsSignedInteger() {
			col[i] = signExtend(raw, width)
		} else if t == domain.TypeUint64 && raw > math.MaxInt64 {
			col[i] = raw
		} else {
			col[i] = int64(raw)
		}
	}
	return col, nil
}

func readLE(b []byte, width int) uint64 {
	var n uint64
	for i := 0; i < width; i++ {
		n |= uint64(b[i]) << (8 * i)
	}
	return n
}

func signExtend(raw uint64, width int) int64 {
	shift := uint(64 - 8*width)
	return int64(raw<<shift) >> shift
}

func packFloat(values domain.Column, t domain.PhysicalType) ([]byte, error) {
	width := t.Width()
	out := make([]byte, 0, len(values)*width)
	for i, v := range values {
		f, err := floatAt(v, i)
		if err != nil {
			return nil, err
		}
		switch t {
		case domain.TypeFloat16:
			out = appendLE(out, uint64(domain.Float16FromFloat64(f)), 2)
		case domain.TypeFloat32:
			if math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0) {
				return nil, rangeError(v, t, i)
			}
			out = appendLE(out, uint64(math.Float32bits(float32(f))), 4)
		case domain.TypeFloat64:
			out = appendLE(out, math.Float64bits(f), 8)
		}
	}
	return out, nil
}

func floatAt(v any, row int) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	}
	return 0, domain.EncodeError("row %d: value of type %T is not a number", row, v)
}

func unpackFloat(block []byte, t domain.PhysicalType) (domain.Column, error) {
	width := t.Width()
	if len(block)%width != 0 {
		return nil, domain.DecodeError("block size %d is not a multiple of element width %d", len(block), width)
	}
	n := len(block) / width
	col := make(domain.Column, n)
	for i := 0; i < n; i++ {
		raw := readLE(block[i*width:], width)
		switch t {
		case domain.TypeFloat16:
			col[i] = domain.Float16ToFloat64(uint16(raw))
		case domain.TypeFloat32:
			col[i] = float64(math.Float32frombits(uint32(raw)))
		case domain.TypeFloat64:
			col[i] = math.Float64frombits(raw)
		}
	}
	return col, nil
}

func packBool(values domain.Column) ([]byte, error) {
	out := make([]byte, len(values))
	for i, v := range values {
		b, ok := v.(bool)
		if !ok {
			return nil, domain.EncodeError("row %d: value of type %T is not a bool", i, v)
		}
		if b {
			out[i] = 1
		}
	}
	return out, nil
}

func unpackBool(block []byte) (domain.Column, error) {
	col := make(domain.Column, len(block))
	for i, b := range block {
		switch b {
		case 0:
			col[i] = false
		case 1:
			col[i] = true
		default:
			return nil, domain.DecodeError("row %d: invalid bool byte 0x%02x", i, b)
		}
	}
	return col, nil
}

func packTimestampMS(values domain.Column) ([]byte, error) {
	out := make([]byte, 0, len(values)*8)
	for i, v := range values {
		n, err := signedAt(v, domain.TypeInt64, i)
		if err != nil {
			return nil, domain.EncodeError("row %d: value %v is not a millisecond timestamp", i, v)
		}
		out = appendLE(out, uint64(n), 8)
	}
	return out, nil
}

func unpackTimestampMS(block []byte) (domain.Column, error) {
	if len(block)%8 != 0 {
		return nil, domain.DecodeError("block size %d is not a multiple of element width 8", len(block))
	}
	n := len(block) / 8
	col := make(domain.Column, n)
	for i := 0; i < n; i++ {
		col[i] = int64(binary.LittleEndian.Uint64(block[i*8:]))
	}
	return col, nil
}
