package domain

import (
	"bytes"
	"strconv"
	"strings"
)

// Column is an ordered sequence of decoded JSON values for a single field.
type Column []any

// Record is one decoded JSON object.
type Record map[string]any

// jsonNumber matches json.Number from any compatible JSON library.
type jsonNumber interface {
	Int64() (int64, error)
	Float64() (float64, error)
	String() string
}

// Normalize canonicalises a decoded value: integer literals become int64
// (uint64 when they exceed the int64 range), other numbers become float64,
// and native Go integer widths collapse to the same canonical forms. Values
// already in canonical form pass through.
func Normalize(v any) any {
	switch n := v.(type) {
	case jsonNumber:
		s := n.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return i
			}
			if u, err := strconv.ParseUint(s, 10, 64); err == nil {
				return u
			}
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return s
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case uint:
		return uint64(n)
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case float32:
		return float64(n)
	}
	return v
}

// CompareValues orders two canonical values of the same column by the natural
// order of their type: numerically for numbers, lexicographically for strings,
// false before true for booleans, bytewise for binary. Mixed int64/uint64
// columns compare correctly across the full uint64 range.
func CompareValues(a, b any) (int, error) {
	switch av := a.(type) {
	case int64, uint64, float64:
		return compareNumeric(a, b)
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, ValidationError("cannot compare string with %T", b)
		}
		return strings.Compare(av, bv), nil
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, ValidationError("cannot compare bool with %T", b)
		}
		switch {
		case av == bv:
			return 0, nil
		case !av:
			return -1, nil
		default:
			return 1, nil
		}
	case []byte:
		bv, ok := b.([]byte)
		if !ok {
			return 0, ValidationError("cannot compare binary with %T", b)
		}
		return bytes.Compare(av, bv), nil
	}
	return 0, ValidationError("values of type %T have no natural order", a)
}

func compareNumeric(a, b any) (int, error) {
	af, aIsFloat := a.(float64)
	bf, bIsFloat := b.(float64)
	if aIsFloat || bIsFloat {
		if !aIsFloat {
			var err error
			af, err = toFloat(a)
			if err != nil {
				return 0, err
			}
		}
		if !bIsFloat {
			var err error
			bf, err = toFloat(b)
			if err != nil {
				return 0, err
			}
		}
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		}
		return 0, nil
	}
	// Pure integer comparison; watch the sign before widening.
	ai, aSigned := a.(int64)
	bi, bSigned := b.(int64)
	au, aUnsigned := a.(uint64)
	bu, bUnsigned := b.(uint64)
	switch {
	case aSigned && bSigned:
		return compareInt64(ai, bi), nil
	case aUnsigned && bUnsigned:
		return compareUint64(au, bu), nil
	case aSigned && bUnsigned:
		if ai < 0 {
			return -1, nil
		}
		return compareUint64(uint64(ai), bu), nil
	case aUnsigned && bSigned:
		if bi < 0 {
			return 1, nil
		}
		return compareUint64(au, uint64(bi)), nil
	}
	return 0, ValidationError("cannot compare %T with %T", a, b)
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, ValidationError("value of type %T is not numeric", v)
}
