package domain

import (
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DetectType scans one column and picks the most compact physical encoding.
// Any null in the column wraps the result in nullable<...>; an all-null
// column yields nullable<json>. Detection is deterministic for a given
// input order.
func DetectType(values Column) PhysicalType {
	nullable := false
	clean := make(Column, 0, len(values))
	for _, v := range values {
		if v == nil {
			nullable = true
			continue
		}
		clean = append(clean, v)
	}
	if len(clean) == 0 {
		return Nullable(TypeJSON)
	}

	t := detectClean(clean)
	if nullable {
		return Nullable(t)
	}
	return t
}

func detectClean(clean Column) PhysicalType {
	if allOf(clean, isBool) {
		return TypeBool
	}
	if allOf(clean, isInt) {
		return detectIntegerType(clean)
	}
	if allOf(clean, isNumber) {
		return detectFloatType(clean)
	}
	if allOf(clean, isBytes) {
		return TypeBinary
	}
	if allOf(clean, isString) {
		return detectStringType(clean)
	}
	return TypeJSON
}

func allOf(values Column, pred func(any) bool) bool {
	for _, v := range values {
		if !pred(v) {
			return false
		}
	}
	return true
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

func isInt(v any) bool {
	switch v.(type) {
	case int64, uint64:
		return true
	}
	return false
}

func isNumber(v any) bool {
	switch v.(type) {
	case int64, uint64, float64:
		return true
	}
	return false
}

func isBytes(v any) bool {
	_, ok := v.([]byte)
	return ok
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

// detectIntegerType picks the narrowest integer kind covering [lo, hi];
// unsigned when no value is negative. A range that exceeds int64 while
// containing negatives falls back to int64 and fails later at pack time.
func detectIntegerType(values Column) PhysicalType {
	var (
		negSeen bool
		minNeg  int64
		maxPos  uint64
	)
	for _, v := range values {
		switch n := v.(type) {
		case int64:
			if n < 0 {
				if !negSeen || n < minNeg {
					minNeg = n
					negSeen = true
				}
			} else if uint64(n) > maxPos {
				maxPos = uint64(n)
			}
		case uint64:
			if n > maxPos {
				maxPos = n
			}
		}
	}

	if !negSeen {
		for _, r := range UnsignedRanges {
			if maxPos <= r.Hi {
				return r.Type
			}
		}
		return TypeUint64
	}
	for _, r := range SignedRanges {
		if minNeg >= r.Lo && maxPos <= uint64(math.MaxInt64) && int64(maxPos) <= r.Hi {
			return r.Type
		}
	}
	return TypeInt64
}

const float16Max = 65504

// detectFloatType picks the narrowest float width. Beyond the magnitude and
// three-decimal heuristics, a width is only chosen when every value is
// exactly representable in it, so decoding reproduces the input bit for bit.
func detectFloatType(values Column) PhysicalType {
	fits16 := true
	fits32 := true
	for _, v := range values {
		f, err := toFloat(v)
		if err != nil {
			return TypeFloat64
		}
		if fits16 && !fitsFloat16(f) {
			fits16 = false
		}
		if fits32 && !fitsFloat32(f) {
			fits32 = false
		}
		if !fits16 && !fits32 {
			return TypeFloat64
		}
	}
	if fits16 {
		return TypeFloat16
	}
	if fits32 {
		return TypeFloat32
	}
	return TypeFloat64
}

func fitsFloat16(f float64) bool {
	if !(f >= -float16Max && f <= float16Max) {
		return false
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 3, 64), 64)
	if err != nil || rounded != f {
		return false
	}
	return Float16ToFloat64(Float16FromFloat64(f)) == f
}

func fitsFloat32(f float64) bool {
	if math.Abs(f) > math.MaxFloat32 {
		return false
	}
	return float64(float32(f)) == f
}

// enumMaxCardinality bounds dictionary size for the enum encoding; the index
// must fit in one byte's worth of distinct values.
const enumMaxCardinality = 256

// stringDictMaxRatio is the distinct-to-total ratio above which dictionary
// encoding stops paying off.
const stringDictMaxRatio = 0.30

func detectStringType(values Column) PhysicalType {
	unique := make(map[string]struct{}, len(values))
	for _, v := range values {
		unique[v.(string)] = struct{}{}
	}

	allUUID, allDate, allDatetime := true, true, true
	for s := range unique {
		if allUUID && !IsUUID(s) {
			allUUID = false
		}
		if allDate && !IsDate(s) {
			allDate = false
		}
		if allDatetime && !IsDatetime(s) {
			allDatetime = false
		}
		if !allUUID && !allDate && !allDatetime {
			break
		}
	}
	switch {
	case allUUID:
		return TypeUUID
	case allDate:
		return TypeDate
	case allDatetime:
		return TypeDatetime
	}

	if len(unique) <= enumMaxCardinality {
		return TypeEnum
	}
	if float64(len(unique)) <= float64(len(values))*stringDictMaxRatio {
		return TypeStringDict
	}
	return TypeStr
}

// IsUUID reports whether s is a canonical 8-4-4-4-12 hyphenated UUID.
func IsUUID(s string) bool {
	if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// IsDate reports whether s is an ISO 8601 calendar date (YYYY-MM-DD).
func IsDate(s string) bool {
	if len(s) != 10 {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

var datetimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z07:00",
}

// IsDatetime reports whether s is an ISO 8601 datetime with a time component
// and an optional fraction and offset.
func IsDatetime(s string) bool {
	if len(s) < 19 {
		return false
	}
	for _, layout := range datetimeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
