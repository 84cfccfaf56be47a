package domain

import "strings"

// PhysicalType is the on-disk encoding chosen for a column.
type PhysicalType string

const (
	TypeInt8  PhysicalType = "int8"
	TypeInt16 PhysicalType = "int16"
	TypeInt32 PhysicalType = "int32"
	TypeInt64 PhysicalType = "int64"

	TypeUint8  PhysicalType = "uint8"
	TypeUint16 PhysicalType = "uint16"
	TypeUint32 PhysicalType = "uint32"
	TypeUint64 PhysicalType = "uint64"

	TypeFloat16 PhysicalType = "float16"
	TypeFloat32 PhysicalType = "float32"
	TypeFloat64 PhysicalType = "float64"

	TypeBool PhysicalType = "bool"

	TypeDate        PhysicalType = "date"
	TypeDatetime    PhysicalType = "datetime"
	TypeTimestampMS PhysicalType = "timestamp_ms"

	TypeUUID       PhysicalType = "uuid"
	TypeEnum       PhysicalType = "enum"
	TypeStringDict PhysicalType = "string_dict"
	TypeStr        PhysicalType = "str"
	TypeBinary     PhysicalType = "binary"
	TypeJSON       PhysicalType = "json"
)

const nullablePrefix = "nullable<"

// SignedRange is one row of the signed integer width table used by inference.
type SignedRange struct {
	Type PhysicalType
	Lo   int64
	Hi   int64
}

// UnsignedRange is one row of the unsigned integer width table.
type UnsignedRange struct {
	Type PhysicalType
	Hi   uint64
}

var SignedRanges = []SignedRange{
	{TypeInt8, -128, 127},
	{TypeInt16, -32768, 32767},
	{TypeInt32, -2147483648, 2147483647},
	{TypeInt64, -9223372036854775808, 9223372036854775807},
}

var UnsignedRanges = []UnsignedRange{
	{TypeUint8, 255},
	{TypeUint16, 65535},
	{TypeUint32, 4294967295},
	{TypeUint64, 18446744073709551615},
}

var widths = map[PhysicalType]int{
	TypeInt8:  1,
	TypeInt16: 2,
	TypeInt32: 4,
	TypeInt64: 8,

	TypeUint8:  1,
	TypeUint16: 2,
	TypeUint32: 4,
	TypeUint64: 8,

	TypeFloat16: 2,
	TypeFloat32: 4,
	TypeFloat64: 8,

	TypeBool:        1,
	TypeTimestampMS: 8,
}

var knownTypes = map[PhysicalType]bool{
	TypeInt8: true, TypeInt16: true, TypeInt32: true, TypeInt64: true,
	TypeUint8: true, TypeUint16: true, TypeUint32: true, TypeUint64: true,
	TypeFloat16: true, TypeFloat32: true, TypeFloat64: true,
	TypeBool: true,
	TypeDate: true, TypeDatetime: true, TypeTimestampMS: true,
	TypeUUID: true, TypeEnum: true, TypeStringDict: true,
	TypeStr: true, TypeBinary: true, TypeJSON: true,
}

// Nullable wraps t in the nullable spelling used by the schema.
func Nullable(t PhysicalType) PhysicalType {
	return PhysicalType(nullablePrefix + string(t) + ">")
}

// IsNullable reports whether t is spelled nullable<...>.
func (t PhysicalType) IsNullable() bool {
	return strings.HasPrefix(string(t), nullablePrefix) && strings.HasSuffix(string(t), ">")
}

// Base strips one nullable<> wrapper; non-nullable types return themselves.
func (t PhysicalType) Base() PhysicalType {
	if !t.IsNullable() {
		return t
	}
	return PhysicalType(string(t)[len(nullablePrefix) : len(t)-1])
}

// Known reports whether t (or its base for nullable types) is a catalogue type.
func (t PhysicalType) Known() bool {
	return knownTypes[t.Base()]
}

func (t PhysicalType) IsInteger() bool {
	switch t {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64,
		TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		return true
	}
	return false
}

func (t PhysicalType) IsSignedInteger() bool {
	switch t {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		return true
	}
	return false
}

func (t PhysicalType) IsFloat() bool {
	switch t {
	case TypeFloat16, TypeFloat32, TypeFloat64:
		return true
	}
	return false
}

func (t PhysicalType) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

func (t PhysicalType) IsTemporal() bool {
	switch t {
	case TypeDate, TypeDatetime, TypeTimestampMS:
		return true
	}
	return false
}

// IsIndexable reports whether columns of this type carry a sorted ordinal
// index. Nullable types never do.
func (t PhysicalType) IsIndexable() bool {
	if t.IsNullable() {
		return false
	}
	return t.IsNumeric() || t.IsTemporal()
}

// IsBinaryPacked reports whether the payload is a fixed-width little-endian
// array rather than JSON text.
func (t PhysicalType) IsBinaryPacked() bool {
	_, ok := widths[t]
	return ok
}

// Width returns the fixed element width in bytes for binary-packed types and
// 0 for JSON-backed types.
func (t PhysicalType) Width() int {
	return widths[t]
}
