package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNullableSpelling(t *testing.T) {
	assert.Equal(t, PhysicalType("nullable<uint8>"), Nullable(TypeUint8))
	assert.True(t, Nullable(TypeUint8).IsNullable())
	assert.False(t, TypeUint8.IsNullable())
	assert.Equal(t, TypeUint8, Nullable(TypeUint8).Base())
	assert.Equal(t, TypeStr, TypeStr.Base())
}

func TestKnownTypes(t *testing.T) {
	assert.True(t, TypeInt32.Known())
	assert.True(t, Nullable(TypeJSON).Known())
	assert.False(t, PhysicalType("decimal").Known())
	assert.False(t, PhysicalType("nullable<decimal>").Known())
}

func TestClassificationPredicates(t *testing.T) {
	assert.True(t, TypeInt8.IsInteger())
	assert.True(t, TypeUint64.IsInteger())
	assert.False(t, TypeFloat32.IsInteger())

	assert.True(t, TypeFloat16.IsFloat())
	assert.False(t, TypeBool.IsFloat())

	assert.True(t, TypeInt16.IsNumeric())
	assert.True(t, TypeFloat64.IsNumeric())
	assert.False(t, TypeDate.IsNumeric())

	assert.True(t, TypeDate.IsTemporal())
	assert.True(t, TypeDatetime.IsTemporal())
	assert.True(t, TypeTimestampMS.IsTemporal())
	assert.False(t, TypeUUID.IsTemporal())
}

func TestIndexablePredicate(t *testing.T) {
	assert.True(t, TypeUint8.IsIndexable())
	assert.True(t, TypeFloat64.IsIndexable())
	assert.True(t, TypeDate.IsIndexable())
	assert.False(t, TypeEnum.IsIndexable())
	assert.False(t, TypeBool.IsIndexable())
	assert.False(t, TypeJSON.IsIndexable())

	// nullable columns never carry an index, numeric or not
	assert.False(t, Nullable(TypeInt32).IsIndexable())
	assert.False(t, Nullable(TypeDate).IsIndexable())
}

func TestWidths(t *testing.T) {
	assert.Equal(t, 1, TypeInt8.Width())
	assert.Equal(t, 2, TypeFloat16.Width())
	assert.Equal(t, 4, TypeUint32.Width())
	assert.Equal(t, 8, TypeTimestampMS.Width())
	assert.Equal(t, 1, TypeBool.Width())
	assert.Equal(t, 0, TypeStr.Width())

	assert.True(t, TypeBool.IsBinaryPacked())
	assert.True(t, TypeTimestampMS.IsBinaryPacked())
	assert.False(t, TypeDate.IsBinaryPacked())
	assert.False(t, TypeJSON.IsBinaryPacked())
}
