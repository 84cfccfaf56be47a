package jsoncodec

import (
	"testing"

	"jonx/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestDecodeRecordsKeepsFieldOrder(t *testing.T) {
	data := []byte(`[{"zebra":1,"apple":2,"mango":3},{"zebra":4,"apple":5,"mango":6}]`)

	records, fields, err := DecodeRecords(data)
	assert.NoError(t, err)
	assert.Equal(t, []string{"zebra", "apple", "mango"}, fields)
	assert.Len(t, records, 2)
}

func TestDecodeRecordsKeepsIntegerMagnitude(t *testing.T) {
	data := []byte(`[{"big":18446744073709551615,"small":1,"frac":2.5}]`)

	records, _, err := DecodeRecords(data)
	assert.NoError(t, err)

	columns := domain.Pivot(records, []string{"big", "small", "frac"})
	assert.Equal(t, uint64(18446744073709551615), columns["big"][0])
	assert.Equal(t, int64(1), columns["small"][0])
	assert.Equal(t, 2.5, columns["frac"][0])
}

func TestDecodeRecordsRejectsNonArray(t *testing.T) {
	_, _, err := DecodeRecords([]byte(`{"not":"a list"}`))
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestDecodeRecordsRejectsEmptyArray(t *testing.T) {
	_, _, err := DecodeRecords([]byte(`[]`))
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestFirstObjectKeysSkipsNestedValues(t *testing.T) {
	data := []byte(`[{"a":{"x":[1,2,{"y":3}]},"b":[{"c":1}],"d":7}]`)

	keys, err := FirstObjectKeys(data)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "d"}, keys)
}

func TestEncodeRecordsPreservesFieldOrder(t *testing.T) {
	records := []domain.Record{
		{"zebra": int64(1), "apple": "x"},
		{"zebra": int64(2), "apple": "y"},
	}
	out, err := EncodeRecords(records, []string{"zebra", "apple"})
	assert.NoError(t, err)
	assert.JSONEq(t, `[{"zebra":1,"apple":"x"},{"zebra":2,"apple":"y"}]`, string(out))
	assert.Equal(t, `[{"zebra":1,"apple":"x"},{"zebra":2,"apple":"y"}]`, string(out))
}

func TestGoccyCodecRoundTrip(t *testing.T) {
	codec := New()
	out, err := codec.Encode([]string{"a", "b"})
	assert.NoError(t, err)

	var back []string
	assert.NoError(t, codec.Decode(out, &back))
	assert.Equal(t, []string{"a", "b"}, back)
}

func TestGoccyDecodeError(t *testing.T) {
	codec := New()
	var out []string
	err := codec.Decode([]byte(`{"not":"a list"}`), &out)
	assert.True(t, domain.IsKind(err, domain.KindDecode))
}
