package jonxfile

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"jonx/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeRecords(t *testing.T, records []domain.Record, fields []string) []byte {
	t.Helper()
	out, err := newWriter().EncodeWithOptions(records, EncodeOptions{Fields: fields})
	require.NoError(t, err)
	return out
}

func openBytes(t *testing.T, data []byte) *Reader {
	t.Helper()
	reader, err := newOpener().FromBytes(data, "test.jonx")
	require.NoError(t, err)
	return reader
}

func TestRoundTripSmallIntegers(t *testing.T) {
	records := []domain.Record{{"id": int64(1)}, {"id": int64(2)}, {"id": int64(255)}}
	reader := openBytes(t, encodeRecords(t, records, []string{"id"}))

	assert.Equal(t, domain.TypeUint8, reader.Types()["id"])

	decoded, err := reader.Records()
	require.NoError(t, err)
	assert.Equal(t, records, decoded)

	has, err := reader.HasIndex("id")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestRoundTripSignedIntegers(t *testing.T) {
	records := []domain.Record{{"x": int64(-1)}, {"x": int64(0)}, {"x": int64(127)}}
	reader := openBytes(t, encodeRecords(t, records, []string{"x"}))
	assert.Equal(t, domain.TypeInt8, reader.Types()["x"])
}

func TestFindMaxOnWideInteger(t *testing.T) {
	records := []domain.Record{{"x": int64(5000000000)}}
	reader := openBytes(t, encodeRecords(t, records, []string{"x"}))

	assert.Equal(t, domain.TypeUint64, reader.Types()["x"])
	value, err := reader.FindMax("x", true)
	require.NoError(t, err)
	assert.Equal(t, int64(5000000000), value)
}

func TestUUIDColumnHasNoIndex(t *testing.T) {
	records := []domain.Record{
		{"u": "550e8400-e29b-41d4-a716-446655440000"},
		{"u": "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
	}
	reader := openBytes(t, encodeRecords(t, records, []string{"u"}))

	assert.Equal(t, domain.TypeUUID, reader.Types()["u"])
	has, err := reader.HasIndex("u")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestEnumRoundTrip(t *testing.T) {
	records := []domain.Record{{"c": "A"}, {"c": "B"}, {"c": "A"}, {"c": "A"}}
	reader := openBytes(t, encodeRecords(t, records, []string{"c"}))

	assert.Equal(t, domain.TypeEnum, reader.Types()["c"])
	col, err := reader.GetColumn("c")
	require.NoError(t, err)
	assert.Equal(t, domain.Column{"A", "B", "A", "A"}, col)
}

func TestNullablePreservesNullPositions(t *testing.T) {
	records := []domain.Record{{"v": nil}, {"v": int64(1)}, {"v": int64(2)}}
	reader := openBytes(t, encodeRecords(t, records, []string{"v"}))

	assert.Equal(t, domain.Nullable(domain.TypeUint8), reader.Types()["v"])

	col, err := reader.GetColumn("v")
	require.NoError(t, err)
	assert.Equal(t, domain.Column{nil, int64(1), int64(2)}, col)

	has, err := reader.HasIndex("v")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMultiColumnRoundTripKeepsFieldOrder(t *testing.T) {
	records := []domain.Record{
		{"name": "ada", "age": int64(36), "active": true},
		{"name": "grace", "age": int64(85), "active": false},
	}
	fields := []string{"name", "age", "active"}
	reader := openBytes(t, encodeRecords(t, records, fields))

	assert.Equal(t, fields, reader.Fields())
	decoded, err := reader.Records()
	require.NoError(t, err)
	assert.Equal(t, records, decoded)
}

func TestGetColumnUnknownField(t *testing.T) {
	reader := openBytes(t, encodeRecords(t, []domain.Record{{"a": int64(1)}}, nil))
	_, err := reader.GetColumn("nope")
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestGetColumns(t *testing.T) {
	records := []domain.Record{{"a": int64(1), "b": "x"}}
	reader := openBytes(t, encodeRecords(t, records, []string{"a", "b"}))

	cols, err := reader.GetColumns([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, domain.Column{int64(1)}, cols["a"])
	assert.Equal(t, domain.Column{"x"}, cols["b"])
}

func TestExtremumEquivalenceIndexedVsScan(t *testing.T) {
	records := []domain.Record{
		{"n": int64(42), "d": "2024-12-30"},
		{"n": int64(-3), "d": "2023-01-15"},
		{"n": int64(7), "d": "2024-06-01"},
	}
	reader := openBytes(t, encodeRecords(t, records, []string{"n", "d"}))

	for _, field := range []string{"n", "d"} {
		indexed, err := reader.FindMin(field, true)
		require.NoError(t, err)
		scanned, err := reader.FindMin(field, false)
		require.NoError(t, err)
		assert.Equal(t, scanned, indexed, "min of %q", field)

		indexed, err = reader.FindMax(field, true)
		require.NoError(t, err)
		scanned, err = reader.FindMax(field, false)
		require.NoError(t, err)
		assert.Equal(t, scanned, indexed, "max of %q", field)
	}

	value, err := reader.FindMin("n", true)
	require.NoError(t, err)
	assert.Equal(t, int64(-3), value)
}

func TestFindMinOnStringsScans(t *testing.T) {
	records := []domain.Record{{"s": "pear"}, {"s": "apple"}, {"s": "plum"}}
	reader := openBytes(t, encodeRecords(t, records, []string{"s"}))

	value, err := reader.FindMin("s", true) // no index exists; falls back to scan
	require.NoError(t, err)
	assert.Equal(t, "apple", value)
}

func TestFindMinSkipsNulls(t *testing.T) {
	records := []domain.Record{{"v": nil}, {"v": int64(9)}, {"v": int64(3)}}
	reader := openBytes(t, encodeRecords(t, records, []string{"v"}))

	value, err := reader.FindMin("v", false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), value)
}

func TestFindMinAllNullErrors(t *testing.T) {
	records := []domain.Record{{"v": nil}, {"v": nil}}
	reader := openBytes(t, encodeRecords(t, records, []string{"v"}))

	_, err := reader.FindMin("v", false)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestSumAndAvgIntegers(t *testing.T) {
	records := []domain.Record{{"n": int64(1)}, {"n": int64(2)}, {"n": int64(255)}}
	reader := openBytes(t, encodeRecords(t, records, []string{"n"}))

	sum, err := reader.Sum("n")
	require.NoError(t, err)
	assert.Zero(t, big.NewInt(258).Cmp(sum.(*big.Int)))

	avg, err := reader.Avg("n")
	require.NoError(t, err)
	assert.InDelta(t, 86.0, avg, 1e-9)
}

func TestSumDoesNotOverflowInt64(t *testing.T) {
	records := []domain.Record{
		{"n": int64(9223372036854775807)},
		{"n": int64(9223372036854775807)},
	}
	reader := openBytes(t, encodeRecords(t, records, []string{"n"}))

	sum, err := reader.Sum("n")
	require.NoError(t, err)
	expected, _ := new(big.Int).SetString("18446744073709551614", 10)
	assert.Zero(t, expected.Cmp(sum.(*big.Int)))
}

func TestSumAndAvgFloats(t *testing.T) {
	records := []domain.Record{{"f": 1.5}, {"f": 2.5}}
	reader := openBytes(t, encodeRecords(t, records, []string{"f"}))

	sum, err := reader.Sum("f")
	require.NoError(t, err)
	assert.Equal(t, 4.0, sum)

	avg, err := reader.Avg("f")
	require.NoError(t, err)
	assert.Equal(t, 2.0, avg)
}

func TestSumRejectsNonNumeric(t *testing.T) {
	records := []domain.Record{{"s": "a"}}
	reader := openBytes(t, encodeRecords(t, records, []string{"s"}))

	_, err := reader.Sum("s")
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = reader.Avg("s")
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestSumRejectsNullableNumeric(t *testing.T) {
	records := []domain.Record{{"v": nil}, {"v": int64(1)}}
	reader := openBytes(t, encodeRecords(t, records, []string{"v"}))

	_, err := reader.Sum("v")
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestCount(t *testing.T) {
	records := []domain.Record{{"a": int64(1), "b": "x"}, {"a": int64(2), "b": "y"}}
	reader := openBytes(t, encodeRecords(t, records, []string{"a", "b"}))

	n, err := reader.Count("")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = reader.Count("b")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = reader.Count("nope")
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestInfo(t *testing.T) {
	records := []domain.Record{
		{"id": int64(1), "name": "a"},
		{"id": int64(2), "name": "b"},
	}
	data := encodeRecords(t, records, []string{"id", "name"})
	reader := openBytes(t, data)

	info, err := reader.Info()
	require.NoError(t, err)
	assert.Equal(t, "test.jonx", info.Path)
	assert.Equal(t, uint32(1), info.Version)
	assert.Equal(t, 2, info.NumRows)
	assert.Equal(t, 2, info.NumColumns)
	assert.Equal(t, []string{"id", "name"}, info.Fields)
	assert.Equal(t, []string{"id"}, info.Indexes)
	assert.Equal(t, int64(len(data)), info.FileSize)
}

func TestIsNumericPredicate(t *testing.T) {
	records := []domain.Record{{"n": int64(1), "s": "a"}}
	reader := openBytes(t, encodeRecords(t, records, []string{"n", "s"}))

	numeric, err := reader.IsNumeric("n")
	require.NoError(t, err)
	assert.True(t, numeric)

	numeric, err = reader.IsNumeric("s")
	require.NoError(t, err)
	assert.False(t, numeric)

	_, err = reader.IsNumeric("nope")
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestValidateHealthyFile(t *testing.T) {
	records := []domain.Record{{"id": int64(1), "name": "a"}}
	reader := openBytes(t, encodeRecords(t, records, []string{"id", "name"}))

	report := reader.Validate()
	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)
}

func TestOpenFromDisk(t *testing.T) {
	records := []domain.Record{{"id": int64(7)}}
	data := encodeRecords(t, records, []string{"id"})
	path := filepath.Join(t.TempDir(), "data.jonx")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	reader, err := newOpener().Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, reader.Path())

	decoded, err := reader.Records()
	require.NoError(t, err)
	assert.Equal(t, records, decoded)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := newOpener().Open(filepath.Join(t.TempDir(), "absent.jonx"))
	assert.True(t, domain.IsKind(err, domain.KindFile))
}

func TestCorruptedSignature(t *testing.T) {
	data := encodeRecords(t, []domain.Record{{"id": int64(1)}}, nil)
	data[0] = 'X'
	_, err := newOpener().FromBytes(data, "bad.jonx")
	assert.True(t, domain.IsKind(err, domain.KindDecode))
}

func TestUnsupportedVersion(t *testing.T) {
	data := encodeRecords(t, []domain.Record{{"id": int64(1)}}, nil)
	data[4] = 99
	_, err := newOpener().FromBytes(data, "bad.jonx")
	assert.True(t, domain.IsKind(err, domain.KindDecode))
}

func TestTruncatedFile(t *testing.T) {
	data := encodeRecords(t, []domain.Record{{"id": int64(1)}}, nil)
	for _, cut := range []int{0, 4, 7, 10, len(data) - 1} {
		_, err := newOpener().FromBytes(data[:cut], "bad.jonx")
		assert.True(t, domain.IsKind(err, domain.KindDecode), "cut at %d", cut)
	}
}

func TestCorruptedLengthPrefix(t *testing.T) {
	data := encodeRecords(t, []domain.Record{{"id": int64(1)}}, nil)
	// schema block length at offset 8 points past the end of the file
	data[8], data[9], data[10], data[11] = 0xFF, 0xFF, 0xFF, 0x7F
	_, err := newOpener().FromBytes(data, "bad.jonx")
	assert.True(t, domain.IsKind(err, domain.KindDecode))
}

func TestCorruptedColumnDoesNotPoisonOthers(t *testing.T) {
	records := []domain.Record{
		{"good": "a", "bad": int64(1)},
		{"good": "b", "bad": int64(2)},
	}
	data := encodeRecords(t, records, []string{"bad", "good"})

	// flip a few bytes inside the first column block so its zstd frame no
	// longer decompresses; the framing lengths stay intact
	schemaLen := int(uint32(data[8]) | uint32(data[9])<<8 | uint32(data[10])<<16 | uint32(data[11])<<24)
	colStart := 12 + schemaLen + 4
	for i := colStart + 4; i < colStart+8; i++ {
		data[i] ^= 0xFF
	}
	reader := openBytes(t, data)

	_, err := reader.GetColumn("bad")
	assert.True(t, domain.IsKind(err, domain.KindDecode))

	col, err := reader.GetColumn("good")
	require.NoError(t, err)
	assert.Equal(t, domain.Column{"a", "b"}, col)

	report := reader.Validate()
	assert.False(t, report.Valid)
	assert.NotEmpty(t, report.Errors)
}
