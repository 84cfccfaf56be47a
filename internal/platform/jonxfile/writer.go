// Package jonxfile frames and reads the JONX container: a "JONX" signature,
// a u32 version, then u32 length-prefixed zstd blocks for the schema, each
// column in schema order, and a trailing index section.
package jonxfile

import (
	"bytes"
	"encoding/binary"
	"errors"

	"jonx/internal/domain"
	"jonx/internal/platform/codec"
)

const (
	Signature = "JONX"
	Version   = uint32(1)

	// CompressionLevel is fixed by the format; changing it breaks the
	// byte-identical output guarantee.
	CompressionLevel = 7
)

// Writer materialises a record set into JONX file bytes.
type Writer struct {
	codec *codec.Codec
	json  domain.JsonCodec
	comp  domain.Compressor
}

func NewWriter(cdc *codec.Codec, json domain.JsonCodec, comp domain.Compressor) *Writer {
	return &Writer{codec: cdc, json: json, comp: comp}
}

// EncodeOptions tweaks an encoding run.
type EncodeOptions struct {
	// Fields fixes the schema field order. When empty, the sorted field
	// names of the first record are used; callers that parsed JSON input
	// should pass the document order instead.
	Fields []string

	// Types bypasses inference with an explicit field-to-type map. Every
	// schema field must be covered.
	Types map[string]domain.PhysicalType
}

// Encode infers a type per column and frames the file.
func (w *Writer) Encode(records []domain.Record) ([]byte, error) {
	return w.EncodeWithOptions(records, EncodeOptions{})
}

func (w *Writer) EncodeWithOptions(records []domain.Record, opts EncodeOptions) ([]byte, error) {
	if err := domain.ValidateRecords(records); err != nil {
		return nil, err
	}

	fields := opts.Fields
	if len(fields) == 0 {
		fields = domain.SortedFields(records[0])
	}
	if err := checkFieldCover(fields, records[0]); err != nil {
		return nil, err
	}
	columns := domain.Pivot(records, fields)

	types := make(map[string]domain.PhysicalType, len(fields))
	for _, f := range fields {
		if opts.Types != nil {
			t, ok := opts.Types[f]
			if !ok {
				return nil, domain.ValidationError("no type declared for field").WithField(f)
			}
			if !t.Known() {
				return nil, domain.ValidationError("unknown type %q", t).WithField(f)
			}
			types[f] = t
			continue
		}
		types[f] = domain.DetectType(columns[f])
	}

	compressedColumns := make(map[string][]byte, len(fields))
	for _, f := range fields {
		packed, err := w.codec.Pack(columns[f], types[f])
		if err != nil {
			return nil, fieldErr(err, f)
		}
		block, err := w.comp.Compress(packed, CompressionLevel)
		if err != nil {
			return nil, fieldErr(err, f)
		}
		compressedColumns[f] = block
	}

	compressedIndexes := make(map[string][]byte)
	for _, f := range fields {
		if !types[f].IsIndexable() {
			continue
		}
		perm, err := domain.BuildIndex(columns[f], types[f])
		if err != nil {
			return nil, fieldErr(err, f)
		}
		encoded, err := w.json.Encode(perm)
		if err != nil {
			return nil, fieldErr(err, f)
		}
		block, err := w.comp.Compress(encoded, CompressionLevel)
		if err != nil {
			return nil, fieldErr(err, f)
		}
		compressedIndexes[f] = block
	}

	schema := domain.Schema{Fields: fields, Types: types}
	schemaJSON, err := w.json.Encode(schema)
	if err != nil {
		return nil, err
	}
	schemaBlock, err := w.comp.Compress(schemaJSON, CompressionLevel)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(Signature)
	writeUint32(&buf, Version)
	writeBlock(&buf, schemaBlock)
	for _, f := range fields {
		writeBlock(&buf, compressedColumns[f])
	}
	writeUint32(&buf, uint32(len(compressedIndexes)))
	for _, f := range fields {
		idx, ok := compressedIndexes[f]
		if !ok {
			continue
		}
		writeBlock(&buf, []byte(f))
		writeBlock(&buf, idx)
	}
	return buf.Bytes(), nil
}

func checkFieldCover(fields []string, first domain.Record) error {
	if len(fields) != len(first) {
		return domain.ValidationError("field order names %d fields, records have %d", len(fields), len(first))
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f] {
			return domain.ValidationError("duplicate field in field order").WithField(f)
		}
		seen[f] = true
		if _, ok := first[f]; !ok {
			return domain.ValidationError("field order names a field records do not have").WithField(f)
		}
	}
	return nil
}

func fieldErr(err error, field string) error {
	var e *domain.Error
	if errors.As(err, &e) && e.Field == "" {
		e.Field = field
	}
	return err
}

func writeUint32(buf *bytes.Buffer, n uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], n)
	buf.Write(b[:])
}

func writeBlock(buf *bytes.Buffer, block []byte) {
	writeUint32(buf, uint32(len(block)))
	buf.Write(block)
}
