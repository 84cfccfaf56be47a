package jsoncodec

import (
	"bytes"
	"fmt"
	"io"

	"jonx/internal/domain"

	gojson "github.com/goccy/go-json"
)

// Goccy implements domain.JsonCodec on top of goccy/go-json. Decoding keeps
// numbers as json.Number so integer magnitude and the int/float distinction
// survive parsing.
type Goccy struct{}

func New() *Goccy {
	return &Goccy{}
}

func (g *Goccy) Encode(v any) ([]byte, error) {
	out, err := gojson.Marshal(v)
	if err != nil {
		return nil, domain.Wrap(err, domain.KindEncode, "json encoding failed")
	}
	return out, nil
}

func (g *Goccy) Decode(data []byte, v any) error {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return domain.Wrap(err, domain.KindDecode, "invalid json payload")
	}
	return nil
}

// DecodeRecords parses a JSON array of objects into records plus the field
// order of the first object as it appears in the document. Values are left
// as decoded; Pivot normalises them later.
func DecodeRecords(data []byte) ([]domain.Record, []string, error) {
	var records []domain.Record
	codec := New()
	if err := codec.Decode(data, &records); err != nil {
		return nil, nil, domain.Wrap(err, domain.KindValidation, "input is not a json array of objects")
	}
	if records == nil {
		return nil, nil, domain.ValidationError("input is not a json array of objects")
	}
	if len(records) == 0 {
		return nil, nil, domain.ValidationError("record set cannot be empty")
	}
	fields, err := FirstObjectKeys(data)
	if err != nil {
		return nil, nil, err
	}
	return records, fields, nil
}

// FirstObjectKeys scans the leading object of a JSON array and returns its
// keys in document order. Go maps do not preserve that order, and the schema
// field list depends on it.
func FirstObjectKeys(data []byte) ([]string, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var keys []string
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, domain.Wrap(err, domain.KindValidation, "malformed leading object")
		}
		if d, ok := tok.(gojson.Delim); ok && d == '}' {
			return keys, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, domain.ValidationError("malformed leading object: unexpected token %v", tok)
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
}

func expectDelim(dec *gojson.Decoder, want gojson.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return domain.Wrap(err, domain.KindValidation, "input is not a json array of objects")
	}
	if d, ok := tok.(gojson.Delim); !ok || d != want {
		return domain.ValidationError("input is not a json array of objects: expected %q, got %v", fmt.Sprintf("%v", want), tok)
	}
	return nil
}

// skipValue consumes exactly one JSON value, descending through nested
// containers.
func skipValue(dec *gojson.Decoder) error {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return domain.ValidationError("malformed leading object: truncated value")
			}
			return domain.Wrap(err, domain.KindValidation, "malformed leading object")
		}
		if d, ok := tok.(gojson.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
		if depth == 0 {
			return nil
		}
	}
}

// EncodeRecords serialises records preserving the given field order; plain
// marshalling of Go maps would sort the keys instead.
func EncodeRecords(records []domain.Record, fields []string) ([]byte, error) {
	codec := New()
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, rec := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, f := range fields {
			if j > 0 {
				buf.WriteByte(',')
			}
			name, err := codec.Encode(f)
			if err != nil {
				return nil, err
			}
			buf.Write(name)
			buf.WriteByte(':')
			val, err := codec.Encode(rec[f])
			if err != nil {
				return nil, domain.Wrap(err, domain.KindEncode, "cannot serialise field %q", f)
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
