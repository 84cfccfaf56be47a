// Package codec packs and unpacks column payloads for every physical type.
// Pack and Unpack are pure inverses: Unpack(Pack(v), t, len(v)) == v.
package codec

import "jonx/internal/domain"

// Codec dispatches on the physical type tag. JSON-backed payloads go through
// the injected JsonCodec; binary-packed payloads never touch JSON.
type Codec struct {
	json domain.JsonCodec
}

func New(json domain.JsonCodec) *Codec {
	return &Codec{json: json}
}

// Pack encodes one column into its uncompressed block payload.
func (c *Codec) Pack(values domain.Column, t domain.PhysicalType) ([]byte, error) {
	if t.IsNullable() {
		return c.packNullable(values, t.Base())
	}
	switch {
	case t.IsInteger():
		return packInteger(values, t)
	case t.IsFloat():
		return packFloat(values, t)
	}
	switch t {
	case domain.TypeBool:
		return packBool(values)
	case domain.TypeTimestampMS:
		return packTimestampMS(values)
	case domain.TypeDate, domain.TypeDatetime, domain.TypeUUID, domain.TypeStr:
		return c.packStringList(values, t)
	case domain.TypeBinary:
		return c.packBinary(values)
	case domain.TypeEnum, domain.TypeStringDict:
		return c.packDict(values, t)
	case domain.TypeJSON:
		return c.json.Encode([]any(values))
	}
	return nil, domain.EncodeError("unknown physical type %q", t)
}

// Unpack decodes a block payload back into a column. n is the expected
// length; pass -1 when the caller does not know it yet (the row count of a
// file is pinned by the first decoded column).
func (c *Codec) Unpack(block []byte, t domain.PhysicalType, n int) (domain.Column, error) {
	if t.IsNullable() {
		return c.unpackNullable(block, t.Base(), n)
	}
	var (
		col domain.Column
		err error
	)
	switch {
	case t.IsInteger():
		col, err = unpackInteger(block, t)
	case t.IsFloat():
		col, err = unpackFloat(block, t)
	default:
		switch t {
		case domain.TypeBool:
			col, err = unpackBool(block)
		case domain.TypeTimestampMS:
			col, err = unpackTimestampMS(block)
		case domain.TypeDate, domain.TypeDatetime, domain.TypeUUID, domain.TypeStr:
			col, err = c.unpackStringList(block)
		case domain.TypeBinary:
			col, err = c.unpackBinary(block)
		case domain.TypeEnum, domain.TypeStringDict:
			col, err = c.unpackDict(block, t)
		case domain.TypeJSON:
			col, err = c.unpackJSON(block)
		default:
			return nil, domain.DecodeError("unknown physical type %q", t)
		}
	}
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(col) != n {
		return nil, domain.DecodeError("block length mismatch: decoded %d values, expected %d", len(col), n)
	}
	return col, nil
}
