package codec

import "jonx/internal/domain"

// date, datetime, uuid and str blocks are the JSON text of the string list.

func (c *Codec) packStringList(values domain.Column, t domain.PhysicalType) ([]byte, error) {
	ss := make([]string, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, domain.EncodeError("row %d: value of type %T is not a string", i, v).
				WithDetail("type", string(t))
		}
		ss[i] = s
	}
	return c.json.Encode(ss)
}

func (c *Codec) unpackStringList(block []byte) (domain.Column, error) {
	var ss []string
	if err := c.json.Decode(block, &ss); err != nil {
		return nil, err
	}
	col := make(domain.Column, len(ss))
	for i, s := range ss {
		col[i] = s
	}
	return col, nil
}

// binary blocks are the JSON text of a base64 string list; []byte values
// marshal to and from base64 under the JSON data model.

func (c *Codec) packBinary(values domain.Column) ([]byte, error) {
	bs := make([][]byte, len(values))
	for i, v := range values {
		b, ok := v.([]byte)
		if !ok {
			return nil, domain.EncodeError("row %d: value of type %T is not binary", i, v)
		}
		bs[i] = b
	}
	return c.json.Encode(bs)
}

func (c *Codec) unpackBinary(block []byte) (domain.Column, error) {
	var bs [][]byte
	if err := c.json.Decode(block, &bs); err != nil {
		return nil, err
	}
	col := make(domain.Column, len(bs))
	for i, b := range bs {
		if b == nil {
			b = []byte{}
		}
		col[i] = b
	}
	return col, nil
}

// json fallback blocks carry the value list verbatim.

func (c *Codec) unpackJSON(block []byte) (domain.Column, error) {
	var vs []any
	if err := c.json.Decode(block, &vs); err != nil {
		return nil, err
	}
	col := make(domain.Column, len(vs))
	for i, v := range vs {
		col[i] = domain.Normalize(v)
	}
	return col, nil
}
