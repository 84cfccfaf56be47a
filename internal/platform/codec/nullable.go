package codec

import (
	"encoding/json"

	"jonx/internal/domain"
)

// nullable<T> blocks carry {"nulls": [...], "values": ...} where values is
// the payload of T over the non-null subset. Binary-packed inner payloads
// are embedded as a base64 string; JSON-backed ones as a nested JSON value.

type nullableEncodePayload struct {
	Nulls  []bool `json:"nulls"`
	Values any    `json:"values"`
}

type nullableDecodePayload struct {
	Nulls  []bool          `json:"nulls"`
	Values json.RawMessage `json:"values"`
}

func (c *Codec) packNullable(values domain.Column, base domain.PhysicalType) ([]byte, error) {
	if base.IsNullable() {
		return nil, domain.EncodeError("nullable types do not nest")
	}
	nulls := make([]bool, len(values))
	dense := make(domain.Column, 0, len(values))
	for i, v := range values {
		if v == nil {
			nulls[i] = true
			continue
		}
		dense = append(dense, v)
	}
	inner, err := c.Pack(dense, base)
	if err != nil {
		return nil, err
	}
	payload := nullableEncodePayload{Nulls: nulls}
	if base.IsBinaryPacked() {
		payload.Values = inner // marshals to base64
	} else {
		payload.Values = json.RawMessage(inner)
	}
	return c.json.Encode(payload)
}

func (c *Codec) unpackNullable(block []byte, base domain.PhysicalType, n int) (domain.Column, error) {
	if base.IsNullable() {
		return nil, domain.DecodeError("nullable types do not nest")
	}
	var payload nullableDecodePayload
	if err := c.json.Decode(block, &payload); err != nil {
		return nil, domain.Wrap(err, domain.KindDecode, "malformed nullable payload")
	}
	if payload.Nulls == nil || payload.Values == nil {
		return nil, domain.DecodeError("malformed nullable payload: missing nulls or values")
	}
	if n >= 0 && len(payload.Nulls) != n {
		return nil, domain.DecodeError("nullable mask has %d entries, expected %d", len(payload.Nulls), n)
	}

	denseCount := 0
	for _, isNull := range payload.Nulls {
		if !isNull {
			denseCount++
		}
	}

	inner := []byte(payload.Values)
	if base.IsBinaryPacked() {
		var raw []byte
		if err := c.json.Decode(payload.Values, &raw); err != nil {
			return nil, domain.Wrap(err, domain.KindDecode, "malformed nullable payload: dense block is not base64")
		}
		if len(raw) != denseCount*base.Width() {
			return nil, domain.DecodeError("dense block is %d bytes, expected %d", len(raw), denseCount*base.Width())
		}
		inner = raw
	}
	dense, err := c.Unpack(inner, base, denseCount)
	if err != nil {
		return nil, err
	}

	col := make(domain.Column, len(payload.Nulls))
	next := 0
	for i, isNull := range payload.Nulls {
		if isNull {
			col[i] = nil
			continue
		}
		col[i] = dense[next]
		next++
	}
	return col, nil
}
