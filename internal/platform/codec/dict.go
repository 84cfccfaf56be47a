package codec

import "jonx/internal/domain"

// enum and string_dict blocks carry {"dict": [...], "idx": [...]}. The
// dictionary is built in first-seen order during encoding, which is
// observable in the file output and therefore part of the format.

type dictPayload struct {
	Dict []string `json:"dict"`
	Idx  []int    `json:"idx"`
}

func (c *Codec) packDict(values domain.Column, t domain.PhysicalType) ([]byte, error) {
	payload := dictPayload{Dict: []string{}, Idx: make([]int, len(values))}
	positions := make(map[string]int)
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, domain.EncodeError("row %d: value of type %T is not a string", i, v)
		}
		pos, seen := positions[s]
		if !seen {
			pos = len(payload.Dict)
			positions[s] = pos
			payload.Dict = append(payload.Dict, s)
		}
		payload.Idx[i] = pos
	}
	if t == domain.TypeEnum && len(payload.Dict) > 256 {
		return nil, domain.EncodeError("enum dictionary has %d distinct values, maximum is 256", len(payload.Dict))
	}
	return c.json.Encode(payload)
}

func (c *Codec) unpackDict(block []byte, t domain.PhysicalType) (domain.Column, error) {
	var payload dictPayload
	if err := c.json.Decode(block, &payload); err != nil {
		return nil, domain.Wrap(err, domain.KindDecode, "malformed dictionary payload")
	}
	if payload.Dict == nil || payload.Idx == nil {
		return nil, domain.DecodeError("malformed dictionary payload: missing dict or idx")
	}
	if t == domain.TypeEnum && len(payload.Dict) > 256 {
		return nil, domain.DecodeError("enum dictionary has %d distinct values, maximum is 256", len(payload.Dict))
	}
	col := make(domain.Column, len(payload.Idx))
	for i, idx := range payload.Idx {
		if idx < 0 || idx >= len(payload.Dict) {
			return nil, domain.DecodeError("row %d: dictionary index %d out of range [0, %d)", i, idx, len(payload.Dict))
		}
		col[i] = payload.Dict[idx]
	}
	return col, nil
}
