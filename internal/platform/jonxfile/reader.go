package jonxfile

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"os"
	"sync"

	"jonx/internal/domain"
	"jonx/internal/platform/codec"
)

// Reader parses the framing eagerly, keeps every block compressed, and
// decompresses columns and indexes lazily. Decoded columns are cached for
// the lifetime of the reader; a decode failure in one column leaves the
// others usable.
type Reader struct {
	path     string
	fileSize int64
	version  uint32
	schema   domain.Schema

	compressedColumns map[string][]byte
	compressedIndexes map[string][]byte

	json  domain.JsonCodec
	codec *codec.Codec
	dec   domain.Decompressor

	mu      sync.Mutex
	columns map[string]domain.Column
	indexes map[string][]uint32
	numRows int // -1 until the first column is decoded
}

// Opener builds readers with a fixed set of collaborators.
type Opener struct {
	json  domain.JsonCodec
	codec *codec.Codec
	dec   domain.Decompressor
}

func NewOpener(json domain.JsonCodec, cdc *codec.Codec, dec domain.Decompressor) *Opener {
	return &Opener{json: json, codec: cdc, dec: dec}
}

// Open reads and parses a JONX file from disk.
func (o *Opener) Open(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.Wrap(err, domain.KindFile, "file does not exist: %s", path)
		}
		return nil, domain.Wrap(err, domain.KindFile, "cannot read %s", path)
	}
	return o.FromBytes(data, path)
}

// FromBytes parses a JONX file already held in memory.
func (o *Opener) FromBytes(data []byte, path string) (*Reader, error) {
	r := &Reader{
		path:              path,
		fileSize:          int64(len(data)),
		compressedColumns: make(map[string][]byte),
		compressedIndexes: make(map[string][]byte),
		json:              o.json,
		codec:             o.codec,
		dec:               o.dec,
		columns:           make(map[string]domain.Column),
		indexes:           make(map[string][]uint32),
		numRows:           -1,
	}
	if err := r.parse(data); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) parse(data []byte) error {
	cur := &cursor{data: data}

	sig, err := cur.take(4, "signature")
	if err != nil {
		return err
	}
	if string(sig) != Signature {
		return domain.DecodeError("invalid signature %x, expected %q", sig, Signature)
	}
	version, err := cur.uint32("version")
	if err != nil {
		return err
	}
	if version != Version {
		return domain.DecodeError("unsupported version %d", version)
	}
	r.version = version

	schemaBlock, err := cur.block("schema")
	if err != nil {
		return err
	}
	schemaJSON, err := r.dec.Decompress(schemaBlock)
	if err != nil {
		return domain.Wrap(err, domain.KindDecode, "cannot decompress schema block")
	}
	if err := r.json.Decode(schemaJSON, &r.schema); err != nil {
		return domain.Wrap(err, domain.KindDecode, "malformed schema json")
	}
	if len(r.schema.Fields) == 0 {
		return domain.DecodeError("schema has no fields")
	}
	for _, f := range r.schema.Fields {
		if _, ok := r.schema.Types[f]; !ok {
			return domain.DecodeError("schema field has no declared type").WithField(f)
		}
	}

	for _, f := range r.schema.Fields {
		block, err := cur.block(fmt.Sprintf("column %q", f))
		if err != nil {
			return err
		}
		r.compressedColumns[f] = block
	}

	count, err := cur.uint32("index count")
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		name, err := cur.block(fmt.Sprintf("index %d name", i))
		if err != nil {
			return err
		}
		block, err := cur.block(fmt.Sprintf("index %q", name))
		if err != nil {
			return err
		}
		r.compressedIndexes[string(name)] = block
	}
	return nil
}

type cursor struct {
	data   []byte
	offset int
}

func (c *cursor) take(n int, what string) ([]byte, error) {
	if c.offset+n > len(c.data) {
		return nil, domain.DecodeError("truncated file: cannot read %s at offset %d", what, c.offset)
	}
	b := c.data[c.offset : c.offset+n]
	c.offset += n
	return b, nil
}

func (c *cursor) uint32(what string) (uint32, error) {
	b, err := c.take(4, what)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) block(what string) ([]byte, error) {
	n, err := c.uint32(what + " length")
	if err != nil {
		return nil, err
	}
	return c.take(int(n), what)
}

// Path returns the file path the reader was opened from.
func (r *Reader) Path() string {
	return r.path
}

// Fields returns the schema field order.
func (r *Reader) Fields() []string {
	return r.schema.Fields
}

// Types returns the field-to-type map.
func (r *Reader) Types() map[string]domain.PhysicalType {
	return r.schema.Types
}

// Schema returns the parsed schema.
func (r *Reader) Schema() domain.Schema {
	return r.schema
}

// GetColumn decompresses and decodes one column, caching the result.
func (r *Reader) GetColumn(field string) (domain.Column, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.column(field)
}

// column is GetColumn without locking; callers hold r.mu.
func (r *Reader) column(field string) (domain.Column, error) {
	if col, ok := r.columns[field]; ok {
		return col, nil
	}
	t, ok := r.schema.Type(field)
	if !ok {
		return nil, domain.ValidationError("unknown field").WithField(field)
	}
	block, ok := r.compressedColumns[field]
	if !ok {
		return nil, domain.DecodeError("no column block").WithField(field)
	}
	packed, err := r.dec.Decompress(block)
	if err != nil {
		return nil, fieldErr(domain.Wrap(err, domain.KindDecode, "cannot decompress column"), field)
	}
	col, err := r.codec.Unpack(packed, t, r.numRows)
	if err != nil {
		return nil, fieldErr(err, field)
	}
	if r.numRows < 0 {
		r.numRows = len(col)
	}
	r.columns[field] = col
	return col, nil
}

// GetColumns returns the requested columns by name.
func (r *Reader) GetColumns(fields []string) (map[string]domain.Column, error) {
	out := make(map[string]domain.Column, len(fields))
	for _, f := range fields {
		col, err := r.GetColumn(f)
		if err != nil {
			return nil, err
		}
		out[f] = col
	}
	return out, nil
}

// Records reassembles the full record set in schema field order.
func (r *Reader) Records() ([]domain.Record, error) {
	cols, err := r.GetColumns(r.schema.Fields)
	if err != nil {
		return nil, err
	}
	n, err := r.Rows()
	if err != nil {
		return nil, err
	}
	records := make([]domain.Record, n)
	for i := 0; i < n; i++ {
		rec := make(domain.Record, len(r.schema.Fields))
		for _, f := range r.schema.Fields {
			rec[f] = cols[f][i]
		}
		records[i] = rec
	}
	return records, nil
}

// Rows returns N. The count is pinned by the first decoded column.
func (r *Reader) Rows() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows()
}

func (r *Reader) rows() (int, error) {
	if r.numRows >= 0 {
		return r.numRows, nil
	}
	if _, err := r.column(r.schema.Fields[0]); err != nil {
		return 0, err
	}
	return r.numRows, nil
}

// index decompresses and decodes the sorted ordinal permutation for a field.
func (r *Reader) index(field string, n int) ([]uint32, error) {
	if perm, ok := r.indexes[field]; ok {
		return perm, nil
	}
	block, ok := r.compressedIndexes[field]
	if !ok {
		return nil, domain.ValidationError("no index").WithField(field)
	}
	encoded, err := r.dec.Decompress(block)
	if err != nil {
		return nil, fieldErr(domain.Wrap(err, domain.KindDecode, "cannot decompress index"), field)
	}
	var perm []uint32
	if err := r.json.Decode(encoded, &perm); err != nil {
		return nil, fieldErr(domain.Wrap(err, domain.KindDecode, "malformed index payload"), field)
	}
	for _, p := range perm {
		if int(p) >= n {
			return nil, domain.DecodeError("index entry %d out of range [0, %d)", p, n).WithField(field)
		}
	}
	if len(perm) != n {
		return nil, domain.DecodeError("index has %d entries, expected %d", len(perm), n).WithField(field)
	}
	r.indexes[field] = perm
	return perm, nil
}

// HasIndex reports whether the file carries a sorted ordinal index for field.
func (r *Reader) HasIndex(field string) (bool, error) {
	if !r.schema.HasField(field) {
		return false, domain.ValidationError("unknown field").WithField(field)
	}
	_, ok := r.compressedIndexes[field]
	return ok, nil
}

// IsNumeric reports whether field holds a numeric physical type. Nullable
// wrappers are not numeric for aggregation purposes.
func (r *Reader) IsNumeric(field string) (bool, error) {
	t, ok := r.schema.Type(field)
	if !ok {
		return false, domain.ValidationError("unknown field").WithField(field)
	}
	return t.IsNumeric(), nil
}

// FindMin returns the least value of the column. With useIndex and an index
// present, the answer comes from one index decompression; otherwise from a
// linear scan. Nullable columns skip nulls; an all-null column is an error.
func (r *Reader) FindMin(field string, useIndex bool) (any, error) {
	return r.extremum(field, useIndex, false)
}

// FindMax is FindMin's mirror.
func (r *Reader) FindMax(field string, useIndex bool) (any, error) {
	return r.extremum(field, useIndex, true)
}

func (r *Reader) extremum(field string, useIndex, max bool) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.schema.Type(field)
	if !ok {
		return nil, domain.ValidationError("unknown field").WithField(field)
	}
	col, err := r.column(field)
	if err != nil {
		return nil, err
	}
	if len(col) == 0 {
		return nil, domain.ValidationError("column is empty").WithField(field)
	}

	if useIndex {
		if _, indexed := r.compressedIndexes[field]; indexed {
			perm, err := r.index(field, len(col))
			if err != nil {
				return nil, err
			}
			if max {
				// step back over tied values so the earliest position wins,
				// as on the scan path
				k := len(perm) - 1
				for k > 0 {
					c, err := domain.CompareValues(col[perm[k-1]], col[perm[k]])
					if err != nil || c != 0 {
						break
					}
					k--
				}
				return col[perm[k]], nil
			}
			return col[perm[0]], nil
		}
	}

	var best, bestKey any
	for _, v := range col {
		if v == nil {
			continue
		}
		key := v
		if t.Base() == domain.TypeJSON {
			// json values order by their serialised text
			encoded, err := r.json.Encode(v)
			if err != nil {
				return nil, fieldErr(err, field)
			}
			key = string(encoded)
		}
		if bestKey == nil {
			best, bestKey = v, key
			continue
		}
		cmp, err := domain.CompareValues(key, bestKey)
		if err != nil {
			return nil, fieldErr(err, field)
		}
		if (max && cmp > 0) || (!max && cmp < 0) {
			best, bestKey = v, key
		}
	}
	if bestKey == nil {
		return nil, domain.ValidationError("column has no non-null values").WithField(field)
	}
	return best, nil
}

// Sum adds up a numeric column: integers into a big.Int so the total never
// overflows, floats into a float64.
func (r *Reader) Sum(field string) (any, error) {
	t, col, err := r.numericColumn(field)
	if err != nil {
		return nil, err
	}
	if t.IsInteger() {
		total := new(big.Int)
		tmp := new(big.Int)
		for _, v := range col {
			switch n := v.(type) {
			case int64:
				total.Add(total, tmp.SetInt64(n))
			case uint64:
				total.Add(total, tmp.SetUint64(n))
			default:
				return nil, domain.DecodeError("integer column holds %T value", v).WithField(field)
			}
		}
		return total, nil
	}
	var total float64
	for _, v := range col {
		switch n := v.(type) {
		case float64:
			total += n
		case int64:
			total += float64(n)
		case uint64:
			total += float64(n)
		default:
			return nil, domain.DecodeError("float column holds %T value", v).WithField(field)
		}
	}
	return total, nil
}

// Avg returns Sum divided by the row count.
func (r *Reader) Avg(field string) (float64, error) {
	sum, err := r.Sum(field)
	if err != nil {
		return 0, err
	}
	n, err := r.Rows()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, domain.ValidationError("column is empty").WithField(field)
	}
	switch s := sum.(type) {
	case *big.Int:
		q := new(big.Float).SetInt(s)
		q.Quo(q, big.NewFloat(float64(n)))
		f, _ := q.Float64()
		return f, nil
	case float64:
		return s / float64(n), nil
	}
	return 0, domain.ValidationError("unexpected sum type %T", sum)
}

func (r *Reader) numericColumn(field string) (domain.PhysicalType, domain.Column, error) {
	t, ok := r.schema.Type(field)
	if !ok {
		return "", nil, domain.ValidationError("unknown field").WithField(field)
	}
	if !t.IsNumeric() {
		return "", nil, domain.ValidationError("type %q is not numeric", t).WithField(field)
	}
	col, err := r.GetColumn(field)
	if err != nil {
		return "", nil, err
	}
	if len(col) == 0 {
		return "", nil, domain.ValidationError("column is empty").WithField(field)
	}
	return t, col, nil
}

// Count returns N, or the length of the named column (equal by invariant).
func (r *Reader) Count(field string) (int, error) {
	if field != "" && !r.schema.HasField(field) {
		return 0, domain.ValidationError("unknown field").WithField(field)
	}
	return r.Rows()
}

// Info summarises the file.
type Info struct {
	Path       string                         `json:"path"`
	Version    uint32                         `json:"version"`
	NumRows    int                            `json:"num_rows"`
	NumColumns int                            `json:"num_columns"`
	Fields     []string                       `json:"fields"`
	Types      map[string]domain.PhysicalType `json:"types"`
	Indexes    []string                       `json:"indexes"`
	FileSize   int64                          `json:"file_size"`
}

func (r *Reader) Info() (Info, error) {
	n, err := r.Rows()
	if err != nil {
		return Info{}, err
	}
	indexes := make([]string, 0, len(r.compressedIndexes))
	for _, f := range r.schema.Fields {
		if _, ok := r.compressedIndexes[f]; ok {
			indexes = append(indexes, f)
		}
	}
	return Info{
		Path:       r.path,
		Version:    r.version,
		NumRows:    n,
		NumColumns: len(r.schema.Fields),
		Fields:     r.schema.Fields,
		Types:      r.schema.Types,
		Indexes:    indexes,
		FileSize:   r.fileSize,
	}, nil
}

// CheckSchema verifies the schema's internal consistency.
func (r *Reader) CheckSchema() domain.CheckReport {
	return r.schema.Check()
}

// Validate runs CheckSchema, then decodes every column and index block,
// verifying lengths and that each index is a permutation of [0, N). It
// aggregates failures instead of stopping at the first.
func (r *Reader) Validate() domain.CheckReport {
	report := r.CheckSchema()

	var n int
	nKnown := false
	for _, f := range r.schema.Fields {
		col, err := r.GetColumn(f)
		if err != nil {
			report.Valid = false
			report.Errors = append(report.Errors, fmt.Sprintf("column %q: %v", f, err))
			continue
		}
		if !nKnown {
			n = len(col)
			nKnown = true
		} else if len(col) != n {
			report.Valid = false
			report.Errors = append(report.Errors,
				fmt.Sprintf("column %q has %d values, expected %d", f, len(col), n))
		}
	}

	for _, f := range r.schema.Fields {
		if _, ok := r.compressedIndexes[f]; !ok {
			continue
		}
		r.mu.Lock()
		perm, err := r.index(f, n)
		r.mu.Unlock()
		if err != nil {
			report.Valid = false
			report.Errors = append(report.Errors, fmt.Sprintf("index %q: %v", f, err))
			continue
		}
		if !domain.IsPermutation(perm, n) {
			report.Valid = false
			report.Errors = append(report.Errors,
				fmt.Sprintf("index %q is not a permutation of [0, %d)", f, n))
		}
	}

	for f := range r.compressedIndexes {
		if !r.schema.HasField(f) {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("index %q does not match any schema field", f))
		}
	}
	return report
}
