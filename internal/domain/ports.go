package domain

// Compressor compresses a block at the given level. The file format fixes
// the level; implementations must honour it for byte-identical output.
type Compressor interface {
	Compress(data []byte, level int) ([]byte, error)
}

// Decompressor reverses Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// JsonCodec encodes and decodes the JSON data model. The core never names a
// JSON library directly.
type JsonCodec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// ConversionEvent describes one completed encode or decode.
type ConversionEvent struct {
	Operation string `json:"operation"`
	Name      string `json:"name"`
	Rows      int    `json:"rows"`
	Columns   int    `json:"columns"`
	SizeBytes int64  `json:"size_bytes"`
}

// ConversionPublisher broadcasts conversion events to interested listeners.
type ConversionPublisher interface {
	PublishConversion(ev ConversionEvent) error
}
