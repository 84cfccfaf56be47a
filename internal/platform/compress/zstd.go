package compress

import (
	"jonx/internal/domain"

	"github.com/DataDog/zstd"
)

// ZstdCompressor implements domain.Compressor over Zstandard. The level is
// passed per call; the file format pins it, not this package.
type ZstdCompressor struct{}

func NewZstdCompressor() *ZstdCompressor {
	return &ZstdCompressor{}
}

func (c *ZstdCompressor) Compress(data []byte, level int) ([]byte, error) {
	out, err := zstd.CompressLevel(nil, data, level)
	if err != nil {
		return nil, domain.Wrap(err, domain.KindEncode, "zstd compression failed")
	}
	return out, nil
}

// ZstdDecompressor implements domain.Decompressor over Zstandard.
type ZstdDecompressor struct{}

func NewZstdDecompressor() *ZstdDecompressor {
	return &ZstdDecompressor{}
}

func (d *ZstdDecompressor) Decompress(data []byte) ([]byte, error) {
	out, err := zstd.Decompress(nil, data)
	if err != nil {
		return nil, domain.Wrap(err, domain.KindDecode, "invalid zstd payload")
	}
	return out, nil
}
