package compress

import (
	"fmt"

	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
	"github.com/klauspost/compress/s2"
)

type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses the input data using S2 block compression.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decompresses an S2 block. The block carries its own decoded length.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}

// DecompressSized decompresses an S2 block after checking that its own decoded length is rawSize.
func (c S2Compressor) DecompressSized(data []byte, rawSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, err
	}
	if n != rawSize {
		return nil, fmt.Errorf("%w: s2 block decodes to %d bytes, expected %d", errs.ErrRawSize, n, rawSize)
	}

	return s2.Decode(make([]byte, n), data)
}

func (c S2Compressor) Type() format.CompressionType {
	return format.CompressionS2
}
