package compress

import (
	"fmt"

	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
)

const (
	// DefaultMaxRawSize is the default limit on the uncompressed payload size accepted by Decompress.
	DefaultMaxRawSize = 256 << 20
	// MaxRawSize is the largest limit Decompress accepts.
	MaxRawSize = 1<<31 - 1

	// lz4 emits at most 255 literal bytes per input byte plus a final token.
	lz4MaxRatio = 255
)

// Compressor compresses a complete table payload.
//
// The returned slice is owned by the caller and the input is not modified,
// except for NoOpCompressor which returns its input unchanged.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses Compressor.
//
// Decompress returns an error for corrupted input or input produced by a different algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// SizedDecompressor is implemented by codecs that can use a known uncompressed size
// to allocate their output once.
type SizedDecompressor interface {
	DecompressSized(data []byte, rawSize int) ([]byte, error)
}

// Codec combines both directions and reports its algorithm.
type Codec interface {
	Compressor
	Decompressor
	Type() format.CompressionType
}

// CompressionStats describes one compression run.
type CompressionStats struct {
	Algorithm      format.CompressionType
	OriginalSize   int64
	CompressedSize int64
}

// CompressionRatio returns compressed size / original size, or 0 for an empty input.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space saved as a percentage.
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the built-in Codec for the compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// CheckRawSize reports an errs.ErrRawSize error when the declared uncompressed size rawSize
// cannot belong to a payloadSize byte block compressed with t, or exceeds limit.
// A limit of zero or above MaxRawSize means MaxRawSize.
func CheckRawSize(t format.CompressionType, payloadSize, rawSize, limit int) error {
	if limit <= 0 || limit > MaxRawSize {
		limit = MaxRawSize
	}

	switch {
	case rawSize < 0 || rawSize > limit:
		return fmt.Errorf("%w: %d bytes, limit is %d", errs.ErrRawSize, rawSize, limit)
	case t == format.CompressionNone && rawSize != payloadSize:
		return fmt.Errorf("%w: %d bytes for an uncompressed payload of %d", errs.ErrRawSize, rawSize, payloadSize)
	case t == format.CompressionLZ4 && rawSize > payloadSize*lz4MaxRatio+lz4MaxRatio:
		return fmt.Errorf("%w: %d bytes from a %d byte lz4 block", errs.ErrRawSize, rawSize, payloadSize)
	}

	return nil
}

// Decompress decompresses data with codec, using the known raw size when the codec supports it.
// rawSize is checked with CheckRawSize against limit before anything is allocated, and the
// result must be exactly rawSize bytes long.
func Decompress(codec Codec, data []byte, rawSize, limit int) ([]byte, error) {
	if err := CheckRawSize(codec.Type(), len(data), rawSize, limit); err != nil {
		return nil, err
	}

	var (
		out []byte
		err error
	)

	if sized, ok := codec.(SizedDecompressor); ok {
		out, err = sized.DecompressSized(data, rawSize)
	} else {
		out, err = codec.Decompress(data)
	}
	if err != nil {
		return nil, err
	}

	if len(out) != rawSize {
		return nil, fmt.Errorf("%w: %s decompressed %d bytes, expected %d", errs.ErrRawSize, codec.Type(), len(out), rawSize)
	}

	return out, nil
}

// Stats compresses data with codec and reports the sizes.
func Stats(codec Codec, data []byte) (CompressionStats, error) {
	out, err := codec.Compress(data)
	if err != nil {
		return CompressionStats{}, err
	}

	return CompressionStats{
		Algorithm:      codec.Type(),
		OriginalSize:   int64(len(data)),
		CompressedSize: int64(len(out)),
	}, nil
}
