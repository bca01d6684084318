// Package compress provides the payload codecs for ktable envelopes.
//
// The table codec writes one flatbuffer payload per table and may compress it as a whole
// before framing it with the envelope header. The header records the compression type
// and the uncompressed size, so decoders pick the codec from the header and can size
// their output buffer exactly.
//
// Supported algorithms:
//   - None: the payload is stored as-is
//   - Zstd: best ratio, suited for string-heavy tables crossing a process boundary
//   - S2: balanced speed and ratio
//   - LZ4: fastest decompression
//
// All codecs are stateless values and safe for concurrent use. Zstd and LZ4 keep their
// heavyweight state in sync.Pools.
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(payload)
package compress
