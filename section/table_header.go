package section

import (
	"fmt"
	"math"

	"github.com/arloliu/ktable/endian"
	"github.com/arloliu/ktable/errs"
)

// TableHeader is the 32-byte header in front of an encoded table payload.
type TableHeader struct {
	// Flag is a packed field for options, compression and the magic number (0xEC10).
	Flag TableFlag // 4 bytes, offset 0-3

	// ColumnCount is the number of wire columns, the row-key column included.
	ColumnCount uint32 // 4 bytes, offset 4-7
	// RowCount is the number of rows.
	RowCount uint32 // 4 bytes, offset 8-11
	// PayloadSize is the stored (possibly compressed) payload size following the header.
	PayloadSize uint32 // 4 bytes, offset 12-15
	// RawSize is the uncompressed payload size.
	RawSize uint32 // 4 bytes, offset 16-19
	// Checksum is the xxHash64 of the uncompressed payload when Flag.HasChecksum() is set.
	Checksum uint64 // 8 bytes, offset 20-27

	Reserved [4]byte // Reserved for future use, must be zero, offset 28-31
}

// NewTableHeader creates a header for a table with the given shape.
func NewTableHeader(columnCount, rowCount int) (*TableHeader, error) {
	if columnCount < 0 || rowCount < 0 || columnCount > math.MaxUint32 || rowCount > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d columns, %d rows", errs.ErrInvalidHeaderFields, columnCount, rowCount)
	}

	return &TableHeader{
		Flag:        NewTableFlag(),
		ColumnCount: uint32(columnCount), //nolint: gosec
		RowCount:    uint32(rowCount),    //nolint: gosec
	}, nil
}

// SetPayload records the payload sizes. Both must fit in 32 bits.
func (h *TableHeader) SetPayload(payloadSize, rawSize int) error {
	if payloadSize < 0 || rawSize < 0 || payloadSize > math.MaxUint32 || rawSize > math.MaxUint32 {
		return errs.ErrPayloadTooLarge
	}
	h.PayloadSize = uint32(payloadSize) //nolint: gosec
	h.RawSize = uint32(rawSize)         //nolint: gosec

	return nil
}

// Parse parses the header from a byte slice.
// It returns an error if the data is not exactly 32 bytes or if the flags are invalid.
func (h *TableHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// Options is always little-endian so the endianness bit can be read first.
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.Compression = data[2]
	h.Flag.Version = data[3]

	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.GetEndianEngine()

	h.ColumnCount = engine.Uint32(data[4:8])
	h.RowCount = engine.Uint32(data[8:12])
	h.PayloadSize = engine.Uint32(data[12:16])
	h.RawSize = engine.Uint32(data[16:20])
	h.Checksum = engine.Uint64(data[20:28])
	copy(h.Reserved[:], data[28:32])

	if h.Reserved != [4]byte{} {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}

// Bytes serializes the header into a new 32-byte slice.
func (h *TableHeader) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, HeaderSize))
}

// AppendTo appends the serialized header to dst.
func (h *TableHeader) AppendTo(dst []byte) []byte {
	engine := h.GetEndianEngine()

	dst = append(dst, byte(h.Flag.Options), byte(h.Flag.Options>>8), h.Flag.Compression, h.Flag.Version)
	dst = engine.AppendUint32(dst, h.ColumnCount)
	dst = engine.AppendUint32(dst, h.RowCount)
	dst = engine.AppendUint32(dst, h.PayloadSize)
	dst = engine.AppendUint32(dst, h.RawSize)
	dst = engine.AppendUint64(dst, h.Checksum)

	return append(dst, h.Reserved[:]...)
}

// GetEndianEngine returns the engine for the header fields based on the flags.
func (h *TableHeader) GetEndianEngine() endian.EndianEngine {
	return endian.Select(h.Flag.IsBigEndian())
}
