package section

import (
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
)

// TableFlag is the packed flag field at the start of the table header.
type TableFlag struct {
	// Options is a packed field for various options.
	// Bit 0 is endianness flag, 0 means little-endian, 1 means big-endian header fields.
	// Bit 1 is checksum flag, 1 means Checksum holds the xxHash64 of the uncompressed payload.
	// Bit 2 is schema flag, 1 means the payload embeds the spec+traits schema descriptor.
	// Bit 3 is reserved for future use, must be set to 0.
	// Bits 4-15 are magic number to identify the envelope format:
	//   - 0xEC10 (0b1110_1100_0001_0000): Table envelope v1
	Options uint16

	// Compression indicates the compression applied to the payload.
	Compression uint8

	// Version is the envelope format version.
	Version uint8
}

// NewTableFlag creates a TableFlag with default settings: little-endian, checksum and schema enabled,
// no compression.
func NewTableFlag() TableFlag {
	flag := TableFlag{
		Options:     MagicTableV1Opt,
		Compression: uint8(format.CompressionNone),
		Version:     FormatVersion,
	}
	flag.WithLittleEndian()
	flag.SetHasChecksum(true)
	flag.SetHasSchema(true)

	return flag
}

// IsLittleEndian returns whether the header fields are little-endian.
func (f TableFlag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// IsBigEndian returns whether the header fields are big-endian.
func (f TableFlag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian header fields.
func (f *TableFlag) WithLittleEndian() {
	f.Options &= ^uint16(EndiannessMask)
}

// WithBigEndian sets big-endian header fields.
func (f *TableFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// HasChecksum returns whether the header carries a payload checksum.
func (f TableFlag) HasChecksum() bool {
	return (f.Options & ChecksumMask) != 0
}

// SetHasChecksum enables or disables the payload checksum.
func (f *TableFlag) SetHasChecksum(enabled bool) {
	if enabled {
		f.Options |= ChecksumMask
	} else {
		f.Options &^= ChecksumMask
	}
}

// HasSchema returns whether the payload embeds the schema descriptor.
func (f TableFlag) HasSchema() bool {
	return (f.Options & SchemaMask) != 0
}

// SetHasSchema enables or disables the embedded schema descriptor.
func (f *TableFlag) SetHasSchema(enabled bool) {
	if enabled {
		f.Options |= SchemaMask
	} else {
		f.Options &^= SchemaMask
	}
}

// GetMagicNumber returns the magic number from the Options field.
func (f TableFlag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// SetCompression sets the payload compression type.
func (f *TableFlag) SetCompression(compression format.CompressionType) {
	f.Compression = uint8(compression)
}

// GetCompression returns the payload compression type.
func (f TableFlag) GetCompression() format.CompressionType {
	return format.CompressionType(f.Compression)
}

// Validate checks the magic number, reserved bits, version and compression type.
func (f TableFlag) Validate() error {
	if f.GetMagicNumber() != MagicTableV1Opt {
		return errs.ErrInvalidHeaderFlags
	}

	if (f.Options & ReservedBitsMask) != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	if f.Version != FormatVersion {
		return errs.ErrInvalidHeaderFlags
	}

	switch f.GetCompression() {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
		return nil
	default:
		return errs.ErrInvalidHeaderFlags
	}
}
