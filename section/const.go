package section

const (
	// Bit masks of TableFlag.Options
	EndiannessMask   = 0x0001 // Mask for header endianness bit (bit 0)
	ChecksumMask     = 0x0002 // Mask for payload checksum bit (bit 1)
	SchemaMask       = 0x0004 // Mask for embedded schema descriptor bit (bit 2)
	ReservedBitsMask = 0x0008 // Mask for reserved bit (bit 3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicTableV1Opt identifies version 1 of the table envelope.
	MagicTableV1Opt = 0xEC10

	// FormatVersion is the version byte written into every header.
	FormatVersion = 1
)

// offset and section sizes in the envelope
const (
	HeaderSize    = 32         // fixed header size in bytes
	PayloadOffset = HeaderSize // byte offset where the payload starts
)
