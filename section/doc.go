// Package section defines the fixed-size envelope header in front of every encoded table.
//
// An encoded table is laid out as:
//
//	┌──────────────────────────────────────────────┐
//	│ Header (32 bytes, fixed)                     │
//	│  - Flag (4 bytes): magic, options, compression│
//	│  - ColumnCount, RowCount (8 bytes)           │
//	│  - PayloadSize, RawSize (8 bytes)            │
//	│  - Checksum (8 bytes, xxHash64 of raw payload)│
//	│  - Reserved (4 bytes)                        │
//	├──────────────────────────────────────────────┤
//	│ Payload (PayloadSize bytes)                  │
//	│  - flatbuffer table, possibly compressed     │
//	└──────────────────────────────────────────────┘
//
// The first two bytes are always little-endian so a reader can find the endianness bit
// before interpreting the remaining fields.
package section
