package format

import "fmt"

type (
	ColumnType      int32
	Kind            uint8
	Cardinality     uint8
	CompressionType uint8
	DictKeyType     uint8
)

// Column type tags. The numeric codes are part of the wire format and must not change.
const (
	ColumnBoolean     ColumnType = 1
	ColumnBooleanList ColumnType = 2
	ColumnBooleanSet  ColumnType = 3
	ColumnInteger     ColumnType = 4
	ColumnIntegerList ColumnType = 5
	ColumnIntegerSet  ColumnType = 6
	ColumnLong        ColumnType = 7
	ColumnLongList    ColumnType = 8
	ColumnLongSet     ColumnType = 9
	ColumnDouble      ColumnType = 10
	ColumnDoubleList  ColumnType = 11
	ColumnDoubleSet   ColumnType = 12
	ColumnString      ColumnType = 13
	ColumnStringList  ColumnType = 14
	ColumnStringSet   ColumnType = 15
	ColumnBytes       ColumnType = 16
	ColumnBytesList   ColumnType = 17
	ColumnBytesSet    ColumnType = 18

	ColumnStruct     ColumnType = 19 // ColumnStruct holds one child column per field.
	ColumnVoid       ColumnType = 20 // ColumnVoid carries only a row count.
	ColumnNestedList ColumnType = 21 // ColumnNestedList is a list of non-primitive elements (offsets + child column).
)

const (
	KindBoolean Kind = 1
	KindInteger Kind = 2
	KindLong    Kind = 3
	KindDouble  Kind = 4
	KindString  Kind = 5
	KindBytes   Kind = 6
)

const (
	Scalar Cardinality = 0
	List   Cardinality = 1
	Set    Cardinality = 2
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

const (
	DictKeyNone DictKeyType = 0
	DictKeyByte DictKeyType = 1
	DictKeyInt  DictKeyType = 2
	DictKeyLong DictKeyType = 3
)

// kind rows of the tag matrix, in tag order.
var kindBase = map[Kind]ColumnType{
	KindBoolean: ColumnBoolean,
	KindInteger: ColumnInteger,
	KindLong:    ColumnLong,
	KindDouble:  ColumnDouble,
	KindString:  ColumnString,
	KindBytes:   ColumnBytes,
}

// NewColumnType returns the tag for the given kind and cardinality.
func NewColumnType(kind Kind, card Cardinality) (ColumnType, error) {
	base, ok := kindBase[kind]
	if !ok || card > Set {
		return 0, fmt.Errorf("invalid column kind %s with cardinality %s", kind, card)
	}

	return base + ColumnType(card), nil
}

// IsPrimitiveMatrix reports whether t is one of the 18 kind x cardinality tags.
func (t ColumnType) IsPrimitiveMatrix() bool {
	return t >= ColumnBoolean && t <= ColumnBytesSet
}

// IsValid reports whether t is a known column type tag.
func (t ColumnType) IsValid() bool {
	return t >= ColumnBoolean && t <= ColumnNestedList
}

// Kind returns the storage kind of a matrix tag, or 0 for STRUCT, VOID and NESTED_LIST.
func (t ColumnType) Kind() Kind {
	if !t.IsPrimitiveMatrix() {
		return 0
	}

	return Kind((int32(t)-1)/3 + 1)
}

// Cardinality returns the cardinality of a matrix tag. Non-matrix tags report Scalar.
func (t ColumnType) Cardinality() Cardinality {
	if !t.IsPrimitiveMatrix() {
		return Scalar
	}

	return Cardinality((int32(t) - 1) % 3)
}

func (t ColumnType) String() string {
	switch t {
	case ColumnStruct:
		return "STRUCT"
	case ColumnVoid:
		return "VOID"
	case ColumnNestedList:
		return "NESTED_LIST"
	}

	if !t.IsPrimitiveMatrix() {
		return fmt.Sprintf("ColumnType(%d)", int32(t))
	}

	name := t.Kind().String()
	switch t.Cardinality() {
	case List:
		return name + "_LIST"
	case Set:
		return name + "_SET"
	default:
		return name
	}
}

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "BOOLEAN"
	case KindInteger:
		return "INTEGER"
	case KindLong:
		return "LONG"
	case KindDouble:
		return "DOUBLE"
	case KindString:
		return "STRING"
	case KindBytes:
		return "BYTES"
	default:
		return "Unknown"
	}
}

func (c Cardinality) String() string {
	switch c {
	case Scalar:
		return "Scalar"
	case List:
		return "List"
	case Set:
		return "Set"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType parses a case-sensitive lower-case compression name ("none", "zstd", "s2", "lz4").
func ParseCompressionType(name string) (CompressionType, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", name)
	}
}

// String returns the trait name of the key type as used in type descriptors ("INT_KEY", ...).
// DictKeyNone returns the empty string.
func (d DictKeyType) String() string {
	switch d {
	case DictKeyByte:
		return "BYTE_KEY"
	case DictKeyInt:
		return "INT_KEY"
	case DictKeyLong:
		return "LONG_KEY"
	case DictKeyNone:
		return ""
	default:
		return "Unknown"
	}
}

// ParseDictKeyType parses a trait name produced by DictKeyType.String.
func ParseDictKeyType(name string) (DictKeyType, error) {
	switch name {
	case "BYTE_KEY":
		return DictKeyByte, nil
	case "INT_KEY":
		return DictKeyInt, nil
	case "LONG_KEY":
		return DictKeyLong, nil
	default:
		return DictKeyNone, fmt.Errorf("unknown dictionary key type %q", name)
	}
}

// IsValid reports whether d is a known key type, DictKeyNone included.
func (d DictKeyType) IsValid() bool {
	return d <= DictKeyLong
}

// MaxEntries returns the number of distinct dictionary entries the key width can address:
// 2^8 for BYTE, 2^32 for INT and 2^63 for LONG. DictKeyNone returns 0.
func (d DictKeyType) MaxEntries() uint64 {
	switch d {
	case DictKeyByte:
		return 1 << 8
	case DictKeyInt:
		return 1 << 32
	case DictKeyLong:
		return 1 << 63
	default:
		return 0
	}
}
