package arrowconv

import (
	"fmt"
	"reflect"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
)

const (
	LogicalTypeName    = "knime.logical_type"
	StructDictTypeName = "knime.struct_dict_encoded"
)

func init() {
	for _, t := range []arrow.ExtensionType{
		NewLogicalType("", arrow.Null),
		&StructDictType{ExtensionBase: arrow.ExtensionBase{Storage: structDictStorage(arrow.PrimitiveTypes.Uint64, arrow.BinaryTypes.String)}},
	} {
		if err := arrow.RegisterExtensionType(t); err != nil {
			panic(err)
		}
	}
}

// LogicalType is the Arrow extension type of a logical type. Its serialized form is the tag.
type LogicalType struct {
	arrow.ExtensionBase
	tag string
}

// LogicalArray is the array of a LogicalType.
type LogicalArray struct {
	array.ExtensionArrayBase
}

// NewLogicalType returns the extension type of the logical type tag over storage.
func NewLogicalType(tag string, storage arrow.DataType) *LogicalType {
	return &LogicalType{ExtensionBase: arrow.ExtensionBase{Storage: storage}, tag: tag}
}

// Tag returns the logical type tag.
func (t *LogicalType) Tag() string { return t.tag }

func (*LogicalType) ArrayType() reflect.Type { return reflect.TypeOf(LogicalArray{}) }

func (*LogicalType) ExtensionName() string { return LogicalTypeName }

func (t *LogicalType) String() string {
	return fmt.Sprintf("extension<%s[tag=%q]>", LogicalTypeName, t.tag)
}

func (t *LogicalType) Serialize() string { return t.tag }

func (*LogicalType) Deserialize(storage arrow.DataType, data string) (arrow.ExtensionType, error) {
	return NewLogicalType(data, storage), nil
}

func (t *LogicalType) ExtensionEquals(other arrow.ExtensionType) bool {
	o, ok := other.(*LogicalType)
	return ok && o.tag == t.tag && arrow.TypeEqual(t.Storage, o.Storage)
}

// StructDictType is the Arrow extension type of a dictionary encoded string or blob column.
// The storage is a struct of the key in field "0" and the value in field "1".
type StructDictType struct {
	arrow.ExtensionBase
}

// StructDictArray is the array of a StructDictType.
type StructDictArray struct {
	array.ExtensionArrayBase
}

// NewStructDictType returns the struct-dict type with the given key width over a String or
// LargeBinary value type.
func NewStructDictType(key format.DictKeyType, value arrow.DataType) (*StructDictType, error) {
	keyType, err := keyDataType(key)
	if err != nil {
		return nil, err
	}
	if !isDictValueType(value) {
		return nil, fmt.Errorf("%w: dictionary value type %s", errs.ErrInvalidDictEncoding, value)
	}

	return &StructDictType{ExtensionBase: arrow.ExtensionBase{Storage: structDictStorage(keyType, value)}}, nil
}

func structDictStorage(key, value arrow.DataType) *arrow.StructType {
	return arrow.StructOf(
		arrow.Field{Name: "0", Type: key, Nullable: true},
		arrow.Field{Name: "1", Type: value, Nullable: true},
	)
}

// KeyType returns the dictionary key width.
func (t *StructDictType) KeyType() format.DictKeyType {
	key, _ := dictKeyType(t.Storage.(*arrow.StructType).Field(0).Type)
	return key
}

// ValueType returns the Arrow type of the dictionary values.
func (t *StructDictType) ValueType() arrow.DataType {
	return t.Storage.(*arrow.StructType).Field(1).Type
}

func (*StructDictType) ArrayType() reflect.Type { return reflect.TypeOf(StructDictArray{}) }

func (*StructDictType) ExtensionName() string { return StructDictTypeName }

func (t *StructDictType) String() string {
	return fmt.Sprintf("extension<%s[key=%s, value=%s]>", StructDictTypeName, t.KeyType(), t.ValueType())
}

func (*StructDictType) Serialize() string { return "" }

func (*StructDictType) Deserialize(storage arrow.DataType, _ string) (arrow.ExtensionType, error) {
	st, ok := storage.(*arrow.StructType)
	if !ok || st.NumFields() != 2 {
		return nil, fmt.Errorf("%w: struct-dict storage %s", errs.ErrInvalidDictEncoding, storage)
	}
	key, err := dictKeyType(st.Field(0).Type)
	if err != nil {
		return nil, err
	}

	return NewStructDictType(key, st.Field(1).Type)
}

func (t *StructDictType) ExtensionEquals(other arrow.ExtensionType) bool {
	o, ok := other.(*StructDictType)
	return ok && arrow.TypeEqual(t.Storage, o.Storage)
}

func keyDataType(key format.DictKeyType) (arrow.DataType, error) {
	switch key {
	case format.DictKeyByte:
		return arrow.PrimitiveTypes.Uint8, nil
	case format.DictKeyInt:
		return arrow.PrimitiveTypes.Uint32, nil
	case format.DictKeyLong:
		return arrow.PrimitiveTypes.Uint64, nil
	default:
		return nil, fmt.Errorf("%w: key type %d", errs.ErrInvalidDictEncoding, key)
	}
}

func dictKeyType(dt arrow.DataType) (format.DictKeyType, error) {
	switch dt.ID() {
	case arrow.UINT8:
		return format.DictKeyByte, nil
	case arrow.UINT32:
		return format.DictKeyInt, nil
	case arrow.UINT64:
		return format.DictKeyLong, nil
	default:
		return format.DictKeyNone, fmt.Errorf("%w: key type %s", errs.ErrInvalidDictEncoding, dt)
	}
}

func isDictValueType(dt arrow.DataType) bool {
	id := dt.ID()
	return id == arrow.STRING || id == arrow.LARGE_BINARY
}
