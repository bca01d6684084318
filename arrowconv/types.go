package arrowconv

import (
	"fmt"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
	"github.com/arloliu/ktable/ktype"
)

// DataType returns the Arrow type of t.
func DataType(t ktype.Type) (arrow.DataType, error) {
	if err := ktype.Validate(t); err != nil {
		return nil, err
	}

	return dataType(t)
}

func dataType(t ktype.Type) (arrow.DataType, error) {
	switch x := t.(type) {
	case ktype.Primitive:
		value := primitiveDataType(x.ID())
		if !x.IsDictEncoded() {
			return value, nil
		}

		return NewStructDictType(x.DictKey(), value)
	case *ktype.List:
		inner, err := dataType(x.Inner)
		if err != nil {
			return nil, err
		}

		return arrow.LargeListOf(inner), nil
	case *ktype.Struct:
		fields := make([]arrow.Field, len(x.Fields))
		for i, f := range x.Fields {
			ft, err := dataType(f)
			if err != nil {
				return nil, err
			}
			fields[i] = arrow.Field{Name: strconv.Itoa(i), Type: ft, Nullable: true}
		}

		return arrow.StructOf(fields...), nil
	case *ktype.Logical:
		storage, err := dataType(x.Storage)
		if err != nil {
			return nil, err
		}

		return NewLogicalType(x.Tag, storage), nil
	default:
		return nil, fmt.Errorf("%w: %T", errs.ErrInvalidTypeDescriptor, t)
	}
}

func primitiveDataType(id ktype.PrimitiveID) arrow.DataType {
	switch id {
	case ktype.IDInt32:
		return arrow.PrimitiveTypes.Int32
	case ktype.IDInt64:
		return arrow.PrimitiveTypes.Int64
	case ktype.IDString:
		return arrow.BinaryTypes.String
	case ktype.IDDouble:
		return arrow.PrimitiveTypes.Float64
	case ktype.IDBool:
		return arrow.FixedWidthTypes.Boolean
	case ktype.IDBlob:
		return arrow.BinaryTypes.LargeBinary
	default:
		return arrow.Null
	}
}

// TypeOf returns the type whose Arrow type is dt. Logical types come back without converters.
func TypeOf(dt arrow.DataType) (ktype.Type, error) {
	switch x := dt.(type) {
	case *LogicalType:
		storage, err := TypeOf(x.StorageType())
		if err != nil {
			return nil, err
		}

		return ktype.NewLogical(x.Tag(), storage, nil), nil
	case *StructDictType:
		id, err := primitiveID(x.ValueType())
		if err != nil {
			return nil, err
		}

		return ktype.NewPrimitive(id, x.KeyType())
	case *arrow.LargeListType:
		inner, err := TypeOf(x.Elem())
		if err != nil {
			return nil, err
		}

		return ktype.ListOf(inner), nil
	case *arrow.StructType:
		fields := make([]ktype.Type, x.NumFields())
		for i, f := range x.Fields() {
			ft, err := TypeOf(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = ft
		}

		return ktype.StructOf(fields...), nil
	}

	id, err := primitiveID(dt)
	if err != nil {
		return nil, err
	}

	return ktype.NewPrimitive(id, format.DictKeyNone)
}

func primitiveID(dt arrow.DataType) (ktype.PrimitiveID, error) {
	switch dt.ID() {
	case arrow.INT32:
		return ktype.IDInt32, nil
	case arrow.INT64:
		return ktype.IDInt64, nil
	case arrow.STRING:
		return ktype.IDString, nil
	case arrow.FLOAT64:
		return ktype.IDDouble, nil
	case arrow.BOOL:
		return ktype.IDBool, nil
	case arrow.LARGE_BINARY:
		return ktype.IDBlob, nil
	case arrow.NULL:
		return ktype.IDNull, nil
	default:
		return 0, fmt.Errorf("%w: arrow type %s", errs.ErrUnknownPrimitive, dt)
	}
}
