package table

import (
	"fmt"

	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
	"github.com/arloliu/ktable/ktype"
)

var kindPrimitives = map[format.Kind]ktype.Primitive{
	format.KindBoolean: ktype.Bool(),
	format.KindInteger: ktype.Int32(),
	format.KindLong:    ktype.Int64(),
	format.KindDouble:  ktype.Double(),
	format.KindString:  ktype.String(),
	format.KindBytes:   ktype.Blob(),
}

// storageType returns the storage type a decoded vector was built for.
// Logical tags other than the set tag cannot be recovered from a vector.
func storageType(v column.Vector) (ktype.Type, error) {
	switch x := v.(type) {
	case *column.Void:
		return ktype.Null(), nil
	case *column.Dict[string]:
		return ktype.DictString(x.KeyType), nil
	case *column.Dict[[]byte]:
		return ktype.DictBlob(x.KeyType), nil
	case *column.Struct:
		fields := make([]ktype.Type, len(x.Fields))
		for i, f := range x.Fields {
			t, err := storageType(f)
			if err != nil {
				return nil, err
			}
			fields[i] = t
		}
		return ktype.StructOf(fields...), nil
	case *column.Nested:
		inner, err := storageType(x.Child)
		if err != nil {
			return nil, err
		}
		return ktype.ListOf(inner), nil
	}

	tag := v.Type()
	p, ok := kindPrimitives[tag.Kind()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownColumnType, tag)
	}
	switch tag.Cardinality() {
	case format.List:
		return ktype.ListOf(p), nil
	case format.Set:
		return ktype.SetOf(p), nil
	default:
		return p, nil
	}
}
