package arrowconv

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/dolthub/swiss"

	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/dict"
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
)

// ToDictionary converts a struct-dict vector to an Arrow dictionary array.
//
// The dictionary holds the distinct values in first-use order and the indices are positions in
// it. The index type is Uint8, Uint32 or Uint64 following the key width of v.
func ToDictionary(mem memory.Allocator, v column.Vector) (*array.Dictionary, error) {
	if err := column.Validate(v); err != nil {
		return nil, err
	}

	switch x := v.(type) {
	case *column.Dict[string]:
		return toDictionary(mem, x, arrow.BinaryTypes.String)
	case *column.Dict[[]byte]:
		return toDictionary(mem, x, arrow.BinaryTypes.LargeBinary)
	default:
		return nil, fmt.Errorf("%w: %T is not dictionary encoded", errs.ErrInvalidDictEncoding, v)
	}
}

func toDictionary[T column.DictElem](mem memory.Allocator, d *column.Dict[T], valueType arrow.DataType) (*array.Dictionary, error) {
	indexType, err := keyDataType(d.KeyType)
	if err != nil {
		return nil, err
	}

	keys, values := d.Dictionary()
	pos := swiss.NewMap[uint64, uint64](uint32(len(keys))) //nolint: gosec
	for i, k := range keys {
		pos.Put(k, uint64(i))
	}

	vb := array.NewBuilder(mem, valueType)
	defer vb.Release()
	if err := appendSlice(vb, values, nil); err != nil {
		return nil, err
	}
	dictionary := vb.NewArray()
	defer dictionary.Release()

	ib := array.NewBuilder(mem, indexType)
	defer ib.Release()
	for i, k := range d.Keys {
		if d.IsMissing(i) {
			ib.AppendNull()
			continue
		}
		p, ok := pos.Get(k)
		if !ok {
			return nil, fmt.Errorf("%w: row %d key %d", errs.ErrDictKeyOutOfRange, i, k)
		}
		if err := appendKey(ib, p); err != nil {
			return nil, err
		}
	}
	indices := ib.NewArray()
	defer indices.Release()

	dt := &arrow.DictionaryType{IndexType: indexType, ValueType: valueType}

	return array.NewDictionaryArray(dt, indices, dictionary), nil
}

// FromDictionary converts an Arrow dictionary array of String or LargeBinary values to a
// struct-dict vector with keys of the given width. Keys are assigned in first-use order.
func FromDictionary(arr *array.Dictionary, key format.DictKeyType, opts ...dict.Option) (column.Vector, error) {
	values := arr.Dictionary()
	opts = append(opts[:len(opts):len(opts)], dict.WithKeyType(key))

	switch values.DataType().ID() {
	case arrow.STRING:
		return fromDictionary[string](arr, values, opts)
	case arrow.LARGE_BINARY, arrow.BINARY:
		return fromDictionary[[]byte](arr, values, opts)
	default:
		return nil, fmt.Errorf("%w: dictionary value type %s", errs.ErrInvalidDictEncoding, values.DataType())
	}
}

func fromDictionary[T column.DictElem](arr *array.Dictionary, values arrow.Array, opts []dict.Option) (column.Vector, error) {
	get, err := accessor[T](values)
	if err != nil {
		return nil, err
	}

	plain := make([]T, arr.Len())
	missing := nulls(arr)
	for i := range plain {
		if missing[i] {
			continue
		}
		j := arr.GetValueIndex(i)
		if values.IsNull(j) {
			missing[i] = true
			continue
		}
		plain[i] = get(j)
	}

	return dict.CreateStorage(plain, missing, opts...)
}
