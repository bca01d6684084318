package arrowconv

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/ktype"
)

// FromArray converts arr, an array of the Arrow type of t, to a column vector.
//
// Dictionary encoded types come back as struct-dict vectors. Strings and blobs are copied, so
// the vector stays valid after arr is released.
func FromArray(t ktype.Type, arr arrow.Array) (column.Vector, error) {
	if err := ktype.Validate(t); err != nil {
		return nil, err
	}

	return fromArray(t, arr)
}

func arrayMismatch(t ktype.Type, arr arrow.Array) error {
	return fmt.Errorf("%w: arrow %s for %s", errs.ErrVectorTypeMismatch, arr.DataType(), t)
}

// storageOf returns the storage of an extension array, or arr itself.
func storageOf(arr arrow.Array) arrow.Array {
	if ext, ok := arr.(array.ExtensionArray); ok {
		return ext.Storage()
	}

	return arr
}

func fromArray(t ktype.Type, arr arrow.Array) (column.Vector, error) {
	switch x := t.(type) {
	case *ktype.Logical:
		storage := storageOf(arr)
		if inner, ok := ktype.IsSet(x); ok {
			return readSet(inner, storage)
		}
		v, err := fromArray(x.Storage, storage)
		if err != nil {
			return nil, err
		}
		if s, ok := v.(*column.Scalar[[]byte]); ok && !ktype.IsWrapTag(x.Tag) {
			s.Serializer = x.Tag
		}

		return v, nil
	case ktype.Primitive:
		if x.IsDictEncoded() {
			return readDict(x, storageOf(arr))
		}

		return readPrimitive(x, arr)
	case *ktype.List:
		ll, ok := arr.(*array.LargeList)
		if !ok {
			return nil, arrayMismatch(t, arr)
		}
		if p, ok := elementPrimitive(x.Inner); ok {
			return readList(p, ll)
		}

		return readNested(x.Inner, ll)
	case *ktype.Struct:
		sa, ok := arr.(*array.Struct)
		if !ok || sa.NumField() != len(x.Fields) {
			return nil, arrayMismatch(t, arr)
		}
		out := &column.Struct{Fields: make([]column.Vector, len(x.Fields)), Missing: nulls(sa), N: sa.Len()}
		for f, ft := range x.Fields {
			field, err := fromArray(ft, sa.Field(f))
			if err != nil {
				return nil, fmt.Errorf("field %d: %w", f, err)
			}
			out.Fields[f] = field
		}

		return out, nil
	default:
		return nil, arrayMismatch(t, arr)
	}
}

// elementPrimitive reports whether lists of t are stored as List vectors.
func elementPrimitive(t ktype.Type) (ktype.Primitive, bool) {
	p, ok := t.(ktype.Primitive)
	if !ok || p.IsDictEncoded() || p.ID() == ktype.IDNull {
		return ktype.Primitive{}, false
	}

	return p, true
}

func nulls(arr arrow.Array) []bool {
	missing := make([]bool, arr.Len())
	if arr.NullN() == 0 {
		return missing
	}
	for i := range missing {
		missing[i] = arr.IsNull(i)
	}

	return missing
}

// accessor returns a function reading element i of arr as a T.
func accessor[T column.Elem](arr arrow.Array) (func(int) T, error) {
	var get any
	switch a := arr.(type) {
	case *array.Boolean:
		get = a.Value
	case *array.Int32:
		get = a.Value
	case *array.Int64:
		get = a.Value
	case *array.Float64:
		get = a.Value
	case *array.String:
		get = func(i int) string { return strings.Clone(a.Value(i)) }
	case *array.LargeBinary:
		get = func(i int) []byte { return bytes.Clone(a.Value(i)) }
	case *array.Binary:
		get = func(i int) []byte { return bytes.Clone(a.Value(i)) }
	}

	f, ok := get.(func(int) T)
	if !ok {
		var zero T
		return nil, fmt.Errorf("%w: arrow %s for %T", errs.ErrVectorTypeMismatch, arr.DataType(), zero)
	}

	return f, nil
}

func readScalar[T column.Elem](arr arrow.Array) (*column.Scalar[T], error) {
	get, err := accessor[T](arr)
	if err != nil {
		return nil, err
	}

	s := &column.Scalar[T]{Values: make([]T, arr.Len()), Missing: nulls(arr)}
	for i := range s.Values {
		if !s.Missing[i] {
			s.Values[i] = get(i)
		}
	}

	return s, nil
}

func readPrimitive(p ktype.Primitive, arr arrow.Array) (column.Vector, error) {
	switch p.ID() {
	case ktype.IDInt32:
		return readScalar[int32](arr)
	case ktype.IDInt64:
		return readScalar[int64](arr)
	case ktype.IDDouble:
		return readScalar[float64](arr)
	case ktype.IDBool:
		return readScalar[bool](arr)
	case ktype.IDString:
		return readScalar[string](arr)
	case ktype.IDBlob:
		return readScalar[[]byte](arr)
	default:
		if arr.DataType().ID() != arrow.NULL {
			return nil, arrayMismatch(p, arr)
		}

		return &column.Void{N: arr.Len()}, nil
	}
}

func readListCells[T column.Elem](ll *array.LargeList) (*column.List[T], error) {
	values := ll.ListValues()
	get, err := accessor[T](values)
	if err != nil {
		return nil, err
	}

	l := &column.List[T]{Cells: make([]column.ListCell[T], ll.Len()), Missing: nulls(ll)}
	for i := range l.Cells {
		if l.Missing[i] {
			continue
		}
		start, end := ll.ValueOffsets(i)
		cell := column.ListCell[T]{Values: make([]T, end-start), Missing: make([]bool, end-start)}
		for j := range cell.Values {
			k := int(start) + j
			if values.IsNull(k) {
				cell.Missing[j] = true
				continue
			}
			cell.Values[j] = get(k)
		}
		l.Cells[i] = cell
	}

	return l, nil
}

func readList(p ktype.Primitive, ll *array.LargeList) (column.Vector, error) {
	switch p.ID() {
	case ktype.IDInt32:
		return readListCells[int32](ll)
	case ktype.IDInt64:
		return readListCells[int64](ll)
	case ktype.IDDouble:
		return readListCells[float64](ll)
	case ktype.IDBool:
		return readListCells[bool](ll)
	case ktype.IDString:
		return readListCells[string](ll)
	default:
		return readListCells[[]byte](ll)
	}
}

// readNested converts the child rows spanned by ll and rebases the offsets to start at zero.
func readNested(inner ktype.Type, ll *array.LargeList) (column.Vector, error) {
	n := ll.Len()
	out := &column.Nested{Offsets: make([]int32, n+1), Missing: nulls(ll)}

	var first, last int64
	if n > 0 {
		first, _ = ll.ValueOffsets(0)
		_, last = ll.ValueOffsets(n - 1)
	}
	if last-first > math.MaxInt32 {
		return nil, fmt.Errorf("%w: more than 2^31 list elements", errs.ErrUnsupportedNesting)
	}
	for i := range n {
		_, end := ll.ValueOffsets(i)
		out.Offsets[i+1] = int32(end - first) //nolint: gosec
	}

	child := array.NewSlice(ll.ListValues(), first, last)
	defer child.Release()

	v, err := fromArray(inner, child)
	if err != nil {
		return nil, err
	}
	out.Child = v

	return out, nil
}

func readSetCells[T column.Elem](ll *array.LargeList) (*column.Set[T], error) {
	values := ll.ListValues()
	get, err := accessor[T](values)
	if err != nil {
		return nil, err
	}

	s := &column.Set[T]{Cells: make([]column.SetCell[T], ll.Len()), Missing: nulls(ll)}
	for i := range s.Cells {
		if s.Missing[i] {
			continue
		}
		start, end := ll.ValueOffsets(i)
		cell := column.SetCell[T]{Values: make([]T, 0, end-start)}
		for k := int(start); k < int(end); k++ {
			if values.IsNull(k) {
				cell.HasNull = true
				continue
			}
			cell.Values = append(cell.Values, get(k))
		}
		s.Cells[i] = cell
	}

	return s, nil
}

func readSet(inner ktype.Type, arr arrow.Array) (column.Vector, error) {
	p, ok := elementPrimitive(ktype.StorageOf(inner))
	if !ok {
		return nil, fmt.Errorf("%w: set of %s", errs.ErrUnsupportedNesting, inner)
	}
	ll, ok := arr.(*array.LargeList)
	if !ok {
		return nil, arrayMismatch(ktype.SetOf(inner), arr)
	}

	switch p.ID() {
	case ktype.IDInt32:
		return readSetCells[int32](ll)
	case ktype.IDInt64:
		return readSetCells[int64](ll)
	case ktype.IDDouble:
		return readSetCells[float64](ll)
	case ktype.IDBool:
		return readSetCells[bool](ll)
	case ktype.IDString:
		return readSetCells[string](ll)
	default:
		return readSetCells[[]byte](ll)
	}
}

func keyAccessor(arr arrow.Array) (func(int) uint64, error) {
	switch a := arr.(type) {
	case *array.Uint8:
		return func(i int) uint64 { return uint64(a.Value(i)) }, nil
	case *array.Uint32:
		return func(i int) uint64 { return uint64(a.Value(i)) }, nil
	case *array.Uint64:
		return a.Value, nil
	default:
		return nil, fmt.Errorf("%w: key type %s", errs.ErrInvalidDictEncoding, arr.DataType())
	}
}

func readDictRows[T column.DictElem](p ktype.Primitive, sa *array.Struct) (*column.Dict[T], error) {
	if sa.NumField() != 2 {
		return nil, arrayMismatch(p, sa)
	}
	key, err := keyAccessor(sa.Field(0))
	if err != nil {
		return nil, err
	}
	entries, err := readScalar[T](sa.Field(1))
	if err != nil {
		return nil, err
	}

	keys := sa.Field(0)
	d := &column.Dict[T]{KeyType: p.DictKey(), Keys: make([]uint64, sa.Len()), Entries: *entries, Missing: nulls(sa)}
	for i := range d.Keys {
		if d.Missing[i] || keys.IsNull(i) {
			d.Missing[i] = true
			d.Entries.Missing[i] = true
			continue
		}
		d.Keys[i] = key(i)
	}

	return d, nil
}

func readDict(p ktype.Primitive, arr arrow.Array) (column.Vector, error) {
	sa, ok := arr.(*array.Struct)
	if !ok {
		return nil, arrayMismatch(p, arr)
	}
	if p.ID() == ktype.IDString {
		return readDictRows[string](p, sa)
	}

	return readDictRows[[]byte](p, sa)
}
