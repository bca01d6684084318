package encoding

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
	"github.com/arloliu/ktable/internal/fbs"
)

// MaxNesting is the deepest STRUCT and NESTED_LIST nesting the codec accepts.
const MaxNesting = 32

// EncodeColumn writes v as a Column table and returns its offset.
// The builder must not be inside an unfinished table.
func EncodeColumn(b *flatbuffers.Builder, v column.Vector) (flatbuffers.UOffsetT, error) {
	if err := column.Validate(v); err != nil {
		return 0, err
	}

	return encodeColumn(b, v, 0)
}

func encodeColumn(b *flatbuffers.Builder, v column.Vector, depth int) (flatbuffers.UOffsetT, error) {
	if depth > MaxNesting {
		return 0, fmt.Errorf("%w: more than %d nested levels", errs.ErrUnsupportedNesting, MaxNesting)
	}

	switch x := v.(type) {
	case *column.Scalar[bool]:
		return encodeScalar(b, x), nil
	case *column.Scalar[int32]:
		return encodeScalar(b, x), nil
	case *column.Scalar[int64]:
		return encodeScalar(b, x), nil
	case *column.Scalar[float64]:
		return encodeScalar(b, x), nil
	case *column.Scalar[string]:
		return encodeScalar(b, x), nil
	case *column.Scalar[[]byte]:
		return encodeScalar(b, x), nil
	case *column.List[bool]:
		return encodeList(b, x), nil
	case *column.List[int32]:
		return encodeList(b, x), nil
	case *column.List[int64]:
		return encodeList(b, x), nil
	case *column.List[float64]:
		return encodeList(b, x), nil
	case *column.List[string]:
		return encodeList(b, x), nil
	case *column.List[[]byte]:
		return encodeList(b, x), nil
	case *column.Set[bool]:
		return encodeSet(b, x), nil
	case *column.Set[int32]:
		return encodeSet(b, x), nil
	case *column.Set[int64]:
		return encodeSet(b, x), nil
	case *column.Set[float64]:
		return encodeSet(b, x), nil
	case *column.Set[string]:
		return encodeSet(b, x), nil
	case *column.Set[[]byte]:
		return encodeSet(b, x), nil
	case *column.Dict[string]:
		return encodeDict(b, x), nil
	case *column.Dict[[]byte]:
		return encodeDict(b, x), nil
	case *column.Struct:
		return encodeStruct(b, x, depth)
	case *column.Nested:
		return encodeNested(b, x, depth)
	case *column.Void:
		fbs.ColumnStart(b)
		fbs.ColumnAddType(b, int32(format.ColumnVoid))
		fbs.ColumnAddLength(b, int32(x.N)) //nolint: gosec

		return fbs.ColumnEnd(b), nil
	default:
		return 0, fmt.Errorf("%w: %T", errs.ErrVectorTypeMismatch, v)
	}
}

// placeholders returns vals with every missing position reset to the zero value.
// vals is returned as is when nothing is missing.
func placeholders[T any](vals []T, missing []bool) []T {
	copied := false
	for i, m := range missing {
		if !m {
			continue
		}
		if !copied {
			vals = append([]T(nil), vals...)
			copied = true
		}
		var zero T
		vals[i] = zero
	}

	return vals
}

// mask returns missing, or an all-false mask of length n when missing is nil.
func mask(missing []bool, n int) []bool {
	if missing == nil {
		return make([]bool, n)
	}

	return missing
}

// writeValues writes vals as the value vector matching T.
func writeValues[T column.Elem](b *flatbuffers.Builder, vals []T) flatbuffers.UOffsetT {
	switch v := any(vals).(type) {
	case []bool:
		return fbs.Bools(b, v)
	case []int32:
		return fbs.Int32s(b, v)
	case []int64:
		return fbs.Int64s(b, v)
	case []float64:
		return fbs.Float64s(b, v)
	case []string:
		return fbs.Strings(b, v)
	case [][]byte:
		return fbs.BytesTables(b, v)
	default:
		panic(fmt.Sprintf("unsupported element type %T", vals))
	}
}

// addColumnValues stores a value vector offset in the slot of kind.
func addColumnValues(b *flatbuffers.Builder, kind format.Kind, off flatbuffers.UOffsetT) {
	switch kind {
	case format.KindBoolean:
		fbs.ColumnAddBoolValues(b, off)
	case format.KindInteger:
		fbs.ColumnAddIntValues(b, off)
	case format.KindLong:
		fbs.ColumnAddLongValues(b, off)
	case format.KindDouble:
		fbs.ColumnAddDoubleValues(b, off)
	case format.KindString:
		fbs.ColumnAddStringValues(b, off)
	case format.KindBytes:
		fbs.ColumnAddBytesValues(b, off)
	}
}

func addCellValues(b *flatbuffers.Builder, kind format.Kind, off flatbuffers.UOffsetT) {
	switch kind {
	case format.KindBoolean:
		fbs.CellAddBoolValues(b, off)
	case format.KindInteger:
		fbs.CellAddIntValues(b, off)
	case format.KindLong:
		fbs.CellAddLongValues(b, off)
	case format.KindDouble:
		fbs.CellAddDoubleValues(b, off)
	case format.KindString:
		fbs.CellAddStringValues(b, off)
	case format.KindBytes:
		fbs.CellAddBytesValues(b, off)
	}
}

func serializerOffset(b *flatbuffers.Builder, serializer string) flatbuffers.UOffsetT {
	if serializer == "" {
		return 0
	}

	return b.CreateString(serializer)
}

func encodeScalar[T column.Elem](b *flatbuffers.Builder, s *column.Scalar[T]) flatbuffers.UOffsetT {
	values := writeValues(b, placeholders(s.Values, s.Missing))
	missing := fbs.Bools(b, mask(s.Missing, len(s.Values)))
	serializer := serializerOffset(b, s.Serializer)

	fbs.ColumnStart(b)
	fbs.ColumnAddType(b, int32(s.Type()))
	fbs.ColumnAddMissing(b, missing)
	addColumnValues(b, column.KindOf[T](), values)
	if serializer != 0 {
		fbs.ColumnAddSerializer(b, serializer)
	}
	fbs.ColumnAddLength(b, int32(len(s.Values))) //nolint: gosec

	return fbs.ColumnEnd(b)
}

func encodeList[T column.Elem](b *flatbuffers.Builder, l *column.List[T]) flatbuffers.UOffsetT {
	kind := column.KindOf[T]()
	cells := make([]flatbuffers.UOffsetT, len(l.Cells))
	for i, c := range l.Cells {
		if l.IsMissing(i) {
			fbs.CellStart(b)
			cells[i] = fbs.CellEnd(b)

			continue
		}

		values := writeValues(b, placeholders(c.Values, c.Missing))
		missing := fbs.Bools(b, mask(c.Missing, len(c.Values)))

		fbs.CellStart(b)
		addCellValues(b, kind, values)
		fbs.CellAddMissing(b, missing)
		cells[i] = fbs.CellEnd(b)
	}

	return finishCollection(b, l.Type(), cells, mask(l.Missing, len(l.Cells)), l.Serializer)
}

func encodeSet[T column.Elem](b *flatbuffers.Builder, s *column.Set[T]) flatbuffers.UOffsetT {
	kind := column.KindOf[T]()
	cells := make([]flatbuffers.UOffsetT, len(s.Cells))
	for i, c := range s.Cells {
		if s.IsMissing(i) {
			fbs.CellStart(b)
			cells[i] = fbs.CellEnd(b)

			continue
		}

		values := writeValues(b, c.Values)

		fbs.CellStart(b)
		addCellValues(b, kind, values)
		fbs.CellAddKeepDummy(b, c.HasNull)
		cells[i] = fbs.CellEnd(b)
	}

	return finishCollection(b, s.Type(), cells, mask(s.Missing, len(s.Cells)), s.Serializer)
}

func finishCollection(b *flatbuffers.Builder, tag format.ColumnType, cells []flatbuffers.UOffsetT, missing []bool, serializer string) flatbuffers.UOffsetT {
	cellsOff := fbs.Tables(b, cells)
	missingOff := fbs.Bools(b, missing)
	serializerOff := serializerOffset(b, serializer)

	fbs.ColumnStart(b)
	fbs.ColumnAddType(b, int32(tag))
	fbs.ColumnAddMissing(b, missingOff)
	fbs.ColumnAddCells(b, cellsOff)
	if serializerOff != 0 {
		fbs.ColumnAddSerializer(b, serializerOff)
	}
	fbs.ColumnAddLength(b, int32(len(cells))) //nolint: gosec

	return fbs.ColumnEnd(b)
}

func encodeDict[T column.DictElem](b *flatbuffers.Builder, d *column.Dict[T]) flatbuffers.UOffsetT {
	n := len(d.Keys)
	entryMissing := mask(d.Entries.Missing, n)
	if d.Missing != nil {
		entryMissing = append([]bool(nil), entryMissing...)
		for i, m := range d.Missing {
			entryMissing[i] = entryMissing[i] || m
		}
	}

	values := writeValues(b, placeholders(d.Entries.Values, entryMissing))
	keys := fbs.Uint64s(b, d.Keys)
	entries := fbs.Bools(b, entryMissing)
	missing := fbs.Bools(b, mask(d.Missing, n))

	fbs.ColumnStart(b)
	fbs.ColumnAddType(b, int32(d.Type()))
	fbs.ColumnAddMissing(b, missing)
	addColumnValues(b, column.KindOf[T](), values)
	fbs.ColumnAddDictKeyType(b, byte(d.KeyType))
	fbs.ColumnAddDictKeys(b, keys)
	fbs.ColumnAddEntryMissing(b, entries)
	fbs.ColumnAddLength(b, int32(n)) //nolint: gosec

	return fbs.ColumnEnd(b)
}

func encodeChildren(b *flatbuffers.Builder, children []column.Vector, depth int) (flatbuffers.UOffsetT, error) {
	offsets := make([]flatbuffers.UOffsetT, len(children))
	for i, c := range children {
		off, err := encodeColumn(b, c, depth+1)
		if err != nil {
			return 0, err
		}
		offsets[i] = off
	}

	return fbs.Tables(b, offsets), nil
}

func encodeStruct(b *flatbuffers.Builder, s *column.Struct, depth int) (flatbuffers.UOffsetT, error) {
	children, err := encodeChildren(b, s.Fields, depth)
	if err != nil {
		return 0, err
	}
	missing := fbs.Bools(b, mask(s.Missing, s.N))

	fbs.ColumnStart(b)
	fbs.ColumnAddType(b, int32(format.ColumnStruct))
	fbs.ColumnAddMissing(b, missing)
	fbs.ColumnAddChildren(b, children)
	fbs.ColumnAddLength(b, int32(s.N)) //nolint: gosec

	return fbs.ColumnEnd(b), nil
}

func encodeNested(b *flatbuffers.Builder, n *column.Nested, depth int) (flatbuffers.UOffsetT, error) {
	children, err := encodeChildren(b, []column.Vector{n.Child}, depth)
	if err != nil {
		return 0, err
	}
	offsets := n.Offsets
	if len(offsets) == 0 {
		offsets = []int32{0}
	}
	offsetsOff := fbs.Int32s(b, offsets)
	missing := fbs.Bools(b, mask(n.Missing, n.Len()))

	fbs.ColumnStart(b)
	fbs.ColumnAddType(b, int32(format.ColumnNestedList))
	fbs.ColumnAddMissing(b, missing)
	fbs.ColumnAddChildren(b, children)
	fbs.ColumnAddOffsets(b, offsetsOff)
	fbs.ColumnAddLength(b, int32(n.Len())) //nolint: gosec

	return fbs.ColumnEnd(b), nil
}
