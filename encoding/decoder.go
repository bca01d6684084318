package encoding

import (
	"bytes"
	"fmt"

	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
	"github.com/arloliu/ktable/internal/fbs"
)

// valueSource is the value-carrying part shared by Column and Cell tables.
type valueSource interface {
	IntValues(j int) int32
	IntValuesLength() int
	LongValues(j int) int64
	LongValuesLength() int
	DoubleValues(j int) float64
	DoubleValuesLength() int
	BoolValues(j int) bool
	BoolValuesLength() int
	StringValues(j int) []byte
	StringValuesLength() int
	BytesValues(obj *fbs.Bytes, j int) bool
	BytesValuesLength() int
	Missing(j int) bool
	MissingLength() int
}

// DecodeColumn reads one encoded column into a new vector.
func DecodeColumn(c *fbs.Column) (v column.Vector, err error) {
	defer fbs.Recover(&err)

	return decodeColumn(c, 0)
}

func decodeColumn(c *fbs.Column, depth int) (column.Vector, error) {
	if depth > MaxNesting {
		return nil, fmt.Errorf("%w: more than %d nested levels", errs.ErrUnsupportedNesting, MaxNesting)
	}

	tag := format.ColumnType(c.Type())
	if !tag.IsValid() {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownColumnType, c.Type())
	}

	switch tag {
	case format.ColumnStruct:
		return decodeStruct(c, depth)
	case format.ColumnNestedList:
		return decodeNested(c, depth)
	case format.ColumnVoid:
		if c.Length() < 0 {
			return nil, fmt.Errorf("%w: negative void length", errs.ErrLengthMismatch)
		}

		return &column.Void{N: int(c.Length())}, nil
	}

	dictKey := format.DictKeyType(c.DictKeyType())
	if dictKey != format.DictKeyNone {
		if tag == format.ColumnString {
			return decodeDict[string](c, dictKey)
		}
		if tag == format.ColumnBytes {
			return decodeDict[[]byte](c, dictKey)
		}

		return nil, fmt.Errorf("%w: dictionary key type on %s column", errs.ErrInvalidDictEncoding, tag)
	}

	switch tag.Kind() {
	case format.KindBoolean:
		return decodeMatrix[bool](c, tag.Cardinality())
	case format.KindInteger:
		return decodeMatrix[int32](c, tag.Cardinality())
	case format.KindLong:
		return decodeMatrix[int64](c, tag.Cardinality())
	case format.KindDouble:
		return decodeMatrix[float64](c, tag.Cardinality())
	case format.KindString:
		return decodeMatrix[string](c, tag.Cardinality())
	default:
		return decodeMatrix[[]byte](c, tag.Cardinality())
	}
}

func decodeMatrix[T column.Elem](c *fbs.Column, card format.Cardinality) (column.Vector, error) {
	serializer := string(c.Serializer())
	if serializer != "" && column.KindOf[T]() != format.KindBytes {
		return nil, fmt.Errorf("%w: %s column", errs.ErrSerializerNotBytes, column.KindOf[T]())
	}

	switch card {
	case format.List:
		return decodeList[T](c, serializer)
	case format.Set:
		return decodeSet[T](c, serializer)
	default:
		return decodeScalar[T](c, serializer)
	}
}

// readValues copies the value vector of kind T out of src.
func readValues[T column.Elem](src valueSource) []T {
	var out any
	switch column.KindOf[T]() {
	case format.KindBoolean:
		out = fbs.Collect(src.BoolValuesLength(), src.BoolValues)
	case format.KindInteger:
		out = fbs.Collect(src.IntValuesLength(), src.IntValues)
	case format.KindLong:
		out = fbs.Collect(src.LongValuesLength(), src.LongValues)
	case format.KindDouble:
		out = fbs.Collect(src.DoubleValuesLength(), src.DoubleValues)
	case format.KindString:
		out = fbs.Collect(src.StringValuesLength(), func(j int) string {
			return string(src.StringValues(j))
		})
	default:
		var b fbs.Bytes
		out = fbs.Collect(src.BytesValuesLength(), func(j int) []byte {
			if !src.BytesValues(&b, j) {
				return nil
			}

			return bytes.Clone(b.ValueBytes())
		})
	}

	return out.([]T) //nolint: forcetypeassert
}

// readMissing returns the missing vector of src, which must have n entries.
// An absent missing vector on an empty source is accepted.
func readMissing(src interface {
	Missing(j int) bool
	MissingLength() int
}, n int,
) ([]bool, error) {
	if src.MissingLength() != n {
		return nil, fmt.Errorf("%w: %d missing flags for %d values", errs.ErrLengthMismatch, src.MissingLength(), n)
	}

	return fbs.Collect(n, src.Missing), nil
}

// zeroMissing resets the values at missing positions so corrupted placeholders never surface.
func zeroMissing[T any](vals []T, missing []bool) {
	var zero T
	for i, m := range missing {
		if m {
			vals[i] = zero
		}
	}
}

func checkLength(c *fbs.Column, n int) error {
	if int(c.Length()) != n {
		return fmt.Errorf("%w: column length %d, %d rows stored", errs.ErrLengthMismatch, c.Length(), n)
	}

	return nil
}

func decodeScalar[T column.Elem](c *fbs.Column, serializer string) (*column.Scalar[T], error) {
	values := readValues[T](c)
	if err := checkLength(c, len(values)); err != nil {
		return nil, err
	}
	missing, err := readMissing(c, len(values))
	if err != nil {
		return nil, err
	}
	zeroMissing(values, missing)

	return &column.Scalar[T]{Values: values, Missing: missing, Serializer: serializer}, nil
}

func decodeList[T column.Elem](c *fbs.Column, serializer string) (*column.List[T], error) {
	n := c.CellsLength()
	if err := checkLength(c, n); err != nil {
		return nil, err
	}
	missing, err := readMissing(c, n)
	if err != nil {
		return nil, err
	}

	cells := make([]column.ListCell[T], n)
	var cell fbs.Cell
	for i := range cells {
		if missing[i] || !c.Cells(&cell, i) {
			continue
		}
		values := readValues[T](&cell)
		inner, err := readMissing(&cell, len(values))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		zeroMissing(values, inner)
		cells[i] = column.ListCell[T]{Values: values, Missing: inner}
	}

	return &column.List[T]{Cells: cells, Missing: missing, Serializer: serializer}, nil
}

func decodeSet[T column.Elem](c *fbs.Column, serializer string) (*column.Set[T], error) {
	n := c.CellsLength()
	if err := checkLength(c, n); err != nil {
		return nil, err
	}
	missing, err := readMissing(c, n)
	if err != nil {
		return nil, err
	}

	cells := make([]column.SetCell[T], n)
	var cell fbs.Cell
	for i := range cells {
		if missing[i] || !c.Cells(&cell, i) {
			continue
		}
		cells[i] = column.SetCell[T]{Values: readValues[T](&cell), HasNull: cell.KeepDummy()}
	}

	return &column.Set[T]{Cells: cells, Missing: missing, Serializer: serializer}, nil
}

func decodeDict[T column.DictElem](c *fbs.Column, keyType format.DictKeyType) (*column.Dict[T], error) {
	if !keyType.IsValid() {
		return nil, fmt.Errorf("%w: key type %d", errs.ErrInvalidDictEncoding, keyType)
	}

	n := c.DictKeysLength()
	if err := checkLength(c, n); err != nil {
		return nil, err
	}
	missing, err := readMissing(c, n)
	if err != nil {
		return nil, err
	}
	values := readValues[T](c)
	if len(values) != n || c.EntryMissingLength() != n {
		return nil, fmt.Errorf("%w: %d keys, %d entries, %d entry flags",
			errs.ErrLengthMismatch, n, len(values), c.EntryMissingLength())
	}
	entryMissing := fbs.Collect(n, c.EntryMissing)
	zeroMissing(values, entryMissing)

	return &column.Dict[T]{
		KeyType: keyType,
		Keys:    fbs.Collect(n, c.DictKeys),
		Entries: column.Scalar[T]{Values: values, Missing: entryMissing},
		Missing: missing,
	}, nil
}

func decodeChildren(c *fbs.Column, depth int) ([]column.Vector, error) {
	children := make([]column.Vector, c.ChildrenLength())
	for i := range children {
		var child fbs.Column
		if !c.Children(&child, i) {
			return nil, fmt.Errorf("%w: child %d", errs.ErrMalformedBuffer, i)
		}
		v, err := decodeColumn(&child, depth+1)
		if err != nil {
			return nil, err
		}
		children[i] = v
	}

	return children, nil
}

func decodeStruct(c *fbs.Column, depth int) (*column.Struct, error) {
	n := int(c.Length())
	if n < 0 {
		return nil, fmt.Errorf("%w: negative struct length", errs.ErrLengthMismatch)
	}
	missing, err := readMissing(c, n)
	if err != nil {
		return nil, err
	}
	fields, err := decodeChildren(c, depth)
	if err != nil {
		return nil, err
	}

	s := &column.Struct{Fields: fields, Missing: missing, N: n}
	if err := column.Validate(s); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrLengthMismatch, err)
	}

	return s, nil
}

func decodeNested(c *fbs.Column, depth int) (*column.Nested, error) {
	offsets := fbs.Collect(c.OffsetsLength(), c.Offsets)
	if len(offsets) == 0 {
		return nil, fmt.Errorf("%w: nested list without offsets", errs.ErrLengthMismatch)
	}
	n := len(offsets) - 1
	if err := checkLength(c, n); err != nil {
		return nil, err
	}
	missing, err := readMissing(c, n)
	if err != nil {
		return nil, err
	}
	children, err := decodeChildren(c, depth)
	if err != nil {
		return nil, err
	}
	if len(children) != 1 {
		return nil, fmt.Errorf("%w: nested list has %d children", errs.ErrLengthMismatch, len(children))
	}

	nested := &column.Nested{Offsets: offsets, Child: children[0], Missing: missing}
	if err := column.Validate(nested); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrLengthMismatch, err)
	}

	return nested, nil
}
