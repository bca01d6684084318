package column

import (
	"fmt"

	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
)

// Vector is a column of values of a single wire type.
type Vector interface {
	// Type returns the wire type tag.
	Type() format.ColumnType
	// Len returns the number of rows.
	Len() int
	// IsMissing reports whether row i is missing.
	IsMissing(i int) bool
}

// Elem is the set of element types of primitive vectors.
type Elem interface {
	bool | int32 | int64 | float64 | string | []byte
}

// KindOf returns the storage kind of T.
func KindOf[T Elem]() format.Kind {
	var zero T
	switch any(zero).(type) {
	case bool:
		return format.KindBoolean
	case int32:
		return format.KindInteger
	case int64:
		return format.KindLong
	case float64:
		return format.KindDouble
	case string:
		return format.KindString
	default:
		return format.KindBytes
	}
}

func tagOf[T Elem](card format.Cardinality) format.ColumnType {
	tag, _ := format.NewColumnType(KindOf[T](), card)
	return tag
}

func isMissing(missing []bool, i int) bool {
	return missing != nil && missing[i]
}

// Scalar is a column of primitive values.
type Scalar[T Elem] struct {
	Values  []T
	Missing []bool
	// Serializer names the converter that produced the stored bytes. Only valid on []byte columns.
	Serializer string
}

// NewScalar creates a scalar vector. A nil entry in values is missing.
func NewScalar[T Elem](values ...*T) *Scalar[T] {
	s := &Scalar[T]{Values: make([]T, len(values)), Missing: make([]bool, len(values))}
	for i, v := range values {
		if v == nil {
			s.Missing[i] = true
			continue
		}
		s.Values[i] = *v
	}

	return s
}

func (s *Scalar[T]) Type() format.ColumnType { return tagOf[T](format.Scalar) }
func (s *Scalar[T]) Len() int                { return len(s.Values) }
func (s *Scalar[T]) IsMissing(i int) bool    { return isMissing(s.Missing, i) }

// Get returns the value of row i and whether it is present.
func (s *Scalar[T]) Get(i int) (T, bool) {
	if s.IsMissing(i) {
		var zero T
		return zero, false
	}

	return s.Values[i], true
}

// ListCell is one present row of a list column.
type ListCell[T Elem] struct {
	Values  []T
	Missing []bool
}

// IsMissing reports whether element j is missing.
func (c ListCell[T]) IsMissing(j int) bool { return isMissing(c.Missing, j) }

// List is a column of lists of primitive values.
type List[T Elem] struct {
	Cells      []ListCell[T]
	Missing    []bool
	Serializer string
}

func (l *List[T]) Type() format.ColumnType { return tagOf[T](format.List) }
func (l *List[T]) Len() int                { return len(l.Cells) }
func (l *List[T]) IsMissing(i int) bool    { return isMissing(l.Missing, i) }

// SetCell is one present row of a set column. HasNull records that the set held a null member.
type SetCell[T Elem] struct {
	Values  []T
	HasNull bool
}

// Set is a column of sets of primitive values.
type Set[T Elem] struct {
	Cells      []SetCell[T]
	Missing    []bool
	Serializer string
}

func (s *Set[T]) Type() format.ColumnType { return tagOf[T](format.Set) }
func (s *Set[T]) Len() int                { return len(s.Cells) }
func (s *Set[T]) IsMissing(i int) bool    { return isMissing(s.Missing, i) }

// Struct is a column of tuples stored as one child vector per field.
type Struct struct {
	Fields  []Vector
	Missing []bool
	// N is the row count, needed when there are no fields.
	N int
}

// NewStruct creates a struct vector from its fields. All fields must have the same length.
func NewStruct(n int, missing []bool, fields ...Vector) (*Struct, error) {
	s := &Struct{Fields: fields, Missing: missing, N: n}
	if err := Validate(s); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Struct) Type() format.ColumnType { return format.ColumnStruct }
func (s *Struct) Len() int                { return s.N }
func (s *Struct) IsMissing(i int) bool    { return isMissing(s.Missing, i) }

// Nested is a list column whose elements are not primitive.
// Row i spans Child rows Offsets[i] to Offsets[i+1].
type Nested struct {
	Offsets []int32
	Child   Vector
	Missing []bool
}

func (n *Nested) Type() format.ColumnType { return format.ColumnNestedList }

func (n *Nested) Len() int {
	if len(n.Offsets) == 0 {
		return 0
	}

	return len(n.Offsets) - 1
}

func (n *Nested) IsMissing(i int) bool { return isMissing(n.Missing, i) }

// Range returns the child row range of row i.
func (n *Nested) Range(i int) (start, end int) {
	return int(n.Offsets[i]), int(n.Offsets[i+1])
}

// Void is a column whose every row is missing.
type Void struct {
	N int
}

func (v *Void) Type() format.ColumnType { return format.ColumnVoid }
func (v *Void) Len() int                { return v.N }
func (v *Void) IsMissing(int) bool      { return true }

// Validate checks that the parallel slices of v agree in length, recursively.
func Validate(v Vector) error {
	n := v.Len()
	switch x := v.(type) {
	case *Scalar[bool]:
		return validateScalar(x)
	case *Scalar[int32]:
		return validateScalar(x)
	case *Scalar[int64]:
		return validateScalar(x)
	case *Scalar[float64]:
		return validateScalar(x)
	case *Scalar[string]:
		return validateScalar(x)
	case *Scalar[[]byte]:
		return validateScalar(x)
	case *List[bool]:
		return validateList(x)
	case *List[int32]:
		return validateList(x)
	case *List[int64]:
		return validateList(x)
	case *List[float64]:
		return validateList(x)
	case *List[string]:
		return validateList(x)
	case *List[[]byte]:
		return validateList(x)
	case *Set[bool]:
		return validateSet(x)
	case *Set[int32]:
		return validateSet(x)
	case *Set[int64]:
		return validateSet(x)
	case *Set[float64]:
		return validateSet(x)
	case *Set[string]:
		return validateSet(x)
	case *Set[[]byte]:
		return validateSet(x)
	case *Dict[string]:
		return validateDict(x)
	case *Dict[[]byte]:
		return validateDict(x)
	case *Struct:
		if err := checkMask(x.Missing, n); err != nil {
			return err
		}
		for i, f := range x.Fields {
			if f == nil || f.Len() != n {
				return fmt.Errorf("%w: struct field %d does not have %d rows", errs.ErrVectorLength, i, n)
			}
			if err := Validate(f); err != nil {
				return err
			}
		}

		return nil
	case *Nested:
		if err := checkMask(x.Missing, n); err != nil {
			return err
		}
		if x.Child == nil {
			return fmt.Errorf("%w: nested list without child", errs.ErrVectorLength)
		}
		if len(x.Offsets) > 0 {
			prev := x.Offsets[0]
			if prev != 0 {
				return fmt.Errorf("%w: first offset is %d", errs.ErrVectorLength, prev)
			}
			for _, off := range x.Offsets[1:] {
				if off < prev {
					return fmt.Errorf("%w: offsets decrease", errs.ErrVectorLength)
				}
				prev = off
			}
			if int(prev) != x.Child.Len() {
				return fmt.Errorf("%w: last offset %d, child has %d rows", errs.ErrVectorLength, prev, x.Child.Len())
			}
		}

		return Validate(x.Child)
	case *Void:
		if x.N < 0 {
			return fmt.Errorf("%w: negative row count", errs.ErrVectorLength)
		}

		return nil
	default:
		return fmt.Errorf("%w: %T", errs.ErrVectorTypeMismatch, v)
	}
}

func checkMask(mask []bool, n int) error {
	if mask != nil && len(mask) != n {
		return fmt.Errorf("%w: missing mask has %d entries for %d rows", errs.ErrVectorLength, len(mask), n)
	}

	return nil
}

func checkSerializer[T Elem](serializer string) error {
	if serializer != "" && KindOf[T]() != format.KindBytes {
		return fmt.Errorf("%w: %s column", errs.ErrSerializerNotBytes, KindOf[T]())
	}

	return nil
}

func validateScalar[T Elem](s *Scalar[T]) error {
	if err := checkMask(s.Missing, len(s.Values)); err != nil {
		return err
	}

	return checkSerializer[T](s.Serializer)
}

func validateList[T Elem](l *List[T]) error {
	if err := checkMask(l.Missing, len(l.Cells)); err != nil {
		return err
	}
	for i, c := range l.Cells {
		if err := checkMask(c.Missing, len(c.Values)); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}

	return checkSerializer[T](l.Serializer)
}

func validateSet[T Elem](s *Set[T]) error {
	if err := checkMask(s.Missing, len(s.Cells)); err != nil {
		return err
	}

	return checkSerializer[T](s.Serializer)
}

func validateDict[T DictElem](d *Dict[T]) error {
	n := len(d.Keys)
	if err := checkMask(d.Missing, n); err != nil {
		return err
	}
	if len(d.Entries.Values) != n {
		return fmt.Errorf("%w: %d dictionary entries for %d keys", errs.ErrVectorLength, len(d.Entries.Values), n)
	}
	if err := checkMask(d.Entries.Missing, n); err != nil {
		return err
	}
	if d.KeyType == format.DictKeyNone || !d.KeyType.IsValid() {
		return fmt.Errorf("%w: key type %d", errs.ErrInvalidDictEncoding, d.KeyType)
	}

	return nil
}
