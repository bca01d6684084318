package arrowconv

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/dict"
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/ktype"
)

// ToArray converts v, a vector of type t, to an Arrow array allocated from mem.
//
// Plain string and blob vectors of dictionary encoded types are dictionary encoded first.
// The returned array owns its memory.
func ToArray(mem memory.Allocator, t ktype.Type, v column.Vector) (arrow.Array, error) {
	dt, err := DataType(t)
	if err != nil {
		return nil, err
	}
	if err := column.Validate(v); err != nil {
		return nil, err
	}
	v, err = dict.Encode(t, v)
	if err != nil {
		return nil, err
	}

	b := array.NewBuilder(mem, dt)
	defer b.Release()

	if err := appendRange(b, t, v, 0, v.Len()); err != nil {
		return nil, err
	}

	return b.NewArray(), nil
}

func mismatch(t ktype.Type, v column.Vector) error {
	return fmt.Errorf("%w: %T for %s", errs.ErrVectorTypeMismatch, v, t)
}

// validity returns the Arrow validity of rows start to end, nil when all are valid.
func validity(missing []bool, start, end int) []bool {
	if missing == nil {
		return nil
	}

	valid := make([]bool, end-start)
	for i := range valid {
		valid[i] = !missing[start+i]
	}

	return valid
}

// present is like validity but never returns nil.
func present(missing []bool, start, end int) []bool {
	if valid := validity(missing, start, end); valid != nil {
		return valid
	}

	valid := make([]bool, end-start)
	for i := range valid {
		valid[i] = true
	}

	return valid
}

// appendRange appends rows start to end of v to b.
func appendRange(b array.Builder, t ktype.Type, v column.Vector, start, end int) error {
	switch x := t.(type) {
	case *ktype.Logical:
		eb, ok := b.(*array.ExtensionBuilder)
		if !ok {
			return mismatch(t, v)
		}
		if inner, ok := ktype.IsSet(x); ok {
			return appendSet(eb.StorageBuilder(), inner, v, start, end)
		}

		return appendRange(eb.StorageBuilder(), x.Storage, v, start, end)
	case ktype.Primitive:
		if x.IsDictEncoded() {
			eb, ok := b.(*array.ExtensionBuilder)
			if !ok {
				return mismatch(t, v)
			}

			return appendDict(eb.StorageBuilder(), x, v, start, end)
		}

		return appendPrimitive(b, x, v, start, end)
	case *ktype.List:
		lb, ok := b.(*array.LargeListBuilder)
		if !ok {
			return mismatch(t, v)
		}
		if n, ok := v.(*column.Nested); ok {
			return appendNested(lb, x.Inner, n, start, end)
		}

		return appendList(lb, x, v, start, end)
	case *ktype.Struct:
		sb, ok := b.(*array.StructBuilder)
		s, vok := v.(*column.Struct)
		if !ok || !vok || len(s.Fields) != len(x.Fields) {
			return mismatch(t, v)
		}
		// AppendValues only sets the struct validity; the children are filled below.
		sb.AppendValues(present(s.Missing, start, end))
		for f, ft := range x.Fields {
			if err := appendRange(sb.FieldBuilder(f), ft, s.Fields[f], start, end); err != nil {
				return fmt.Errorf("field %d: %w", f, err)
			}
		}

		return nil
	default:
		return mismatch(t, v)
	}
}

// appendSlice appends vals to a builder of the matching Arrow type.
func appendSlice[T column.Elem](b array.Builder, vals []T, valid []bool) error {
	switch bb := b.(type) {
	case *array.BooleanBuilder:
		if x, ok := any(vals).([]bool); ok {
			bb.AppendValues(x, valid)
			return nil
		}
	case *array.Int32Builder:
		if x, ok := any(vals).([]int32); ok {
			bb.AppendValues(x, valid)
			return nil
		}
	case *array.Int64Builder:
		if x, ok := any(vals).([]int64); ok {
			bb.AppendValues(x, valid)
			return nil
		}
	case *array.Float64Builder:
		if x, ok := any(vals).([]float64); ok {
			bb.AppendValues(x, valid)
			return nil
		}
	case *array.StringBuilder:
		if x, ok := any(vals).([]string); ok {
			bb.AppendValues(x, valid)
			return nil
		}
	case *array.BinaryBuilder:
		if x, ok := any(vals).([][]byte); ok {
			bb.AppendValues(x, valid)
			return nil
		}
	}

	return fmt.Errorf("%w: %T values into %s", errs.ErrVectorTypeMismatch, vals, b.Type())
}

func appendScalar[T column.Elem](b array.Builder, s *column.Scalar[T], start, end int) error {
	return appendSlice(b, s.Values[start:end], validity(s.Missing, start, end))
}

func appendPrimitive(b array.Builder, p ktype.Primitive, v column.Vector, start, end int) error {
	switch x := v.(type) {
	case *column.Scalar[bool]:
		return appendScalar(b, x, start, end)
	case *column.Scalar[int32]:
		return appendScalar(b, x, start, end)
	case *column.Scalar[int64]:
		return appendScalar(b, x, start, end)
	case *column.Scalar[float64]:
		return appendScalar(b, x, start, end)
	case *column.Scalar[string]:
		return appendScalar(b, x, start, end)
	case *column.Scalar[[]byte]:
		return appendScalar(b, x, start, end)
	case *column.Void:
		if p.ID() != ktype.IDNull {
			return mismatch(p, v)
		}
		b.AppendNulls(end - start)

		return nil
	default:
		return mismatch(p, v)
	}
}

func appendListCells[T column.Elem](lb *array.LargeListBuilder, l *column.List[T], start, end int) error {
	vb := lb.ValueBuilder()
	for i := start; i < end; i++ {
		if l.IsMissing(i) {
			lb.AppendNull()
			continue
		}
		lb.Append(true)
		cell := l.Cells[i]
		if err := appendSlice(vb, cell.Values, validity(cell.Missing, 0, len(cell.Values))); err != nil {
			return err
		}
	}

	return nil
}

func appendList(lb *array.LargeListBuilder, t *ktype.List, v column.Vector, start, end int) error {
	switch x := v.(type) {
	case *column.List[bool]:
		return appendListCells(lb, x, start, end)
	case *column.List[int32]:
		return appendListCells(lb, x, start, end)
	case *column.List[int64]:
		return appendListCells(lb, x, start, end)
	case *column.List[float64]:
		return appendListCells(lb, x, start, end)
	case *column.List[string]:
		return appendListCells(lb, x, start, end)
	case *column.List[[]byte]:
		return appendListCells(lb, x, start, end)
	default:
		return mismatch(t, v)
	}
}

// appendNested writes the list offsets of rows start to end in one call and then appends the
// child rows they span.
func appendNested(lb *array.LargeListBuilder, inner ktype.Type, n *column.Nested, start, end int) error {
	if start == end {
		return nil
	}

	vb := lb.ValueBuilder()
	first, last := int(n.Offsets[start]), int(n.Offsets[end])
	base := int64(vb.Len())

	offsets := make([]int64, end-start)
	for i := range offsets {
		offsets[i] = base + int64(int(n.Offsets[start+i])-first)
	}
	lb.AppendValues(offsets, present(n.Missing, start, end))

	return appendRange(vb, inner, n.Child, first, last)
}

func appendSetCells[T column.Elem](lb *array.LargeListBuilder, s *column.Set[T], start, end int) error {
	vb := lb.ValueBuilder()
	for i := start; i < end; i++ {
		if s.IsMissing(i) {
			lb.AppendNull()
			continue
		}
		lb.Append(true)
		cell := s.Cells[i]
		if err := appendSlice(vb, cell.Values, nil); err != nil {
			return err
		}
		if cell.HasNull {
			vb.AppendNull()
		}
	}

	return nil
}

// appendSet writes sets as lists; a set holding a null member gets one trailing null element.
func appendSet(b array.Builder, inner ktype.Type, v column.Vector, start, end int) error {
	lb, ok := b.(*array.LargeListBuilder)
	if !ok {
		return mismatch(ktype.SetOf(inner), v)
	}

	switch x := v.(type) {
	case *column.Set[bool]:
		return appendSetCells(lb, x, start, end)
	case *column.Set[int32]:
		return appendSetCells(lb, x, start, end)
	case *column.Set[int64]:
		return appendSetCells(lb, x, start, end)
	case *column.Set[float64]:
		return appendSetCells(lb, x, start, end)
	case *column.Set[string]:
		return appendSetCells(lb, x, start, end)
	case *column.Set[[]byte]:
		return appendSetCells(lb, x, start, end)
	default:
		return mismatch(ktype.SetOf(inner), v)
	}
}

func appendKey(b array.Builder, key uint64) error {
	switch kb := b.(type) {
	case *array.Uint8Builder:
		if key > 0xff {
			return fmt.Errorf("%w: key %d", errs.ErrDictKeyOverflow, key)
		}
		kb.Append(uint8(key))
	case *array.Uint32Builder:
		if key > 0xffffffff {
			return fmt.Errorf("%w: key %d", errs.ErrDictKeyOverflow, key)
		}
		kb.Append(uint32(key))
	case *array.Uint64Builder:
		kb.Append(key)
	default:
		return fmt.Errorf("%w: key builder %s", errs.ErrInvalidDictEncoding, b.Type())
	}

	return nil
}

func appendDictRows[T column.DictElem](sb *array.StructBuilder, d *column.Dict[T], start, end int) error {
	kb, vb := sb.FieldBuilder(0), sb.FieldBuilder(1)
	entryValid := make([]bool, end-start)
	for i := start; i < end; i++ {
		entryValid[i-start] = d.HasEntry(i)
	}
	sb.AppendValues(present(d.Missing, start, end))

	for i := start; i < end; i++ {
		if d.IsMissing(i) {
			kb.AppendNull()
			continue
		}
		if err := appendKey(kb, d.Keys[i]); err != nil {
			return err
		}
	}

	return appendSlice(vb, d.Entries.Values[start:end], entryValid)
}

func appendDict(b array.Builder, p ktype.Primitive, v column.Vector, start, end int) error {
	sb, ok := b.(*array.StructBuilder)
	if !ok {
		return mismatch(p, v)
	}

	switch x := v.(type) {
	case *column.Dict[string]:
		if p.ID() != ktype.IDString || x.KeyType != p.DictKey() {
			return mismatch(p, v)
		}

		return appendDictRows(sb, x, start, end)
	case *column.Dict[[]byte]:
		if p.ID() != ktype.IDBlob || x.KeyType != p.DictKey() {
			return mismatch(p, v)
		}

		return appendDictRows(sb, x, start, end)
	default:
		return mismatch(p, v)
	}
}
