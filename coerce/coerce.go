package coerce

import (
	"fmt"

	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/convert"
	"github.com/arloliu/ktable/dict"
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/ktype"
)

// Coercer maps host values to vectors and back, resolving logical converters through a registry.
type Coercer struct {
	registry *convert.Registry
	dictOpts []dict.Option
	decoder  *dict.Decoder
}

// New creates a Coercer. A nil registry means convert.Default().
func New(registry *convert.Registry, dictOpts ...dict.Option) *Coercer {
	if registry == nil {
		registry = convert.Default()
	}

	return &Coercer{registry: registry, dictOpts: dictOpts}
}

// WithDecoder returns a copy of c that resolves dictionary vectors through d,
// reusing the key indexes d has cached.
func (c *Coercer) WithDecoder(d *dict.Decoder) *Coercer {
	out := *c
	out.decoder = d

	return &out
}

// Column builds the vector of column name from one host value per row.
// Dictionary encoded leaves of t are returned in struct-dict layout.
func Column(name string, t ktype.Type, values []any) (column.Vector, error) {
	return New(nil).Column(name, t, values)
}

// Values returns one host value per row of v, which must have been built for t.
func Values(name string, t ktype.Type, v column.Vector) ([]any, error) {
	return New(nil).Values(name, t, v)
}

// Column builds the vector of column name from one host value per row.
func (c *Coercer) Column(name string, t ktype.Type, values []any) (column.Vector, error) {
	if err := ktype.Validate(t); err != nil {
		return nil, err
	}

	b := builder{registry: c.registry, column: name}
	v, err := b.build(t, values, nil)
	if err != nil {
		return nil, err
	}

	return dict.Encode(t, v, c.dictOpts...)
}

// converter returns the converter of a logical type that needs one, or nil.
func converter(registry *convert.Registry, l *ktype.Logical) ktype.ValueConverter {
	if ktype.IsWrapTag(l.Tag) || l.Tag == ktype.SetTag {
		return nil
	}
	conv := l.Converter
	if conv == nil {
		conv = registry.Lookup(l.Tag)
	}
	if !conv.NeedsConversion() {
		return nil
	}

	return conv
}

type builder struct {
	registry *convert.Registry
	column   string
}

// rowError annotates err with the column name and the top level row of position i.
func (b *builder) rowError(rows []int, i int, err error) error {
	return fmt.Errorf("column %q, row %d: %w", b.column, rowOf(rows, i), err)
}

func rowOf(rows []int, i int) int {
	if rows == nil {
		return i
	}

	return rows[i]
}

// build creates the vector of t from vals. rows maps positions in vals to top level rows, nil means identity.
func (b *builder) build(t ktype.Type, vals []any, rows []int) (column.Vector, error) {
	switch x := t.(type) {
	case ktype.Primitive:
		return b.primitive(x, vals, rows)
	case *ktype.List:
		return b.list(x, vals, rows)
	case *ktype.Struct:
		return b.structure(x, vals, rows)
	case *ktype.Logical:
		return b.logical(x, vals, rows)
	default:
		return nil, fmt.Errorf("%w: %T", errs.ErrInvalidTypeDescriptor, t)
	}
}

func scalar[T column.Elem](b *builder, vals []any, rows []int, conv func(any) (T, error)) (*column.Scalar[T], error) {
	s := &column.Scalar[T]{Values: make([]T, len(vals)), Missing: make([]bool, len(vals))}
	for i, v := range vals {
		if v == nil {
			s.Missing[i] = true
			continue
		}
		x, err := conv(v)
		if err != nil {
			return nil, b.rowError(rows, i, err)
		}
		s.Values[i] = x
	}

	return s, nil
}

func (b *builder) primitive(p ktype.Primitive, vals []any, rows []int) (column.Vector, error) {
	switch p.ID() {
	case ktype.IDInt32:
		return scalar(b, vals, rows, toInt32)
	case ktype.IDInt64:
		return scalar(b, vals, rows, toInt64)
	case ktype.IDDouble:
		return scalar(b, vals, rows, toDouble)
	case ktype.IDBool:
		return scalar(b, vals, rows, toBool)
	case ktype.IDString:
		return scalar(b, vals, rows, toString)
	case ktype.IDBlob:
		return scalar(b, vals, rows, toBlob)
	default:
		for i, v := range vals {
			if v != nil {
				return nil, b.rowError(rows, i, mismatch("null", v))
			}
		}

		return &column.Void{N: len(vals)}, nil
	}
}

// isPlainPrimitive reports whether t can be the element type of a List or Set vector.
func isPlainPrimitive(t ktype.Type) (ktype.Primitive, bool) {
	p, ok := t.(ktype.Primitive)
	if !ok || p.IsDictEncoded() || p.ID() == ktype.IDNull {
		return ktype.Primitive{}, false
	}

	return p, true
}

func listOf[T column.Elem](b *builder, vals []any, rows []int, conv func(any) (T, error)) (*column.List[T], error) {
	l := &column.List[T]{Cells: make([]column.ListCell[T], len(vals)), Missing: make([]bool, len(vals))}
	for i, v := range vals {
		if v == nil {
			l.Missing[i] = true
			continue
		}
		elems, ok := asSlice(v)
		if !ok {
			return nil, b.rowError(rows, i, mismatch("list", v))
		}
		cell := column.ListCell[T]{Values: make([]T, len(elems)), Missing: make([]bool, len(elems))}
		for j, e := range elems {
			if e == nil {
				cell.Missing[j] = true
				continue
			}
			x, err := conv(e)
			if err != nil {
				return nil, b.rowError(rows, i, fmt.Errorf("element %d: %w", j, err))
			}
			cell.Values[j] = x
		}
		l.Cells[i] = cell
	}

	return l, nil
}

func setOf[T column.Elem](b *builder, vals []any, rows []int, conv func(any) (T, error)) (*column.Set[T], error) {
	s := &column.Set[T]{Cells: make([]column.SetCell[T], len(vals)), Missing: make([]bool, len(vals))}
	for i, v := range vals {
		if v == nil {
			s.Missing[i] = true
			continue
		}
		elems, ok := asSlice(v)
		if !ok {
			return nil, b.rowError(rows, i, mismatch("set", v))
		}
		cell := column.SetCell[T]{Values: make([]T, 0, len(elems))}
		seen := make(map[any]struct{}, len(elems))
		for j, e := range elems {
			if e == nil {
				cell.HasNull = true
				continue
			}
			x, err := conv(e)
			if err != nil {
				return nil, b.rowError(rows, i, fmt.Errorf("element %d: %w", j, err))
			}
			k := setKey(x)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			cell.Values = append(cell.Values, x)
		}
		s.Cells[i] = cell
	}

	return s, nil
}

func (b *builder) list(l *ktype.List, vals []any, rows []int) (column.Vector, error) {
	if p, ok := isPlainPrimitive(l.Inner); ok {
		switch p.ID() {
		case ktype.IDInt32:
			return listOf(b, vals, rows, toInt32)
		case ktype.IDInt64:
			return listOf(b, vals, rows, toInt64)
		case ktype.IDDouble:
			return listOf(b, vals, rows, toDouble)
		case ktype.IDBool:
			return listOf(b, vals, rows, toBool)
		case ktype.IDString:
			return listOf(b, vals, rows, toString)
		default:
			return listOf(b, vals, rows, toBlob)
		}
	}

	return b.nested(l, vals, rows)
}

// nested flattens the elements of every row into one child vector.
func (b *builder) nested(l *ktype.List, vals []any, rows []int) (column.Vector, error) {
	n := &column.Nested{Offsets: make([]int32, 1, len(vals)+1), Missing: make([]bool, len(vals))}
	var (
		childVals []any
		childRows []int
	)
	for i, v := range vals {
		if v == nil {
			n.Missing[i] = true
		} else {
			elems, ok := asSlice(v)
			if !ok {
				return nil, b.rowError(rows, i, mismatch("list", v))
			}
			childVals = append(childVals, elems...)
			for range elems {
				childRows = append(childRows, rowOf(rows, i))
			}
		}
		if len(childVals) > 1<<31-1 {
			return nil, fmt.Errorf("%w: column %q has more than 2^31 list elements", errs.ErrUnsupportedNesting, b.column)
		}
		n.Offsets = append(n.Offsets, int32(len(childVals))) //nolint: gosec
	}

	child, err := b.build(l.Inner, childVals, childRows)
	if err != nil {
		return nil, err
	}
	n.Child = child

	return n, nil
}

func (b *builder) structure(s *ktype.Struct, vals []any, rows []int) (column.Vector, error) {
	out := &column.Struct{Fields: make([]column.Vector, len(s.Fields)), Missing: make([]bool, len(vals)), N: len(vals)}
	fieldVals := make([][]any, len(s.Fields))
	for f := range fieldVals {
		fieldVals[f] = make([]any, len(vals))
	}

	for i, v := range vals {
		if v == nil {
			out.Missing[i] = true
			continue
		}
		fields, ok := asSlice(v)
		if !ok || len(fields) != len(s.Fields) {
			return nil, b.rowError(rows, i, mismatch(fmt.Sprintf("struct of %d fields", len(s.Fields)), v))
		}
		for f, fv := range fields {
			fieldVals[f][i] = fv
		}
	}

	for f, ft := range s.Fields {
		field, err := b.build(ft, fieldVals[f], rows)
		if err != nil {
			return nil, err
		}
		out.Fields[f] = field
	}

	return out, nil
}

// setElement peels the logical layers of a set element type down to its primitive storage and
// returns the converters met on the way, outermost first.
func setElement(registry *convert.Registry, inner ktype.Type) (ktype.Primitive, []ktype.ValueConverter, bool) {
	var convs []ktype.ValueConverter
	for {
		l, ok := inner.(*ktype.Logical)
		if !ok {
			break
		}
		if _, nested := ktype.IsSet(l); nested {
			return ktype.Primitive{}, nil, false
		}
		if conv := converter(registry, l); conv != nil {
			convs = append(convs, conv)
		}
		inner = l.Storage
	}

	p, ok := isPlainPrimitive(inner)

	return p, convs, ok
}

func (b *builder) set(inner ktype.Type, vals []any, rows []int) (column.Vector, error) {
	p, convs, ok := setElement(b.registry, inner)
	if !ok {
		return nil, fmt.Errorf("%w: column %q: set of %s", errs.ErrUnsupportedNesting, b.column, inner)
	}

	if len(convs) > 0 {
		elems := convert.Elements(convs...)
		stored := make([]any, len(vals))
		for i, v := range vals {
			if v == nil {
				continue
			}
			members, ok := asSlice(v)
			if !ok {
				return nil, b.rowError(rows, i, mismatch("set", v))
			}
			s, err := elems.Encode(members)
			if err != nil {
				return nil, errs.NewConversionError(b.column, rowOf(rows, i), err)
			}
			stored[i] = s
		}
		vals = stored
	}

	switch p.ID() {
	case ktype.IDInt32:
		return setOf(b, vals, rows, toInt32)
	case ktype.IDInt64:
		return setOf(b, vals, rows, toInt64)
	case ktype.IDDouble:
		return setOf(b, vals, rows, toDouble)
	case ktype.IDBool:
		return setOf(b, vals, rows, toBool)
	case ktype.IDString:
		return setOf(b, vals, rows, toString)
	default:
		return setOf(b, vals, rows, toBlob)
	}
}

func (b *builder) logical(l *ktype.Logical, vals []any, rows []int) (column.Vector, error) {
	if inner, ok := ktype.IsSet(l); ok {
		return b.set(inner, vals, rows)
	}

	if conv := converter(b.registry, l); conv != nil {
		stored := make([]any, len(vals))
		for i, v := range vals {
			if v == nil {
				continue
			}
			s, err := conv.Encode(v)
			if err != nil {
				return nil, errs.NewConversionError(b.column, rowOf(rows, i), err)
			}
			stored[i] = s
		}
		vals = stored
	}

	v, err := b.build(l.Storage, vals, rows)
	if err != nil {
		return nil, err
	}

	if p, ok := l.Storage.(ktype.Primitive); ok && p.ID() == ktype.IDBlob && !ktype.IsWrapTag(l.Tag) {
		if s, ok := v.(*column.Scalar[[]byte]); ok {
			s.Serializer = l.Tag
		}
	}

	return v, nil
}
