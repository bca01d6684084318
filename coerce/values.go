package coerce

import (
	"fmt"

	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/convert"
	"github.com/arloliu/ktable/dict"
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/ktype"
)

// Values returns one host value per row of v. Dictionary encoded leaves are resolved
// before any logical converter runs.
func (c *Coercer) Values(name string, t ktype.Type, v column.Vector) ([]any, error) {
	if err := ktype.Validate(t); err != nil {
		return nil, err
	}

	var (
		resolved column.Vector
		err      error
	)
	if c.decoder != nil {
		resolved, err = c.decoder.Resolve(v)
	} else {
		resolved, err = dict.Resolve(v)
	}
	if err != nil {
		return nil, err
	}

	r := reader{registry: c.registry, column: name}

	return r.values(t, resolved, nil)
}

type reader struct {
	registry *convert.Registry
	column   string
}

func (r *reader) typeMismatch(t ktype.Type, v column.Vector) error {
	return fmt.Errorf("%w: column %q: %s vector for type %s", errs.ErrVectorTypeMismatch, r.column, v.Type(), t)
}

func scalarValues[T column.Elem](s *column.Scalar[T]) []any {
	out := make([]any, s.Len())
	for i, v := range s.Values {
		if !s.IsMissing(i) {
			out[i] = v
		}
	}

	return out
}

func listValues[T column.Elem](l *column.List[T]) []any {
	out := make([]any, l.Len())
	for i, c := range l.Cells {
		if l.IsMissing(i) {
			continue
		}
		elems := make([]any, len(c.Values))
		for j, v := range c.Values {
			if !c.IsMissing(j) {
				elems[j] = v
			}
		}
		out[i] = elems
	}

	return out
}

func setValues[T column.Elem](s *column.Set[T]) []any {
	out := make([]any, s.Len())
	for i, c := range s.Cells {
		if s.IsMissing(i) {
			continue
		}
		elems := make([]any, 0, len(c.Values)+1)
		for _, v := range c.Values {
			elems = append(elems, v)
		}
		if c.HasNull {
			elems = append(elems, nil)
		}
		out[i] = elems
	}

	return out
}

// values returns the host values of v. rows maps positions to top level rows, nil means identity.
func (r *reader) values(t ktype.Type, v column.Vector, rows []int) ([]any, error) {
	switch x := t.(type) {
	case ktype.Primitive:
		return r.primitive(x, v)
	case *ktype.List:
		return r.list(x, v, rows)
	case *ktype.Struct:
		return r.structure(x, v, rows)
	case *ktype.Logical:
		return r.logical(x, v, rows)
	default:
		return nil, fmt.Errorf("%w: %T", errs.ErrInvalidTypeDescriptor, t)
	}
}

func (r *reader) primitive(p ktype.Primitive, v column.Vector) ([]any, error) {
	switch s := v.(type) {
	case *column.Scalar[int32]:
		if p.ID() == ktype.IDInt32 {
			return scalarValues(s), nil
		}
	case *column.Scalar[int64]:
		if p.ID() == ktype.IDInt64 {
			return scalarValues(s), nil
		}
	case *column.Scalar[float64]:
		if p.ID() == ktype.IDDouble {
			return scalarValues(s), nil
		}
	case *column.Scalar[bool]:
		if p.ID() == ktype.IDBool {
			return scalarValues(s), nil
		}
	case *column.Scalar[string]:
		if p.ID() == ktype.IDString {
			return scalarValues(s), nil
		}
	case *column.Scalar[[]byte]:
		if p.ID() == ktype.IDBlob {
			return scalarValues(s), nil
		}
	case *column.Void:
		if p.ID() == ktype.IDNull {
			return make([]any, s.Len()), nil
		}
	}

	return nil, r.typeMismatch(p, v)
}

func (r *reader) list(l *ktype.List, v column.Vector, rows []int) ([]any, error) {
	if p, ok := isPlainPrimitive(l.Inner); ok {
		var out []any
		switch x := v.(type) {
		case *column.List[int32]:
			out = listValues(x)
		case *column.List[int64]:
			out = listValues(x)
		case *column.List[float64]:
			out = listValues(x)
		case *column.List[bool]:
			out = listValues(x)
		case *column.List[string]:
			out = listValues(x)
		case *column.List[[]byte]:
			out = listValues(x)
		default:
			return nil, r.typeMismatch(l, v)
		}
		if v.Type().Kind() != kindOf(p) {
			return nil, r.typeMismatch(l, v)
		}

		return out, nil
	}

	n, ok := v.(*column.Nested)
	if !ok {
		return nil, r.typeMismatch(l, v)
	}

	childRows := make([]int, n.Child.Len())
	for i := range n.Len() {
		start, end := n.Range(i)
		for j := start; j < end; j++ {
			childRows[j] = rowOf(rows, i)
		}
	}
	child, err := r.values(l.Inner, n.Child, childRows)
	if err != nil {
		return nil, err
	}

	out := make([]any, n.Len())
	for i := range out {
		if n.IsMissing(i) {
			continue
		}
		start, end := n.Range(i)
		out[i] = append([]any{}, child[start:end]...)
	}

	return out, nil
}

func (r *reader) structure(s *ktype.Struct, v column.Vector, rows []int) ([]any, error) {
	x, ok := v.(*column.Struct)
	if !ok || len(x.Fields) != len(s.Fields) {
		return nil, r.typeMismatch(s, v)
	}

	fields := make([][]any, len(s.Fields))
	for f, ft := range s.Fields {
		fv, err := r.values(ft, x.Fields[f], rows)
		if err != nil {
			return nil, err
		}
		fields[f] = fv
	}

	out := make([]any, x.Len())
	for i := range out {
		if x.IsMissing(i) {
			continue
		}
		row := make([]any, len(fields))
		for f := range fields {
			row[f] = fields[f][i]
		}
		out[i] = row
	}

	return out, nil
}

func (r *reader) set(l *ktype.Logical, inner ktype.Type, v column.Vector, rows []int) ([]any, error) {
	p, convs, ok := setElement(r.registry, inner)
	if !ok || v.Type().Kind() != kindOf(p) {
		return nil, r.typeMismatch(l, v)
	}

	var out []any
	switch x := v.(type) {
	case *column.Set[int32]:
		out = setValues(x)
	case *column.Set[int64]:
		out = setValues(x)
	case *column.Set[float64]:
		out = setValues(x)
	case *column.Set[bool]:
		out = setValues(x)
	case *column.Set[string]:
		out = setValues(x)
	case *column.Set[[]byte]:
		out = setValues(x)
	default:
		return nil, r.typeMismatch(l, v)
	}
	if len(convs) == 0 {
		return out, nil
	}

	elems := convert.Elements(convs...)
	for i, members := range out {
		if members == nil {
			continue
		}
		host, err := elems.Decode(members)
		if err != nil {
			return nil, errs.NewConversionError(r.column, rowOf(rows, i), err)
		}
		out[i] = host
	}

	return out, nil
}

func (r *reader) logical(l *ktype.Logical, v column.Vector, rows []int) ([]any, error) {
	if inner, ok := ktype.IsSet(l); ok {
		return r.set(l, inner, v, rows)
	}

	stored, err := r.values(l.Storage, v, rows)
	if err != nil {
		return nil, err
	}

	conv := converter(r.registry, l)
	if conv == nil {
		return stored, nil
	}

	out := make([]any, len(stored))
	for i, s := range stored {
		if s == nil {
			continue
		}
		host, err := conv.Decode(s)
		if err != nil {
			return nil, errs.NewConversionError(r.column, rowOf(rows, i), err)
		}
		out[i] = host
	}

	return out, nil
}
