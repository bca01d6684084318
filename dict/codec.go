package dict

import (
	"fmt"

	"github.com/dolthub/swiss"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/ktype"
)

// DefaultCacheSize is the number of key indexes a Decoder keeps.
const DefaultCacheSize = 128

// Encode replaces every plain string or blob vector in v whose type in t is dictionary encoded
// by its struct-dict storage. It recurses through struct fields and nested list children.
// Vectors that need no encoding are returned as is.
func Encode(t ktype.Type, v column.Vector, opts ...Option) (column.Vector, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return encode(t, v, cfg)
}

func encode(t ktype.Type, v column.Vector, cfg *config) (column.Vector, error) {
	switch x := t.(type) {
	case *ktype.Logical:
		return encode(x.Storage, v, cfg)
	case ktype.Primitive:
		if !x.IsDictEncoded() {
			return v, nil
		}
		leaf := *cfg
		leaf.keyType = x.DictKey()
		switch s := v.(type) {
		case *column.Scalar[string]:
			return createStorage(s.Values, s.Missing, &leaf)
		case *column.Scalar[[]byte]:
			return createStorage(s.Values, s.Missing, &leaf)
		}
	case *ktype.Struct:
		s, ok := v.(*column.Struct)
		if !ok || len(s.Fields) != len(x.Fields) {
			return v, nil
		}
		fields := make([]column.Vector, len(s.Fields))
		for i, f := range s.Fields {
			enc, err := encode(x.Fields[i], f, cfg)
			if err != nil {
				return nil, fmt.Errorf("field %d: %w", i, err)
			}
			fields[i] = enc
		}

		return &column.Struct{Fields: fields, Missing: s.Missing, N: s.N}, nil
	case *ktype.List:
		n, ok := v.(*column.Nested)
		if !ok {
			return v, nil
		}
		child, err := encode(x.Inner, n.Child, cfg)
		if err != nil {
			return nil, err
		}

		return &column.Nested{Offsets: n.Offsets, Child: child, Missing: n.Missing}, nil
	}

	return v, nil
}

// Resolve replaces every dictionary vector in v by the plain vector of its values,
// recursing through struct fields and nested list children.
func Resolve(v column.Vector) (column.Vector, error) {
	return resolve(v, nil)
}

// Decoder resolves dictionary vectors and caches the key index of each vector it has seen.
// Vectors must not be modified after they were first passed to a Decoder.
//
// A Decoder is safe for concurrent use.
type Decoder struct {
	indexes *lru.Cache[column.Vector, *swiss.Map[uint64, int]]
}

// NewDecoder creates a decoder caching up to size key indexes.
func NewDecoder(size int) (*Decoder, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[column.Vector, *swiss.Map[uint64, int]](size)
	if err != nil {
		return nil, err
	}

	return &Decoder{indexes: cache}, nil
}

// Resolve is like the package level Resolve but reuses cached key indexes.
func (d *Decoder) Resolve(v column.Vector) (column.Vector, error) {
	return resolve(v, d)
}

// Value returns the value of row i of v and whether the row is present.
func Value[T column.DictElem](d *Decoder, v *column.Dict[T], i int) (T, bool, error) {
	var zero T
	if i < 0 || i >= v.Len() {
		return zero, false, fmt.Errorf("row %d of %d: %w", i, v.Len(), errs.ErrRowIndex)
	}
	if v.IsMissing(i) {
		return zero, false, nil
	}

	pos, err := lookupIndex(d, v)
	if err != nil {
		return zero, false, err
	}
	p, ok := pos.Get(v.Keys[i])
	if !ok {
		return zero, false, fmt.Errorf("%w: key %d at row %d", errs.ErrDictKeyOutOfRange, v.Keys[i], i)
	}

	return v.Entries.Values[p], true, nil
}

func lookupIndex[T column.DictElem](d *Decoder, v *column.Dict[T]) (*swiss.Map[uint64, int], error) {
	if d != nil {
		if pos, ok := d.indexes.Get(v); ok {
			return pos, nil
		}
	}

	pos, err := index(v)
	if err != nil {
		return nil, err
	}
	if d != nil {
		d.indexes.Add(v, pos)
	}

	return pos, nil
}

func resolveDict[T column.DictElem](v *column.Dict[T], d *Decoder) (*column.Scalar[T], error) {
	pos, err := lookupIndex(d, v)
	if err != nil {
		return nil, err
	}

	return values(v, pos)
}

func resolve(v column.Vector, d *Decoder) (column.Vector, error) {
	switch x := v.(type) {
	case *column.Dict[string]:
		return resolveDict(x, d)
	case *column.Dict[[]byte]:
		return resolveDict(x, d)
	case *column.Struct:
		fields := make([]column.Vector, len(x.Fields))
		for i, f := range x.Fields {
			r, err := resolve(f, d)
			if err != nil {
				return nil, fmt.Errorf("field %d: %w", i, err)
			}
			fields[i] = r
		}

		return &column.Struct{Fields: fields, Missing: x.Missing, N: x.N}, nil
	case *column.Nested:
		child, err := resolve(x.Child, d)
		if err != nil {
			return nil, err
		}

		return &column.Nested{Offsets: x.Offsets, Child: child, Missing: x.Missing}, nil
	default:
		return v, nil
	}
}
