package dict

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/go-kit/log/level"

	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/errs"
)

// warnRatio is the share of the key space at which CreateStorage logs a capacity warning.
const warnRatio = 0.9

// mapKey returns a comparable form of v.
func mapKey[T column.DictElem](v T) string {
	switch x := any(v).(type) {
	case string:
		return x
	case []byte:
		return string(x)
	default:
		panic(fmt.Sprintf("unsupported dictionary value %T", v))
	}
}

// CreateStorage dictionary encodes values. Rows with missing[i] set are null; missing may be nil.
//
// Each distinct value gets the key returned by the key generator when it is first seen, so
// identical input always produces an identical dictionary. The value is stored at its first row only.
//
// Returns errs.ErrDictKeyOverflow when a key does not fit the configured key width.
func CreateStorage[T column.DictElem](values []T, missing []bool, opts ...Option) (*column.Dict[T], error) {
	if missing != nil && len(missing) != len(values) {
		return nil, fmt.Errorf("%w: %d missing flags for %d values", errs.ErrVectorLength, len(missing), len(values))
	}

	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return createStorage(values, missing, cfg)
}

func createStorage[T column.DictElem](values []T, missing []bool, cfg *config) (*column.Dict[T], error) {
	keyGen := cfg.keys
	if keyGen == nil {
		keyGen = NewSequential()
	}

	n := len(values)
	limit := cfg.keyType.MaxEntries()
	warnAt := uint64(float64(limit) * warnRatio)

	d := &column.Dict[T]{
		KeyType: cfg.keyType,
		Keys:    make([]uint64, n),
		Entries: column.Scalar[T]{
			Values:  make([]T, n),
			Missing: make([]bool, n),
		},
		Missing: make([]bool, n),
	}

	seen := swiss.NewMap[string, uint64](uint32(min(n, 1<<16))) //nolint: gosec
	for i, v := range values {
		if missing != nil && missing[i] {
			d.Missing[i] = true
			d.Entries.Missing[i] = true

			continue
		}

		k := mapKey(v)
		if key, ok := seen.Get(k); ok {
			d.Keys[i] = key
			d.Entries.Missing[i] = true

			continue
		}

		key := keyGen.Next()
		count := uint64(seen.Count()) + 1 //nolint: gosec
		if key >= limit || count > limit {
			return nil, fmt.Errorf("%w: key %d with %s allows %d entries", errs.ErrDictKeyOverflow, key, cfg.keyType, limit)
		}
		if count == warnAt {
			level.Warn(cfg.logger).Log("msg", "dictionary is approaching its key width capacity",
				"key_type", cfg.keyType.String(), "entries", count, "capacity", limit)
		}

		seen.Put(k, key)
		d.Keys[i] = key
		d.Entries.Values[i] = v
	}

	return d, nil
}

// Decode is the inverse of CreateStorage for dense sequential keys: values[i] = dictValues[keys[i]].
//
// Returns errs.ErrDictKeyOutOfRange when a key has no dictionary value.
func Decode[T any](keys []uint64, dictValues []T) ([]T, error) {
	out := make([]T, len(keys))
	for i, k := range keys {
		if k >= uint64(len(dictValues)) {
			return nil, fmt.Errorf("%w: key %d at row %d, dictionary has %d values", errs.ErrDictKeyOutOfRange, k, i, len(dictValues))
		}
		out[i] = dictValues[k]
	}

	return out, nil
}

// index maps every key of d to the row that stores its value.
func index[T column.DictElem](d *column.Dict[T]) (*swiss.Map[uint64, int], error) {
	pos := swiss.NewMap[uint64, int](8)
	for i, k := range d.Keys {
		if !d.HasEntry(i) {
			continue
		}
		if _, ok := pos.Get(k); ok {
			return nil, fmt.Errorf("%w: key %d stored twice", errs.ErrInvalidDictEncoding, k)
		}
		pos.Put(k, i)
	}

	return pos, nil
}

// values resolves every row of d using the key index pos.
func values[T column.DictElem](d *column.Dict[T], pos *swiss.Map[uint64, int]) (*column.Scalar[T], error) {
	n := d.Len()
	s := &column.Scalar[T]{Values: make([]T, n), Missing: make([]bool, n)}
	for i, k := range d.Keys {
		if d.IsMissing(i) {
			s.Missing[i] = true
			continue
		}
		p, ok := pos.Get(k)
		if !ok {
			return nil, fmt.Errorf("%w: key %d at row %d", errs.ErrDictKeyOutOfRange, k, i)
		}
		s.Values[i] = d.Entries.Values[p]
	}

	return s, nil
}

// rebuild creates a dictionary vector over rows picked from d, re-storing each
// value at its first row within the new vector.
func rebuild[T column.DictElem](d *column.Dict[T], resolved *column.Scalar[T], rows []int) *column.Dict[T] {
	n := len(rows)
	out := &column.Dict[T]{
		KeyType: d.KeyType,
		Keys:    make([]uint64, n),
		Entries: column.Scalar[T]{
			Values:  make([]T, n),
			Missing: make([]bool, n),
		},
		Missing: make([]bool, n),
	}

	stored := swiss.NewMap[uint64, struct{}](8)
	for j, i := range rows {
		if resolved.IsMissing(i) {
			out.Missing[j] = true
			out.Entries.Missing[j] = true

			continue
		}

		k := d.Keys[i]
		out.Keys[j] = k
		if stored.Has(k) {
			out.Entries.Missing[j] = true
			continue
		}
		stored.Put(k, struct{}{})
		out.Entries.Values[j] = resolved.Values[i]
	}

	return out
}

// Slice returns rows [start, end) of d as a self-contained dictionary vector.
func Slice[T column.DictElem](d *column.Dict[T], start, end int) (*column.Dict[T], error) {
	if start < 0 || end > d.Len() || start > end {
		return nil, fmt.Errorf("%w: slice [%d, %d) of %d rows", errs.ErrRowIndex, start, end, d.Len())
	}

	rows := make([]int, end-start)
	for j := range rows {
		rows[j] = start + j
	}

	return Take(d, rows)
}

// Take returns the given rows of d, in order, as a self-contained dictionary vector.
func Take[T column.DictElem](d *column.Dict[T], rows []int) (*column.Dict[T], error) {
	for _, i := range rows {
		if i < 0 || i >= d.Len() {
			return nil, fmt.Errorf("%w: row %d of %d", errs.ErrRowIndex, i, d.Len())
		}
	}

	pos, err := index(d)
	if err != nil {
		return nil, err
	}
	resolved, err := values(d, pos)
	if err != nil {
		return nil, err
	}

	return rebuild(d, resolved, rows), nil
}
