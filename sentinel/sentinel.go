package sentinel

import (
	"fmt"
	"math"
	"strconv"

	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/errs"
)

type kind uint8

const (
	kindMin kind = iota + 1
	kindMax
	kindLiteral
)

// Sentinel is "min", "max" or a literal integer. Min and max resolve to the bounds of the column's bit width.
// The zero Sentinel is invalid.
type Sentinel struct {
	kind  kind
	value int64
}

// Min returns the sentinel resolving to math.MinInt32 or math.MinInt64.
func Min() Sentinel { return Sentinel{kind: kindMin} }

// Max returns the sentinel resolving to math.MaxInt32 or math.MaxInt64.
func Max() Sentinel { return Sentinel{kind: kindMax} }

// Literal returns a sentinel with a fixed value.
func Literal(v int64) Sentinel { return Sentinel{kind: kindLiteral, value: v} }

// Parse parses "min", "max" or a base-10 integer.
func Parse(s string) (Sentinel, error) {
	switch s {
	case "min":
		return Min(), nil
	case "max":
		return Max(), nil
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Sentinel{}, fmt.Errorf("%w: %q", errs.ErrInvalidSentinel, s)
	}

	return Literal(v), nil
}

func (s Sentinel) String() string {
	switch s.kind {
	case kindMin:
		return "min"
	case kindMax:
		return "max"
	case kindLiteral:
		return strconv.FormatInt(s.value, 10)
	default:
		return "invalid"
	}
}

// Integer is the set of column value types a sentinel applies to.
type Integer interface {
	~int32 | ~int64
}

// is32 reports whether T is 32 bits wide.
func is32[T Integer]() bool {
	x := T(max32)
	x++

	return x < 0
}

var (
	min32 int64 = math.MinInt32
	max32 int64 = math.MaxInt32
	min64 int64 = math.MinInt64
	max64 int64 = math.MaxInt64
)

// Resolve returns the value of s for T. A literal outside the range of T is an error.
func Resolve[T Integer](s Sentinel) (T, error) {
	wide := !is32[T]()

	switch s.kind {
	case kindMin:
		if wide {
			return T(min64), nil
		}
		return T(min32), nil
	case kindMax:
		if wide {
			return T(max64), nil
		}
		return T(max32), nil
	case kindLiteral:
		if !wide && (s.value < min32 || s.value > max32) {
			return 0, fmt.Errorf("%w: %d does not fit in int32", errs.ErrInvalidSentinel, s.value)
		}
		return T(s.value), nil
	default:
		return 0, fmt.Errorf("%w: zero value", errs.ErrInvalidSentinel)
	}
}

// Insert returns a copy of values with every missing slot set to the sentinel.
func Insert[T Integer](values []T, missing []bool, s Sentinel) ([]T, error) {
	if missing != nil && len(missing) != len(values) {
		return nil, fmt.Errorf("%w: %d values, %d missing flags", errs.ErrVectorLength, len(values), len(missing))
	}
	v, err := Resolve[T](s)
	if err != nil {
		return nil, err
	}

	out := make([]T, len(values))
	copy(out, values)
	for i, m := range missing {
		if m {
			out[i] = v
		}
	}

	return out, nil
}

// ToMissing returns the missing mask of values: true wherever a value equals the sentinel.
func ToMissing[T Integer](values []T, s Sentinel) ([]bool, error) {
	v, err := Resolve[T](s)
	if err != nil {
		return nil, err
	}

	missing := make([]bool, len(values))
	for i, x := range values {
		missing[i] = x == v
	}

	return missing, nil
}

// InsertVector applies Insert to INTEGER and LONG scalar vectors that have missing values.
// Any other vector is returned unchanged.
func InsertVector(v column.Vector, s Sentinel) (column.Vector, error) {
	switch x := v.(type) {
	case *column.Scalar[int32]:
		return insertScalar(x, s)
	case *column.Scalar[int64]:
		return insertScalar(x, s)
	default:
		return v, nil
	}
}

func insertScalar[T int32 | int64](x *column.Scalar[T], s Sentinel) (column.Vector, error) {
	if !hasMissing(x.Missing) {
		return x, nil
	}
	vals, err := Insert(x.Values, x.Missing, s)
	if err != nil {
		return nil, err
	}

	return &column.Scalar[T]{Values: vals}, nil
}

// ToMissingVector applies ToMissing to INTEGER and LONG scalar vectors. Slots that were already
// missing stay missing. Any other vector is returned unchanged.
func ToMissingVector(v column.Vector, s Sentinel) (column.Vector, error) {
	switch x := v.(type) {
	case *column.Scalar[int32]:
		return toMissingScalar(x, s)
	case *column.Scalar[int64]:
		return toMissingScalar(x, s)
	default:
		return v, nil
	}
}

func toMissingScalar[T int32 | int64](x *column.Scalar[T], s Sentinel) (column.Vector, error) {
	if err := column.Validate(x); err != nil {
		return nil, err
	}
	missing, err := ToMissing(x.Values, s)
	if err != nil {
		return nil, err
	}

	vals := make([]T, len(x.Values))
	for i, v := range x.Values {
		if x.IsMissing(i) {
			missing[i] = true
		}
		if !missing[i] {
			vals[i] = v
		}
	}

	return &column.Scalar[T]{Values: vals, Missing: missing, Serializer: x.Serializer}, nil
}

func hasMissing(missing []bool) bool {
	for _, m := range missing {
		if m {
			return true
		}
	}

	return false
}
