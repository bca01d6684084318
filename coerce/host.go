package coerce

import (
	"fmt"
	"math"
	"reflect"

	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
	"github.com/arloliu/ktable/ktype"
)

func mismatch(want string, got any) error {
	return fmt.Errorf("%w: want %s, got %T", errs.ErrValueKindMismatch, want, got)
}

func outOfRange(want string, got any) error {
	return fmt.Errorf("%w: %v does not fit %s", errs.ErrValueKindMismatch, got, want)
}

// asInt64 accepts every Go integer type.
func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, false
		}

		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}

		return int64(x), true
	default:
		return 0, false
	}
}

func toInt32(v any) (int32, error) {
	n, ok := asInt64(v)
	if !ok {
		return 0, mismatch("int32", v)
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, outOfRange("int32", v)
	}

	return int32(n), nil
}

func toInt64(v any) (int64, error) {
	n, ok := asInt64(v)
	if !ok {
		return 0, mismatch("int64", v)
	}

	return n, nil
}

func toDouble(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	}
	if n, ok := asInt64(v); ok {
		return float64(n), nil
	}

	return 0, mismatch("double", v)
}

func toBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, mismatch("bool", v)
	}

	return b, nil
}

func toString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", mismatch("string", v)
	}

	return s, nil
}

func toBlob(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, mismatch("blob", v)
	}

	return b, nil
}

// asSlice returns the elements of a slice or array value. []byte is a blob, not a slice.
func asSlice(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []byte:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out, true
}

// setKey returns the identity of a set member. Doubles compare by bit pattern and blobs by content.
func setKey[T column.Elem](v T) any {
	switch x := any(v).(type) {
	case float64:
		return math.Float64bits(x)
	case []byte:
		return string(x)
	default:
		return x
	}
}

// kindOf returns the storage kind of a non-null primitive.
func kindOf(p ktype.Primitive) format.Kind {
	switch p.ID() {
	case ktype.IDInt32:
		return format.KindInteger
	case ktype.IDInt64:
		return format.KindLong
	case ktype.IDDouble:
		return format.KindDouble
	case ktype.IDBool:
		return format.KindBoolean
	case ktype.IDString:
		return format.KindString
	case ktype.IDBlob:
		return format.KindBytes
	default:
		return 0
	}
}
