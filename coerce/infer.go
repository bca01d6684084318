package coerce

import (
	"fmt"

	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/ktype"
)

// InferType returns the column type of a sequence of host values, using the default registry.
func InferType(values []any) (ktype.Type, error) {
	return New(nil).InferType(values)
}

// InferType returns the column type of a sequence of host values.
//
// The first non-nil value decides. Registered host types map to their logical type, slices to
// lists of the type inferred from all their elements, and a sequence of nils to the null type.
func (c *Coercer) InferType(values []any) (ktype.Type, error) {
	for _, v := range values {
		if v == nil {
			continue
		}

		return c.inferValue(v, values)
	}

	return ktype.Null(), nil
}

func (c *Coercer) inferValue(v any, all []any) (ktype.Type, error) {
	if b, ok := c.registry.ForValue(v); ok {
		if l := b.LogicalType(); l != nil {
			return l, nil
		}
	}

	switch v.(type) {
	case bool:
		return ktype.Bool(), nil
	case int32:
		return ktype.Int32(), nil
	case int, int8, int16, int64, uint8, uint16, uint32, uint, uint64:
		return ktype.Int64(), nil
	case float32, float64:
		return ktype.Double(), nil
	case string:
		return ktype.String(), nil
	case []byte:
		return ktype.Blob(), nil
	}

	if _, ok := asSlice(v); ok {
		var elems []any
		for _, row := range all {
			if items, ok := asSlice(row); ok {
				elems = append(elems, items...)
			}
		}
		inner, err := c.InferType(elems)
		if err != nil {
			return nil, err
		}

		return ktype.ListOf(inner), nil
	}

	return nil, fmt.Errorf("%w: %T", errs.ErrUnsupportedHostType, v)
}
