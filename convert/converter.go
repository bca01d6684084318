package convert

import (
	"github.com/arloliu/ktable/ktype"
)

// ValueConverter translates between host and storage values. See ktype.ValueConverter.
type ValueConverter = ktype.ValueConverter

// Func builds a converter from a pair of functions.
type Func struct {
	EncodeFn func(any) (any, error)
	DecodeFn func(any) (any, error)
}

var _ ValueConverter = (*Func)(nil)

// NeedsConversion reports whether either function is set.
func (f *Func) NeedsConversion() bool {
	return f.EncodeFn != nil || f.DecodeFn != nil
}

// Encode applies EncodeFn, or returns value unchanged when it is nil.
func (f *Func) Encode(value any) (any, error) {
	if f.EncodeFn == nil {
		return value, nil
	}

	return f.EncodeFn(value)
}

// Decode applies DecodeFn, or returns value unchanged when it is nil.
func (f *Func) Decode(value any) (any, error) {
	if f.DecodeFn == nil {
		return value, nil
	}

	return f.DecodeFn(value)
}

// fallback passes values through unchanged.
type fallback struct{}

func (fallback) NeedsConversion() bool         { return false }
func (fallback) Encode(value any) (any, error) { return value, nil }
func (fallback) Decode(value any) (any, error) { return value, nil }

// Fallback returns the pass-through converter handed out for unknown tags.
func Fallback() ValueConverter {
	return fallback{}
}

// collection converts the elements of a list or set value. With elems set it applies them to
// every non-nil element; otherwise Encode uses the converter registered for the host type of the
// first non-nil element.
type collection struct {
	registry *Registry
	elems    []ValueConverter
}

// Elements returns a converter of list and set values that applies convs to every non-nil
// element. Encode runs convs in order and Decode runs them in reverse order.
func Elements(convs ...ValueConverter) ValueConverter {
	return &collection{elems: convs}
}

func (c *collection) NeedsConversion() bool { return true }

func (c *collection) Encode(value any) (any, error) {
	if c.elems == nil {
		return c.encodeByValue(value)
	}

	return mapElements(value, func(e any) (any, error) {
		var err error
		for _, conv := range c.elems {
			if e, err = conv.Encode(e); err != nil {
				return nil, err
			}
		}

		return e, nil
	})
}

// Decode without element converters cannot infer element types from storage values, so it is a pass-through.
func (c *collection) Decode(value any) (any, error) {
	if c.elems == nil {
		return value, nil
	}

	return mapElements(value, func(e any) (any, error) {
		var err error
		for i := len(c.elems) - 1; i >= 0; i-- {
			if e, err = c.elems[i].Decode(e); err != nil {
				return nil, err
			}
		}

		return e, nil
	})
}

func (c *collection) encodeByValue(value any) (any, error) {
	elems, ok := value.([]any)
	if !ok {
		return value, nil
	}

	var conv ValueConverter
	for _, e := range elems {
		if e != nil {
			if b, found := c.registry.ForValue(e); found {
				conv = b.Converter
			}

			break
		}
	}
	if conv == nil || !conv.NeedsConversion() {
		return value, nil
	}

	return mapElements(elems, conv.Encode)
}

// mapElements applies fn to the non-nil elements of a []any value. Other values pass through.
func mapElements(value any, fn func(any) (any, error)) (any, error) {
	elems, ok := value.([]any)
	if !ok {
		return value, nil
	}

	out := make([]any, len(elems))
	for i, e := range elems {
		if e == nil {
			continue
		}
		v, err := fn(e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}
