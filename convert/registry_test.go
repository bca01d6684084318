package convert

import (
	"bytes"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/ktype"
)

type celsius float64

func doubling() *Func {
	return &Func{
		EncodeFn: func(v any) (any, error) { return float64(v.(celsius)) * 2, nil },
		DecodeFn: func(v any) (any, error) { return celsius(v.(float64) / 2), nil },
	}
}

func TestRegistryGet(t *testing.T) {
	reg := NewRegistry()
	conv := doubling()
	require.NoError(t, reg.Register("temp", conv, WithValueType(reflect.TypeFor[celsius]()), WithStorage(ktype.Double())))

	got, err := reg.Get("temp")
	require.NoError(t, err)
	require.Same(t, conv, got)

	_, err = reg.Get("missing")
	require.ErrorIs(t, err, errs.ErrUnregisteredLogical)
	require.ErrorIs(t, err, errs.ErrType)

	bundle, ok := reg.Bundle("temp")
	require.True(t, ok)
	require.True(t, ktype.Equal(ktype.NewLogical("temp", ktype.Double(), conv), bundle.LogicalType()))
}

func TestRegistryRegisterErrors(t *testing.T) {
	reg := NewRegistry()

	require.Error(t, reg.Register("", doubling()))
	require.Error(t, reg.Register("x", nil))
	require.ErrorIs(t, reg.Register("x", doubling(), WithStorage(ktype.ListOf(nil))), errs.ErrInvalidTypeDescriptor)
	require.Empty(t, reg.Tags())
}

func TestRegistryReRegisterWarns(t *testing.T) {
	var buf bytes.Buffer
	reg := NewRegistry(WithLogger(log.NewLogfmtLogger(&buf)))

	first, second := doubling(), doubling()
	require.NoError(t, reg.Register("temp", first, WithValueType(reflect.TypeFor[celsius]())))
	require.Empty(t, buf.String())

	require.NoError(t, reg.Register("temp", second, WithValueType(reflect.TypeFor[celsius]())))
	require.Contains(t, buf.String(), "level=warn")
	require.Contains(t, buf.String(), "tag=temp")

	got, err := reg.Get("temp")
	require.NoError(t, err)
	require.Same(t, second, got)

	// the replaced registration no longer answers host type lookups
	bundle, ok := reg.ForValue(celsius(1))
	require.True(t, ok)
	require.Same(t, second, bundle.Converter)
	require.Equal(t, []string{"temp"}, reg.Tags())
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()

	fb := reg.Lookup("unknown")
	require.False(t, fb.NeedsConversion())
	v, err := fb.Encode(42)
	require.NoError(t, err)
	require.Equal(t, 42, v)

	require.True(t, reg.Lookup(ktype.ListTag).NeedsConversion())
	require.True(t, reg.Lookup(ktype.SetTag).NeedsConversion())
}

func TestCollectionConverter(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("temp", doubling(), WithValueType(reflect.TypeFor[celsius]())))

	conv := reg.Lookup(ktype.ListTag)

	out, err := conv.Encode([]any{nil, celsius(1), celsius(2)})
	require.NoError(t, err)
	require.Equal(t, []any{nil, 2.0, 4.0}, out)

	out, err = conv.Encode([]any{"a", nil})
	require.NoError(t, err)
	require.Equal(t, []any{"a", nil}, out)

	out, err = conv.Encode([]any{nil})
	require.NoError(t, err)
	require.Equal(t, []any{nil}, out)
}

func TestCollectionConverterError(t *testing.T) {
	reg := NewRegistry()
	boom := errors.New("boom")
	require.NoError(t, reg.Register("bad", &Func{EncodeFn: func(any) (any, error) { return nil, boom }},
		WithValueType(reflect.TypeFor[celsius]())))

	_, err := reg.Lookup(ktype.SetTag).Encode([]any{celsius(1)})
	require.ErrorIs(t, err, boom)
}

func TestElementsConverter(t *testing.T) {
	conv := Elements(doubling())
	require.True(t, conv.NeedsConversion())

	out, err := conv.Encode([]any{celsius(1), nil, celsius(3)})
	require.NoError(t, err)
	require.Equal(t, []any{2.0, nil, 6.0}, out)

	back, err := conv.Decode(out)
	require.NoError(t, err)
	require.Equal(t, []any{celsius(1), nil, celsius(3)}, back)

	// Not a collection.
	out, err = conv.Encode("x")
	require.NoError(t, err)
	require.Equal(t, "x", out)
}

func TestElementsConverterOrder(t *testing.T) {
	addOne := &Func{
		EncodeFn: func(v any) (any, error) { return v.(float64) + 1, nil },
		DecodeFn: func(v any) (any, error) { return v.(float64) - 1, nil },
	}
	double := &Func{
		EncodeFn: func(v any) (any, error) { return v.(float64) * 2, nil },
		DecodeFn: func(v any) (any, error) { return v.(float64) / 2, nil },
	}
	conv := Elements(addOne, double)

	out, err := conv.Encode([]any{1.0})
	require.NoError(t, err)
	require.Equal(t, []any{4.0}, out)

	back, err := conv.Decode(out)
	require.NoError(t, err)
	require.Equal(t, []any{1.0}, back)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = reg.Register(string(rune('a'+i)), doubling())
		}()
		go func() {
			defer wg.Done()
			_ = reg.Lookup("a")
			_, _ = reg.ForValue(celsius(1))
		}()
	}
	wg.Wait()

	require.Len(t, reg.Tags(), 8)
}

func TestFunc(t *testing.T) {
	empty := &Func{}
	require.False(t, empty.NeedsConversion())

	v, err := empty.Decode("x")
	require.NoError(t, err)
	require.Equal(t, "x", v)
}
