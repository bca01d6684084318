package ktype

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
)

type upperConverter struct{}

func (upperConverter) NeedsConversion() bool     { return true }
func (upperConverter) Encode(v any) (any, error) { return v, nil }
func (upperConverter) Decode(v any) (any, error) { return v, nil }

type funcConverter struct{ fn func(any) any }

func (funcConverter) NeedsConversion() bool       { return true }
func (c funcConverter) Encode(v any) (any, error) { return c.fn(v), nil }
func (c funcConverter) Decode(v any) (any, error) { return c.fn(v), nil }

func TestNewPrimitive(t *testing.T) {
	p, err := NewPrimitive(IDString, format.DictKeyInt)
	require.NoError(t, err)
	require.True(t, p.IsDictEncoded())
	require.Equal(t, String(), p.Plain())
	require.Equal(t, "string[INT_KEY]", p.String())

	_, err = NewPrimitive(IDInt32, format.DictKeyByte)
	require.ErrorIs(t, err, errs.ErrInvalidDictEncoding)
	require.ErrorIs(t, err, errs.ErrType)

	_, err = NewPrimitive(PrimitiveID(42), format.DictKeyNone)
	require.ErrorIs(t, err, errs.ErrUnknownPrimitive)

	require.Panics(t, func() { DictBlob(format.DictKeyType(9)) })
}

func TestPrimitiveSingletons(t *testing.T) {
	a, err := NewPrimitive(IDBlob, format.DictKeyLong)
	require.NoError(t, err)
	require.Equal(t, DictBlob(format.DictKeyLong), a)
	require.True(t, Equal(a, DictBlob(format.DictKeyLong)))
	require.False(t, Equal(a, Blob()))
}

func TestEqual(t *testing.T) {
	conv := upperConverter{}

	tests := []struct {
		name  string
		a, b  Type
		equal bool
	}{
		{"same primitive", Int64(), Int64(), true},
		{"different primitive", Int64(), Int32(), false},
		{"lists", ListOf(String()), ListOf(String()), true},
		{"list vs struct", ListOf(String()), StructOf(String()), false},
		{"struct arity", StructOf(Int32()), StructOf(Int32(), Int32()), false},
		{"nested", ListOf(StructOf(Int64(), ListOf(Bool()))), ListOf(StructOf(Int64(), ListOf(Bool()))), true},
		{"logical tags", NewLogical("a", Int64(), nil), NewLogical("b", Int64(), nil), false},
		{"logical storage", NewLogical("a", Int64(), nil), NewLogical("a", Int32(), nil), false},
		{"logical same converter", NewLogical("a", Int64(), conv), NewLogical("a", Int64(), conv), true},
		{"logical converter vs none", NewLogical("a", Int64(), conv), NewLogical("a", Int64(), nil), false},
		{"nil", nil, nil, true},
		{"nil vs primitive", nil, Int32(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.equal, Equal(tt.a, tt.b))
			require.Equal(t, tt.equal, Equal(tt.b, tt.a))
		})
	}
}

func TestSameConverterNotComparable(t *testing.T) {
	c := funcConverter{fn: func(v any) any { return v }}

	require.NotPanics(t, func() {
		require.False(t, SameConverter(c, c))
	})
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(ListOf(StructOf(Int64(), NewLogical("x", Blob(), nil)))))
	require.ErrorIs(t, Validate(ListOf(nil)), errs.ErrInvalidTypeDescriptor)
	require.ErrorIs(t, Validate(NewLogical("x", nil, nil)), errs.ErrInvalidTypeDescriptor)

	var deep Type = Int32()
	for range maxDepth + 1 {
		deep = ListOf(deep)
	}
	require.ErrorIs(t, Validate(deep), errs.ErrInvalidTypeDescriptor)
}

func TestStringAndStorageOf(t *testing.T) {
	typ := NewLogical("tag", StructOf(Int64(), ListOf(Double())), nil)

	require.Equal(t, "logical(tag)<struct<int64, list<double>>>", typ.String())
	require.True(t, Equal(StructOf(Int64(), ListOf(Double())), StorageOf(typ)))
	require.Equal(t, Int32(), StorageOf(Int32()))
}
