package column

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
)

func ptr[T any](v T) *T { return &v }

func TestScalarTypes(t *testing.T) {
	require.Equal(t, format.ColumnBoolean, (&Scalar[bool]{}).Type())
	require.Equal(t, format.ColumnInteger, (&Scalar[int32]{}).Type())
	require.Equal(t, format.ColumnLong, (&Scalar[int64]{}).Type())
	require.Equal(t, format.ColumnDouble, (&Scalar[float64]{}).Type())
	require.Equal(t, format.ColumnString, (&Scalar[string]{}).Type())
	require.Equal(t, format.ColumnBytes, (&Scalar[[]byte]{}).Type())
	require.Equal(t, format.ColumnIntegerList, (&List[int32]{}).Type())
	require.Equal(t, format.ColumnBytesSet, (&Set[[]byte]{}).Type())
	require.Equal(t, format.ColumnString, (&Dict[string]{}).Type())
}

func TestNewScalar(t *testing.T) {
	s := NewScalar(ptr(int32(1)), nil, ptr(int32(3)))

	require.Equal(t, 3, s.Len())
	require.False(t, s.IsMissing(0))
	require.True(t, s.IsMissing(1))

	v, ok := s.Get(2)
	require.True(t, ok)
	require.Equal(t, int32(3), v)

	_, ok = s.Get(1)
	require.False(t, ok)
}

func TestNilMissingMeansPresent(t *testing.T) {
	s := &Scalar[string]{Values: []string{"a", "b"}}
	require.False(t, s.IsMissing(1))
	require.NoError(t, Validate(s))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		vec  Vector
		err  error
	}{
		{"scalar mask", &Scalar[int64]{Values: []int64{1}, Missing: []bool{false, true}}, errs.ErrVectorLength},
		{"serializer on ints", &Scalar[int64]{Values: []int64{1}, Serializer: "x"}, errs.ErrSerializerNotBytes},
		{"serializer on string list", &List[string]{Serializer: "x"}, errs.ErrSerializerNotBytes},
		{"list cell mask", &List[int32]{Cells: []ListCell[int32]{{Values: []int32{1}, Missing: []bool{}}}}, errs.ErrVectorLength},
		{"struct field length", &Struct{N: 2, Fields: []Vector{&Scalar[bool]{Values: []bool{true}}}}, errs.ErrVectorLength},
		{"nested offsets", &Nested{Offsets: []int32{0, 3}, Child: &Void{N: 2}}, errs.ErrVectorLength},
		{"nested decreasing", &Nested{Offsets: []int32{0, 2, 1}, Child: &Void{N: 1}}, errs.ErrVectorLength},
		{"dict entries", &Dict[string]{KeyType: format.DictKeyInt, Keys: []uint64{0}}, errs.ErrVectorLength},
		{"dict key type", &Dict[string]{Keys: []uint64{0}, Entries: Scalar[string]{Values: []string{"a"}}}, errs.ErrInvalidDictEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, Validate(tt.vec), tt.err)
		})
	}

	require.NoError(t, Validate(&Scalar[[]byte]{Values: [][]byte{{1}}, Serializer: "pickle"}))
}

func TestStructAndNested(t *testing.T) {
	child := &Scalar[int64]{Values: []int64{1, 2, 3}}
	nested := &Nested{Offsets: []int32{0, 2, 2, 3}, Child: child, Missing: []bool{false, true, false}}

	require.NoError(t, Validate(nested))
	require.Equal(t, 3, nested.Len())
	start, end := nested.Range(0)
	require.Equal(t, []int{0, 2}, []int{start, end})

	s, err := NewStruct(3, nil, nested, &Void{N: 3})
	require.NoError(t, err)
	require.Equal(t, format.ColumnStruct, s.Type())
	require.True(t, s.Fields[1].IsMissing(0))

	_, err = NewStruct(2, nil, nested)
	require.ErrorIs(t, err, errs.ErrVectorLength)
}

func TestDictDictionary(t *testing.T) {
	d := &Dict[string]{
		KeyType: format.DictKeyInt,
		Keys:    []uint64{0, 1, 0, 0},
		Entries: Scalar[string]{
			Values:  []string{"b", "a", "", ""},
			Missing: []bool{false, false, true, true},
		},
		Missing: []bool{false, false, false, true},
	}
	require.NoError(t, Validate(d))

	keys, values := d.Dictionary()
	require.Equal(t, []uint64{0, 1}, keys)
	require.Equal(t, []string{"b", "a"}, values)
	require.True(t, d.HasEntry(1))
	require.False(t, d.HasEntry(2))
	require.True(t, d.IsMissing(3))
}
