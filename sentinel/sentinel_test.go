package sentinel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/errs"
)

func ptr[T any](v T) *T { return &v }

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Sentinel
	}{
		{"min", Min()},
		{"max", Max()},
		{"123", Literal(123)},
		{"-7", Literal(-7)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.in, got.String())
		})
	}

	_, err := Parse("minimum")
	require.ErrorIs(t, err, errs.ErrInvalidSentinel)
}

func TestResolve(t *testing.T) {
	v32, err := Resolve[int32](Min())
	require.NoError(t, err)
	require.Equal(t, int32(math.MinInt32), v32)

	v32, err = Resolve[int32](Max())
	require.NoError(t, err)
	require.Equal(t, int32(math.MaxInt32), v32)

	v64, err := Resolve[int64](Min())
	require.NoError(t, err)
	require.Equal(t, int64(math.MinInt64), v64)

	v64, err = Resolve[int64](Max())
	require.NoError(t, err)
	require.Equal(t, int64(math.MaxInt64), v64)

	v64, err = Resolve[int64](Literal(1 << 40))
	require.NoError(t, err)
	require.Equal(t, int64(1<<40), v64)

	_, err = Resolve[int32](Literal(1 << 40))
	require.ErrorIs(t, err, errs.ErrInvalidSentinel)

	_, err = Resolve[int64](Sentinel{})
	require.ErrorIs(t, err, errs.ErrInvalidSentinel)
}

func TestInsertAndToMissing(t *testing.T) {
	vals, err := Insert([]int32{1, 0, 3}, []bool{false, true, false}, Min())
	require.NoError(t, err)
	require.Equal(t, []int32{1, math.MinInt32, 3}, vals)

	missing, err := ToMissing(vals, Min())
	require.NoError(t, err)
	require.Equal(t, []bool{false, true, false}, missing)

	_, err = Insert([]int64{1}, []bool{true, false}, Max())
	require.ErrorIs(t, err, errs.ErrVectorLength)
}

func TestVectorRoundTripIsInverse(t *testing.T) {
	for _, s := range []Sentinel{Min(), Max(), Literal(-1)} {
		t.Run(s.String(), func(t *testing.T) {
			in := column.NewScalar(ptr(int32(5)), nil, ptr(int32(7)), nil)

			withSentinel, err := InsertVector(in, s)
			require.NoError(t, err)
			require.Nil(t, withSentinel.(*column.Scalar[int32]).Missing)

			back, err := ToMissingVector(withSentinel, s)
			require.NoError(t, err)
			require.Equal(t, in, back)
		})
	}
}

func TestLongVectorRoundTrip(t *testing.T) {
	in := column.NewScalar(nil, ptr(int64(42)))

	withSentinel, err := InsertVector(in, Max())
	require.NoError(t, err)
	require.Equal(t, []int64{math.MaxInt64, 42}, withSentinel.(*column.Scalar[int64]).Values)

	back, err := ToMissingVector(withSentinel, Max())
	require.NoError(t, err)
	require.Equal(t, in, back)
}

// A present value equal to the sentinel comes back as missing.
func TestValueEqualToSentinelBecomesMissing(t *testing.T) {
	in := column.NewScalar(ptr(int32(math.MinInt32)), nil, ptr(int32(3)))

	withSentinel, err := InsertVector(in, Min())
	require.NoError(t, err)
	back, err := ToMissingVector(withSentinel, Min())
	require.NoError(t, err)

	out := back.(*column.Scalar[int32])
	require.Equal(t, []bool{true, true, false}, out.Missing)
	_, ok := out.Get(0)
	require.False(t, ok)
}

func TestOtherVectorsPassThrough(t *testing.T) {
	strs := column.NewScalar(ptr("a"), nil)
	out, err := InsertVector(strs, Min())
	require.NoError(t, err)
	require.Same(t, strs, out)

	out, err = ToMissingVector(strs, Min())
	require.NoError(t, err)
	require.Same(t, strs, out)

	full := column.NewScalar(ptr(int64(1)))
	out, err = InsertVector(full, Min())
	require.NoError(t, err)
	require.Same(t, full, out)
}

func TestToMissingKeepsExistingMissing(t *testing.T) {
	in := &column.Scalar[int64]{Values: []int64{9, 1, 2}, Missing: []bool{true, false, false}}

	out, err := ToMissingVector(in, Literal(2))
	require.NoError(t, err)
	require.Equal(t, &column.Scalar[int64]{Values: []int64{0, 1, 0}, Missing: []bool{true, false, true}}, out)
}
