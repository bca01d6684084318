package encoding

import (
	"testing"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
	"github.com/arloliu/ktable/internal/fbs"
)

func ptr[T any](v T) *T { return &v }

func finish(t *testing.T, b *flatbuffers.Builder, off flatbuffers.UOffsetT) *fbs.Column {
	t.Helper()

	b.Finish(off)
	buf := b.FinishedBytes()

	var c fbs.Column
	c.Init(buf, flatbuffers.GetUOffsetT(buf))

	return &c
}

func roundTrip(t *testing.T, v column.Vector) column.Vector {
	t.Helper()

	b := flatbuffers.NewBuilder(0)
	off, err := EncodeColumn(b, v)
	require.NoError(t, err)

	got, err := DecodeColumn(finish(t, b, off))
	require.NoError(t, err)
	require.Equal(t, v.Type(), got.Type())
	require.Equal(t, v.Len(), got.Len())

	return got
}

func TestScalarRoundTrip(t *testing.T) {
	t.Run("int32", func(t *testing.T) {
		got := roundTrip(t, column.NewScalar(ptr(int32(1)), nil, ptr(int32(-7))))
		require.Equal(t, &column.Scalar[int32]{
			Values:  []int32{1, 0, -7},
			Missing: []bool{false, true, false},
		}, got)
	})

	t.Run("int64", func(t *testing.T) {
		got := roundTrip(t, column.NewScalar(ptr(int64(1)<<40), ptr(int64(-1))))
		require.Equal(t, []int64{1 << 40, -1}, got.(*column.Scalar[int64]).Values)
	})

	t.Run("double", func(t *testing.T) {
		got := roundTrip(t, column.NewScalar(ptr(1.5), nil))
		require.Equal(t, []float64{1.5, 0}, got.(*column.Scalar[float64]).Values)
		require.True(t, got.IsMissing(1))
	})

	t.Run("bool", func(t *testing.T) {
		got := roundTrip(t, column.NewScalar(ptr(true), ptr(false), nil))
		require.Equal(t, []bool{true, false, false}, got.(*column.Scalar[bool]).Values)
		require.Equal(t, []bool{false, false, true}, got.(*column.Scalar[bool]).Missing)
	})

	t.Run("string", func(t *testing.T) {
		got := roundTrip(t, column.NewScalar(ptr("a"), nil, ptr("héllo")))
		s := got.(*column.Scalar[string])
		require.Equal(t, []string{"a", "", "héllo"}, s.Values)
		require.Empty(t, s.Serializer)
	})

	t.Run("bytes with serializer", func(t *testing.T) {
		in := &column.Scalar[[]byte]{
			Values:     [][]byte{{1, 2, 3}, nil},
			Missing:    []bool{false, true},
			Serializer: "my.Serializer",
		}
		got := roundTrip(t, in).(*column.Scalar[[]byte])
		require.Equal(t, []byte{1, 2, 3}, got.Values[0])
		require.Empty(t, got.Values[1])
		require.True(t, got.IsMissing(1))
		require.Equal(t, "my.Serializer", got.Serializer)
	})

	t.Run("nil mask", func(t *testing.T) {
		got := roundTrip(t, &column.Scalar[int64]{Values: []int64{4, 5}})
		require.Equal(t, []bool{false, false}, got.(*column.Scalar[int64]).Missing)
	})

	t.Run("empty", func(t *testing.T) {
		got := roundTrip(t, &column.Scalar[string]{})
		require.Equal(t, 0, got.Len())
	})
}

func TestDecodedBytesDoNotAliasBuffer(t *testing.T) {
	b := flatbuffers.NewBuilder(0)
	off, err := EncodeColumn(b, &column.Scalar[[]byte]{Values: [][]byte{{9, 9}}})
	require.NoError(t, err)

	c := finish(t, b, off)
	got, err := DecodeColumn(c)
	require.NoError(t, err)

	buf := c.Table().Bytes
	for i := range buf {
		buf[i] = 0
	}
	require.Equal(t, []byte{9, 9}, got.(*column.Scalar[[]byte]).Values[0])
}

func TestPlaceholderIgnoredOnDecode(t *testing.T) {
	// A writer that leaves garbage at a missing slot must not leak it.
	b := flatbuffers.NewBuilder(0)
	values := fbs.Int32s(b, []int32{5, 99})
	missing := fbs.Bools(b, []bool{false, true})
	fbs.ColumnStart(b)
	fbs.ColumnAddType(b, int32(format.ColumnInteger))
	fbs.ColumnAddIntValues(b, values)
	fbs.ColumnAddMissing(b, missing)
	fbs.ColumnAddLength(b, 2)
	off := fbs.ColumnEnd(b)

	got, err := DecodeColumn(finish(t, b, off))
	require.NoError(t, err)

	s := got.(*column.Scalar[int32])
	require.True(t, s.IsMissing(1))
	require.Equal(t, int32(0), s.Values[1])

	v, ok := s.Get(1)
	require.False(t, ok)
	require.Zero(t, v)
}

func TestEncodeWritesZeroPlaceholders(t *testing.T) {
	in := &column.Scalar[int64]{Values: []int64{3, 42}, Missing: []bool{false, true}}

	b := flatbuffers.NewBuilder(0)
	off, err := EncodeColumn(b, in)
	require.NoError(t, err)

	c := finish(t, b, off)
	require.Equal(t, int64(0), c.LongValues(1))
	require.Equal(t, []int64{3, 42}, in.Values, "input must not be modified")
}

func TestListRoundTrip(t *testing.T) {
	in := &column.List[int64]{
		Cells: []column.ListCell[int64]{
			{Values: []int64{1, 0, 3}, Missing: []bool{false, true, false}},
			{},
			{Values: []int64{}, Missing: []bool{}},
		},
		Missing: []bool{false, true, false},
	}

	got := roundTrip(t, in)
	require.Equal(t, in, got)
}

func TestStringListRoundTrip(t *testing.T) {
	in := &column.List[string]{
		Cells: []column.ListCell[string]{
			{Values: []string{"x", "y"}, Missing: []bool{false, false}},
		},
		Missing: []bool{false},
	}

	require.Equal(t, in, roundTrip(t, in))
}

func TestSetRoundTrip(t *testing.T) {
	in := &column.Set[string]{
		Cells: []column.SetCell[string]{
			{Values: []string{"a", "b"}, HasNull: true},
			{},
			{Values: []string{"c"}},
		},
		Missing: []bool{false, true, false},
	}

	got := roundTrip(t, in).(*column.Set[string])
	require.Equal(t, in, got)
	require.True(t, got.Cells[0].HasNull)
	require.False(t, got.Cells[2].HasNull)
}

func TestDictRoundTrip(t *testing.T) {
	in := &column.Dict[string]{
		KeyType: format.DictKeyInt,
		Keys:    []uint64{0, 1, 0, 0},
		Entries: column.Scalar[string]{
			Values:  []string{"b", "a", "", ""},
			Missing: []bool{false, false, true, true},
		},
		Missing: []bool{false, false, false, true},
	}

	got := roundTrip(t, in).(*column.Dict[string])
	require.Equal(t, in, got)

	keys, values := got.Dictionary()
	require.Equal(t, []uint64{0, 1}, keys)
	require.Equal(t, []string{"b", "a"}, values)
}

func TestStructRoundTrip(t *testing.T) {
	a := column.NewScalar(ptr(int32(1)), ptr(int32(2)))
	b := column.NewScalar(ptr("x"), nil)
	in, err := column.NewStruct(2, []bool{false, false}, a, b)
	require.NoError(t, err)

	got := roundTrip(t, in).(*column.Struct)
	require.Len(t, got.Fields, 2)
	require.Equal(t, a, got.Fields[0])
	require.Equal(t, b, got.Fields[1])
}

func TestNestedRoundTrip(t *testing.T) {
	a := column.NewScalar(ptr(int64(1)), ptr(int64(2)), ptr(int64(3)))
	child, err := column.NewStruct(3, []bool{false, false, false}, a)
	require.NoError(t, err)

	in := &column.Nested{
		Offsets: []int32{0, 2, 2, 3},
		Child:   child,
		Missing: []bool{false, true, false},
	}

	got := roundTrip(t, in).(*column.Nested)
	require.Equal(t, in.Offsets, got.Offsets)
	require.Equal(t, in.Missing, got.Missing)

	start, end := got.Range(0)
	require.Equal(t, 0, start)
	require.Equal(t, 2, end)
}

func TestVoidRoundTrip(t *testing.T) {
	got := roundTrip(t, &column.Void{N: 4})
	require.Equal(t, &column.Void{N: 4}, got)
	require.True(t, got.IsMissing(3))
}

func TestEncodeRejectsInvalidVector(t *testing.T) {
	b := flatbuffers.NewBuilder(0)

	_, err := EncodeColumn(b, &column.Scalar[int32]{Values: []int32{1, 2}, Missing: []bool{true}})
	require.ErrorIs(t, err, errs.ErrVectorLength)

	_, err = EncodeColumn(b, &column.Scalar[string]{Values: []string{"a"}, Serializer: "x"})
	require.ErrorIs(t, err, errs.ErrSerializerNotBytes)
}

func TestEncodeRejectsDeepNesting(t *testing.T) {
	var v column.Vector = &column.Void{N: 1}
	for range MaxNesting + 2 {
		v = &column.Struct{Fields: []column.Vector{v}, N: 1}
	}

	_, err := EncodeColumn(flatbuffers.NewBuilder(0), v)
	require.ErrorIs(t, err, errs.ErrUnsupportedNesting)
}

func TestDecodeErrors(t *testing.T) {
	t.Run("unknown tag", func(t *testing.T) {
		b := flatbuffers.NewBuilder(0)
		fbs.ColumnStart(b)
		fbs.ColumnAddType(b, 99)
		_, err := DecodeColumn(finish(t, b, fbs.ColumnEnd(b)))
		require.ErrorIs(t, err, errs.ErrUnknownColumnType)
	})

	t.Run("missing length mismatch", func(t *testing.T) {
		b := flatbuffers.NewBuilder(0)
		values := fbs.Float64s(b, []float64{1, 2, 3})
		missing := fbs.Bools(b, []bool{false})
		fbs.ColumnStart(b)
		fbs.ColumnAddType(b, int32(format.ColumnDouble))
		fbs.ColumnAddDoubleValues(b, values)
		fbs.ColumnAddMissing(b, missing)
		fbs.ColumnAddLength(b, 3)
		_, err := DecodeColumn(finish(t, b, fbs.ColumnEnd(b)))
		require.ErrorIs(t, err, errs.ErrLengthMismatch)
	})

	t.Run("declared length mismatch", func(t *testing.T) {
		b := flatbuffers.NewBuilder(0)
		values := fbs.Bools(b, []bool{true})
		missing := fbs.Bools(b, []bool{false})
		fbs.ColumnStart(b)
		fbs.ColumnAddType(b, int32(format.ColumnBoolean))
		fbs.ColumnAddBoolValues(b, values)
		fbs.ColumnAddMissing(b, missing)
		fbs.ColumnAddLength(b, 5)
		_, err := DecodeColumn(finish(t, b, fbs.ColumnEnd(b)))
		require.ErrorIs(t, err, errs.ErrLengthMismatch)
	})

	t.Run("serializer on long column", func(t *testing.T) {
		b := flatbuffers.NewBuilder(0)
		serializer := b.CreateString("x")
		fbs.ColumnStart(b)
		fbs.ColumnAddType(b, int32(format.ColumnLong))
		fbs.ColumnAddSerializer(b, serializer)
		_, err := DecodeColumn(finish(t, b, fbs.ColumnEnd(b)))
		require.ErrorIs(t, err, errs.ErrSerializerNotBytes)
	})

	t.Run("nested list without offsets", func(t *testing.T) {
		b := flatbuffers.NewBuilder(0)
		fbs.ColumnStart(b)
		fbs.ColumnAddType(b, int32(format.ColumnNestedList))
		_, err := DecodeColumn(finish(t, b, fbs.ColumnEnd(b)))
		require.ErrorIs(t, err, errs.ErrLengthMismatch)
	})
}

// setVectorLength overwrites the length prefix of the vector in field slot of c.
func setVectorLength(c *fbs.Column, slot flatbuffers.VOffsetT, n uint32) {
	tab := c.Table()
	o := flatbuffers.UOffsetT(tab.Offset(slot))
	flatbuffers.WriteUint32(tab.Bytes[tab.Vector(o)-flatbuffers.SizeUOffsetT:], n)
}

func TestForgedVectorLength(t *testing.T) {
	const (
		missingSlot    = 6
		longValuesSlot = 12
	)

	for _, n := range []uint32{0x10000000, 0xFFFFFFF0} {
		for _, slot := range []flatbuffers.VOffsetT{missingSlot, longValuesSlot} {
			b := flatbuffers.NewBuilder(0)
			off, err := EncodeColumn(b, column.NewScalar(ptr(int64(7))))
			require.NoError(t, err)
			c := finish(t, b, off)
			setVectorLength(c, slot, n)

			_, err = DecodeColumn(c)
			require.ErrorIs(t, err, errs.ErrMalformedBuffer, "slot %d length %#x", slot, n)
			require.ErrorIs(t, err, errs.ErrDecoding)
		}
	}
}
