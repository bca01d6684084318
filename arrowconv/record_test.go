package arrowconv

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
	"github.com/arloliu/ktable/ktype"
	"github.com/arloliu/ktable/schema"
	"github.com/arloliu/ktable/sentinel"
	"github.com/arloliu/ktable/table"
)

func integerTable() (*schema.Schema, []string, []column.Vector) {
	s := schema.New(
		schema.Column{Name: "i32", Type: ktype.Int32()},
		schema.Column{Name: "i64", Type: ktype.Int64()},
		schema.Column{Name: "label", Type: ktype.String(), Metadata: map[string]any{"renderer": "text"}},
	)
	vectors := []column.Vector{
		&column.Scalar[int32]{Values: []int32{1, 0, 3}, Missing: []bool{false, true, false}},
		&column.Scalar[int64]{Values: []int64{0, 5, 6}, Missing: []bool{true, false, false}},
		&column.Scalar[string]{Values: []string{"a", "b", "c"}, Missing: []bool{false, false, false}},
	}

	return s, []string{"r0", "r1", "r2"}, vectors
}

func TestRecordRoundTrip(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	s, rowKeys, vectors := integerTable()
	rec, err := ToRecord(mem, s, rowKeys, vectors)
	require.NoError(t, err)
	defer rec.Release()

	require.EqualValues(t, 3, rec.NumRows())
	require.EqualValues(t, 4, rec.NumCols())
	require.Equal(t, ktype.RowKeyColumnName, rec.ColumnName(0))
	require.Equal(t, "label", rec.ColumnName(3))

	gotSchema, gotKeys, gotVectors, err := FromRecord(rec)
	require.NoError(t, err)
	require.Equal(t, rowKeys, gotKeys)
	require.Equal(t, vectors, gotVectors)
	require.Equal(t, s.Names(), gotSchema.Names())
	for i, c := range gotSchema.Columns {
		require.True(t, ktype.Equal(s.Columns[i].Type, c.Type), "column %d", i)
	}
	require.Equal(t, map[string]any{"renderer": "text"}, gotSchema.Columns[2].Metadata)
	require.Nil(t, gotSchema.Columns[0].Metadata)
}

func TestToRecordErrors(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	s, rowKeys, vectors := integerTable()

	_, err := ToRecord(mem, s, rowKeys, vectors[:2])
	require.ErrorIs(t, err, errs.ErrColumnCount)

	_, err = ToRecord(mem, s, rowKeys[:2], vectors)
	require.ErrorIs(t, err, errs.ErrRowKeyCount)

	dup := schema.New(schema.Column{Name: "x", Type: ktype.Int32()}, schema.Column{Name: "x", Type: ktype.Int32()})
	_, err = ToRecord(mem, dup, rowKeys, vectors[:1])
	require.ErrorIs(t, err, errs.ErrDuplicateColumnName)
}

func TestFromRecordWithoutRowKey(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	s, rowKeys, vectors := integerTable()
	rec, err := ToRecord(mem, s, rowKeys, vectors)
	require.NoError(t, err)
	defer rec.Release()

	fields := rec.Schema().Fields()[1:]
	headless := array.NewRecordBatch(arrow.NewSchema(fields, nil), rec.Columns()[1:], rec.NumRows())
	defer headless.Release()

	_, _, _, err = FromRecord(headless)
	require.ErrorIs(t, err, errs.ErrMissingRowKey)
}

func TestReadWriteRecord(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	s := schema.New(
		schema.Column{Name: "id", Type: ktype.Int32()},
		schema.Column{Name: "name", Type: ktype.DictString(format.DictKeyInt), Metadata: map[string]any{"renderer": "text"}},
		schema.Column{Name: "scores", Type: ktype.ListOf(ktype.Double())},
		schema.Column{Name: "pair", Type: ktype.StructOf(ktype.Int64(), ktype.String())},
		schema.Column{Name: "tags", Type: ktype.SetOf(ktype.String())},
	)
	rowKeys := []string{"Row0", "Row1", "Row2"}
	columns := [][]any{
		{int32(1), nil, int32(3)},
		{"a", "b", "a"},
		{[]any{1.5, nil}, nil, []any{2.5}},
		{[]any{int64(1), "x"}, nil, []any{int64(3), nil}},
		{[]any{"p", nil}, []any{"q"}, nil},
	}

	enc, err := table.NewEncoder()
	require.NoError(t, err)
	data, err := enc.Encode(s, rowKeys, columns)
	require.NoError(t, err)

	rec, err := ReadRecord(mem, data)
	require.NoError(t, err)
	defer rec.Release()
	require.EqualValues(t, 3, rec.NumRows())
	require.EqualValues(t, 6, rec.NumCols())
	_, ok := rec.Column(2).DataType().(*StructDictType)
	require.True(t, ok)

	out, err := WriteRecord(rec, table.WithCompression(format.CompressionLZ4))
	require.NoError(t, err)

	want, err := table.Open(data)
	require.NoError(t, err)
	got, err := table.Open(out)
	require.NoError(t, err)

	require.Equal(t, want.RowKeys(), got.RowKeys())
	require.Equal(t, want.ColumnNames(), got.ColumnNames())
	for i, typ := range want.ColumnTypes() {
		require.True(t, ktype.Equal(typ, got.ColumnTypes()[i]), "column %d", i)
	}
	require.Equal(t, want.Schema().Columns[1].Metadata, got.Schema().Columns[1].Metadata)

	wantCols, err := want.Columns()
	require.NoError(t, err)
	gotCols, err := got.Columns()
	require.NoError(t, err)
	require.Equal(t, wantCols, gotCols)
}

func TestInsertSentinel(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	s, rowKeys, vectors := integerTable()
	rec, err := ToRecord(mem, s, rowKeys, vectors)
	require.NoError(t, err)
	defer rec.Release()

	filled, err := InsertSentinel(mem, rec, sentinel.Min())
	require.NoError(t, err)
	defer filled.Release()

	i32 := filled.Column(1).(*array.Int32)
	require.Zero(t, i32.NullN())
	require.Equal(t, []int32{1, math.MinInt32, 3}, i32.Int32Values())

	i64 := filled.Column(2).(*array.Int64)
	require.Zero(t, i64.NullN())
	require.Equal(t, []int64{math.MinInt64, 5, 6}, i64.Int64Values())

	require.Same(t, rec.Column(0), filled.Column(0))
	require.Same(t, rec.Column(3), filled.Column(3))

	restored, err := SentinelToMissing(mem, filled, sentinel.Min())
	require.NoError(t, err)
	defer restored.Release()

	_, _, got, err := FromRecord(restored)
	require.NoError(t, err)
	require.Equal(t, vectors, got)
}

func TestSentinelToMissingKeepsNulls(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	s := schema.New(schema.Column{Name: "v", Type: ktype.Int32()})
	vectors := []column.Vector{
		&column.Scalar[int32]{Values: []int32{1, -1, 0}, Missing: []bool{false, false, true}},
	}
	rec, err := ToRecord(mem, s, []string{"a", "b", "c"}, vectors)
	require.NoError(t, err)
	defer rec.Release()

	out, err := SentinelToMissing(mem, rec, sentinel.Literal(-1))
	require.NoError(t, err)
	defer out.Release()

	col := out.Column(1)
	require.False(t, col.IsNull(0))
	require.True(t, col.IsNull(1))
	require.True(t, col.IsNull(2))
}

func TestInsertSentinelOutOfRange(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	s, rowKeys, vectors := integerTable()
	rec, err := ToRecord(mem, s, rowKeys, vectors)
	require.NoError(t, err)
	defer rec.Release()

	_, err = InsertSentinel(mem, rec, sentinel.Literal(1<<40))
	require.ErrorIs(t, err, errs.ErrInvalidSentinel)
}
