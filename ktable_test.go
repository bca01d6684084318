package ktable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
	"github.com/arloliu/ktable/ktype"
	"github.com/arloliu/ktable/table"
)

func sample() ([]string, [][]any) {
	return []string{"id", "name", "scores", "empty"}, [][]any{
		{int32(1), int32(2), nil},
		{"a", nil, "c"},
		{[]any{1.5, nil}, nil, []any{2.5}},
		{nil, nil, nil},
	}
}

// TestInferSchema verifies column types follow the first non-nil value
func TestInferSchema(t *testing.T) {
	names, columns := sample()

	s, err := InferSchema(names, columns)
	require.NoError(t, err)
	require.Equal(t, names, s.Names())

	want := []ktype.Type{ktype.Int32(), ktype.String(), ktype.ListOf(ktype.Double()), ktype.Null()}
	for i, typ := range s.Types() {
		require.True(t, ktype.Equal(want[i], typ), "column %d: %s", i, typ)
	}
}

func TestInferSchemaErrors(t *testing.T) {
	_, err := InferSchema([]string{"a"}, nil)
	require.ErrorIs(t, err, errs.ErrColumnCount)

	_, err = InferSchema([]string{"a", "a"}, [][]any{{int32(1)}, {int32(2)}})
	require.ErrorIs(t, err, errs.ErrDuplicateColumnName)
}

func TestNewSchema(t *testing.T) {
	s, err := NewSchema([]string{"x", "y"}, []ktype.Type{ktype.Int64(), ktype.Bool()})
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	_, err = NewSchema([]string{"x"}, []ktype.Type{ktype.Int64(), ktype.Bool()})
	require.ErrorIs(t, err, errs.ErrSchemaLength)

	_, err = NewSchema([]string{ktype.RowKeyColumnName}, []ktype.Type{ktype.Int64()})
	require.ErrorIs(t, err, errs.ErrDuplicateColumnName)
}

// TestEncodeDecode verifies the default codec round trip
func TestEncodeDecode(t *testing.T) {
	names, columns := sample()
	s, err := InferSchema(names, columns)
	require.NoError(t, err)

	rowKeys := DefaultRowKeys(0, 3)
	data, err := Encode(s, rowKeys, columns)
	require.NoError(t, err)

	gotSchema, gotKeys, gotColumns, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, names, gotSchema.Names())
	require.Equal(t, []string{"Row0", "Row1", "Row2"}, gotKeys)
	require.Equal(t, columns, gotColumns)
}

func TestNewCompressedEncoder(t *testing.T) {
	names, columns := sample()
	s, err := InferSchema(names, columns)
	require.NoError(t, err)

	enc, err := NewCompressedEncoder()
	require.NoError(t, err)
	data, err := enc.Encode(s, DefaultRowKeys(5, 3), columns)
	require.NoError(t, err)

	r, err := Open(data)
	require.NoError(t, err)
	require.Equal(t, []string{"Row5", "Row6", "Row7"}, r.RowKeys())

	cell, err := r.Cell(2, 1)
	require.NoError(t, err)
	require.Equal(t, "c", cell)
}

func TestNewEncoderOptions(t *testing.T) {
	names, columns := sample()
	s, err := InferSchema(names, columns)
	require.NoError(t, err)

	for _, c := range []format.CompressionType{format.CompressionNone, format.CompressionS2, format.CompressionLZ4} {
		enc, err := NewEncoder(table.WithCompression(c))
		require.NoError(t, err)
		data, err := enc.Encode(s, DefaultRowKeys(0, 3), columns)
		require.NoError(t, err)

		_, _, got, err := Decode(data)
		require.NoError(t, err)
		require.Equal(t, columns, got)
	}
}

func TestDefaultRowKeys(t *testing.T) {
	require.Empty(t, DefaultRowKeys(3, 0))
	require.Equal(t, []string{"Row10", "Row11"}, DefaultRowKeys(10, 2))
}

func TestStandardizeRowKeys(t *testing.T) {
	tests := []struct {
		name  string
		index []any
		start int
		want  []string
	}{
		{name: "default index", index: []any{0, 1, 2}, start: 0, want: []string{"Row0", "Row1", "Row2"}},
		{name: "offset", index: []any{int64(0), int64(1)}, start: 100, want: []string{"Row100", "Row101"}},
		{name: "custom index", index: []any{"a", 7, 2.5}, start: 0, want: []string{"a", "7", "2.5"}},
		{name: "mixed", index: []any{0, 5, int32(2)}, start: 1, want: []string{"Row1", "5", "Row3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, StandardizeRowKeys(tt.index, tt.start))
		})
	}
}
