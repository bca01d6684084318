package table

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/go-kit/log"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/convert"
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
	"github.com/arloliu/ktable/internal/fbs"
	"github.com/arloliu/ktable/ktype"
	"github.com/arloliu/ktable/schema"
	"github.com/arloliu/ktable/section"
)

var typeComparer = cmp.Comparer(func(a, b ktype.Type) bool { return ktype.Equal(a, b) })

func scenario() (*schema.Schema, []string, [][]any) {
	s := schema.New(
		schema.Column{Name: "id", Type: ktype.Int32()},
		schema.Column{Name: "name", Type: ktype.String()},
		schema.Column{Name: "tags", Type: ktype.SetOf(ktype.String())},
	)
	columns := [][]any{
		{int32(1), nil, int32(3)},
		{"a", "b", nil},
		{[]any{"x", "y"}, nil, []any{"z", nil}},
	}

	return s, []string{"Row0", "Row1", "Row2"}, columns
}

func encode(t *testing.T, s *schema.Schema, rowKeys []string, columns [][]any, opts ...Option) []byte {
	t.Helper()

	enc, err := NewEncoder(opts...)
	require.NoError(t, err)
	data, err := enc.Encode(s, rowKeys, columns)
	require.NoError(t, err)

	return data
}

func TestScenarioRoundTrip(t *testing.T) {
	s, rowKeys, columns := scenario()
	data := encode(t, s, rowKeys, columns)

	r, err := Open(data)
	require.NoError(t, err)

	require.Equal(t, []string{"id", "name", "tags"}, r.ColumnNames())
	require.Equal(t, rowKeys, r.RowKeys())
	require.Equal(t, 3, r.NumRows())
	require.Equal(t, 3, r.NumColumns())
	if diff := cmp.Diff(s.Types(), r.ColumnTypes(), typeComparer); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
	require.Empty(t, r.Serializers())

	got, err := r.Columns()
	require.NoError(t, err)
	require.Equal(t, [][]any{
		{int32(1), nil, int32(3)},
		{"a", "b", nil},
		{[]any{"x", "y"}, nil, []any{"z", nil}},
	}, got)

	cell, err := r.Cell(2, 2)
	require.NoError(t, err)
	require.Equal(t, []any{"z", nil}, cell)

	row, err := r.Row(1)
	require.NoError(t, err)
	require.Equal(t, []any{nil, "b", nil}, row)
}

func TestRowKeyColumnIsHidden(t *testing.T) {
	s, rowKeys, columns := scenario()
	r, err := Open(encode(t, s, rowKeys, columns))
	require.NoError(t, err)

	require.Equal(t, -1, r.ColumnIndex(ktype.RowKeyColumnName))
	require.Equal(t, 2, r.ColumnIndex("tags"))

	// wire column 0 is the row key column
	require.Equal(t, []int{1, 2, 3}, r.positions)
}

func TestSetWithTwoNullsDecodesOneNull(t *testing.T) {
	s := schema.New(schema.Column{Name: "s", Type: ktype.SetOf(ktype.Int64())})
	data := encode(t, s, []string{"Row0"}, [][]any{{[]any{nil, int64(4), nil}}})

	r, err := Open(data)
	require.NoError(t, err)

	vals, err := r.Values(0)
	require.NoError(t, err)
	require.Equal(t, []any{[]any{int64(4), nil}}, vals)
}

func TestDuplicateColumnNameWritesNothing(t *testing.T) {
	s := schema.New(
		schema.Column{Name: "x", Type: ktype.Int32()},
		schema.Column{Name: "x", Type: ktype.String()},
	)
	enc, err := NewEncoder()
	require.NoError(t, err)

	data, err := enc.Encode(s, []string{"Row0"}, [][]any{{1}, {"a"}})
	require.ErrorIs(t, err, errs.ErrSchema)
	require.ErrorIs(t, err, errs.ErrDuplicateColumnName)
	require.Nil(t, data)

	data, err = enc.EncodeRows(s, []string{"Row0"}, [][]any{{1, "a"}})
	require.ErrorIs(t, err, errs.ErrSchema)
	require.Nil(t, data)
}

func TestEncodeShapeErrors(t *testing.T) {
	s, rowKeys, columns := scenario()
	enc, err := NewEncoder()
	require.NoError(t, err)

	_, err = enc.Encode(s, rowKeys[:2], columns)
	require.ErrorIs(t, err, errs.ErrRowKeyCount)

	_, err = enc.Encode(s, rowKeys, columns[:2])
	require.ErrorIs(t, err, errs.ErrColumnCount)

	_, err = enc.EncodeRows(s, rowKeys, [][]any{{1, "a", nil}, {2, "b"}, {3, "c", nil}})
	require.ErrorIs(t, err, errs.ErrColumnCount)

	_, err = enc.EncodeVectors(s, rowKeys, []column.Vector{nil, nil, nil})
	require.ErrorIs(t, err, errs.ErrRowKeyCount)
}

func TestEncodeRowsMatchesEncode(t *testing.T) {
	s, rowKeys, columns := scenario()
	rows := make([][]any, len(rowKeys))
	for r := range rows {
		rows[r] = []any{columns[0][r], columns[1][r], columns[2][r]}
	}

	enc, err := NewEncoder()
	require.NoError(t, err)
	fromRows, err := enc.EncodeRows(s, rowKeys, rows)
	require.NoError(t, err)

	require.Equal(t, encode(t, s, rowKeys, columns), fromRows)
}

func TestEncodeDoesNotAliasInput(t *testing.T) {
	s := schema.New(schema.Column{Name: "b", Type: ktype.Blob()})
	blob := []byte("payload")
	data := encode(t, s, []string{"Row0"}, [][]any{{blob}})

	blob[0] = 'X'
	r, err := Open(data)
	require.NoError(t, err)
	v, err := r.Cell(0, 0)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), v)
}

func TestCompressionAndByteOrder(t *testing.T) {
	s, rowKeys, columns := scenario()

	for _, comp := range []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	} {
		for _, bigEndian := range []bool{false, true} {
			t.Run(comp.String(), func(t *testing.T) {
				opts := []Option{WithCompression(comp)}
				if bigEndian {
					opts = append(opts, WithBigEndianHeader())
				}
				data := encode(t, s, rowKeys, columns, opts...)

				var h section.TableHeader
				require.NoError(t, h.Parse(data[:section.HeaderSize]))
				require.Equal(t, comp, h.Flag.GetCompression())
				require.Equal(t, bigEndian, h.Flag.IsBigEndian())
				require.Equal(t, uint32(4), h.ColumnCount)
				require.Equal(t, uint32(3), h.RowCount)

				r, err := Open(data)
				require.NoError(t, err)
				got, err := r.Columns()
				require.NoError(t, err)
				require.Equal(t, columns, got)
			})
		}
	}
}

func TestInvalidCompressionOption(t *testing.T) {
	_, err := NewEncoder(WithCompression(format.CompressionType(9)))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}

func TestCorruptedBuffers(t *testing.T) {
	s, rowKeys, columns := scenario()
	data := encode(t, s, rowKeys, columns)

	t.Run("checksum", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[len(bad)-1] ^= 0xff
		_, err := Open(bad)
		require.ErrorIs(t, err, errs.ErrChecksumMismatch)
	})

	t.Run("truncated payload", func(t *testing.T) {
		_, err := Open(data[:len(data)-1])
		require.ErrorIs(t, err, errs.ErrTruncatedBuffer)
		require.ErrorIs(t, err, errs.ErrDecoding)
	})

	t.Run("short header", func(t *testing.T) {
		_, err := Open(data[:10])
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		_, err := Open(append(bytes.Clone(data), 0))
		require.ErrorIs(t, err, errs.ErrMalformedBuffer)
	})

	t.Run("bad magic", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[1] = 0
		_, err := Open(bad)
		require.ErrorIs(t, err, errs.ErrDecoding)
	})

	t.Run("forged row key count", func(t *testing.T) {
		bad := encode(t, s, rowKeys, columns, WithChecksum(false))
		payload := bad[section.HeaderSize:]
		tab := fbs.GetRootAsKnimeTable(payload, 0).Table()
		o := flatbuffers.UOffsetT(tab.Offset(4))
		flatbuffers.WriteUint32(payload[tab.Vector(o)-flatbuffers.SizeUOffsetT:], 0xFFFFFFF0)

		_, err := Open(bad)
		require.ErrorIs(t, err, errs.ErrMalformedBuffer)
	})

	t.Run("forged raw size", func(t *testing.T) {
		for _, ct := range []format.CompressionType{format.CompressionLZ4, format.CompressionZstd, format.CompressionNone} {
			bad := encode(t, s, rowKeys, columns, WithCompression(ct))
			binary.LittleEndian.PutUint32(bad[16:20], 0xF0000000)

			_, err := Open(bad)
			require.ErrorIs(t, err, errs.ErrRawSize, ct.String())
			require.ErrorIs(t, err, errs.ErrDecoding, ct.String())
		}
	})

	t.Run("garbage payload without checksum", func(t *testing.T) {
		enc := encode(t, s, rowKeys, columns, WithChecksum(false))
		bad := bytes.Clone(enc)
		for i := section.HeaderSize; i < section.HeaderSize+8; i++ {
			bad[i] = 0xff
		}
		require.NotPanics(t, func() {
			_, err := Open(bad)
			require.ErrorIs(t, err, errs.ErrDecoding)
		})
	})
}

func TestOpenWithoutSchemaInfersStorageTypes(t *testing.T) {
	s, rowKeys, columns := scenario()
	data := encode(t, s, rowKeys, columns)
	data[0] &^= section.SchemaMask

	r, err := Open(data)
	require.NoError(t, err)
	require.Equal(t, []string{"id", "name", "tags"}, r.ColumnNames())
	if diff := cmp.Diff(s.Types(), r.ColumnTypes(), typeComparer); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}

	got, err := r.Columns()
	require.NoError(t, err)
	require.Equal(t, columns, got)
}

func TestNestedLogicalAndDictColumns(t *testing.T) {
	d := convert.LocalDate{Year: 2024, Month: time.February, Day: 29}
	s := schema.New(
		schema.Column{Name: "city", Type: ktype.DictString(format.DictKeyInt)},
		schema.Column{Name: "born", Type: ktype.Datetime(ktype.LocalDateTag)},
		schema.Column{Name: "events", Type: ktype.ListOf(ktype.StructOf(ktype.Int64(), ktype.Datetime(ktype.LocalDateTag)))},
		schema.Column{Name: "scores", Type: ktype.ListOf(ktype.Double())},
	)
	columns := [][]any{
		{"Zurich", "Berlin", "Zurich"},
		{d, nil, d},
		{[]any{[]any{int64(1), d}, nil}, nil, []any{}},
		{[]any{1.5, nil}, nil, []any{}},
	}

	r, err := Open(encode(t, s, []string{"a", "b", "c"}, columns))
	require.NoError(t, err)

	v, err := r.Column(0)
	require.NoError(t, err)
	dv, ok := v.(*column.Dict[string])
	require.True(t, ok)
	require.Equal(t, format.DictKeyInt, dv.KeyType)
	require.Equal(t, []uint64{0, 1, 0}, dv.Keys)

	got, err := r.Columns()
	require.NoError(t, err)
	require.Equal(t, columns, got)
}

func TestDictCellLookup(t *testing.T) {
	s := schema.New(
		schema.Column{Name: "city", Type: ktype.DictString(format.DictKeyInt)},
		schema.Column{Name: "photo", Type: ktype.DictBlob(format.DictKeyByte)},
	)
	columns := [][]any{
		{"Zurich", nil, "Berlin", "Zurich"},
		{[]byte{1}, []byte{1}, nil, []byte{2}},
	}

	r, err := Open(encode(t, s, []string{"r0", "r1", "r2", "r3"}, columns), WithDictCacheSize(4))
	require.NoError(t, err)

	for row, want := range columns[0] {
		got, err := r.Cell(row, 0)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	for row, want := range columns[1] {
		got, err := r.Cell(row, 1)
		require.NoError(t, err)
		if want == nil {
			require.Nil(t, got)
			continue
		}
		require.Equal(t, want, got)
	}

	v1, err := r.Column(0)
	require.NoError(t, err)
	v2, err := r.Column(0)
	require.NoError(t, err)
	require.Same(t, v1, v2)

	got, err := r.Columns()
	require.NoError(t, err)
	require.Equal(t, columns, got)
}

func TestSchemaNameMismatch(t *testing.T) {
	s := schema.New(schema.Column{Name: "city", Type: ktype.String()})
	data := encode(t, s, []string{"a"}, [][]any{{"Zurich"}}, WithChecksum(false))

	at := bytes.Index(data, []byte(`"city"`))
	require.Positive(t, at)
	copy(data[at:], `"town"`)

	_, err := Open(data)
	require.ErrorIs(t, err, errs.ErrMalformedBuffer)
	require.ErrorContains(t, err, `named "town" in the schema and "city" in the payload`)
}

func TestSetOfLogicalRoundTrip(t *testing.T) {
	day := convert.LocalDate{Year: 2024, Month: time.March, Day: 9}
	other := convert.LocalDate{Year: 1999, Month: time.December, Day: 31}
	s := schema.New(
		schema.Column{Name: "days", Type: ktype.SetOf(ktype.Datetime(ktype.LocalDateTag))},
		schema.Column{Name: "ids", Type: ktype.SetOf(ktype.Wrap(ktype.Int32()))},
	)
	data := encode(t, s, []string{"Row0", "Row1"}, [][]any{
		{[]any{day, other, day}, nil},
		{nil, []any{int32(4), nil, int32(4)}},
	})

	r, err := Open(data)
	require.NoError(t, err)
	// Wrapped set elements come back unwrapped.
	want := []ktype.Type{ktype.SetOf(ktype.Datetime(ktype.LocalDateTag)), ktype.SetOf(ktype.Int32())}
	if diff := cmp.Diff(want, r.ColumnTypes(), typeComparer); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}

	got, err := r.Columns()
	require.NoError(t, err)
	require.Equal(t, [][]any{
		{[]any{day, other}, nil},
		{nil, []any{int32(4), nil}},
	}, got)
}

func TestSerializers(t *testing.T) {
	s := schema.New(
		schema.Column{Name: "img", Type: ktype.NewLogical("my.Image", ktype.Blob(), nil)},
		schema.Column{Name: "raw", Type: ktype.Blob()},
	)
	r, err := Open(encode(t, s, []string{"r"}, [][]any{{[]byte{1}}, {[]byte{2}}}))
	require.NoError(t, err)

	require.Equal(t, map[string]string{"img": "my.Image"}, r.Serializers())
}

func TestConversionErrorReachesCaller(t *testing.T) {
	boom := errors.New("boom")
	reg := convert.NewRegistry()
	reg.MustRegister("my.Fails", &convert.Func{
		EncodeFn: func(v any) (any, error) {
			if v == "bad" {
				return nil, boom
			}
			return v, nil
		},
	})
	s := schema.New(schema.Column{Name: "x", Type: ktype.NewLogical("my.Fails", ktype.String(), nil)})

	enc, err := NewEncoder(WithRegistry(reg))
	require.NoError(t, err)
	data, err := enc.Encode(s, []string{"a", "b"}, [][]any{{"ok", "bad"}})
	require.Nil(t, data)
	require.ErrorIs(t, err, boom)

	var convErr *errs.ConversionError
	require.ErrorAs(t, err, &convErr)
	require.Equal(t, "x", convErr.Column)
	require.Equal(t, 1, convErr.Row)
}

func TestIndexErrors(t *testing.T) {
	s, rowKeys, columns := scenario()
	r, err := Open(encode(t, s, rowKeys, columns))
	require.NoError(t, err)

	_, err = r.Column(3)
	require.ErrorIs(t, err, errs.ErrColumnIndex)
	_, err = r.Values(-1)
	require.ErrorIs(t, err, errs.ErrColumnIndex)
	_, err = r.Cell(3, 0)
	require.ErrorIs(t, err, errs.ErrRowIndex)
}

func TestEmptyTable(t *testing.T) {
	r, err := Open(encode(t, schema.New(), nil, nil))
	require.NoError(t, err)
	require.Zero(t, r.NumRows())
	require.Zero(t, r.NumColumns())
	require.Empty(t, r.RowKeys())
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogfmtLogger(&buf)

	s, rowKeys, columns := scenario()
	data := encode(t, s, rowKeys, columns, WithLogger(logger))
	_, err := Open(data, WithLogger(logger))
	require.NoError(t, err)

	require.Contains(t, buf.String(), `msg="encoded table"`)
	require.Contains(t, buf.String(), `msg="opened table"`)
	require.Contains(t, buf.String(), "rows=3")
}

func TestMaxRawSize(t *testing.T) {
	s, rowKeys, columns := scenario()
	data := encode(t, s, rowKeys, columns, WithCompression(format.CompressionS2))

	var h section.TableHeader
	require.NoError(t, h.Parse(data[:section.HeaderSize]))

	_, err := Open(data, WithMaxRawSize(int(h.RawSize)))
	require.NoError(t, err)

	_, err = Open(data, WithMaxRawSize(int(h.RawSize)-1))
	require.ErrorIs(t, err, errs.ErrRawSize)

	_, err = Open(data, WithMaxRawSize(0))
	require.ErrorIs(t, err, errs.ErrRawSize)
}
