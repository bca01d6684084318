package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColumnTypeMatrix(t *testing.T) {
	kinds := []Kind{KindBoolean, KindInteger, KindLong, KindDouble, KindString, KindBytes}
	cards := []Cardinality{Scalar, List, Set}

	seen := make(map[ColumnType]bool)
	for _, k := range kinds {
		for _, c := range cards {
			tag, err := NewColumnType(k, c)
			require.NoError(t, err)
			require.True(t, tag.IsPrimitiveMatrix())
			require.Equal(t, k, tag.Kind())
			require.Equal(t, c, tag.Cardinality())
			require.False(t, seen[tag], "tag %d assigned twice", tag)
			seen[tag] = true
		}
	}
	require.Len(t, seen, 18)
}

func TestColumnTypeCodes(t *testing.T) {
	require.Equal(t, ColumnType(1), ColumnBoolean)
	require.Equal(t, ColumnType(6), ColumnIntegerSet)
	require.Equal(t, ColumnType(15), ColumnStringSet)
	require.Equal(t, ColumnType(18), ColumnBytesSet)

	require.Equal(t, "STRING_SET", ColumnStringSet.String())
	require.Equal(t, "INTEGER", ColumnInteger.String())
	require.Equal(t, "STRUCT", ColumnStruct.String())
	require.Equal(t, "ColumnType(99)", ColumnType(99).String())
	require.False(t, ColumnType(0).IsValid())
	require.True(t, ColumnNestedList.IsValid())
	require.Equal(t, Kind(0), ColumnStruct.Kind())
}

func TestNewColumnTypeInvalid(t *testing.T) {
	_, err := NewColumnType(Kind(42), Scalar)
	require.Error(t, err)

	_, err = NewColumnType(KindLong, Cardinality(3))
	require.Error(t, err)
}

func TestDictKeyType(t *testing.T) {
	for _, d := range []DictKeyType{DictKeyByte, DictKeyInt, DictKeyLong} {
		parsed, err := ParseDictKeyType(d.String())
		require.NoError(t, err)
		require.Equal(t, d, parsed)
	}

	_, err := ParseDictKeyType("SHORT_KEY")
	require.Error(t, err)

	require.Equal(t, uint64(256), DictKeyByte.MaxEntries())
	require.Equal(t, uint64(1)<<32, DictKeyInt.MaxEntries())
	require.Equal(t, uint64(1)<<63, DictKeyLong.MaxEntries())
	require.Equal(t, uint64(0), DictKeyNone.MaxEntries())
}

func TestParseCompressionType(t *testing.T) {
	tests := map[string]CompressionType{
		"":     CompressionNone,
		"none": CompressionNone,
		"zstd": CompressionZstd,
		"s2":   CompressionS2,
		"lz4":  CompressionLZ4,
	}
	for name, want := range tests {
		got, err := ParseCompressionType(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseCompressionType("gzip")
	require.Error(t, err)
}
