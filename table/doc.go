// Package table encodes whole tables into a single self-contained buffer and reads them back.
//
// An encoded table is a 32-byte header (see package section) followed by a flatbuffer payload
// that is optionally compressed. The payload carries the row keys, the column names, one wire
// column per schema column and the serialized schema. The row key column is synthesized on
// encode and always written first; it is never part of a schema.Schema.
//
// Encoding:
//
//	enc, err := table.NewEncoder(table.WithCompression(format.CompressionZstd))
//	data, err := enc.Encode(s, []string{"Row0", "Row1"}, [][]any{{1, nil}, {"a", "b"}})
//
// Decoding is split in two phases. Open parses and validates the envelope and captures all
// metadata (names, types, serializers, row keys). Cell data is decoded on demand afterwards:
//
//	r, err := table.Open(data)
//	names := r.ColumnNames()
//	vals, err := r.Values(0)
package table
