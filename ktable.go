// Package ktable provides a columnar binary table codec with a logical type system, used to move
// tables between a host analytics platform and Go code.
//
// A table is an ordered list of named, typed columns plus one string row key per row. Column
// types are composed from primitives (int32, int64, double, bool, string, blob, null), lists,
// structs and logical types that tag a storage type with a value factory name. String and blob
// columns may be dictionary encoded.
//
// # Core Features
//
//   - Flatbuffer payload with one sub-table per column kind and per-row missing masks
//   - Optional payload compression (None, Zstd, S2, LZ4) and xxHash64 checksums
//   - Schema carried as spec+traits JSON so logical types survive the round trip
//   - Converter registry turning logical storage values into host values
//   - Struct-dict encoding, sentinel bridging and an Apache Arrow bridge (package arrowconv)
//
// # Basic Usage
//
// Encoding a table:
//
//	import "github.com/arloliu/ktable"
//
//	columns := [][]any{
//	    {int32(1), int32(2), nil},
//	    {"a", nil, "c"},
//	}
//	s, _ := ktable.InferSchema([]string{"id", "name"}, columns)
//	data, _ := ktable.Encode(s, ktable.DefaultRowKeys(0, 3), columns)
//
// Decoding it again:
//
//	reader, _ := ktable.Open(data)
//	for i, name := range reader.ColumnNames() {
//	    values, _ := reader.Values(i)
//	    fmt.Println(name, values)
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the table, schema and coerce
// packages for the most common use cases. For fine-grained control, such as encoding typed
// column vectors or registering converters, use those packages directly.
package ktable

import (
	"fmt"
	"strconv"

	"github.com/arloliu/ktable/coerce"
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
	"github.com/arloliu/ktable/ktype"
	"github.com/arloliu/ktable/schema"
	"github.com/arloliu/ktable/table"
)

// RowKeyPrefix prefixes generated row keys.
const RowKeyPrefix = "Row"

var defaultCompressedOptions = []table.Option{
	table.WithCompression(format.CompressionZstd),
	table.WithChecksum(true),
}

// NewEncoder creates a table encoder with custom options.
//
// Without options the payload is stored uncompressed with a checksum and values are coerced
// through the default converter registry.
//
// Example:
//
//	encoder, err := ktable.NewEncoder(
//	    table.WithCompression(format.CompressionS2),
//	    table.WithLogger(logger),
//	)
func NewEncoder(opts ...table.Option) (*table.Encoder, error) {
	return table.NewEncoder(opts...)
}

// NewCompressedEncoder creates a table encoder that compresses the payload with Zstd.
//
// Additional options are applied after the defaults and may override them.
func NewCompressedEncoder(opts ...table.Option) (*table.Encoder, error) {
	all := make([]table.Option, 0, len(defaultCompressedOptions)+len(opts))
	all = append(all, defaultCompressedOptions...)
	all = append(all, opts...)

	return table.NewEncoder(all...)
}

// Encode encodes a table given column by column with the default options.
//
// columns[i] holds the host values of column i, one per row key. nil marks a missing value.
func Encode(s *schema.Schema, rowKeys []string, columns [][]any) ([]byte, error) {
	enc, err := table.NewEncoder()
	if err != nil {
		return nil, err
	}

	return enc.Encode(s, rowKeys, columns)
}

// Open parses an encoded table. The reader decodes columns lazily and borrows data, so data
// must not be modified while the reader is in use.
func Open(data []byte, opts ...table.Option) (*table.Reader, error) {
	return table.Open(data, opts...)
}

// Decode decodes a whole table into its schema, row keys and host values column by column.
func Decode(data []byte, opts ...table.Option) (*schema.Schema, []string, [][]any, error) {
	r, err := table.Open(data, opts...)
	if err != nil {
		return nil, nil, nil, err
	}

	columns, err := r.Columns()
	if err != nil {
		return nil, nil, nil, err
	}

	return r.Schema(), r.RowKeys(), columns, nil
}

// NewSchema creates a schema from parallel slices of column names and types.
func NewSchema(names []string, types []ktype.Type) (*schema.Schema, error) {
	s, err := schema.FromTypes(types, names, nil)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// InferSchema creates a schema whose column types are inferred from host values.
//
// The first non-nil value of a column decides its type. Columns holding only nil values get the
// null type.
func InferSchema(names []string, columns [][]any) (*schema.Schema, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("%w: %d names for %d columns", errs.ErrColumnCount, len(names), len(columns))
	}

	types := make([]ktype.Type, len(columns))
	for i, values := range columns {
		t, err := coerce.InferType(values)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", names[i], err)
		}
		types[i] = t
	}

	return NewSchema(names, types)
}

// DefaultRowKeys returns n row keys numbered from start: "Row<start>", "Row<start+1>", ...
func DefaultRowKeys(start, n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = RowKeyPrefix + strconv.Itoa(start+i)
	}

	return keys
}

// StandardizeRowKeys turns a host row index into row keys.
//
// An integer index equal to its position is a default index and becomes "Row<start+position>".
// Every other index value is formatted with fmt.Sprint.
func StandardizeRowKeys(index []any, start int) []string {
	keys := make([]string, len(index))
	for i, v := range index {
		if n, ok := intValue(v); ok && n == int64(i) {
			keys[i] = RowKeyPrefix + strconv.Itoa(start+i)
			continue
		}
		keys[i] = fmt.Sprint(v)
	}

	return keys
}

func intValue(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	default:
		return 0, false
	}
}
