package arrowconv

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/ktype"
	"github.com/arloliu/ktable/schema"
	"github.com/arloliu/ktable/table"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func releaseAll(arrs []arrow.Array) {
	for _, a := range arrs {
		if a != nil {
			a.Release()
		}
	}
}

// ToRecord converts a table held as column vectors to a record batch. The row key becomes the
// first column, named RowKey. Column metadata values are stored JSON encoded in the field metadata.
func ToRecord(mem memory.Allocator, s *schema.Schema, rowKeys []string, vectors []column.Vector) (arrow.RecordBatch, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(vectors) != s.Len() {
		return nil, fmt.Errorf("%w: %d vectors, schema has %d", errs.ErrColumnCount, len(vectors), s.Len())
	}

	fields := make([]arrow.Field, 0, s.Len()+1)
	cols := make([]arrow.Array, 0, s.Len()+1)

	keyType := ktype.RowKeyType()
	keys, err := ToArray(mem, keyType, &column.Scalar[string]{Values: rowKeys})
	if err != nil {
		return nil, err
	}
	cols = append(cols, keys)
	fields = append(fields, arrow.Field{Name: ktype.RowKeyColumnName, Type: keys.DataType()})

	for i, c := range s.Columns {
		if vectors[i] == nil || vectors[i].Len() != len(rowKeys) {
			releaseAll(cols)
			return nil, fmt.Errorf("%w: column %q does not have %d rows", errs.ErrRowKeyCount, c.Name, len(rowKeys))
		}
		arr, err := ToArray(mem, c.Type, vectors[i])
		if err != nil {
			releaseAll(cols)
			return nil, errors.Wrapf(err, "column %q", c.Name)
		}
		cols = append(cols, arr)

		md, err := fieldMetadata(c.Metadata)
		if err != nil {
			releaseAll(cols)
			return nil, errors.Wrapf(err, "column %q metadata", c.Name)
		}
		fields = append(fields, arrow.Field{Name: c.Name, Type: arr.DataType(), Nullable: true, Metadata: md})
	}
	defer releaseAll(cols)

	return array.NewRecordBatch(arrow.NewSchema(fields, nil), cols, int64(len(rowKeys))), nil
}

func fieldMetadata(m map[string]any) (arrow.Metadata, error) {
	if len(m) == 0 {
		return arrow.Metadata{}, nil
	}

	keys := make([]string, 0, len(m))
	values := make([]string, 0, len(m))
	for k, v := range m {
		data, err := json.Marshal(v)
		if err != nil {
			return arrow.Metadata{}, err
		}
		keys = append(keys, k)
		values = append(values, string(data))
	}

	return arrow.NewMetadata(keys, values), nil
}

func columnMetadata(md arrow.Metadata) (map[string]any, error) {
	if md.Len() == 0 {
		return nil, nil
	}

	m := make(map[string]any, md.Len())
	for i, k := range md.Keys() {
		var v any
		if err := json.UnmarshalFromString(md.Values()[i], &v); err != nil {
			return nil, err
		}
		m[k] = v
	}

	return m, nil
}

// FromRecord converts a record batch produced by ToRecord back to a schema, row keys and vectors.
// The first column must be the row key. Logical types come back without converters.
func FromRecord(rec arrow.RecordBatch) (*schema.Schema, []string, []column.Vector, error) {
	sc := rec.Schema()
	if sc.NumFields() == 0 {
		return nil, nil, nil, errs.ErrMissingRowKey
	}
	keyType, err := TypeOf(sc.Field(0).Type)
	if err != nil || !ktype.IsRowKey(keyType) {
		return nil, nil, nil, fmt.Errorf("%w: first column is %s", errs.ErrMissingRowKey, sc.Field(0).Type)
	}
	keys, err := fromArray(keyType, rec.Column(0))
	if err != nil {
		return nil, nil, nil, err
	}
	rowKeys := keys.(*column.Scalar[string]).Values

	cols := make([]schema.Column, 0, sc.NumFields()-1)
	vectors := make([]column.Vector, 0, sc.NumFields()-1)
	for i := 1; i < sc.NumFields(); i++ {
		f := sc.Field(i)
		t, err := TypeOf(f.Type)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "column %q", f.Name)
		}
		v, err := fromArray(t, rec.Column(i))
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "column %q", f.Name)
		}
		md, err := columnMetadata(f.Metadata)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "column %q metadata", f.Name)
		}
		cols = append(cols, schema.Column{Name: f.Name, Type: t, Metadata: md})
		vectors = append(vectors, v)
	}

	s := schema.New(cols...)
	if err := s.Validate(); err != nil {
		return nil, nil, nil, err
	}

	return s, rowKeys, vectors, nil
}

// ReadRecord opens an encoded table and converts it to a record batch.
func ReadRecord(mem memory.Allocator, data []byte, opts ...table.Option) (arrow.RecordBatch, error) {
	r, err := table.Open(data, opts...)
	if err != nil {
		return nil, err
	}

	vectors := make([]column.Vector, r.NumColumns())
	for i := range vectors {
		v, err := r.Column(i)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}

	return ToRecord(mem, r.Schema(), r.RowKeys(), vectors)
}

// WriteRecord encodes a record batch produced by ToRecord or ReadRecord as a table.
func WriteRecord(rec arrow.RecordBatch, opts ...table.Option) ([]byte, error) {
	s, rowKeys, vectors, err := FromRecord(rec)
	if err != nil {
		return nil, err
	}
	enc, err := table.NewEncoder(opts...)
	if err != nil {
		return nil, err
	}

	return enc.EncodeVectors(s, rowKeys, vectors)
}
