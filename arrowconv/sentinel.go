package arrowconv

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pkg/errors"

	"github.com/arloliu/ktable/sentinel"
)

type valuesBuilder[T any] interface {
	array.Builder
	AppendValues(v []T, valid []bool)
}

func buildValues[T sentinel.Integer](mem memory.Allocator, dt arrow.DataType, values []T, valid []bool) arrow.Array {
	b := array.NewBuilder(mem, dt)
	defer b.Release()
	b.(valuesBuilder[T]).AppendValues(values, valid)

	return b.NewArray()
}

// mapColumns returns a record whose columns are fn applied to those of rec.
// fn returns nil to keep a column as is.
func mapColumns(rec arrow.RecordBatch, fn func(arrow.Array) (arrow.Array, error)) (arrow.RecordBatch, error) {
	cols := make([]arrow.Array, 0, rec.NumCols())
	defer func() { releaseAll(cols) }()

	for i, c := range rec.Columns() {
		out, err := fn(c)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", rec.ColumnName(i))
		}
		if out == nil {
			c.Retain()
			out = c
		}
		cols = append(cols, out)
	}

	return array.NewRecordBatch(rec.Schema(), cols, rec.NumRows()), nil
}

func insertValues[T sentinel.Integer](mem memory.Allocator, arr arrow.Array, values []T, s sentinel.Sentinel) (arrow.Array, error) {
	if arr.NullN() == 0 {
		return nil, nil
	}
	filled, err := sentinel.Insert(values, nulls(arr), s)
	if err != nil {
		return nil, err
	}

	return buildValues(mem, arr.DataType(), filled, nil), nil
}

// InsertSentinel returns a copy of rec in which the missing values of every Int32 and Int64
// column are replaced by the sentinel. Columns without missing values and columns of other
// types are shared with rec.
func InsertSentinel(mem memory.Allocator, rec arrow.RecordBatch, s sentinel.Sentinel) (arrow.RecordBatch, error) {
	return mapColumns(rec, func(c arrow.Array) (arrow.Array, error) {
		switch a := c.(type) {
		case *array.Int32:
			return insertValues(mem, a, a.Int32Values(), s)
		case *array.Int64:
			return insertValues(mem, a, a.Int64Values(), s)
		default:
			return nil, nil
		}
	})
}

func missingValues[T sentinel.Integer](mem memory.Allocator, arr arrow.Array, values []T, s sentinel.Sentinel) (arrow.Array, error) {
	missing, err := sentinel.ToMissing(values, s)
	if err != nil {
		return nil, err
	}

	valid := make([]bool, len(values))
	for i := range valid {
		valid[i] = !missing[i] && !arr.IsNull(i)
	}

	return buildValues(mem, arr.DataType(), values, valid), nil
}

// SentinelToMissing returns a copy of rec in which every Int32 and Int64 value equal to the
// sentinel is missing. Values that were missing stay missing. Columns of other types are
// shared with rec.
func SentinelToMissing(mem memory.Allocator, rec arrow.RecordBatch, s sentinel.Sentinel) (arrow.RecordBatch, error) {
	return mapColumns(rec, func(c arrow.Array) (arrow.Array, error) {
		switch a := c.(type) {
		case *array.Int32:
			return missingValues(mem, a, a.Int32Values(), s)
		case *array.Int64:
			return missingValues(mem, a, a.Int64Values(), s)
		default:
			return nil, nil
		}
	})
}
