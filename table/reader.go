package table

import (
	"fmt"
	"time"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/arloliu/ktable/coerce"
	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/compress"
	"github.com/arloliu/ktable/dict"
	"github.com/arloliu/ktable/encoding"
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
	"github.com/arloliu/ktable/internal/fbs"
	"github.com/arloliu/ktable/internal/hash"
	"github.com/arloliu/ktable/ktype"
	"github.com/arloliu/ktable/schema"
	"github.com/arloliu/ktable/section"
)

// Reader gives access to an encoded table.
//
// All metadata is captured by Open, so ColumnNames, ColumnTypes, Serializers and RowKeys stay
// valid however the cell data is consumed afterwards. Decoded vectors and values own their
// memory, but the Reader itself keeps a borrow of the payload: when the table is uncompressed
// this is the buffer passed to Open, which must not be modified while the Reader is in use.
//
// Note: Reader is NOT thread-safe, it caches decoded values.
type Reader struct {
	cfg     *config
	coercer *coerce.Coercer
	header  section.TableHeader
	root    *fbs.KnimeTable

	schema      *schema.Schema
	positions   []int // wire column index of each schema column
	rowKeys     []string
	serializers map[string]string

	decoder *dict.Decoder
	vectors map[int]column.Vector
	values  map[int][]any
}

// Open parses the envelope of an encoded table and reads its metadata.
//
// The header, payload size, checksum and column layout are verified before Open returns;
// a corrupted or truncated buffer fails with an errs.ErrDecoding error and never panics.
func Open(data []byte, opts ...Option) (*Reader, error) {
	start := time.Now()
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	r, err := open(data, cfg)
	cfg.metrics.observe(opDecode, start, len(data), err)
	if err != nil {
		return nil, errors.Wrap(err, "open table")
	}

	return r, nil
}

func open(data []byte, cfg *config) (*Reader, error) {
	if len(data) < section.HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", errs.ErrInvalidHeaderSize, len(data))
	}

	decoder, err := dict.NewDecoder(cfg.dictCache)
	if err != nil {
		return nil, err
	}
	r := &Reader{
		cfg:     cfg,
		coercer: coerce.New(cfg.registry).WithDecoder(decoder),
		decoder: decoder,
		vectors: make(map[int]column.Vector),
		values:  make(map[int][]any),
	}
	if err := r.header.Parse(data[:section.HeaderSize]); err != nil {
		return nil, err
	}

	raw, err := r.payload(data[section.HeaderSize:])
	if err != nil {
		return nil, err
	}
	if err := r.readMetadata(raw); err != nil {
		return nil, err
	}

	level.Debug(cfg.logger).Log("msg", "opened table", "rows", len(r.rowKeys), "columns", r.header.ColumnCount,
		"bytes", len(data), "compression", r.header.Flag.GetCompression())

	return r, nil
}

// payload returns the uncompressed payload after checking its size and checksum.
func (r *Reader) payload(body []byte) ([]byte, error) {
	size := int(r.header.PayloadSize)
	switch {
	case len(body) < size:
		return nil, fmt.Errorf("%w: payload has %d of %d bytes", errs.ErrTruncatedBuffer, len(body), size)
	case len(body) > size:
		return nil, fmt.Errorf("%w: %d trailing bytes", errs.ErrMalformedBuffer, len(body)-size)
	}

	codec, err := compress.GetCodec(r.header.Flag.GetCompression())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidHeaderFlags, err)
	}
	raw, err := compress.Decompress(codec, body, int(r.header.RawSize), r.cfg.maxRawSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrMalformedBuffer, err)
	}

	if r.header.Flag.HasChecksum() && hash.Checksum(raw) != r.header.Checksum {
		return nil, errs.ErrChecksumMismatch
	}

	return raw, nil
}

func (r *Reader) readMetadata(raw []byte) (err error) {
	defer fbs.Recover(&err)

	if len(raw) < 4 {
		return fmt.Errorf("%w: payload of %d bytes", errs.ErrTruncatedBuffer, len(raw))
	}
	r.root = fbs.GetRootAsKnimeTable(raw, 0)

	n := r.root.ColNamesLength()
	if r.root.ColumnsLength() != n || int(r.header.ColumnCount) != n {
		return fmt.Errorf("%w: %d column names, %d columns, header declares %d",
			errs.ErrLengthMismatch, n, r.root.ColumnsLength(), r.header.ColumnCount)
	}
	if r.root.RowIDsLength() != int(r.header.RowCount) {
		return fmt.Errorf("%w: %d row keys, header declares %d rows",
			errs.ErrLengthMismatch, r.root.RowIDsLength(), r.header.RowCount)
	}

	names := fbs.Collect(n, func(j int) string { return string(r.root.ColNames(j)) })
	r.rowKeys = fbs.Collect(r.root.RowIDsLength(), func(j int) string { return string(r.root.RowIDs(j)) })

	var cols []schema.Column
	if r.header.Flag.HasSchema() {
		data := r.root.Schema()
		if data == nil {
			return fmt.Errorf("%w: schema flag set without schema", errs.ErrMalformedBuffer)
		}
		if err := checkSchemaNames(data, names); err != nil {
			return err
		}
		cols, err = schema.DecodeColumns(data)
	} else {
		cols, err = r.inferColumns(names)
	}
	if err != nil {
		return err
	}
	if len(cols) != n {
		return fmt.Errorf("%w: schema has %d columns, payload %d", errs.ErrLengthMismatch, len(cols), n)
	}

	rowKey := -1
	user := make([]schema.Column, 0, n)
	for i, c := range cols {
		if rowKey < 0 && ktype.IsRowKey(c.Type) {
			rowKey = i
			continue
		}
		c.Type = ktype.Unwrap(c.Type)
		user = append(user, c)
		r.positions = append(r.positions, i)
	}
	if rowKey < 0 {
		return fmt.Errorf("%w: row key column not found", errs.ErrMalformedBuffer)
	}
	r.schema = schema.New(user...)

	r.serializers = make(map[string]string)
	for i, pos := range r.positions {
		var c fbs.Column
		r.root.Columns(&c, pos)
		if s := c.Serializer(); len(s) > 0 {
			r.serializers[user[i].Name] = string(s)
		}
	}

	return nil
}

// inferColumns derives column types from the wire columns of a payload without schema.
// The first STRING column named RowKeyColumnName is taken as the row key.
// checkSchemaNames matches the schema column names against the payload ones before any type is decoded.
func checkSchemaNames(data []byte, names []string) error {
	peeked, err := schema.PeekColumnNames(data)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrMalformedBuffer, err)
	}
	if len(peeked) != len(names) {
		return fmt.Errorf("%w: schema has %d columns, payload %d", errs.ErrLengthMismatch, len(peeked), len(names))
	}
	for i, name := range peeked {
		if name != names[i] {
			return fmt.Errorf("%w: column %d is named %q in the schema and %q in the payload",
				errs.ErrMalformedBuffer, i, name, names[i])
		}
	}

	return nil
}

func (r *Reader) inferColumns(names []string) ([]schema.Column, error) {
	cols := make([]schema.Column, len(names))
	rowKey := false
	for i, name := range names {
		v, err := r.decode(i)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		if !rowKey && name == ktype.RowKeyColumnName && v.Type() == format.ColumnString {
			if _, ok := v.(*column.Scalar[string]); ok {
				cols[i] = schema.Column{Name: name, Type: ktype.RowKeyType()}
				rowKey = true
				continue
			}
		}
		t, err := storageType(v)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		cols[i] = schema.Column{Name: name, Type: t}
	}

	return cols, nil
}

func (r *Reader) decode(pos int) (column.Vector, error) {
	var c fbs.Column
	if !r.root.Columns(&c, pos) {
		return nil, fmt.Errorf("%w: no column vector", errs.ErrMalformedBuffer)
	}
	v, err := encoding.DecodeColumn(&c)
	if err != nil {
		return nil, err
	}
	if v.Len() != len(r.rowKeys) {
		return nil, fmt.Errorf("%w: column has %d rows, table has %d", errs.ErrLengthMismatch, v.Len(), len(r.rowKeys))
	}

	return v, nil
}

// NumRows returns the number of rows.
func (r *Reader) NumRows() int { return len(r.rowKeys) }

// NumColumns returns the number of data columns, the row key column excluded.
func (r *Reader) NumColumns() int { return r.schema.Len() }

// Schema returns the table schema without the row key column.
func (r *Reader) Schema() *schema.Schema { return r.schema }

// ColumnNames returns the data column names in order.
func (r *Reader) ColumnNames() []string { return r.schema.Names() }

// ColumnTypes returns the data column types in order.
func (r *Reader) ColumnTypes() []ktype.Type { return r.schema.Types() }

// Serializers maps the name of every column that carries a serializer id to that id.
func (r *Reader) Serializers() map[string]string {
	out := make(map[string]string, len(r.serializers))
	for k, v := range r.serializers {
		out[k] = v
	}

	return out
}

// RowKeys returns a copy of the row keys.
func (r *Reader) RowKeys() []string {
	return append([]string(nil), r.rowKeys...)
}

// ColumnIndex returns the index of the named column, or -1.
func (r *Reader) ColumnIndex(name string) int { return r.schema.Index(name) }

// Column decodes column i into a vector. Dictionary encoded leaves stay in struct-dict layout.
// The vector is shared with later calls and must not be modified.
func (r *Reader) Column(i int) (v column.Vector, err error) {
	if i < 0 || i >= len(r.positions) {
		return nil, fmt.Errorf("%w: %d of %d", errs.ErrColumnIndex, i, len(r.positions))
	}
	if v, ok := r.vectors[i]; ok {
		return v, nil
	}
	defer fbs.Recover(&err)

	v, err = r.decode(r.positions[i])
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", r.schema.Columns[i].Name, err)
	}
	r.vectors[i] = v

	return v, nil
}

// Values returns the host values of column i, one per row, with logical converters applied.
// The returned slice is shared with later calls and must not be modified.
func (r *Reader) Values(i int) ([]any, error) {
	if vals, ok := r.values[i]; ok {
		return vals, nil
	}

	v, err := r.Column(i)
	if err != nil {
		return nil, err
	}
	c := r.schema.Columns[i]
	vals, err := r.coercer.Values(c.Name, c.Type, v)
	if err != nil {
		return nil, err
	}
	r.values[i] = vals

	return vals, nil
}

// Cell returns the host value at row and column col. Missing cells are nil.
//
// Cells of dictionary encoded string and blob columns are looked up in the dictionary
// without decoding the rest of the column.
func (r *Reader) Cell(row, col int) (any, error) {
	if row < 0 || row >= len(r.rowKeys) {
		return nil, fmt.Errorf("%w: %d of %d", errs.ErrRowIndex, row, len(r.rowKeys))
	}
	if _, ok := r.values[col]; !ok && col >= 0 && col < len(r.positions) {
		if p, ok := r.schema.Columns[col].Type.(ktype.Primitive); ok && p.IsDictEncoded() {
			return r.dictCell(row, col)
		}
	}

	vals, err := r.Values(col)
	if err != nil {
		return nil, err
	}

	return vals[row], nil
}

func (r *Reader) dictCell(row, col int) (any, error) {
	v, err := r.Column(col)
	if err != nil {
		return nil, err
	}

	var (
		value   any
		present bool
	)
	switch x := v.(type) {
	case *column.Dict[string]:
		value, present, err = dict.Value(r.decoder, x, row)
	case *column.Dict[[]byte]:
		value, present, err = dict.Value(r.decoder, x, row)
	default:
		return nil, fmt.Errorf("column %q: %w: %s", r.schema.Columns[col].Name, errs.ErrVectorTypeMismatch, v.Type())
	}
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", r.schema.Columns[col].Name, err)
	}
	if !present {
		return nil, nil
	}

	return value, nil
}

// Row returns the host values of one row in column order.
func (r *Reader) Row(row int) ([]any, error) {
	out := make([]any, r.NumColumns())
	for col := range out {
		v, err := r.Cell(row, col)
		if err != nil {
			return nil, err
		}
		out[col] = v
	}

	return out, nil
}

// Columns returns the host values of all columns.
func (r *Reader) Columns() ([][]any, error) {
	out := make([][]any, r.NumColumns())
	for i := range out {
		vals, err := r.Values(i)
		if err != nil {
			return nil, err
		}
		out[i] = vals
	}

	return out, nil
}
