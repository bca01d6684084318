package table

import (
	"fmt"
	"time"

	"github.com/go-kit/log/level"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/pkg/errors"

	"github.com/arloliu/ktable/coerce"
	"github.com/arloliu/ktable/column"
	"github.com/arloliu/ktable/compress"
	"github.com/arloliu/ktable/dict"
	"github.com/arloliu/ktable/encoding"
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/internal/fbs"
	"github.com/arloliu/ktable/internal/hash"
	"github.com/arloliu/ktable/internal/pool"
	"github.com/arloliu/ktable/ktype"
	"github.com/arloliu/ktable/schema"
	"github.com/arloliu/ktable/section"
)

// Encoder encodes tables into self-contained buffers.
//
// An Encoder holds only configuration and may be shared by goroutines; every Encode call is
// independent and the returned buffer never aliases the caller's data.
type Encoder struct {
	cfg     *config
	coercer *coerce.Coercer
	codec   compress.Codec
}

// NewEncoder creates an Encoder.
//
// Parameters:
//   - opts: compression, header byte order, checksum, logging, metrics, registry and dictionary options
//
// Returns:
//   - *Encoder: encoder ready for use
//   - error: invalid option values
func NewEncoder(opts ...Option) (*Encoder, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidCompression, err)
	}

	dictOpts := append([]dict.Option{dict.WithLogger(cfg.logger)}, cfg.dictOpts...)

	return &Encoder{
		cfg:     cfg,
		coercer: coerce.New(cfg.registry, dictOpts...),
		codec:   codec,
	}, nil
}

// Encode encodes a column-oriented table: columns[i] holds one host value per row for s.Columns[i].
//
// The schema is validated before anything else, so an invalid schema never produces output.
// Converter failures are reported as *errs.ConversionError with column and row.
func (e *Encoder) Encode(s *schema.Schema, rowKeys []string, columns [][]any) ([]byte, error) {
	start := time.Now()
	data, err := e.encodeColumns(s, rowKeys, columns)
	e.cfg.metrics.observe(opEncode, start, len(data), err)

	return data, errors.Wrapf(err, "encode table of %d rows", len(rowKeys))
}

// EncodeRows encodes a row-oriented table: rows[r][i] is the value of s.Columns[i] in row r.
func (e *Encoder) EncodeRows(s *schema.Schema, rowKeys []string, rows [][]any) ([]byte, error) {
	start := time.Now()
	data, err := e.encodeRows(s, rowKeys, rows)
	e.cfg.metrics.observe(opEncode, start, len(data), err)

	return data, errors.Wrapf(err, "encode table of %d rows", len(rowKeys))
}

// EncodeVectors encodes a table from already built vectors, one per schema column.
func (e *Encoder) EncodeVectors(s *schema.Schema, rowKeys []string, vectors []column.Vector) ([]byte, error) {
	start := time.Now()
	data, err := e.encodeVectors(s, rowKeys, vectors)
	e.cfg.metrics.observe(opEncode, start, len(data), err)

	return data, errors.Wrapf(err, "encode table of %d rows", len(rowKeys))
}

func (e *Encoder) encodeRows(s *schema.Schema, rowKeys []string, rows [][]any) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(rows) != len(rowKeys) {
		return nil, fmt.Errorf("%w: %d rows, %d row keys", errs.ErrRowKeyCount, len(rows), len(rowKeys))
	}

	columns := make([][]any, s.Len())
	for i := range columns {
		columns[i] = make([]any, len(rows))
	}
	for r, row := range rows {
		if len(row) != s.Len() {
			return nil, fmt.Errorf("%w: row %d has %d values, schema has %d columns",
				errs.ErrColumnCount, r, len(row), s.Len())
		}
		for i, v := range row {
			columns[i][r] = v
		}
	}

	return e.encodeColumns(s, rowKeys, columns)
}

func (e *Encoder) encodeColumns(s *schema.Schema, rowKeys []string, columns [][]any) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(columns) != s.Len() {
		return nil, fmt.Errorf("%w: %d columns, schema has %d", errs.ErrColumnCount, len(columns), s.Len())
	}

	vectors := make([]column.Vector, len(columns))
	for i, c := range s.Columns {
		if len(columns[i]) != len(rowKeys) {
			return nil, fmt.Errorf("%w: column %q has %d values, %d row keys",
				errs.ErrRowKeyCount, c.Name, len(columns[i]), len(rowKeys))
		}
		v, err := e.coercer.Column(c.Name, c.Type, columns[i])
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}

	return e.encodeVectors(s, rowKeys, vectors)
}

func (e *Encoder) encodeVectors(s *schema.Schema, rowKeys []string, vectors []column.Vector) ([]byte, error) {
	schemaData, err := s.Serialize()
	if err != nil {
		return nil, err
	}
	if len(vectors) != s.Len() {
		return nil, fmt.Errorf("%w: %d vectors, schema has %d", errs.ErrColumnCount, len(vectors), s.Len())
	}
	for i, v := range vectors {
		if v == nil || v.Len() != len(rowKeys) {
			return nil, fmt.Errorf("%w: column %q does not have %d rows", errs.ErrRowKeyCount, s.Columns[i].Name, len(rowKeys))
		}
	}

	header, err := section.NewTableHeader(len(vectors)+1, len(rowKeys))
	if err != nil {
		return nil, err
	}
	if e.cfg.bigEndian {
		header.Flag.WithBigEndian()
	}
	header.Flag.SetHasChecksum(e.cfg.checksum)
	header.Flag.SetHasSchema(true)
	header.Flag.SetCompression(e.cfg.compression)

	b := pool.GetBuilder()
	defer pool.PutBuilder(b)

	if err := buildPayload(b, s, schemaData, rowKeys, vectors); err != nil {
		return nil, err
	}
	raw := b.FinishedBytes()

	payload, err := e.codec.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrEncoding, e.codec.Type(), err)
	}
	if err := header.SetPayload(len(payload), len(raw)); err != nil {
		return nil, err
	}
	if e.cfg.checksum {
		header.Checksum = hash.Checksum(raw)
	}

	// The payload may still alias the pooled builder, so it is copied before the builder is released.
	env := pool.GetEnvelopeBuffer()
	defer pool.PutEnvelopeBuffer(env)
	env.Grow(section.HeaderSize + len(payload))
	env.B = header.AppendTo(env.B)
	_, _ = env.Write(payload)
	out := env.Clone()

	level.Debug(e.cfg.logger).Log("msg", "encoded table", "rows", len(rowKeys), "columns", len(vectors)+1,
		"raw_bytes", len(raw), "bytes", len(out), "compression", e.cfg.compression)

	return out, nil
}

// buildPayload writes the KnimeTable root: row keys, names and columns with the row key column first.
func buildPayload(b *flatbuffers.Builder, s *schema.Schema, schemaData []byte, rowKeys []string, vectors []column.Vector) error {
	offsets, cleanup := pool.GetOffsetSlice(len(vectors) + 1)
	defer cleanup()

	var err error
	offsets[0], err = encoding.EncodeColumn(b, &column.Scalar[string]{Values: rowKeys})
	if err != nil {
		return fmt.Errorf("row key column: %w", err)
	}
	for i, v := range vectors {
		offsets[i+1], err = encoding.EncodeColumn(b, v)
		if err != nil {
			return fmt.Errorf("column %q: %w", s.Columns[i].Name, err)
		}
	}
	columns := fbs.Tables(b, offsets)

	names := append([]string{ktype.RowKeyColumnName}, s.Names()...)
	colNames := fbs.Strings(b, names)
	rowIDs := fbs.Strings(b, rowKeys)
	schemaOff := b.CreateByteString(schemaData)

	fbs.KnimeTableStart(b)
	fbs.KnimeTableAddRowIDs(b, rowIDs)
	fbs.KnimeTableAddColNames(b, colNames)
	fbs.KnimeTableAddColumns(b, columns)
	fbs.KnimeTableAddSchema(b, schemaOff)
	fbs.FinishKnimeTableBuffer(b, fbs.KnimeTableEnd(b))

	return nil
}
