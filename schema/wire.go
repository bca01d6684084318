package schema

import (
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	jsoniter "github.com/json-iterator/go"

	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/internal/options"
	"github.com/arloliu/ktable/ktype"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type wireTypes struct {
	Specs  []ktype.Spec   `json:"specs"`
	Traits []ktype.Traits `json:"traits"`
}

type wireSchema struct {
	Schema         wireTypes        `json:"schema"`
	ColumnNames    []string         `json:"columnNames"`
	ColumnMetaData []map[string]any `json:"columnMetaData"`
}

// Serialize validates s and returns its JSON form with the row key column first.
// Nothing is returned when validation fails.
func (s *Schema) Serialize() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	n := len(s.Columns) + 1
	w := wireSchema{
		Schema:         wireTypes{Specs: make([]ktype.Spec, 0, n), Traits: make([]ktype.Traits, 0, n)},
		ColumnNames:    make([]string, 0, n),
		ColumnMetaData: make([]map[string]any, 0, n),
	}

	add := func(name string, t ktype.Type, meta map[string]any) error {
		spec, traits, err := ktype.ToWire(t)
		if err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}
		w.Schema.Specs = append(w.Schema.Specs, spec)
		w.Schema.Traits = append(w.Schema.Traits, traits)
		w.ColumnNames = append(w.ColumnNames, name)
		w.ColumnMetaData = append(w.ColumnMetaData, meta)

		return nil
	}

	if err := add(ktype.RowKeyColumnName, ktype.RowKeyType(), nil); err != nil {
		return nil, err
	}
	for _, c := range s.Columns {
		if err := add(c.Name, ktype.Wrap(c.Type), c.Metadata); err != nil {
			return nil, err
		}
	}

	return json.Marshal(w)
}

type deserializeConfig struct {
	logger log.Logger
}

// Option configures Deserialize.
type Option = options.Option[*deserializeConfig]

// WithLogger sets the logger that reports a missing row key column.
func WithLogger(logger log.Logger) Option {
	return options.NoError(func(c *deserializeConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// Deserialize parses a serialized schema. The leading row key column is dropped and
// value factory tags are removed; a schema without row key column is accepted with a warning.
func Deserialize(data []byte, opts ...Option) (*Schema, error) {
	cfg := &deserializeConfig{logger: log.NewNopLogger()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	cols, err := DecodeColumns(data)
	if err != nil {
		return nil, err
	}

	if len(cols) > 0 && ktype.IsRowKey(cols[0].Type) {
		cols = cols[1:]
	} else {
		level.Warn(cfg.logger).Log("msg", "row key column not found when deserializing schema", "columns", len(cols))
	}

	for i := range cols {
		cols[i].Type = ktype.Unwrap(cols[i].Type)
	}

	return New(cols...), nil
}

// DecodeColumns returns every column of a serialized schema in wire order. The row key
// column is kept and types keep their value factory tags.
func DecodeColumns(data []byte) ([]Column, error) {
	var w wireSchema
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidTypeDescriptor, err)
	}

	n := len(w.ColumnNames)
	if len(w.Schema.Specs) != n || len(w.Schema.Traits) != n || (w.ColumnMetaData != nil && len(w.ColumnMetaData) != n) {
		return nil, fmt.Errorf("%w: %d specs, %d traits, %d names, %d metadata entries",
			errs.ErrSchemaLength, len(w.Schema.Specs), len(w.Schema.Traits), n, len(w.ColumnMetaData))
	}

	cols := make([]Column, n)
	for i := range cols {
		t, err := ktype.FromWire(w.Schema.Specs[i], w.Schema.Traits[i])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", w.ColumnNames[i], err)
		}
		cols[i] = Column{Name: w.ColumnNames[i], Type: t}
		if w.ColumnMetaData != nil {
			cols[i].Metadata = w.ColumnMetaData[i]
		}
	}

	return cols, nil
}

// PeekColumnNames returns the column names of a serialized schema, row key column included,
// without decoding any type descriptor.
func PeekColumnNames(data []byte) ([]string, error) {
	var (
		names    []string
		parseErr error
	)
	_, err := jsonparser.ArrayEach(data, func(value []byte, ty jsonparser.ValueType, _ int, err error) {
		if err != nil || parseErr != nil {
			return
		}
		if ty != jsonparser.String {
			parseErr = fmt.Errorf("%w: column name of type %s", errs.ErrSchema, ty)
			return
		}
		name, err := jsonparser.ParseString(value)
		if err != nil {
			parseErr = err
			return
		}
		names = append(names, name)
	}, "columnNames")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrSchema, err)
	}
	if parseErr != nil {
		return nil, parseErr
	}

	return names, nil
}
