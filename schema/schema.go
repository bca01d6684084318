package schema

import (
	"fmt"
	"strings"

	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/internal/collision"
	"github.com/arloliu/ktable/ktype"
)

// Column is a named, typed column with optional free-form metadata.
type Column struct {
	Name     string
	Type     ktype.Type
	Metadata map[string]any
}

// Schema is an ordered list of columns. It never contains the row key column.
type Schema struct {
	Columns []Column
}

// New creates a schema from columns.
func New(columns ...Column) *Schema {
	return &Schema{Columns: columns}
}

// FromTypes creates a schema from parallel slices. metadata may be nil.
func FromTypes(types []ktype.Type, names []string, metadata []map[string]any) (*Schema, error) {
	if len(types) != len(names) || (metadata != nil && len(metadata) != len(names)) {
		return nil, fmt.Errorf("%w: %d types, %d names, %d metadata entries",
			errs.ErrSchemaLength, len(types), len(names), len(metadata))
	}

	s := &Schema{Columns: make([]Column, len(names))}
	for i, name := range names {
		s.Columns[i] = Column{Name: name, Type: types[i]}
		if metadata != nil {
			s.Columns[i].Metadata = metadata[i]
		}
	}

	return s, nil
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.Columns)
}

// Names returns the column names in order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}

	return names
}

// Types returns the column types in order.
func (s *Schema) Types() []ktype.Type {
	types := make([]ktype.Type, len(s.Columns))
	for i, c := range s.Columns {
		types[i] = c.Type
	}

	return types
}

// Index returns the position of the column called name, or -1.
func (s *Schema) Index(name string) int {
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}

	return -1
}

// Validate reports empty or duplicate names and invalid types.
// The row key column name is reserved.
func (s *Schema) Validate() error {
	tracker := collision.NewTracker(len(s.Columns) + 1)
	if err := tracker.Track(ktype.RowKeyColumnName); err != nil {
		return err
	}

	for i, c := range s.Columns {
		if err := tracker.Track(c.Name); err != nil {
			return err
		}
		if c.Type == nil {
			return fmt.Errorf("%w: column %q has no type", errs.ErrSchema, c.Name)
		}
		if err := ktype.Validate(c.Type); err != nil {
			return fmt.Errorf("column %d %q: %w", i, c.Name, err)
		}
	}

	return nil
}

// CleanHiveNames strips the table prefix that Hive-style stores put in front of column names:
// everything up to and including the last dot is removed.
func CleanHiveNames(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = name[strings.LastIndexByte(name, '.')+1:]
	}

	return out
}
