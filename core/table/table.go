package table

import (
	"fmt"
	"maps"
)

// Row is a mapping from column name to a typed scalar value. A nil value
// marks a missing observation.
type Row map[string]any

// Column pairs a name with a declared scalar type.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Schema is an ordered list of columns. The order is authoritative: it is
// what renderers print and what Relocate rearranges.
type Schema struct {
	columns []Column
	index   map[string]int
}

// NewSchema builds a schema from the given columns. Duplicate column names
// are rejected with ErrColumnExists.
func NewSchema(columns ...Column) (*Schema, error) {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		if _, dup := index[col.Name]; dup {
			return nil, &ColumnExistsError{Column: col.Name}
		}
		index[col.Name] = i
	}
	cols := make([]Column, len(columns))
	copy(cols, columns)
	return &Schema{columns: cols, index: index}, nil
}

// MustSchema is like NewSchema but panics on error. Intended for statically
// known schemas in examples and tests.
func MustSchema(columns ...Column) *Schema {
	s, err := NewSchema(columns...)
	if err != nil {
		panic(err)
	}
	return s
}

// Columns returns a copy of the schema's columns in order.
func (s *Schema) Columns() []Column {
	cols := make([]Column, len(s.columns))
	copy(cols, s.columns)
	return cols
}

// Names returns the column names in schema order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = col.Name
	}
	return names
}

// Column looks up a column by name.
func (s *Schema) Column(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

// Has reports whether the schema contains a column with the given name.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Table is an ordered sequence of uniformly-shaped rows. Tables are
// immutable values: constructors copy their inputs and accessors return
// copies, so a Table can be shared freely between pipeline stages.
type Table struct {
	schema *Schema
	rows   []Row
}

// New validates rows against the schema and builds a table. Every row must
// carry exactly the schema's column set; values must match the declared
// column type or be nil.
func New(schema *Schema, rows []Row) (*Table, error) {
	if schema == nil {
		return nil, fmt.Errorf("table requires a schema")
	}

	copied := make([]Row, len(rows))
	for i, row := range rows {
		if len(row) != schema.Len() {
			for name := range row {
				if !schema.Has(name) {
					return nil, fmt.Errorf("row %d: %w", i, &MissingColumnError{Column: name})
				}
			}
		}
		for _, col := range schema.columns {
			v, ok := row[col.Name]
			if !ok {
				return nil, fmt.Errorf("row %d: %w", i, &MissingColumnError{Column: col.Name})
			}
			if v == nil {
				continue
			}
			got, known := TypeOf(v)
			if !known || got != col.Type {
				return nil, fmt.Errorf("row %d: %w", i, &TypeMismatchError{
					Column: col.Name,
					Want:   string(col.Type),
					Got:    fmt.Sprintf("%T", v),
				})
			}
		}
		copied[i] = maps.Clone(row)
	}

	return &Table{schema: schema, rows: copied}, nil
}

// Empty returns a table with the given schema and no rows.
func Empty(schema *Schema) *Table {
	return &Table{schema: schema, rows: nil}
}

// Schema returns the table's schema.
func (t *Table) Schema() *Schema {
	return t.schema
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns a copy of the row at index i.
func (t *Table) Row(i int) Row {
	return maps.Clone(t.rows[i])
}

// Rows returns a copy of all rows in order. Mutating the result does not
// affect the table.
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.rows))
	for i, row := range t.rows {
		rows[i] = maps.Clone(row)
	}
	return rows
}

// Value returns the value at row i, column name. The second return reports
// whether the column exists in the schema.
func (t *Table) Value(i int, name string) (any, bool) {
	if !t.schema.Has(name) {
		return nil, false
	}
	return t.rows[i][name], true
}
