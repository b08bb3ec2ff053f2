// Package source provides tabular data sources: collaborators that supply
// the initial Table value a pipeline consumes. Sources for SQLite and
// Parquet live in their own packages; this package holds the contract plus
// the in-memory and CSV implementations.
package source

import (
	"context"
	"fmt"

	"github.com/asaidimu/go-frame/core/table"
	"github.com/asaidimu/go-frame/utils"
)

// Source supplies an initial Table value to a pipeline.
type Source interface {
	Read(ctx context.Context) (*table.Table, error)
}

// MemorySource serves a table built from in-memory rows. Rows are validated
// against the schema when Read is called.
type MemorySource struct {
	schema *table.Schema
	rows   []table.Row
}

// NewMemorySource creates a source over the given schema and rows.
func NewMemorySource(schema *table.Schema, rows []table.Row) *MemorySource {
	return &MemorySource{schema: schema, rows: rows}
}

// Read materializes the rows into a table.
func (s *MemorySource) Read(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return table.New(s.schema, s.rows)
}

// FromStructs builds a MemorySource from a slice of structs, using JSON
// field names as column names. Values are normalized to the schema's column
// types, so integer columns survive the float64 round trip through JSON.
func FromStructs[T any](schema *table.Schema, records []T) (*MemorySource, error) {
	rows := make([]table.Row, 0, len(records))
	for i, record := range records {
		raw, err := utils.RowFromStruct(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		row := make(table.Row, schema.Len())
		for _, col := range schema.Columns() {
			value, ok := raw[col.Name]
			if !ok || value == nil {
				row[col.Name] = nil
				continue
			}
			normalized, err := table.Normalize(value, col.Type)
			if err != nil {
				return nil, fmt.Errorf("record %d, column %q: %w", i, col.Name, err)
			}
			row[col.Name] = normalized
		}
		rows = append(rows, row)
	}
	return NewMemorySource(schema, rows), nil
}
