package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/asaidimu/go-frame/core/table"
	"go.uber.org/zap"
)

// CSVSource reads a comma-separated file with a header row into a table.
// With a declared schema, values are coerced to the declared column types;
// without one, column types are inferred from the data. Empty cells are
// missing values.
type CSVSource struct {
	path   string
	schema *table.Schema
	logger *zap.Logger
}

// NewCSVSource creates a CSV source that infers its schema from the file.
func NewCSVSource(path string, logger *zap.Logger) *CSVSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVSource{path: path, logger: logger}
}

// NewCSVSourceWithSchema creates a CSV source that coerces values to the
// given schema. The header must contain every schema column.
func NewCSVSourceWithSchema(path string, schema *table.Schema, logger *zap.Logger) *CSVSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVSource{path: path, schema: schema, logger: logger}
}

// Read loads the whole file into a table.
func (s *CSVSource) Read(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv file %s has no header row", s.path)
	}

	header := records[0]
	data := records[1:]
	s.logger.Debug("Read csv file",
		zap.String("path", s.path),
		zap.Int("columns", len(header)),
		zap.Int("rows", len(data)))

	schema := s.schema
	if schema == nil {
		schema, err = inferSchema(header, data)
		if err != nil {
			return nil, err
		}
	} else {
		for _, col := range schema.Columns() {
			if columnIndex(header, col.Name) < 0 {
				return nil, &table.MissingColumnError{Column: col.Name}
			}
		}
	}

	rows := make([]table.Row, 0, len(data))
	for i, record := range data {
		row := make(table.Row, schema.Len())
		for _, col := range schema.Columns() {
			idx := columnIndex(header, col.Name)
			if idx >= len(record) || record[idx] == "" {
				row[col.Name] = nil
				continue
			}
			value, err := table.Normalize(record[idx], col.Type)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", i+1, col.Name, err)
			}
			row[col.Name] = value
		}
		rows = append(rows, row)
	}

	return table.New(schema, rows)
}

// columnIndex finds a header cell by name.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// inferSchema derives column types from the data: the narrowest of integer,
// float, boolean, timestamp, or string that accepts every non-empty cell of
// a column. A column with no data defaults to string.
func inferSchema(header []string, data [][]string) (*table.Schema, error) {
	columns := make([]table.Column, len(header))
	for i, name := range header {
		colType := table.ColumnType("")
		for _, record := range data {
			if i >= len(record) || record[i] == "" {
				continue
			}
			cellType := inferCellType(record[i])
			colType = widen(colType, cellType)
		}
		if colType == "" {
			colType = table.ColumnTypeString
		}
		columns[i] = table.Column{Name: name, Type: colType}
	}
	return table.NewSchema(columns...)
}

// inferCellType classifies a single cell.
func inferCellType(cell string) table.ColumnType {
	if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return table.ColumnTypeInteger
	}
	if _, err := strconv.ParseFloat(cell, 64); err == nil {
		return table.ColumnTypeFloat
	}
	if cell == "true" || cell == "false" {
		return table.ColumnTypeBoolean
	}
	if _, err := time.Parse(time.RFC3339, cell); err == nil {
		return table.ColumnTypeTimestamp
	}
	return table.ColumnTypeString
}

// widen merges the type seen so far with a new cell's type. Integer widens
// to float; any other disagreement falls back to string.
func widen(current, next table.ColumnType) table.ColumnType {
	if current == "" || current == next {
		return next
	}
	if (current == table.ColumnTypeInteger && next == table.ColumnTypeFloat) ||
		(current == table.ColumnTypeFloat && next == table.ColumnTypeInteger) {
		return table.ColumnTypeFloat
	}
	return table.ColumnTypeString
}
