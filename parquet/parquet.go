// Package parquet provides a tabular data source over Apache Parquet files.
//
// Files are read fully into memory and returned as Table values; the table
// schema is derived from the parquet schema's leaf fields with column types
// inferred from the decoded values.
package parquet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/asaidimu/go-frame/core/table"
	"github.com/parquet-go/parquet-go"
)

// ReadFile reads a single parquet file into a table.
func ReadFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	names := make([]string, 0, len(pqFile.Schema().Fields()))
	for _, field := range pqFile.Schema().Fields() {
		names = append(names, field.Name())
	}

	reader := parquet.NewReader(pqFile)
	defer func() { _ = reader.Close() }()

	raw := make([]map[string]any, 0)
	for {
		row := make(map[string]any)
		if err := reader.Read(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		raw = append(raw, row)
	}

	return buildTable(names, raw)
}

// ReadGlob reads every parquet file matching the glob pattern and
// concatenates the rows in file order. All files must share a schema.
func ReadGlob(pattern string) (*table.Table, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern %q", pattern)
	}

	var out *table.Table
	for _, path := range matches {
		t, err := ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if out == nil {
			out = t
			continue
		}
		merged := append(out.Rows(), t.Rows()...)
		out, err = table.New(out.Schema(), merged)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return out, nil
}

// buildTable derives a schema from the decoded values and normalizes rows
// against it. Column order follows the parquet schema's field order.
func buildTable(names []string, raw []map[string]any) (*table.Table, error) {
	columns := make([]table.Column, 0, len(names))
	for _, name := range names {
		colType := table.ColumnTypeString
		for _, row := range raw {
			if v, ok := row[name]; ok && v != nil {
				inferred, ok := typeOfDecoded(v)
				if ok {
					colType = inferred
				}
				break
			}
		}
		columns = append(columns, table.Column{Name: name, Type: colType})
	}

	schema, err := table.NewSchema(columns...)
	if err != nil {
		return nil, err
	}

	rows := make([]table.Row, 0, len(raw))
	for i, decoded := range raw {
		row := make(table.Row, len(columns))
		for _, col := range columns {
			v, ok := decoded[col.Name]
			if !ok || v == nil {
				row[col.Name] = nil
				continue
			}
			value, err := table.Normalize(v, col.Type)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", i, col.Name, err)
			}
			row[col.Name] = value
		}
		rows = append(rows, row)
	}

	return table.New(schema, rows)
}

// typeOfDecoded classifies a value produced by the parquet decoder,
// widening the narrower integer and float kinds.
func typeOfDecoded(v any) (table.ColumnType, bool) {
	switch v.(type) {
	case bool:
		return table.ColumnTypeBoolean, true
	case string, []byte:
		return table.ColumnTypeString, true
	case float32, float64:
		return table.ColumnTypeFloat, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return table.ColumnTypeInteger, true
	case time.Time:
		return table.ColumnTypeTimestamp, true
	default:
		return "", false
	}
}

// FileSource adapts a parquet file (or glob pattern) to the source contract.
type FileSource struct {
	pattern string
}

// NewFileSource creates a source over a parquet file path or glob pattern.
func NewFileSource(pattern string) *FileSource {
	return &FileSource{pattern: pattern}
}

// Read loads the matching files.
func (s *FileSource) Read(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadGlob(s.pattern)
}
