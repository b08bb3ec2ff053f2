package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/asaidimu/go-frame/core/table"
)

// CSVFormatter writes tables as CSV with a header row.
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer.
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the table as CSV. Columns follow schema order; missing
// values are written as empty cells.
func (c *CSVFormatter) Format(t *table.Table) error {
	csvWriter := csv.NewWriter(c.writer)

	names := t.Schema().Names()
	if err := csvWriter.Write(names); err != nil {
		return err
	}

	for _, row := range t.Rows() {
		record := make([]string, len(names))
		for i, name := range names {
			record[i] = formatValue(row[name])
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}
