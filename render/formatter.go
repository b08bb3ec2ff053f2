// Package render provides formatters for writing tables to various output
// formats.
//
// Currently supported formats:
//   - CSV: comma-separated values with header row
//   - JSON Lines: one JSON object per line
//   - Text: aligned plain-text table for terminals
//
// Example usage:
//
//	formatter := render.NewCSVFormatter(os.Stdout)
//	if err := formatter.Format(t); err != nil {
//	    log.Fatal(err)
//	}
package render

import (
	"fmt"
	"io"
	"time"

	"github.com/asaidimu/go-frame/core/table"
)

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to write a table in the target format
// and SetOutput to change the output destination. Columns are written in
// schema order.
type Formatter interface {
	// Format writes the table in the formatter's specific format
	Format(t *table.Table) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// formatValue converts a scalar value to its textual form. Missing values
// become the empty string.
func formatValue(v any) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case int64:
		return fmt.Sprintf("%d", val)
	case float64:
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}
