package render

import (
	"io"

	"github.com/asaidimu/go-frame/core/table"
	"github.com/olekukonko/tablewriter"
)

// TextFormatter writes tables as aligned plain text for terminals.
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// SetOutput sets the output writer.
func (f *TextFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format renders the table with column headers in schema order.
func (f *TextFormatter) Format(t *table.Table) error {
	names := t.Schema().Names()

	tw := tablewriter.NewWriter(f.writer)
	tw.SetHeader(names)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)

	for _, row := range t.Rows() {
		record := make([]string, len(names))
		for i, name := range names {
			record[i] = formatValue(row[name])
		}
		tw.Append(record)
	}

	tw.Render()
	return nil
}
