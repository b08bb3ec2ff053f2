package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/asaidimu/go-frame/core/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderFixture(t *testing.T) *table.Table {
	t.Helper()
	schema, err := table.NewSchema(
		table.Column{Name: "carrier", Type: table.ColumnTypeString},
		table.Column{Name: "delay", Type: table.ColumnTypeFloat},
		table.Column{Name: "flights", Type: table.ColumnTypeInteger},
	)
	require.NoError(t, err)

	tbl, err := table.New(schema, []table.Row{
		{"carrier": "UA", "delay": 7.5, "flights": int64(2)},
		{"carrier": "AA", "delay": nil, "flights": int64(1)},
	})
	require.NoError(t, err)
	return tbl
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter(&buf).Format(renderFixture(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "carrier,delay,flights", lines[0])
	assert.Equal(t, "UA,7.5,2", lines[1])
	// Missing values are empty cells.
	assert.Equal(t, "AA,,1", lines[2])
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf).Format(renderFixture(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var row map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &row))
	assert.Equal(t, "UA", row["carrier"])
	assert.Equal(t, 7.5, row["delay"])

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &row))
	// Missing values are JSON null.
	assert.Contains(t, row, "delay")
	assert.Nil(t, row["delay"])
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(&buf).Format(renderFixture(t)))

	out := buf.String()
	assert.Contains(t, out, "carrier")
	assert.Contains(t, out, "UA")
	assert.Contains(t, out, "7.5")
}

func TestSetOutput(t *testing.T) {
	var first, second bytes.Buffer
	formatter := NewCSVFormatter(&first)
	formatter.SetOutput(&second)

	require.NoError(t, formatter.Format(renderFixture(t)))
	assert.Zero(t, first.Len())
	assert.NotZero(t, second.Len())
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, "42", formatValue(int64(42)))
	assert.Equal(t, "2.5", formatValue(2.5))
	assert.Equal(t, "true", formatValue(true))
	assert.Equal(t, "2024-03-01T10:00:00Z",
		formatValue(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
}

func TestFormatterInterface(t *testing.T) {
	var buf bytes.Buffer
	formatters := []Formatter{
		NewCSVFormatter(&buf),
		NewJSONFormatter(&buf),
		NewTextFormatter(&buf),
	}
	tbl := renderFixture(t)
	for _, formatter := range formatters {
		buf.Reset()
		require.NoError(t, formatter.Format(tbl))
		assert.NotZero(t, buf.Len())
	}
}
