package query

import (
	"testing"

	"github.com/asaidimu/go-frame/core/table"
	"github.com/stretchr/testify/require"
)

// flightsSchema mirrors the kind of dataset the pipeline is built for: one
// row per flight with a possibly-missing delay.
func flightsSchema(t *testing.T) *table.Schema {
	t.Helper()
	schema, err := table.NewSchema(
		table.Column{Name: "month", Type: table.ColumnTypeInteger},
		table.Column{Name: "carrier", Type: table.ColumnTypeString},
		table.Column{Name: "delay", Type: table.ColumnTypeFloat},
		table.Column{Name: "distance", Type: table.ColumnTypeFloat},
	)
	require.NoError(t, err)
	return schema
}

func flightsTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(flightsSchema(t), []table.Row{
		{"month": int64(1), "carrier": "UA", "delay": 10.0, "distance": 1400.0},
		{"month": int64(1), "carrier": "AA", "delay": nil, "distance": 1089.0},
		{"month": int64(2), "carrier": "UA", "delay": 5.0, "distance": 719.0},
		{"month": int64(2), "carrier": "DL", "delay": -3.0, "distance": 1576.0},
		{"month": int64(3), "carrier": "AA", "delay": 22.0, "distance": 733.0},
	})
	require.NoError(t, err)
	return tbl
}

// column collects one column's values in row order.
func column(t *testing.T, tbl *table.Table, name string) []any {
	t.Helper()
	out := make([]any, 0, tbl.Len())
	for _, row := range tbl.Rows() {
		require.Contains(t, row, name)
		out = append(out, row[name])
	}
	return out
}
