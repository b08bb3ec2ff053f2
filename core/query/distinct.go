package query

import (
	"fmt"
	"strings"

	"github.com/asaidimu/go-frame/core/table"
)

// applyDistinct keeps the first-occurrence row per distinct value
// combination of the configured columns. With no columns the whole row is
// the key. Unless KeepAll is set, only the keyed columns survive.
func applyDistinct(t *table.Table, cfg *DistinctConfig) (*table.Table, error) {
	keyColumns := cfg.Columns
	if len(keyColumns) == 0 {
		keyColumns = t.Schema().Names()
	} else {
		for _, name := range keyColumns {
			if !t.Schema().Has(name) {
				return nil, &table.MissingColumnError{Column: name}
			}
		}
	}

	outSchema := t.Schema()
	if len(cfg.Columns) > 0 && !cfg.KeepAll {
		columns := make([]table.Column, 0, len(cfg.Columns))
		for _, name := range cfg.Columns {
			col, _ := t.Schema().Column(name)
			columns = append(columns, col)
		}
		var err error
		outSchema, err = table.NewSchema(columns...)
		if err != nil {
			return nil, err
		}
	}

	seen := make(map[string]struct{})
	kept := make([]table.Row, 0, t.Len())
	for _, row := range t.Rows() {
		key := groupKey(row, keyColumns)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if outSchema == t.Schema() {
			kept = append(kept, row)
			continue
		}
		projected := make(table.Row, len(cfg.Columns))
		for _, name := range cfg.Columns {
			projected[name] = row[name]
		}
		kept = append(kept, projected)
	}

	return table.New(outSchema, kept)
}

// groupKey builds a collision-resistant string key from the named columns of
// a row. Column names are included so value runs cannot alias across
// columns; separators use NUL bytes unlikely to occur in data.
func groupKey(row table.Row, columns []string) string {
	var key strings.Builder
	for i, name := range columns {
		if i > 0 {
			key.WriteString("\x00||\x00")
		}
		key.WriteString(name)
		key.WriteString("\x00:\x00")
		fmt.Fprintf(&key, "%#v", row[name])
	}
	return key.String()
}
