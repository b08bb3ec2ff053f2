package query

import (
	"fmt"
	"strings"

	"github.com/asaidimu/go-frame/core/table"
)

// applyDerive appends a computed column. The compute function sees each row
// in turn; its results must match the declared column type or be nil.
func (p *Processor) applyDerive(t *table.Table, cfg *DeriveConfig) (*table.Table, error) {
	if t.Schema().Has(cfg.Column) {
		return nil, &table.ColumnExistsError{Column: cfg.Column}
	}

	p.mu.RLock()
	fn, ok := p.computeFunctions[cfg.Expression.Function]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unregistered compute function: %s", cfg.Expression.Function)
	}

	columns := append(t.Schema().Columns(), table.Column{Name: cfg.Column, Type: cfg.Type})
	schema, err := table.NewSchema(columns...)
	if err != nil {
		return nil, err
	}

	rows := t.Rows()
	for i, row := range rows {
		value, err := fn(row, cfg.Expression.Arguments)
		if err != nil {
			return nil, fmt.Errorf("compute function %q on row %d: %w", cfg.Expression.Function, i, err)
		}
		if value != nil {
			value, err = table.Normalize(value, cfg.Type)
			if err != nil {
				return nil, &table.TypeMismatchError{
					Column: cfg.Column,
					Want:   string(cfg.Type),
					Got:    err.Error(),
				}
			}
		}
		row[cfg.Column] = value
	}

	return table.New(schema, rows)
}

// matchName applies a column-name predicate.
func matchName(match *NameMatch, name string) (bool, error) {
	switch match.Operator {
	case NameMatchStartsWith:
		return strings.HasPrefix(name, match.Value), nil
	case NameMatchEndsWith:
		return strings.HasSuffix(name, match.Value), nil
	case NameMatchContains:
		return strings.Contains(name, match.Value), nil
	default:
		return false, fmt.Errorf("unsupported name matcher: %s", match.Operator)
	}
}

// selectedColumns resolves an explicit name list or a name predicate into a
// keep set, validating explicit names against the schema.
func selectedColumns(schema *table.Schema, names []string, match *NameMatch) (map[string]struct{}, error) {
	keep := make(map[string]struct{}, len(names))
	for _, name := range names {
		if !schema.Has(name) {
			return nil, &table.MissingColumnError{Column: name}
		}
		keep[name] = struct{}{}
	}
	if match != nil {
		for _, name := range schema.Names() {
			ok, err := matchName(match, name)
			if err != nil {
				return nil, err
			}
			if ok {
				keep[name] = struct{}{}
			}
		}
	}
	return keep, nil
}

// applySelect keeps only the resolved columns, in schema order.
func applySelect(t *table.Table, cfg *SelectConfig) (*table.Table, error) {
	keep, err := selectedColumns(t.Schema(), cfg.Columns, cfg.Match)
	if err != nil {
		return nil, err
	}
	return projectColumns(t, func(name string) bool {
		_, ok := keep[name]
		return ok
	})
}

// applyDrop removes the resolved columns.
func applyDrop(t *table.Table, cfg *DropConfig) (*table.Table, error) {
	drop, err := selectedColumns(t.Schema(), cfg.Columns, cfg.Match)
	if err != nil {
		return nil, err
	}
	return projectColumns(t, func(name string) bool {
		_, ok := drop[name]
		return !ok
	})
}

// projectColumns rebuilds the table keeping the columns the predicate
// accepts, preserving schema order and row count.
func projectColumns(t *table.Table, keep func(name string) bool) (*table.Table, error) {
	columns := make([]table.Column, 0, t.Schema().Len())
	for _, col := range t.Schema().Columns() {
		if keep(col.Name) {
			columns = append(columns, col)
		}
	}
	schema, err := table.NewSchema(columns...)
	if err != nil {
		return nil, err
	}

	rows := make([]table.Row, 0, t.Len())
	for _, row := range t.Rows() {
		projected := make(table.Row, len(columns))
		for _, col := range columns {
			projected[col.Name] = row[col.Name]
		}
		rows = append(rows, projected)
	}
	return table.New(schema, rows)
}

// applyRename renames columns in place. Unknown source names fail with
// ErrMissingColumn; a target name already present fails with ErrColumnExists.
func applyRename(t *table.Table, pairs []RenamePair) (*table.Table, error) {
	mapping := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		if !t.Schema().Has(pair.From) {
			return nil, &table.MissingColumnError{Column: pair.From}
		}
		if pair.From == pair.To {
			continue
		}
		if t.Schema().Has(pair.To) {
			return nil, &table.ColumnExistsError{Column: pair.To}
		}
		mapping[pair.From] = pair.To
	}

	columns := t.Schema().Columns()
	for i, col := range columns {
		if to, ok := mapping[col.Name]; ok {
			columns[i].Name = to
		}
	}
	schema, err := table.NewSchema(columns...)
	if err != nil {
		return nil, err
	}

	rows := make([]table.Row, 0, t.Len())
	for _, row := range t.Rows() {
		renamed := make(table.Row, len(row))
		for name, value := range row {
			if to, ok := mapping[name]; ok {
				name = to
			}
			renamed[name] = value
		}
		rows = append(rows, renamed)
	}
	return table.New(schema, rows)
}

// applyRelocate moves the named columns before or after an anchor, or to the
// front when no anchor is given. Values are untouched.
func applyRelocate(t *table.Table, cfg *RelocateConfig) (*table.Table, error) {
	if cfg.Before != "" && cfg.After != "" {
		return nil, fmt.Errorf("relocate accepts either a before or an after anchor, not both")
	}

	moving := make(map[string]struct{}, len(cfg.Columns))
	for _, name := range cfg.Columns {
		if !t.Schema().Has(name) {
			return nil, &table.MissingColumnError{Column: name}
		}
		moving[name] = struct{}{}
	}

	anchor := cfg.Before + cfg.After
	if anchor != "" {
		if !t.Schema().Has(anchor) {
			return nil, &table.MissingColumnError{Column: anchor}
		}
		if _, ok := moving[anchor]; ok {
			return nil, fmt.Errorf("anchor column %q cannot itself be relocated", anchor)
		}
	}

	// Moved columns keep the order given in the config; the rest keep
	// their relative order.
	moved := make([]table.Column, 0, len(cfg.Columns))
	for _, name := range cfg.Columns {
		col, _ := t.Schema().Column(name)
		moved = append(moved, col)
	}

	columns := make([]table.Column, 0, t.Schema().Len())
	if anchor == "" {
		columns = append(columns, moved...)
	}
	for _, col := range t.Schema().Columns() {
		if _, ok := moving[col.Name]; ok {
			continue
		}
		if col.Name == anchor && cfg.Before != "" {
			columns = append(columns, moved...)
		}
		columns = append(columns, col)
		if col.Name == anchor && cfg.After != "" {
			columns = append(columns, moved...)
		}
	}

	schema, err := table.NewSchema(columns...)
	if err != nil {
		return nil, err
	}
	return table.New(schema, t.Rows())
}
