package query

import (
	"fmt"

	"github.com/asaidimu/go-frame/core/table"
)

// group is one partition of the input: the key column values plus every row
// that produced them, in input order.
type group struct {
	values table.Row
	rows   []table.Row
}

// applyGroup partitions the table on the grouping columns and reduces each
// partition to a single row: key columns first, then one column per
// aggregate. Groups appear in first-occurrence order. Per-row detail does
// not survive the reduction.
func applyGroup(t *table.Table, cfg *GroupConfig) (*table.Table, error) {
	if len(cfg.Columns) == 0 {
		return nil, fmt.Errorf("grouping requires at least one column")
	}
	for _, name := range cfg.Columns {
		if !t.Schema().Has(name) {
			return nil, &table.MissingColumnError{Column: name}
		}
	}
	if len(cfg.Aggregates) == 0 {
		return nil, fmt.Errorf("grouping requires at least one aggregate")
	}

	schema, aliases, err := groupSchema(t.Schema(), cfg)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*group)
	var order []string
	for _, row := range t.Rows() {
		key := groupKey(row, cfg.Columns)
		g, ok := groups[key]
		if !ok {
			values := make(table.Row, len(cfg.Columns))
			for _, name := range cfg.Columns {
				values[name] = row[name]
			}
			g = &group{values: values}
			groups[key] = g
			order = append(order, key)
		}
		g.rows = append(g.rows, row)
	}

	out := make([]table.Row, 0, len(order))
	for _, key := range order {
		g := groups[key]
		result := make(table.Row, len(cfg.Columns)+len(cfg.Aggregates))
		for name, value := range g.values {
			result[name] = value
		}
		for i, agg := range cfg.Aggregates {
			value, err := evaluateAggregate(t.Schema(), agg, g.rows)
			if err != nil {
				return nil, err
			}
			result[aliases[i]] = value
		}
		out = append(out, result)
	}

	return table.New(schema, out)
}

// groupSchema derives the output schema: grouping columns keep their types,
// aggregate columns get types from their aggregate kind, and the resolved
// alias list is returned alongside.
func groupSchema(in *table.Schema, cfg *GroupConfig) (*table.Schema, []string, error) {
	columns := make([]table.Column, 0, len(cfg.Columns)+len(cfg.Aggregates))
	for _, name := range cfg.Columns {
		col, _ := in.Column(name)
		columns = append(columns, col)
	}

	aliases := make([]string, len(cfg.Aggregates))
	for i, agg := range cfg.Aggregates {
		colType, err := aggregateType(in, agg)
		if err != nil {
			return nil, nil, err
		}
		alias := agg.Alias
		if alias == "" {
			if agg.Column == "" {
				alias = string(agg.Type)
			} else {
				alias = fmt.Sprintf("%s_%s", agg.Type, agg.Column)
			}
		}
		aliases[i] = alias
		columns = append(columns, table.Column{Name: alias, Type: colType})
	}

	schema, err := table.NewSchema(columns...)
	if err != nil {
		return nil, nil, err
	}
	return schema, aliases, nil
}

// aggregateType validates an aggregate against the input schema and returns
// the type of its result column.
func aggregateType(in *table.Schema, agg AggregateConfig) (table.ColumnType, error) {
	if agg.Type == AggregateTypeCount {
		if agg.Column != "" && !in.Has(agg.Column) {
			return "", &table.MissingColumnError{Column: agg.Column}
		}
		return table.ColumnTypeInteger, nil
	}

	col, ok := in.Column(agg.Column)
	if !ok {
		return "", &table.MissingColumnError{Column: agg.Column}
	}

	switch agg.Type {
	case AggregateTypeSum:
		if !col.Type.IsNumeric() {
			return "", &table.TypeMismatchError{Column: col.Name, Want: "numeric", Got: string(col.Type)}
		}
		return col.Type, nil
	case AggregateTypeMean:
		if !col.Type.IsNumeric() {
			return "", &table.TypeMismatchError{Column: col.Name, Want: "numeric", Got: string(col.Type)}
		}
		return table.ColumnTypeFloat, nil
	case AggregateTypeMin, AggregateTypeMax:
		return col.Type, nil
	default:
		return "", fmt.Errorf("unknown aggregate type: %s", agg.Type)
	}
}

// evaluateAggregate reduces one group's rows for a single aggregate.
//
// Missingness rules: count is immune to missing values (it counts rows, or
// non-missing values when a column is given). For the other aggregates,
// without SkipMissing a single missing input makes the result missing, and
// a group whose inputs are all missing is ErrUndefinedAggregate. With
// SkipMissing, missing inputs are dropped; an emptied group yields a
// missing result.
func evaluateAggregate(in *table.Schema, agg AggregateConfig, rows []table.Row) (any, error) {
	if agg.Type == AggregateTypeCount {
		if agg.Column == "" {
			return int64(len(rows)), nil
		}
		count := int64(0)
		for _, row := range rows {
			if row[agg.Column] != nil {
				count++
			}
		}
		return count, nil
	}

	values := make([]any, 0, len(rows))
	missing := 0
	for _, row := range rows {
		v := row[agg.Column]
		if v == nil {
			missing++
			continue
		}
		values = append(values, v)
	}

	if !agg.SkipMissing && missing > 0 {
		if len(values) == 0 && len(rows) > 0 {
			return nil, &table.UndefinedAggregateError{Aggregate: string(agg.Type), Column: agg.Column}
		}
		return nil, nil
	}
	if len(values) == 0 {
		return nil, nil
	}

	col, _ := in.Column(agg.Column)

	switch agg.Type {
	case AggregateTypeSum:
		sum := 0.0
		for _, v := range values {
			num, _ := table.ToFloat64(v)
			sum += num
		}
		if col.Type == table.ColumnTypeInteger {
			return int64(sum), nil
		}
		return sum, nil

	case AggregateTypeMean:
		sum := 0.0
		for _, v := range values {
			num, _ := table.ToFloat64(v)
			sum += num
		}
		return sum / float64(len(values)), nil

	case AggregateTypeMin, AggregateTypeMax:
		best := values[0]
		for _, v := range values[1:] {
			cmp, err := table.Compare(v, best)
			if err != nil {
				return nil, &table.TypeMismatchError{Column: agg.Column, Want: string(col.Type), Got: fmt.Sprintf("%T", v)}
			}
			if (agg.Type == AggregateTypeMin && cmp < 0) || (agg.Type == AggregateTypeMax && cmp > 0) {
				best = v
			}
		}
		return best, nil
	}

	return nil, fmt.Errorf("unknown aggregate type: %s", agg.Type)
}
