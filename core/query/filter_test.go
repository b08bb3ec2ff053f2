package query

import (
	"context"
	"testing"

	"github.com/asaidimu/go-frame/core/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyTestFilter(t *testing.T, tbl *table.Table, filter Filter) (*table.Table, error) {
	t.Helper()
	p := NewProcessor(nil)
	pipeline := Pipeline{Operations: []Operation{{Filter: &filter}}}
	return p.Apply(context.Background(), pipeline, tbl)
}

func TestFilterConditions(t *testing.T) {
	tbl := flightsTable(t)

	t.Run("Eq on integer column", func(t *testing.T) {
		out, err := applyTestFilter(t, tbl, Filter{Condition: &FilterCondition{
			Column: "month", Operator: ComparisonOperatorEq, Value: 1,
		}})
		require.NoError(t, err)
		assert.Equal(t, 2, out.Len())
	})

	t.Run("Gt skips missing values", func(t *testing.T) {
		out, err := applyTestFilter(t, tbl, Filter{Condition: &FilterCondition{
			Column: "delay", Operator: ComparisonOperatorGt, Value: 0,
		}})
		require.NoError(t, err)
		// The AA row with a missing delay does not match.
		assert.Equal(t, []any{10.0, 5.0, 22.0}, column(t, out, "delay"))
	})

	t.Run("Order preserved", func(t *testing.T) {
		out, err := applyTestFilter(t, tbl, Filter{Condition: &FilterCondition{
			Column: "carrier", Operator: ComparisonOperatorNeq, Value: "DL",
		}})
		require.NoError(t, err)
		assert.Equal(t, []any{"UA", "AA", "UA", "AA"}, column(t, out, "carrier"))
	})

	t.Run("In and Nin", func(t *testing.T) {
		out, err := applyTestFilter(t, tbl, Filter{Condition: &FilterCondition{
			Column: "carrier", Operator: ComparisonOperatorIn, Value: []FilterValue{"UA", "DL"},
		}})
		require.NoError(t, err)
		assert.Equal(t, 3, out.Len())

		out, err = applyTestFilter(t, tbl, Filter{Condition: &FilterCondition{
			Column: "carrier", Operator: ComparisonOperatorNin, Value: []FilterValue{"UA", "DL"},
		}})
		require.NoError(t, err)
		assert.Equal(t, 2, out.Len())
	})

	t.Run("String operators", func(t *testing.T) {
		out, err := applyTestFilter(t, tbl, Filter{Condition: &FilterCondition{
			Column: "carrier", Operator: ComparisonOperatorStartsWith, Value: "U",
		}})
		require.NoError(t, err)
		assert.Equal(t, 2, out.Len())

		out, err = applyTestFilter(t, tbl, Filter{Condition: &FilterCondition{
			Column: "carrier", Operator: ComparisonOperatorContains, Value: "A",
		}})
		require.NoError(t, err)
		assert.Equal(t, 4, out.Len())
	})

	t.Run("Exists and NotExists", func(t *testing.T) {
		out, err := applyTestFilter(t, tbl, Filter{Condition: &FilterCondition{
			Column: "delay", Operator: ComparisonOperatorExists,
		}})
		require.NoError(t, err)
		assert.Equal(t, 4, out.Len())

		out, err = applyTestFilter(t, tbl, Filter{Condition: &FilterCondition{
			Column: "delay", Operator: ComparisonOperatorNotExists,
		}})
		require.NoError(t, err)
		assert.Equal(t, 1, out.Len())
		assert.Equal(t, []any{"AA"}, column(t, out, "carrier"))
	})

	t.Run("Eq nil matches missing", func(t *testing.T) {
		out, err := applyTestFilter(t, tbl, Filter{Condition: &FilterCondition{
			Column: "delay", Operator: ComparisonOperatorEq, Value: nil,
		}})
		require.NoError(t, err)
		assert.Equal(t, 1, out.Len())
	})

	t.Run("Missing column fails", func(t *testing.T) {
		_, err := applyTestFilter(t, tbl, Filter{Condition: &FilterCondition{
			Column: "dep_time", Operator: ComparisonOperatorEq, Value: 1,
		}})
		assert.ErrorIs(t, err, table.ErrMissingColumn)
	})

	t.Run("String operator on numeric column fails", func(t *testing.T) {
		_, err := applyTestFilter(t, tbl, Filter{Condition: &FilterCondition{
			Column: "month", Operator: ComparisonOperatorContains, Value: "1",
		}})
		assert.ErrorIs(t, err, table.ErrTypeMismatch)
	})
}

func TestFilterGroups(t *testing.T) {
	tbl := flightsTable(t)

	t.Run("And group", func(t *testing.T) {
		out, err := applyTestFilter(t, tbl, Filter{Group: &FilterGroup{
			Operator: LogicalOperatorAnd,
			Conditions: []Filter{
				{Condition: &FilterCondition{Column: "month", Operator: ComparisonOperatorEq, Value: 1}},
				{Condition: &FilterCondition{Column: "carrier", Operator: ComparisonOperatorEq, Value: "UA"}},
			},
		}})
		require.NoError(t, err)
		assert.Equal(t, 1, out.Len())
	})

	t.Run("Or group", func(t *testing.T) {
		out, err := applyTestFilter(t, tbl, Filter{Group: &FilterGroup{
			Operator: LogicalOperatorOr,
			Conditions: []Filter{
				{Condition: &FilterCondition{Column: "month", Operator: ComparisonOperatorEq, Value: 1}},
				{Condition: &FilterCondition{Column: "month", Operator: ComparisonOperatorEq, Value: 3}},
			},
		}})
		require.NoError(t, err)
		assert.Equal(t, 3, out.Len())
	})

	t.Run("Not group", func(t *testing.T) {
		out, err := applyTestFilter(t, tbl, Filter{Group: &FilterGroup{
			Operator: LogicalOperatorNot,
			Conditions: []Filter{
				{Condition: &FilterCondition{Column: "carrier", Operator: ComparisonOperatorEq, Value: "UA"}},
			},
		}})
		require.NoError(t, err)
		assert.Equal(t, 3, out.Len())
	})

	t.Run("Not group requires one condition", func(t *testing.T) {
		_, err := applyTestFilter(t, tbl, Filter{Group: &FilterGroup{
			Operator: LogicalOperatorNot,
		}})
		assert.Error(t, err)
	})

	t.Run("Empty filter node fails", func(t *testing.T) {
		_, err := applyTestFilter(t, tbl, Filter{})
		assert.Error(t, err)
	})
}

func TestFilterIdempotence(t *testing.T) {
	tbl := flightsTable(t)
	filter := Filter{Condition: &FilterCondition{
		Column: "delay", Operator: ComparisonOperatorGt, Value: 0,
	}}

	once, err := applyTestFilter(t, tbl, filter)
	require.NoError(t, err)
	twice, err := applyTestFilter(t, once, filter)
	require.NoError(t, err)

	assert.Equal(t, once.Rows(), twice.Rows())
}

func TestFilterCustomPredicate(t *testing.T) {
	tbl := flightsTable(t)
	p := NewProcessor(nil)
	p.RegisterPredicateFunction("longhaul", func(row table.Row, column string, value FilterValue) (bool, error) {
		v, _ := table.ToFloat64(row[column])
		threshold, _ := table.ToFloat64(value)
		return row[column] != nil && v >= threshold, nil
	})

	pipeline := NewPipelineBuilder().
		Where("distance").Custom("longhaul", 1000).
		Build()

	out, err := p.Apply(context.Background(), pipeline, tbl)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Len())
}

func TestFilterUnregisteredPredicate(t *testing.T) {
	tbl := flightsTable(t)
	_, err := applyTestFilter(t, tbl, Filter{Condition: &FilterCondition{
		Column: "distance", Operator: "longhaul", Value: 1000,
	}})
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	p := NewProcessor(nil)
	schema := flightsSchema(t)
	row := table.Row{"month": int64(1), "carrier": "UA", "delay": 10.0, "distance": 1400.0}

	t.Run("Nil filter matches", func(t *testing.T) {
		ok, err := p.Match(context.Background(), nil, schema, row)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Condition", func(t *testing.T) {
		ok, err := p.Match(context.Background(), &Filter{Condition: &FilterCondition{
			Column: "carrier", Operator: ComparisonOperatorEq, Value: "UA",
		}}, schema, row)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
