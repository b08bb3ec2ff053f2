package query

import (
	"fmt"
	"strings"

	"github.com/asaidimu/go-frame/core/table"
)

// applyFilter keeps the rows where the filter holds, preserving order. A
// condition that references a column absent from the schema fails with
// ErrMissingColumn rather than evaluating to false.
func (p *Processor) applyFilter(t *table.Table, filter *Filter) (*table.Table, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	kept := make([]table.Row, 0, t.Len())
	rows := t.Rows()
	for _, row := range rows {
		passes, err := p.evaluateFilter(t.Schema(), row, filter)
		if err != nil {
			return nil, err
		}
		if passes {
			kept = append(kept, row)
		}
	}
	return table.New(t.Schema(), kept)
}

// evaluateFilter recursively evaluates a filter tree against a row. Callers
// must hold at least a read lock on the processor's registries.
func (p *Processor) evaluateFilter(schema *table.Schema, row table.Row, filter *Filter) (bool, error) {
	if filter.Condition != nil {
		return p.evaluateCondition(schema, row, filter.Condition)
	}
	if filter.Group != nil {
		switch filter.Group.Operator {
		case LogicalOperatorAnd:
			for i := range filter.Group.Conditions {
				passes, err := p.evaluateFilter(schema, row, &filter.Group.Conditions[i])
				if err != nil || !passes {
					return false, err
				}
			}
			return true, nil
		case LogicalOperatorOr:
			for i := range filter.Group.Conditions {
				passes, err := p.evaluateFilter(schema, row, &filter.Group.Conditions[i])
				if err != nil {
					return false, err
				}
				if passes {
					return true, nil
				}
			}
			return false, nil
		case LogicalOperatorNot:
			if len(filter.Group.Conditions) != 1 {
				return false, fmt.Errorf("logical not requires exactly one condition, got %d", len(filter.Group.Conditions))
			}
			passes, err := p.evaluateFilter(schema, row, &filter.Group.Conditions[0])
			if err != nil {
				return false, err
			}
			return !passes, nil
		default:
			return false, fmt.Errorf("unsupported logical operator: %s", filter.Group.Operator)
		}
	}
	return false, fmt.Errorf("empty or invalid filter structure")
}

// evaluateCondition evaluates a single condition against a row.
func (p *Processor) evaluateCondition(schema *table.Schema, row table.Row, condition *FilterCondition) (bool, error) {
	if !schema.Has(condition.Column) {
		return false, &table.MissingColumnError{Column: condition.Column}
	}

	if !condition.Operator.IsStandard() {
		fn, ok := p.predicateFunctions[condition.Operator]
		if !ok {
			return false, fmt.Errorf("unregistered predicate function for operator: %s", condition.Operator)
		}
		return fn(row, condition.Column, condition.Value)
	}

	value := row[condition.Column]

	switch condition.Operator {
	case ComparisonOperatorExists:
		return value != nil, nil
	case ComparisonOperatorNotExists:
		return value == nil, nil
	case ComparisonOperatorEq:
		return equalValues(value, condition.Value), nil
	case ComparisonOperatorNeq:
		return !equalValues(value, condition.Value), nil
	}

	// Remaining operators have no defined result for a missing value; the
	// row simply does not match.
	if value == nil || condition.Value == nil {
		return false, nil
	}

	switch condition.Operator {
	case ComparisonOperatorLt, ComparisonOperatorLte, ComparisonOperatorGt, ComparisonOperatorGte:
		cmp, err := table.Compare(value, condition.Value)
		if err != nil {
			return false, &table.TypeMismatchError{
				Column: condition.Column,
				Want:   fmt.Sprintf("%T", value),
				Got:    fmt.Sprintf("%T", condition.Value),
			}
		}
		switch condition.Operator {
		case ComparisonOperatorLt:
			return cmp < 0, nil
		case ComparisonOperatorLte:
			return cmp <= 0, nil
		case ComparisonOperatorGt:
			return cmp > 0, nil
		default:
			return cmp >= 0, nil
		}

	case ComparisonOperatorIn, ComparisonOperatorNin:
		values, err := conditionValues(condition.Value)
		if err != nil {
			return false, fmt.Errorf("operator %s: %w", condition.Operator, err)
		}
		found := false
		for _, candidate := range values {
			if equalValues(value, candidate) {
				found = true
				break
			}
		}
		if condition.Operator == ComparisonOperatorNin {
			return !found, nil
		}
		return found, nil

	case ComparisonOperatorContains, ComparisonOperatorNotContains,
		ComparisonOperatorStartsWith, ComparisonOperatorEndsWith:
		str, ok := value.(string)
		if !ok {
			return false, &table.TypeMismatchError{
				Column: condition.Column,
				Want:   string(table.ColumnTypeString),
				Got:    fmt.Sprintf("%T", value),
			}
		}
		arg, ok := condition.Value.(string)
		if !ok {
			return false, fmt.Errorf("operator %s requires a string value, got %T", condition.Operator, condition.Value)
		}
		switch condition.Operator {
		case ComparisonOperatorContains:
			return strings.Contains(str, arg), nil
		case ComparisonOperatorNotContains:
			return !strings.Contains(str, arg), nil
		case ComparisonOperatorStartsWith:
			return strings.HasPrefix(str, arg), nil
		default:
			return strings.HasSuffix(str, arg), nil
		}
	}

	return false, fmt.Errorf("unsupported comparison operator: %s", condition.Operator)
}

// equalValues compares a row value with a condition value, treating numeric
// kinds as interchangeable so that int literals match float columns.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if aNum, ok := table.ToFloat64(a); ok {
		if bNum, ok := table.ToFloat64(b); ok {
			return aNum == bNum
		}
		return false
	}
	return a == b
}

// conditionValues normalizes the value of an in/nin condition to a slice.
func conditionValues(v FilterValue) ([]FilterValue, error) {
	if values, ok := v.([]FilterValue); ok {
		return values, nil
	}
	return nil, fmt.Errorf("expected a list of values, got %T", v)
}
