package query

import (
	"fmt"

	"github.com/asaidimu/go-frame/core/table"
)

// builtinComputeFunctions returns the arithmetic functions every processor
// starts with: add, subtract, multiply, and divide over two operands. An
// operand is either a column reference (string argument naming a column of
// the row) or a numeric literal. A missing operand makes the result missing.
func builtinComputeFunctions() map[string]ComputeFunction {
	return map[string]ComputeFunction{
		"add": arithmeticCompute(func(a, b float64) (float64, error) {
			return a + b, nil
		}),
		"subtract": arithmeticCompute(func(a, b float64) (float64, error) {
			return a - b, nil
		}),
		"multiply": arithmeticCompute(func(a, b float64) (float64, error) {
			return a * b, nil
		}),
		"divide": arithmeticCompute(func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			return a / b, nil
		}),
	}
}

// arithmeticCompute wraps a binary float operation as a ComputeFunction.
func arithmeticCompute(op func(a, b float64) (float64, error)) ComputeFunction {
	return func(row table.Row, args []FilterValue) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("expected 2 arguments, got %d", len(args))
		}
		a, ok, err := operand(row, args[0])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		b, ok, err := operand(row, args[1])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return op(a, b)
	}
}

// operand resolves a compute argument: a string names a column of the row,
// anything else must be a numeric literal. The middle return is false when
// the resolved value is missing.
func operand(row table.Row, arg FilterValue) (float64, bool, error) {
	if name, isRef := arg.(string); isRef {
		value, exists := row[name]
		if !exists {
			return 0, false, &table.MissingColumnError{Column: name}
		}
		if value == nil {
			return 0, false, nil
		}
		num, ok := table.ToFloat64(value)
		if !ok {
			return 0, false, &table.TypeMismatchError{
				Column: name,
				Want:   "numeric",
				Got:    fmt.Sprintf("%T", value),
			}
		}
		return num, true, nil
	}

	num, ok := table.ToFloat64(arg)
	if !ok {
		return 0, false, fmt.Errorf("argument %v (%T) is neither a column name nor a number", arg, arg)
	}
	return num, true, nil
}
