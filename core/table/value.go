// Package table defines the immutable tabular value model used throughout the
// library: typed columns, ordered schemas, and row-oriented tables. Every
// operation elsewhere in the library consumes a Table and produces a new one,
// leaving its input untouched.
package table

import (
	"fmt"
	"strconv"
	"time"
)

// ColumnType represents the scalar types a column may hold.
type ColumnType string

const (
	ColumnTypeInteger   ColumnType = "integer"   // int64
	ColumnTypeFloat     ColumnType = "float"     // float64
	ColumnTypeString    ColumnType = "string"    // string
	ColumnTypeBoolean   ColumnType = "boolean"   // bool
	ColumnTypeTimestamp ColumnType = "timestamp" // time.Time
)

// IsNumeric reports whether values of this type participate in arithmetic
// aggregates such as sum and mean.
func (c ColumnType) IsNumeric() bool {
	return c == ColumnTypeInteger || c == ColumnTypeFloat
}

// TypeOf returns the ColumnType of a scalar value. A nil value carries no
// type information and reports ok=false, as does any unsupported Go type.
func TypeOf(v any) (ColumnType, bool) {
	switch v.(type) {
	case int64:
		return ColumnTypeInteger, true
	case float64:
		return ColumnTypeFloat, true
	case string:
		return ColumnTypeString, true
	case bool:
		return ColumnTypeBoolean, true
	case time.Time:
		return ColumnTypeTimestamp, true
	default:
		return "", false
	}
}

// Normalize coerces a raw value into the canonical Go representation for the
// given column type. It widens the smaller integer and float kinds that
// readers commonly produce, and parses strings for non-string targets. A nil
// input stays nil (missing).
func Normalize(v any, t ColumnType) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch t {
	case ColumnTypeInteger:
		if f, ok := ToFloat64(v); ok {
			if f != float64(int64(f)) {
				return nil, fmt.Errorf("value %v is not an integer", v)
			}
			return int64(f), nil
		}
		if s, ok := v.(string); ok {
			i, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as integer: %w", s, err)
			}
			return i, nil
		}
	case ColumnTypeFloat:
		if f, ok := ToFloat64(v); ok {
			return f, nil
		}
		if s, ok := v.(string); ok {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as float: %w", s, err)
			}
			return f, nil
		}
	case ColumnTypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		if b, ok := v.([]byte); ok {
			return string(b), nil
		}
	case ColumnTypeBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		// SQLite and friends store booleans as 0/1.
		if f, ok := ToFloat64(v); ok {
			return f != 0, nil
		}
		if s, ok := v.(string); ok {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as boolean: %w", s, err)
			}
			return b, nil
		}
	case ColumnTypeTimestamp:
		if ts, ok := v.(time.Time); ok {
			return ts, nil
		}
		if s, ok := v.(string); ok {
			ts, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as timestamp: %w", s, err)
			}
			return ts, nil
		}
	}
	return nil, fmt.Errorf("cannot coerce %T to %s", v, t)
}

// ToFloat64 is a utility function that converts a value of various numeric
// types to a float64. It returns the converted float64 and a boolean
// indicating whether the conversion was successful.
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}

// Compare orders two non-nil scalar values of the same column. It returns
// -1, 0, or +1, or an error when the values are of incomparable types.
// Missing values are ordered by the caller, not here.
func Compare(a, b any) (int, error) {
	if aNum, ok := ToFloat64(a); ok {
		if bNum, ok := ToFloat64(b); ok {
			switch {
			case aNum < bNum:
				return -1, nil
			case aNum > bNum:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}

	if aStr, ok := a.(string); ok {
		if bStr, ok := b.(string); ok {
			switch {
			case aStr < bStr:
				return -1, nil
			case aStr > bStr:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}

	if aBool, ok := a.(bool); ok {
		if bBool, ok := b.(bool); ok {
			switch {
			case !aBool && bBool:
				return -1, nil
			case aBool && !bBool:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}

	if aTime, ok := a.(time.Time); ok {
		if bTime, ok := b.(time.Time); ok {
			switch {
			case aTime.Before(bTime):
				return -1, nil
			case aTime.After(bTime):
				return 1, nil
			default:
				return 0, nil
			}
		}
	}

	return 0, fmt.Errorf("cannot compare %T with %T", a, b)
}
