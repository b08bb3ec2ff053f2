package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// RowFromStruct converts a Go struct into a flat map[string]any keyed by the
// struct's JSON field names.
//
// The struct is marshaled to JSON and unmarshaled back into a map, so
// `json:"tag"` annotations and `omitempty` are respected. Because rows hold
// scalar values only, a field that produces a nested JSON object or array is
// rejected. JSON numbers arrive as float64; callers that need typed columns
// should normalize values against a schema afterwards.
//
// The input must be a struct or a non-nil pointer to one.
func RowFromStruct[T any](record T) (map[string]any, error) {
	val := reflect.ValueOf(record)

	if !val.IsValid() {
		return nil, fmt.Errorf("input record cannot be nil")
	}
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, fmt.Errorf("input record cannot be a nil pointer to a struct")
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("input record must be a struct or a pointer to a struct, got %s", val.Kind())
	}

	jsonBytes, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("RowFromStruct: failed to marshal input record to JSON: %w", err)
	}

	var row map[string]any
	if err := json.Unmarshal(jsonBytes, &row); err != nil {
		return nil, fmt.Errorf("RowFromStruct: failed to unmarshal JSON to map: %w", err)
	}

	for key, value := range row {
		switch value.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("RowFromStruct: field %q is not a scalar", key)
		}
	}

	return row, nil
}

// RowToStruct is the inverse of RowFromStruct: it converts a flat
// map[string]any into a new instance of the struct type T, matching map keys
// against the struct's JSON field names.
//
// The generic type T must be a struct type (or a pointer to one).
func RowToStruct[T any](row map[string]any) (T, error) {
	var zero T

	if row == nil {
		return zero, fmt.Errorf("RowToStruct: input row cannot be nil")
	}

	typ := reflect.TypeOf(zero)
	if typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return zero, fmt.Errorf("RowToStruct: generic type T must be a struct type (or pointer to struct)")
	}

	jsonBytes, err := json.Marshal(row)
	if err != nil {
		return zero, fmt.Errorf("RowToStruct: failed to marshal input row to JSON: %w", err)
	}

	var result T
	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return zero, fmt.Errorf("RowToStruct: failed to unmarshal JSON to target struct: %w", err)
	}

	return result, nil
}
