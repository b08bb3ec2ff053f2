package table

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure conditions an operation can report. All
// concrete error types below unwrap to one of these, so callers can branch
// with errors.Is without inspecting messages.
var (
	// ErrMissingColumn indicates an operation referenced a column that is
	// not present in the table's schema.
	ErrMissingColumn = errors.New("missing column")

	// ErrTypeMismatch indicates an operation was applied to a column whose
	// type it cannot handle.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrUndefinedAggregate indicates an aggregate was computed over a group
	// whose inputs are all missing while the skip-missing flag was unset.
	ErrUndefinedAggregate = errors.New("undefined aggregate")

	// ErrColumnExists indicates an operation tried to introduce a column
	// name that the schema already carries.
	ErrColumnExists = errors.New("column already exists")
)

// MissingColumnError reports a reference to a column absent from the schema.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingColumn }

// TypeMismatchError reports an operation applied to an incompatible column type.
type TypeMismatchError struct {
	Column string
	Want   string
	Got    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("column %q: expected %s, got %s", e.Column, e.Want, e.Got)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// UndefinedAggregateError reports an aggregate over all-missing input
// computed without the skip-missing flag.
type UndefinedAggregateError struct {
	Aggregate string
	Column    string
}

func (e *UndefinedAggregateError) Error() string {
	return fmt.Sprintf("aggregate %s over column %q is undefined: all inputs missing", e.Aggregate, e.Column)
}

func (e *UndefinedAggregateError) Unwrap() error { return ErrUndefinedAggregate }

// ColumnExistsError reports a column-name collision.
type ColumnExistsError struct {
	Column string
}

func (e *ColumnExistsError) Error() string {
	return fmt.Sprintf("column %q already exists", e.Column)
}

func (e *ColumnExistsError) Unwrap() error { return ErrColumnExists }
