// Package query defines the Domain-Specific Language (DSL) for constructing
// tabular pipelines. This DSL provides a structured and type-safe way to
// express a sequence of operations over a table: filtering, sorting,
// deduplication, column-space transforms, and grouped aggregation.
package query

import (
	"github.com/asaidimu/go-frame/core/table"
)

// LogicalOperator combines filter conditions.
type LogicalOperator string

// Logical operators for combining filter conditions.
const (
	LogicalOperatorAnd LogicalOperator = "and"
	LogicalOperatorOr  LogicalOperator = "or"
	LogicalOperatorNot LogicalOperator = "not"
)

// ComparisonOperator defines the set of operators that can be used in a
// filter condition.
type ComparisonOperator string

// Supported comparison operators.
const (
	ComparisonOperatorEq          ComparisonOperator = "eq"
	ComparisonOperatorNeq         ComparisonOperator = "neq"
	ComparisonOperatorLt          ComparisonOperator = "lt"
	ComparisonOperatorLte         ComparisonOperator = "lte"
	ComparisonOperatorGt          ComparisonOperator = "gt"
	ComparisonOperatorGte         ComparisonOperator = "gte"
	ComparisonOperatorIn          ComparisonOperator = "in"
	ComparisonOperatorNin         ComparisonOperator = "nin"
	ComparisonOperatorContains    ComparisonOperator = "contains"
	ComparisonOperatorNotContains ComparisonOperator = "ncontains"
	ComparisonOperatorStartsWith  ComparisonOperator = "startswith"
	ComparisonOperatorEndsWith    ComparisonOperator = "endswith"
	ComparisonOperatorExists      ComparisonOperator = "exists"
	ComparisonOperatorNotExists   ComparisonOperator = "nexists"
)

// standardComparisonOperators is the set of built-in comparison operators.
var standardComparisonOperators = map[ComparisonOperator]struct{}{
	ComparisonOperatorEq:          {},
	ComparisonOperatorNeq:         {},
	ComparisonOperatorLt:          {},
	ComparisonOperatorLte:         {},
	ComparisonOperatorGt:          {},
	ComparisonOperatorGte:         {},
	ComparisonOperatorIn:          {},
	ComparisonOperatorNin:         {},
	ComparisonOperatorContains:    {},
	ComparisonOperatorNotContains: {},
	ComparisonOperatorStartsWith:  {},
	ComparisonOperatorEndsWith:    {},
	ComparisonOperatorExists:      {},
	ComparisonOperatorNotExists:   {},
}

// IsStandard checks if a comparison operator is one of the built-in operators.
// Non-standard operators must be registered on the Processor before use.
func (c ComparisonOperator) IsStandard() bool {
	_, ok := standardComparisonOperators[c]
	return ok
}

// FilterValue represents the value used in a filter condition or passed to a
// compute function. It can be of any type, allowing flexible construction.
type FilterValue any

// FilterCondition defines a single predicate over one column of a row.
type FilterCondition struct {
	Column   string             `json:"column"`
	Operator ComparisonOperator `json:"operator"`
	Value    FilterValue        `json:"value,omitempty"`
}

// FilterGroup combines multiple filters using a logical operator, allowing
// the construction of complex, nested predicate logic.
type FilterGroup struct {
	Operator   LogicalOperator `json:"operator"`
	Conditions []Filter        `json:"conditions"`
}

// Filter is a union type that represents either a single condition or a
// group of conditions.
type Filter struct {
	Condition *FilterCondition `json:",omitempty"`
	Group     *FilterGroup     `json:",omitempty"`
}

// SortDirection specifies the direction for sorting.
type SortDirection string

// Supported sort directions.
const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// SortKey defines the sort order for a single column. Ties are broken by
// subsequent keys in list order; the sort is stable beyond the last key.
type SortKey struct {
	Column    string        `json:"column"`
	Direction SortDirection `json:"direction"`
}

// DistinctConfig configures row deduplication. With Columns set, rows are
// deduplicated on the value combination of those columns and the output
// keeps only them, unless KeepAll retains the full first-occurrence row.
// With no Columns, whole rows are deduplicated.
type DistinctConfig struct {
	Columns []string `json:",omitempty"`
	KeepAll bool     `json:",omitempty"`
}

// FunctionCall represents a call to a compute function registered with the
// processor. Arguments are passed through verbatim; the function also
// receives the full row.
type FunctionCall struct {
	Function  string        `json:"function"`
	Arguments []FilterValue `json:"arguments,omitempty"`
}

// DeriveConfig defines a computed column appended to the table. The declared
// type is enforced on the computed values.
type DeriveConfig struct {
	Column     string           `json:"column"`
	Type       table.ColumnType `json:"type"`
	Expression FunctionCall     `json:"expression"`
}

// NameMatchOperator selects columns by their name rather than by value.
type NameMatchOperator string

// Supported name matchers.
const (
	NameMatchStartsWith NameMatchOperator = "startswith"
	NameMatchEndsWith   NameMatchOperator = "endswith"
	NameMatchContains   NameMatchOperator = "contains"
)

// NameMatch is a predicate over column names, used by Select and Drop.
type NameMatch struct {
	Operator NameMatchOperator `json:"operator"`
	Value    string            `json:"value"`
}

// SelectConfig keeps columns by explicit name or by name predicate. Kept
// columns appear in schema order. Row count is unchanged.
type SelectConfig struct {
	Columns []string   `json:",omitempty"`
	Match   *NameMatch `json:",omitempty"`
}

// DropConfig removes columns by explicit name or by name predicate.
type DropConfig struct {
	Columns []string   `json:",omitempty"`
	Match   *NameMatch `json:",omitempty"`
}

// RenamePair maps an existing column name to a new one.
type RenamePair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// RelocateConfig repositions the named columns. With Before or After set the
// columns are moved adjacent to the anchor; with neither they move to the
// front. Pure column-order change.
type RelocateConfig struct {
	Columns []string `json:"columns"`
	Before  string   `json:",omitempty"`
	After   string   `json:",omitempty"`
}

// AggregateType specifies the summary computation applied to a group.
type AggregateType string

// Supported aggregate types.
const (
	AggregateTypeCount AggregateType = "count"
	AggregateTypeSum   AggregateType = "sum"
	AggregateTypeMean  AggregateType = "mean"
	AggregateTypeMin   AggregateType = "min"
	AggregateTypeMax   AggregateType = "max"
)

// AggregateConfig defines one aggregate expression. SkipMissing drops
// missing inputs before computing; without it a missing input makes the
// group's result missing, and a group whose inputs are all missing is an
// error (ErrUndefinedAggregate).
type AggregateConfig struct {
	Type        AggregateType `json:"type"`
	Column      string        `json:",omitempty"` // empty for count over rows
	Alias       string        `json:",omitempty"`
	SkipMissing bool          `json:",omitempty"`
}

// GroupConfig partitions the table on the value combination of the grouping
// columns and reduces each partition to a single row of aggregates.
// Partitioning is stable: groups appear in first-occurrence order.
type GroupConfig struct {
	Columns    []string          `json:"columns"`
	Aggregates []AggregateConfig `json:"aggregates"`
}

// LimitConfig bounds the result to a row window.
type LimitConfig struct {
	Limit  int `json:"limit"`
	Offset int `json:",omitempty"`
}

// Operation is a union node: exactly one field is set. A Pipeline is an
// ordered list of operations applied left to right.
type Operation struct {
	Filter   *Filter         `json:",omitempty"`
	Sort     []SortKey       `json:",omitempty"`
	Distinct *DistinctConfig `json:",omitempty"`
	Derive   *DeriveConfig   `json:",omitempty"`
	Select   *SelectConfig   `json:",omitempty"`
	Drop     *DropConfig     `json:",omitempty"`
	Rename   []RenamePair    `json:",omitempty"`
	Relocate *RelocateConfig `json:",omitempty"`
	Group    *GroupConfig    `json:",omitempty"`
	Limit    *LimitConfig    `json:",omitempty"`
}

// Kind names the operation for logging and event emission.
func (op Operation) Kind() string {
	switch {
	case op.Filter != nil:
		return "filter"
	case op.Sort != nil:
		return "sort"
	case op.Distinct != nil:
		return "distinct"
	case op.Derive != nil:
		return "derive"
	case op.Select != nil:
		return "select"
	case op.Drop != nil:
		return "drop"
	case op.Rename != nil:
		return "rename"
	case op.Relocate != nil:
		return "relocate"
	case op.Group != nil:
		return "group"
	case op.Limit != nil:
		return "limit"
	default:
		return "noop"
	}
}

// Pipeline is the top-level structure representing a complete sequence of
// table operations.
type Pipeline struct {
	Operations []Operation `json:"operations"`
}
