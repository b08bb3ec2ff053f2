package query

import (
	"github.com/asaidimu/go-frame/core/table"
)

// PipelineBuilder provides a fluent and intuitive API for building Pipeline
// structures. It allows for the step-by-step construction of a pipeline,
// appending one operation per call, culminating in a final Pipeline object.
type PipelineBuilder struct {
	pipeline Pipeline
}

// NewPipelineBuilder creates a new, empty pipeline builder instance.
func NewPipelineBuilder() *PipelineBuilder {
	return &PipelineBuilder{}
}

// Build returns the constructed Pipeline object.
func (pb *PipelineBuilder) Build() Pipeline {
	return pb.pipeline
}

// Reset clears all operations from the builder, returning it to its initial
// state.
func (pb *PipelineBuilder) Reset() *PipelineBuilder {
	pb.pipeline = Pipeline{}
	return pb
}

// append adds an operation to the pipeline under construction.
func (pb *PipelineBuilder) append(op Operation) *PipelineBuilder {
	pb.pipeline.Operations = append(pb.pipeline.Operations, op)
	return pb
}

// Where begins the construction of a filter operation on a specific column.
func (pb *PipelineBuilder) Where(column string) *FilterConditionBuilder {
	return &FilterConditionBuilder{parent: pb, column: column}
}

// WhereGroup begins the construction of a filter operation whose conditions
// are combined with a logical operator.
func (pb *PipelineBuilder) WhereGroup(operator LogicalOperator) *FilterGroupBuilder {
	return &FilterGroupBuilder{parent: pb, operator: operator}
}

// SortBy appends a sort operation with a single key. Additional keys can be
// given with ThenBy on the returned builder.
func (pb *PipelineBuilder) SortBy(column string, direction SortDirection) *SortBuilder {
	sb := &SortBuilder{parent: pb}
	return sb.ThenBy(column, direction)
}

// Distinct appends a whole-row deduplication operation.
func (pb *PipelineBuilder) Distinct() *PipelineBuilder {
	return pb.append(Operation{Distinct: &DistinctConfig{}})
}

// DistinctOn appends a deduplication operation keyed on the given columns;
// only those columns survive.
func (pb *PipelineBuilder) DistinctOn(columns ...string) *PipelineBuilder {
	return pb.append(Operation{Distinct: &DistinctConfig{Columns: columns}})
}

// DistinctKeepAll appends a deduplication operation keyed on the given
// columns that retains the full first-occurrence rows.
func (pb *PipelineBuilder) DistinctKeepAll(columns ...string) *PipelineBuilder {
	return pb.append(Operation{Distinct: &DistinctConfig{Columns: columns, KeepAll: true}})
}

// Derive appends a computed-column operation calling the named compute
// function with the given arguments.
func (pb *PipelineBuilder) Derive(column string, columnType table.ColumnType, function string, args ...FilterValue) *PipelineBuilder {
	return pb.append(Operation{Derive: &DeriveConfig{
		Column: column,
		Type:   columnType,
		Expression: FunctionCall{
			Function:  function,
			Arguments: args,
		},
	}})
}

// Select appends a keep-columns operation.
func (pb *PipelineBuilder) Select(columns ...string) *PipelineBuilder {
	return pb.append(Operation{Select: &SelectConfig{Columns: columns}})
}

// SelectMatching appends a keep-columns operation driven by a name predicate.
func (pb *PipelineBuilder) SelectMatching(operator NameMatchOperator, value string) *PipelineBuilder {
	return pb.append(Operation{Select: &SelectConfig{Match: &NameMatch{Operator: operator, Value: value}}})
}

// Drop appends a remove-columns operation.
func (pb *PipelineBuilder) Drop(columns ...string) *PipelineBuilder {
	return pb.append(Operation{Drop: &DropConfig{Columns: columns}})
}

// DropMatching appends a remove-columns operation driven by a name predicate.
func (pb *PipelineBuilder) DropMatching(operator NameMatchOperator, value string) *PipelineBuilder {
	return pb.append(Operation{Drop: &DropConfig{Match: &NameMatch{Operator: operator, Value: value}}})
}

// Rename appends a rename operation for a single column. Chain further
// Rename calls for additional columns; each is its own operation.
func (pb *PipelineBuilder) Rename(from, to string) *PipelineBuilder {
	return pb.append(Operation{Rename: []RenamePair{{From: from, To: to}}})
}

// RelocateToFront appends a relocation moving the named columns to the front.
func (pb *PipelineBuilder) RelocateToFront(columns ...string) *PipelineBuilder {
	return pb.append(Operation{Relocate: &RelocateConfig{Columns: columns}})
}

// RelocateBefore appends a relocation moving the named columns before the
// anchor column.
func (pb *PipelineBuilder) RelocateBefore(anchor string, columns ...string) *PipelineBuilder {
	return pb.append(Operation{Relocate: &RelocateConfig{Columns: columns, Before: anchor}})
}

// RelocateAfter appends a relocation moving the named columns after the
// anchor column.
func (pb *PipelineBuilder) RelocateAfter(anchor string, columns ...string) *PipelineBuilder {
	return pb.append(Operation{Relocate: &RelocateConfig{Columns: columns, After: anchor}})
}

// Limit appends a row-window operation.
func (pb *PipelineBuilder) Limit(limit, offset int) *PipelineBuilder {
	return pb.append(Operation{Limit: &LimitConfig{Limit: limit, Offset: offset}})
}

// GroupBy begins the construction of a grouped aggregation over the given
// columns. Aggregates are added on the returned builder; End finalizes the
// operation.
func (pb *PipelineBuilder) GroupBy(columns ...string) *GroupBuilder {
	return &GroupBuilder{parent: pb, config: GroupConfig{Columns: columns}}
}

// FilterConditionBuilder is used to build a single filter condition
// (e.g., column = value). It is not intended to be used directly but is
// part of the fluent API.
type FilterConditionBuilder struct {
	parent *PipelineBuilder
	column string
}

// addCondition is an internal helper to append a filter operation.
func (fcb *FilterConditionBuilder) addCondition(operator ComparisonOperator, value FilterValue) *PipelineBuilder {
	return fcb.parent.append(Operation{Filter: &Filter{
		Condition: &FilterCondition{Column: fcb.column, Operator: operator, Value: value},
	}})
}

// Eq adds an equality condition.
func (fcb *FilterConditionBuilder) Eq(value FilterValue) *PipelineBuilder {
	return fcb.addCondition(ComparisonOperatorEq, value)
}

// Neq adds a not-equal condition.
func (fcb *FilterConditionBuilder) Neq(value FilterValue) *PipelineBuilder {
	return fcb.addCondition(ComparisonOperatorNeq, value)
}

// Lt adds a less-than condition.
func (fcb *FilterConditionBuilder) Lt(value FilterValue) *PipelineBuilder {
	return fcb.addCondition(ComparisonOperatorLt, value)
}

// Lte adds a less-than-or-equal condition.
func (fcb *FilterConditionBuilder) Lte(value FilterValue) *PipelineBuilder {
	return fcb.addCondition(ComparisonOperatorLte, value)
}

// Gt adds a greater-than condition.
func (fcb *FilterConditionBuilder) Gt(value FilterValue) *PipelineBuilder {
	return fcb.addCondition(ComparisonOperatorGt, value)
}

// Gte adds a greater-than-or-equal condition.
func (fcb *FilterConditionBuilder) Gte(value FilterValue) *PipelineBuilder {
	return fcb.addCondition(ComparisonOperatorGte, value)
}

// In adds an "in" condition, checking if the column's value is within a set
// of values.
func (fcb *FilterConditionBuilder) In(values ...FilterValue) *PipelineBuilder {
	return fcb.addCondition(ComparisonOperatorIn, values)
}

// Nin adds a "not in" condition.
func (fcb *FilterConditionBuilder) Nin(values ...FilterValue) *PipelineBuilder {
	return fcb.addCondition(ComparisonOperatorNin, values)
}

// Contains adds a condition checking if a string column contains a substring.
func (fcb *FilterConditionBuilder) Contains(value FilterValue) *PipelineBuilder {
	return fcb.addCondition(ComparisonOperatorContains, value)
}

// StartsWith adds a condition checking if a string column starts with a prefix.
func (fcb *FilterConditionBuilder) StartsWith(value FilterValue) *PipelineBuilder {
	return fcb.addCondition(ComparisonOperatorStartsWith, value)
}

// EndsWith adds a condition checking if a string column ends with a suffix.
func (fcb *FilterConditionBuilder) EndsWith(value FilterValue) *PipelineBuilder {
	return fcb.addCondition(ComparisonOperatorEndsWith, value)
}

// Exists adds a condition checking that the column's value is not missing.
func (fcb *FilterConditionBuilder) Exists() *PipelineBuilder {
	return fcb.addCondition(ComparisonOperatorExists, true)
}

// NotExists adds a condition checking that the column's value is missing.
func (fcb *FilterConditionBuilder) NotExists() *PipelineBuilder {
	return fcb.addCondition(ComparisonOperatorNotExists, true)
}

// Custom allows the use of a registered custom comparison operator.
func (fcb *FilterConditionBuilder) Custom(operator ComparisonOperator, value FilterValue) *PipelineBuilder {
	return fcb.addCondition(operator, value)
}

// FilterGroupBuilder is used to build a group of filter conditions combined
// with a logical operator.
type FilterGroupBuilder struct {
	parent     *PipelineBuilder
	operator   LogicalOperator
	conditions []Filter
}

// Where adds a new condition to the current filter group.
func (fgb *FilterGroupBuilder) Where(column string) *FilterConditionBuilderInGroup {
	return &FilterConditionBuilderInGroup{groupBuilder: fgb, column: column}
}

// End finalizes the current filter group and appends the filter operation.
func (fgb *FilterGroupBuilder) End() *PipelineBuilder {
	return fgb.parent.append(Operation{Filter: &Filter{
		Group: &FilterGroup{Operator: fgb.operator, Conditions: fgb.conditions},
	}})
}

// FilterConditionBuilderInGroup is used to build a filter condition within a
// group.
type FilterConditionBuilderInGroup struct {
	groupBuilder *FilterGroupBuilder
	column       string
}

// addConditionToGroup is an internal helper to add a condition to the group.
func (fcbg *FilterConditionBuilderInGroup) addConditionToGroup(operator ComparisonOperator, value FilterValue) *FilterGroupBuilder {
	fcbg.groupBuilder.conditions = append(fcbg.groupBuilder.conditions, Filter{
		Condition: &FilterCondition{Column: fcbg.column, Operator: operator, Value: value},
	})
	return fcbg.groupBuilder
}

// Eq adds an equality condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) Eq(value FilterValue) *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorEq, value)
}

// Neq adds a not-equal condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) Neq(value FilterValue) *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorNeq, value)
}

// Lt adds a less-than condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) Lt(value FilterValue) *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorLt, value)
}

// Lte adds a less-than-or-equal condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) Lte(value FilterValue) *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorLte, value)
}

// Gt adds a greater-than condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) Gt(value FilterValue) *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorGt, value)
}

// Gte adds a greater-than-or-equal condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) Gte(value FilterValue) *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorGte, value)
}

// In adds an "in" condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) In(values ...FilterValue) *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorIn, values)
}

// Exists adds an exists condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) Exists() *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorExists, true)
}

// NotExists adds a not-exists condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) NotExists() *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorNotExists, true)
}

// SortBuilder accumulates sort keys for a single sort operation.
type SortBuilder struct {
	parent *PipelineBuilder
	index  int
	bound  bool
}

// ThenBy adds a tie-breaking sort key to the sort operation under
// construction.
func (sb *SortBuilder) ThenBy(column string, direction SortDirection) *SortBuilder {
	key := SortKey{Column: column, Direction: direction}
	if !sb.bound {
		sb.parent.append(Operation{Sort: []SortKey{key}})
		sb.index = len(sb.parent.pipeline.Operations) - 1
		sb.bound = true
		return sb
	}
	op := &sb.parent.pipeline.Operations[sb.index]
	op.Sort = append(op.Sort, key)
	return sb
}

// End returns to the main pipeline builder.
func (sb *SortBuilder) End() *PipelineBuilder {
	return sb.parent
}

// GroupBuilder accumulates aggregates for a grouped aggregation operation.
type GroupBuilder struct {
	parent *PipelineBuilder
	config GroupConfig
}

// Aggregate adds an aggregate expression to the group operation.
func (gb *GroupBuilder) Aggregate(aggType AggregateType, column, alias string, skipMissing bool) *GroupBuilder {
	gb.config.Aggregates = append(gb.config.Aggregates, AggregateConfig{
		Type:        aggType,
		Column:      column,
		Alias:       alias,
		SkipMissing: skipMissing,
	})
	return gb
}

// Count adds a row-count aggregate.
func (gb *GroupBuilder) Count(alias string) *GroupBuilder {
	return gb.Aggregate(AggregateTypeCount, "", alias, false)
}

// Sum adds a sum aggregate.
func (gb *GroupBuilder) Sum(column, alias string, skipMissing bool) *GroupBuilder {
	return gb.Aggregate(AggregateTypeSum, column, alias, skipMissing)
}

// Mean adds a mean aggregate.
func (gb *GroupBuilder) Mean(column, alias string, skipMissing bool) *GroupBuilder {
	return gb.Aggregate(AggregateTypeMean, column, alias, skipMissing)
}

// Min adds a minimum aggregate.
func (gb *GroupBuilder) Min(column, alias string, skipMissing bool) *GroupBuilder {
	return gb.Aggregate(AggregateTypeMin, column, alias, skipMissing)
}

// Max adds a maximum aggregate.
func (gb *GroupBuilder) Max(column, alias string, skipMissing bool) *GroupBuilder {
	return gb.Aggregate(AggregateTypeMax, column, alias, skipMissing)
}

// End finalizes the grouped aggregation and appends it to the pipeline.
func (gb *GroupBuilder) End() *PipelineBuilder {
	return gb.parent.append(Operation{Group: &gb.config})
}
