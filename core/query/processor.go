package query

import (
	"context"
	"fmt"
	"sync"

	"github.com/asaidimu/go-frame/core/table"
	"go.uber.org/zap"
)

// ComputeFunction is a pure Go function that computes the value of a derived
// column. It receives the current row and the verbatim arguments from the
// DSL, and returns the computed value, which may be nil for missing.
type ComputeFunction func(row table.Row, args []FilterValue) (any, error)

// PredicateFunction is a pure Go function implementing a custom comparison
// operator. It receives the row, the column under test, and the condition's
// value.
type PredicateFunction func(row table.Row, column string, value FilterValue) (bool, error)

// Processor applies pipelines to tables. It holds the registries for custom
// predicate and compute functions and is safe for concurrent registration
// and use.
type Processor struct {
	computeFunctions   map[string]ComputeFunction
	predicateFunctions map[ComparisonOperator]PredicateFunction
	mu                 sync.RWMutex
	logger             *zap.Logger
}

// NewProcessor creates a new Processor instance. The built-in arithmetic
// compute functions (add, subtract, multiply, divide) are pre-registered;
// RegisterComputeFunction can override them.
func NewProcessor(logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		computeFunctions:   builtinComputeFunctions(),
		predicateFunctions: make(map[ComparisonOperator]PredicateFunction),
		logger:             logger,
	}
}

// RegisterComputeFunction registers a Go function for derived columns.
func (p *Processor) RegisterComputeFunction(name string, fn ComputeFunction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.computeFunctions[name] = fn
	p.logger.Info("Registered compute function", zap.String("name", name))
}

// RegisterPredicateFunction registers a Go function for a custom comparison
// operator.
func (p *Processor) RegisterPredicateFunction(operator ComparisonOperator, fn PredicateFunction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.predicateFunctions[operator] = fn
	p.logger.Info("Registered predicate function", zap.String("operator", string(operator)))
}

// RegisterComputeFunctions registers multiple compute functions from a map.
func (p *Processor) RegisterComputeFunctions(functionMap map[string]ComputeFunction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for name, fn := range functionMap {
		p.computeFunctions[name] = fn
		p.logger.Info("Registered compute function", zap.String("name", name))
	}
}

// RegisterPredicateFunctions registers multiple predicate functions from a map.
func (p *Processor) RegisterPredicateFunctions(functionMap map[ComparisonOperator]PredicateFunction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for operator, fn := range functionMap {
		p.predicateFunctions[operator] = fn
		p.logger.Info("Registered predicate function", zap.String("operator", string(operator)))
	}
}

// Apply runs every operation of the pipeline in order against the input
// table and returns the resulting table. The input table is never modified.
// A failing operation yields no output table.
func (p *Processor) Apply(ctx context.Context, pipeline Pipeline, t *table.Table) (*table.Table, error) {
	if t == nil {
		return nil, fmt.Errorf("pipeline requires an input table")
	}

	current := t
	for i, op := range pipeline.Operations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, err := p.applyOperation(current, op)
		if err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i, op.Kind(), err)
		}
		p.logger.Debug("Applied operation",
			zap.Int("index", i),
			zap.String("kind", op.Kind()),
			zap.Int("rows_in", current.Len()),
			zap.Int("rows_out", next.Len()))
		current = next
	}

	return current, nil
}

// applyOperation dispatches a single union node to its implementation.
func (p *Processor) applyOperation(t *table.Table, op Operation) (*table.Table, error) {
	switch {
	case op.Filter != nil:
		return p.applyFilter(t, op.Filter)
	case op.Sort != nil:
		return applySort(t, op.Sort)
	case op.Distinct != nil:
		return applyDistinct(t, op.Distinct)
	case op.Derive != nil:
		return p.applyDerive(t, op.Derive)
	case op.Select != nil:
		return applySelect(t, op.Select)
	case op.Drop != nil:
		return applyDrop(t, op.Drop)
	case op.Rename != nil:
		return applyRename(t, op.Rename)
	case op.Relocate != nil:
		return applyRelocate(t, op.Relocate)
	case op.Group != nil:
		return applyGroup(t, op.Group)
	case op.Limit != nil:
		return applyLimit(t, op.Limit)
	default:
		return t, nil
	}
}

// Match evaluates a filter against a single row under the given schema. It
// is useful for applying pipeline predicates to data held outside a table.
func (p *Processor) Match(ctx context.Context, filter *Filter, schema *table.Schema, row table.Row) (bool, error) {
	if filter == nil {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.evaluateFilter(schema, row, filter)
}
