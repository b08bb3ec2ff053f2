package query

import (
	"context"
	"time"

	"github.com/asaidimu/go-events"
	"github.com/asaidimu/go-frame/core/table"
	"github.com/google/uuid"
)

// PipelineEventType identifies a lifecycle point of a pipeline run.
type PipelineEventType string

// Emitted event types. Operation-level events fire once per pipeline
// operation, run-level events once per Apply call.
const (
	PipelineStart    PipelineEventType = "pipeline.start"
	PipelineSuccess  PipelineEventType = "pipeline.success"
	PipelineFailed   PipelineEventType = "pipeline.failed"
	OperationStart   PipelineEventType = "operation.start"
	OperationSuccess PipelineEventType = "operation.success"
	OperationFailed  PipelineEventType = "operation.failed"
)

// PipelineEvent describes a single lifecycle event of a pipeline run.
type PipelineEvent struct {
	Type      PipelineEventType `json:"type"`
	RunID     uuid.UUID         `json:"runId"`
	Operation string            `json:",omitempty"` // operation kind, empty for run-level events
	Index     int               `json:"index"`      // operation index within the pipeline
	RowsIn    int               `json:"rowsIn"`
	RowsOut   int               `json:"rowsOut"`
	Error     *string           `json:",omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Duration  time.Duration     `json:"duration"`
}

// EventedProcessor wraps a Processor and emits lifecycle events for every
// pipeline run over a typed event bus. A nil bus disables emission.
type EventedProcessor struct {
	processor *Processor
	bus       *events.TypedEventBus[PipelineEvent]
}

// NewEventedProcessor creates an event-emitting wrapper around a processor.
func NewEventedProcessor(processor *Processor, bus *events.TypedEventBus[PipelineEvent]) *EventedProcessor {
	return &EventedProcessor{processor: processor, bus: bus}
}

// Processor returns the wrapped processor, for registering functions.
func (e *EventedProcessor) Processor() *Processor {
	return e.processor
}

// emitEvent is a helper method to emit events.
func (e *EventedProcessor) emitEvent(event PipelineEvent) {
	if e.bus != nil {
		e.bus.Emit(string(event.Type), event)
	}
}

// Apply runs the pipeline like Processor.Apply, emitting a run-level
// start/success/failed pair and one start/success/failed pair per operation.
func (e *EventedProcessor) Apply(ctx context.Context, pipeline Pipeline, t *table.Table) (*table.Table, error) {
	runID := uuid.New()
	runStart := time.Now()

	e.emitEvent(PipelineEvent{
		Type:      PipelineStart,
		RunID:     runID,
		RowsIn:    t.Len(),
		Timestamp: runStart,
	})

	current := t
	for i, op := range pipeline.Operations {
		if err := ctx.Err(); err != nil {
			e.emitFailure(PipelineFailed, runID, "", i, current.Len(), runStart, err)
			return nil, err
		}

		opStart := time.Now()
		e.emitEvent(PipelineEvent{
			Type:      OperationStart,
			RunID:     runID,
			Operation: op.Kind(),
			Index:     i,
			RowsIn:    current.Len(),
			Timestamp: opStart,
		})

		next, err := e.processor.applyOperation(current, op)
		if err != nil {
			e.emitFailure(OperationFailed, runID, op.Kind(), i, current.Len(), opStart, err)
			e.emitFailure(PipelineFailed, runID, "", i, t.Len(), runStart, err)
			return nil, err
		}

		e.emitEvent(PipelineEvent{
			Type:      OperationSuccess,
			RunID:     runID,
			Operation: op.Kind(),
			Index:     i,
			RowsIn:    current.Len(),
			RowsOut:   next.Len(),
			Timestamp: time.Now(),
			Duration:  time.Since(opStart),
		})
		current = next
	}

	e.emitEvent(PipelineEvent{
		Type:      PipelineSuccess,
		RunID:     runID,
		RowsIn:    t.Len(),
		RowsOut:   current.Len(),
		Timestamp: time.Now(),
		Duration:  time.Since(runStart),
	})
	return current, nil
}

// emitFailure emits a failure event carrying the error string.
func (e *EventedProcessor) emitFailure(eventType PipelineEventType, runID uuid.UUID, operation string, index, rowsIn int, start time.Time, err error) {
	errStr := err.Error()
	e.emitEvent(PipelineEvent{
		Type:      eventType,
		RunID:     runID,
		Operation: operation,
		Index:     index,
		RowsIn:    rowsIn,
		Error:     &errStr,
		Timestamp: time.Now(),
		Duration:  time.Since(start),
	})
}
