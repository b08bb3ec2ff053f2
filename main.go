package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/asaidimu/go-frame/core/query"
	"github.com/asaidimu/go-frame/core/table"
	"github.com/asaidimu/go-frame/render"
	"github.com/asaidimu/go-frame/source"
)

func main() {
	ctx := context.Background()

	schema, err := table.NewSchema(
		table.Column{Name: "month", Type: table.ColumnTypeInteger},
		table.Column{Name: "carrier", Type: table.ColumnTypeString},
		table.Column{Name: "delay", Type: table.ColumnTypeFloat},
		table.Column{Name: "distance", Type: table.ColumnTypeFloat},
	)
	if err != nil {
		log.Fatalf("Failed to build schema: %v", err)
	}

	src := source.NewMemorySource(schema, []table.Row{
		{"month": int64(1), "carrier": "UA", "delay": 10.0, "distance": 1400.0},
		{"month": int64(1), "carrier": "AA", "delay": nil, "distance": 1089.0},
		{"month": int64(2), "carrier": "UA", "delay": 5.0, "distance": 719.0},
		{"month": int64(2), "carrier": "DL", "delay": -3.0, "distance": 1576.0},
		{"month": int64(3), "carrier": "AA", "delay": 22.0, "distance": 733.0},
	})

	flights, err := src.Read(ctx)
	if err != nil {
		log.Fatalf("Failed to read source: %v", err)
	}

	fmt.Println("--- Flights ---")
	if err := render.NewTextFormatter(os.Stdout).Format(flights); err != nil {
		log.Fatalf("Failed to render table: %v", err)
	}

	// Average delay per month, ignoring flights with no reported delay.
	pipeline := query.NewPipelineBuilder().
		GroupBy("month").
		Count("flights").
		Mean("delay", "avg_delay", true).
		End().
		SortBy("avg_delay", query.SortDirectionDesc).End().
		Build()

	processor := query.NewProcessor(nil)
	summary, err := processor.Apply(ctx, pipeline, flights)
	if err != nil {
		log.Fatalf("Failed to apply pipeline: %v", err)
	}

	fmt.Println("--- Average delay by month ---")
	if err := render.NewTextFormatter(os.Stdout).Format(summary); err != nil {
		log.Fatalf("Failed to render summary: %v", err)
	}
}
