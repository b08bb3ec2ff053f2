// Package plot defines the declarative contract between a table and a
// plotting collaborator: a mapping from columns to visual channels plus a
// mark. Rendering is left to Plotter implementations; this package
// validates that a spec can be satisfied by a table's schema and ships a
// small text sketcher for examples and debugging.
package plot

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/asaidimu/go-frame/core/table"
)

// Channel is a visual channel a column can be mapped onto.
type Channel string

// Supported channels.
const (
	ChannelX     Channel = "x"
	ChannelY     Channel = "y"
	ChannelColor Channel = "color"
	ChannelSize  Channel = "size"
	ChannelFacet Channel = "facet"
)

// Mark is the geometric mark used to draw rows.
type Mark string

// Supported marks.
const (
	MarkPoint Mark = "point"
	MarkLine  Mark = "line"
	MarkBar   Mark = "bar"
)

// Mapping assigns a column name to each used channel.
type Mapping map[Channel]string

// Spec is a complete declarative plot description.
type Spec struct {
	Mark    Mark    `json:"mark"`
	Title   string  `json:",omitempty"`
	Mapping Mapping `json:"mapping"`
}

// Plotter consumes a table and a spec to render a chart. Implementations
// live outside this library; TextPlotter is a diagnostic stand-in.
type Plotter interface {
	Plot(ctx context.Context, spec Spec, t *table.Table) error
}

// Validate checks a spec against a table's schema: every mapped column must
// exist, the x and y channels must be mapped, and the size channel requires
// a numeric column.
func Validate(spec Spec, t *table.Table) error {
	switch spec.Mark {
	case MarkPoint, MarkLine, MarkBar:
	default:
		return fmt.Errorf("unsupported mark: %q", spec.Mark)
	}

	for _, required := range []Channel{ChannelX, ChannelY} {
		if spec.Mapping[required] == "" {
			return fmt.Errorf("channel %q must be mapped to a column", required)
		}
	}

	for channel, column := range spec.Mapping {
		col, ok := t.Schema().Column(column)
		if !ok {
			return &table.MissingColumnError{Column: column}
		}
		if channel == ChannelSize && !col.Type.IsNumeric() {
			return &table.TypeMismatchError{Column: column, Want: "numeric", Got: string(col.Type)}
		}
	}
	return nil
}

// TextPlotter writes a one-line-per-channel sketch of the plot instead of
// drawing it. Useful in examples and when wiring up a real Plotter.
type TextPlotter struct {
	writer io.Writer
}

// NewTextPlotter creates a text sketcher.
func NewTextPlotter(w io.Writer) *TextPlotter {
	return &TextPlotter{writer: w}
}

// Plot validates the spec and writes the sketch.
func (p *TextPlotter) Plot(ctx context.Context, spec Spec, t *table.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := Validate(spec, t); err != nil {
		return err
	}

	if spec.Title != "" {
		fmt.Fprintf(p.writer, "%s\n", spec.Title)
	}
	fmt.Fprintf(p.writer, "mark=%s rows=%d\n", spec.Mark, t.Len())

	channels := make([]string, 0, len(spec.Mapping))
	for channel := range spec.Mapping {
		channels = append(channels, string(channel))
	}
	sort.Strings(channels)
	for _, channel := range channels {
		column := spec.Mapping[Channel(channel)]
		col, _ := t.Schema().Column(column)
		fmt.Fprintf(p.writer, "  %s -> %s (%s)\n", channel, column, col.Type)
	}
	return nil
}
