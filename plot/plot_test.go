package plot

import (
	"bytes"
	"context"
	"testing"

	"github.com/asaidimu/go-frame/core/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plotFixture(t *testing.T) *table.Table {
	t.Helper()
	schema, err := table.NewSchema(
		table.Column{Name: "month", Type: table.ColumnTypeInteger},
		table.Column{Name: "avg_delay", Type: table.ColumnTypeFloat},
		table.Column{Name: "carrier", Type: table.ColumnTypeString},
	)
	require.NoError(t, err)

	tbl, err := table.New(schema, []table.Row{
		{"month": int64(1), "avg_delay": 10.0, "carrier": "UA"},
		{"month": int64(2), "avg_delay": 1.0, "carrier": "AA"},
	})
	require.NoError(t, err)
	return tbl
}

func TestValidate(t *testing.T) {
	tbl := plotFixture(t)

	t.Run("Valid spec", func(t *testing.T) {
		err := Validate(Spec{
			Mark: MarkLine,
			Mapping: Mapping{
				ChannelX:     "month",
				ChannelY:     "avg_delay",
				ChannelColor: "carrier",
			},
		}, tbl)
		assert.NoError(t, err)
	})

	t.Run("Unknown mark", func(t *testing.T) {
		err := Validate(Spec{
			Mark:    "pie",
			Mapping: Mapping{ChannelX: "month", ChannelY: "avg_delay"},
		}, tbl)
		assert.Error(t, err)
	})

	t.Run("Missing required channel", func(t *testing.T) {
		err := Validate(Spec{
			Mark:    MarkPoint,
			Mapping: Mapping{ChannelX: "month"},
		}, tbl)
		assert.Error(t, err)
	})

	t.Run("Unknown column", func(t *testing.T) {
		err := Validate(Spec{
			Mark:    MarkPoint,
			Mapping: Mapping{ChannelX: "month", ChannelY: "dep_delay"},
		}, tbl)
		assert.ErrorIs(t, err, table.ErrMissingColumn)
	})

	t.Run("Size channel requires numeric column", func(t *testing.T) {
		err := Validate(Spec{
			Mark: MarkPoint,
			Mapping: Mapping{
				ChannelX:    "month",
				ChannelY:    "avg_delay",
				ChannelSize: "carrier",
			},
		}, tbl)
		assert.ErrorIs(t, err, table.ErrTypeMismatch)
	})
}

func TestTextPlotter(t *testing.T) {
	tbl := plotFixture(t)

	t.Run("Writes sketch", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewTextPlotter(&buf).Plot(context.Background(), Spec{
			Mark:    MarkBar,
			Title:   "Average delay by month",
			Mapping: Mapping{ChannelX: "month", ChannelY: "avg_delay"},
		}, tbl)
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "Average delay by month")
		assert.Contains(t, out, "mark=bar rows=2")
		assert.Contains(t, out, "x -> month (integer)")
		assert.Contains(t, out, "y -> avg_delay (float)")
	})

	t.Run("Rejects invalid spec", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewTextPlotter(&buf).Plot(context.Background(), Spec{
			Mark:    MarkBar,
			Mapping: Mapping{ChannelX: "month", ChannelY: "nope"},
		}, tbl)
		assert.ErrorIs(t, err, table.ErrMissingColumn)
		assert.Zero(t, buf.Len())
	})

	t.Run("Honours cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var buf bytes.Buffer
		err := NewTextPlotter(&buf).Plot(ctx, Spec{
			Mark:    MarkBar,
			Mapping: Mapping{ChannelX: "month", ChannelY: "avg_delay"},
		}, tbl)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
