package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/asaidimu/go-frame/core/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func flightsFixture(t *testing.T) *table.Table {
	t.Helper()
	schema, err := table.NewSchema(
		table.Column{Name: "carrier", Type: table.ColumnTypeString},
		table.Column{Name: "delay", Type: table.ColumnTypeFloat},
		table.Column{Name: "cancelled", Type: table.ColumnTypeBoolean},
		table.Column{Name: "departed", Type: table.ColumnTypeTimestamp},
	)
	require.NoError(t, err)

	departed := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	tbl, err := table.New(schema, []table.Row{
		{"carrier": "UA", "delay": 10.0, "cancelled": false, "departed": departed},
		{"carrier": "AA", "delay": nil, "cancelled": true, "departed": nil},
	})
	require.NoError(t, err)
	return tbl
}

func TestCreateTableSQL(t *testing.T) {
	tbl := flightsFixture(t)
	ddl := CreateTableSQL("flights", tbl.Schema())

	assert.Contains(t, ddl, `CREATE TABLE IF NOT EXISTS "flights"`)
	assert.Contains(t, ddl, `"carrier" TEXT`)
	assert.Contains(t, ddl, `"delay" REAL`)
	assert.Contains(t, ddl, `"cancelled" INTEGER`)
	assert.Contains(t, ddl, `"departed" TEXT`)
}

func TestWriteAndReadTable(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	tbl := flightsFixture(t)

	require.NoError(t, store.WriteTable(ctx, "flights", tbl))

	got, err := store.ReadTable(ctx, "flights", tbl.Schema())
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())

	// Values round trip through SQLite storage classes.
	v, _ := got.Value(0, "carrier")
	assert.Equal(t, "UA", v)
	v, _ = got.Value(0, "delay")
	assert.Equal(t, 10.0, v)
	v, _ = got.Value(0, "cancelled")
	assert.Equal(t, false, v)
	v, _ = got.Value(0, "departed")
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), v)

	// NULLs come back as missing.
	v, _ = got.Value(1, "delay")
	assert.Nil(t, v)
	v, _ = got.Value(1, "cancelled")
	assert.Equal(t, true, v)
}

func TestQuery(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.WriteTable(ctx, "flights", flightsFixture(t)))

	schema, err := table.NewSchema(
		table.Column{Name: "carrier", Type: table.ColumnTypeString},
		table.Column{Name: "delay", Type: table.ColumnTypeFloat},
	)
	require.NoError(t, err)

	got, err := store.Query(ctx, schema,
		`SELECT "carrier", "delay" FROM "flights" WHERE "delay" IS NOT NULL`)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	v, _ := got.Value(0, "carrier")
	assert.Equal(t, "UA", v)
}

func TestQueryWithArgs(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.WriteTable(ctx, "flights", flightsFixture(t)))

	schema, err := table.NewSchema(table.Column{Name: "carrier", Type: table.ColumnTypeString})
	require.NoError(t, err)

	got, err := store.Query(ctx, schema,
		`SELECT "carrier" FROM "flights" WHERE "carrier" = ?`, "AA")
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
}

func TestTableSource(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	tbl := flightsFixture(t)
	require.NoError(t, store.WriteTable(ctx, "flights", tbl))

	src := NewTableSource(store, "flights", tbl.Schema())
	got, err := src.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, tbl.Len(), got.Len())
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"plain"`, quoteIdentifier("plain"))
	assert.Equal(t, `"with""quote"`, quoteIdentifier(`with"quote`))
}
