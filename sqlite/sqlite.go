// Package sqlite provides a SQLite-backed tabular data source and sink. It
// maps the library's column types onto SQLite storage classes, generating
// the DDL needed to persist a Table and reading query results back into
// Table values.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/asaidimu/go-frame/core/table"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"
)

// Store wraps a SQLite database handle.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (or creates) a SQLite database at the given path. Use
// ":memory:" for an in-memory database.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// NewStore wraps an existing database handle.
func NewStore(db *sql.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// quoteIdentifier safely quotes an identifier, such as a table or column
// name, to handle names that might be keywords or contain special
// characters.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// columnDDL maps a column type to its SQLite storage class.
func columnDDL(t table.ColumnType) string {
	switch t {
	case table.ColumnTypeInteger:
		return "INTEGER"
	case table.ColumnTypeFloat:
		return "REAL"
	case table.ColumnTypeBoolean:
		return "INTEGER" // 0/1
	case table.ColumnTypeTimestamp:
		return "TEXT" // RFC 3339
	default:
		return "TEXT"
	}
}

// CreateTableSQL generates the DDL statement for persisting a schema.
func CreateTableSQL(name string, schema *table.Schema) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS ")
	sb.WriteString(quoteIdentifier(name))
	sb.WriteString(" (\n")

	columns := make([]string, 0, schema.Len())
	for _, col := range schema.Columns() {
		columns = append(columns, "    "+quoteIdentifier(col.Name)+" "+columnDDL(col.Type))
	}
	sb.WriteString(strings.Join(columns, ",\n"))
	sb.WriteString("\n);")
	return sb.String()
}

// WriteTable creates the destination table if needed and inserts every row
// inside a single transaction.
func (s *Store) WriteTable(ctx context.Context, name string, t *table.Table) error {
	ddl := CreateTableSQL(name, t.Schema())
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}

	names := t.Schema().Names()
	quoted := make([]string, len(names))
	placeholders := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdentifier(n)
		placeholders[i] = "?"
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdentifier(name), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range t.Rows() {
		args := make([]any, len(names))
		for j, n := range names {
			args[j] = bindValue(row[n])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	s.logger.Debug("Wrote table", zap.String("table", name), zap.Int("rows", t.Len()))
	return nil
}

// bindValue converts a table value into its SQLite binding.
func bindValue(v any) any {
	if ts, ok := v.(time.Time); ok {
		return ts.Format(time.RFC3339)
	}
	return v
}

// ReadTable reads an entire SQLite table into a Table, coercing values to
// the given schema's column types.
func (s *Store) ReadTable(ctx context.Context, name string, schema *table.Schema) (*table.Table, error) {
	quoted := make([]string, 0, schema.Len())
	for _, col := range schema.Columns() {
		quoted = append(quoted, quoteIdentifier(col.Name))
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), quoteIdentifier(name))
	return s.Query(ctx, schema, query)
}

// Query runs an arbitrary SQL query and reads the result set into a Table
// under the given schema. The schema's column order must match the result
// columns.
func (s *Store) Query(ctx context.Context, schema *table.Schema, query string, args ...any) (*table.Table, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns := schema.Columns()
	var out []table.Row
	for rows.Next() {
		scanned := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range scanned {
			targets[i] = &scanned[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(table.Row, len(columns))
		for i, col := range columns {
			if scanned[i] == nil {
				row[col.Name] = nil
				continue
			}
			value, err := table.Normalize(scanned[i], col.Type)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", col.Name, err)
			}
			row[col.Name] = value
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	s.logger.Debug("Read query result", zap.Int("rows", len(out)))
	return table.New(schema, out)
}

// TableSource adapts a stored SQLite table to the source contract.
type TableSource struct {
	store  *Store
	name   string
	schema *table.Schema
}

// NewTableSource creates a source over a stored table.
func NewTableSource(store *Store, name string, schema *table.Schema) *TableSource {
	return &TableSource{store: store, name: name, schema: schema}
}

// Read loads the stored table.
func (s *TableSource) Read(ctx context.Context) (*table.Table, error) {
	return s.store.ReadTable(ctx, s.name, s.schema)
}
