// Package duck provides the narrow query contract the import/export pipeline
// uses to talk to the destination store, plus the DuckDB implementation of it.
// Everything above this package generates SQL text; nothing above it touches
// database/sql directly.
package duck

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Result - materialized outcome of one statement. All values are carried as
// strings; NULL becomes the empty string. The importer only ever inspects
// small result sets (DESCRIBE output, counts), so full materialization is fine.
type Result struct {
	columns []string
	rows    [][]string
}

// RowCount returns the number of rows in the result.
func (r *Result) RowCount() int {
	return len(r.rows)
}

// ColumnCount returns the number of columns in the result.
func (r *Result) ColumnCount() int {
	return len(r.columns)
}

// ColumnName returns the name of column i.
func (r *Result) ColumnName(i int) string {
	return r.columns[i]
}

// Value returns the string value at row i, column j; "" for NULL.
func (r *Result) Value(i, j int) string {
	return r.rows[i][j]
}

// NewResult builds a Result from explicit columns and rows. Used by tests
// and by fakes standing in for a live store.
func NewResult(columns []string, rows [][]string) *Result {
	return &Result{columns: columns, rows: rows}
}

// Executor - the only capability the pipeline consumes from the destination
// store: execute one SQL statement, get rows and columns back or an error.
type Executor interface {
	Execute(ctx context.Context, query string) (*Result, error)
}

// DB is the DuckDB-backed Executor. One DB is shared sequentially across all
// tables of an import batch; no parallel statements are issued against it.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) a DuckDB database. Use ":memory:" or the empty
// string for an in-memory database.
func Open(ctx context.Context, path string) (*DB, error) {
	if path == ":memory:" {
		path = ""
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping duckdb database: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the underlying connection pool.
func (d *DB) Close() error {
	return d.db.Close()
}

// Execute runs one statement and materializes its result. Statements without
// a result set (DDL, INSERT, COPY) return an empty Result.
func (d *DB) Execute(ctx context.Context, query string) (*Result, error) {
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	result := &Result{columns: columns}
	values := make([]sql.NullString, len(columns))
	scanArgs := make([]any, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		row := make([]string, len(columns))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			}
		}
		result.rows = append(result.rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
