package audit

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // sqlite driver
)

const trailTable = "audit_trail"

// SQLiteAppender writes entries into a local SQLite database, one row per
// entry. The table is created on first use.
type SQLiteAppender struct {
	db *sql.DB
}

// NewSQLiteAppender opens (or creates) the trail database at path.
func NewSQLiteAppender(path string) (*SQLiteAppender, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	createStmt := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			operation TEXT NOT NULL,
			status TEXT NOT NULL,
			source TEXT,
			table_name TEXT,
			file_name TEXT,
			rows INTEGER DEFAULT 0,
			checksum TEXT,
			duration_ms INTEGER DEFAULT 0,
			error_message TEXT
		)`, trailTable)
	if _, err := db.Exec(createStmt); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create audit table: %w", err)
	}

	return &SQLiteAppender{db: db}, nil
}

// Append - insert one row
func (sa *SQLiteAppender) Append(ctx context.Context, entry *Entry) error {
	insertStmt := fmt.Sprintf(`
		INSERT INTO %s (timestamp, operation, status, source, table_name,
			file_name, rows, checksum, duration_ms, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, trailTable)

	_, err := sa.db.ExecContext(ctx, insertStmt,
		entry.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z"),
		string(entry.Operation),
		string(entry.Status),
		entry.Source,
		entry.Table,
		entry.File,
		entry.Rows,
		fmt.Sprintf("%016x", entry.Checksum),
		entry.Duration.Milliseconds(),
		entry.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// Close - close the trail database
func (sa *SQLiteAppender) Close() error {
	return sa.db.Close()
}
