package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/auditstream/gdpdu/pkg/core/schema"
	"github.com/auditstream/gdpdu/pkg/duck"
)

// Loader loads schema-declared tables through the encoding retry policy.
type Loader struct {
	exec      duck.Executor
	policy    []Attempt
	delimiter string
}

// NewLoader creates a loader with the default encoding policy and the GDPdU
// semicolon delimiter.
func NewLoader(exec duck.Executor) *Loader {
	return &Loader{exec: exec, policy: DefaultPolicy(), delimiter: ";"}
}

// SetDelimiter overrides the data file field separator.
func (l *Loader) SetDelimiter(delimiter string) {
	if delimiter != "" {
		l.delimiter = delimiter
	}
}

// LoadTable provisions the destination table and loads its data file,
// retrying across the encoding policy. Every call yields exactly one result
// record; errors never escape as Go errors because a single table's failure
// must not abort the batch.
func (l *Loader) LoadTable(ctx context.Context, dir string, table *schema.TableDef) ImportResult {
	if table.Name == "" {
		return failedResult(table.Name, fmt.Errorf("table declares no name"))
	}
	if table.URL == "" {
		return failedResult(table.Name, fmt.Errorf("table %q declares no data file", table.Name))
	}

	if err := l.createTable(ctx, table); err != nil {
		return failedResult(table.Name, fmt.Errorf("failed to create table: %w", err))
	}

	dataPath := filepath.Join(dir, table.URL)
	if _, err := os.Stat(dataPath); err != nil {
		return failedResult(table.Name, fmt.Errorf("data file %q: %w", table.URL, err))
	}

	if err := l.loadWithPolicy(ctx, dataPath, table); err != nil {
		return failedResult(table.Name, err)
	}

	// Best-effort; imported data stands even when cleanup fails.
	l.cleanupText(ctx, table)

	rowCount, err := countRows(ctx, l.exec, table.Name)
	if err != nil {
		return failedResult(table.Name, fmt.Errorf("failed to count rows: %w", err))
	}
	if rowCount == 0 {
		// A load that succeeds but produces nothing means no encoding
		// actually decoded the file into data. Drop the empty artifact.
		_, _ = l.exec.Execute(ctx, "DROP TABLE IF EXISTS "+duck.QuoteIdent(table.Name))
		return failedResult(table.Name,
			fmt.Errorf("no rows imported from %q under any encoding", table.URL))
	}

	return ImportResult{
		TableName:   table.Name,
		RowCount:    rowCount,
		ColumnCount: len(table.Columns),
		Status:      StatusOK,
	}
}

// createTable drops and recreates the destination table from the schema.
func (l *Loader) createTable(ctx context.Context, table *schema.TableDef) error {
	if _, err := l.exec.Execute(ctx, "DROP TABLE IF EXISTS "+duck.QuoteIdent(table.Name)); err != nil {
		return err
	}

	defs := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		defs[i] = duck.QuoteIdent(col.Name) + " " + col.DuckDBType()
	}

	query := fmt.Sprintf("CREATE TABLE %s (%s)",
		duck.QuoteIdent(table.Name), strings.Join(defs, ", "))
	_, err := l.exec.Execute(ctx, query)
	return err
}

// loadWithPolicy walks the encoding attempts in order, stopping at the first
// success. Encoding-classified errors advance to the next attempt; any other
// error is reported verbatim and stops the search.
func (l *Loader) loadWithPolicy(ctx context.Context, dataPath string, table *schema.TableDef) error {
	var lastErr error

	for _, attempt := range l.policy {
		loadPath := dataPath
		if attempt.Charmap != nil {
			staged, err := stageTranscoded(dataPath, attempt.Charmap)
			if err != nil {
				lastErr = err
				continue
			}
			loadPath = staged
		}

		_, err := l.exec.Execute(ctx, buildLoadSQL(table, loadPath, l.delimiter, attempt))

		if loadPath != dataPath {
			_ = os.Remove(loadPath)
		}

		if err == nil {
			return nil
		}
		if !IsEncodingError(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("all encodings failed, last error: %w", lastErr)
}

// buildLoadSQL produces the bulk-load statement for one encoding attempt.
// Every field is read as raw text and wrapped in its per-column conversion
// expression; ragged rows are padded with NULL instead of aborting the file.
func buildLoadSQL(table *schema.TableDef, dataPath, delimiter string, attempt Attempt) string {
	var b strings.Builder

	b.WriteString("INSERT INTO ")
	b.WriteString(duck.QuoteIdent(table.Name))
	b.WriteString(" SELECT ")
	for i, col := range table.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(conversionExpr(&col, fmt.Sprintf("column%d", i), table))
	}

	b.WriteString(" FROM read_csv(")
	b.WriteString(duck.StringLiteral(dataPath))
	b.WriteString(", delim=")
	b.WriteString(duck.StringLiteral(delimiter))
	b.WriteString(", header=false, quote='\"', all_varchar=true, auto_detect=false")
	b.WriteString(", strict_mode=false, null_padding=true")

	if table.SkipLines > 0 {
		b.WriteString(", skip=")
		b.WriteString(strconv.Itoa(table.SkipLines))
	}

	enc := attempt.Native
	if enc == "" {
		// Transcoded staging copy.
		enc = "utf-8"
	}
	b.WriteString(", encoding=")
	b.WriteString(duck.StringLiteral(enc))

	if attempt.IgnoreErrors {
		b.WriteString(", ignore_errors=true")
	}

	b.WriteString(", columns={")
	for i := range table.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "'column%d': 'VARCHAR'", i)
	}
	b.WriteString("})")

	return b.String()
}

// conversionExpr wraps a raw text column in the locale-aware cast for its
// declared type.
func conversionExpr(col *schema.ColumnDef, raw string, table *schema.TableDef) string {
	ident := duck.QuoteIdent(raw)
	grouping := duck.EscapeString(string(table.DigitGrouping))
	decimal := duck.EscapeString(string(table.DecimalSymbol))

	switch {
	case col.IsInteger():
		return fmt.Sprintf("CAST(REPLACE(%s, '%s', '') AS BIGINT)", ident, grouping)
	case col.IsNumeric():
		return fmt.Sprintf("CAST(REPLACE(REPLACE(%s, '%s', ''), '%s', '.') AS %s)",
			ident, grouping, decimal, col.DuckDBType())
	case col.IsDate():
		return fmt.Sprintf(
			"CASE WHEN TRIM(%s) IS NULL OR TRIM(%s) = '' THEN NULL "+
				"ELSE CAST(strptime(TRIM(%s), '%%d.%%m.%%Y') AS DATE) END",
			ident, ident, ident)
	default:
		return ident
	}
}

// countRows returns the destination table's row count.
func countRows(ctx context.Context, exec duck.Executor, tableName string) (int64, error) {
	result, err := exec.Execute(ctx, "SELECT COUNT(*) FROM "+duck.QuoteIdent(tableName))
	if err != nil {
		return 0, err
	}
	if result.RowCount() == 0 || result.ColumnCount() == 0 {
		return 0, fmt.Errorf("count query returned no rows")
	}
	count, err := strconv.ParseInt(result.Value(0, 0), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected count value %q: %w", result.Value(0, 0), err)
	}
	return count, nil
}
