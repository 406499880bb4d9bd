// Package exporter writes a destination table back out as a GDPdU bundle:
// a semicolon-delimited data file with German-locale value formatting and a
// shared index.xml descriptor enumerating every exported table.
package exporter

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

// StatusOK marks a successful export.
const StatusOK = "OK"

// ExportResult - outcome of exporting one table. Write-once.
type ExportResult struct {
	TableName string
	RowCount  int64
	Status    string
}

// OK reports whether the export succeeded.
func (r ExportResult) OK() bool {
	return r.Status == StatusOK
}

// Exporter exports tables over one store session.
type Exporter struct {
	exec duck.Executor
}

// New creates an exporter over the given store session.
func New(exec duck.Executor) *Exporter {
	return &Exporter{exec: exec}
}

// Export writes tableName's data file and descriptor entry into destDir,
// creating the directory if absent. Zero rows is a valid export. Any step
// failure aborts this table's export with a descriptive status; partial files
// stay on disk.
func (e *Exporter) Export(ctx context.Context, tableName, destDir string) ExportResult {
	result := ExportResult{TableName: tableName}

	absDir, err := filepath.Abs(destDir)
	if err != nil {
		result.Status = fmt.Sprintf("failed to resolve destination: %v", err)
		return result
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		result.Status = fmt.Sprintf("failed to create destination: %v", err)
		return result
	}

	columns, err := e.describeColumns(ctx, tableName)
	if err != nil {
		result.Status = fmt.Sprintf("failed to read table schema: %v", err)
		return result
	}

	rowCount, err := e.countRows(ctx, tableName)
	if err != nil {
		result.Status = fmt.Sprintf("failed to count rows: %v", err)
		return result
	}

	// Data files carry the conventional GDPdU .txt extension.
	dataFile := tableName + ".txt"
	if err := e.writeDataFile(ctx, tableName, columns, filepath.Join(absDir, dataFile)); err != nil {
		result.Status = fmt.Sprintf("failed to write data file: %v", err)
		return result
	}

	if err := writeDescriptor(absDir, tableName, dataFile, columns); err != nil {
		result.Status = fmt.Sprintf("failed to write descriptor: %v", err)
		return result
	}

	result.RowCount = rowCount
	result.Status = StatusOK
	return result
}

// describeColumns introspects the table and classifies every column into a
// GDPdU type tag with its decimal scale.
func (e *Exporter) describeColumns(ctx context.Context, tableName string) ([]schema.ColumnDef, error) {
	described, err := e.exec.Execute(ctx, "DESCRIBE "+duck.QuoteIdent(tableName))
	if err != nil {
		return nil, err
	}
	if described.RowCount() == 0 {
		return nil, fmt.Errorf("table %q has no columns", tableName)
	}

	columns := make([]schema.ColumnDef, described.RowCount())
	for i := 0; i < described.RowCount(); i++ {
		colType, precision := schema.ClassifyDuckDBType(described.Value(i, 1))
		columns[i] = schema.ColumnDef{
			Name:      described.Value(i, 0),
			Type:      colType,
			Precision: precision,
		}
	}
	return columns, nil
}

func (e *Exporter) countRows(ctx context.Context, tableName string) (int64, error) {
	result, err := e.exec.Execute(ctx, "SELECT COUNT(*) FROM "+duck.QuoteIdent(tableName))
	if err != nil {
		return 0, err
	}
	if result.RowCount() == 0 {
		return 0, fmt.Errorf("count query returned no rows")
	}
	return strconv.ParseInt(result.Value(0, 0), 10, 64)
}

// writeDataFile copies the locale-formatted projection of the table into a
// semicolon-delimited file without a header row.
func (e *Exporter) writeDataFile(ctx context.Context, tableName string, columns []schema.ColumnDef, path string) error {
	projections := make([]string, len(columns))
	for i, col := range columns {
		projections[i] = formatExpr(&col)
	}

	query := fmt.Sprintf(
		"COPY (SELECT %s FROM %s) TO %s (FORMAT CSV, DELIMITER ';', HEADER false)",
		strings.Join(projections, ", "), duck.QuoteIdent(tableName), duck.StringLiteral(path))
	_, err := e.exec.Execute(ctx, query)
	return err
}

// formatExpr turns a typed column back into its locale-specific text form:
// scaled numerics get a decimal comma, dates the German DD.MM.YYYY format,
// integers and text pass through unchanged.
func formatExpr(col *schema.ColumnDef) string {
	ident := duck.QuoteIdent(col.Name)
	switch {
	case col.Type == schema.TypeNumeric && col.Precision > 0:
		return fmt.Sprintf("REPLACE(CAST(%s AS VARCHAR), '.', ',') AS %s", ident, ident)
	case col.Type == schema.TypeDate:
		return fmt.Sprintf("strftime(%s, '%%d.%%m.%%Y') AS %s", ident, ident)
	default:
		return ident
	}
}
