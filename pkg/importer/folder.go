package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/auditstream/gdpdu/pkg/core/naming"
	"github.com/auditstream/gdpdu/pkg/duck"
	"github.com/auditstream/gdpdu/pkg/xlsx"
)

// fileTypeExtensions maps a requested file type to the extensions it matches.
var fileTypeExtensions = map[string][]string{
	"csv":     {".csv", ".txt"},
	"tsv":     {".tsv"},
	"parquet": {".parquet"},
	"xlsx":    {".xlsx"},
	"json":    {".json", ".jsonl"},
}

// SupportedFileTypes returns the folder-mode file type names, sorted.
func SupportedFileTypes() []string {
	types := make([]string, 0, len(fileTypeExtensions))
	for name := range fileTypeExtensions {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

// FolderImporter loads undeclared data folders: every file of the requested
// type becomes a table named after the file, columns aliased through the name
// normalizer, types narrowed afterwards by inference.
type FolderImporter struct {
	exec   duck.Executor
	policy []Attempt
}

// NewFolderImporter creates a folder importer with the default encoding policy.
func NewFolderImporter(exec duck.Executor) *FolderImporter {
	return &FolderImporter{exec: exec, policy: DefaultPolicy()}
}

// ImportFolder loads all files of the requested type from dir. A directory
// with zero matching files yields exactly one sentinel result instead of an
// empty list; per-file failures are captured in their result records and the
// scan continues.
func (f *FolderImporter) ImportFolder(ctx context.Context, dir, fileType string) ([]FileImportResult, error) {
	extensions, ok := fileTypeExtensions[strings.ToLower(fileType)]
	if !ok {
		return nil, fmt.Errorf("unsupported file type %q (supported: %s)",
			fileType, strings.Join(SupportedFileTypes(), ", "))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var results []FileImportResult
	for _, entry := range entries {
		if entry.IsDir() || !matchesExtension(entry.Name(), extensions) {
			continue
		}
		results = append(results, f.importFile(ctx, dir, entry.Name(), strings.ToLower(fileType)))
	}

	if len(results) == 0 {
		return []FileImportResult{{
			Status: fmt.Sprintf("no %s files found in %q", fileType, dir),
		}}, nil
	}
	return results, nil
}

func matchesExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// importFile loads one file into a table named after it.
func (f *FolderImporter) importFile(ctx context.Context, dir, fileName, fileType string) FileImportResult {
	tableName := naming.TableNameFromFile(fileName)
	result := FileImportResult{TableName: tableName, FileName: fileName}
	path := filepath.Join(dir, fileName)

	var err error
	switch fileType {
	case "csv":
		err = f.loadDelimited(ctx, tableName, path, "")
	case "tsv":
		err = f.loadDelimited(ctx, tableName, path, "\t")
	case "parquet":
		err = f.loadReader(ctx, tableName, "read_parquet("+duck.StringLiteral(path)+")")
	case "json":
		err = f.loadReader(ctx, tableName, "read_json_auto("+duck.StringLiteral(path)+")")
	case "xlsx":
		err = f.loadExcel(ctx, tableName, path)
	default:
		err = fmt.Errorf("unsupported file type %q", fileType)
	}
	if err != nil {
		result.Status = err.Error()
		return result
	}

	// Clean before narrowing; stray control characters or padding would
	// block every promotion. Both passes are best-effort.
	cleanTextColumns(ctx, f.exec, tableName)
	InferColumnTypes(ctx, f.exec, tableName)

	columnCount, err := countColumns(ctx, f.exec, tableName)
	if err != nil {
		result.Status = fmt.Sprintf("loaded but failed to read schema: %v", err)
		return result
	}

	rowCount, err := countRows(ctx, f.exec, tableName)
	if err != nil {
		result.Status = fmt.Sprintf("loaded but failed to count rows: %v", err)
		return result
	}

	result.ColumnCount = columnCount
	result.RowCount = rowCount
	result.Status = StatusOK
	return result
}

// countColumns returns the table's column count from introspection.
func countColumns(ctx context.Context, exec duck.Executor, tableName string) (int, error) {
	described, err := exec.Execute(ctx, "DESCRIBE "+duck.QuoteIdent(tableName))
	if err != nil {
		return 0, err
	}
	return described.RowCount(), nil
}

// loadDelimited runs the encoding retry policy over a delimited text file.
// An empty delimiter leaves separator detection to the reader.
func (f *FolderImporter) loadDelimited(ctx context.Context, tableName, path, delimiter string) error {
	var lastErr error

	for _, attempt := range f.policy {
		loadPath := path
		if attempt.Charmap != nil {
			staged, err := stageTranscoded(path, attempt.Charmap)
			if err != nil {
				lastErr = err
				continue
			}
			loadPath = staged
		}

		err := f.loadReader(ctx, tableName, delimitedReaderExpr(loadPath, delimiter, attempt))

		if loadPath != path {
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

func delimitedReaderExpr(path, delimiter string, attempt Attempt) string {
	parts := []string{
		duck.StringLiteral(path),
		"header=true",
		"auto_detect=true",
	}
	if delimiter != "" {
		parts = append(parts, "delim="+duck.StringLiteral(delimiter))
	}

	enc := attempt.Native
	if enc == "" {
		enc = "utf-8"
	}
	parts = append(parts, "encoding="+duck.StringLiteral(enc))

	if attempt.IgnoreErrors {
		parts = append(parts, "ignore_errors=true")
	}

	return "read_csv(" + strings.Join(parts, ", ") + ")"
}

// loadExcel stages the workbook's first sheet as a UTF-8 CSV and loads that.
func (f *FolderImporter) loadExcel(ctx context.Context, tableName, path string) error {
	staged, err := os.CreateTemp("", "gdpdu-xlsx-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}
	stagedPath := staged.Name()
	_ = staged.Close()
	defer os.Remove(stagedPath)

	if err := xlsx.SheetToCSV(path, stagedPath); err != nil {
		return err
	}

	return f.loadReader(ctx, tableName, delimitedReaderExpr(stagedPath, ",", Attempt{Native: "utf-8"}))
}

// loadReader probes the reader expression for its column names, then creates
// the table as a projection that aliases every source column through the
// normalizer.
func (f *FolderImporter) loadReader(ctx context.Context, tableName, reader string) error {
	probe, err := f.exec.Execute(ctx, "SELECT * FROM "+reader+" LIMIT 0")
	if err != nil {
		return err
	}
	if probe.ColumnCount() == 0 {
		return fmt.Errorf("source declares no columns")
	}

	aliases := make([]string, probe.ColumnCount())
	for i := range aliases {
		normalized := naming.Normalize(probe.ColumnName(i))
		if normalized == "" {
			normalized = fmt.Sprintf("column_%d", i)
		}
		aliases[i] = duck.QuoteIdent(probe.ColumnName(i)) + " AS " + duck.QuoteIdent(normalized)
	}

	query := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT %s FROM %s",
		duck.QuoteIdent(tableName), strings.Join(aliases, ", "), reader)
	_, err = f.exec.Execute(ctx, query)
	return err
}
