// Package importer loads GDPdU-style exports and plain data folders into the
// destination store. Schema-declared tables go through the encoding-resilient
// loader; undeclared folders go through format-native readers plus data-driven
// type inference.
package importer

// StatusOK marks a successful per-table or per-file outcome.
const StatusOK = "OK"

// ImportResult - outcome of loading one schema-declared table. Write-once;
// returned to the caller and never mutated afterwards.
type ImportResult struct {
	TableName   string
	RowCount    int64
	ColumnCount int
	Status      string
}

// OK reports whether the table was imported successfully.
func (r ImportResult) OK() bool {
	return r.Status == StatusOK
}

// FileImportResult - outcome of loading one file in folder mode.
type FileImportResult struct {
	TableName   string
	FileName    string
	RowCount    int64
	ColumnCount int
	Status      string
}

// OK reports whether the file was imported successfully.
func (r FileImportResult) OK() bool {
	return r.Status == StatusOK
}

func failedResult(tableName string, err error) ImportResult {
	return ImportResult{TableName: tableName, Status: err.Error()}
}
