package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/auditstream/gdpdu/pkg/duck"
)

func writeFileInto(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestImportFolderNoMatchingFiles(t *testing.T) {
	exec := &fakeExec{}
	results, err := NewFolderImporter(exec).ImportFolder(context.Background(), t.TempDir(), "csv")
	if err != nil {
		t.Fatalf("ImportFolder: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want exactly one sentinel", len(results))
	}
	if results[0].OK() || !strings.Contains(results[0].Status, "no csv files") {
		t.Errorf("sentinel status = %q", results[0].Status)
	}
	if len(exec.queries) != 0 {
		t.Errorf("no queries expected for an empty folder, got %v", exec.queries)
	}
}

func TestImportFolderUnsupportedType(t *testing.T) {
	_, err := NewFolderImporter(&fakeExec{}).ImportFolder(context.Background(), t.TempDir(), "avro")
	if err == nil {
		t.Fatal("expected error for unsupported file type")
	}
	if !strings.Contains(err.Error(), "supported:") {
		t.Errorf("error %q should list supported types", err)
	}
}

func TestImportFolderCSV(t *testing.T) {
	dir := writeDataFile(t, "Sachkonten 2024.csv", "Konto Nr,Betrag\n100,\"1,50\"\n")

	exec := &fakeExec{respond: func(query string) (*duck.Result, error) {
		switch {
		case strings.Contains(query, "LIMIT 0"):
			return duck.NewResult([]string{"Konto Nr", "Betrag"}, nil), nil
		case strings.HasPrefix(query, "DESCRIBE"):
			// No text columns left to narrow.
			return duck.NewResult([]string{"column_name", "column_type"}, nil), nil
		case strings.HasPrefix(query, "SELECT COUNT(*)"):
			return countResult("1"), nil
		}
		return duck.NewResult(nil, nil), nil
	}}

	results, err := NewFolderImporter(exec).ImportFolder(context.Background(), dir, "csv")
	if err != nil {
		t.Fatalf("ImportFolder: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	result := results[0]
	if !result.OK() {
		t.Fatalf("status = %q, want OK", result.Status)
	}
	if result.TableName != "sachkonten_2024" {
		t.Errorf("table name = %q, want sachkonten_2024", result.TableName)
	}
	if result.FileName != "Sachkonten 2024.csv" {
		t.Errorf("file name = %q", result.FileName)
	}
	if result.RowCount != 1 {
		t.Errorf("row count = %d, want 1", result.RowCount)
	}

	if !exec.executed(`CREATE OR REPLACE TABLE "sachkonten_2024" AS SELECT "Konto Nr" AS "konto_nr", "Betrag" AS "betrag" FROM read_csv(`) {
		t.Errorf("missing aliased create, got:\n%s", strings.Join(exec.queries, "\n"))
	}
}

func TestImportFolderCleansTextBeforeNarrowing(t *testing.T) {
	dir := writeDataFile(t, "notizen.csv", "Name\n  x01  \n")

	exec := &fakeExec{respond: func(query string) (*duck.Result, error) {
		switch {
		case strings.Contains(query, "LIMIT 0"):
			return duck.NewResult([]string{"Name"}, nil), nil
		case strings.HasPrefix(query, "DESCRIBE"):
			return describeResult([][]string{{"name", "VARCHAR", "YES", "", "", ""}}), nil
		case strings.HasSuffix(query, "<> ''"):
			// No usable values; the column stays text.
			return countResult("0"), nil
		case strings.HasPrefix(query, "SELECT COUNT(*)"):
			return countResult("1"), nil
		}
		return duck.NewResult(nil, nil), nil
	}}

	results, err := NewFolderImporter(exec).ImportFolder(context.Background(), dir, "csv")
	if err != nil {
		t.Fatalf("ImportFolder: %v", err)
	}
	if !results[0].OK() {
		t.Fatalf("status = %q, want OK", results[0].Status)
	}

	cleanupAt, narrowAt := -1, -1
	for i, q := range exec.queries {
		if cleanupAt < 0 && strings.Contains(q, "REGEXP_REPLACE") {
			cleanupAt = i
		}
		if narrowAt < 0 && strings.HasSuffix(q, "<> ''") {
			narrowAt = i
		}
	}
	if cleanupAt < 0 {
		t.Fatalf("missing text cleanup, got:\n%s", strings.Join(exec.queries, "\n"))
	}
	if narrowAt >= 0 && cleanupAt > narrowAt {
		t.Errorf("cleanup must run before narrowing, got:\n%s", strings.Join(exec.queries, "\n"))
	}
}

func TestImportFolderReportsColumnCount(t *testing.T) {
	dir := writeDataFile(t, "werte.csv", "A,B\n1,01.06.2024\n")

	exec := &fakeExec{respond: func(query string) (*duck.Result, error) {
		switch {
		case strings.Contains(query, "LIMIT 0"):
			return duck.NewResult([]string{"A", "B"}, nil), nil
		case strings.HasPrefix(query, "DESCRIBE"):
			return describeResult([][]string{
				{"a", "BIGINT", "YES", "", "", ""},
				{"b", "DATE", "YES", "", "", ""},
			}), nil
		case strings.HasPrefix(query, "SELECT COUNT(*)"):
			return countResult("1"), nil
		}
		return duck.NewResult(nil, nil), nil
	}}

	results, err := NewFolderImporter(exec).ImportFolder(context.Background(), dir, "csv")
	if err != nil {
		t.Fatalf("ImportFolder: %v", err)
	}
	result := results[0]
	if !result.OK() {
		t.Fatalf("status = %q, want OK", result.Status)
	}
	if result.ColumnCount != 2 {
		t.Errorf("ColumnCount = %d, want 2", result.ColumnCount)
	}
	if result.RowCount != 1 {
		t.Errorf("RowCount = %d, want 1", result.RowCount)
	}
}

func TestImportFolderSkipAndContinue(t *testing.T) {
	dir := writeDataFile(t, "bad.csv", "x\n")
	writeFileInto(t, dir, "good.csv", "A\n1\n")

	exec := &fakeExec{respond: func(query string) (*duck.Result, error) {
		switch {
		case strings.Contains(query, "bad.csv") && strings.Contains(query, "LIMIT 0"):
			return nil, &strErr{"IO Error: permission denied"}
		case strings.Contains(query, "LIMIT 0"):
			return duck.NewResult([]string{"A"}, nil), nil
		case strings.HasPrefix(query, "DESCRIBE"):
			return duck.NewResult([]string{"column_name", "column_type"}, nil), nil
		case strings.HasPrefix(query, "SELECT COUNT(*)"):
			return countResult("1"), nil
		}
		return duck.NewResult(nil, nil), nil
	}}

	results, err := NewFolderImporter(exec).ImportFolder(context.Background(), dir, "csv")
	if err != nil {
		t.Fatalf("ImportFolder: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	// os.ReadDir yields names sorted, so bad.csv comes first.
	if results[0].OK() || !strings.Contains(results[0].Status, "permission denied") {
		t.Errorf("bad file status = %q", results[0].Status)
	}
	if !results[1].OK() {
		t.Errorf("good file status = %q, want OK", results[1].Status)
	}
}

func TestImportFolderTSVUsesTabDelimiter(t *testing.T) {
	dir := writeDataFile(t, "werte.tsv", "A\tB\n1\t2\n")

	exec := &fakeExec{respond: func(query string) (*duck.Result, error) {
		switch {
		case strings.Contains(query, "LIMIT 0"):
			return duck.NewResult([]string{"A", "B"}, nil), nil
		case strings.HasPrefix(query, "DESCRIBE"):
			return duck.NewResult([]string{"column_name", "column_type"}, nil), nil
		case strings.HasPrefix(query, "SELECT COUNT(*)"):
			return countResult("1"), nil
		}
		return duck.NewResult(nil, nil), nil
	}}

	if _, err := NewFolderImporter(exec).ImportFolder(context.Background(), dir, "tsv"); err != nil {
		t.Fatalf("ImportFolder: %v", err)
	}
	if !exec.executed("delim='\t'") {
		t.Error("tsv load must pass a tab delimiter")
	}
}

func TestMatchesExtension(t *testing.T) {
	if !matchesExtension("DATA.CSV", []string{".csv"}) {
		t.Error("extension matching must be case-insensitive")
	}
	if matchesExtension("data.csv.bak", []string{".csv"}) {
		t.Error("suffix match must respect the extension")
	}
}
