package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/auditstream/gdpdu/pkg/duck"
	"github.com/auditstream/gdpdu/pkg/xmlschema"
)

const importIndexXML = `<?xml version="1.0" encoding="UTF-8"?>
<DataSet>
  <Media>
    <Name>CD 1</Name>
    <Table>
      <Name>Konten</Name>
      <URL>konten.csv</URL>
      <VariableLength>
        <VariablePrimaryKey><Name>KontoNr</Name><AlphaNumeric/></VariablePrimaryKey>
        <VariableColumn><Name>Saldo</Name><Numeric><Accuracy>2</Accuracy></Numeric></VariableColumn>
      </VariableLength>
    </Table>
    <Table>
      <Name>Fehlt</Name>
      <URL>fehlt.csv</URL>
      <VariableLength>
        <VariableColumn><Name>Spalte</Name><AlphaNumeric/></VariableColumn>
      </VariableLength>
    </Table>
  </Media>
</DataSet>
`

func TestImportDirectory(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"index.xml":  importIndexXML,
		"konten.csv": "100;1.234,50\n200;0,99\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	exec := &fakeExec{respond: func(query string) (*duck.Result, error) {
		if strings.HasPrefix(query, "SELECT COUNT(*)") {
			return countResult("2"), nil
		}
		return duck.NewResult(nil, nil), nil
	}}

	results, err := New(exec).ImportDirectory(context.Background(), dir, xmlschema.Config{})
	if err != nil {
		t.Fatalf("ImportDirectory: %v", err)
	}

	// One result record per declared table, in schema order.
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].TableName != "konten" || !results[0].OK() {
		t.Errorf("konten result = %+v", results[0])
	}
	if results[0].RowCount != 2 || results[0].ColumnCount != 2 {
		t.Errorf("konten rows/columns = %d/%d, want 2/2", results[0].RowCount, results[0].ColumnCount)
	}

	// The second table has no data file: captured in its record, batch went on.
	if results[1].TableName != "fehlt" || results[1].OK() {
		t.Errorf("fehlt result = %+v", results[1])
	}
}

func TestImportDirectorySchemaFailureIsFatal(t *testing.T) {
	exec := &fakeExec{}
	_, err := New(exec).ImportDirectory(context.Background(), t.TempDir(), xmlschema.Config{})
	if err == nil {
		t.Fatal("expected error for missing descriptor")
	}
	if len(exec.queries) != 0 {
		t.Error("no table may be touched when schema parsing fails")
	}
}

func TestImportDirectoryUnknownParser(t *testing.T) {
	_, err := New(&fakeExec{}).ImportDirectory(context.Background(), t.TempDir(),
		xmlschema.Config{ParserType: "unknown"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("err = %v, want parser-not-found", err)
	}
}
