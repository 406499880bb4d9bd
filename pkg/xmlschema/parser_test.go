package xmlschema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/auditstream/gdpdu/pkg/core/schema"
)

const gdpduIndexXML = `<?xml version="1.0" encoding="UTF-8"?>
<DataSet>
  <Version>1.0</Version>
  <Media>
    <Name>CD 1</Name>
    <Table>
      <URL>Sachkonten.csv</URL>
      <Name>EU-Laender-/Regionscode</Name>
      <Description>Kontenplan</Description>
      <UTF8/>
      <Range>
        <From>3</From>
      </Range>
      <VariableLength>
        <VariablePrimaryKey>
          <Name>KontoNr</Name>
          <AlphaNumeric/>
          <MaxLength>10</MaxLength>
        </VariablePrimaryKey>
        <VariableColumn>
          <Name>Saldo</Name>
          <Numeric>
            <Accuracy>2</Accuracy>
          </Numeric>
        </VariableColumn>
        <VariableColumn>
          <Name>Buchungsdatum</Name>
          <Date/>
        </VariableColumn>
        <VariableColumn>
          <Name>Beschreibung</Name>
          <AlphaNumeric/>
        </VariableColumn>
      </VariableLength>
    </Table>
    <Table>
      <URL>Leer.csv</URL>
      <Name>Leer</Name>
      <VariableLength>
        <VariableColumn>
          <Name>Spalte</Name>
        </VariableColumn>
      </VariableLength>
    </Table>
  </Media>
</DataSet>
`

func writeIndex(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return dir
}

func TestGdpduParserParse(t *testing.T) {
	dir := writeIndex(t, "index.xml", gdpduIndexXML)

	parser, err := Get("gdpdu")
	if err != nil {
		t.Fatalf("Get(gdpdu): %v", err)
	}

	result, err := parser.Parse(dir, Config{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if result.MediaName != "CD 1" {
		t.Errorf("MediaName = %q, want %q", result.MediaName, "CD 1")
	}
	if len(result.Tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(result.Tables))
	}

	table := result.Tables[0]
	if table.Name != "eu_laender_regionscode" {
		t.Errorf("table name = %q, want eu_laender_regionscode", table.Name)
	}
	if table.URL != "Sachkonten.csv" {
		t.Errorf("URL = %q", table.URL)
	}
	if table.Description != "Kontenplan" {
		t.Errorf("Description = %q", table.Description)
	}
	if !table.IsUTF8 {
		t.Error("IsUTF8 = false, want true")
	}
	if table.SkipLines != 2 {
		t.Errorf("SkipLines = %d, want 2", table.SkipLines)
	}
	if table.DecimalSymbol != ',' || table.DigitGrouping != '.' {
		t.Errorf("locale symbols = %q %q, want , and .",
			table.DecimalSymbol, table.DigitGrouping)
	}

	if len(table.Columns) != 4 {
		t.Fatalf("got %d columns, want 4", len(table.Columns))
	}

	// Primary keys come first, then regular columns in document order.
	wantCols := []struct {
		name      string
		colType   schema.ColumnType
		precision int
		maxLength int
		pk        bool
	}{
		{"konto_nr", schema.TypeAlphaNumeric, 0, 10, true},
		{"saldo", schema.TypeNumeric, 2, 0, false},
		{"buchungsdatum", schema.TypeDate, 0, 0, false},
		{"beschreibung", schema.TypeAlphaNumeric, 0, 0, false},
	}
	for i, want := range wantCols {
		got := table.Columns[i]
		if got.Name != want.name {
			t.Errorf("column %d name = %q, want %q", i, got.Name, want.name)
		}
		if got.Type != want.colType {
			t.Errorf("column %q type = %q, want %q", want.name, got.Type, want.colType)
		}
		if got.Precision != want.precision {
			t.Errorf("column %q precision = %d, want %d", want.name, got.Precision, want.precision)
		}
		if got.MaxLength != want.maxLength {
			t.Errorf("column %q max length = %d, want %d", want.name, got.MaxLength, want.maxLength)
		}
		if got.IsPrimaryKey != want.pk {
			t.Errorf("column %q primary key = %v, want %v", want.name, got.IsPrimaryKey, want.pk)
		}
	}

	if len(table.PrimaryKeyColumns) != 1 || table.PrimaryKeyColumns[0] != "konto_nr" {
		t.Errorf("PrimaryKeyColumns = %v, want [konto_nr]", table.PrimaryKeyColumns)
	}

	// A column without any type marker defaults to AlphaNumeric.
	if got := result.Tables[1].Columns[0].Type; got != schema.TypeAlphaNumeric {
		t.Errorf("untyped column type = %q, want AlphaNumeric", got)
	}
}

func TestGdpduParserMissingRootPath(t *testing.T) {
	dir := writeIndex(t, "index.xml", `<Wrong><Media/></Wrong>`)

	parser := &GdpduParser{}
	if _, err := parser.Parse(dir, Config{}); err == nil {
		t.Fatal("expected error for wrong root element")
	}

	dir = writeIndex(t, "index.xml", `<DataSet><Version>1.0</Version></DataSet>`)
	if _, err := parser.Parse(dir, Config{}); err == nil {
		t.Fatal("expected error for missing Media element")
	}
}

func TestGdpduParserMissingFile(t *testing.T) {
	parser := &GdpduParser{}
	if _, err := parser.Parse(t.TempDir(), Config{}); err == nil {
		t.Fatal("expected error for absent index.xml")
	}
}

func TestGenericParserCustomMapping(t *testing.T) {
	const customXML = `<?xml version="1.0"?>
<Export>
  <Dataset>
    <Entity>
      <Title>Belege 2024</Title>
      <File>belege.csv</File>
      <Field>
        <Id>BelegNr</Id>
        <Kind>text</Kind>
      </Field>
      <Field>
        <Id>Betrag</Id>
        <Kind>number</Kind>
        <Scale>2</Scale>
      </Field>
    </Entity>
  </Dataset>
</Export>
`
	dir := writeIndex(t, "export.xml", customXML)

	cfg := Config{
		IndexFile:     "export.xml",
		RootPath:      "Export/Dataset",
		TableElement:  "Entity",
		ColumnElement: "Field",
		Table: TableMapping{
			NameField: "Title",
			URLField:  "File",
		},
		Column: ColumnMapping{
			NameField:      "Id",
			TypeField:      "Kind",
			PrecisionField: "Scale",
		},
		TypeMap: map[string]string{
			"text":   "AlphaNumeric",
			"number": "Numeric",
		},
	}

	parser := &GenericParser{}
	result, err := parser.Parse(dir, cfg)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(result.Tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(result.Tables))
	}
	table := result.Tables[0]
	if table.Name != "belege_2024" {
		t.Errorf("table name = %q, want belege_2024", table.Name)
	}
	if table.URL != "belege.csv" {
		t.Errorf("URL = %q", table.URL)
	}
	if len(table.Columns) != 2 {
		t.Fatalf("got %d columns, want 2", len(table.Columns))
	}
	if table.Columns[0].Type != schema.TypeAlphaNumeric {
		t.Errorf("column 0 type = %q", table.Columns[0].Type)
	}
	if table.Columns[1].Type != schema.TypeNumeric || table.Columns[1].Precision != 2 {
		t.Errorf("column 1 = %+v, want Numeric precision 2", table.Columns[1])
	}
}

func TestGenericParserNameFieldFallback(t *testing.T) {
	const fallbackXML = `<DataSet><Media>
  <Table>
    <Name>Konten</Name>
    <URL>konten.csv</URL>
    <VariableLength>
      <VariableColumn>
        <Name>Nummer</Name>
        <AlphaNumeric/>
      </VariableColumn>
    </VariableLength>
  </Table>
</Media></DataSet>`
	dir := writeIndex(t, "index.xml", fallbackXML)

	cfg := DefaultGdpduConfig()
	cfg.Column.NameField = "Bezeichner"

	parser := &GenericParser{}
	result, err := parser.Parse(dir, cfg)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := result.Tables[0].Columns[0].Name; got != "nummer" {
		t.Errorf("column name = %q, want fallback to Name element", got)
	}
}

func TestGenericParserLocaleOverrides(t *testing.T) {
	const localeXML = `<DataSet><Media>
  <Table>
    <Name>Werte</Name>
    <URL>werte.csv</URL>
    <DecimalSymbol>.</DecimalSymbol>
    <DigitGroupingSymbol>,</DigitGroupingSymbol>
    <VariableLength>
      <VariableColumn><Name>Wert</Name><Numeric/></VariableColumn>
    </VariableLength>
  </Table>
</Media></DataSet>`
	dir := writeIndex(t, "index.xml", localeXML)

	parser := &GdpduParser{}
	result, err := parser.Parse(dir, Config{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	table := result.Tables[0]
	if table.DecimalSymbol != '.' || table.DigitGrouping != ',' {
		t.Errorf("locale symbols = %q %q, want . and ,",
			table.DecimalSymbol, table.DigitGrouping)
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"gdpdu", "generic"} {
		parser, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%q): %v", name, err)
		}
		if parser.ParserType() != name {
			t.Errorf("ParserType() = %q, want %q", parser.ParserType(), name)
		}
	}

	if _, err := Get("nope"); err == nil {
		t.Fatal("expected error for unknown parser type")
	}

	available := Available()
	if len(available) < 2 {
		t.Fatalf("Available() = %v, want at least gdpdu and generic", available)
	}
}
