package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/beevik/etree"

	"github.com/auditstream/gdpdu/pkg/core/naming"
	"github.com/auditstream/gdpdu/pkg/core/schema"
)

// writeDescriptor adds (or replaces) the table's entry in the destination
// directory's shared index.xml. The descriptor mirrors the layout the import
// parser reads, so an exported bundle round-trips.
func writeDescriptor(destDir, tableName, dataFile string, columns []schema.ColumnDef) error {
	indexPath := filepath.Join(destDir, "index.xml")

	doc := etree.NewDocument()
	if _, err := os.Stat(indexPath); err == nil {
		if err := doc.ReadFromFile(indexPath); err != nil {
			return fmt.Errorf("existing descriptor unreadable: %w", err)
		}
	}

	dataSet := doc.SelectElement("DataSet")
	if dataSet == nil {
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
		dataSet = doc.CreateElement("DataSet")
		dataSet.CreateElement("Version").SetText("1.0")
	}
	media := dataSet.SelectElement("Media")
	if media == nil {
		media = dataSet.CreateElement("Media")
		media.CreateElement("Name").SetText("Export")
	}

	// Re-exporting a table replaces its previous entry.
	for _, existing := range media.SelectElements("Table") {
		if url := existing.SelectElement("URL"); url != nil && url.Text() == dataFile {
			media.RemoveChild(existing)
		}
	}

	table := media.CreateElement("Table")
	table.CreateElement("URL").SetText(dataFile)
	table.CreateElement("Name").SetText(naming.Pascal(tableName))
	table.CreateElement("Description").SetText(tableName)
	table.CreateElement("UTF8")
	table.CreateElement("DecimalSymbol").SetText(",")
	table.CreateElement("DigitGroupingSymbol").SetText(".")

	variableLength := table.CreateElement("VariableLength")
	for _, col := range columns {
		columnNode := variableLength.CreateElement("VariableColumn")
		columnNode.CreateElement("Name").SetText(naming.Pascal(col.Name))
		switch col.Type {
		case schema.TypeNumeric:
			numeric := columnNode.CreateElement("Numeric")
			if col.Precision > 0 {
				numeric.CreateElement("Accuracy").SetText(strconv.Itoa(col.Precision))
			}
		case schema.TypeDate:
			columnNode.CreateElement("Date")
		default:
			columnNode.CreateElement("AlphaNumeric")
		}
	}

	doc.Indent(2)
	return doc.WriteToFile(indexPath)
}
