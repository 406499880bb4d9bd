package xmlschema

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/auditstream/gdpdu/pkg/core/naming"
	"github.com/auditstream/gdpdu/pkg/core/schema"
)

// GenericParser parses any XML descriptor whose element names are supplied
// through a Config. The fixed-format GDPdU parser is this engine preconfigured
// with the GDPdU element names.
type GenericParser struct{}

func init() {
	Register("generic", func() Parser { return &GenericParser{} })
}

// ParserType returns the registry name of this strategy.
func (p *GenericParser) ParserType() string { return "generic" }

// Parse reads cfg.IndexFile from directoryPath and builds the schema.
func (p *GenericParser) Parse(directoryPath string, cfg Config) (*schema.Schema, error) {
	cfg.ApplyDefaults()

	indexPath := filepath.Join(directoryPath, cfg.IndexFile)

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(indexPath); err != nil {
		return nil, fmt.Errorf("failed to parse %s at %q: %w", cfg.IndexFile, indexPath, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("invalid descriptor: %s has no root element", cfg.IndexFile)
	}

	if cfg.RootPath != "" {
		segments := strings.Split(cfg.RootPath, "/")
		for i, segment := range segments {
			if segment == "" {
				continue
			}
			if i == 0 {
				if root.Tag != segment {
					return nil, fmt.Errorf("invalid descriptor: missing element %q in path %q",
						segment, cfg.RootPath)
				}
				continue
			}
			root = root.SelectElement(segment)
			if root == nil {
				return nil, fmt.Errorf("invalid descriptor: missing element %q in path %q",
					segment, cfg.RootPath)
			}
		}
	}

	result := &schema.Schema{}
	if name := root.SelectElement("Name"); name != nil {
		result.MediaName = strings.TrimSpace(name.Text())
	}

	for _, tableNode := range root.SelectElements(cfg.TableElement) {
		result.Tables = append(result.Tables, p.parseTable(tableNode, cfg))
	}

	return result, nil
}

func (p *GenericParser) parseTable(node *etree.Element, cfg Config) schema.TableDef {
	table := schema.NewTableDef()
	table.Name = naming.Normalize(childText(node, cfg.Table.NameField))
	table.URL = childText(node, cfg.Table.URLField)
	table.Description = childText(node, cfg.Table.DescriptionField)
	table.IsUTF8 = node.SelectElement("UTF8") != nil

	if cfg.DecimalSymbol != "" {
		table.DecimalSymbol = cfg.DecimalSymbol[0]
	}
	if cfg.DigitGrouping != "" {
		table.DigitGrouping = cfg.DigitGrouping[0]
	}
	if symbol := childText(node, "DecimalSymbol"); symbol != "" {
		table.DecimalSymbol = symbol[0]
	}
	if symbol := childText(node, "DigitGroupingSymbol"); symbol != "" {
		table.DigitGrouping = symbol[0]
	}

	// Range/From is 1-based; From=3 means the first two lines are skipped.
	if rangeNode := node.SelectElement("Range"); rangeNode != nil {
		if from := parseInt(childText(rangeNode, "From")); from > 1 {
			table.SkipLines = from - 1
		}
	}

	columnParent := node
	if cfg.ColumnContainer != "" {
		columnParent = node.SelectElement(cfg.ColumnContainer)
		if columnParent == nil {
			// Table declares no columns. Kept as-is; the loader reports it.
			return table
		}
	}

	// Primary-key columns first, then regular columns, each group in
	// document order. This ordering is part of the data contract: it fixes
	// the destination column order.
	for _, pkNode := range columnParent.SelectElements(cfg.PrimaryKeyElement) {
		col := p.parseColumn(pkNode, cfg, true)
		table.Columns = append(table.Columns, col)
		table.PrimaryKeyColumns = append(table.PrimaryKeyColumns, col.Name)
	}
	for _, colNode := range columnParent.SelectElements(cfg.ColumnElement) {
		table.Columns = append(table.Columns, p.parseColumn(colNode, cfg, false))
	}

	return table
}

func (p *GenericParser) parseColumn(node *etree.Element, cfg Config, isPrimaryKey bool) schema.ColumnDef {
	col := schema.ColumnDef{IsPrimaryKey: isPrimaryKey, Type: schema.TypeAlphaNumeric}

	rawName := childText(node, cfg.Column.NameField)
	if rawName == "" && cfg.Column.NameField != "Name" {
		rawName = childText(node, "Name")
	}
	col.Name = naming.Normalize(rawName)

	var marker *etree.Element
	switch {
	case node.SelectElement("AlphaNumeric") != nil:
		marker = node.SelectElement("AlphaNumeric")
		col.Type = schema.TypeAlphaNumeric
	case node.SelectElement("Numeric") != nil:
		marker = node.SelectElement("Numeric")
		col.Type = schema.TypeNumeric
		col.Precision = parseInt(childText(marker, "Accuracy"))
	case node.SelectElement("Date") != nil:
		marker = node.SelectElement("Date")
		col.Type = schema.TypeDate
	default:
		// No well-known marker: consult the configured type field, the
		// custom type map, then fall open to AlphaNumeric.
		tag := childText(node, cfg.Column.TypeField)
		if mapped, ok := cfg.TypeMap[tag]; ok {
			tag = mapped
		}
		col.Type = schema.ParseTypeTag(tag)
		if col.Type == schema.TypeNumeric {
			col.Precision = parseInt(childText(node, cfg.Column.PrecisionField))
		}
	}

	if length := parseInt(childText(node, cfg.Column.MaxLengthField)); length > 0 {
		col.MaxLength = length
	} else if marker != nil {
		// Some exports nest MaxLength under the type marker element.
		col.MaxLength = parseInt(childText(marker, cfg.Column.MaxLengthField))
	}

	if col.Precision < 0 {
		col.Precision = 0
	}

	return col
}

// childText returns the trimmed text of the named child element, or "" when
// the field name is empty or the element is absent.
func childText(node *etree.Element, field string) string {
	if field == "" {
		return ""
	}
	child := node.SelectElement(field)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

func parseInt(text string) int {
	if text == "" {
		return 0
	}
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return value
}
