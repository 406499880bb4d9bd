// Package xmlschema parses machine-readable descriptors (GDPdU index.xml and
// configurably-mapped XML dialects) into the schema model. Parsers are
// selected by name from a process-wide registry populated at startup.
package xmlschema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TableMapping - element names carrying table metadata
type TableMapping struct {
	NameField        string `yaml:"name_field"`
	URLField         string `yaml:"url_field"`
	DescriptionField string `yaml:"description_field"`
}

// ColumnMapping - element names carrying column metadata
type ColumnMapping struct {
	// NameField - element holding the column name. When the configured
	// element is empty in the document and is not "Name" itself, the parser
	// falls back to "Name".
	NameField string `yaml:"name_field"`

	// TypeField / PrecisionField - consulted only when the column carries
	// none of the well-known type marker elements (AlphaNumeric, Numeric, Date)
	TypeField      string `yaml:"type_field"`
	PrecisionField string `yaml:"precision_field"`

	// MaxLengthField - element holding the declared maximum length
	MaxLengthField string `yaml:"max_length_field"`
}

// Config describes where a parser finds tables and columns inside a
// descriptor document, and the locale/delimiter discipline of the data files
// it points to. The zero value is completed by ApplyDefaults.
type Config struct {
	// ParserType - registry name of the strategy ("gdpdu", "generic")
	ParserType string `yaml:"parser_type"`

	// IndexFile - descriptor file name inside the import directory
	IndexFile string `yaml:"index_file"`

	// RootPath - slash-separated element path from the document root down to
	// the element whose children are tables, e.g. "DataSet/Media". Empty
	// means the document root element itself.
	RootPath string `yaml:"root_path"`

	// TableElement - element name of one table declaration
	TableElement string `yaml:"table_element"`

	// ColumnContainer - optional element between the table and its columns
	// (GDPdU nests columns under "VariableLength"); empty means columns sit
	// directly under the table element
	ColumnContainer string `yaml:"column_container"`

	// ColumnElement / PrimaryKeyElement - element names of regular and
	// primary-key column declarations
	ColumnElement     string `yaml:"column_element"`
	PrimaryKeyElement string `yaml:"primary_key_element"`

	Table  TableMapping  `yaml:"table"`
	Column ColumnMapping `yaml:"column"`

	// Delimiter - field separator of the referenced data files
	Delimiter string `yaml:"delimiter"`

	// HasHeader - whether data files start with a header row
	HasHeader bool `yaml:"has_header"`

	// DecimalSymbol / DigitGrouping - locale defaults applied when a table
	// declares no symbols of its own
	DecimalSymbol string `yaml:"decimal_symbol"`
	DigitGrouping string `yaml:"digit_grouping"`

	// TypeMap - custom mapping from descriptor type tags to GDPdU type tags,
	// consulted before the built-in tag aliases
	TypeMap map[string]string `yaml:"type_map"`
}

// ApplyDefaults fills unset fields with the GDPdU-flavored defaults shared by
// both parser strategies.
func (c *Config) ApplyDefaults() {
	if c.IndexFile == "" {
		c.IndexFile = "index.xml"
	}
	if c.TableElement == "" {
		c.TableElement = "Table"
	}
	if c.ColumnElement == "" {
		c.ColumnElement = "VariableColumn"
	}
	if c.PrimaryKeyElement == "" {
		c.PrimaryKeyElement = "VariablePrimaryKey"
	}
	if c.Table.NameField == "" {
		c.Table.NameField = "Name"
	}
	if c.Table.URLField == "" {
		c.Table.URLField = "URL"
	}
	if c.Table.DescriptionField == "" {
		c.Table.DescriptionField = "Description"
	}
	if c.Column.NameField == "" {
		c.Column.NameField = "Name"
	}
	if c.Column.MaxLengthField == "" {
		c.Column.MaxLengthField = "MaxLength"
	}
	if c.Delimiter == "" {
		c.Delimiter = ";"
	}
	if c.DecimalSymbol == "" {
		c.DecimalSymbol = ","
	}
	if c.DigitGrouping == "" {
		c.DigitGrouping = "."
	}
}

// DefaultGdpduConfig returns the configuration that binds the generic engine
// to the fixed GDPdU descriptor layout.
func DefaultGdpduConfig() Config {
	cfg := Config{
		ParserType:      "gdpdu",
		RootPath:        "DataSet/Media",
		ColumnContainer: "VariableLength",
	}
	cfg.ApplyDefaults()
	return cfg
}

// LoadConfig reads a parser configuration from a YAML file.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read parser config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse parser config: %w", err)
	}

	cfg.ApplyDefaults()
	return cfg, nil
}
