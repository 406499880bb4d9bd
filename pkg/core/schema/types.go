// Package schema holds the in-memory model of a GDPdU dataset: tables,
// columns, their abstract type tags and locale symbols, plus the mapping
// from type tags to DuckDB column types.
package schema

// ColumnType - abstract type tag of a descriptor column
type ColumnType string

// Type tags as they appear in index.xml
const (
	TypeAlphaNumeric ColumnType = "AlphaNumeric"
	TypeNumeric      ColumnType = "Numeric"
	TypeDate         ColumnType = "Date"
)

// German locale defaults used when the descriptor does not declare symbols.
const (
	DefaultDecimalSymbol = ','
	DefaultDigitGrouping = '.'
)

// MaxTotalPrecision is DuckDB's widest DECIMAL precision.
const MaxTotalPrecision = 38

// DefaultTotalPrecision is used for DECIMAL columns whose descriptor does not
// declare a maximum length.
const DefaultTotalPrecision = 18

// ColumnDef - one logical column of a descriptor table
type ColumnDef struct {
	// Name - normalized identifier (lowercase underscore form)
	Name string

	// Type - AlphaNumeric, Numeric or Date
	Type ColumnType

	// Precision - decimal scale for Numeric columns; 0 means integer
	Precision int

	// MaxLength - declared maximum length, 0 if absent. For Numeric columns
	// it sizes the total digit count of the DECIMAL type.
	MaxLength int

	// IsPrimaryKey - true when the column came from a primary-key element
	IsPrimaryKey bool
}

// TableDef - one logical table of a descriptor
type TableDef struct {
	// Name - normalized table identifier
	Name string

	// URL - relative path of the data file inside the export directory
	URL string

	// Description - free-text description from the descriptor
	Description string

	// IsUTF8 - declared source encoding hint (UTF8 marker element present)
	IsUTF8 bool

	// DecimalSymbol / DigitGrouping - locale symbols of the data file
	DecimalSymbol byte
	DigitGrouping byte

	// SkipLines - leading data file rows to discard (Range/From minus one)
	SkipLines int

	// Columns - primary-key columns first, each group in document order
	Columns []ColumnDef

	// PrimaryKeyColumns - names of the primary-key columns, document order
	PrimaryKeyColumns []string
}

// Schema - the parsed descriptor of one export directory. Built once per
// import call and discarded afterwards; never persisted.
type Schema struct {
	// MediaName - from the descriptor's Media/Name element
	MediaName string

	Tables []TableDef
}

// NewTableDef returns a TableDef with German locale defaults applied.
func NewTableDef() TableDef {
	return TableDef{
		DecimalSymbol: DefaultDecimalSymbol,
		DigitGrouping: DefaultDigitGrouping,
	}
}

// IsNumeric reports whether the column holds numeric data.
func (c *ColumnDef) IsNumeric() bool {
	return c.Type == TypeNumeric
}

// IsInteger reports whether the column is a whole-number Numeric column.
func (c *ColumnDef) IsInteger() bool {
	return c.Type == TypeNumeric && c.Precision == 0
}

// IsDate reports whether the column holds calendar dates.
func (c *ColumnDef) IsDate() bool {
	return c.Type == TypeDate
}

// ColumnNames returns the column names in destination order.
func (t *TableDef) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}
