package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// DuckDBType maps a column definition to the destination column type.
//
//	AlphaNumeric            -> VARCHAR
//	Numeric, precision == 0 -> BIGINT
//	Numeric, precision  > 0 -> DECIMAL(total, precision)
//	Date                    -> DATE
//
// Total DECIMAL digits come from the declared MaxLength when present,
// otherwise 18, floored at precision+1 and clamped to DuckDB's maximum of 38.
// An unknown type tag falls open to VARCHAR; a column is never rejected for
// its type.
func (c *ColumnDef) DuckDBType() string {
	switch c.Type {
	case TypeAlphaNumeric:
		return "VARCHAR"
	case TypeNumeric:
		if c.Precision > 0 {
			return fmt.Sprintf("DECIMAL(%d,%d)", c.totalDigits(), c.Precision)
		}
		return "BIGINT"
	case TypeDate:
		return "DATE"
	default:
		return "VARCHAR"
	}
}

func (c *ColumnDef) totalDigits() int {
	total := DefaultTotalPrecision
	if c.MaxLength > 0 {
		total = c.MaxLength
	}
	if total < c.Precision+1 {
		total = c.Precision + 1
	}
	if total > MaxTotalPrecision {
		total = MaxTotalPrecision
	}
	return total
}

// ParseTypeTag maps a descriptor type string to a ColumnType. Unknown or
// empty tags default to AlphaNumeric. Besides the canonical GDPdU tags a few
// common aliases used by non-GDPdU XML dialects are accepted.
func ParseTypeTag(tag string) ColumnType {
	switch tag {
	case "AlphaNumeric", "VARCHAR", "STRING", "TEXT":
		return TypeAlphaNumeric
	case "Numeric", "NUMBER", "INTEGER", "DECIMAL":
		return TypeNumeric
	case "Date", "DATE":
		return TypeDate
	default:
		return TypeAlphaNumeric
	}
}

// ClassifyDuckDBType reverse-maps a destination type string (as reported by
// DESCRIBE) to a GDPdU type tag and decimal scale. Text-like types become
// AlphaNumeric, integer and decimal types Numeric, date types Date. Unscaled
// floating types get a default scale of 2; this is a heuristic, callers
// exporting such columns lose digits beyond two decimal places.
func ClassifyDuckDBType(duckType string) (ColumnType, int) {
	upper := strings.ToUpper(duckType)

	switch {
	case strings.Contains(upper, "VARCHAR"), strings.Contains(upper, "TEXT"), strings.Contains(upper, "CHAR"):
		return TypeAlphaNumeric, 0
	case strings.Contains(upper, "DATE"):
		return TypeDate, 0
	case strings.Contains(upper, "DECIMAL"), strings.Contains(upper, "NUMERIC"):
		return TypeNumeric, decimalScale(upper)
	case strings.Contains(upper, "BIGINT"), strings.Contains(upper, "INT"):
		return TypeNumeric, 0
	case strings.Contains(upper, "DOUBLE"), strings.Contains(upper, "FLOAT"), strings.Contains(upper, "REAL"):
		return TypeNumeric, 2
	default:
		return TypeAlphaNumeric, 0
	}
}

// decimalScale extracts the scale from a "DECIMAL(p,s)" type string,
// defaulting to 2 when the string carries no parameter list.
func decimalScale(duckType string) int {
	open := strings.IndexByte(duckType, '(')
	if open < 0 {
		return 2
	}
	comma := strings.IndexByte(duckType[open:], ',')
	if comma < 0 {
		return 2
	}
	rest := duckType[open+comma+1:]
	closeIdx := strings.IndexByte(rest, ')')
	if closeIdx < 0 {
		return 2
	}
	scale, err := strconv.Atoi(strings.TrimSpace(rest[:closeIdx]))
	if err != nil {
		return 2
	}
	return scale
}
