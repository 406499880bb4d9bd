package duck

import "strings"

// EscapeString doubles single quotes for interpolation into a SQL string
// literal. Together with QuoteIdent this is the pipeline's only defense
// against injection from filenames and column names; every identifier and
// path placed into generated SQL must pass through one of the two.
func EscapeString(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}

// QuoteIdent wraps an identifier in double quotes, doubling any embedded
// quote characters. Handles names with special characters like "VAT%".
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// StringLiteral wraps a value in single quotes after escaping.
func StringLiteral(value string) string {
	return "'" + EscapeString(value) + "'"
}
