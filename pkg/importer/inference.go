package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/auditstream/gdpdu/pkg/duck"
)

// narrowingStep - one candidate narrowing for a text column. CheckExpr must
// be NULL exactly when a value does not convert; AlterExpr performs the
// conversion during the type change.
type narrowingStep struct {
	targetType string
	checkExpr  func(ident string) string
	alterExpr  func(ident string) string
}

// deGermanized rewrites a German-formatted number into cast-friendly text:
// grouping dots removed, decimal comma turned into a dot.
func deGermanized(ident string) string {
	return fmt.Sprintf("REPLACE(REPLACE(%s, '.', ''), ',', '.')", ident)
}

// narrowingSteps is the strict priority order of folder-mode inference:
// integer, then German decimal, then German date, then ISO date. Only the
// first universally-castable step is applied; anything else stays text.
var narrowingSteps = []narrowingStep{
	{
		targetType: "BIGINT",
		checkExpr: func(ident string) string {
			return fmt.Sprintf("TRY_CAST(%s AS BIGINT)", ident)
		},
		alterExpr: func(ident string) string {
			return fmt.Sprintf("TRY_CAST(%s AS BIGINT)", ident)
		},
	},
	{
		targetType: "DOUBLE",
		checkExpr: func(ident string) string {
			return fmt.Sprintf("TRY_CAST(%s AS DOUBLE)", deGermanized(ident))
		},
		alterExpr: func(ident string) string {
			return fmt.Sprintf("TRY_CAST(%s AS DOUBLE)", deGermanized(ident))
		},
	},
	{
		targetType: "DATE",
		checkExpr: func(ident string) string {
			return fmt.Sprintf("try_strptime(%s, '%%d.%%m.%%Y')", ident)
		},
		alterExpr: func(ident string) string {
			return fmt.Sprintf("CAST(try_strptime(%s, '%%d.%%m.%%Y') AS DATE)", ident)
		},
	},
	{
		targetType: "DATE",
		checkExpr: func(ident string) string {
			return fmt.Sprintf("TRY_CAST(%s AS DATE)", ident)
		},
		alterExpr: func(ident string) string {
			return fmt.Sprintf("TRY_CAST(%s AS DATE)", ident)
		},
	},
}

// InferColumnTypes narrows every text column of tableName in place. A step
// fires only when the column has at least one non-null, non-empty value and
// zero such values fail its conversion; a
// failure of the actual ALTER is swallowed and the column stays text, since
// the check and the cast may disagree on edge cases such as overflow.
func InferColumnTypes(ctx context.Context, exec duck.Executor, tableName string) {
	described, err := exec.Execute(ctx, "DESCRIBE "+duck.QuoteIdent(tableName))
	if err != nil {
		return
	}

	for i := 0; i < described.RowCount(); i++ {
		columnName := described.Value(i, 0)
		columnType := described.Value(i, 1)
		if !strings.Contains(strings.ToUpper(columnType), "VARCHAR") {
			continue
		}
		narrowColumn(ctx, exec, tableName, columnName)
	}
}

func narrowColumn(ctx context.Context, exec duck.Executor, tableName, columnName string) {
	table := duck.QuoteIdent(tableName)
	ident := duck.QuoteIdent(columnName)

	// A column without a single usable value passes every conversion check
	// vacuously. It stays text.
	nonNull, err := exec.Execute(ctx, fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE %s IS NOT NULL AND TRIM(%s) <> ''",
		table, ident, ident))
	if err != nil || nonNull.RowCount() == 0 || nonNull.Value(0, 0) == "0" {
		return
	}

	for _, step := range narrowingSteps {
		query := fmt.Sprintf(
			"SELECT COUNT(*) FROM %s WHERE %s IS NOT NULL AND TRIM(%s) <> '' AND %s IS NULL",
			table, ident, ident, step.checkExpr(ident))

		result, err := exec.Execute(ctx, query)
		if err != nil || result.RowCount() == 0 {
			return
		}
		if result.Value(0, 0) != "0" {
			continue
		}

		alter := fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s USING %s",
			table, ident, step.targetType, step.alterExpr(ident))
		_, _ = exec.Execute(ctx, alter)
		return
	}
}
