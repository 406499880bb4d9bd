package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/auditstream/gdpdu/pkg/core/schema"
	"github.com/auditstream/gdpdu/pkg/duck"
)

// cleanColumn strips control characters and surrounding whitespace from one
// text column. Best-effort: failures are swallowed, the already-imported data
// stands.
func cleanColumn(ctx context.Context, exec duck.Executor, tableName, columnName string) {
	ident := duck.QuoteIdent(columnName)
	query := fmt.Sprintf(
		`UPDATE %s SET %s = TRIM(REGEXP_REPLACE(%s, '[\x00-\x1F\x7F-\x9F]', '', 'g')) WHERE %s IS NOT NULL`,
		duck.QuoteIdent(tableName), ident, ident, ident)
	_, _ = exec.Execute(ctx, query)
}

// cleanupText cleans every declared text column of a freshly loaded table.
func (l *Loader) cleanupText(ctx context.Context, table *schema.TableDef) {
	for _, col := range table.Columns {
		if col.Type != schema.TypeAlphaNumeric {
			continue
		}
		cleanColumn(ctx, l.exec, table.Name, col.Name)
	}
}

// cleanTextColumns cleans every text column found by introspection. Folder
// mode has no declared schema, so the columns come from DESCRIBE.
func cleanTextColumns(ctx context.Context, exec duck.Executor, tableName string) {
	described, err := exec.Execute(ctx, "DESCRIBE "+duck.QuoteIdent(tableName))
	if err != nil {
		return
	}
	for i := 0; i < described.RowCount(); i++ {
		if !strings.Contains(strings.ToUpper(described.Value(i, 1)), "VARCHAR") {
			continue
		}
		cleanColumn(ctx, exec, tableName, described.Value(i, 0))
	}
}
