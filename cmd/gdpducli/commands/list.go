package commands

import (
	"context"
	"fmt"

	"github.com/auditstream/gdpdu/pkg/duck"
	"github.com/auditstream/gdpdu/pkg/xmlschema"
)

// ListTables prints every table in the database.
func ListTables(ctx context.Context, exec duck.Executor) error {
	result, err := exec.Execute(ctx, "SHOW TABLES")
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}

	if result.RowCount() == 0 {
		fmt.Println("No tables found.")
		return nil
	}

	fmt.Printf("Tables (%d):\n", result.RowCount())
	for i := 0; i < result.RowCount(); i++ {
		fmt.Printf("  %s\n", result.Value(i, 0))
	}
	return nil
}

// ListParsers prints the registered descriptor parser strategies.
func ListParsers() {
	fmt.Println("Registered parser strategies:")
	for _, name := range xmlschema.Available() {
		fmt.Printf("  %s\n", name)
	}
}
