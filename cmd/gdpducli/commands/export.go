package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/auditstream/gdpdu/pkg/audit"
	"github.com/auditstream/gdpdu/pkg/duck"
	"github.com/auditstream/gdpdu/pkg/exporter"
)

// ExportOptions holds options for the GDPdU export
type ExportOptions struct {
	TableName string
	OutDir    string
}

// ExportTable exports a table as a GDPdU bundle
func ExportTable(ctx context.Context, exec duck.Executor, trail *audit.Trail, opts ExportOptions) error {
	fmt.Printf("Exporting table '%s' to '%s'...\n", opts.TableName, opts.OutDir)
	start := time.Now()

	result := exporter.New(exec).Export(ctx, opts.TableName, opts.OutDir)

	trail.Record(ctx, audit.NewEntry(audit.OpExport, audit.StatusSuccess).
		WithSource(opts.OutDir).
		WithTable(result.TableName).
		WithRows(result.RowCount).
		WithDuration(time.Since(start)).
		WithStatusText(result.Status, exporter.StatusOK))

	if !result.OK() {
		fmt.Printf("✗ %-30s %s\n", result.TableName, result.Status)
		return fmt.Errorf("export failed: %s", result.Status)
	}

	fmt.Printf("✓ %-30s %8d row(s)\n", result.TableName, result.RowCount)
	fmt.Printf("✓ Export complete in %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}
