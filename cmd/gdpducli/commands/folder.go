package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/auditstream/gdpdu/pkg/audit"
	"github.com/auditstream/gdpdu/pkg/duck"
	"github.com/auditstream/gdpdu/pkg/importer"
)

// FolderOptions holds options for the folder import
type FolderOptions struct {
	Directory string
	FileType  string
}

// ImportFolder imports every file of one type from a folder, with data-driven
// type inference.
func ImportFolder(ctx context.Context, exec duck.Executor, trail *audit.Trail, opts FolderOptions) error {
	fmt.Printf("Importing %s files from '%s'...\n", opts.FileType, opts.Directory)
	start := time.Now()

	results, err := importer.NewFolderImporter(exec).ImportFolder(ctx, opts.Directory, opts.FileType)
	if err != nil {
		return err
	}

	imported := 0
	for _, result := range results {
		if result.OK() {
			imported++
			fmt.Printf("✓ %-30s %-30s %8d row(s) %3d column(s)\n",
				result.TableName, result.FileName, result.RowCount, result.ColumnCount)
		} else {
			fmt.Printf("✗ %-30s %-30s %s\n", result.TableName, result.FileName, result.Status)
		}

		trail.Record(ctx, audit.NewEntry(audit.OpImportFolder, audit.StatusSuccess).
			WithSource(opts.Directory).
			WithTable(result.TableName).
			WithFile(result.FileName).
			WithRows(result.RowCount).
			WithDuration(time.Since(start)).
			WithStatusText(result.Status, importer.StatusOK))
	}

	fmt.Printf("✓ Imported %d of %d file(s) in %v\n",
		imported, len(results), time.Since(start).Round(time.Millisecond))
	return nil
}
