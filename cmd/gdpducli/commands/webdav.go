package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/auditstream/gdpdu/pkg/audit"
	"github.com/auditstream/gdpdu/pkg/duck"
	"github.com/auditstream/gdpdu/pkg/importer"
	"github.com/auditstream/gdpdu/pkg/remote"
)

// ImportWebDAV downloads every zip bundle from the configured share and
// imports it.
func ImportWebDAV(ctx context.Context, exec duck.Executor, trail *audit.Trail, opts remote.Options) error {
	fmt.Printf("Importing zip bundles from '%s%s'...\n", opts.WebDAV.URL, opts.WebDAV.RemotePath)
	start := time.Now()

	results, err := remote.ImportNextcloud(ctx, exec, opts)
	if err != nil {
		return err
	}

	imported := 0
	for _, result := range results {
		if result.OK() {
			imported++
			fmt.Printf("✓ %-25s %-30s %8d row(s)\n",
				result.ZipName, result.TableName, result.RowCount)
		} else {
			fmt.Printf("✗ %-25s %-30s %s\n", result.ZipName, result.TableName, result.Status)
		}

		trail.Record(ctx, audit.NewEntry(audit.OpWebDAV, audit.StatusSuccess).
			WithSource(result.ZipName).
			WithTable(result.TableName).
			WithRows(result.RowCount).
			WithChecksum(result.Checksum).
			WithDuration(time.Since(start)).
			WithStatusText(result.Status, importer.StatusOK))
	}

	fmt.Printf("✓ Imported %d of %d entr(y/ies) in %v\n",
		imported, len(results), time.Since(start).Round(time.Millisecond))
	return nil
}
