// Package commands implements the CLI commands. Each import/export command
// prints one line per processed table or file and records the outcome in the
// audit trail.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/auditstream/gdpdu/pkg/audit"
	"github.com/auditstream/gdpdu/pkg/duck"
	"github.com/auditstream/gdpdu/pkg/importer"
	"github.com/auditstream/gdpdu/pkg/xmlschema"
)

// ImportOptions holds options for the schema-driven import
type ImportOptions struct {
	Directory        string
	Parser           string
	NameField        string
	ParserConfigPath string
}

// ImportDirectory imports a GDPdU export directory
func ImportDirectory(ctx context.Context, exec duck.Executor, trail *audit.Trail, opts ImportOptions) error {
	cfg, err := buildParserConfig(opts)
	if err != nil {
		return err
	}

	fmt.Printf("Importing '%s' (parser: %s)...\n", opts.Directory, cfg.ParserType)
	start := time.Now()

	results, err := importer.New(exec).ImportDirectory(ctx, opts.Directory, cfg)
	if err != nil {
		return err
	}

	imported := 0
	for _, result := range results {
		if result.OK() {
			imported++
			fmt.Printf("✓ %-30s %8d row(s) %3d column(s)\n",
				result.TableName, result.RowCount, result.ColumnCount)
		} else {
			fmt.Printf("✗ %-30s %s\n", result.TableName, result.Status)
		}

		trail.Record(ctx, audit.NewEntry(audit.OpImport, audit.StatusSuccess).
			WithSource(opts.Directory).
			WithTable(result.TableName).
			WithRows(result.RowCount).
			WithDuration(time.Since(start)).
			WithStatusText(result.Status, importer.StatusOK))
	}

	fmt.Printf("✓ Imported %d of %d table(s) in %v\n",
		imported, len(results), time.Since(start).Round(time.Millisecond))
	return nil
}

// buildParserConfig assembles the parser configuration from the flags and an
// optional mapping file.
func buildParserConfig(opts ImportOptions) (xmlschema.Config, error) {
	var cfg xmlschema.Config

	if opts.ParserConfigPath != "" {
		loaded, err := xmlschema.LoadConfig(opts.ParserConfigPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if opts.Parser != "" {
		cfg.ParserType = opts.Parser
	}
	if opts.NameField != "" {
		cfg.Column.NameField = opts.NameField
	}

	return cfg, nil
}
