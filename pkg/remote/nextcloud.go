// Package remote acquires GDPdU bundles from a WebDAV share and runs them
// through the schema-driven importer: list zips, download, extract, import,
// prefix the created tables with the bundle name.
package remote

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/auditstream/gdpdu/pkg/archive"
	"github.com/auditstream/gdpdu/pkg/core/naming"
	"github.com/auditstream/gdpdu/pkg/duck"
	"github.com/auditstream/gdpdu/pkg/importer"
	"github.com/auditstream/gdpdu/pkg/webdav"
	"github.com/auditstream/gdpdu/pkg/xmlschema"
)

// Options - one remote import run.
type Options struct {
	WebDAV webdav.Config    `yaml:"webdav"`
	Parser xmlschema.Config `yaml:"parser"`
}

// Result - outcome of one table of one downloaded bundle, or of a bundle
// that failed before any table was reached.
type Result struct {
	ZipName     string
	TableName   string
	RowCount    int64
	ColumnCount int
	Checksum    uint64
	Status      string
}

// OK reports whether this entry succeeded.
func (r Result) OK() bool {
	return r.Status == importer.StatusOK
}

// ImportNextcloud lists the zip files in the configured share and imports
// each one. Per-bundle failures (download, extraction, schema) are recorded
// and the run continues with the next bundle; only an unreachable listing is
// fatal.
func ImportNextcloud(ctx context.Context, exec duck.Executor, opts Options) ([]Result, error) {
	client := webdav.NewClient(opts.WebDAV)

	entries, err := client.ListFiles("zip")
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []Result{{Status: fmt.Sprintf("no zip files found under %q", opts.WebDAV.RemotePath)}}, nil
	}

	staging, err := webdav.NewStagingDir()
	if err != nil {
		return nil, err
	}
	defer webdav.CleanupStagingDir(staging)

	var results []Result
	for _, entry := range entries {
		results = append(results, importBundle(ctx, exec, client, staging, entry, opts.Parser)...)
	}
	return results, nil
}

func importBundle(ctx context.Context, exec duck.Executor, client *webdav.Client,
	staging string, entry webdav.FileEntry, parserCfg xmlschema.Config) []Result {

	prefix := SanitizeZipPrefix(entry.Name)
	failed := func(err error) []Result {
		return []Result{{ZipName: entry.Name, Status: err.Error()}}
	}

	localZip, checksum, err := client.Download(ctx, entry.Name, staging)
	if err != nil {
		return failed(err)
	}
	defer os.Remove(localZip)

	extractDir := filepath.Join(staging, prefix)
	if _, err := archive.ExtractZip(localZip, extractDir); err != nil {
		return failed(err)
	}
	defer os.RemoveAll(extractDir)

	indexDir, err := locateIndexDir(extractDir, indexFileName(parserCfg))
	if err != nil {
		return failed(err)
	}

	imported, err := importer.New(exec).ImportDirectory(ctx, indexDir, parserCfg)
	if err != nil {
		return failed(err)
	}

	results := make([]Result, 0, len(imported))
	for _, table := range imported {
		result := Result{
			ZipName:     entry.Name,
			TableName:   table.TableName,
			RowCount:    table.RowCount,
			ColumnCount: table.ColumnCount,
			Checksum:    checksum,
			Status:      table.Status,
		}
		if table.OK() {
			// Best-effort; a failed rename leaves the unprefixed table in
			// place and the import still counts.
			if renamed, ok := prefixTable(ctx, exec, table.TableName, prefix); ok {
				result.TableName = renamed
			}
		}
		results = append(results, result)
	}
	return results
}

func indexFileName(cfg xmlschema.Config) string {
	if cfg.IndexFile != "" {
		return cfg.IndexFile
	}
	return "index.xml"
}

// locateIndexDir finds the directory holding the descriptor: the extraction
// root, or exactly one level down (zips often wrap their content in a single
// folder).
func locateIndexDir(extractDir, indexFile string) (string, error) {
	if _, err := os.Stat(filepath.Join(extractDir, indexFile)); err == nil {
		return extractDir, nil
	}

	entries, err := os.ReadDir(extractDir)
	if err != nil {
		return "", fmt.Errorf("failed to read extraction directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := filepath.Join(extractDir, entry.Name())
		if _, err := os.Stat(filepath.Join(candidate, indexFile)); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no %s found in extracted bundle", indexFile)
}

// SanitizeZipPrefix derives the table-name prefix from a bundle file name:
// extension stripped, then normalized like any other identifier.
func SanitizeZipPrefix(zipName string) string {
	return naming.TableNameFromFile(zipName)
}

func prefixTable(ctx context.Context, exec duck.Executor, tableName, prefix string) (string, bool) {
	if prefix == "" {
		return tableName, false
	}
	renamed := prefix + "_" + tableName

	if _, err := exec.Execute(ctx, "DROP TABLE IF EXISTS "+duck.QuoteIdent(renamed)); err != nil {
		return tableName, false
	}
	query := fmt.Sprintf("ALTER TABLE %s RENAME TO %s",
		duck.QuoteIdent(tableName), duck.QuoteIdent(renamed))
	if _, err := exec.Execute(ctx, query); err != nil {
		return tableName, false
	}
	return renamed, true
}
