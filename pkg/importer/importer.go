package importer

import (
	"context"
	"fmt"

	"github.com/auditstream/gdpdu/pkg/duck"
	"github.com/auditstream/gdpdu/pkg/xmlschema"
)

// Importer runs the schema-driven import: parse the descriptor, then load
// every declared table sequentially over one store session.
type Importer struct {
	exec duck.Executor
}

// New creates an importer over the given store session.
func New(exec duck.Executor) *Importer {
	return &Importer{exec: exec}
}

// ImportDirectory parses the directory's descriptor with the configured
// strategy and loads every declared table. A schema failure aborts the whole
// import with an error; every other failure is captured in that table's
// result record and the batch continues.
func (im *Importer) ImportDirectory(ctx context.Context, dir string, cfg xmlschema.Config) ([]ImportResult, error) {
	parserType := cfg.ParserType
	if parserType == "" {
		parserType = "gdpdu"
	}

	parser, err := xmlschema.Get(parserType)
	if err != nil {
		return nil, err
	}

	parsed, err := parser.Parse(dir, cfg)
	if err != nil {
		return nil, fmt.Errorf("schema parsing failed: %w", err)
	}

	loader := NewLoader(im.exec)
	loader.SetDelimiter(cfg.Delimiter)

	results := make([]ImportResult, 0, len(parsed.Tables))
	for i := range parsed.Tables {
		results = append(results, loader.LoadTable(ctx, dir, &parsed.Tables[i]))
	}
	return results, nil
}
