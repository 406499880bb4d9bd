package xmlschema

import (
	"github.com/auditstream/gdpdu/pkg/core/schema"
)

// GdpduParser parses the fixed GDPdU index.xml layout. It is the generic
// engine locked to the GDPdU element names; from the caller's configuration
// only the index file name, data delimiter and the column name override are
// honored.
type GdpduParser struct {
	engine GenericParser
}

func init() {
	Register("gdpdu", func() Parser { return &GdpduParser{} })
}

// ParserType returns the registry name of this strategy.
func (p *GdpduParser) ParserType() string { return "gdpdu" }

// Parse reads index.xml from directoryPath using the GDPdU element layout.
func (p *GdpduParser) Parse(directoryPath string, cfg Config) (*schema.Schema, error) {
	merged := DefaultGdpduConfig()
	if cfg.IndexFile != "" {
		merged.IndexFile = cfg.IndexFile
	}
	if cfg.Delimiter != "" {
		merged.Delimiter = cfg.Delimiter
	}
	if cfg.Column.NameField != "" {
		merged.Column.NameField = cfg.Column.NameField
	}
	return p.engine.Parse(directoryPath, merged)
}
