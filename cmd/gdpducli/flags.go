package main

import "flag"

// Flags holds all command-line flags
type Flags struct {
	// Commands
	Import       *string
	ImportFolder *string
	Export       *string
	ImportWebDAV *bool
	List         *bool
	ListParsers  *bool

	// Import options
	Parser       *string
	ParserConfig *string
	NameField    *string
	Type         *string

	// Export options
	Out *string

	// WebDAV options (override config file values)
	URL        *string
	User       *string
	Password   *string
	RemotePath *string
	Insecure   *bool

	// Misc
	Config       *string
	CreateConfig *bool
	Version      *bool
	Help         *bool
}

// ParseFlags defines and parses all command-line flags
func ParseFlags() *Flags {
	f := &Flags{}

	// Commands
	f.Import = flag.String("import", "", "Import a GDPdU export directory (path containing index.xml)")
	f.ImportFolder = flag.String("import-folder", "", "Import all files of a type from a folder (path)")
	f.Export = flag.String("export", "", "Export a table as a GDPdU bundle (table name)")
	f.ImportWebDAV = flag.Bool("import-webdav", false, "Import zip bundles from the configured WebDAV share")
	f.List = flag.Bool("list", false, "List all tables in the database")
	f.ListParsers = flag.Bool("list-parsers", false, "List registered descriptor parser strategies")

	// Import options
	f.Parser = flag.String("parser", "gdpdu", "Descriptor parser strategy (see -list-parsers)")
	f.ParserConfig = flag.String("parser-config", "", "YAML mapping file for the generic parser")
	f.NameField = flag.String("name-field", "", "Descriptor element holding column names (default: Name)")
	f.Type = flag.String("type", "csv", "Folder-import file type: csv, tsv, parquet, xlsx, json")

	// Export options
	f.Out = flag.String("out", "export", "Destination directory for -export")

	// WebDAV options
	f.URL = flag.String("url", "", "WebDAV base URL (overrides config)")
	f.User = flag.String("user", "", "WebDAV username (overrides config)")
	f.Password = flag.String("password", "", "WebDAV password (overrides config)")
	f.RemotePath = flag.String("remote-path", "", "WebDAV folder to scan for zips (overrides config)")
	f.Insecure = flag.Bool("insecure", false, "Skip TLS certificate verification for WebDAV")

	// Misc
	f.Config = flag.String("config", "config.yaml", "Configuration file path")
	f.CreateConfig = flag.Bool("create-config", false, "Write a sample configuration file and exit")
	f.Version = flag.Bool("version", false, "Show version information")
	f.Help = flag.Bool("help", false, "Show detailed help with examples")

	flag.Parse()

	return f
}
