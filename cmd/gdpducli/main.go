package main

import (
	"context"
	"fmt"
	"os"

	"github.com/auditstream/gdpdu/cmd/gdpducli/commands"
	"github.com/auditstream/gdpdu/pkg/audit"
	"github.com/auditstream/gdpdu/pkg/duck"
	"github.com/auditstream/gdpdu/pkg/remote"
)

func main() {
	ctx := context.Background()

	flags := ParseFlags()

	if *flags.Version {
		PrintVersion()
		os.Exit(0)
	}
	if *flags.Help {
		PrintHelp()
		os.Exit(0)
	}
	if *flags.CreateConfig {
		createConfigTemplate(*flags.Config)
		return
	}
	if *flags.ListParsers {
		commands.ListParsers()
		return
	}

	if !commandWasSpecified(flags) {
		PrintHelp()
		os.Exit(1)
	}

	config, err := LoadConfig(*flags.Config)
	if err != nil {
		fatal("Failed to load config: %v", err)
	}
	applyWebDAVFlags(config, flags)

	trail, err := audit.NewTrail(config.Audit)
	if err != nil {
		fatal("Failed to open audit trail: %v", err)
	}
	defer trail.Close()

	db, err := duck.Open(ctx, config.Database.Path)
	if err != nil {
		fatal("Failed to open database: %v", err)
	}
	defer db.Close()

	var cmdErr error
	switch {
	case *flags.Import != "":
		cmdErr = commands.ImportDirectory(ctx, db, trail, commands.ImportOptions{
			Directory:        *flags.Import,
			Parser:           *flags.Parser,
			NameField:        *flags.NameField,
			ParserConfigPath: *flags.ParserConfig,
		})

	case *flags.ImportFolder != "":
		cmdErr = commands.ImportFolder(ctx, db, trail, commands.FolderOptions{
			Directory: *flags.ImportFolder,
			FileType:  *flags.Type,
		})

	case *flags.Export != "":
		cmdErr = commands.ExportTable(ctx, db, trail, commands.ExportOptions{
			TableName: *flags.Export,
			OutDir:    *flags.Out,
		})

	case *flags.ImportWebDAV:
		cmdErr = commands.ImportWebDAV(ctx, db, trail, remote.Options{
			WebDAV: config.WebDAV,
		})

	case *flags.List:
		cmdErr = commands.ListTables(ctx, db)
	}

	if cmdErr != nil {
		fatal("Command failed: %v", cmdErr)
	}
}

// applyWebDAVFlags lets command-line flags override the config file values.
func applyWebDAVFlags(config *Config, flags *Flags) {
	if *flags.URL != "" {
		config.WebDAV.URL = *flags.URL
	}
	if *flags.User != "" {
		config.WebDAV.Username = *flags.User
	}
	if *flags.Password != "" {
		config.WebDAV.Password = *flags.Password
	}
	if *flags.RemotePath != "" {
		config.WebDAV.RemotePath = *flags.RemotePath
	}
	if *flags.Insecure {
		config.WebDAV.InsecureTLS = true
	}
}

// createConfigTemplate creates a sample configuration file
func createConfigTemplate(path string) {
	if err := SaveConfig(path, CreateSampleConfig()); err != nil {
		fatal("Failed to save config: %v", err)
	}

	fmt.Printf("✓ Created sample config: %s\n", path)
	fmt.Println("Edit the file with your database path and WebDAV credentials and run:")
	fmt.Printf("  %s -import ./Export2024 -config %s\n", AppName, path)
}

// commandWasSpecified checks if any command was specified
func commandWasSpecified(flags *Flags) bool {
	return *flags.Import != "" ||
		*flags.ImportFolder != "" ||
		*flags.Export != "" ||
		*flags.ImportWebDAV ||
		*flags.List
}

// fatal prints error and exits
func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
