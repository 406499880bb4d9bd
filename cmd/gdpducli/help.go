package main

import "fmt"

// Version information
const (
	AppName    = "gdpducli"
	AppVersion = "1.0.0"
)

// PrintVersion prints version information
func PrintVersion() {
	fmt.Printf("%s version %s\n", AppName, AppVersion)
	fmt.Println("GDPdU import/export toolkit for DuckDB")
}

// PrintHelp prints detailed help with examples
func PrintHelp() {
	fmt.Printf(`%s - GDPdU import/export toolkit for DuckDB

USAGE:
  %s [command] [options]

COMMANDS:
  -import DIR           Import a GDPdU export directory (index.xml + data files)
  -import-folder DIR    Import every file of one type from a folder,
                        inferring column types from the data
  -export TABLE         Export a table as a GDPdU bundle (data file + index.xml)
  -import-webdav        Download and import zip bundles from a WebDAV share
  -list                 List tables in the database
  -list-parsers         List registered descriptor parser strategies

IMPORT OPTIONS:
  -parser NAME          Descriptor parser strategy (default: gdpdu)
  -parser-config FILE   YAML element mapping for the generic parser
  -name-field NAME      Descriptor element holding column names
  -type TYPE            Folder-import file type: csv, tsv, parquet, xlsx, json

EXPORT OPTIONS:
  -out DIR              Destination directory (default: export)

WEBDAV OPTIONS:
  -url URL              WebDAV base URL
  -user NAME            Username
  -password SECRET      Password
  -remote-path PATH     Folder to scan for zip bundles
  -insecure             Skip TLS certificate verification

GENERAL OPTIONS:
  -config FILE          Configuration file (default: config.yaml)
  -create-config        Write a sample configuration file and exit
  -version              Show version
  -help                 Show this help

EXAMPLES:
  # Import a GDPdU export
  %s -import ./Export2024

  # Import with a custom descriptor column-name element
  %s -import ./Export2024 -name-field Bezeichner

  # Import a folder of CSV files with type inference
  %s -import-folder ./data -type csv

  # Export a table back into a GDPdU bundle
  %s -export konten -out ./out

  # Pull zip bundles from Nextcloud and import them
  %s -import-webdav -url https://cloud.example.com/remote.php/dav/files/user \
      -user user -password secret -remote-path /exports

Every import/export prints one line per processed table or file with its row
count and status.
`, AppName, AppName, AppName, AppName, AppName, AppName, AppName)
}
