package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/auditstream/gdpdu/pkg/audit"
	"github.com/auditstream/gdpdu/pkg/webdav"
)

// Config represents the main configuration structure
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	WebDAV   webdav.Config  `yaml:"webdav,omitempty"`
	Audit    audit.Config   `yaml:"audit,omitempty"`
}

// DatabaseConfig contains destination database settings
type DatabaseConfig struct {
	// Path - DuckDB database file; ":memory:" or empty for in-memory
	Path string `yaml:"path"`
}

// LoadConfig loads configuration from a YAML file. A missing file yields the
// defaults, so simple local imports work without any configuration.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "gdpdu.duckdb"},
	}
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(filename string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateSampleConfig creates a sample configuration with every section
// filled in.
func CreateSampleConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "gdpdu.duckdb"},
		WebDAV: webdav.Config{
			URL:        "https://cloud.example.com/remote.php/dav/files/user",
			Username:   "user",
			Password:   "app-password",
			RemotePath: "/exports",
		},
		Audit: audit.Config{
			FilePath:   "audit.jsonl",
			SQLitePath: "audit.db",
		},
	}
}
