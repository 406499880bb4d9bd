package audit

import (
	"context"
	"fmt"
	"os"
)

// Config - trail destinations from the CLI configuration. Both destinations
// may be active at once; neither being set disables the trail.
type Config struct {
	// FilePath - JSON-lines trail file
	FilePath string `yaml:"file"`

	// SQLitePath - SQLite trail database
	SQLitePath string `yaml:"sqlite"`
}

// Trail records entries and swallows every failure: auditing must never fail
// the run it describes.
type Trail struct {
	appender Appender
}

// NewTrail builds a trail from the configuration. An empty configuration
// yields a working trail that discards everything.
func NewTrail(cfg Config) (*Trail, error) {
	var appenders []Appender

	if cfg.FilePath != "" {
		fileAppender, err := NewFileAppender(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		appenders = append(appenders, fileAppender)
	}

	if cfg.SQLitePath != "" {
		sqliteAppender, err := NewSQLiteAppender(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		appenders = append(appenders, sqliteAppender)
	}

	if len(appenders) == 0 {
		return &Trail{appender: NullAppender{}}, nil
	}
	return &Trail{appender: NewMultiAppender(appenders...)}, nil
}

// Record appends one entry. Failures are reported to stderr and swallowed.
func (t *Trail) Record(ctx context.Context, entry *Entry) {
	if err := t.appender.Append(ctx, entry); err != nil {
		fmt.Fprintf(os.Stderr, "audit: %v\n", err)
	}
}

// Close releases the trail destinations.
func (t *Trail) Close() error {
	return t.appender.Close()
}
