package audit

import (
	"context"
)

// Appender - one audit trail destination
type Appender interface {
	// Append - write one entry
	Append(ctx context.Context, entry *Entry) error

	// Close - release the destination
	Close() error
}

// MultiAppender fans entries out to several destinations. Every destination
// is attempted even when an earlier one fails; the first error is returned.
type MultiAppender struct {
	appenders []Appender
}

// NewMultiAppender - combine appenders into one
func NewMultiAppender(appenders ...Appender) *MultiAppender {
	return &MultiAppender{appenders: appenders}
}

// Append - write the entry to every destination
func (ma *MultiAppender) Append(ctx context.Context, entry *Entry) error {
	var firstErr error
	for _, appender := range ma.appenders {
		if err := appender.Append(ctx, entry); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close - close every destination
func (ma *MultiAppender) Close() error {
	var firstErr error
	for _, appender := range ma.appenders {
		if err := appender.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NullAppender discards everything. Used when auditing is disabled.
type NullAppender struct{}

// Append - no-op
func (NullAppender) Append(context.Context, *Entry) error { return nil }

// Close - no-op
func (NullAppender) Close() error { return nil }
