package audit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileAppender appends entries as JSON lines to a single file.
type FileAppender struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// NewFileAppender opens (or creates) the trail file for appending, creating
// parent directories as needed.
func NewFileAppender(path string) (*FileAppender, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit file: %w", err)
	}

	return &FileAppender{file: file, path: path}, nil
}

// Append - write one JSON line
func (fa *FileAppender) Append(_ context.Context, entry *Entry) error {
	data, err := entry.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}
	data = append(data, '\n')

	fa.mu.Lock()
	defer fa.mu.Unlock()

	if _, err := fa.file.Write(data); err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}

// Close - close the trail file
func (fa *FileAppender) Close() error {
	fa.mu.Lock()
	defer fa.mu.Unlock()

	if fa.file == nil {
		return nil
	}
	err := fa.file.Close()
	fa.file = nil
	return err
}

// Path - location of the trail file
func (fa *FileAppender) Path() string {
	return fa.path
}
