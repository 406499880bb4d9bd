// Package audit keeps a durable trail of import and export runs: one entry
// per processed table or file, appendable to a JSON-lines file and/or a
// SQLite database. Auditing is always best-effort; a failing trail never
// fails the run it describes.
package audit

import (
	"encoding/json"
	"fmt"
	"time"
)

// Operation - which pipeline produced the entry
type Operation string

const (
	OpImport       Operation = "import"
	OpImportFolder Operation = "import_folder"
	OpExport       Operation = "export"
	OpWebDAV       Operation = "webdav_import"
)

// Status - outcome of the audited step
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Entry - one audited table or file outcome
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Operation Operation `json:"operation"`
	Status    Status    `json:"status"`

	// Source - import directory, remote share or bundle name
	Source string `json:"source,omitempty"`

	// Table / File - the processed table and, where applicable, its data file
	Table string `json:"table,omitempty"`
	File  string `json:"file,omitempty"`

	Rows     int64  `json:"rows,omitempty"`
	Checksum uint64 `json:"checksum,omitempty"`

	Duration     time.Duration `json:"duration,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// NewEntry creates an entry stamped with the current time.
func NewEntry(operation Operation, status Status) *Entry {
	return &Entry{
		Timestamp: time.Now(),
		Operation: operation,
		Status:    status,
	}
}

// WithSource sets the source directory, share or bundle name.
func (e *Entry) WithSource(source string) *Entry {
	e.Source = source
	return e
}

// WithTable sets the processed table name.
func (e *Entry) WithTable(table string) *Entry {
	e.Table = table
	return e
}

// WithFile sets the processed file name.
func (e *Entry) WithFile(file string) *Entry {
	e.File = file
	return e
}

// WithRows sets the affected row count.
func (e *Entry) WithRows(rows int64) *Entry {
	e.Rows = rows
	return e
}

// WithChecksum sets the downloaded bundle checksum.
func (e *Entry) WithChecksum(checksum uint64) *Entry {
	e.Checksum = checksum
	return e
}

// WithDuration sets the step duration.
func (e *Entry) WithDuration(duration time.Duration) *Entry {
	e.Duration = duration
	return e
}

// WithStatusText records a result status text: the success marker maps to
// StatusSuccess, anything else becomes a failure with that message.
func (e *Entry) WithStatusText(status, successMarker string) *Entry {
	if status == successMarker {
		e.Status = StatusSuccess
	} else {
		e.Status = StatusFailure
		e.ErrorMessage = status
	}
	return e
}

// ToJSON marshals the entry for the JSON-lines appender.
func (e *Entry) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// String - human-readable single-line form
func (e *Entry) String() string {
	return fmt.Sprintf("[%s] %s %s table=%s rows=%d %s",
		e.Timestamp.Format(time.RFC3339),
		e.Operation,
		e.Status,
		e.Table,
		e.Rows,
		e.ErrorMessage,
	)
}
