package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestEntryWithStatusText(t *testing.T) {
	ok := NewEntry(OpImport, StatusSuccess).WithStatusText("OK", "OK")
	if ok.Status != StatusSuccess || ok.ErrorMessage != "" {
		t.Errorf("success entry = %+v", ok)
	}

	failed := NewEntry(OpImport, StatusSuccess).WithStatusText("data file missing", "OK")
	if failed.Status != StatusFailure || failed.ErrorMessage != "data file missing" {
		t.Errorf("failure entry = %+v", failed)
	}
}

func TestFileAppenderWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trail", "audit.jsonl")

	appender, err := NewFileAppender(path)
	if err != nil {
		t.Fatalf("NewFileAppender: %v", err)
	}

	ctx := context.Background()
	entries := []*Entry{
		NewEntry(OpImport, StatusSuccess).WithTable("konten").WithRows(42),
		NewEntry(OpExport, StatusFailure).WithTable("belege").WithStatusText("disk full", "OK"),
	}
	for _, entry := range entries {
		if err := appender.Append(ctx, entry); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := appender.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open trail: %v", err)
	}
	defer file.Close()

	var lines []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("bad trail line %q: %v", scanner.Text(), err)
		}
		lines = append(lines, entry)
	}

	if len(lines) != 2 {
		t.Fatalf("got %d trail lines, want 2", len(lines))
	}
	if lines[0].Table != "konten" || lines[0].Rows != 42 {
		t.Errorf("first line = %+v", lines[0])
	}
	if lines[1].Status != StatusFailure || lines[1].ErrorMessage != "disk full" {
		t.Errorf("second line = %+v", lines[1])
	}
}

func TestSQLiteAppender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	appender, err := NewSQLiteAppender(path)
	if err != nil {
		t.Fatalf("NewSQLiteAppender: %v", err)
	}
	defer appender.Close()

	ctx := context.Background()
	entry := NewEntry(OpWebDAV, StatusSuccess).
		WithSource("Export 2024.zip").
		WithTable("export_2024_konten").
		WithRows(7).
		WithChecksum(0xdeadbeef)
	if err := appender.Append(ctx, entry); err != nil {
		t.Fatalf("Append: %v", err)
	}

	var count int
	row := appender.db.QueryRow("SELECT COUNT(*) FROM " + trailTable)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("trail rows = %d, want 1", count)
	}
}

func TestTrailDisabledIsSafe(t *testing.T) {
	trail, err := NewTrail(Config{})
	if err != nil {
		t.Fatalf("NewTrail: %v", err)
	}
	defer trail.Close()

	// Must not panic or fail without destinations.
	trail.Record(context.Background(), NewEntry(OpImport, StatusSuccess))
}

func TestTrailFileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	trail, err := NewTrail(Config{FilePath: path})
	if err != nil {
		t.Fatalf("NewTrail: %v", err)
	}

	trail.Record(context.Background(), NewEntry(OpImport, StatusSuccess).WithTable("t"))
	if err := trail.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read trail: %v", err)
	}
	if len(content) == 0 {
		t.Error("trail file is empty")
	}
}
