package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLogAndRecent(t *testing.T) {
	dir := t.TempDir()
	logger := New(dir)

	for i := 1; i <= 3; i++ {
		err := logger.Log(Entry{
			Timestamp:   time.Date(2025, time.August, 20+i, 9, 0, 0, 0, time.UTC),
			Docs:        10 * i,
			MissingRefs: i,
			Report:      "report.md",
		})
		if err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	entries, err := Recent(dir, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Docs != 10 || entries[2].Docs != 30 {
		t.Errorf("entries out of order: %+v", entries)
	}
	if entries[1].Findings() != 2 {
		t.Errorf("findings = %d, want 2", entries[1].Findings())
	}
}

func TestRecentLimit(t *testing.T) {
	dir := t.TempDir()
	logger := New(dir)

	for i := 0; i < 5; i++ {
		if err := logger.Log(Entry{Docs: i}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	entries, err := Recent(dir, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Docs != 3 || entries[1].Docs != 4 {
		t.Errorf("limit kept wrong entries: %+v", entries)
	}
}

func TestRecentMissingLog(t *testing.T) {
	entries, err := Recent(t.TempDir(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if entries != nil {
		t.Errorf("expected no entries, got %+v", entries)
	}
}

func TestRecentSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	logger := New(dir)
	if err := logger.Log(Entry{Docs: 1}); err != nil {
		t.Fatalf("Log: %v", err)
	}

	path := filepath.Join(dir, ".rook", "history.log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString("not json\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.Close()
	if err := logger.Log(Entry{Docs: 2}); err != nil {
		t.Fatalf("Log: %v", err)
	}

	entries, err := Recent(dir, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
}
