// Package audit keeps an append-only history of check runs.
//
// Every completed `rook check` appends one JSON line to
// .rook/history.log, so a vault carries its own record of how breakage
// evolved over time. The log is derived state: deleting it loses the
// history and nothing else.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry records one completed check run.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	Docs      int       `json:"docs"`
	Files     int       `json:"files"`
	Refs      int       `json:"refs"`

	// Finding counts per report section.
	MissingRefs      int `json:"missing_refs"`
	MissingAnchors   int `json:"missing_anchors"`
	MissingMapImages int `json:"missing_map_images"`
	Unreferenced     int `json:"unreferenced"`

	ElapsedMs int64  `json:"elapsed_ms"`
	Report    string `json:"report"`
}

// Findings returns the total finding count of the run.
func (e Entry) Findings() int {
	return e.MissingRefs + e.MissingAnchors + e.MissingMapImages + e.Unreferenced
}

// Logger appends check-run entries to a vault's history log.
type Logger struct {
	path string
	mu   sync.Mutex
}

// New creates a logger for the vault's .rook/history.log.
func New(vaultPath string) *Logger {
	return &Logger{
		path: filepath.Join(vaultPath, ".rook", "history.log"),
	}
}

// Log appends one entry. The timestamp is filled in when unset.
func (l *Logger) Log(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write history entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, oldest first. A missing log is an
// empty history, not an error. Lines that fail to parse are skipped:
// the log may span versions of rook with different entry shapes.
func Recent(vaultPath string, limit int) ([]Entry, error) {
	path := filepath.Join(vaultPath, ".rook", "history.log")

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history log: %w", err)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}
