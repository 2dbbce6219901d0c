// Package atomicfile writes files via a temp file and rename so that a
// crash mid-write never leaves a half-written report behind.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes data to path atomically (best-effort cross-platform):
// the bytes go to a temporary file in the same directory, which is then
// renamed into place.
//
// perm applies to the temp file. If perm is 0, the existing file's mode is
// preserved when the file exists, otherwise 0644 is used.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if perm == 0 {
		perm = currentMode(path)
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpPath := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	// Best-effort; not every filesystem supports chmod on an open handle.
	_ = tmp.Chmod(perm)

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// On Windows renaming over an existing file fails. Remove first
	// (loses atomicity on that platform only).
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(path)
		if err2 := os.Rename(tmpPath, path); err2 != nil {
			return fmt.Errorf("rename temp file: %w", err)
		}
	}

	committed = true
	return nil
}

func currentMode(path string) os.FileMode {
	if st, err := os.Stat(path); err == nil {
		return st.Mode()
	}
	return 0o644
}
