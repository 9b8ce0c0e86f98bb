package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// jsonFile is a flat JSON array on disk, read and rewritten whole.
type jsonFile[T any] struct {
	path string
}

// load returns the file's entries. A missing file is an empty collection; an
// unreadable or corrupt one is logged and also treated as empty.
func (f jsonFile[T]) load() []T {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Error("Failed to read store file", "path", f.path, "error", err)
		}
		return nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Error("Store file is corrupt, starting empty", "path", f.path, "error", err)
		return nil
	}
	return items
}

// save replaces the file with items through a temporary file and a rename,
// so readers never observe a partial write.
func (f jsonFile[T]) save(items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(f.path), err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}

	tmpPath := f.path + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	_, writeErr := file.Write(payload)
	syncErr := file.Sync()
	closeErr := file.Close()
	if err := errors.Join(writeErr, syncErr, closeErr); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", filepath.Base(f.path), err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", filepath.Base(f.path), err)
	}
	return nil
}
