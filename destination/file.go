package destination

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lechuhuuha/log_relay/model"
)

// File appends entries to a single NDJSON file, creating parent directories
// on first write. The file is opened per batch so external rotation works.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile builds a file destination for the given path.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("file destination: path must not be empty")
	}
	return &File{path: path}, nil
}

// Write implements Destination.
func (f *File) Write(ctx context.Context, entries []model.LogEntry) error {
	payload, err := encodeNDJSON(entries)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()
	if _, err := file.Write(payload); err != nil {
		return fmt.Errorf("append log entries: %w", err)
	}
	return nil
}
