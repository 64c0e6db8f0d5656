package destination

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/lechuhuuha/log_relay/model"
)

// Writer streams entries as newline-delimited JSON to an io.Writer, one line
// per entry. Pointing it at os.Stdout gives a plain console destination.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter wraps the given writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write implements Destination.
func (d *Writer) Write(ctx context.Context, entries []model.LogEntry) error {
	payload, err := encodeNDJSON(entries)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.w.Write(payload); err != nil {
		return fmt.Errorf("write entries: %w", err)
	}
	return nil
}

// encodeNDJSON renders a batch as newline-delimited JSON.
func encodeNDJSON(entries []model.LogEntry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range entries {
		if err := enc.Encode(entries[i]); err != nil {
			return nil, fmt.Errorf("encode entry: %w", err)
		}
	}
	return buf.Bytes(), nil
}
