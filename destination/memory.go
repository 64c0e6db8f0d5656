package destination

import (
	"context"
	"sync"

	"github.com/lechuhuuha/log_relay/model"
)

// Memory buffers delivered entries in process. Useful as a test sink and for
// surfacing recent log history over an admin endpoint.
type Memory struct {
	mu      sync.Mutex
	entries []model.LogEntry
	batches int
}

// NewMemory returns an empty in-memory destination.
func NewMemory() *Memory { return &Memory{} }

// Write implements Destination.
func (m *Memory) Write(ctx context.Context, entries []model.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entries...)
	m.batches++
	return nil
}

// Entries returns a copy of everything delivered so far, in delivery order.
func (m *Memory) Entries() []model.LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.LogEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Batches returns how many write calls have been observed.
func (m *Memory) Batches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batches
}
