package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lechuhuuha/log_relay/destination"
	"github.com/lechuhuuha/log_relay/internal/metrics"
	loggerpkg "github.com/lechuhuuha/log_relay/logger"
	"github.com/lechuhuuha/log_relay/model"
)

// Sink pairs a destination with its slot configuration.
type Sink struct {
	Destination destination.Destination
	Config      SlotConfig
}

// Dispatcher fans every dispatched entry out to the active ordered set of
// slots. It is owned by whatever composition root builds the logging
// subsystem; there is no package-global registry.
type Dispatcher struct {
	logr loggerpkg.Logger

	mu    sync.RWMutex
	slots []*Slot
	seq   int
}

// NewDispatcher builds a dispatcher with one slot per sink, in order.
func NewDispatcher(sinks []Sink, logr loggerpkg.Logger) *Dispatcher {
	if logr == nil {
		logr = loggerpkg.NewNop()
	}
	d := &Dispatcher{logr: logr}
	d.slots = d.buildSlots(sinks)
	return d
}

func (d *Dispatcher) buildSlots(sinks []Sink) []*Slot {
	slots := make([]*Slot, 0, len(sinks))
	for _, sink := range sinks {
		name := sink.Config.Name
		if name == "" {
			name = fmt.Sprintf("slot-%d", d.seq)
		}
		d.seq++
		slots = append(slots, NewSlot(name, sink.Destination, sink.Config, d.logr))
	}
	return slots
}

// Dispatch forwards the entry to every active slot in configured order. It
// never blocks and never fails, independent of slot count.
func (d *Dispatcher) Dispatch(entry model.LogEntry) {
	metrics.IncEntriesDispatched()
	d.mu.RLock()
	slots := d.slots
	d.mu.RUnlock()
	for _, slot := range slots {
		slot.Enqueue(entry)
	}
}

// Reconfigure destroys every active slot and replaces the collection with
// freshly built slots for the new sinks. Entries still queued in a destroyed
// slot are discarded; callers wanting them delivered must FlushAll first.
func (d *Dispatcher) Reconfigure(sinks []Sink) {
	d.mu.Lock()
	old := d.slots
	d.slots = d.buildSlots(sinks)
	d.mu.Unlock()
	for _, slot := range old {
		slot.destroy()
	}
	d.logr.Info("dispatcher reconfigured",
		loggerpkg.F("slots", len(sinks)),
		loggerpkg.F("replaced", len(old)))
}

// Add appends one slot to the active collection without disturbing the rest.
func (d *Dispatcher) Add(dest destination.Destination, cfg SlotConfig) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slots = append(d.slots, d.buildSlots([]Sink{{Destination: dest, Config: cfg}})...)
}

// Slots returns the active slots in configured order.
func (d *Dispatcher) Slots() []*Slot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Slot, len(d.slots))
	copy(out, d.slots)
	return out
}

// FlushAll flushes every active slot concurrently and returns once all of
// them have drained, or with ctx.Err() when the context expires first. Slots
// still flushing after an expired context finish in the background.
func (d *Dispatcher) FlushAll(ctx context.Context) error {
	slots := d.Slots()
	g, _ := errgroup.WithContext(ctx)
	for _, slot := range slots {
		slot := slot
		g.Go(func() error {
			slot.Flush()
			return nil
		})
	}
	done := make(chan error, 1)
	go func() { done <- g.Wait() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close destroys every slot. Pending entries are discarded; call FlushAll
// first for a graceful drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	old := d.slots
	d.slots = nil
	d.mu.Unlock()
	for _, slot := range old {
		slot.destroy()
	}
}
