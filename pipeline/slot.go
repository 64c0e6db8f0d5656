package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lechuhuuha/log_relay/destination"
	"github.com/lechuhuuha/log_relay/internal/metrics"
	loggerpkg "github.com/lechuhuuha/log_relay/logger"
	"github.com/lechuhuuha/log_relay/model"
	"github.com/lechuhuuha/log_relay/util"
)

// Slot owns one destination together with its queue, lazy flush timer, rate
// window and in-flight write guard. All admission work is synchronous and
// non-blocking; delivery happens on background flushes.
type Slot struct {
	name string
	dest destination.Destination
	cfg  SlotConfig
	logr loggerpkg.Logger

	mu        sync.Mutex
	queue     []model.LogEntry
	timer     *time.Timer
	window    rateWindow
	destroyed bool

	// flushMu serializes destination writes: at most one write is in flight
	// per slot, which is what makes batch delivery order absolute.
	flushMu sync.Mutex
}

// NewSlot builds a slot for the given destination with defaults applied.
func NewSlot(name string, dest destination.Destination, cfg SlotConfig, logr loggerpkg.Logger) *Slot {
	if logr == nil {
		logr = loggerpkg.NewNop()
	}
	cfg = cfg.normalized()
	return &Slot{
		name:   name,
		dest:   dest,
		cfg:    cfg,
		logr:   logr,
		window: rateWindow{limit: cfg.RateLimit},
	}
}

// Name returns the slot's diagnostic label.
func (s *Slot) Name() string { return s.name }

// Enqueue admits one entry: level filter, predicate filter, rate limit,
// append, eviction, then the flush trigger. It never blocks and never fails;
// everything downstream of admission is absorbed by the slot.
func (s *Slot) Enqueue(entry model.LogEntry) {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	if s.cfg.MinLevel != model.LevelUnset && entry.Level < s.cfg.MinLevel {
		s.mu.Unlock()
		metrics.AddEntriesDropped(metrics.DropReasonLevel, 1)
		return
	}
	if s.cfg.Filter != nil && !runFilter(s.cfg.Filter, entry) {
		s.mu.Unlock()
		metrics.AddEntriesDropped(metrics.DropReasonFilter, 1)
		return
	}
	if !s.window.admit(time.Now()) {
		s.mu.Unlock()
		metrics.AddEntriesDropped(metrics.DropReasonRate, 1)
		return
	}

	s.queue = append(s.queue, entry)
	if s.cfg.MaxQueueSize > 0 && len(s.queue) > s.cfg.MaxQueueSize {
		evicted := len(s.queue) - s.cfg.MaxQueueSize
		copy(s.queue, s.queue[evicted:])
		s.queue = s.queue[:s.cfg.MaxQueueSize]
		metrics.AddEntriesDropped(metrics.DropReasonEviction, evicted)
	}
	metrics.SetQueueDepth(s.name, len(s.queue))

	if s.cfg.BatchSize <= 1 || len(s.queue) >= s.cfg.BatchSize {
		s.stopTimerLocked()
		s.mu.Unlock()
		go s.Flush()
		return
	}
	if s.timer == nil && s.cfg.FlushInterval > 0 {
		s.timer = time.AfterFunc(s.cfg.FlushInterval, s.timerFired)
	}
	s.mu.Unlock()
}

// runFilter evaluates a caller-supplied predicate. A panicking predicate must
// not escape into the instrumented application, so it counts as a rejection.
func runFilter(filter func(model.LogEntry) bool, entry model.LogEntry) (admitted bool) {
	defer func() {
		if recover() != nil {
			admitted = false
		}
	}()
	return filter(entry)
}

func (s *Slot) timerFired() {
	s.mu.Lock()
	s.timer = nil
	destroyed := s.destroyed
	s.mu.Unlock()
	if destroyed {
		return
	}
	s.Flush()
}

// Flush drains the queue through the destination and returns once every entry
// enqueued before the call has been delivered or dropped after exhausting its
// retries. Concurrent flushes queue behind the in-flight write and re-check
// the (possibly regrown) queue; an empty queue is a no-op. A destination that
// never returns holds the flush serialization for this slot indefinitely.
func (s *Slot) Flush() {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	for {
		s.mu.Lock()
		s.stopTimerLocked()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		batch := s.queue
		s.queue = nil
		metrics.SetQueueDepth(s.name, 0)
		s.mu.Unlock()
		s.writeWithRetry(batch)
	}
}

// writeWithRetry attempts delivery up to cfg.MaxRetries times, pausing
// cfg.RetryDelay between attempts, then discards the batch. Failures never
// propagate past the slot.
func (s *Slot) writeWithRetry(batch []model.LogEntry) {
	metrics.IncBatchesFlushed()
	ctx := context.Background() // destroying the slot does not cancel an in-flight write
	for attempt := 1; ; attempt++ {
		err := s.attemptWrite(ctx, batch)
		if err == nil {
			metrics.AddEntriesDelivered(len(batch))
			return
		}
		metrics.IncWriteFailures()
		s.logr.Error("destination write failed",
			loggerpkg.F("slot", s.name),
			loggerpkg.F("error", err),
			loggerpkg.F("attempt", attempt),
			loggerpkg.F("max_attempts", s.cfg.MaxRetries))
		if attempt >= s.cfg.MaxRetries {
			metrics.AddEntriesDropped(metrics.DropReasonRetries, len(batch))
			s.logr.Warn("dropping batch after exhausted retries",
				loggerpkg.F("slot", s.name),
				loggerpkg.F("batch_size", len(batch)))
			return
		}
		metrics.IncWriteRetries()
		util.WaitForRetry(ctx, s.cfg.RetryDelay)
	}
}

func (s *Slot) attemptWrite(ctx context.Context, batch []model.LogEntry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("destination panicked: %v", r)
		}
	}()
	return s.dest.Write(ctx, batch)
}

// destroy cancels the pending timer, discards queued entries and refuses all
// further enqueues. An in-flight write runs to completion in the background
// and its outcome is ignored.
func (s *Slot) destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.stopTimerLocked()
	if n := len(s.queue); n > 0 {
		metrics.AddEntriesDropped(metrics.DropReasonDestroy, n)
	}
	s.queue = nil
	metrics.DeleteQueueDepth(s.name)
}

func (s *Slot) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
