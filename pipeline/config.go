package pipeline

import (
	"time"

	"github.com/lechuhuuha/log_relay/model"
)

// SlotConfig tunes admission, batching, rate limiting and retry behavior for
// one destination. The zero value means: no filtering, unbuffered immediate
// writes, unbounded queue, no rate limit, no retries.
type SlotConfig struct {
	// Name labels the slot in diagnostics and metrics. Optional; the
	// dispatcher assigns a sequential name when empty.
	Name string

	// MinLevel drops entries ranking below it. LevelUnset disables the check.
	MinLevel model.Level

	// Filter drops entries it returns false for. Nil disables the check.
	Filter func(model.LogEntry) bool

	// BatchSize is the queue length that triggers an immediate flush.
	// Values below 1 mean every entry is flushed as it arrives.
	BatchSize int

	// FlushInterval is the lazy timer delay for partially filled batches.
	// Zero disables time-based flushing.
	FlushInterval time.Duration

	// MaxQueueSize caps the queue; the oldest entries are evicted beyond it.
	// Zero means unbounded.
	MaxQueueSize int

	// RateLimit caps admissions per one-second window. Zero means unlimited.
	RateLimit int

	// MaxRetries caps total write attempts per batch. Values below 1 mean a
	// single attempt with no retry.
	MaxRetries int

	// RetryDelay is the pause between write attempts.
	RetryDelay time.Duration
}

func (c SlotConfig) normalized() SlotConfig {
	if c.BatchSize < 1 {
		c.BatchSize = 1
	}
	if c.FlushInterval < 0 {
		c.FlushInterval = 0
	}
	if c.MaxQueueSize < 0 {
		c.MaxQueueSize = 0
	}
	if c.RateLimit < 0 {
		c.RateLimit = 0
	}
	if c.MaxRetries < 1 {
		c.MaxRetries = 1
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	return c
}
