// Package metrics exposes Prometheus instrumentation for the delivery pipeline.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop reasons recorded on entriesDropped.
const (
	DropReasonLevel    = "level"
	DropReasonFilter   = "filter"
	DropReasonRate     = "rate_limit"
	DropReasonEviction = "eviction"
	DropReasonRetries  = "retries_exhausted"
	DropReasonDestroy  = "slot_destroyed"
)

var (
	entriesDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_entries_dispatched_total",
		Help: "Total number of log entries handed to the dispatcher.",
	})
	entriesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_entries_dropped_total",
		Help: "Total number of log entries dropped per slot, by reason.",
	}, []string{"reason"})
	entriesDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_entries_delivered_total",
		Help: "Total number of log entries accepted by a destination.",
	})
	batchesFlushed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_batches_flushed_total",
		Help: "Total number of batches handed to destination writes.",
	})
	writeRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_write_retries_total",
		Help: "Total number of destination write attempts after the first.",
	})
	writeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_write_failures_total",
		Help: "Total number of failed destination write attempts.",
	})
	invalidRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_invalid_requests_total",
		Help: "Total number of invalid ingest requests rejected during decoding.",
	})
	queueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "relay_slot_queue_depth",
		Help: "Number of entries currently queued per slot.",
	}, []string{"slot"})

	collectorsOnce sync.Once
)

// Init registers default Go/process collectors. Safe to call multiple times.
func Init() {
	collectorsOnce.Do(func() {
		registerCollector(collectors.NewGoCollector())
		registerCollector(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

func registerCollector(c prometheus.Collector) {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			_ = are.ExistingCollector
			return
		}
		panic(err)
	}
}

// IncEntriesDispatched counts one entry handed to the dispatcher.
func IncEntriesDispatched() {
	entriesDispatched.Inc()
}

// AddEntriesDropped counts entries dropped for the given reason.
func AddEntriesDropped(reason string, n int) {
	if n <= 0 {
		return
	}
	entriesDropped.WithLabelValues(reason).Add(float64(n))
}

// AddEntriesDelivered counts entries accepted by a destination.
func AddEntriesDelivered(n int) {
	if n <= 0 {
		return
	}
	entriesDelivered.Add(float64(n))
}

// IncBatchesFlushed counts one batch handed to a destination write.
func IncBatchesFlushed() {
	batchesFlushed.Inc()
}

// IncWriteRetries counts one retried write attempt.
func IncWriteRetries() {
	writeRetries.Inc()
}

// IncWriteFailures counts one failed write attempt.
func IncWriteFailures() {
	writeFailures.Inc()
}

// IncInvalidRequests counts one rejected ingest request.
func IncInvalidRequests() {
	invalidRequests.Inc()
}

// SetQueueDepth records the current queue length for a slot.
func SetQueueDepth(slot string, n int) {
	if n < 0 {
		n = 0
	}
	queueDepth.WithLabelValues(slot).Set(float64(n))
}

// DeleteQueueDepth drops the gauge series for a destroyed slot.
func DeleteQueueDepth(slot string) {
	queueDepth.DeleteLabelValues(slot)
}
