// Package destination contains the delivery sinks the pipeline fans out to.
package destination

import (
	"context"

	"github.com/lechuhuuha/log_relay/model"
)

// Destination accepts one batch of log entries. A batch always holds at least
// one entry; destinations that cannot optimize multi-entry writes simply loop.
// Write is never called concurrently for the same slot. A returned error means
// the whole batch was rejected and may be retried as a whole.
type Destination interface {
	Write(ctx context.Context, entries []model.LogEntry) error
}

// Func adapts a plain function to the Destination interface.
type Func func(ctx context.Context, entries []model.LogEntry) error

// Write implements Destination.
func (f Func) Write(ctx context.Context, entries []model.LogEntry) error {
	return f(ctx, entries)
}
