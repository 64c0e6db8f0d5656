package util

import (
	"context"
	"time"
)

// WaitForRetry blocks for the given duration and exits early when the context
// is canceled. Returns false when the wait was interrupted.
func WaitForRetry(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
