package pipeline

import "time"

// rateWindow is a lazily reset one-second admission counter. There is no
// background ticking: the window start is re-checked on each admission, so an
// idle slot costs nothing.
type rateWindow struct {
	limit int
	start time.Time
	count int
}

// admit reports whether one more entry fits in the current window, resetting
// the window first when more than a second has passed since it opened.
func (w *rateWindow) admit(now time.Time) bool {
	if w.limit <= 0 {
		return true
	}
	if now.Sub(w.start) > time.Second {
		w.start = now
		w.count = 0
	}
	if w.count >= w.limit {
		return false
	}
	w.count++
	return true
}
