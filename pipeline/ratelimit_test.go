package pipeline

import (
	"testing"
	"time"
)

func TestRateWindow(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("zero limit never rejects", func(t *testing.T) {
		w := rateWindow{limit: 0}
		for i := 0; i < 1000; i++ {
			if !w.admit(base) {
				t.Fatalf("unlimited window rejected admission %d", i)
			}
		}
	})

	t.Run("admits exactly limit per window", func(t *testing.T) {
		w := rateWindow{limit: 3}
		admitted := 0
		for i := 0; i < 5; i++ {
			if w.admit(base.Add(time.Duration(i) * 100 * time.Millisecond)) {
				admitted++
			}
		}
		if admitted != 3 {
			t.Fatalf("expected 3 admissions, got %d", admitted)
		}
	})

	t.Run("window resets after a second elapses", func(t *testing.T) {
		w := rateWindow{limit: 1}
		if !w.admit(base) {
			t.Fatal("first admission rejected")
		}
		if w.admit(base.Add(900 * time.Millisecond)) {
			t.Fatal("admission within window not limited")
		}
		// Exactly one second has not yet elapsed beyond the window start.
		if w.admit(base.Add(time.Second)) {
			t.Fatal("window reset too early")
		}
		if !w.admit(base.Add(time.Second + time.Millisecond)) {
			t.Fatal("window did not reset after a second")
		}
	})

	t.Run("counter restarts on reset", func(t *testing.T) {
		w := rateWindow{limit: 2}
		w.admit(base)
		w.admit(base)
		later := base.Add(2 * time.Second)
		admitted := 0
		for i := 0; i < 4; i++ {
			if w.admit(later) {
				admitted++
			}
		}
		if admitted != 2 {
			t.Fatalf("expected 2 admissions after reset, got %d", admitted)
		}
	})
}
