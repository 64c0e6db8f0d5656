// Package tailer follows a log file and relays each appended line through the
// façade, letting relayd run as a forwarding agent.
package tailer

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/hpcloud/tail"

	loggerpkg "github.com/lechuhuuha/log_relay/logger"
	"github.com/lechuhuuha/log_relay/relay"
)

// Tailer forwards appended lines of one file as info-level entries.
type Tailer struct {
	path string
	out  *relay.Logger
	logr loggerpkg.Logger

	mu      sync.Mutex
	t       *tail.Tail
	done    chan struct{}
	started bool
}

// New builds a tailer for the given path, emitting through out.
func New(path string, out *relay.Logger, logr loggerpkg.Logger) *Tailer {
	if logr == nil {
		logr = loggerpkg.NewNop()
	}
	return &Tailer{path: path, out: out.With("tail"), logr: logr}
}

// Start begins following the file from its current end. Lines appended while
// the tailer runs are relayed; pre-existing content is skipped.
func (t *Tailer) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return fmt.Errorf("tailer already started")
	}

	tf, err := tail.TailFile(t.path, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:   tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("tail %s: %w", t.path, err)
	}
	t.t = tf
	t.done = make(chan struct{})
	t.started = true

	go t.run(ctx, tf)
	return nil
}

func (t *Tailer) run(ctx context.Context, tf *tail.Tail) {
	defer close(t.done)
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-tf.Lines:
			if !ok {
				return
			}
			if line.Err != nil {
				t.logr.Warn("tail read error",
					loggerpkg.F("path", t.path),
					loggerpkg.F("error", line.Err))
				continue
			}
			t.out.Info(line.Text, relay.F("source", t.path))
		}
	}
}

// Stop halts the tail and waits for the relay goroutine to exit.
func (t *Tailer) Stop() {
	t.mu.Lock()
	tf, done, started := t.t, t.done, t.started
	t.mu.Unlock()
	if !started {
		return
	}
	_ = tf.Stop()
	<-done
}
