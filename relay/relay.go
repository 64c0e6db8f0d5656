// Package relay is the public logging façade. It assembles immutable log
// entries and hands them to the delivery pipeline; it carries no queueing,
// retry or ordering logic of its own.
package relay

import (
	"time"

	"github.com/lechuhuuha/log_relay/model"
	"github.com/lechuhuuha/log_relay/pipeline"
)

// Field is one metadata attribute attached to an entry.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, val any) Field { return Field{Key: key, Value: val} }

// Logger emits entries for one service through a dispatcher. Loggers are
// immutable; With and WithFields return children sharing the same dispatcher.
type Logger struct {
	dispatcher *pipeline.Dispatcher
	service    string
	scope      string
	fields     map[string]any
}

// New builds a façade over the given dispatcher.
func New(dispatcher *pipeline.Dispatcher, service string) *Logger {
	return &Logger{dispatcher: dispatcher, service: service}
}

// With returns a child logger tagged with the given scope. Nested scopes are
// joined with a dot.
func (l *Logger) With(scope string) *Logger {
	child := l.clone()
	if l.scope != "" && scope != "" {
		child.scope = l.scope + "." + scope
	} else if scope != "" {
		child.scope = scope
	}
	return child
}

// WithFields returns a child logger whose entries carry the merged metadata.
// Child keys override parent keys; neither map is mutated.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	child := l.clone()
	for k, v := range fields {
		child.fields[k] = v
	}
	return child
}

func (l *Logger) clone() *Logger {
	fields := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return &Logger{
		dispatcher: l.dispatcher,
		service:    l.service,
		scope:      l.scope,
		fields:     fields,
	}
}

// Debug emits a debug-level entry.
func (l *Logger) Debug(msg string, fields ...Field) { l.log(model.LevelDebug, msg, fields) }

// Info emits an info-level entry.
func (l *Logger) Info(msg string, fields ...Field) { l.log(model.LevelInfo, msg, fields) }

// Warn emits a warn-level entry.
func (l *Logger) Warn(msg string, fields ...Field) { l.log(model.LevelWarn, msg, fields) }

// Error emits an error-level entry.
func (l *Logger) Error(msg string, fields ...Field) { l.log(model.LevelError, msg, fields) }

// StartTimer returns a func that emits an info entry carrying the elapsed
// time since StartTimer was called.
func (l *Logger) StartTimer(msg string) func(fields ...Field) {
	start := time.Now()
	return func(fields ...Field) {
		fields = append(fields, F("elapsed_ms", time.Since(start).Milliseconds()))
		l.log(model.LevelInfo, msg, fields)
	}
}

func (l *Logger) log(level model.Level, msg string, fields []Field) {
	var metadata map[string]any
	if len(l.fields) > 0 || len(fields) > 0 {
		metadata = make(map[string]any, len(l.fields)+len(fields))
		for k, v := range l.fields {
			metadata[k] = v
		}
		for _, f := range fields {
			metadata[f.Key] = f.Value
		}
	}
	l.dispatcher.Dispatch(model.LogEntry{
		Level:     level,
		Message:   msg,
		Timestamp: time.Now().UTC(),
		Service:   l.service,
		Scope:     l.scope,
		Metadata:  metadata,
	})
}
