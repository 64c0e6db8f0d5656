// Package logger is the relay's own diagnostic logger. It reports pipeline
// internals (write failures, exhausted retries, reconfiguration) and is
// entirely separate from the entries the pipeline delivers.
package logger

// Field is one key/value diagnostic attribute.
type Field struct {
	Key   string
	Value any
}

// Logger is the minimal surface the pipeline needs for diagnostics.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// F builds a Field.
func F(key string, val any) Field { return Field{Key: key, Value: val} }

type nopLogger struct{}

func (nopLogger) Debug(msg string, fields ...Field) {}
func (nopLogger) Info(msg string, fields ...Field)  {}
func (nopLogger) Warn(msg string, fields ...Field)  {}
func (nopLogger) Error(msg string, fields ...Field) {}

// NewNop returns a logger that discards everything.
func NewNop() Logger { return nopLogger{} }
