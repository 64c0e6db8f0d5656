package model

import (
	"fmt"
	"strings"
	"time"
)

// Level orders log severities from least to most severe.
type Level int

const (
	// LevelUnset means no level was supplied; filters treat it as "match everything".
	LevelUnset Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

// String returns the lowercase name of the level.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unset"
}

// MarshalJSON renders the level as its lowercase name.
func (l Level) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// UnmarshalJSON parses a quoted level name.
func (l *Level) UnmarshalJSON(data []byte) error {
	parsed, err := ParseLevel(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel maps a level name to its Level. Unknown names are a configuration
// error and are reported to the caller rather than defaulted away.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "":
		return LevelUnset, nil
	default:
		return LevelUnset, fmt.Errorf("unknown log level %q", name)
	}
}

// LogEntry is a single log record flowing through the pipeline. Entries are
// never mutated after construction; one entry may be shared by reference
// across every destination it fans out to.
type LogEntry struct {
	Level     Level          `json:"level"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Service   string         `json:"service"`
	Scope     string         `json:"scope,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}
