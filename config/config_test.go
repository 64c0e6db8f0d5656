package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lechuhuuha/log_relay/model"
)

const validYAML = `
service: orders-api
server:
  addr: ":9090"
destinations:
  - name: console
    type: console
    minLevel: info
  - name: archive
    type: file
    path: logs/app.ndjson
    batchSize: 64
    flushInterval: 500ms
    maxQueueSize: 10000
    rateLimit: 100
    maxRetries: 3
    retryDelay: 200ms
  - type: memory
`

func TestParseValidConfig(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, "orders-api", cfg.Service)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	require.Len(t, cfg.Destinations, 3)

	slot := cfg.Destinations[1].SlotConfig()
	assert.Equal(t, "archive", slot.Name)
	assert.Equal(t, 64, slot.BatchSize)
	assert.Equal(t, 500*time.Millisecond, slot.FlushInterval)
	assert.Equal(t, 10000, slot.MaxQueueSize)
	assert.Equal(t, 100, slot.RateLimit)
	assert.Equal(t, 3, slot.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, slot.RetryDelay)

	consoleSlot := cfg.Destinations[0].SlotConfig()
	assert.Equal(t, model.LevelInfo, consoleSlot.MinLevel)
	// A destination without tuning is immediate and unfiltered.
	memSlot := cfg.Destinations[2].SlotConfig()
	assert.Equal(t, model.LevelUnset, memSlot.MinLevel)
	assert.Equal(t, 0, memSlot.BatchSize)
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("destinations: []"))
	require.NoError(t, err)
	assert.Equal(t, "log_relay", cfg.Service)
	assert.Equal(t, ":8082", cfg.Server.Addr)
}

func TestParseRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{
			name: "unknown destination type",
			yaml: "destinations:\n  - type: carrier-pigeon\n",
		},
		{
			name: "missing type",
			yaml: "destinations:\n  - name: x\n",
		},
		{
			name: "unknown level",
			yaml: "destinations:\n  - type: memory\n    minLevel: loud\n",
		},
		{
			name: "bad flush interval",
			yaml: "destinations:\n  - type: memory\n    flushInterval: soon\n",
		},
		{
			name: "bad retry delay",
			yaml: "destinations:\n  - type: memory\n    retryDelay: later\n",
		},
		{
			name: "not yaml",
			yaml: "{{{",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "orders-api", cfg.Service)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuildSinks(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Parse([]byte(`
destinations:
  - name: console
    type: console
  - name: archive
    type: file
    path: ` + filepath.Join(dir, "app.ndjson") + `
  - name: buffer
    type: memory
    batchSize: 8
`))
	require.NoError(t, err)

	sinks, closeSinks, err := cfg.BuildSinks(context.Background())
	require.NoError(t, err)
	defer closeSinks()

	require.Len(t, sinks, 3)
	for _, sink := range sinks {
		assert.NotNil(t, sink.Destination)
	}
	assert.Equal(t, 8, sinks[2].Config.BatchSize)
}

func TestBuildSinksSurfacesDestinationErrors(t *testing.T) {
	cfg, err := Parse([]byte(`
destinations:
  - type: http
    url: "not a url"
`))
	require.NoError(t, err)

	_, _, err = cfg.BuildSinks(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http")
}
