package destination

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/lechuhuuha/log_relay/model"
)

// Redis appends entries to a Redis stream, one XADD per entry, pipelined so a
// batch costs a single round trip.
type Redis struct {
	client *redis.Client
	stream string
	maxLen int64
}

// RedisConfig holds the settings for a Redis stream destination.
type RedisConfig struct {
	Addr   string
	Stream string
	// MaxLen trims the stream approximately to this length. Zero keeps
	// everything.
	MaxLen int64
}

// NewRedis builds a Redis destination.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis destination: addr must not be empty")
	}
	if cfg.Stream == "" {
		cfg.Stream = "log_relay"
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	return &Redis{client: client, stream: cfg.Stream, maxLen: cfg.MaxLen}, nil
}

// Write implements Destination.
func (r *Redis) Write(ctx context.Context, entries []model.LogEntry) error {
	pipe := r.client.Pipeline()
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: r.stream,
			MaxLen: r.maxLen,
			Approx: r.maxLen > 0,
			Values: map[string]any{
				"service": entry.Service,
				"level":   entry.Level.String(),
				"entry":   string(data),
			},
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append to stream: %w", err)
	}
	return nil
}

// Close releases the client's connections.
func (r *Redis) Close() error {
	return r.client.Close()
}
