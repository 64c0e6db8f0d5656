// Package config loads the relay's YAML configuration and builds the
// destination set for a dispatcher. All validation happens here,
// synchronously, before any slot exists.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lechuhuuha/log_relay/destination"
	"github.com/lechuhuuha/log_relay/model"
	"github.com/lechuhuuha/log_relay/pipeline"
)

// Destination type names recognized in the configuration file.
const (
	TypeConsole = "console"
	TypeMemory  = "memory"
	TypeFile    = "file"
	TypeHTTP    = "http"
	TypeLoki    = "loki"
	TypeKafka   = "kafka"
	TypeNATS    = "nats"
	TypeRedis   = "redis"
	TypeMinIO   = "minio"
)

// Config models the YAML configuration file.
type Config struct {
	Service      string              `yaml:"service"`
	Server       ServerConfig        `yaml:"server"`
	Tail         TailConfig          `yaml:"tail"`
	Destinations []DestinationConfig `yaml:"destinations"`
}

// ServerConfig contains HTTP ingest server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// TailConfig enables agent mode: follow a file and relay each line.
type TailConfig struct {
	Path string `yaml:"path"`
}

// DestinationConfig describes one destination plus its slot tuning. All slot
// fields are optional; a destination with none of them set is immediate,
// unbuffered, unfiltered, unlimited and never retried.
type DestinationConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	MinLevel      string `yaml:"minLevel"`
	BatchSize     int    `yaml:"batchSize"`
	FlushInterval string `yaml:"flushInterval"`
	MaxQueueSize  int    `yaml:"maxQueueSize"`
	RateLimit     int    `yaml:"rateLimit"`
	MaxRetries    int    `yaml:"maxRetries"`
	RetryDelay    string `yaml:"retryDelay"`

	// file
	Path string `yaml:"path"`
	// http / loki / nats
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
	// kafka
	Brokers        []string `yaml:"brokers"`
	Topic          string   `yaml:"topic"`
	RequireAllAcks bool     `yaml:"requireAllAcks"`
	// nats
	Subject string `yaml:"subject"`
	// redis
	Addr   string `yaml:"addr"`
	Stream string `yaml:"stream"`
	MaxLen int64  `yaml:"maxLen"`
	// minio
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSSL"`
	Prefix    string `yaml:"prefix"`
}

// Load parses a YAML configuration file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates raw YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Service) == "" {
		c.Service = "log_relay"
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = ":8082"
	}
}

func (c *Config) validate() error {
	for i := range c.Destinations {
		dc := &c.Destinations[i]
		if strings.TrimSpace(dc.Type) == "" {
			return fmt.Errorf("destination %d: type is required", i)
		}
		switch dc.Type {
		case TypeConsole, TypeMemory, TypeFile, TypeHTTP, TypeLoki, TypeKafka, TypeNATS, TypeRedis, TypeMinIO:
		default:
			return fmt.Errorf("destination %d: unknown type %q", i, dc.Type)
		}
		if _, err := model.ParseLevel(dc.MinLevel); err != nil {
			return fmt.Errorf("destination %d: %w", i, err)
		}
		if _, err := parseDurationOrZero(dc.FlushInterval); err != nil {
			return fmt.Errorf("destination %d: invalid flushInterval: %w", i, err)
		}
		if _, err := parseDurationOrZero(dc.RetryDelay); err != nil {
			return fmt.Errorf("destination %d: invalid retryDelay: %w", i, err)
		}
	}
	return nil
}

// SlotConfig converts the YAML tuning fields into pipeline settings. The
// config is validated beforehand, so parse failures cannot occur here.
func (dc *DestinationConfig) SlotConfig() pipeline.SlotConfig {
	minLevel, _ := model.ParseLevel(dc.MinLevel)
	flushInterval, _ := parseDurationOrZero(dc.FlushInterval)
	retryDelay, _ := parseDurationOrZero(dc.RetryDelay)
	return pipeline.SlotConfig{
		Name:          dc.Name,
		MinLevel:      minLevel,
		BatchSize:     dc.BatchSize,
		FlushInterval: flushInterval,
		MaxQueueSize:  dc.MaxQueueSize,
		RateLimit:     dc.RateLimit,
		MaxRetries:    dc.MaxRetries,
		RetryDelay:    retryDelay,
	}
}

// BuildSinks constructs every configured destination and pairs it with its
// slot config. The returned closer releases destination-held connections and
// is safe to call once after the dispatcher is done.
func (c *Config) BuildSinks(ctx context.Context) ([]pipeline.Sink, func(), error) {
	var (
		sinks   []pipeline.Sink
		closers []func()
	)
	closeAll := func() {
		for _, fn := range closers {
			fn()
		}
	}

	for i := range c.Destinations {
		dc := &c.Destinations[i]
		dest, closer, err := dc.build(ctx)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("destination %d (%s): %w", i, dc.Type, err)
		}
		if closer != nil {
			closers = append(closers, closer)
		}
		sinks = append(sinks, pipeline.Sink{Destination: dest, Config: dc.SlotConfig()})
	}
	return sinks, closeAll, nil
}

func (dc *DestinationConfig) build(ctx context.Context) (destination.Destination, func(), error) {
	switch dc.Type {
	case TypeConsole:
		return destination.NewWriter(os.Stdout), nil, nil
	case TypeMemory:
		return destination.NewMemory(), nil, nil
	case TypeFile:
		dest, err := destination.NewFile(dc.Path)
		return dest, nil, err
	case TypeHTTP:
		dest, err := destination.NewHTTP(dc.URL, dc.Headers)
		return dest, nil, err
	case TypeLoki:
		dest, err := destination.NewLoki(dc.URL)
		return dest, nil, err
	case TypeKafka:
		dest, err := destination.NewKafka(destination.KafkaConfig{
			Brokers:        dc.Brokers,
			Topic:          dc.Topic,
			RequireAllAcks: dc.RequireAllAcks,
		})
		if err != nil {
			return nil, nil, err
		}
		return dest, func() { _ = dest.Close() }, nil
	case TypeNATS:
		dest, err := destination.NewNATS(dc.URL, dc.Subject)
		if err != nil {
			return nil, nil, err
		}
		return dest, dest.Close, nil
	case TypeRedis:
		dest, err := destination.NewRedis(destination.RedisConfig{
			Addr:   dc.Addr,
			Stream: dc.Stream,
			MaxLen: dc.MaxLen,
		})
		if err != nil {
			return nil, nil, err
		}
		return dest, func() { _ = dest.Close() }, nil
	case TypeMinIO:
		dest, err := destination.NewMinIO(ctx, destination.MinIOConfig{
			Endpoint:  dc.Endpoint,
			Bucket:    dc.Bucket,
			AccessKey: dc.AccessKey,
			SecretKey: dc.SecretKey,
			UseSSL:    dc.UseSSL,
			Prefix:    dc.Prefix,
		})
		return dest, nil, err
	default:
		return nil, nil, fmt.Errorf("unknown type %q", dc.Type)
	}
}

func parseDurationOrZero(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return time.ParseDuration(value)
}
