package destination

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/lechuhuuha/log_relay/model"
)

// KafkaConfig holds the settings for a Kafka destination.
type KafkaConfig struct {
	Brokers        []string
	Topic          string
	WriteTimeout   time.Duration
	RequireAllAcks bool
}

// Kafka produces one message per entry, keyed by service so one service's
// logs stay on one partition. The relay's retry policy sits above the write,
// so the writer itself is synchronous with a single attempt.
type Kafka struct {
	writer    *kafka.Writer
	closeOnce sync.Once
}

// NewKafka builds a Kafka destination.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka destination: brokers must be provided")
	}
	if cfg.Topic == "" {
		cfg.Topic = "logs"
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	requiredAcks := kafka.RequireOne
	if cfg.RequireAllAcks {
		requiredAcks = kafka.RequireAll
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: requiredAcks,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  1,
	}
	return &Kafka{writer: writer}, nil
}

// Write implements Destination.
func (k *Kafka) Write(ctx context.Context, entries []model.LogEntry) error {
	messages := make([]kafka.Message, len(entries))
	for i, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}
		messages[i] = kafka.Message{
			Key:   []byte(entry.Service),
			Value: data,
			Time:  entry.Timestamp,
		}
	}
	return k.writer.WriteMessages(ctx, messages...)
}

// Close flushes and closes the underlying writer.
func (k *Kafka) Close() error {
	var err error
	k.closeOnce.Do(func() {
		err = k.writer.Close()
	})
	return err
}
