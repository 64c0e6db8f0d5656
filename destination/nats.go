package destination

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/lechuhuuha/log_relay/model"
)

// NATS publishes one message per entry to a fixed subject.
type NATS struct {
	conn    *nats.Conn
	subject string
}

// NewNATS connects to the given NATS URL and publishes to subject.
func NewNATS(url, subject string) (*NATS, error) {
	if subject == "" {
		return nil, fmt.Errorf("nats destination: subject must not be empty")
	}
	conn, err := nats.Connect(url, nats.Name("log_relay"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATS{conn: conn, subject: subject}, nil
}

// NewNATSWithConn wraps an existing connection; the caller keeps ownership.
func NewNATSWithConn(conn *nats.Conn, subject string) (*NATS, error) {
	if conn == nil {
		return nil, fmt.Errorf("nats destination: connection must not be nil")
	}
	if subject == "" {
		return nil, fmt.Errorf("nats destination: subject must not be empty")
	}
	return &NATS{conn: conn, subject: subject}, nil
}

// Write implements Destination. Publishing is buffered client-side; a flush
// at the end makes the batch outcome observable so retries stay meaningful.
func (n *NATS) Write(ctx context.Context, entries []model.LogEntry) error {
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}
		if err := n.conn.Publish(n.subject, data); err != nil {
			return fmt.Errorf("publish entry: %w", err)
		}
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush publishes: %w", err)
	}
	return nil
}

// Close drains the connection.
func (n *NATS) Close() {
	if n.conn != nil && !n.conn.IsClosed() {
		n.conn.Close()
	}
}
