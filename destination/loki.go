package destination

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lechuhuuha/log_relay/model"
)

// Loki pushes batches to a Loki push API endpoint, grouping entries into one
// stream per service/scope/level label set.
type Loki struct {
	pushURL string
	client  *http.Client
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

type lokiPayload struct {
	Streams []lokiStream `json:"streams"`
}

// NewLoki builds a Loki destination from the aggregator base URL.
func NewLoki(baseURL string) (*Loki, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("loki destination: invalid url %q", baseURL)
	}
	return &Loki{
		pushURL: parsed.JoinPath("/loki/api/v1/push").String(),
		client:  &http.Client{Timeout: defaultHTTPTimeout},
	}, nil
}

// Write implements Destination.
func (l *Loki) Write(ctx context.Context, entries []model.LogEntry) error {
	body, err := json.Marshal(l.buildPayload(entries))
	if err != nil {
		return fmt.Errorf("marshal loki payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.pushURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("push entries: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("loki returned status %d", resp.StatusCode)
	}
	return nil
}

func (l *Loki) buildPayload(entries []model.LogEntry) lokiPayload {
	streams := make(map[string]*lokiStream)
	order := make([]string, 0, len(entries))

	for _, entry := range entries {
		labels := map[string]string{
			"service": entry.Service,
			"level":   entry.Level.String(),
		}
		if entry.Scope != "" {
			labels["scope"] = entry.Scope
		}
		key := labels["service"] + "/" + labels["level"] + "/" + entry.Scope
		stream, ok := streams[key]
		if !ok {
			stream = &lokiStream{Stream: labels}
			streams[key] = stream
			order = append(order, key)
		}
		line := entry.Message
		if len(entry.Metadata) > 0 {
			if meta, err := json.Marshal(entry.Metadata); err == nil {
				line = line + " " + string(meta)
			}
		}
		stream.Values = append(stream.Values, [2]string{
			strconv.FormatInt(entry.Timestamp.UnixNano(), 10),
			line,
		})
	}

	payload := lokiPayload{Streams: make([]lokiStream, 0, len(order))}
	for _, key := range order {
		payload.Streams = append(payload.Streams, *streams[key])
	}
	return payload
}
