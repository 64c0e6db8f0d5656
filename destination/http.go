package destination

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/lechuhuuha/log_relay/model"
)

const defaultHTTPTimeout = 5 * time.Second

// HTTP posts each batch as an NDJSON body to a fixed URL. Any non-2xx status
// fails the whole batch so the slot's retry policy can take over.
type HTTP struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// NewHTTP builds an HTTP destination. The endpoint is validated here so a bad
// URL surfaces at configure time, not on the first write.
func NewHTTP(endpoint string, headers map[string]string) (*HTTP, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("http destination: invalid url %q", endpoint)
	}
	return &HTTP{
		url:     endpoint,
		headers: headers,
		client:  &http.Client{Timeout: defaultHTTPTimeout},
	}, nil
}

// Write implements Destination.
func (h *HTTP) Write(ctx context.Context, entries []model.LogEntry) error {
	payload, err := encodeNDJSON(entries)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	for k, v := range h.headers {
		req.Header.Set(k, v)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("post entries: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http destination returned status %d", resp.StatusCode)
	}
	return nil
}
