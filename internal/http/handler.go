// Package httpapi exposes the relay's HTTP ingest surface.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lechuhuuha/log_relay/internal/metrics"
	loggerpkg "github.com/lechuhuuha/log_relay/logger"
	"github.com/lechuhuuha/log_relay/model"
	"github.com/lechuhuuha/log_relay/pipeline"
)

const maxRequestBodyBytes = 2 << 20 // 2 MiB

var errUnsupportedContentType = errors.New("unsupported content-type")

// Handler accepts batches of records over HTTP and hands them to the
// dispatcher. Ingest is fire-and-forget: once a payload decodes, the request
// is accepted regardless of what individual slots later do with the entries.
type Handler struct {
	dispatcher *pipeline.Dispatcher
	service    string
	logger     loggerpkg.Logger
}

// NewHandler builds the ingest handler. The service name is stamped onto
// records that arrive without one.
func NewHandler(dispatcher *pipeline.Dispatcher, service string, logr loggerpkg.Logger) *Handler {
	if logr == nil {
		logr = loggerpkg.NewNop()
	}
	return &Handler{dispatcher: dispatcher, service: service, logger: logr}
}

// RegisterRoutes attaches the ingest endpoints to the provided mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/logs", h.handleLogs)
}

func (h *Handler) handleLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer r.Body.Close()

	entries, err := h.decodeEntries(r)
	if err != nil {
		metrics.IncInvalidRequests()
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.Is(err, errUnsupportedContentType):
			http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		case errors.As(err, &maxBytesErr):
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	for _, entry := range entries {
		h.dispatcher.Dispatch(entry)
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) decodeEntries(r *http.Request) ([]model.LogEntry, error) {
	if ct := r.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return nil, fmt.Errorf("%w: %s", errUnsupportedContentType, ct)
	}

	decoder := json.NewDecoder(r.Body)
	var entries []model.LogEntry
	if err := decoder.Decode(&entries); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}
	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != io.EOF {
		return nil, errors.New("invalid JSON payload: unexpected trailing data")
	}
	return h.validate(entries)
}

func (h *Handler) validate(entries []model.LogEntry) ([]model.LogEntry, error) {
	if len(entries) == 0 {
		return nil, errors.New("no log entries provided")
	}
	now := time.Now().UTC()
	for i := range entries {
		if strings.TrimSpace(entries[i].Message) == "" {
			return nil, fmt.Errorf("entry %d missing message", i)
		}
		if entries[i].Level == model.LevelUnset {
			entries[i].Level = model.LevelInfo
		}
		if entries[i].Timestamp.IsZero() {
			entries[i].Timestamp = now
		} else {
			entries[i].Timestamp = entries[i].Timestamp.UTC()
		}
		if strings.TrimSpace(entries[i].Service) == "" {
			entries[i].Service = h.service
		}
	}
	return entries, nil
}
