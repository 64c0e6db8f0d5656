package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lechuhuuha/log_relay/destination"
	loggerpkg "github.com/lechuhuuha/log_relay/logger"
	"github.com/lechuhuuha/log_relay/model"
	"github.com/lechuhuuha/log_relay/pipeline"
)

func newTestHandler(t *testing.T) (*http.ServeMux, *destination.Memory, *pipeline.Dispatcher) {
	t.Helper()
	mem := destination.NewMemory()
	d := pipeline.NewDispatcher([]pipeline.Sink{
		{Destination: mem, Config: pipeline.SlotConfig{BatchSize: 100}},
	}, loggerpkg.NewNop())
	t.Cleanup(d.Close)

	mux := http.NewServeMux()
	NewHandler(d, "ingest-default", loggerpkg.NewNop()).RegisterRoutes(mux)
	return mux, mem, d
}

func postLogs(mux *http.ServeMux, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/logs", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleLogs(t *testing.T) {
	cases := []struct {
		name        string
		method      string
		contentType string
		body        string
		wantStatus  int
		wantCount   int
	}{
		{
			name:        "accepts json batch",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `[{"level":"info","message":"hello"},{"level":"error","message":"bad"}]`,
			wantStatus:  http.StatusAccepted,
			wantCount:   2,
		},
		{
			name:        "rejects wrong method",
			method:      http.MethodGet,
			contentType: "application/json",
			body:        "",
			wantStatus:  http.StatusMethodNotAllowed,
		},
		{
			name:        "rejects wrong content type",
			method:      http.MethodPost,
			contentType: "text/plain",
			body:        "hello",
			wantStatus:  http.StatusUnsupportedMediaType,
		},
		{
			name:        "rejects malformed json",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `[{"level":`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "rejects trailing data",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `[{"message":"a"}] [{"message":"b"}]`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "rejects empty batch",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `[]`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "rejects missing message",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `[{"level":"info"}]`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "rejects unknown level",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `[{"level":"loud","message":"x"}]`,
			wantStatus:  http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mux, mem, d := newTestHandler(t)

			req := httptest.NewRequest(tc.method, "/logs", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", tc.contentType)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status: got=%d want=%d body=%s", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if err := d.FlushAll(context.Background()); err != nil {
				t.Fatalf("flush all: %v", err)
			}
			if got := len(mem.Entries()); got != tc.wantCount {
				t.Fatalf("dispatched entries: got=%d want=%d", got, tc.wantCount)
			}
		})
	}
}

func TestHandleLogsStampsDefaults(t *testing.T) {
	mux, mem, d := newTestHandler(t)

	rec := postLogs(mux, "application/json", `[{"message":"bare"}]`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	if err := d.FlushAll(context.Background()); err != nil {
		t.Fatalf("flush all: %v", err)
	}

	entries := mem.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Level != model.LevelInfo {
		t.Fatalf("default level: got %v", entries[0].Level)
	}
	if entries[0].Service != "ingest-default" {
		t.Fatalf("default service: got %q", entries[0].Service)
	}
	if entries[0].Timestamp.IsZero() {
		t.Fatal("timestamp not stamped")
	}
}
