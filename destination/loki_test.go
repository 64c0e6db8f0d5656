package destination

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lechuhuuha/log_relay/model"
)

func TestLokiGroupsEntriesIntoStreams(t *testing.T) {
	var gotPath string
	var payload lokiPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	dest, err := NewLoki(srv.URL)
	require.NoError(t, err)

	entries := []model.LogEntry{testEntry("first"), testEntry("second")}
	entries[1].Level = model.LevelError
	entries[1].Scope = "db"
	require.NoError(t, dest.Write(context.Background(), entries))

	assert.Equal(t, "/loki/api/v1/push", gotPath)
	require.Len(t, payload.Streams, 2)

	assert.Equal(t, "svc", payload.Streams[0].Stream["service"])
	assert.Equal(t, "info", payload.Streams[0].Stream["level"])
	require.Len(t, payload.Streams[0].Values, 1)
	assert.Equal(t, "first", payload.Streams[0].Values[0][1])

	assert.Equal(t, "error", payload.Streams[1].Stream["level"])
	assert.Equal(t, "db", payload.Streams[1].Stream["scope"])
}

func TestLokiSameLabelsShareOneStream(t *testing.T) {
	var payload lokiPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	dest, err := NewLoki(srv.URL)
	require.NoError(t, err)

	require.NoError(t, dest.Write(context.Background(), []model.LogEntry{testEntry("a"), testEntry("b")}))
	require.Len(t, payload.Streams, 1)
	assert.Len(t, payload.Streams[0].Values, 2)
}

func TestNewLokiValidatesURL(t *testing.T) {
	_, err := NewLoki("not a url")
	assert.Error(t, err)
}
