package destination

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lechuhuuha/log_relay/model"
)

func TestNewFileRequiresPath(t *testing.T) {
	_, err := NewFile("")
	require.Error(t, err)
}

func TestFileAppendsBatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.ndjson")
	f, err := NewFile(path)
	require.NoError(t, err)

	require.NoError(t, f.Write(context.Background(), []model.LogEntry{testEntry("a"), testEntry("b")}))
	require.NoError(t, f.Write(context.Background(), []model.LogEntry{testEntry("c")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"a"`)
	assert.Contains(t, lines[2], `"c"`)
}
