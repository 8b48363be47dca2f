package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hub.log")
	l := NewIsolatedLogger(path)

	l.Debug("Hub", "dropped below info", nil)
	l.Info("Hub", "Device connected", map[string]interface{}{"device_id": "d1"})
	l.Error("Hub", "boom", map[string]interface{}{"error": "x"})
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var lines []map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	for dec.More() {
		var line map[string]interface{}
		require.NoError(t, dec.Decode(&line))
		lines = append(lines, line)
	}

	require.Len(t, lines, 2)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "Device connected", lines[0]["message"])
	assert.Equal(t, "Hub", lines[0]["module"])
	assert.Equal(t, map[string]interface{}{"device_id": "d1"}, lines[0]["details"])
	assert.Equal(t, "x", lines[1]["error_ref"])
}

func TestNopLogger(t *testing.T) {
	var l ILogger = NewNopLogger()
	l.Warn("Test", "ignored", nil)
	assert.NoError(t, l.Sync())
}
