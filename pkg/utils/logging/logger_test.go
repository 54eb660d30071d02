package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_WritesJSONFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

	logger, err := newLogger(dir, "test", false, now)
	require.NoError(t, err)

	logger.Debug("Loaded availability", zap.Int("employee_count", 5))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(filepath.Join(dir, "test_2026-10-15_09-30-00.log"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Loaded availability", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "test", entry["env"])
	assert.EqualValues(t, 5, entry["employee_count"])
	assert.Contains(t, entry, "timestamp")
}

func TestLogFilePath(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, filepath.Join("logs", "prod_2026-01-02_03-04-05.log"), logFilePath("logs", "prod", now))
}
