package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/config"
)

func TestNewLoggerWritesFile(t *testing.T) {
	cfg := config.Default()
	cfg.LogJSON = true
	cfg.LogFile = filepath.Join(t.TempDir(), "emojimap.log")

	l, err := NewLogger(&cfg)
	require.NoError(t, err)

	l.Infow("marker created", "id", "abc")
	_ = l.Sync()

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"marker created"`)
	assert.Contains(t, string(data), `"id":"abc"`)
}

func TestNewLoggerConsoleFileHasNoColor(t *testing.T) {
	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "emojimap.log")

	l, err := NewLogger(&cfg)
	require.NoError(t, err)

	l.Warnw("tag swept", "count", 2)
	_ = l.Sync()

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "WARN")
	assert.Contains(t, string(data), "tag swept")
	assert.NotContains(t, string(data), "\x1b[")
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "loud"

	_, err := NewLogger(&cfg)
	assert.Error(t, err)
}
