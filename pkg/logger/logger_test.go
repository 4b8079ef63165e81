package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"skillify_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		mode, level string
		want        zapcore.Level
	}{
		{"debug", "", zap.DebugLevel},
		{"release", "", zap.InfoLevel},
		{"release", "warn", zap.WarnLevel},
		{"debug", "loud", zap.DebugLevel},
	}
	for _, tt := range tests {
		cfg := &config.Config{Server: config.ServerConfig{Mode: tt.mode}, Log: config.LogConfig{Level: tt.level}}
		assert.Equal(t, tt.want, Level(cfg), "mode=%s level=%s", tt.mode, tt.level)
	}
}

func TestNew_WritesServiceFields(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "release"},
		Log:    config.LogConfig{File: file, MaxSizeMB: 1},
	}
	var console bytes.Buffer
	log := New(cfg, zapcore.AddSync(&console))

	log.Debug("hidden")
	log.Info("video completed", zap.Uint("userId", 7))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "skillify", entry["service"])
	assert.Equal(t, "release", entry["mode"])
	assert.Equal(t, "video completed", entry["msg"])
	assert.EqualValues(t, 7, entry["userId"])
	assert.Contains(t, console.String(), "video completed")
}
