package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zap.DebugLevel, false},
		{"INFO", zap.InfoLevel, false},
		{"", zap.InfoLevel, false},
		{"warning", zap.WarnLevel, false},
		{"Error", zap.ErrorLevel, false},
		{"loud", zap.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewCoreFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := zap.New(NewCore(zap.WarnLevel, zapcore.AddSync(&buf)))

	log.Info("quiet")
	log.Warn("price cache unreadable", zap.String("path", "gold.csv"))
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "price cache unreadable")
	assert.Contains(t, out, "gold.csv")
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "magnate.log")
	log, err := New("debug", path)
	require.NoError(t, err)

	log.Debug("tick", zap.Int("day", 3))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tick")

	_, err = New("nope", "")
	assert.Error(t, err)
}
