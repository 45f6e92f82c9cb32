package logger

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONWithService(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Config{Level: "info", Format: "json", Output: path, Service: "reviews"}, SentryConfig{})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("review prepared", zap.Int64("review_id", 7))
	_ = log.Logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry), "only the info entry should be written")
	assert.Equal(t, "review prepared", entry["message"])
	assert.Equal(t, "reviews", entry["service"])
	assert.EqualValues(t, 7, entry["review_id"])
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	log, err := New(Config{Level: "loud", Output: "stderr"}, SentryConfig{})
	require.NoError(t, err)

	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestFieldsToMap(t *testing.T) {
	fields := []zapcore.Field{
		zap.String("s", "x"),
		zap.Int("i", 3),
		zap.Float64("f", 0.25),
		zap.Bool("b", true),
		zap.Duration("d", 2*time.Second),
		zap.Error(errors.New("boom")),
	}

	m := fieldsToMap(fields)

	assert.Equal(t, "x", m["s"])
	assert.Equal(t, int64(3), m["i"])
	assert.Equal(t, 0.25, m["f"])
	assert.Equal(t, true, m["b"])
	assert.Equal(t, "2s", m["d"])
	assert.Equal(t, "boom", m["error"])
}

func TestBuildEvent(t *testing.T) {
	entry := zapcore.Entry{Level: zapcore.ErrorLevel, Message: "publishing event failed", Time: time.Now()}

	event := buildEvent(entry, []zapcore.Field{zap.Error(errors.New("broker down"))})

	assert.Equal(t, sentry.LevelError, event.Level)
	require.Len(t, event.Exception, 1)
	assert.Equal(t, "broker down", event.Exception[0].Value)
}

func TestZapLevelToSentry(t *testing.T) {
	assert.Equal(t, sentry.LevelWarning, zapLevelToSentry(zapcore.WarnLevel))
	assert.Equal(t, sentry.LevelFatal, zapLevelToSentry(zapcore.PanicLevel))
}
