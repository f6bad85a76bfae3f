// internal/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shadowglass/inquest/internal/config"
)

// captureOutput captures stdout for the duration of a test. The returned
// cleanup must run before inspecting the buffer.
func captureOutput(t *testing.T) (*bytes.Buffer, func()) {
	t.Helper()
	originalStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		_, _ = buf.ReadFrom(r)
		close(done)
	}()

	cleanup := func() {
		w.Close()
		<-done
		os.Stdout = originalStdout
	}
	return &buf, cleanup
}

func TestInitializeLogger(t *testing.T) {
	t.Run("console format colorizes levels", func(t *testing.T) {
		ResetForTest()
		buf, cleanup := captureOutput(t)

		cfg := config.LoggerConfig{
			Level:       "debug",
			Format:      "console",
			ServiceName: "test-service",
			Colors:      config.ColorConfig{Info: "green"},
		}
		InitializeLogger(cfg)
		GetLogger().Info("console message")
		Sync()
		cleanup()

		output := buf.String()
		assert.Contains(t, output, "INFO")
		assert.Contains(t, output, "console message")
		assert.Contains(t, output, colorGreen)
		assert.Contains(t, output, colorReset)
	})

	t.Run("json format produces structured entries", func(t *testing.T) {
		ResetForTest()
		buf, cleanup := captureOutput(t)

		InitializeLogger(config.LoggerConfig{
			Level:       "info",
			Format:      "json",
			ServiceName: "json-test",
		})
		GetLogger().Warn("structured message", zap.String("key", "value"))
		Sync()
		cleanup()

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "json-test", entry["logger"])
		assert.Equal(t, "structured message", entry["msg"])
		assert.Equal(t, "value", entry["key"])
	})

	t.Run("writes to a log file when configured", func(t *testing.T) {
		ResetForTest()
		logFile := filepath.Join(t.TempDir(), "inquest-test.log")

		InitializeLogger(config.LoggerConfig{
			Level:   "debug",
			Format:  "json",
			LogFile: logFile,
			MaxSize: 1,
		})
		GetLogger().Error("file message")
		Sync()

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(content), "file message")
	})

	t.Run("initializes only once", func(t *testing.T) {
		ResetForTest()
		buf, cleanup := captureOutput(t)

		InitializeLogger(config.LoggerConfig{Level: "info", ServiceName: "first"})
		first := GetLogger()
		InitializeLogger(config.LoggerConfig{Level: "debug", ServiceName: "second"})
		second := GetLogger()

		assert.Equal(t, first, second)
		second.Info("once")
		Sync()
		cleanup()

		assert.True(t, strings.Contains(buf.String(), "first"))
		assert.False(t, strings.Contains(buf.String(), "second"))
	})
}

func TestGetLoggerFallback(t *testing.T) {
	ResetForTest()
	logger := GetLogger()
	require.NotNil(t, logger)
}

func TestGetLoggerReturnsGlobal(t *testing.T) {
	ResetForTest()
	InitializeLogger(config.LoggerConfig{Level: "info", ServiceName: "global-test"})
	assert.Equal(t, globalLogger.Load(), GetLogger())
}
