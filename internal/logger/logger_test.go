package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func readEntries(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry), scanner.Text())
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	return entries
}

// Feature: sales-api, Property 20: Production logs are structured
func TestProperty_ProductionLogsAreStructured(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every production entry is JSON with level, timestamp and message", prop.ForAll(
		func(message string, orderID int64) bool {
			path := filepath.Join(t.TempDir(), "app.log")
			log, err := build("production", "", path)
			if err != nil {
				return false
			}

			log.Info(message, zap.Int64("order_id", orderID))
			log.Sync()

			entries := readEntries(t, path)
			if len(entries) != 1 {
				return false
			}
			entry := entries[0]
			return entry["level"] == "info" &&
				entry["msg"] == message &&
				entry["timestamp"] != nil &&
				entry["order_id"] == float64(orderID)
		},
		gen.AlphaString(),
		gen.Int64Range(1, 1<<40),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProductionSkipsDebugUnlessLevelIsSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := build("production", "", path)
	require.NoError(t, err)
	log.Debug("hidden")
	log.Sync()
	assert.Empty(t, readEntries(t, path))

	path = filepath.Join(t.TempDir(), "app.log")
	log, err = build("production", "debug", path)
	require.NoError(t, err)
	log.Debug("visible")
	log.Sync()
	assert.Len(t, readEntries(t, path), 1)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("development", "loud")
	assert.Error(t, err)
}

func TestDevelopmentLoggerEnablesDebug(t *testing.T) {
	log, err := New("development", "")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewWithDefaults(t *testing.T) {
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("LOG_LEVEL", "warn")

	log := NewWithDefaults()
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}
