package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorycore/internal/adapters/logging"
	"github.com/andrescamacho/factorycore/internal/application/common"
	"github.com/andrescamacho/factorycore/internal/infrastructure/config"
)

func TestSlogLogger_JSONIncludesMetadata(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := logging.NewWriterLogger(&buf, "json", slog.LevelDebug)

	// Act
	logger.Log(common.LevelWarning, "[Tick] starved", map[string]interface{}{"facility": "f-1"})

	// Assert
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "[Tick] starved", entry["msg"])
	assert.Equal(t, "f-1", entry["facility"])
}

func TestSlogLogger_FiltersBelowLevel(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := logging.NewWriterLogger(&buf, "text", logging.ParseLevel("warn"))

	// Act
	logger.Log(common.LevelInfo, "quiet", nil)
	logger.Log(common.LevelError, "loud", nil)

	// Assert
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestNewSlogLogger_FileOutput(t *testing.T) {
	// Arrange
	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "text",
		Output:   "file",
		FilePath: filepath.Join(t.TempDir(), "factory.log"),
	}

	// Act
	logger, err := logging.NewSlogLogger(cfg)

	// Assert
	require.NoError(t, err)
	logger.Log(common.LevelInfo, "hello", nil)
	assert.NoError(t, logger.Close())
}
