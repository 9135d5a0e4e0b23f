package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerFromConfig_FileOutputCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "piewatch.log")

	logger := NewLoggerFromConfig(LoggingConfig{
		Level:    "debug",
		Outputs:  []string{"console", "file"},
		FilePath: path,
	})
	require.NotNil(t, logger)

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewLoggerFromConfig_FileWithoutPathSkipped(t *testing.T) {
	logger := NewLoggerFromConfig(LoggingConfig{Level: "info", Outputs: []string{"file"}})
	require.NotNil(t, logger)

	logger.WithCorrelationId("run-1").Info().Str("k", "v").Msg("no writers")
}
