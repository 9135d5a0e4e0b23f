// Package common provides shared utilities for piewatch
package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	arbormodels "github.com/ternarybob/arbor/models"
)

// Logger wraps arbor.ILogger to provide a consistent interface
type Logger struct {
	arbor.ILogger
}

func consoleWriter() arbormodels.WriterConfiguration {
	return arbormodels.WriterConfiguration{
		Type:             arbormodels.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}
}

// NewLoggerFromConfig creates a logger with the writers named in the logging config
func NewLoggerFromConfig(config LoggingConfig) *Logger {
	logger := arbor.NewLogger()

	for _, output := range config.Outputs {
		switch output {
		case "console", "stdout":
			logger = logger.WithConsoleWriter(consoleWriter())
		case "file":
			if config.FilePath == "" {
				continue
			}
			if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to create log directory: %v\n", err)
				continue
			}
			logger = logger.WithFileWriter(arbormodels.WriterConfiguration{
				Type:       arbormodels.LogWriterTypeFile,
				FileName:   config.FilePath,
				TimeFormat: "15:04:05",
				MaxSize:    100 * 1024 * 1024, // 100 MB
				MaxBackups: 3,
				OutputType: arbormodels.OutputFormatLogfmt,
			})
		}
	}

	logger = logger.WithLevelFromString(config.Level)
	return &Logger{ILogger: logger}
}

// NewSilentLogger creates a logger with no writers attached
func NewSilentLogger() *Logger {
	return &Logger{ILogger: arbor.NewLogger()}
}

// WithCorrelationId returns a logger that tags every entry with id.
func (l *Logger) WithCorrelationId(id string) *Logger {
	return &Logger{ILogger: l.ILogger.WithCorrelationId(id)}
}
