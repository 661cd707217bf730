package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
)

const defaultTimeFormat = "15:04:05"

// InitLogger initializes the arbor logger with configuration
func InitLogger(config *Config) arbor.ILogger {
	timeFormat := config.Logging.TimeFormat
	if timeFormat == "" {
		timeFormat = defaultTimeFormat
	}

	logger := arbor.NewLogger()

	hasFileOutput := false
	hasStdoutOutput := false
	for _, output := range config.Logging.Output {
		switch output {
		case "file":
			hasFileOutput = true
		case "stdout", "console":
			hasStdoutOutput = true
		}
	}

	if hasFileOutput {
		if logsDir, err := logsDirectory(); err != nil {
			fmt.Printf("Warning: Failed to resolve logs directory: %v\n", err)
		} else if err := os.MkdirAll(logsDir, 0755); err != nil {
			fmt.Printf("Warning: Failed to create logs directory: %v\n", err)
		} else {
			logger = logger.WithFileWriter(models.WriterConfiguration{
				Type:             models.LogWriterTypeFile,
				FileName:         filepath.Join(logsDir, "docqa.log"),
				TimeFormat:       timeFormat,
				MaxSize:          50 * 1024 * 1024, // 50 MB
				MaxBackups:       3,
				TextOutput:       config.Logging.Format != "json",
				DisableTimestamp: false,
			})
		}
	}

	if hasStdoutOutput {
		logger = logger.WithConsoleWriter(consoleWriter(timeFormat))
	}

	logger = logger.WithLevelFromString(config.Logging.Level)

	return logger
}

// NewQuietLogger returns a console logger at the given level, for stdio
// transports where routine output would corrupt the protocol stream
func NewQuietLogger(level string) arbor.ILogger {
	return arbor.NewLogger().
		WithConsoleWriter(consoleWriter(defaultTimeFormat)).
		WithLevelFromString(level)
}

func consoleWriter(timeFormat string) models.WriterConfiguration {
	return models.WriterConfiguration{
		Type:             models.LogWriterTypeConsole,
		TimeFormat:       timeFormat,
		TextOutput:       true,
		DisableTimestamp: false,
	}
}

// logsDirectory places logs next to the executable
func logsDirectory() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(execPath), "logs"), nil
}
