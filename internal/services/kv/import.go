package kv

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/interfaces"
)

// ImportResult counts the outcome of an import
type ImportResult struct {
	Loaded  int
	Skipped int
	Errors  int
}

// variableEntry is one table in a variables TOML file:
//
//	[gemini_api_key]
//	value = "..."
//	description = "optional"
type variableEntry struct {
	Value       string `toml:"value"`
	Description string `toml:"description"`
}

// ImportFile loads key/value pairs from path into storage.
// Files ending in .toml are read as variable tables, anything else as KEY=value lines.
func ImportFile(ctx context.Context, storage interfaces.KeyValueStorage, path string, logger arbor.ILogger) (ImportResult, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return importVariables(ctx, storage, path, logger)
	}
	return importEnv(ctx, storage, path, logger)
}

// importEnv supports KEY=value, quoted values, # comments and blank lines
func importEnv(ctx context.Context, storage interfaces.KeyValueStorage, path string, logger arbor.ILogger) (ImportResult, error) {
	var result ImportResult

	file, err := os.Open(path)
	if err != nil {
		return result, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	description := "Loaded from " + filepath.Base(path)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			logger.Warn().Str("file", path).Int("line", lineNum).Msg("Invalid line format, expected KEY=value")
			result.Skipped++
			continue
		}

		value = unquote(strings.TrimSpace(value))
		if value == "" {
			logger.Warn().Str("file", path).Str("key", key).Msg("Skipping variable with empty value")
			result.Skipped++
			continue
		}

		importPair(ctx, storage, key, value, description, &result, logger)
	}

	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("failed to read %s: %w", path, err)
	}

	logImport(logger, path, result)
	return result, nil
}

func importVariables(ctx context.Context, storage interfaces.KeyValueStorage, path string, logger arbor.ILogger) (ImportResult, error) {
	var result ImportResult

	content, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var variables map[string]variableEntry
	if err := toml.Unmarshal(content, &variables); err != nil {
		return result, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	fileName := filepath.Base(path)
	for key, variable := range variables {
		if variable.Value == "" {
			logger.Warn().Str("file", fileName).Str("key", key).Msg("Skipping variable with empty value")
			result.Skipped++
			continue
		}

		description := variable.Description
		if description == "" {
			description = "Loaded from " + fileName
		}
		importPair(ctx, storage, key, variable.Value, description, &result, logger)
	}

	logImport(logger, path, result)
	return result, nil
}

func importPair(ctx context.Context, storage interfaces.KeyValueStorage, key, value, description string, result *ImportResult, logger arbor.ILogger) {
	if err := storage.Set(ctx, key, value, description); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to store imported variable")
		result.Errors++
		return
	}
	logger.Debug().Str("key", key).Msg("Imported variable")
	result.Loaded++
}

func unquote(value string) string {
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

func logImport(logger arbor.ILogger, path string, result ImportResult) {
	logger.Info().
		Str("file", path).
		Int("loaded", result.Loaded).
		Int("skipped", result.Skipped).
		Int("errors", result.Errors).
		Msg("Finished importing variables")
}
