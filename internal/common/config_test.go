package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/docqa/internal/storage/memory"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"DOCQA_ENV", "GO_ENV", "DOCQA_SERVER_PORT", "DOCQA_SERVER_HOST",
		"DOCQA_STORAGE_TYPE", "DOCQA_BADGER_PATH", "DOCQA_SQLITE_PATH",
		"DOCQA_LOG_LEVEL", "DOCQA_LOG_FORMAT", "DOCQA_LOG_OUTPUT",
		"DOCQA_GEMINI_MODEL", "DOCQA_GEMINI_BASE_URL", "DOCQA_GEMINI_TIMEOUT",
		"DOCQA_SEARCH_DEBOUNCE_DELAY", "DOCQA_GEMINI_API_KEY", "GOOGLE_API_KEY",
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docqa.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFiles_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 8086, cfg.Server.Port)
	assert.Equal(t, "badger", cfg.Storage.Type)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Equal(t, "v1beta", cfg.Gemini.APIVersion)
	assert.Empty(t, cfg.Gemini.Timeout)
	assert.Equal(t, "300ms", cfg.Search.DebounceDelay)
	assert.Equal(t, 10, cfg.Upload.Step)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromFiles_LaterFilesOverrideEarlier(t *testing.T) {
	clearConfigEnv(t)

	base := writeConfig(t, `
[server]
port = 9000
host = "0.0.0.0"

[gemini]
model = "gemini-1.5-pro"
`)
	override := writeConfig(t, `
[server]
port = 9100

[storage]
type = "sqlite"
`)

	cfg, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "gemini-1.5-pro", cfg.Gemini.Model)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
}

func TestLoadFromFiles_EnvOverridesFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DOCQA_SERVER_PORT", "9200")
	t.Setenv("DOCQA_LOG_OUTPUT", "stdout, file ,")
	t.Setenv("DOCQA_ENV", "production")

	cfg, err := LoadFromFiles(writeConfig(t, "[server]\nport = 9000\n"))
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, []string{"stdout", "file"}, cfg.Logging.Output)
	assert.True(t, cfg.IsProduction())
}

func TestLoadFromFiles_Errors(t *testing.T) {
	clearConfigEnv(t)

	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadFromFiles(writeConfig(t, "[server\nport = "))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"bad storage", func(c *Config) { c.Storage.Type = "redis" }, "unsupported storage type"},
		{"bad duration", func(c *Config) { c.Upload.Interval = "soon" }, "upload.interval"},
		{"zero step", func(c *Config) { c.Upload.Step = 0 }, "upload.step"},
		{"bad schedule", func(c *Config) { c.Maintenance.Schedule = "every day" }, "maintenance.schedule"},
		{"schedule ignored when disabled", func(c *Config) {
			c.Maintenance.Enabled = false
			c.Maintenance.Schedule = "every day"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 0, "")
	assert.Equal(t, 8086, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)

	ApplyFlagOverrides(cfg, 9999, "127.0.0.1")
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
}

func TestResolveAPIKey_Priority(t *testing.T) {
	clearConfigEnv(t)
	ctx := context.Background()
	kv := memory.NewKVStorage()

	_, err := ResolveAPIKey(ctx, kv, KeyGeminiAPIKey, "")
	assert.Error(t, err)

	key, err := ResolveAPIKey(ctx, kv, KeyGeminiAPIKey, "from-config")
	require.NoError(t, err)
	assert.Equal(t, "from-config", key)

	require.NoError(t, kv.Set(ctx, KeyGeminiAPIKey, "from-store", ""))
	key, err = ResolveAPIKey(ctx, kv, KeyGeminiAPIKey, "from-config")
	require.NoError(t, err)
	assert.Equal(t, "from-store", key)

	t.Setenv("GOOGLE_API_KEY", "from-google-env")
	key, err = ResolveAPIKey(ctx, kv, KeyGeminiAPIKey, "from-config")
	require.NoError(t, err)
	assert.Equal(t, "from-google-env", key)

	t.Setenv("DOCQA_GEMINI_API_KEY", "from-docqa-env")
	key, err = ResolveAPIKey(ctx, kv, KeyGeminiAPIKey, "from-config")
	require.NoError(t, err)
	assert.Equal(t, "from-docqa-env", key)
}

func TestParseDurationOr(t *testing.T) {
	assert.Equal(t, 250*time.Millisecond, ParseDurationOr("250ms", 0))
	assert.Equal(t, time.Second, ParseDurationOr("", time.Second))
	assert.Equal(t, time.Second, ParseDurationOr("nope", time.Second))
}
