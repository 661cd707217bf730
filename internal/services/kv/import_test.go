package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/storage/memory"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestImportFile_EnvFormat(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewKVStorage()

	path := writeFile(t, ".env", `
# Google credentials
gemini_api_key="abc123"
export OTHER='quoted'
not a pair
EMPTY=
=orphan
`)

	result, err := ImportFile(ctx, storage, path, arbor.NewLogger())
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Loaded: 2, Skipped: 3}, result)

	value, err := storage.Get(ctx, "gemini_api_key")
	require.NoError(t, err)
	assert.Equal(t, "abc123", value)

	value, err = storage.Get(ctx, "OTHER")
	require.NoError(t, err)
	assert.Equal(t, "quoted", value)

	pair, err := storage.GetPair(ctx, "OTHER")
	require.NoError(t, err)
	assert.Equal(t, "Loaded from .env", pair.Description)
}

func TestImportFile_TOMLFormat(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewKVStorage()

	path := writeFile(t, "variables.toml", `
[gemini_api_key]
value = "from-toml"
description = "Google AI Studio key"

[unused]
value = ""
`)

	result, err := ImportFile(ctx, storage, path, arbor.NewLogger())
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Loaded: 1, Skipped: 1}, result)

	pair, err := storage.GetPair(ctx, "gemini_api_key")
	require.NoError(t, err)
	assert.Equal(t, "from-toml", pair.Value)
	assert.Equal(t, "Google AI Studio key", pair.Description)
}

func TestImportFile_Failures(t *testing.T) {
	ctx := context.Background()

	_, err := ImportFile(ctx, memory.NewKVStorage(), filepath.Join(t.TempDir(), "missing.env"), arbor.NewLogger())
	assert.Error(t, err)

	_, err = ImportFile(ctx, memory.NewKVStorage(), writeFile(t, "bad.toml", "[broken"), arbor.NewLogger())
	assert.Error(t, err)

	failing := &failingStorage{KVStorage: memory.NewKVStorage(), setErr: errors.New("disk full")}
	result, err := ImportFile(ctx, failing, writeFile(t, "keys.env", "A=1\nB=2\n"), arbor.NewLogger())
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Errors: 2}, result)
}
