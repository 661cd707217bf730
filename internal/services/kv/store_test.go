package kv

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/interfaces"
	"github.com/ternarybob/docqa/internal/storage/memory"
)

type failingStorage struct {
	*memory.KVStorage
	getErr error
	setErr error
}

func (f *failingStorage) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.KVStorage.Get(ctx, key)
}

func (f *failingStorage) Set(ctx context.Context, key, value, description string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.KVStorage.Set(ctx, key, value, description)
}

type record struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := NewStore(memory.NewKVStorage(), arbor.NewLogger())
	ctx := context.Background()

	require.True(t, store.Save(ctx, "records", []record{{ID: "a", Count: 1}, {ID: "b", Count: 2}}))

	var out []record
	require.True(t, store.Load(ctx, "records", &out))
	assert.Equal(t, []record{{ID: "a", Count: 1}, {ID: "b", Count: 2}}, out)
}

func TestStore_LoadMissingKey(t *testing.T) {
	store := NewStore(memory.NewKVStorage(), arbor.NewLogger())

	var out []record
	assert.False(t, store.Load(context.Background(), "absent", &out))
	assert.Nil(t, out)
}

func TestStore_LoadMalformedJSON(t *testing.T) {
	backend := memory.NewKVStorage()
	require.NoError(t, backend.Set(context.Background(), "records", "{not json", ""))

	store := NewStore(backend, arbor.NewLogger())

	var out []record
	assert.False(t, store.Load(context.Background(), "records", &out))
}

func TestStore_LoadBackendFailure(t *testing.T) {
	store := NewStore(&failingStorage{KVStorage: memory.NewKVStorage(), getErr: errors.New("disk gone")}, arbor.NewLogger())

	var out string
	assert.False(t, store.Load(context.Background(), "selectedDocument", &out))
}

func TestStore_SaveBackendFailureIsDropped(t *testing.T) {
	backend := &failingStorage{KVStorage: memory.NewKVStorage(), setErr: errors.New("quota exceeded")}
	store := NewStore(backend, arbor.NewLogger())

	assert.False(t, store.Save(context.Background(), "records", []record{{ID: "a"}}))

	_, err := backend.KVStorage.Get(context.Background(), "records")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}

func TestStore_SaveUnserializableValue(t *testing.T) {
	store := NewStore(memory.NewKVStorage(), arbor.NewLogger())

	assert.False(t, store.Save(context.Background(), "bad", math.Inf(1)))
}

func TestStore_SaveStringIsJSONEncoded(t *testing.T) {
	backend := memory.NewKVStorage()
	store := NewStore(backend, arbor.NewLogger())

	require.True(t, store.Save(context.Background(), "selectedDocument", "1"))

	raw, err := backend.Get(context.Background(), "selectedDocument")
	require.NoError(t, err)
	assert.Equal(t, `"1"`, raw)
}
