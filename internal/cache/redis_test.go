package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration test: runs only against a real Redis instance.
func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping Redis integration test")
	}
	store := NewRedisStore(addr)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRedisStoreRoundtrip(t *testing.T) {
	store := newTestRedisStore(t)
	url := "https://example.com/" + uuid.NewString()
	content := "Hello"

	err := store.Set(context.Background(), SetArgs{
		URL:         url,
		Service:     "youtube",
		ResourceKey: "abc",
		Content:     &content,
		Source:      "youtubei",
		TTL:         time.Minute,
		Metadata:    map[string]any{"provider": "youtube"},
	})
	require.NoError(t, err)

	record, err := store.Get(context.Background(), url)

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Hello", *record.Content)
	assert.Equal(t, "youtubei", record.Source)
	assert.Equal(t, "youtube", record.Service)
	assert.Equal(t, "abc", record.ResourceKey)
	assert.False(t, record.Expired)
}

func TestRedisStoreMissingURL(t *testing.T) {
	store := newTestRedisStore(t)

	record, err := store.Get(context.Background(), "https://example.com/"+uuid.NewString())

	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestRedisStoreReportsLogicalExpiry(t *testing.T) {
	store := newTestRedisStore(t)
	url := "https://example.com/" + uuid.NewString()
	content := "Hello"

	// A zero TTL makes the entry logically expired immediately while the
	// stale-retention window keeps the key readable.
	err := store.Set(context.Background(), SetArgs{
		URL:     url,
		Service: "youtube",
		Content: &content,
		Source:  "youtubei",
		TTL:     -time.Second,
	})
	require.NoError(t, err)

	record, err := store.Get(context.Background(), url)

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.Expired)
	assert.Equal(t, "Hello", *record.Content)
}
