package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreMissingURL(t *testing.T) {
	store := newTestSQLiteStore(t)

	record, err := store.Get(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestSQLiteStoreRoundtrip(t *testing.T) {
	store := newTestSQLiteStore(t)
	content := "Hello"

	err := store.Set(context.Background(), SetArgs{
		URL:         "https://example.com",
		Service:     "youtube",
		ResourceKey: "abc",
		Content:     &content,
		Source:      "captionTracks",
		TTL:         time.Hour,
		Metadata:    map[string]any{"provider": "youtube", "video_id": "abc"},
	})
	require.NoError(t, err)

	record, err := store.Get(context.Background(), "https://example.com")

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Hello", *record.Content)
	assert.Equal(t, "captionTracks", record.Source)
	assert.Equal(t, "youtube", record.Service)
	assert.Equal(t, "abc", record.ResourceKey)
	assert.Equal(t, "abc", record.Metadata["video_id"])
	assert.False(t, record.Expired)
	assert.True(t, record.ExpiresAt.After(record.StoredAt))
}

func TestSQLiteStoreUpsertsOnConflict(t *testing.T) {
	store := newTestSQLiteStore(t)
	first, second := "First", "Second"
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, SetArgs{URL: "u", Service: "generic", Content: &first, Source: "html", TTL: time.Hour}))
	require.NoError(t, store.Set(ctx, SetArgs{URL: "u", Service: "generic", Content: &second, Source: "html", TTL: time.Hour}))

	record, err := store.Get(ctx, "u")

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Second", *record.Content)
}

func TestSQLiteStoreRetainsExpiredEntries(t *testing.T) {
	store := newTestSQLiteStore(t)
	content := "Hello"
	base := time.Now()
	store.now = func() time.Time { return base }

	require.NoError(t, store.Set(context.Background(), SetArgs{
		URL:     "https://example.com",
		Service: "youtube",
		Content: &content,
		Source:  "youtubei",
		TTL:     time.Hour,
	}))

	store.now = func() time.Time { return base.Add(2 * time.Hour) }
	record, err := store.Get(context.Background(), "https://example.com")

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.Expired)
	assert.Equal(t, "Hello", *record.Content)
}

func TestSQLiteStoreNegativeEntry(t *testing.T) {
	store := newTestSQLiteStore(t)

	require.NoError(t, store.Set(context.Background(), SetArgs{
		URL:     "https://example.com",
		Service: "youtube",
		Source:  "unavailable",
		TTL:     6 * time.Hour,
	}))

	record, err := store.Get(context.Background(), "https://example.com")

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Nil(t, record.Content)
	assert.Equal(t, "unavailable", record.Source)
}

func TestSQLiteStoreWrapsQueryErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS transcript_cache").
		WillReturnResult(sqlmock.NewResult(0, 0))
	store, err := NewSQLiteStoreWithDB(db)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT service, resource_key, content, source").
		WillReturnError(assert.AnError)

	_, err = store.Get(context.Background(), "https://example.com")

	assert.ErrorContains(t, err, "failed to read cached transcript")
	assert.NoError(t, mock.ExpectationsWereMet())
}
